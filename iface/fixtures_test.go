package iface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probonopd/qwlroots/wl"
)

// thing is a small native-shaped object: a handle with an implementation
// pointer, native signals and a few entry points that call through the
// slots the way a C library would.
type thing struct {
	impl   *thingImpl
	label  string
	log    *[]string
	events struct {
		changed wl.Signal
		destroy wl.Signal
	}
}

type thingImpl struct {
	GetValue func(*thing) int
	SetValue func(*thing, int)
	Describe func(*thing, string) string
	Sum      func(*thing, ...int) int
	Destroy  func(*thing)
}

func thingInit(t *thing, impl *thingImpl, label string, log *[]string) error {
	if label == "" {
		return errors.New("thing needs a label")
	}
	*t = thing{impl: impl, label: label, log: log}
	t.events.changed.Init()
	t.events.destroy.Init()
	t.record("init:" + label)
	if label == "orphan" {
		t.impl = nil
	}
	return nil
}

func thingFinish(t *thing) {
	t.events.destroy.Emit(t)
	t.record("finish:" + t.label)
}

func (t *thing) record(s string) {
	if t.log != nil {
		*t.log = append(*t.log, s)
	}
}

func thingGetValue(t *thing) (int, bool) {
	if t.impl.GetValue == nil {
		return 0, false
	}
	return t.impl.GetValue(t), true
}

func thingSetValue(t *thing, v int) {
	if t.impl.SetValue != nil {
		t.impl.SetValue(t, v)
	}
	t.events.changed.Emit(v)
}

// thingRelease is the native side deciding the object is done.
func thingRelease(t *thing) {
	t.impl.Destroy(t)
}

var (
	thingType = MustDeclare[thing, thingImpl]("test.thing",
		WithInit(thingInit),
		WithFinish(thingFinish))

	thingChanged = DeclareSignal[int](thingType, "changed",
		func(t *thing) *wl.Signal { return &t.events.changed }, nil)

	thingPoked = DeclareSignal[string](thingType, "poked", nil, nil)
)

// counter implements the value operations.
type counter struct {
	Interface[thing, thingImpl]
	value int
}

func (c *counter) GetValue() int  { return c.value }
func (c *counter) SetValue(v int) { c.value = v }
func (c *counter) Sum(vs ...int) int {
	total := c.value
	for _, v := range vs {
		total += v
	}
	return total
}

var counterPlan = MustBind[*counter](thingType, "GetValue", "SetValue", "Describe", "Sum", "Reset")

// labeller implements only Describe.
type labeller struct {
	Interface[thing, thingImpl]
	prefix string
}

func (l *labeller) Describe(s string) string { return l.prefix + s }

var labellerPlan = MustBind[*labeller](thingType, "GetValue", "Describe")

func newCounter(t *testing.T, label string, log *[]string) *counter {
	t.Helper()
	c := &counter{}
	require.NoError(t, counterPlan.Construct(c, label, log))
	t.Cleanup(c.Destroy)
	return c
}

// panicErr runs fn and returns the error it panicked with.
func panicErr(t *testing.T, fn func()) error {
	t.Helper()
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err, _ = r.(error)
			}
		}()
		fn()
	}()
	require.Error(t, err, "expected a panic carrying an error")
	return err
}
