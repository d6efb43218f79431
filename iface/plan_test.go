package iface

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/probonopd/qwlroots/errors"
)

func TestBind_Bindings(t *testing.T) {
	tests := []struct {
		op   string
		want OpBinding
	}{
		{"GetValue", Bound},
		{"SetValue", Bound},
		{"Sum", Bound},
		{"Describe", Disabled},
		{"Reset", Absent},
		{"NeverListed", Absent},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			assert.Equal(t, tt.want, counterPlan.Binding(tt.op))
		})
	}
	assert.Equal(t, "bound", Bound.String())
	assert.Equal(t, "disabled", Disabled.String())
	assert.Equal(t, "absent", Absent.String())
}

func TestBind_TrampolineIsTransparent(t *testing.T) {
	c := newCounter(t, "transparent", nil)
	c.value = 42
	h := c.Handle()

	got, ok := thingGetValue(h)
	require.True(t, ok)
	assert.Equal(t, 42, got)
	assert.Equal(t, c.GetValue(), h.impl.GetValue(h))

	h.impl.SetValue(h, 5)
	assert.Equal(t, 5, c.value)

	assert.Equal(t, c.Sum(1, 2, 3), h.impl.Sum(h, 1, 2, 3))
	assert.Equal(t, 5, h.impl.Sum(h))
}

func TestBind_DisabledSlotsAreNil(t *testing.T) {
	c := newCounter(t, "disabled", nil)
	assert.Nil(t, c.Impl().Describe, "capability does not implement Describe")
	assert.NotNil(t, c.Impl().Destroy, "destroy slot is always bound")

	l := &labeller{prefix: "> "}
	require.NoError(t, labellerPlan.Construct(l, "labels", (*[]string)(nil)))
	defer l.Destroy()

	h := l.Handle()
	assert.Nil(t, h.impl.GetValue, "listed but not implemented")
	assert.Nil(t, h.impl.SetValue, "not listed in the plan")
	assert.Nil(t, h.impl.Sum)
	assert.Equal(t, "> hi", h.impl.Describe(h, "hi"))

	_, ok := thingGetValue(h)
	assert.False(t, ok)
}

func TestBind_InstancesDoNotShareSlots(t *testing.T) {
	a := newCounter(t, "a", nil)
	b := newCounter(t, "b", nil)
	a.value, b.value = 1, 2

	assert.NotSame(t, a.Impl(), b.Impl())
	assert.Equal(t, 1, a.Handle().impl.GetValue(a.Handle()))
	assert.Equal(t, 2, b.Handle().impl.GetValue(b.Handle()))
}

type extra struct {
	Interface[thing, thingImpl]
}

func (*extra) Resize(int)     {}
func (*extra) Rotate()        {}
func (*extra) GetValue() int  { return 0 }
func (*extra) Describe() bool { return false }

func TestBind_MissingSlots(t *testing.T) {
	_, err := Bind[*extra](thingType, "GetValue", "Resize", "Rotate")
	require.Error(t, err)

	var missing *qerrors.MissingSlotsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Resize", "Rotate"}, missing.Slots)
	assert.Equal(t, "test.thing", missing.Type)
	assert.True(t, errors.Is(err, &qerrors.Error{Phase: qerrors.PhaseBind, Kind: qerrors.KindSlotMissing}))
	assert.Contains(t, err.Error(), "Resize")

	assert.Panics(t, func() { MustBind[*extra](thingType, "Resize") })
}

func TestBind_SignatureMismatch(t *testing.T) {
	_, err := Bind[*extra](thingType, "Describe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &qerrors.Error{Phase: qerrors.PhaseBind, Kind: qerrors.KindSignatureMismatch}))
	assert.Contains(t, err.Error(), "Describe")
}

func TestBind_InvalidOperations(t *testing.T) {
	invalid := &qerrors.Error{Phase: qerrors.PhaseBind, Kind: qerrors.KindInvalidInput}
	tests := []struct {
		name string
		ops  []string
	}{
		{"empty", []string{""}},
		{"reserved destroy", []string{"Destroy"}},
		{"duplicate", []string{"GetValue", "GetValue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind[*counter](thingType, tt.ops...)
			assert.True(t, errors.Is(err, invalid), "got %v", err)
		})
	}
}

func TestCompatible(t *testing.T) {
	type h struct{}
	type stringer interface{ String() string }

	tests := []struct {
		name   string
		slot   any
		method any
		want   bool
	}{
		{"identical", func(*h, int) int { return 0 }, func(*extra, int) int { return 0 }, true},
		{"arity", func(*h, int) int { return 0 }, func(*extra) int { return 0 }, false},
		{"results", func(*h) int { return 0 }, func(*extra) {}, false},
		{"param type", func(*h, int) {}, func(*extra, string) {}, false},
		{"param assignable", func(*h, *qerrors.Error) {}, func(*extra, error) {}, true},
		{"result assignable", func(*h) error { return nil }, func(*extra) *qerrors.Error { return nil }, true},
		{"result not assignable", func(*h) stringer { return nil }, func(*extra) error { return nil }, false},
		{"variadic", func(*h, ...int) {}, func(*extra, []int) {}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compatible(reflect.TypeOf(tt.slot), reflect.TypeOf(tt.method)))
		})
	}
}
