package iface

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/probonopd/qwlroots/errors"
	"github.com/probonopd/qwlroots/signal"
)

// destroySlot is the reserved implementation field that native code calls
// when it decides the object's lifetime is over.
const destroySlot = "Destroy"

// Option configures a declared type.
type Option func(*options)

type options struct {
	init      any
	finish    any
	allocator Allocator
}

// WithInit sets the native init entry point. fn takes the handle first,
// optionally a pointer to the implementation at any later position, then
// the construction arguments. It may return nothing, an error or a bool
// (false means failure).
func WithInit(fn any) Option {
	return func(o *options) { o.init = fn }
}

// WithFinish sets the native finish entry point, a func(*H) called during
// teardown before memory is released.
func WithFinish(fn any) Option {
	return func(o *options) { o.finish = fn }
}

// WithAllocator replaces the heap allocator for this type.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.allocator = a }
}

// slotInfo is one func field of the implementation struct.
type slotInfo struct {
	name  string
	index int
	typ   reflect.Type
}

// signalAttacher creates one declared notification for a new object.
type signalAttacher[H, I any] interface {
	signalName() string
	attach(o *Interface[H, I]) (closer, *signal.Connection)
}

type closer interface{ Close() }

// Type is a declared native entity: a handle struct H whose single *I field
// points at the implementation struct I.
type Type[H, I any] struct {
	name       string
	handleType reflect.Type
	implType   reflect.Type
	pairType   reflect.Type
	implField  string
	implOffset uintptr
	slots      []slotInfo
	destroy    int
	init       *entryPoint
	finish     func(*H)
	finishName string

	mu        sync.Mutex
	allocator Allocator
	signals   []signalAttacher[H, I]
	plans     []PlanInfo
}

// Declare validates the shapes of H and I and registers the type in the
// catalog.
func Declare[H, I any](name string, opts ...Option) (*Type[H, I], error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseDeclare, "type name is empty")
	}

	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Type[H, I]{
		name:       name,
		handleType: reflect.TypeFor[H](),
		implType:   reflect.TypeFor[I](),
		pairType:   reflect.TypeFor[pair[H, I]](),
		destroy:    -1,
		allocator:  cfg.allocator,
	}
	if t.allocator == nil {
		t.allocator = HeapAllocator{}
	}

	if err := t.scanHandle(); err != nil {
		return nil, err
	}
	if err := t.scanImpl(); err != nil {
		return nil, err
	}
	if cfg.init != nil {
		ep, err := newEntryPoint(t.name, t.handleType, t.implType, cfg.init)
		if err != nil {
			return nil, err
		}
		t.init = ep
	}
	if cfg.finish != nil {
		fn, ok := cfg.finish.(func(*H))
		if !ok {
			return nil, t.declareError("finish entry point must be func(*%s), got %T", t.handleType, cfg.finish)
		}
		t.finish = fn
		t.finishName = funcName(cfg.finish)
	}

	register(t)
	Logger().Debug("declared type",
		zap.String("type", name),
		zap.String("handle", t.handleType.String()),
		zap.Int("slots", len(t.slots)))
	return t, nil
}

// MustDeclare is Declare that panics on error. It is meant for package-level
// variables.
func MustDeclare[H, I any](name string, opts ...Option) *Type[H, I] {
	t, err := Declare[H, I](name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Type[H, I]) declareError(format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseDeclare, errors.KindInvalidInput).
		Path(t.name).
		GoType(t.handleType.String()).
		Detail(format, args...).
		Build()
}

func (t *Type[H, I]) scanHandle() error {
	if t.handleType.Kind() != reflect.Struct {
		return t.declareError("handle type %s is not a struct", t.handleType)
	}
	if t.implType.Kind() != reflect.Struct {
		return t.declareError("implementation type %s is not a struct", t.implType)
	}

	want := reflect.PointerTo(t.implType)
	found := 0
	for i := 0; i < t.handleType.NumField(); i++ {
		f := t.handleType.Field(i)
		if f.Type == want {
			found++
			t.implField = f.Name
			t.implOffset = f.Offset
		}
	}
	switch found {
	case 0:
		return t.declareError("handle type %s has no %s field", t.handleType, want)
	case 1:
		return nil
	default:
		return t.declareError("handle type %s has %d %s fields", t.handleType, found, want)
	}
}

func (t *Type[H, I]) scanImpl() error {
	handlePtr := reflect.PointerTo(t.handleType)
	for i := 0; i < t.implType.NumField(); i++ {
		f := t.implType.Field(i)
		if f.Type.Kind() != reflect.Func {
			continue
		}
		if !f.IsExported() {
			return t.declareError("slot %s.%s is unexported", t.implType, f.Name)
		}
		if f.Type.NumIn() == 0 || f.Type.In(0) != handlePtr {
			return t.declareError("slot %s.%s must take %s first, got %s", t.implType, f.Name, handlePtr, f.Type)
		}
		if f.Name == destroySlot {
			if f.Type.NumIn() != 1 || f.Type.NumOut() != 0 {
				return t.declareError("destroy slot must be func(%s), got %s", handlePtr, f.Type)
			}
			t.destroy = i
		}
		t.slots = append(t.slots, slotInfo{name: f.Name, index: i, typ: f.Type})
	}
	return nil
}

func (t *Type[H, I]) slot(name string) (slotInfo, bool) {
	for _, s := range t.slots {
		if s.name == name {
			return s, true
		}
	}
	return slotInfo{}, false
}

// implFieldOf returns the location of the implementation pointer inside h.
func (t *Type[H, I]) implFieldOf(h *H) **I {
	return (**I)(unsafe.Add(unsafe.Pointer(h), t.implOffset))
}

// Name returns the declared type name.
func (t *Type[H, I]) Name() string { return t.name }

// HandleType returns the reflect type of H.
func (t *Type[H, I]) HandleType() reflect.Type { return t.handleType }

// ImplType returns the reflect type of I.
func (t *Type[H, I]) ImplType() reflect.Type { return t.implType }

// Allocator returns the allocator used for new objects.
func (t *Type[H, I]) Allocator() Allocator {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocator
}

// SetAllocator replaces the allocator. Objects keep the allocator they
// were constructed with.
func (t *Type[H, I]) SetAllocator(a Allocator) {
	if a == nil {
		a = HeapAllocator{}
	}
	t.mu.Lock()
	t.allocator = a
	t.mu.Unlock()
}

func (t *Type[H, I]) addSignal(s signalAttacher[H, I]) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.signals = append(t.signals, s)
	return len(t.signals) - 1
}

func (t *Type[H, I]) declaredSignals() []signalAttacher[H, I] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]signalAttacher[H, I](nil), t.signals...)
}

func (t *Type[H, I]) addPlan(p PlanInfo) {
	t.mu.Lock()
	t.plans = append(t.plans, p)
	t.mu.Unlock()
}

// funcName returns the short package-qualified name of a function value.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
