package qw

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/probonopd/qwlroots/registry"
	"github.com/probonopd/qwlroots/signal"
	"github.com/probonopd/qwlroots/wl"
)

// ObjectType tracks Go wrappers for handles owned by the native side. A
// handle maps to at most one wrapper, which lives until the handle's
// native destroy signal fires.
type ObjectType[H any] struct {
	name    string
	destroy func(*H) *wl.Signal
	setup   func(*Object[H])
	table   *registry.Table
}

// NewObjectType declares a wrapper type. destroy returns the handle's
// native destroy signal. setup, if not nil, runs once per new wrapper.
func NewObjectType[H any](name string, destroy func(*H) *wl.Signal, setup func(*Object[H])) *ObjectType[H] {
	return &ObjectType[H]{
		name:    name,
		destroy: destroy,
		setup:   setup,
		table:   registry.NewTable(),
	}
}

// Name returns the wrapper type name.
func (t *ObjectType[H]) Name() string { return t.name }

// Len returns the number of live wrappers.
func (t *ObjectType[H]) Len() int { return t.table.Len() }

// Registry exposes the wrapper table for observers.
func (t *ObjectType[H]) Registry() *registry.Table { return t.table }

// Get returns the existing wrapper for h.
func (t *ObjectType[H]) Get(h *H) (*Object[H], bool) {
	if h == nil {
		return nil, false
	}
	v, ok := t.table.Get(uintptr(unsafe.Pointer(h)))
	if !ok {
		return nil, false
	}
	return v.(*Object[H]), true
}

// From returns the wrapper for h, creating it on first use.
func (t *ObjectType[H]) From(h *H) *Object[H] {
	if h == nil {
		return nil
	}
	if o, ok := t.Get(h); ok {
		return o
	}

	o := &Object[H]{
		typ:     t,
		handle:  h,
		signals: make(map[string]any),
	}
	id, err := t.table.Insert(uintptr(unsafe.Pointer(h)), t.name, o)
	if err != nil {
		Logger().Warn("wrapper not registered", zap.String("type", t.name), zap.Error(err))
	}
	o.id = id
	o.destroyConn = signal.Listen(t.destroy(h), func(any) { o.handleDestroy() })
	if t.setup != nil {
		t.setup(o)
	}
	Logger().Debug("wrapped native object", zap.String("type", t.name), zap.Uint32("id", uint32(id)))
	return o
}

// Object is the wrapper of one native-owned handle.
type Object[H any] struct {
	typ         *ObjectType[H]
	handle      *H
	id          registry.ID
	before      *signal.Signal[*H]
	destroyConn *signal.Connection
	relays      []*signal.Connection
	signals     map[string]any
	value       any
}

// Handle returns the native handle, or nil once it has been destroyed.
func (o *Object[H]) Handle() *H { return o.handle }

// ID returns the wrapper's serial number.
func (o *Object[H]) ID() registry.ID { return o.id }

// Destroyed reports whether the native destroy signal has fired.
func (o *Object[H]) Destroyed() bool { return o.handle == nil }

// BeforeDestroy is raised when the native object announces its
// destruction, before any relay is detached.
func (o *Object[H]) BeforeDestroy() *signal.Signal[*H] {
	if o.before == nil {
		o.before = signal.New[*H]("before_destroy")
		if o.handle == nil {
			o.before.Close()
		}
	}
	return o.before
}

// Value returns the value attached with SetValue.
func (o *Object[H]) Value() any { return o.value }

// SetValue attaches a typed front-end to the wrapper.
func (o *Object[H]) SetValue(v any) { o.value = v }

func (o *Object[H]) handleDestroy() {
	h := o.handle
	if h == nil {
		return
	}
	if o.before != nil {
		o.before.Emit(h)
		o.before.Close()
	}
	for _, c := range o.relays {
		c.Disconnect()
	}
	o.relays = nil
	for _, s := range o.signals {
		s.(interface{ Close() }).Close()
	}
	o.destroyConn.Disconnect()

	o.typ.table.Remove(uintptr(unsafe.Pointer(h)))
	o.handle = nil
	Logger().Debug("native object destroyed", zap.String("type", o.typ.name), zap.Uint32("id", uint32(o.id)))
}

// RelaySignal republishes the native signal src as a signal of o named
// name. The relay is detached when o is destroyed.
func RelaySignal[T, H any](o *Object[H], name string, src *wl.Signal, convert func(any) T) *signal.Signal[T] {
	s := signal.New[T](name)
	if o.handle == nil {
		s.Close()
		return s
	}
	o.relays = append(o.relays, signal.Relay(src, s, convert))
	o.signals[name] = s
	return s
}

// ObjectSignal returns a signal previously added with RelaySignal. An
// unknown name yields a closed signal.
func ObjectSignal[T, H any](o *Object[H], name string) *signal.Signal[T] {
	if s, ok := o.signals[name].(*signal.Signal[T]); ok {
		return s
	}
	s := signal.New[T](name)
	s.Close()
	return s
}

func toVoid(any) signal.Void { return signal.Void{} }
