package iface

import (
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/probonopd/qwlroots/errors"
	"github.com/probonopd/qwlroots/registry"
	"github.com/probonopd/qwlroots/signal"
)

// pair is the memory handed to native code. The native struct is the first
// field, so a *H received in a callback converts back to the pair.
type pair[H, I any] struct {
	native H
	owner  *Interface[H, I]
}

// live maps handle addresses of initialized objects to their managing
// objects.
var live = registry.NewTable()

// Registry returns the table of live objects. Keys are handle addresses
// and kinds are declared type names.
func Registry() *registry.Table { return live }

// liveEntry is the registry value of an initialized object. Clearing the
// registry destroys the objects still in it.
type liveEntry[H, I any] struct {
	o *Interface[H, I]
}

func (e liveEntry[H, I]) Drop() { e.o.destroy("registry") }

// DestroyAll tears down every live object.
func DestroyAll() {
	live.Clear()
}

// Owner is satisfied by any type that embeds Interface[H, I].
type Owner[H, I any] interface {
	base() *Interface[H, I]
}

// Interface owns one handle and one implementation. Embed it in a struct
// to make that struct a managing object.
type Interface[H, I any] struct {
	typ        *Type[H, I]
	alloc      Allocator
	pair       *pair[H, I]
	impl       *I
	capability any
	plan       any
	methods    []reflect.Value
	signals    []closer
	relays     []*signal.Connection
	before     *signal.Signal[*H]
	key        uintptr
	id         registry.ID
	state      State
	teardown   bool
}

func (o *Interface[H, I]) base() *Interface[H, I] { return o }

// Handle returns the native handle, or nil outside the object's lifetime.
func (o *Interface[H, I]) Handle() *H {
	if o.pair == nil {
		return nil
	}
	return &o.pair.native
}

// Impl returns the implementation struct, or nil outside the object's
// lifetime.
func (o *Interface[H, I]) Impl() *I { return o.impl }

// State returns the lifecycle state.
func (o *Interface[H, I]) State() State { return o.state }

// Type returns the declared type, or nil before construction.
func (o *Interface[H, I]) Type() *Type[H, I] { return o.typ }

// Capability returns the managing object passed to Construct.
func (o *Interface[H, I]) Capability() any { return o.capability }

// ID returns the object's live registry ID.
func (o *Interface[H, I]) ID() registry.ID { return o.id }

// BeforeDestroy is raised once when teardown starts, before the finish
// entry point runs. It is the last notification the object delivers.
func (o *Interface[H, I]) BeforeDestroy() *signal.Signal[*H] {
	if o.before == nil {
		o.before = signal.New[*H]("before_destroy")
		if o.state >= Finished {
			o.before.Close()
		}
	}
	return o.before
}

// Destroy tears the object down. It runs at most once no matter whether the
// owner or native code gets there first; later calls do nothing.
func (o *Interface[H, I]) Destroy() {
	o.destroy("owner")
}

func (o *Interface[H, I]) destroy(path string) {
	if o.teardown || o.state != Initialized {
		return
	}
	o.teardown = true
	t := o.typ
	h := o.Handle()
	log := Logger().With(zap.String("type", t.name), zap.Uint32("id", uint32(o.id)), zap.String("path", path))

	if o.before != nil {
		o.before.Emit(h)
		o.before.Close()
	}
	for _, c := range o.relays {
		c.Disconnect()
	}
	for _, s := range o.signals {
		s.Close()
	}
	o.relays = nil

	if t.finish != nil {
		t.finish(h)
	}
	o.state = Finished
	log.Debug("object finished", zap.String("finish", t.finishName))

	live.Remove(o.key)
	o.release()
	o.state = Freed
	log.Debug("object freed")
}

// release frees the handle and then the implementation.
func (o *Interface[H, I]) release() {
	t := o.typ
	if o.pair != nil {
		o.alloc.Free(t.pairType, unsafe.Pointer(o.pair))
		o.pair = nil
	}
	if o.impl != nil {
		o.alloc.Free(t.implType, unsafe.Pointer(o.impl))
		o.impl = nil
	}
	o.methods = nil
	o.key = 0
}

// Get recovers the managing object from a handle passed in by native code.
// A handle that does not belong to a live object of this type panics with
// a stale handle error.
func (t *Type[H, I]) Get(h *H) *Interface[H, I] {
	if h == nil {
		panic(errors.NilPointer(errors.PhaseRecover, []string{t.name}, "*"+t.handleType.String()))
	}
	p := (*pair[H, I])(unsafe.Pointer(h))
	o := p.owner
	switch {
	case o == nil:
		panic(errors.StaleHandle(t.name, uintptr(unsafe.Pointer(h)), "handle has no managing object"))
	case o.pair != p:
		panic(errors.StaleHandle(t.name, uintptr(unsafe.Pointer(h)), "managing object owns a different handle"))
	case o.impl == nil || o.impl != *t.implFieldOf(h):
		panic(errors.StaleHandle(t.name, uintptr(unsafe.Pointer(h)), "implementation pointer does not match the handle's "+t.implField+" field"))
	}
	return o
}

// Lookup is the checked variant of Get for pointers of unknown origin. It
// consults the live registry before touching the memory behind h.
func (t *Type[H, I]) Lookup(h *H) (*Interface[H, I], bool) {
	if h == nil {
		return nil, false
	}
	v, ok := live.GetKind(uintptr(unsafe.Pointer(h)), t.name)
	if !ok {
		return nil, false
	}
	e, ok := v.(liveEntry[H, I])
	if !ok || e.o.typ != t || e.o.Handle() != h {
		return nil, false
	}
	return e.o, true
}

// Recover returns the managing object behind h as its capability type.
// It reports false when h is not live or the object is not a C.
func Recover[C any, H, I any](t *Type[H, I], h *H) (C, bool) {
	var zero C
	o, ok := t.Lookup(h)
	if !ok {
		return zero, false
	}
	c, ok := o.capability.(C)
	if !ok {
		return zero, false
	}
	return c, true
}
