package iface

import (
	"fmt"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/probonopd/qwlroots/errors"
)

// opPlan is the binding decision for one named operation.
type opPlan struct {
	name       string
	binding    OpBinding
	slot       int
	method     int
	pos        int
	trampoline reflect.Value
}

// Plan binds the slots of a declared type to the methods of capability
// type C. Build one per capability type with Bind, then construct any
// number of objects with it.
type Plan[C Owner[H, I], H, I any] struct {
	typ     *Type[H, I]
	capType reflect.Type
	ops     []opPlan
	bound   []int
}

// Bind builds a plan for the named operations of C. An operation that C
// implements but the implementation struct has no slot for is an error,
// as is a method whose signature does not fit its slot.
func Bind[C Owner[H, I], H, I any](t *Type[H, I], ops ...string) (*Plan[C, H, I], error) {
	capType := reflect.TypeFor[C]()
	if capType.Kind() == reflect.Interface {
		return nil, errors.New(errors.PhaseBind, errors.KindInvalidInput).
			Path(t.name).
			GoType(capType.String()).
			Detail("capability must be a concrete type").
			Build()
	}

	p := &Plan[C, H, I]{typ: t, capType: capType}
	seen := make(map[string]bool, len(ops))
	var missing []string

	for _, name := range ops {
		switch {
		case name == "":
			return nil, errors.InvalidInput(errors.PhaseBind, "operation name is empty")
		case name == destroySlot:
			return nil, errors.New(errors.PhaseBind, errors.KindInvalidInput).
				Path(t.name, name).
				Detail("%s is bound by the type itself", destroySlot).
				Build()
		case seen[name]:
			return nil, errors.New(errors.PhaseBind, errors.KindInvalidInput).
				Path(t.name, name).
				Detail("operation listed twice").
				Build()
		}
		seen[name] = true

		op := opPlan{name: name, slot: -1, method: -1, pos: -1}
		s, hasSlot := t.slot(name)
		m, hasMethod := capType.MethodByName(name)

		switch {
		case hasSlot && hasMethod:
			if !compatible(s.typ, m.Type) {
				return nil, errors.SignatureMismatch(t.name, name, m.Type.String(), s.typ.String())
			}
			op.binding = Bound
			op.slot = s.index
			op.method = m.Index
			op.pos = len(p.bound)
			op.trampoline = p.trampoline(s.typ, name, op.pos)
			p.bound = append(p.bound, len(p.ops))
		case hasSlot:
			op.binding = Disabled
			op.slot = s.index
		case hasMethod:
			missing = append(missing, name)
		default:
			op.binding = Absent
		}
		p.ops = append(p.ops, op)
	}

	if len(missing) > 0 {
		return nil, errors.NewMissingSlotsError(t.name, t.implType.String(), missing)
	}

	t.addPlan(p.Info())
	Logger().Debug("bound plan",
		zap.String("type", t.name),
		zap.String("capability", capType.String()),
		zap.Int("bound", len(p.bound)))
	return p, nil
}

// MustBind is Bind that panics on error. Use it in package-level variables
// so a mismatch with the native library fails at program start.
func MustBind[C Owner[H, I], H, I any](t *Type[H, I], ops ...string) *Plan[C, H, I] {
	p, err := Bind[C](t, ops...)
	if err != nil {
		panic(err)
	}
	return p
}

// compatible reports whether method (with its receiver as first parameter)
// can serve slot (with the handle as first parameter).
func compatible(slot, method reflect.Type) bool {
	if slot.NumIn() != method.NumIn() || slot.NumOut() != method.NumOut() {
		return false
	}
	if slot.IsVariadic() != method.IsVariadic() {
		return false
	}
	for i := 1; i < slot.NumIn(); i++ {
		if !slot.In(i).AssignableTo(method.In(i)) {
			return false
		}
	}
	for i := 0; i < slot.NumOut(); i++ {
		if !method.Out(i).AssignableTo(slot.Out(i)) {
			return false
		}
	}
	return true
}

// trampoline builds the function stored in a slot. It recovers the
// managing object from the handle and calls the method bound at position
// pos for that object.
func (p *Plan[C, H, I]) trampoline(slot reflect.Type, name string, pos int) reflect.Value {
	t := p.typ
	variadic := slot.IsVariadic()
	return reflect.MakeFunc(slot, func(args []reflect.Value) []reflect.Value {
		h := (*H)(args[0].UnsafePointer())
		o := t.Get(h)
		if o.plan != any(p) {
			panic(errors.StaleHandle(t.name, uintptr(unsafe.Pointer(h)),
				fmt.Sprintf("slot %s belongs to another capability type", name)))
		}
		m := o.methods[pos]
		if variadic {
			return m.CallSlice(args[1:])
		}
		return m.Call(args[1:])
	})
}

// Construct allocates and initializes the object embedded in c. args are
// passed to the type's init entry point after the handle and
// implementation. On failure nothing stays allocated and c can be used
// again.
func (p *Plan[C, H, I]) Construct(c C, args ...any) error {
	t := p.typ
	rv := reflect.ValueOf(c)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return errors.NilPointer(errors.PhaseInit, []string{t.name}, p.capType.String())
	}
	o := c.base()
	if o == nil {
		return errors.NilPointer(errors.PhaseInit, []string{t.name}, p.capType.String())
	}
	if o.state != Unallocated {
		return errors.InvalidState(errors.PhaseInit, t.name, o.state.String())
	}
	log := Logger().With(zap.String("type", t.name), zap.String("capability", p.capType.String()))

	// Allocation: implementation first, then the handle.
	alloc := t.Allocator()
	implMem, err := alloc.Alloc(t.implType)
	if err != nil {
		return errors.AllocationFailed(t.implType.String(), err)
	}
	pairMem, err := alloc.Alloc(t.pairType)
	if err != nil {
		alloc.Free(t.implType, implMem)
		return errors.AllocationFailed(t.handleType.String(), err)
	}

	o.typ = t
	o.alloc = alloc
	o.impl = (*I)(implMem)
	o.pair = (*pair[H, I])(pairMem)
	o.pair.owner = o
	o.capability = c
	o.plan = p
	o.state = PairAllocated
	log.Debug("pair allocated")

	// Bindings.
	implV := reflect.NewAt(t.implType, implMem).Elem()
	for _, s := range t.slots {
		implV.Field(s.index).SetZero()
	}
	for _, i := range p.bound {
		op := p.ops[i]
		implV.Field(op.slot).Set(op.trampoline)
	}
	if t.destroy >= 0 {
		implV.Field(t.destroy).Set(reflect.ValueOf(func(h *H) {
			t.Get(h).destroy("native")
		}))
	}
	o.methods = make([]reflect.Value, len(p.bound))
	for pos, i := range p.bound {
		o.methods[pos] = rv.Method(p.ops[i].method)
	}
	o.state = BoundLinked
	log.Debug("slots bound")

	// Native init.
	h := &o.pair.native
	*t.implFieldOf(h) = o.impl
	if t.init != nil {
		if err := t.init.call(unsafe.Pointer(h), implMem, t.handleType, t.implType, args); err != nil {
			p.abort(o)
			return errors.NativeFailure(errors.PhaseInit, t.init.name, err)
		}
	} else if len(args) > 0 {
		p.abort(o)
		return errors.NativeFailure(errors.PhaseInit, t.name,
			fmt.Errorf("type has no init entry point but got %d arguments", len(args)))
	}
	if *t.implFieldOf(h) != o.impl {
		// init succeeded, so its native state has to be undone.
		if t.finish != nil {
			t.finish(h)
		}
		p.abort(o)
		return errors.NativeFailure(errors.PhaseInit, t.name,
			fmt.Errorf("init left %s pointing at another implementation", t.implField))
	}

	// Notifications.
	for _, d := range t.declaredSignals() {
		s, conn := d.attach(o)
		o.signals = append(o.signals, s)
		if conn != nil {
			o.relays = append(o.relays, conn)
		}
	}
	o.state = Initialized

	o.key = uintptr(unsafe.Pointer(h))
	id, err := live.Insert(o.key, t.name, liveEntry[H, I]{o: o})
	if err != nil {
		log.Warn("object not registered", zap.Error(err))
	}
	o.id = id
	log.Debug("object initialized", zap.Uint32("id", uint32(id)))
	return nil
}

// abort releases a pair whose init did not succeed and returns the object
// to Unallocated.
func (p *Plan[C, H, I]) abort(o *Interface[H, I]) {
	o.release()
	o.capability = nil
	o.plan = nil
	o.state = Unallocated
	Logger().Debug("construction aborted", zap.String("type", p.typ.name))
}

// Type returns the declared type the plan binds.
func (p *Plan[C, H, I]) Type() *Type[H, I] { return p.typ }

// Binding reports what the plan did with one operation. Operations the
// plan was not built with report Absent.
func (p *Plan[C, H, I]) Binding(op string) OpBinding {
	for _, o := range p.ops {
		if o.name == op {
			return o.binding
		}
	}
	return Absent
}

// Info describes the plan for the catalog.
func (p *Plan[C, H, I]) Info() PlanInfo {
	info := PlanInfo{Capability: p.capType.String()}
	for _, op := range p.ops {
		info.Ops = append(info.Ops, OpInfo{Name: op.name, Binding: op.binding})
	}
	return info
}
