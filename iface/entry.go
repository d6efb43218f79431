package iface

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/probonopd/qwlroots/errors"
)

type resultKind uint8

const (
	resultNone resultKind = iota
	resultError
	resultBool
)

var errorType = reflect.TypeFor[error]()

// entryPoint is a native init function called reflectively with the handle,
// the implementation and the caller's construction arguments.
type entryPoint struct {
	name      string
	fn        reflect.Value
	implParam int
	params    []reflect.Type
	variadic  bool
	result    resultKind
}

func newEntryPoint(typeName string, handleType, implType reflect.Type, fn any) (*entryPoint, error) {
	fail := func(format string, args ...any) error {
		return errors.New(errors.PhaseDeclare, errors.KindInvalidInput).
			Path(typeName, "init").
			GoType(fmt.Sprintf("%T", fn)).
			Detail(format, args...).
			Build()
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fail("init entry point is not a function")
	}
	ft := v.Type()
	handlePtr := reflect.PointerTo(handleType)
	implPtr := reflect.PointerTo(implType)
	if ft.NumIn() == 0 || ft.In(0) != handlePtr {
		return nil, fail("init entry point must take %s first", handlePtr)
	}

	ep := &entryPoint{
		name:      funcName(fn),
		fn:        v,
		implParam: -1,
		variadic:  ft.IsVariadic(),
	}
	for i := 1; i < ft.NumIn(); i++ {
		if ft.In(i) == implPtr {
			if ep.implParam >= 0 {
				return nil, fail("init entry point takes %s more than once", implPtr)
			}
			ep.implParam = i
			continue
		}
		ep.params = append(ep.params, ft.In(i))
	}
	if ep.variadic && ep.implParam == ft.NumIn()-1 {
		return nil, fail("implementation cannot be the variadic parameter")
	}

	switch {
	case ft.NumOut() == 0:
		ep.result = resultNone
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
		ep.result = resultError
	case ft.NumOut() == 1 && ft.Out(0).Kind() == reflect.Bool:
		ep.result = resultBool
	default:
		return nil, fail("init entry point must return nothing, error or bool, got %s", ft)
	}
	return ep, nil
}

// call runs the entry point. h and impl are pointers to H and I.
func (ep *entryPoint) call(h, impl unsafe.Pointer, handleType, implType reflect.Type, args []any) error {
	in, err := ep.arguments(args)
	if err != nil {
		return err
	}

	full := make([]reflect.Value, 0, len(in)+2)
	full = append(full, reflect.NewAt(handleType, h))
	for _, a := range in {
		if ep.implParam == len(full) {
			full = append(full, reflect.NewAt(implType, impl))
		}
		full = append(full, a)
	}
	if ep.implParam == len(full) {
		full = append(full, reflect.NewAt(implType, impl))
	}

	out := ep.fn.Call(full)
	switch ep.result {
	case resultError:
		if e, _ := out[0].Interface().(error); e != nil {
			return e
		}
	case resultBool:
		if !out[0].Bool() {
			return fmt.Errorf("%s reported failure", ep.name)
		}
	}
	return nil
}

// arguments converts the caller's values to the entry point's parameter
// types. Integer and float constants are converted when representable.
func (ep *entryPoint) arguments(args []any) ([]reflect.Value, error) {
	fixed := len(ep.params)
	if ep.variadic {
		fixed--
	}
	if len(args) < fixed || (!ep.variadic && len(args) != fixed) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", ep.name, fixed, len(args))
	}

	out := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := ep.paramType(i)
		v, err := convertArg(a, pt)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", ep.name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (ep *entryPoint) paramType(i int) reflect.Type {
	if ep.variadic && i >= len(ep.params)-1 {
		return ep.params[len(ep.params)-1].Elem()
	}
	return ep.params[i]
}

func convertArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", pt)
	}

	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}

	switch {
	case isSigned(v.Kind()) && isInteger(pt.Kind()):
		n := v.Int()
		if isUnsigned(pt.Kind()) {
			if n < 0 || reflect.Zero(pt).OverflowUint(uint64(n)) {
				break
			}
		} else if reflect.Zero(pt).OverflowInt(n) {
			break
		}
		return v.Convert(pt), nil
	case isUnsigned(v.Kind()) && isInteger(pt.Kind()):
		n := v.Uint()
		if isUnsigned(pt.Kind()) {
			if reflect.Zero(pt).OverflowUint(n) {
				break
			}
		} else if n > math.MaxInt64 || reflect.Zero(pt).OverflowInt(int64(n)) {
			break
		}
		return v.Convert(pt), nil
	case isFloat(v.Kind()) && isFloat(pt.Kind()):
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), pt)
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
