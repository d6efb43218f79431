package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the object lifecycle the error occurred
type Phase string

const (
	PhaseDeclare  Phase = "declare"  // type and signal declaration
	PhaseBind     Phase = "bind"     // capability to vtable binding
	PhaseAlloc    Phase = "alloc"    // handle/impl pair allocation
	PhaseInit     Phase = "init"     // native init entry point
	PhaseRecover  Phase = "recover"  // handle to object recovery
	PhaseRegistry Phase = "registry" // live object bookkeeping
	PhaseNative   Phase = "native"   // native library operations
)

// Kind categorizes the error
type Kind string

const (
	KindSlotMissing       Kind = "slot_missing"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindAllocation        Kind = "allocation"
	KindNativeFailure     Kind = "native_failure"
	KindStaleHandle       Kind = "stale_handle"
	KindNilPointer        Kind = "nil_pointer"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidState      Kind = "invalid_state"
	KindDuplicate         Kind = "duplicate"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	NativeType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.NativeType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.NativeType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", native type ")
			b.WriteString(e.NativeType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("native type ")
			b.WriteString(e.NativeType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.NativeType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the path, usually type name then operation name
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// NativeType sets the native type name
func (b *Builder) NativeType(t string) *Builder {
	b.err.NativeType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// SlotMissing creates an error for a capability operation that has no
// slot in the native implementation struct.
func SlotMissing(typeName, op, implType string) *Error {
	return &Error{
		Phase:      PhaseBind,
		Kind:       KindSlotMissing,
		Path:       []string{typeName, op},
		NativeType: implType,
		Detail:     fmt.Sprintf("slot %q not found, check the native library version", op),
	}
}

// SignatureMismatch creates an error for an operation whose method
// signature cannot be forwarded from the slot signature.
func SignatureMismatch(typeName, op, goType, slotType string) *Error {
	return &Error{
		Phase:      PhaseBind,
		Kind:       KindSignatureMismatch,
		Path:       []string{typeName, op},
		GoType:     goType,
		NativeType: slotType,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(goType string, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		GoType: goType,
		Detail: "failed to allocate",
		Cause:  cause,
	}
}

// NativeFailure creates an error for a native entry point that reported failure
func NativeFailure(phase Phase, entry string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNativeFailure,
		Detail: fmt.Sprintf("%s failed", entry),
		Cause:  cause,
	}
}

// StaleHandle creates the error carried by a failed recovery assertion
func StaleHandle(typeName string, addr uintptr, detail string) *Error {
	return &Error{
		Phase:  PhaseRecover,
		Kind:   KindStaleHandle,
		Path:   []string{typeName},
		Value:  addr,
		Detail: fmt.Sprintf("handle %#x: %s", addr, detail),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidState creates an error for an operation issued in the wrong lifecycle state
func InvalidState(phase Phase, what, state string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidState,
		Detail: fmt.Sprintf("%s in state %s", what, state),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already registered", what, name),
	}
}

// MissingSlotsError is returned when a binding plan names operations that
// the native implementation struct has no slot for.
type MissingSlotsError struct {
	Type     string
	ImplType string
	Slots    []string
}

// NewMissingSlotsError creates an error from the list of missing operation names
func NewMissingSlotsError(typeName, implType string, slots []string) *MissingSlotsError {
	return &MissingSlotsError{
		Type:     typeName,
		ImplType: implType,
		Slots:    append([]string(nil), slots...),
	}
}

func (e *MissingSlotsError) Error() string {
	if len(e.Slots) == 0 {
		return "[bind] slot_missing: no slots specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[bind] slot_missing: %s has %d operation(s) without a slot in %s, check the native library version:",
		e.Type, len(e.Slots), e.ImplType))
	for _, s := range e.Slots {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// Is reports whether target matches this error type. A MissingSlotsError
// also matches a bind/slot_missing *Error.
func (e *MissingSlotsError) Is(target error) bool {
	switch t := target.(type) {
	case *MissingSlotsError:
		return true
	case *Error:
		return t.Phase == PhaseBind && t.Kind == KindSlotMissing
	}
	return false
}

// Unwrap returns one SlotMissing error per missing slot.
func (e *MissingSlotsError) Unwrap() []error {
	errs := make([]error, 0, len(e.Slots))
	for _, s := range e.Slots {
		errs = append(errs, SlotMissing(e.Type, s, e.ImplType))
	}
	return errs
}
