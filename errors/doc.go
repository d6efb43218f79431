// Package errors provides structured error types for the binding layer.
//
// Errors are categorized by Phase (where in the object lifecycle the error
// occurred) and Kind (error category). The Error type includes context:
// a path (declared type, then operation), Go and native type names, and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindSignatureMismatch).
//		Path("buffer", "BeginDataPtrAccess").
//		GoType("func(uint32) []byte").
//		NativeType("func(*wlr.Buffer, uint32) ([]byte, uint32, int, bool)").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SlotMissing("buffer", "GetDmabuf", "wlr.BufferImpl")
//	err := errors.AllocationFailed("wlr.BufferImpl", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
