// Package qw wraps the wlr object model.
//
// Two kinds of wrappers live here. Objects created by the native side,
// such as a renderer from AutocreateRenderer, are wrapped by ObjectType:
// the wrapper is found again from its handle with From and goes away when
// the native destroy event fires. Objects implemented in Go embed one of
// the Interface types (BufferInterface, TextureInterface,
// RendererInterface) and are built with a plan from the matching Bind
// function:
//
//	type memBuffer struct {
//		qw.BufferInterface
//		pixels []byte
//	}
//
//	func (b *memBuffer) BeginDataPtrAccess(flags uint32) ([]byte, uint32, int, bool) {
//		return b.pixels, wlr.FormatARGB8888, 4 * b.Width(), true
//	}
//
//	func (b *memBuffer) EndDataPtrAccess() {}
//
//	var memBufferPlan = qw.MustBindBuffer[*memBuffer](qw.BufferOps...)
//
// Native code then drives the Go object through its slots.
package qw
