// Package qwlroots binds Go types to a C-style object model in which every
// native object carries a pointer to a table of function slots.
//
// The native side calls through those slots and hands out raw handle
// pointers. This module lets a Go type stand behind such a handle: its
// methods fill the slots, native calls reach it through trampolines, and
// the Go object is found again from the bare handle.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	qwlroots/
//	├── iface/           Type declaration, binding plans, construction and teardown
//	├── qw/              Wrappers for the wlr object model (buffer, texture, renderer)
//	├── wlr/             Native object model: vtables, init/finish, pixman renderer
//	├── wl/              wl_signal and wl_listener primitives
//	├── signal/          Typed Go notifications and native signal relays
//	├── registry/        Address-keyed table of live objects with observers
//	├── errors/          Structured error types for debugging
//	└── cmd/qwinspect/   Catalog listing, lifecycle demo and interactive inspector
//
// # Quick Start
//
// Implement a native buffer in Go:
//
//	type memBuffer struct {
//	    qw.BufferInterface
//	    pixels []byte
//	}
//
//	func (b *memBuffer) BeginDataPtrAccess(flags uint32) ([]byte, uint32, int, bool) {
//	    return b.pixels, wlr.FormatARGB8888, 4 * b.Width(), true
//	}
//
//	func (b *memBuffer) EndDataPtrAccess() {}
//
//	var plan = qw.MustBindBuffer[*memBuffer](qw.BufferOps...)
//
//	b := &memBuffer{pixels: make([]byte, 4*w*h)}
//	if err := plan.Construct(b, w, h); err != nil {
//	    log.Fatal(err)
//	}
//
//	r, _ := qw.AutocreateRenderer("pixman")
//	tex := r.TextureFromBuffer(b.Handle())
//
// # Lifetime
//
// An object is torn down exactly once, whether the owner calls Destroy or
// native code calls the Destroy slot. BeforeDestroy fires first, then the
// finish hook runs, then the handle and implementation table are freed.
// Handles must not be used after that point; Type.Get panics on a handle
// whose implementation table no longer matches.
//
// # Thread Safety
//
// Declarations and plans are safe for concurrent use. Objects follow the
// native model and must be used from a single goroutine.
package qwlroots
