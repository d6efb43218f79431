package qw

import (
	"github.com/probonopd/qwlroots/iface"
	"github.com/probonopd/qwlroots/signal"
	"github.com/probonopd/qwlroots/wl"
	"github.com/probonopd/qwlroots/wlr"
)

// BufferType is the declared wlr_buffer. Objects are constructed with the
// buffer width and height.
var BufferType = iface.MustDeclare[wlr.Buffer, wlr.BufferImpl]("wlr_buffer",
	iface.WithInit(wlr.BufferInit),
	iface.WithFinish(wlr.BufferFinish))

// BufferOps lists every overridable buffer operation.
var BufferOps = []string{"GetShm", "BeginDataPtrAccess", "EndDataPtrAccess"}

var bufferRelease = iface.DeclareSignal(BufferType, "release",
	func(b *wlr.Buffer) *wl.Signal { return &b.Events.Release }, toVoid)

// BufferInterface is embedded by Go-implemented buffers. The buffer is
// destroyed once it is dropped and the last lock is released.
type BufferInterface struct {
	iface.Interface[wlr.Buffer, wlr.BufferImpl]
}

// BindBuffer builds a plan for a Go buffer type.
func BindBuffer[C iface.Owner[wlr.Buffer, wlr.BufferImpl]](ops ...string) (*iface.Plan[C, wlr.Buffer, wlr.BufferImpl], error) {
	return iface.Bind[C](BufferType, ops...)
}

// MustBindBuffer is BindBuffer that panics on error.
func MustBindBuffer[C iface.Owner[wlr.Buffer, wlr.BufferImpl]](ops ...string) *iface.Plan[C, wlr.Buffer, wlr.BufferImpl] {
	return iface.MustBind[C](BufferType, ops...)
}

// BufferFromHandle returns the Go buffer behind a native buffer pointer.
func BufferFromHandle[C any](b *wlr.Buffer) (C, bool) {
	return iface.Recover[C](BufferType, b)
}

// Release fires when the last lock on the buffer is released.
func (b *BufferInterface) Release() *signal.Signal[signal.Void] {
	return bufferRelease.Of(b)
}

// Width returns the buffer width, or 0 outside its lifetime.
func (b *BufferInterface) Width() int {
	if h := b.Handle(); h != nil {
		return h.Width
	}
	return 0
}

// Height returns the buffer height, or 0 outside its lifetime.
func (b *BufferInterface) Height() int {
	if h := b.Handle(); h != nil {
		return h.Height
	}
	return 0
}

// Lock takes a reference on the buffer.
func (b *BufferInterface) Lock() {
	if h := b.Handle(); h != nil {
		wlr.BufferLock(h)
	}
}

// Unlock releases a reference. The buffer may be destroyed by this call.
func (b *BufferInterface) Unlock() {
	if h := b.Handle(); h != nil {
		wlr.BufferUnlock(h)
	}
}

// Drop gives up the producer's interest in the buffer. The buffer may be
// destroyed by this call.
func (b *BufferInterface) Drop() {
	if h := b.Handle(); h != nil {
		wlr.BufferDrop(h)
	}
}

// Locks returns the number of outstanding locks.
func (b *BufferInterface) Locks() int {
	if h := b.Handle(); h != nil {
		return h.NLocks
	}
	return 0
}
