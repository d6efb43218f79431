package wlr

import (
	"github.com/probonopd/qwlroots/errors"
	"github.com/probonopd/qwlroots/wl"
)

// ShmAttributes describe a shared-memory backed buffer.
type ShmAttributes struct {
	FD     int
	Format uint32
	Width  int
	Height int
	Stride int
	Offset int64
}

// BufferImpl is the buffer vtable. Destroy is mandatory: it is called once
// the buffer is dropped and unlocked and must release the buffer memory.
type BufferImpl struct {
	Destroy            func(b *Buffer)
	GetShm             func(b *Buffer) (ShmAttributes, bool)
	BeginDataPtrAccess func(b *Buffer, flags uint32) (data []byte, format uint32, stride int, ok bool)
	EndDataPtrAccess   func(b *Buffer)
}

// Buffer is a reference-counted pixel buffer.
type Buffer struct {
	Impl *BufferImpl

	Width  int
	Height int

	Dropped          bool
	NLocks           int
	AccessingDataPtr bool

	Events struct {
		Destroy wl.Signal
		Release wl.Signal
	}
}

// BufferInit initializes a buffer for the given implementation. The
// buffer struct is reset, so callers must not store state in it before.
func BufferInit(b *Buffer, impl *BufferImpl, width, height int) error {
	if impl == nil || impl.Destroy == nil {
		return errors.InvalidInput(errors.PhaseNative, "buffer implementation requires Destroy")
	}
	if (impl.BeginDataPtrAccess == nil) != (impl.EndDataPtrAccess == nil) {
		return errors.InvalidInput(errors.PhaseNative, "BeginDataPtrAccess and EndDataPtrAccess must be set together")
	}
	if width <= 0 || height <= 0 {
		return errors.New(errors.PhaseNative, errors.KindInvalidInput).
			Value([2]int{width, height}).
			Detail("invalid buffer size %dx%d", width, height).
			Build()
	}

	*b = Buffer{
		Impl:   impl,
		Width:  width,
		Height: height,
	}
	b.Events.Destroy.Init()
	b.Events.Release.Init()
	return nil
}

// BufferFinish emits the destroy event. Implementations call it from
// their Destroy slot before releasing memory.
func BufferFinish(b *Buffer) {
	b.Events.Destroy.Emit(b)
}

// BufferDrop marks the buffer as no longer needed by its producer. It is
// destroyed as soon as the last lock is released.
func BufferDrop(b *Buffer) {
	if b == nil || b.Dropped {
		return
	}
	b.Dropped = true
	bufferConsiderDestroy(b)
}

// BufferLock takes a reference on the buffer.
func BufferLock(b *Buffer) *Buffer {
	b.NLocks++
	return b
}

// BufferUnlock releases a reference; the release event fires when the
// last lock is gone.
func BufferUnlock(b *Buffer) {
	if b == nil || b.NLocks == 0 {
		return
	}
	b.NLocks--
	if b.NLocks == 0 {
		b.Events.Release.Emit(b)
	}
	bufferConsiderDestroy(b)
}

// bufferConsiderDestroy must be the last use of b by its caller: the
// Destroy slot frees the buffer.
func bufferConsiderDestroy(b *Buffer) {
	if !b.Dropped || b.NLocks > 0 || b.AccessingDataPtr {
		return
	}
	b.Impl.Destroy(b)
}

// BufferGetShm returns the shared-memory attributes, if the buffer has any.
func BufferGetShm(b *Buffer) (ShmAttributes, bool) {
	if b.Impl.GetShm == nil {
		return ShmAttributes{}, false
	}
	return b.Impl.GetShm(b)
}

// BufferBeginDataPtrAccess gives CPU access to the pixel data. Every
// successful call must be paired with BufferEndDataPtrAccess.
func BufferBeginDataPtrAccess(b *Buffer, flags uint32) (data []byte, format uint32, stride int, ok bool) {
	if b.Impl.BeginDataPtrAccess == nil || b.AccessingDataPtr {
		return nil, FormatInvalid, 0, false
	}
	data, format, stride, ok = b.Impl.BeginDataPtrAccess(b, flags)
	if !ok {
		return nil, FormatInvalid, 0, false
	}
	b.AccessingDataPtr = true
	return data, format, stride, true
}

// BufferEndDataPtrAccess ends an access started by BufferBeginDataPtrAccess.
func BufferEndDataPtrAccess(b *Buffer) {
	if !b.AccessingDataPtr {
		return
	}
	b.Impl.EndDataPtrAccess(b)
	b.AccessingDataPtr = false
	bufferConsiderDestroy(b)
}
