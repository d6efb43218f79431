package wlr

import "unsafe"

// readonlyDataBuffer wraps caller-owned pixel memory for the duration of
// one upload. base must stay the first field.
type readonlyDataBuffer struct {
	base   Buffer
	data   []byte
	format uint32
	stride int
}

var readonlyDataBufferImpl = BufferImpl{
	Destroy:            readonlyDataBufferDestroy,
	BeginDataPtrAccess: readonlyDataBufferBeginDataPtrAccess,
	EndDataPtrAccess:   func(*Buffer) {},
}

func readonlyDataBufferFromBuffer(b *Buffer) *readonlyDataBuffer {
	return (*readonlyDataBuffer)(unsafe.Pointer(b))
}

func newReadonlyDataBuffer(format uint32, stride, width, height int, data []byte) *readonlyDataBuffer {
	bpp := FormatBytesPerPixel(format)
	if bpp == 0 || stride < width*bpp {
		return nil
	}
	if height > 0 && len(data) < stride*(height-1)+width*bpp {
		return nil
	}
	buf := &readonlyDataBuffer{}
	if err := BufferInit(&buf.base, &readonlyDataBufferImpl, width, height); err != nil {
		return nil
	}
	buf.data = data
	buf.format = format
	buf.stride = stride
	return buf
}

func readonlyDataBufferDestroy(b *Buffer) {
	buf := readonlyDataBufferFromBuffer(b)
	BufferFinish(b)
	buf.data = nil
}

func readonlyDataBufferBeginDataPtrAccess(b *Buffer, flags uint32) ([]byte, uint32, int, bool) {
	if flags&DataPtrAccessWrite != 0 {
		return nil, FormatInvalid, 0, false
	}
	buf := readonlyDataBufferFromBuffer(b)
	if buf.data == nil {
		return nil, FormatInvalid, 0, false
	}
	return buf.data, buf.format, buf.stride, true
}
