package wlr

import "unsafe"

func ptrOf(b *Buffer) unsafe.Pointer { return unsafe.Pointer(b) }
