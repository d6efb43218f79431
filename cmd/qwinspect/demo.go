package main

import (
	"fmt"
	"io"

	"github.com/probonopd/qwlroots/iface"
	"github.com/probonopd/qwlroots/qw"
	"github.com/probonopd/qwlroots/signal"
	"github.com/probonopd/qwlroots/wlr"
)

const demoSize = 4

// checkerBuffer is a Go buffer holding an ARGB8888 checkerboard.
type checkerBuffer struct {
	qw.BufferInterface
	pixels []byte
}

func newCheckerBuffer(size int) *checkerBuffer {
	b := &checkerBuffer{pixels: make([]byte, 4*size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(0x20)
			if (x+y)%2 == 0 {
				v = 0xe0
			}
			px := b.pixels[4*(y*size+x):]
			px[0], px[1], px[2], px[3] = v, v, v, 0xff
		}
	}
	return b
}

func (b *checkerBuffer) BeginDataPtrAccess(flags uint32) ([]byte, uint32, int, bool) {
	if flags&wlr.DataPtrAccessWrite != 0 {
		return nil, wlr.FormatInvalid, 0, false
	}
	return b.pixels, wlr.FormatARGB8888, 4 * b.Width(), true
}

func (b *checkerBuffer) EndDataPtrAccess() {}

var checkerBufferPlan = qw.MustBindBuffer[*checkerBuffer](qw.BufferOps...)

// runDemo builds a Go buffer, uploads it through a native renderer and
// tears both down, reporting each lifecycle step to w.
func runDemo(w io.Writer, rendererName string) error {
	r, err := qw.AutocreateRenderer(rendererName)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Destroy()
	fmt.Fprintf(w, "renderer: %s (pixman=%v, drm fd %d)\n", displayName(rendererName), r.IsPixman(), r.DRMFD())

	b := newCheckerBuffer(demoSize)
	if err := checkerBufferPlan.Construct(b, demoSize, demoSize); err != nil {
		return fmt.Errorf("construct buffer: %w", err)
	}
	fmt.Fprintf(w, "buffer %d: %s, %dx%d\n", b.ID(), b.State(), b.Width(), b.Height())

	b.Release().Connect(func(signal.Void) { fmt.Fprintln(w, "event: release") })
	b.BeforeDestroy().Connect(func(*wlr.Buffer) { fmt.Fprintln(w, "event: before destroy") })

	if got, ok := qw.BufferFromHandle[*checkerBuffer](b.Handle()); !ok || got != b {
		return fmt.Errorf("buffer %d not recovered from its handle", b.ID())
	}
	fmt.Fprintln(w, "recovered buffer from handle")

	b.Lock()
	tex := r.TextureFromBuffer(b.Handle())
	if tex == nil {
		b.Unlock()
		b.Drop()
		return fmt.Errorf("renderer %s cannot import the buffer", displayName(rendererName))
	}
	fmt.Fprintf(w, "texture: %dx%d, read format %s\n",
		tex.Width(), tex.Height(), wlr.FormatName(tex.PreferredReadFormat()))

	px := make([]byte, 4*demoSize*demoSize)
	if tex.ReadPixels(wlr.ReadPixelsOptions{Data: px, Stride: 4 * demoSize}) {
		fmt.Fprintf(w, "pixel(0,0)=%02x pixel(1,0)=%02x\n", px[0:4], px[4:8])
	}
	tex.Destroy()
	b.Unlock()

	fmt.Fprintf(w, "live objects: %d\n", iface.Registry().Len())
	b.Drop()
	fmt.Fprintf(w, "buffer %d: %s\n", b.ID(), b.State())
	fmt.Fprintf(w, "live objects: %d\n", iface.Registry().Len())
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "default"
	}
	return name
}
