package wlr

import "unsafe"

// pixmanRenderer is the built-in CPU renderer. base must stay the first field.
type pixmanRenderer struct {
	base     Renderer
	textures int
}

// pixmanTexture keeps a tightly packed copy of the uploaded pixels.
type pixmanTexture struct {
	base   Texture
	format uint32
	stride int
	pixels []byte
}

var pixmanFormats = []uint32{FormatARGB8888, FormatXRGB8888, FormatABGR8888, FormatXBGR8888}

var pixmanRendererImpl = RendererImpl{
	GetTextureFormats: pixmanGetTextureFormats,
	GetDRMFD:          func(*Renderer) int { return -1 },
	TextureFromBuffer: pixmanTextureFromBuffer,
	Destroy:           pixmanRendererDestroy,
}

// pixmanTextureImpl is filled in init: its Destroy slot looks up the
// renderer impl, whose TextureFromBuffer slot refers back to it.
var pixmanTextureImpl TextureImpl

func init() {
	pixmanTextureImpl = TextureImpl{
		UpdateFromBuffer:    pixmanTextureUpdateFromBuffer,
		ReadPixels:          pixmanTextureReadPixels,
		PreferredReadFormat: func(t *Texture) uint32 { return pixmanTextureFromTexture(t).format },
		Destroy:             pixmanTextureDestroy,
	}
}

// NewPixmanRenderer creates a software renderer.
func NewPixmanRenderer() *Renderer {
	r := &pixmanRenderer{}
	RendererInit(&r.base, &pixmanRendererImpl, BufferCapDataPtr|BufferCapShm)
	return &r.base
}

// IsPixmanRenderer reports whether r was created by NewPixmanRenderer.
func IsPixmanRenderer(r *Renderer) bool {
	return r != nil && r.Impl == &pixmanRendererImpl
}

// PixmanTextureCount returns the number of live textures of a software renderer.
func PixmanTextureCount(r *Renderer) int {
	if !IsPixmanRenderer(r) {
		return 0
	}
	return pixmanRendererFromRenderer(r).textures
}

func pixmanRendererFromRenderer(r *Renderer) *pixmanRenderer {
	return (*pixmanRenderer)(unsafe.Pointer(r))
}

func pixmanTextureFromTexture(t *Texture) *pixmanTexture {
	return (*pixmanTexture)(unsafe.Pointer(t))
}

func pixmanGetTextureFormats(_ *Renderer, bufferCaps uint32) []uint32 {
	if bufferCaps&BufferCapDataPtr == 0 {
		return nil
	}
	return append([]uint32(nil), pixmanFormats...)
}

func pixmanFormatSupported(format uint32) bool {
	for _, f := range pixmanFormats {
		if f == format {
			return true
		}
	}
	return false
}

func pixmanRendererDestroy(r *Renderer) {
	RendererFinish(r)
	pr := pixmanRendererFromRenderer(r)
	pr.base.Impl = nil
}

func pixmanTextureFromBuffer(r *Renderer, b *Buffer) *Texture {
	data, format, stride, ok := BufferBeginDataPtrAccess(b, DataPtrAccessRead)
	if !ok {
		return nil
	}
	defer BufferEndDataPtrAccess(b)

	if !pixmanFormatSupported(format) {
		return nil
	}
	bpp := FormatBytesPerPixel(format)
	rowLen := b.Width * bpp
	if stride < rowLen || len(data) < stride*(b.Height-1)+rowLen {
		return nil
	}

	t := &pixmanTexture{
		format: format,
		stride: rowLen,
		pixels: make([]byte, rowLen*b.Height),
	}
	for y := 0; y < b.Height; y++ {
		copy(t.pixels[y*rowLen:(y+1)*rowLen], data[y*stride:y*stride+rowLen])
	}
	TextureInit(&t.base, r, &pixmanTextureImpl, uint32(b.Width), uint32(b.Height))
	pixmanRendererFromRenderer(r).textures++
	return &t.base
}

func pixmanTextureUpdateFromBuffer(t *Texture, b *Buffer, damage Box) bool {
	pt := pixmanTextureFromTexture(t)
	data, format, stride, ok := BufferBeginDataPtrAccess(b, DataPtrAccessRead)
	if !ok {
		return false
	}
	defer BufferEndDataPtrAccess(b)

	if format != pt.format {
		return false
	}
	bpp := FormatBytesPerPixel(format)
	for y := damage.Y; y < damage.Y+damage.Height; y++ {
		src := y*stride + damage.X*bpp
		dst := y*pt.stride + damage.X*bpp
		n := damage.Width * bpp
		if src+n > len(data) {
			return false
		}
		copy(pt.pixels[dst:dst+n], data[src:src+n])
	}
	return true
}

func pixmanTextureReadPixels(t *Texture, opts ReadPixelsOptions) bool {
	pt := pixmanTextureFromTexture(t)
	if opts.Format != FormatInvalid && opts.Format != pt.format {
		return false
	}
	bpp := FormatBytesPerPixel(pt.format)
	box := opts.SrcBox
	n := box.Width * bpp
	if opts.Stride < (opts.DstX+box.Width)*bpp {
		return false
	}
	if len(opts.Data) < (opts.DstY+box.Height-1)*opts.Stride+(opts.DstX+box.Width)*bpp {
		return false
	}
	for y := 0; y < box.Height; y++ {
		src := (box.Y+y)*pt.stride + box.X*bpp
		dst := (opts.DstY+y)*opts.Stride + opts.DstX*bpp
		copy(opts.Data[dst:dst+n], pt.pixels[src:src+n])
	}
	return true
}

func pixmanTextureDestroy(t *Texture) {
	pt := pixmanTextureFromTexture(t)
	if IsPixmanRenderer(t.Renderer) {
		pixmanRendererFromRenderer(t.Renderer).textures--
	}
	pt.pixels = nil
	pt.base.Impl = nil
}
