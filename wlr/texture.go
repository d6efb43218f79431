package wlr

// ReadPixelsOptions describe a texture read-back. A zero SrcBox reads the
// whole texture.
type ReadPixelsOptions struct {
	Data   []byte
	Format uint32
	Stride int
	DstX   int
	DstY   int
	SrcBox Box
}

// TextureImpl is the texture vtable.
type TextureImpl struct {
	UpdateFromBuffer    func(t *Texture, b *Buffer, damage Box) bool
	ReadPixels          func(t *Texture, opts ReadPixelsOptions) bool
	PreferredReadFormat func(t *Texture) uint32
	Destroy             func(t *Texture)
}

// Texture is an image uploaded to a renderer.
type Texture struct {
	Impl     *TextureImpl
	Renderer *Renderer
	Width    uint32
	Height   uint32
}

// TextureInit initializes a texture created by renderer.
func TextureInit(t *Texture, renderer *Renderer, impl *TextureImpl, width, height uint32) {
	*t = Texture{
		Impl:     impl,
		Renderer: renderer,
		Width:    width,
		Height:   height,
	}
}

// TextureDestroy releases the texture through its Destroy slot. Textures
// without one are left to their owner.
func TextureDestroy(t *Texture) {
	if t == nil || t.Impl == nil || t.Impl.Destroy == nil {
		return
	}
	t.Impl.Destroy(t)
}

// TextureUpdateFromBuffer re-uploads the damaged region of b, which must
// have the texture's size.
func TextureUpdateFromBuffer(t *Texture, b *Buffer, damage Box) bool {
	if t.Impl.UpdateFromBuffer == nil {
		return false
	}
	if b.Width != int(t.Width) || b.Height != int(t.Height) {
		return false
	}
	if damage.Empty() {
		return true
	}
	if !damage.Within(b.Width, b.Height) {
		return false
	}
	return t.Impl.UpdateFromBuffer(t, b, damage)
}

// TextureReadPixels copies texture contents into opts.Data. Destination
// offsets must not be negative.
func TextureReadPixels(t *Texture, opts ReadPixelsOptions) bool {
	if t.Impl.ReadPixels == nil || opts.DstX < 0 || opts.DstY < 0 {
		return false
	}
	if opts.SrcBox.Empty() {
		opts.SrcBox = Box{Width: int(t.Width), Height: int(t.Height)}
	}
	if !opts.SrcBox.Within(int(t.Width), int(t.Height)) {
		return false
	}
	return t.Impl.ReadPixels(t, opts)
}

// TexturePreferredReadFormat returns the cheapest format for
// TextureReadPixels, or FormatInvalid.
func TexturePreferredReadFormat(t *Texture) uint32 {
	if t.Impl.PreferredReadFormat == nil {
		return FormatInvalid
	}
	return t.Impl.PreferredReadFormat(t)
}

// TextureFromBuffer uploads b through the renderer's TextureFromBuffer slot.
func TextureFromBuffer(r *Renderer, b *Buffer) *Texture {
	if r.Impl.TextureFromBuffer == nil {
		return nil
	}
	return r.Impl.TextureFromBuffer(r, b)
}

// TextureFromPixels uploads caller-owned pixel memory. data is not
// retained after the call returns.
func TextureFromPixels(r *Renderer, format uint32, stride, width, height uint32, data []byte) *Texture {
	buf := newReadonlyDataBuffer(format, int(stride), int(width), int(height), data)
	if buf == nil {
		return nil
	}
	t := TextureFromBuffer(r, &buf.base)
	BufferDrop(&buf.base)
	return t
}
