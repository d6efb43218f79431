package qw

import (
	"github.com/probonopd/qwlroots/iface"
	"github.com/probonopd/qwlroots/wlr"
)

// TextureType is the declared wlr_texture. Objects are constructed with
// the owning *wlr.Renderer, width and height.
var TextureType = iface.MustDeclare[wlr.Texture, wlr.TextureImpl]("wlr_texture",
	iface.WithInit(wlr.TextureInit))

// TextureOps lists every overridable texture operation.
var TextureOps = []string{"UpdateFromBuffer", "ReadPixels", "PreferredReadFormat"}

// TextureInterface is embedded by Go-implemented textures, typically
// returned from a Go renderer's TextureFromBuffer.
type TextureInterface struct {
	iface.Interface[wlr.Texture, wlr.TextureImpl]
}

// BindTexture builds a plan for a Go texture type.
func BindTexture[C iface.Owner[wlr.Texture, wlr.TextureImpl]](ops ...string) (*iface.Plan[C, wlr.Texture, wlr.TextureImpl], error) {
	return iface.Bind[C](TextureType, ops...)
}

// MustBindTexture is BindTexture that panics on error.
func MustBindTexture[C iface.Owner[wlr.Texture, wlr.TextureImpl]](ops ...string) *iface.Plan[C, wlr.Texture, wlr.TextureImpl] {
	return iface.MustBind[C](TextureType, ops...)
}

// Texture returns the wrapper view of the object's handle.
func (t *TextureInterface) Texture() *Texture {
	return TextureFrom(t.Handle())
}

// Texture is a view onto any wlr_texture, native or Go-implemented.
// Textures have no destroy signal, so the view does not track lifetime;
// it must not be used after Destroy.
type Texture struct {
	handle *wlr.Texture
}

// TextureFrom wraps a texture handle. It returns nil for a nil handle.
func TextureFrom(h *wlr.Texture) *Texture {
	if h == nil {
		return nil
	}
	return &Texture{handle: h}
}

// Handle returns the native texture.
func (t *Texture) Handle() *wlr.Texture { return t.handle }

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.handle.Width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.handle.Height }

// Renderer returns the renderer that created the texture.
func (t *Texture) Renderer() *Renderer {
	return RendererFrom(t.handle.Renderer)
}

// ReadPixels copies texture contents into opts.Data.
func (t *Texture) ReadPixels(opts wlr.ReadPixelsOptions) bool {
	return wlr.TextureReadPixels(t.handle, opts)
}

// UpdateFromBuffer re-uploads the damaged region of b.
func (t *Texture) UpdateFromBuffer(b *wlr.Buffer, damage wlr.Box) bool {
	return wlr.TextureUpdateFromBuffer(t.handle, b, damage)
}

// PreferredReadFormat returns the cheapest format for ReadPixels.
func (t *Texture) PreferredReadFormat() uint32 {
	return wlr.TexturePreferredReadFormat(t.handle)
}

// Destroy releases the texture. The view is unusable afterwards.
func (t *Texture) Destroy() {
	if t.handle == nil {
		return
	}
	wlr.TextureDestroy(t.handle)
	t.handle = nil
}
