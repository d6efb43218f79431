package wlr

import "github.com/probonopd/qwlroots/wl"

// RendererImpl is the renderer vtable. GetTextureFormats is mandatory.
type RendererImpl struct {
	GetTextureFormats func(r *Renderer, bufferCaps uint32) []uint32
	GetDRMFD          func(r *Renderer) int
	TextureFromBuffer func(r *Renderer, b *Buffer) *Texture
	Destroy           func(r *Renderer)
}

// Renderer turns buffers into textures.
type Renderer struct {
	Impl             *RendererImpl
	RenderBufferCaps uint32

	Events struct {
		Destroy wl.Signal
		// Lost fires when the GPU context is gone and must be recreated.
		Lost wl.Signal
	}
}

// RendererInit initializes a renderer. It reports false if the
// implementation lacks GetTextureFormats.
func RendererInit(r *Renderer, impl *RendererImpl, renderBufferCaps uint32) bool {
	if impl == nil || impl.GetTextureFormats == nil {
		return false
	}
	*r = Renderer{
		Impl:             impl,
		RenderBufferCaps: renderBufferCaps,
	}
	r.Events.Destroy.Init()
	r.Events.Lost.Init()
	return true
}

// RendererFinish emits the destroy event. Implementations call it from
// their Destroy slot before releasing memory.
func RendererFinish(r *Renderer) {
	r.Events.Destroy.Emit(r)
}

// RendererDestroy releases the renderer through its Destroy slot, which
// emits the destroy event. Renderers without one only emit the event.
func RendererDestroy(r *Renderer) {
	if r == nil {
		return
	}
	if r.Impl == nil || r.Impl.Destroy == nil {
		RendererFinish(r)
		return
	}
	r.Impl.Destroy(r)
}

// RendererGetDRMFD returns the DRM file descriptor, or -1.
func RendererGetDRMFD(r *Renderer) int {
	if r.Impl.GetDRMFD == nil {
		return -1
	}
	return r.Impl.GetDRMFD(r)
}

// RendererGetTextureFormats lists the formats importable for buffers with
// the given capabilities.
func RendererGetTextureFormats(r *Renderer, bufferCaps uint32) []uint32 {
	return r.Impl.GetTextureFormats(r, bufferCaps)
}

// RendererLose signals that the renderer's context was lost.
func RendererLose(r *Renderer) {
	r.Events.Lost.Emit(nil)
}

// RendererAutocreate picks a renderer by name. The empty name and
// "pixman" select the built-in software renderer; anything else fails.
func RendererAutocreate(name string) *Renderer {
	switch name {
	case "", "pixman":
		return NewPixmanRenderer()
	}
	return nil
}
