package qw

import (
	"fmt"

	"github.com/probonopd/qwlroots/errors"
	"github.com/probonopd/qwlroots/iface"
	"github.com/probonopd/qwlroots/signal"
	"github.com/probonopd/qwlroots/wl"
	"github.com/probonopd/qwlroots/wlr"
)

var rendererObjects = NewObjectType("wlr_renderer",
	func(r *wlr.Renderer) *wl.Signal { return &r.Events.Destroy },
	func(o *Object[wlr.Renderer]) {
		RelaySignal(o, "lost", &o.Handle().Events.Lost, toVoid)
		o.SetValue(&Renderer{obj: o})
	})

// Renderer wraps a wlr_renderer. Wrappers are shared: RendererFrom returns
// the same *Renderer for the same handle until it is destroyed.
type Renderer struct {
	obj *Object[wlr.Renderer]
}

// RendererFrom returns the wrapper for h, creating it on first use.
func RendererFrom(h *wlr.Renderer) *Renderer {
	o := rendererObjects.From(h)
	if o == nil {
		return nil
	}
	return o.Value().(*Renderer)
}

// LiveRenderers returns the number of wrapped renderers not yet destroyed.
func LiveRenderers() int { return rendererObjects.Len() }

// AutocreateRenderer creates a renderer by backend name. The empty name
// picks the default.
func AutocreateRenderer(name string) (*Renderer, error) {
	h := wlr.RendererAutocreate(name)
	if h == nil {
		return nil, errors.NativeFailure(errors.PhaseNative, "wlr_renderer_autocreate",
			fmt.Errorf("no renderer backend named %q", name))
	}
	return RendererFrom(h), nil
}

// Handle returns the native renderer, or nil after destruction.
func (r *Renderer) Handle() *wlr.Renderer { return r.obj.Handle() }

// Destroyed reports whether the renderer is gone.
func (r *Renderer) Destroyed() bool { return r.obj.Destroyed() }

// BeforeDestroy is raised when the renderer starts to go away.
func (r *Renderer) BeforeDestroy() *signal.Signal[*wlr.Renderer] { return r.obj.BeforeDestroy() }

// Lost fires when the renderer's context is lost. The renderer must then be
// recreated.
func (r *Renderer) Lost() *signal.Signal[signal.Void] {
	return ObjectSignal[signal.Void](r.obj, "lost")
}

// IsPixman reports whether this is the built-in software renderer.
func (r *Renderer) IsPixman() bool { return wlr.IsPixmanRenderer(r.Handle()) }

// DRMFD returns the renderer's DRM file descriptor, or -1 if it has none.
func (r *Renderer) DRMFD() int {
	if r.Destroyed() {
		return -1
	}
	return wlr.RendererGetDRMFD(r.Handle())
}

// TextureFormats lists the formats that can be imported from buffers with
// the given capabilities.
func (r *Renderer) TextureFormats(bufferCaps uint32) []uint32 {
	if r.Destroyed() {
		return nil
	}
	return wlr.RendererGetTextureFormats(r.Handle(), bufferCaps)
}

// TextureFromBuffer uploads b. It returns nil when the renderer cannot
// import the buffer.
func (r *Renderer) TextureFromBuffer(b *wlr.Buffer) *Texture {
	if r.Destroyed() || b == nil {
		return nil
	}
	return TextureFrom(wlr.TextureFromBuffer(r.Handle(), b))
}

// TextureFromPixels uploads caller-owned pixels; data is not retained.
func (r *Renderer) TextureFromPixels(format, stride, width, height uint32, data []byte) *Texture {
	if r.Destroyed() {
		return nil
	}
	return TextureFrom(wlr.TextureFromPixels(r.Handle(), format, stride, width, height, data))
}

// Destroy destroys the native renderer.
func (r *Renderer) Destroy() {
	if h := r.Handle(); h != nil {
		wlr.RendererDestroy(h)
	}
}

// RendererType is the declared wlr_renderer for Go-implemented renderers.
// Objects are constructed with the render buffer capabilities.
var RendererType = iface.MustDeclare[wlr.Renderer, wlr.RendererImpl]("wlr_renderer_impl",
	iface.WithInit(wlr.RendererInit),
	iface.WithFinish(wlr.RendererFinish))

// RendererOps lists every overridable renderer operation.
var RendererOps = []string{"GetTextureFormats", "GetDRMFD", "TextureFromBuffer"}

var rendererLost = iface.DeclareSignal(RendererType, "lost",
	func(r *wlr.Renderer) *wl.Signal { return &r.Events.Lost }, toVoid)

// RendererInterface is embedded by Go-implemented renderers.
// GetTextureFormats must be implemented; init fails without it. The native
// destroy event fires from finish, so Destroy, wlr.RendererDestroy and
// iface.DestroyAll all detach Renderer views.
type RendererInterface struct {
	iface.Interface[wlr.Renderer, wlr.RendererImpl]
}

// BindRenderer builds a plan for a Go renderer type.
func BindRenderer[C iface.Owner[wlr.Renderer, wlr.RendererImpl]](ops ...string) (*iface.Plan[C, wlr.Renderer, wlr.RendererImpl], error) {
	return iface.Bind[C](RendererType, ops...)
}

// MustBindRenderer is BindRenderer that panics on error.
func MustBindRenderer[C iface.Owner[wlr.Renderer, wlr.RendererImpl]](ops ...string) *iface.Plan[C, wlr.Renderer, wlr.RendererImpl] {
	return iface.MustBind[C](RendererType, ops...)
}

// Lost fires when the renderer reports a lost context.
func (r *RendererInterface) Lost() *signal.Signal[signal.Void] {
	return rendererLost.Of(r)
}

// Renderer returns the shared wrapper view of this renderer.
func (r *RendererInterface) Renderer() *Renderer {
	return RendererFrom(r.Handle())
}
