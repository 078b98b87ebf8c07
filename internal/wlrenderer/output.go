package wlrenderer

/*
#include "wlrenderer.h"
*/
import "C"

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/render"
	"github.com/matjam/layerpaper/internal/wallpaper"
)

const layerNamespace = "layerpaper"

// Output is the background layer of one wl_output.
type Output struct {
	client *Client

	id          uint32
	version     uint32
	name        string
	description string
	announced   bool

	modeWidth, modeHeight uint32
	refresh               int
	scale                 int32
	// logical size from the last configure
	logicalWidth, logicalHeight uint32

	wlOutput      *C.struct_wl_output
	surface       *C.struct_wl_surface
	layerSurface  *C.struct_zwlr_layer_surface_v1
	frameCallback *C.struct_wl_callback
	awaitingFrame bool
	gpuSurface    *wgpu.Surface

	state       *render.DisplayState
	renderables []render.Renderable
	wallpaper   *wallpaper.Wallpaper
}

func newOutput(c *Client, id uint32, wlOut *C.struct_wl_output, version uint32) *Output {
	return &Output{
		client:   c,
		id:       id,
		version:  version,
		wlOutput: wlOut,
		scale:    1,
		state:    render.NewDisplayState(0, 0),
	}
}

// Name is the compositor's connector name, e.g. DP-1.
func (o *Output) Name() string {
	if o.name == "" {
		return fmt.Sprintf("output-%d", o.id)
	}
	return o.name
}

// createSurface maps a keyboard-less layer surface anchored to all edges
// of the output, below everything else.
func (o *Output) createSurface() {
	c := o.client

	o.surface = C.wl_compositor_create_surface(c.compositor)

	namespace := C.CString(layerNamespace)
	defer C.free(unsafe.Pointer(namespace))

	o.layerSurface = C.zwlr_layer_shell_v1_get_layer_surface(
		c.layerShell, o.surface, o.wlOutput, C.ZWLR_LAYER_SHELL_V1_LAYER_BACKGROUND, namespace,
	)
	C.add_layer_surface_listener(o.layerSurface, C.uintptr_t(c.handle))

	C.zwlr_layer_surface_v1_set_anchor(o.layerSurface,
		C.ZWLR_LAYER_SURFACE_V1_ANCHOR_TOP|
			C.ZWLR_LAYER_SURFACE_V1_ANCHOR_BOTTOM|
			C.ZWLR_LAYER_SURFACE_V1_ANCHOR_LEFT|
			C.ZWLR_LAYER_SURFACE_V1_ANCHOR_RIGHT)
	C.zwlr_layer_surface_v1_set_exclusive_zone(o.layerSurface, -1)
	C.zwlr_layer_surface_v1_set_keyboard_interactivity(o.layerSurface,
		C.ZWLR_LAYER_SURFACE_V1_KEYBOARD_INTERACTIVITY_NONE)
	C.zwlr_layer_surface_v1_set_size(o.layerSurface, 0, 0)

	if c.compositorVersion >= 3 {
		C.wl_surface_set_buffer_scale(o.surface, C.int32_t(o.scale))
	}
	C.wl_surface_commit(o.surface)

	o.gpuSurface = c.createGPUSurface(o.surface)
}

func (o *Output) onConfigure(width, height uint32) {
	plan := planConfigure(width, height, o.modeWidth, o.modeHeight, o.scale, o.state.Configured)
	o.logicalWidth, o.logicalHeight = plan.logicalWidth, plan.logicalHeight

	o.SetSize(plan.bufferWidth, plan.bufferHeight)
	if plan.setup {
		if err := o.Configure(); err != nil {
			log.Errorf("Configuring surface for %s: %v", o.Name(), err)
			return
		}
		o.Draw(time.Now())
	}
}

func (o *Output) setScale(factor int32) {
	if factor <= 0 {
		factor = 1
	}
	if factor == o.scale {
		return
	}
	o.scale = factor
	if o.surface == nil {
		return
	}
	if o.client.compositorVersion >= 3 {
		C.wl_surface_set_buffer_scale(o.surface, C.int32_t(factor))
	}
	if o.logicalWidth > 0 {
		o.SetSize(o.logicalWidth*uint32(factor), o.logicalHeight*uint32(factor))
	}
}

// SetSize is a no-op for the current size; otherwise the layer is damaged
// and a configured swap surface is rebuilt at the new size.
func (o *Output) SetSize(width, height uint32) {
	if !o.state.SetSize(width, height) {
		return
	}
	if err := o.Configure(); err != nil {
		log.Errorf("Reconfiguring surface for %s: %v", o.Name(), err)
	}
}

// Configure binds the swap surface to the device at the current size.
func (o *Output) Configure() error {
	c := o.client
	if o.gpuSurface == nil || c.gpu == nil {
		return fmt.Errorf("%s has no GPU surface", o.Name())
	}
	if o.state.Width == 0 || o.state.Height == 0 {
		return fmt.Errorf("%s has no size", o.Name())
	}

	caps := o.gpuSurface.GetCapabilities(c.adapter)
	if len(caps.Formats) > 0 && !containsFormat(caps.Formats, c.gpu.Format) {
		return fmt.Errorf("surface of %s does not support %v", o.Name(), c.gpu.Format)
	}

	o.gpuSurface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.gpu.Format,
		Width:       o.state.Width,
		Height:      o.state.Height,
		PresentMode: choosePresentMode(c.cfg.PresentMode, caps.PresentModes),
		AlphaMode:   chooseAlphaMode(caps.AlphaModes),
	})
	o.state.Configured = true
	o.state.Damage()

	log.Debugf("Configured %s at %dx%d", o.Name(), o.state.Width, o.state.Height)
	return nil
}

func (o *Output) setRenderables(w *wallpaper.Wallpaper, rs []render.Renderable, pacing render.Pacing) {
	render.ReleaseAll(o.renderables)
	o.renderables = rs
	o.wallpaper = w
	o.state.SetPacing(pacing)
}

// Draw renders and presents one frame if pacing or damage calls for it.
// A frame whose swap texture cannot be acquired is dropped.
func (o *Output) Draw(now time.Time) {
	if !o.state.Configured {
		return
	}

	draw, update, elapsed := o.state.Begin(now, len(o.renderables) > 0)
	if !draw {
		return
	}

	tex, err := o.gpuSurface.GetCurrentTexture()
	if err != nil {
		log.Warnf("Dropping frame on %s: %v", o.Name(), err)
		return
	}
	defer tex.Release()

	view, err := tex.CreateView(nil)
	if err != nil {
		log.Warnf("Dropping frame on %s: %v", o.Name(), err)
		return
	}
	defer view.Release()

	if update {
		render.PreRenderAll(o.renderables, elapsed)
	}

	if err := o.client.gpu.Encode(view, o.renderables); err != nil {
		log.Warnf("Dropping frame on %s: %v", o.Name(), err)
		return
	}

	// Present commits the surface, so the callback and damage go first.
	o.requestFrame()
	o.damageAll()
	o.gpuSurface.Present()
	o.state.Presented()
}

func (o *Output) requestFrame() {
	if o.awaitingFrame {
		return
	}
	o.frameCallback = C.request_frame(o.surface, C.uintptr_t(o.client.handle))
	o.awaitingFrame = true
}

func (o *Output) damageAll() {
	if o.client.compositorVersion >= 4 {
		C.wl_surface_damage_buffer(o.surface, 0, 0, math.MaxInt32, math.MaxInt32)
	} else {
		C.wl_surface_damage(o.surface, 0, 0, math.MaxInt32, math.MaxInt32)
	}
}

func (o *Output) release() {
	render.ReleaseAll(o.renderables)
	o.renderables = nil

	if o.frameCallback != nil {
		C.wl_callback_destroy(o.frameCallback)
		o.frameCallback = nil
	}
	o.awaitingFrame = false
	if o.gpuSurface != nil {
		o.gpuSurface.Release()
		o.gpuSurface = nil
	}
	if o.layerSurface != nil {
		C.zwlr_layer_surface_v1_destroy(o.layerSurface)
		o.layerSurface = nil
	}
	if o.surface != nil {
		C.wl_surface_destroy(o.surface)
		o.surface = nil
	}
	if o.wlOutput != nil {
		if o.version >= 3 {
			C.wl_output_release(o.wlOutput)
		} else {
			C.wl_output_destroy(o.wlOutput)
		}
		o.wlOutput = nil
	}
	o.state.Configured = false
}
