package wlrenderer

/*
#include "wlrenderer.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/cgo"
	"slices"
	"strings"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/matjam/layerpaper/internal/render"
	"github.com/matjam/layerpaper/internal/wallpaper"
)

var (
	ErrNoMonitor    = errors.New("no such monitor")
	ErrNoCompositor = errors.New("compositor does not offer wl_compositor")
	ErrNoLayerShell = errors.New("compositor does not support zwlr_layer_shell_v1")
	ErrNoOutputs    = errors.New("compositor has no outputs")
	ErrNoGPU        = errors.New("no usable GPU adapter")
)

type Config struct {
	// NativeRate is the refresh rate declared framerates divide into.
	NativeRate int
	// PresentMode is one of mailbox, fifo or immediate.
	PresentMode string
}

// Client owns the compositor connection, the GPU device and one Output per
// wl_output. It must only be used from the goroutine that created it.
type Client struct {
	cfg    Config
	handle cgo.Handle

	display           *C.struct_wl_display
	registry          *C.struct_wl_registry
	compositor        *C.struct_wl_compositor
	compositorVersion uint32
	layerShell        *C.struct_zwlr_layer_shell_v1

	outputs map[uint32]*Output

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	gpu      *render.GPU

	// current is applied to outputs that appear after it was set.
	current *wallpaper.Wallpaper

	pacer pacer
}

var _ ipc.Renderer = (*Client)(nil)

// NewClient connects to the compositor, creates a background surface on
// every output and brings up a device that can present to them. Missing
// protocol support or GPU is an error.
func NewClient(cfg Config) (*Client, error) {
	runtime.LockOSThread() // wgpu and libwayland objects stay on this thread

	if cfg.NativeRate <= 0 {
		cfg.NativeRate = render.DefaultNativeRate
	}

	c := &Client{
		cfg:     cfg,
		outputs: make(map[uint32]*Output),
		pacer:   newPacer(cfg.NativeRate),
	}

	c.display = C.wl_display_connect(nil)
	if c.display == nil {
		return nil, fmt.Errorf("failed to connect to Wayland display")
	}

	c.handle = cgo.NewHandle(c)
	c.registry = C.wl_display_get_registry(c.display)
	C.add_registry_listener(c.registry, C.uintptr_t(c.handle))

	// globals, then the events of the objects bound from them
	if err := c.roundtrip(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.roundtrip(); err != nil {
		c.Close()
		return nil, err
	}

	switch {
	case c.compositor == nil:
		c.Close()
		return nil, ErrNoCompositor
	case c.layerShell == nil:
		c.Close()
		return nil, ErrNoLayerShell
	case len(c.outputs) == 0:
		c.Close()
		return nil, ErrNoOutputs
	}

	if err := c.initGPU(); err != nil {
		c.Close()
		return nil, err
	}

	// first configure events
	if err := c.roundtrip(); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) initGPU() error {
	c.instance = wgpu.CreateInstance(nil)

	ids := make([]uint32, 0, len(c.outputs))
	for id, o := range c.outputs {
		o.createSurface()
		ids = append(ids, id)
	}
	slices.Sort(ids)
	first := c.outputs[ids[0]]

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: first.gpuSurface,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	c.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "layerpaper",
	})
	if err != nil {
		return fmt.Errorf("%w: requesting device: %w", ErrNoGPU, err)
	}
	c.device = device

	caps := first.gpuSurface.GetCapabilities(adapter)
	format, err := chooseFormat(caps.Formats)
	if err != nil {
		return err
	}

	log.Infof("GPU device ready, surface format %v", format)

	c.gpu = render.NewGPU(device, device.GetQueue(), format)
	return nil
}

func (c *Client) addOutput(id uint32, wlOut *C.struct_wl_output, version uint32) {
	if _, ok := c.outputs[id]; ok {
		return
	}

	o := newOutput(c, id, wlOut, version)
	c.outputs[id] = o
	C.add_output_listener(wlOut, C.uintptr_t(c.handle))
	log.Debugf("bound wl_output %d v%d", id, version)

	// Outputs present at startup get their surfaces once the device
	// exists; later ones get them straight away.
	if c.gpu == nil {
		return
	}
	o.createSurface()
	if c.current != nil {
		if err := c.apply(c.current, []*Output{o}); err != nil {
			log.Errorf("Applying %q to new output: %v", c.current.Name, err)
		}
	}
}

func (c *Client) closeOutput(o *Output) {
	o.release()
	delete(c.outputs, o.id)
}

func (c *Client) outputByWL(wlOut *C.struct_wl_output) *Output {
	for _, o := range c.outputs {
		if o.wlOutput == wlOut {
			return o
		}
	}
	return nil
}

func (c *Client) outputByLayerSurface(s *C.struct_zwlr_layer_surface_v1) *Output {
	for _, o := range c.outputs {
		if o.layerSurface == s {
			return o
		}
	}
	return nil
}

func (c *Client) outputByFrame(cb *C.struct_wl_callback) *Output {
	for _, o := range c.outputs {
		if o.frameCallback == cb {
			return o
		}
	}
	return nil
}

func (c *Client) createGPUSurface(surface *C.struct_wl_surface) *wgpu.Surface {
	return c.instance.CreateSurface(&wgpu.SurfaceDescriptor{
		WaylandSurface: &wgpu.SurfaceDescriptorFromWaylandSurface{
			Display: unsafe.Pointer(c.display),
			Surface: unsafe.Pointer(surface),
		},
	})
}

// sortedOutputs orders outputs by name for stable reporting.
func (c *Client) sortedOutputs() []*Output {
	outs := make([]*Output, 0, len(c.outputs))
	for _, o := range c.outputs {
		outs = append(outs, o)
	}
	slices.SortFunc(outs, func(a, b *Output) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return outs
}

// Pace draws, at the native rate, every output that is not already
// waiting on a frame callback.
func (c *Client) Pace() {
	now := time.Now()
	if !c.pacer.due(now) {
		return
	}
	for _, o := range unpaced(c.sortedOutputs()) {
		o.Draw(now)
	}
}

func (c *Client) Displays() []ipc.DisplayInfo {
	outs := c.sortedOutputs()
	displays := make([]ipc.DisplayInfo, 0, len(outs))
	for _, o := range outs {
		d := ipc.DisplayInfo{
			Name:   o.Name(),
			Width:  o.state.Width,
			Height: o.state.Height,
		}
		if o.wallpaper != nil {
			d.Wallpaper = o.wallpaper.Name
		}
		displays = append(displays, d)
	}
	return displays
}

// SetWallpaper assembles w for the output named monitor, or for all of
// them when monitor is empty.
func (c *Client) SetWallpaper(w *wallpaper.Wallpaper, monitor string) error {
	var targets []*Output
	for _, o := range c.sortedOutputs() {
		if monitor == "" || o.Name() == monitor {
			targets = append(targets, o)
		}
	}
	if monitor != "" && len(targets) == 0 {
		return fmt.Errorf("monitor %q: %w", monitor, ErrNoMonitor)
	}

	if err := c.apply(w, targets); err != nil {
		return err
	}
	if monitor == "" {
		c.current = w
	}
	return nil
}

// apply builds every target's renderables before swapping any of them in,
// so a failure leaves all outputs as they were.
func (c *Client) apply(w *wallpaper.Wallpaper, targets []*Output) error {
	built := make([][]render.Renderable, 0, len(targets))
	for _, o := range targets {
		rs, err := c.gpu.AssembleWallpaper(w)
		if err != nil {
			for _, b := range built {
				render.ReleaseAll(b)
			}
			return fmt.Errorf("assembling %q for %s: %w", w.Name, o.Name(), err)
		}
		built = append(built, rs)
	}

	for i, o := range targets {
		o.setRenderables(w, built[i], render.NewPacing(w.Framerate, w.Tickrate, c.cfg.NativeRate))
	}
	return nil
}

// Close releases every output, the device and the connection.
func (c *Client) Close() {
	for _, o := range c.outputs {
		c.closeOutput(o)
	}

	if c.gpu != nil {
		c.gpu.Release()
		c.gpu.Queue.Release()
		c.gpu = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}

	if c.layerShell != nil {
		C.zwlr_layer_shell_v1_destroy(c.layerShell)
		c.layerShell = nil
	}
	if c.compositor != nil {
		C.wl_compositor_destroy(c.compositor)
		c.compositor = nil
	}
	if c.registry != nil {
		C.wl_registry_destroy(c.registry)
		c.registry = nil
	}
	if c.display != nil {
		C.wl_display_flush(c.display)
		C.wl_display_disconnect(c.display)
		c.display = nil
	}
	if c.handle != 0 {
		c.handle.Delete()
		c.handle = 0
	}
}
