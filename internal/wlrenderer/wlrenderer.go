// Package wlrenderer draws wallpapers on wlr-layer-shell background
// surfaces, one per output, through a shared WebGPU device.
package wlrenderer

/*
#cgo pkg-config: wayland-client
#include "wlrenderer.h"
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

const (
	compositorVersion = 4
	outputVersion     = 4
	layerShellVersion = 4
)

func clientFrom(handle C.uintptr_t) *Client {
	c, _ := cgo.Handle(uintptr(handle)).Value().(*Client)
	if c == nil {
		log.Error("wayland event for unknown client")
	}
	return c
}

//export goHandleGlobal
func goHandleGlobal(handle C.uintptr_t, registry *C.struct_wl_registry, name C.uint32_t, iface *C.char, version C.uint32_t) {
	c := clientFrom(handle)
	if c == nil {
		return
	}

	switch C.GoString(iface) {
	case "wl_compositor":
		v := min(uint32(version), compositorVersion)
		c.compositor = C.bind_compositor(registry, name, C.uint32_t(v))
		c.compositorVersion = v
		log.Debugf("bound wl_compositor v%d", v)
	case "zwlr_layer_shell_v1":
		v := min(uint32(version), layerShellVersion)
		c.layerShell = C.bind_layer_shell(registry, name, C.uint32_t(v))
		log.Debugf("bound zwlr_layer_shell_v1 v%d", v)
	case "wl_output":
		v := min(uint32(version), outputVersion)
		wlOut := C.bind_output(registry, name, C.uint32_t(v))
		c.addOutput(uint32(name), wlOut, v)
	}
}

//export goHandleGlobalRemove
func goHandleGlobalRemove(handle C.uintptr_t, _ *C.struct_wl_registry, name C.uint32_t) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o, ok := c.outputs[uint32(name)]; ok {
		log.Infof("Output %s removed", o.Name())
		c.closeOutput(o)
	}
}

//export goHandleOutputMode
func goHandleOutputMode(handle C.uintptr_t, output *C.struct_wl_output, flags C.uint32_t, width, height, refresh C.int32_t) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o := c.outputByWL(output); o != nil && flags&C.WL_OUTPUT_MODE_CURRENT != 0 {
		o.modeWidth, o.modeHeight = uint32(width), uint32(height)
		o.refresh = int(refresh)
	}
}

//export goHandleOutputScale
func goHandleOutputScale(handle C.uintptr_t, output *C.struct_wl_output, factor C.int32_t) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o := c.outputByWL(output); o != nil {
		o.setScale(int32(factor))
	}
}

//export goHandleOutputName
func goHandleOutputName(handle C.uintptr_t, output *C.struct_wl_output, name *C.char) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o := c.outputByWL(output); o != nil {
		o.name = C.GoString(name)
	}
}

//export goHandleOutputDescription
func goHandleOutputDescription(handle C.uintptr_t, output *C.struct_wl_output, description *C.char) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o := c.outputByWL(output); o != nil {
		o.description = C.GoString(description)
	}
}

//export goHandleOutputDone
func goHandleOutputDone(handle C.uintptr_t, output *C.struct_wl_output) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o := c.outputByWL(output); o != nil && !o.announced {
		o.announced = true
		log.Infof("Output %s (%s) %dx%d@%.2fHz scale %d",
			o.Name(), o.description, o.modeWidth, o.modeHeight, float64(o.refresh)/1000, o.scale)
	}
}

//export goHandleLayerSurfaceConfigure
func goHandleLayerSurfaceConfigure(handle C.uintptr_t, surface *C.struct_zwlr_layer_surface_v1, serial, width, height C.uint32_t) {
	c := clientFrom(handle)
	if c == nil {
		return
	}

	C.zwlr_layer_surface_v1_ack_configure(surface, serial)

	o := c.outputByLayerSurface(surface)
	if o == nil {
		return
	}
	log.Debugf("Layer surface for %s configured: %dx%d", o.Name(), width, height)
	o.onConfigure(uint32(width), uint32(height))
}

//export goHandleLayerSurfaceClosed
func goHandleLayerSurfaceClosed(handle C.uintptr_t, surface *C.struct_zwlr_layer_surface_v1) {
	c := clientFrom(handle)
	if c == nil {
		return
	}
	if o := c.outputByLayerSurface(surface); o != nil {
		log.Infof("Layer surface for %s closed by compositor", o.Name())
		c.closeOutput(o)
	}
}

//export goHandleFrameDone
func goHandleFrameDone(handle C.uintptr_t, callback *C.struct_wl_callback, _ C.uint32_t) {
	c := clientFrom(handle)
	C.wl_callback_destroy(callback)
	if c == nil {
		return
	}
	if o := c.outputByFrame(callback); o != nil {
		o.frameCallback = nil
		o.awaitingFrame = false
		o.Draw(time.Now())
	}
}

// Fd is the compositor connection, for polling.
func (c *Client) Fd() int {
	return int(C.wl_display_get_fd(c.display))
}

func (c *Client) Flush() error {
	if ret, err := C.wl_display_flush(c.display); ret < 0 && err != syscall.EAGAIN {
		return fmt.Errorf("wl_display_flush: %w", err)
	}
	return nil
}

func (c *Client) PrepareRead() bool {
	return C.wl_display_prepare_read(c.display) == 0
}

func (c *Client) ReadEvents() error {
	if ret, err := C.wl_display_read_events(c.display); ret < 0 {
		return fmt.Errorf("wl_display_read_events: %w", err)
	}
	return nil
}

func (c *Client) CancelRead() {
	C.wl_display_cancel_read(c.display)
}

func (c *Client) DispatchPending() error {
	if ret, err := C.wl_display_dispatch_pending(c.display); ret < 0 {
		return fmt.Errorf("wl_display_dispatch_pending: %w", err)
	}
	return nil
}

func (c *Client) roundtrip() error {
	if ret, err := C.wl_display_roundtrip(c.display); ret < 0 {
		return fmt.Errorf("wl_display_roundtrip: %w", err)
	}
	return nil
}
