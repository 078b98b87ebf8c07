package wlrenderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// Textures are uploaded as linear RGBA8, so a non-sRGB target keeps the
// colours as decoded.
var preferredFormats = []wgpu.TextureFormat{
	wgpu.TextureFormatBGRA8Unorm,
	wgpu.TextureFormatRGBA8Unorm,
}

func chooseFormat(supported []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(supported) == 0 {
		return wgpu.TextureFormatUndefined, fmt.Errorf("surface reports no formats")
	}
	for _, f := range preferredFormats {
		if slices.Contains(supported, f) {
			return f, nil
		}
	}
	return supported[0], nil
}

func containsFormat(formats []wgpu.TextureFormat, f wgpu.TextureFormat) bool {
	return slices.Contains(formats, f)
}

func parsePresentMode(name string) (wgpu.PresentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mailbox":
		return wgpu.PresentModeMailbox, true
	case "immediate":
		return wgpu.PresentModeImmediate, true
	case "fifo", "":
		return wgpu.PresentModeFifo, true
	}
	return wgpu.PresentModeFifo, false
}

// choosePresentMode returns the configured mode when the surface supports
// it, otherwise FIFO, which every surface does.
func choosePresentMode(name string, supported []wgpu.PresentMode) wgpu.PresentMode {
	mode, ok := parsePresentMode(name)
	if !ok {
		log.Warnf("Unknown present mode %q, using fifo", name)
	}
	if len(supported) > 0 && !slices.Contains(supported, mode) {
		return wgpu.PresentModeFifo
	}
	return mode
}

func chooseAlphaMode(supported []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	if len(supported) == 0 || slices.Contains(supported, wgpu.CompositeAlphaModeOpaque) {
		return wgpu.CompositeAlphaModeOpaque
	}
	return supported[0]
}
