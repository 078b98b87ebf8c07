package ipc

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketPath is the control socket for the compositor named by
// WAYLAND_DISPLAY, so one daemon can run per session.
func SocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}

	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}

	return filepath.Join(runtimeDir, fmt.Sprintf("layerpaper-%s.sock", filepath.Base(display)))
}
