package ipc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper"
	"github.com/matjam/layerpaper/internal/wallpaper"
	"golang.org/x/sys/unix"
)

var (
	ErrNoWallpaper      = errors.New("no wallpaper loaded")
	ErrMonitorNotFound  = errors.New("not found")
	ErrDisplayHangup    = errors.New("display connection closed")
	errMissingParameter = errors.New("missing parameter")
)

// Renderer is the display side of the event loop. Every method is called
// from the goroutine running Manager.Run.
type Renderer interface {
	Fd() int                // compositor connection
	Flush() error           // send queued requests
	PrepareRead() bool      // false when events are already queued
	ReadEvents() error      // after PrepareRead, once Fd is readable
	CancelRead()            // after PrepareRead, when Fd is not read
	DispatchPending() error // run handlers for queued events
	Pace()                  // advance displays not driven by frame callbacks

	Displays() []DisplayInfo

	// SetWallpaper assembles w for the named display, or for every display
	// when monitor is empty.
	SetWallpaper(w *wallpaper.Wallpaper, monitor string) error
}

type Options struct {
	PollTimeoutMs int

	// OnApply is called after a wallpaper has been applied to a display.
	OnApply func(w *wallpaper.Wallpaper)
}

// Manager runs the event loop: it owns the renderer and serves control
// requests between protocol dispatches, one per iteration.
type Manager struct {
	renderer   Renderer
	wallpapers *wallpaper.Manager
	queue      *Queue
	opts       Options
	cancel     context.CancelFunc
}

func NewManager(renderer Renderer, wallpapers *wallpaper.Manager, queue *Queue, opts Options) *Manager {
	if opts.PollTimeoutMs <= 0 {
		opts.PollTimeoutMs = 4
	}
	return &Manager{
		renderer:   renderer,
		wallpapers: wallpapers,
		queue:      queue,
		opts:       opts,
		cancel:     func() {},
	}
}

// Run blocks until ctx is cancelled, a shutdown request is served, or the
// display connection fails.
func (m *Manager) Run(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)
	defer m.cancel()

	log.Info("Starting event loop...")

	fds := []unix.PollFd{
		{Fd: int32(m.renderer.Fd()), Events: unix.POLLIN},
		{Fd: int32(m.queue.Fd()), Events: unix.POLLIN},
	}

	for ctx.Err() == nil {
		if err := m.iterate(fds); err != nil {
			return err
		}
	}

	log.Info("Event loop stopped.")
	return nil
}

func (m *Manager) iterate(fds []unix.PollFd) error {
	r := m.renderer

	if err := r.Flush(); err != nil {
		return fmt.Errorf("flushing display connection: %w", err)
	}

	for !r.PrepareRead() {
		if err := r.DispatchPending(); err != nil {
			return fmt.Errorf("dispatching display events: %w", err)
		}
	}

	fds[0].Revents, fds[1].Revents = 0, 0
	if _, err := unix.Poll(fds, m.opts.PollTimeoutMs); err != nil && !errors.Is(err, unix.EINTR) {
		r.CancelRead()
		return fmt.Errorf("polling: %w", err)
	}

	if fds[0].Revents&unix.POLLIN != 0 {
		if err := r.ReadEvents(); err != nil {
			return fmt.Errorf("reading display events: %w", err)
		}
		if err := r.DispatchPending(); err != nil {
			return fmt.Errorf("dispatching display events: %w", err)
		}
	} else {
		r.CancelRead()
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			return ErrDisplayHangup
		}
	}

	if fds[1].Revents&unix.POLLIN != 0 || m.queue.Pending() {
		m.serveOne()
	}

	r.Pace()
	return nil
}

func (m *Manager) serveOne() {
	call, ok := m.queue.Next()
	if !ok {
		return
	}
	resp := m.Handle(call.Request)
	if !resp.Success {
		log.Warnf("%s request failed: %s", call.Request.Op, resp.Error)
	}
	call.Reply(resp)
}

// Handle serves a single request. Failures never escape as errors; they
// are reported in the response.
func (m *Manager) Handle(req Request) Response {
	log.Debugf("Handling %s request", req.Op)

	switch req.Op {
	case OpPing:
		return Response{Success: true}

	case OpLoad:
		if req.Path == "" {
			return failure(fmt.Errorf("%w: path", errMissingParameter))
		}
		w, err := m.wallpapers.LoadPath(req.Path)
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Wallpaper: info(w)}

	case OpCurrent:
		w := m.wallpapers.Current()
		if w == nil {
			return failure(ErrNoWallpaper)
		}
		return Response{Success: true, Wallpaper: info(w)}

	case OpList:
		names, err := m.wallpapers.List()
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Wallpapers: names}

	case OpInstall:
		if req.Path == "" {
			return failure(fmt.Errorf("%w: path", errMissingParameter))
		}
		name, err := m.wallpapers.Install(req.Path, req.Name)
		if err != nil {
			return failure(err)
		}
		return Response{
			Success:   true,
			Wallpaper: &WallpaperInfo{Name: name, Path: filepath.Join(m.wallpapers.Dir(), name)},
		}

	case OpSet:
		w, err := m.Set(req.Name, req.Monitor)
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Wallpaper: info(w)}

	case OpStatus:
		resp := Response{
			Success:  true,
			Displays: m.renderer.Displays(),
			Version:  strings.TrimSpace(layerpaper.Version),
			PID:      os.Getpid(),
		}
		if w := m.wallpapers.Current(); w != nil {
			resp.Wallpaper = info(w)
		}
		return resp

	case OpShutdown:
		log.Info("Shutdown requested")
		m.cancel()
		return Response{Success: true}

	case OpReload:
		if err := m.reload(req.Path); err != nil {
			return failure(err)
		}
		return Response{Success: true}

	default:
		return failure(fmt.Errorf("unknown operation %q", req.Op))
	}
}

// Set resolves the wallpaper called name and applies it to monitor, or to
// every display when monitor is empty. Nothing changes when the monitor
// is not active.
func (m *Manager) Set(name, monitor string) (*wallpaper.Wallpaper, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", errMissingParameter)
	}
	if monitor != "" && !m.hasDisplay(monitor) {
		return nil, fmt.Errorf("monitor %q %w", monitor, ErrMonitorNotFound)
	}

	w, err := m.wallpapers.Resolve(name)
	if err != nil {
		return nil, err
	}
	if err := m.renderer.SetWallpaper(w, monitor); err != nil {
		return nil, err
	}

	m.wallpapers.SetCurrent(w)
	m.applied(w)
	log.Infof("Wallpaper %q applied to %s", w.Name, displayLabel(monitor))
	return w, nil
}

// reload re-reads the wallpaper in dir and reapplies it wherever a
// wallpaper of the same name is shown.
func (m *Manager) reload(dir string) error {
	w, err := wallpaper.Load(dir)
	if err != nil {
		return err
	}

	for _, d := range m.renderer.Displays() {
		if d.Wallpaper != w.Name {
			continue
		}
		if err := m.renderer.SetWallpaper(w, d.Name); err != nil {
			return err
		}
		log.Infof("Reloaded %q on %s", w.Name, d.Name)
	}

	if cur := m.wallpapers.Current(); cur != nil && cur.Path == w.Path {
		m.wallpapers.SetCurrent(w)
	}
	return nil
}

func (m *Manager) hasDisplay(name string) bool {
	for _, d := range m.renderer.Displays() {
		if d.Name == name {
			return true
		}
	}
	return false
}

func (m *Manager) applied(w *wallpaper.Wallpaper) {
	if m.opts.OnApply != nil {
		m.opts.OnApply(w)
	}
}

func info(w *wallpaper.Wallpaper) *WallpaperInfo {
	return &WallpaperInfo{Name: w.Name, Path: w.Path}
}

func displayLabel(monitor string) string {
	if monitor == "" {
		return "all displays"
	}
	return monitor
}
