package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/matjam/layerpaper/internal/middleware"
)

var ErrAlreadyRunning = errors.New("daemon is already running")

// NewServer builds the control API without binding it to a socket.
func NewServer(s Submitter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CharmLog())

	RegisterRoutes(e, s)
	return e
}

// Serve listens on the unix socket at path until ctx is cancelled. A stale
// socket left by a crashed daemon is replaced; a live one is an error.
func Serve(ctx context.Context, path string, s Submitter) error {
	if _, err := os.Stat(path); err == nil {
		if conn, err := net.Dial("unix", path); err == nil {
			conn.Close()
			return fmt.Errorf("%w on %s", ErrAlreadyRunning, path)
		}
		_ = os.Remove(path)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", path, err)
	}
	defer os.Remove(path)

	e := NewServer(s)
	e.Listener = listener

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Control server shutdown: %v", err)
		}
	}()

	log.Infof("Control socket listening on %s", path)

	// e.Shutdown only stops e.Server, so that is the one to serve on.
	if err := e.StartServer(e.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control server: %w", err)
	}
	return nil
}
