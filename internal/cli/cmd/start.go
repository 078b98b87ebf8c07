package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/matjam/layerpaper/internal/wallpaper"
	"github.com/matjam/layerpaper/internal/wlrenderer"
	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func NewStartCmd() *cobra.Command {
	var background bool

	c := &cobra.Command{
		Use:   "start",
		Short: "Start the layerpaper daemon",
		Long: `Connects to the Wayland compositor, puts a background layer on every
output and serves control requests on the layerpaper socket.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendPing(); err == nil {
				log.Info("layerpaper is already running")
				return
			}

			if background {
				dctx := daemonContext()
				child, err := dctx.Reborn()
				if err != nil {
					log.Fatalf("Failed to start in the background: %v", err)
				}
				if child != nil {
					log.Infof("layerpaper started in the background with PID %d", child.Pid)
					return
				}
				defer dctx.Release()
				setupRotatingLogger()
			}

			if err := RunDaemon(); err != nil {
				log.Fatalf("layerpaper failed: %v", err)
			}
			log.Info("layerpaper exited")
		},
	}

	c.Flags().BoolVarP(&background, "background", "b", false, "Run as a daemon")
	return c
}

func daemonContext() *daemon.Context {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	return &daemon.Context{
		PidFileName: filepath.Join(runtimeDir, "layerpaper.pid"),
		PidFilePerm: 0644,
		WorkDir:     "/",
		Umask:       027,
		Args:        os.Args,
	}
}

// RunDaemon runs the event loop on the calling goroutine, which must stay
// on its OS thread, until a shutdown request or a signal arrives.
func RunDaemon() error {
	log.Infof("Starting layerpaper in PID %d", os.Getpid())

	client, err := wlrenderer.NewClient(wlrenderer.Config{
		NativeRate:  viper.GetInt("native_rate"),
		PresentMode: viper.GetString("present_mode"),
	})
	if err != nil {
		return fmt.Errorf("initialising display: %w", err)
	}
	defer client.Close()

	queue, err := ipc.NewQueue(16)
	if err != nil {
		return err
	}
	defer queue.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	opts := ipc.Options{PollTimeoutMs: viper.GetInt("poll_timeout_ms")}
	if viper.GetBool("watch") {
		watcher, err := wallpaper.NewWatcher(func(dir string) {
			if _, err := queue.Submit(gctx, ipc.Request{Op: ipc.OpReload, Path: dir}); err != nil {
				log.Warnf("Reloading %s: %v", dir, err)
			}
		})
		if err != nil {
			return fmt.Errorf("creating manifest watcher: %w", err)
		}
		opts.OnApply = func(w *wallpaper.Wallpaper) {
			if err := watcher.Watch(w.Path); err != nil {
				log.Warnf("Watching %s: %v", w.Path, err)
			}
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	wallpapers := wallpaper.NewManager(utils.CanonicalPath(viper.GetString("wallpapers")))
	manager := ipc.NewManager(client, wallpapers, queue, opts)

	socket := ipc.SocketPath()
	g.Go(func() error { return ipc.Serve(gctx, socket, queue) })

	if name := viper.GetString("default_wallpaper"); name != "" {
		if _, err := manager.Set(name, ""); err != nil {
			log.Errorf("Applying default wallpaper %q: %v", name, err)
		}
	}

	runErr := manager.Run(gctx)
	cancel()

	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}

func setupRotatingLogger() {
	logPath := utils.CanonicalPath(viper.GetString("log_file"))
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
	if !viper.GetBool("debug") {
		log.SetLevel(log.InfoLevel)
	}
}
