package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/homecoming/internal/app"
	"github.com/ayusman/homecoming/internal/capture"
	"github.com/ayusman/homecoming/internal/config"
	"github.com/ayusman/homecoming/internal/detector"
	"github.com/ayusman/homecoming/internal/logger"
	"github.com/ayusman/homecoming/internal/plugin"
	"github.com/ayusman/homecoming/internal/server"
	"github.com/ayusman/homecoming/internal/store"
	"github.com/ayusman/homecoming/internal/tray"
)

type serveOptions struct {
	addr     string
	tray     bool
	noCamera bool
	retain   time.Duration
}

func (c *cli) serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run gesture detection and the board API",
		Long: `Start the camera pipeline, the HTTP API and the live event feed.

Examples:
  homecoming serve
  homecoming serve --addr :9090 --tray
  homecoming serve --no-camera --retain 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&opts.tray, "tray", false, "show the tray indicator")
	cmd.Flags().BoolVar(&opts.noCamera, "no-camera", false, "serve the API without gesture detection")
	cmd.Flags().DurationVar(&opts.retain, "retain", 0, "drop logged events older than this at startup (0 keeps all)")

	return cmd
}

func (c *cli) runServe(ctx context.Context, opts serveOptions) error {
	cfg := c.cfg
	log := logger.L()

	addr := cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	log.Info("store opened", zap.String("path", st.Path()))

	if opts.retain > 0 {
		n, err := st.Events().Prune(time.Now().Add(-opts.retain))
		if err != nil {
			return fmt.Errorf("prune events: %w", err)
		}
		log.Info("pruned event log", zap.Int64("removed", n), zap.Duration("retain", opts.retain))
	}

	plugins := plugin.NewManager(cfg.Plugins.Dir)
	if err := plugins.Discover(); err != nil {
		log.Warn("plugin discovery failed", zap.String("dir", cfg.Plugins.Dir), zap.Error(err))
	}

	appCfg := app.Config{
		Store:    st,
		Plugins:  plugins,
		Executor: plugin.NewExecutor(cfg.Plugins.Timeout),
		Gate:     capture.NewGate(cfg.Camera.IdleFPS, cfg.Camera.ActiveFPS, cfg.Camera.IdleTimeout),
		Filter:   cfg.Stability.FilterConfig(),
		Swipe:    cfg.Swipe.TrackerConfig(),
	}
	if !opts.noCamera {
		attachCamera(&appCfg, cfg)
	}

	a := app.New(appCfg)
	defer a.Close()

	hub := server.NewHub()
	a.AddSink(hub)

	var tr *tray.Tray
	if opts.tray {
		tr = tray.New(true)
		a.AddSink(tr)
	}

	a.SetEnabled(true)
	if err := a.Start(ctx); err != nil {
		if !errors.Is(err, app.ErrNoCamera) {
			log.Error("detection unavailable", zap.Error(err))
		} else {
			log.Info("running without camera")
		}
	}

	srv := server.New(server.Config{
		StaticDir: findWebDir(cfg.Server.StaticDir),
		Store:     st,
		Plugins:   plugins,
		Hub:       hub,
		Detection: a,
	})

	if tr == nil {
		return ignoreClosed(srv.ListenAndServe(ctx, addr))
	}

	// The tray owns the main thread until it quits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, addr)
		tr.Quit()
	}()

	tr.OnToggle(a.SetEnabled)
	tr.OnOpen(func() { openBrowser(boardURL(addr)) })
	tr.OnQuit(cancel)
	tr.Run()

	cancel()
	return ignoreClosed(<-errCh)
}

// attachCamera wires the device camera and detector into cfg. A missing
// tracker leaves them unset so the service still serves its API.
func attachCamera(appCfg *app.Config, cfg *config.Config) {
	det, err := detector.NewMediaPipeDetector(cfg.Detector)
	if err != nil {
		logger.L().Warn("hand tracker unavailable, detection disabled", zap.Error(err))
		return
	}

	appCfg.Detector = det
	appCfg.Camera = capture.NewCamera(capture.Options{
		Device: cfg.Camera.Device,
		Width:  cfg.Camera.Width,
		Height: cfg.Camera.Height,
		FPS:    cfg.Camera.IdleFPS,
	})
	appCfg.Motion = capture.NewMotionDetector(cfg.Camera.MotionThreshold)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// findWebDir returns dir when set, else the first of web, ../web and
// ~/.homecoming/web that exists.
func findWebDir(dir string) string {
	if dir != "" {
		return dir
	}

	candidates := []string{"web", filepath.Join("..", "web"), filepath.Join(config.DataDir(), "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func boardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.L().Warn("failed to open browser", zap.String("url", url), zap.Error(err))
		return
	}
	go cmd.Wait()
}
