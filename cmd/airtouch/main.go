// Command airtouch turns a webcam and a bare hand into a pointing device
// for an on-screen grid of buttons.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/airtouch/internal/app"
	"github.com/ayusman/airtouch/internal/audio"
	"github.com/ayusman/airtouch/internal/capture"
	"github.com/ayusman/airtouch/internal/config"
	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/geom"
	"github.com/ayusman/airtouch/internal/logging"
	"github.com/ayusman/airtouch/internal/plugin"
	"github.com/ayusman/airtouch/internal/render"
	"github.com/ayusman/airtouch/internal/server"
	"github.com/ayusman/airtouch/internal/tray"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type options struct {
	config   string
	camera   int
	backend  string
	logLevel string
	monitor  string
	tray     bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "airtouch:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("airtouch", flag.ContinueOnError)
	fs.StringVar(&opts.config, "config", "", "path to a YAML configuration file")
	fs.IntVar(&opts.camera, "camera", -1, "camera device index (overrides config)")
	fs.StringVar(&opts.backend, "backend", "", "render backend: window, terminal or none")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&opts.monitor, "monitor", "", "serve the HTTP monitor on this address")
	fs.BoolVar(&opts.tray, "tray", false, "show the system tray")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// apply overlays command-line overrides on cfg.
func (o options) apply(cfg *config.Config) {
	if o.camera >= 0 {
		cfg.Camera.Device = o.camera
	}
	if o.backend != "" {
		cfg.Display.Backend = o.backend
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.monitor != "" {
		cfg.Monitor.Enabled = true
		cfg.Monitor.Addr = o.monitor
	}
	if o.tray {
		cfg.Tray.Enabled = true
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	session := uuid.NewString()
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	logger = logger.With("session", session)
	slog.SetDefault(logger)

	logger.Info("starting airtouch", "config", cfg.Source, "backend", cfg.Display.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := render.ParseBackend(cfg.Display.Backend)
	if err != nil {
		return err
	}
	renderer, err := render.New(render.Options{
		Backend: backend,
		Title:   cfg.Display.Title,
		Size:    geom.Size{W: cfg.Display.Width, H: cfg.Display.Height},
		Style:   cfg.Display.Style,
		Encode:  cfg.Monitor.Enabled,
	})
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Close()

	det := newDetector(cfg.Detector, logger)
	defer det.Close()

	var cue audio.Cue = audio.Nop()
	player, err := audio.Load(cfg.Audio)
	if err != nil {
		logger.Debug("touch sound disabled", "error", err)
	} else {
		defer player.Close()
		cue = player
	}

	deps := app.Deps{
		Camera:   capture.NewCamera(cfg.Camera),
		Detector: det,
		Renderer: renderer,
		Cue:      cue,
		Logger:   logger,
	}

	if len(cfg.Actions) > 0 {
		dispatcher, err := newDispatcher(cfg, logger)
		if err != nil {
			return err
		}
		defer dispatcher.Close()
		deps.Actions = dispatcher
	}

	var monitor *server.Server
	if cfg.Monitor.Enabled {
		monitor = server.New(server.Config{Session: session, Logger: logger})
		deps.Publishers = append(deps.Publishers, monitor)
	}

	var icon *tray.Tray
	if cfg.Tray.Enabled {
		icon = tray.New()
		deps.Publishers = append(deps.Publishers, icon)
	}

	a, err := app.New(cfg, deps)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		if icon != nil {
			defer icon.Stop()
		}
		return a.Run(loopCtx)
	})
	if monitor != nil {
		g.Go(func() error {
			return monitor.ListenAndServe(loopCtx, cfg.Monitor.Addr)
		})
	}

	if icon != nil {
		icon.OnQuit(a.Stop)
		if player != nil {
			icon.OnSound(func(enabled bool) { player.SetMuted(!enabled) })
		}
		icon.Run()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("airtouch stopped", "frames", a.Frames())
	return err
}

func newDetector(cfg detector.Config, logger *slog.Logger) detector.Detector {
	det, err := detector.NewMediaPipeDetector(cfg)
	if err != nil {
		logger.Warn("landmark service unavailable, no hand will be tracked", "error", err)
		return detector.NewMockDetector()
	}
	return det
}

func newDispatcher(cfg config.Config, logger *slog.Logger) (*plugin.Dispatcher, error) {
	manager := plugin.NewManager(cfg.PluginsDir)
	if err := manager.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins: %w", err)
	}
	for _, p := range manager.List() {
		logger.Debug("plugin loaded", "name", p.Manifest.Name, "path", p.Path)
	}
	return plugin.NewDispatcher(manager, plugin.NewExecutor(plugin.DefaultTimeout), cfg.Actions, logger)
}
