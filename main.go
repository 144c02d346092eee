package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/backdrop/internal/app"
	"github.com/rook-computer/backdrop/internal/config"
	"github.com/rook-computer/backdrop/internal/render"
	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/system"
	"github.com/rook-computer/backdrop/internal/tiling"
	"github.com/rook-computer/backdrop/internal/web"
)

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	serverDefaults, err := web.DefaultServerConfigFromEnv(os.Getenv, ":80")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	// Flags
	cfg.RegisterFlags(flag.CommandLine)
	debug := flag.Bool("debug", false, "enable debug logging to ./backdrop-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via BACKDROP_STDIO_LOG")
	device := flag.String("device", render.DefaultDevice, "framebuffer device")
	refreshHz := flag.Int("refresh-hz", render.RefreshHz, "render loop frequency")
	listenAddr := flag.String("listen", serverDefaults.ListenAddr, "http listen address, empty to disable; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", serverDefaults.DevMode, "enable dev CORS; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve a dashboard from this directory (optional)")
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("BACKDROP_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./backdrop-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	settings, err := cfg.Finalize()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	animator, err := tiling.New(settings.Tiling, settings.Rand())
	if err != nil {
		fmt.Println("animator error:", err)
		os.Exit(2)
	}
	overlay, err := render.NewOverlay(settings.Caption, settings.QRURL)
	if err != nil {
		fmt.Println("overlay error:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	store.Motion.Set(settings.ReduceMotion)

	renderer := render.NewFBRenderer()
	renderer.Device = *device
	renderer.Background = settings.Background
	renderer.RefreshHz = *refreshHz
	renderer.Scale = settings.Scale
	renderer.OnResize = store.Viewport.Set

	var server web.Server = &web.NoopServer{}
	if *listenAddr != "" {
		httpServer := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
		httpServer.Logger = logger
		httpServer.Handler = web.NewDefaultMux(*staticDir, web.APIV1Deps{Store: store, Frames: renderer, DefaultScale: settings.Scale})
		server = httpServer
	}

	a := app.New(store, renderer, server, animator)
	a.Logger = logger
	a.Overlay = overlay
	a.Console = true

	// A mode switch on the console shows up as SIGWINCH; reopen the device
	// so the new geometry is published.
	system.WatchResize(ctx, logger, func() {
		if err := renderer.Reopen(); err != nil {
			logger.Errorf("fb", "reopen failed: %v", err)
		}
	})
	system.StartExitOnF4(ctx, logger, func() { a.Exit(nil) })

	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}
