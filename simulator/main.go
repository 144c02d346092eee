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
	"github.com/rook-computer/backdrop/internal/tiling"
	"github.com/rook-computer/backdrop/internal/web"
)

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	defaults, err := web.DefaultServerConfigFromEnv(os.Getenv, ":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	cfg.RegisterFlags(flag.CommandLine)
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve a dashboard from this directory (optional)")
	termScale := flag.Float64("term-scale", render.DefaultTermScale, "terminal half-block pixels per logical unit")
	refreshHz := flag.Int("refresh-hz", 30, "terminal refresh frequency")
	debugLog := flag.String("debug-log", "", "write debug logs to this file")
	flag.Parse()

	settings, err := cfg.Finalize()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// The terminal belongs to tcell, so logs only ever go to a file.
	var logger app.Logger = app.NoopLogger{}
	if *debugLog != "" {
		f, err := os.OpenFile(*debugLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Println("debug log open error:", err)
			os.Exit(2)
		}
		defer f.Close()
		logger = app.NewFileLogger(f)
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

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	store.Motion.Set(settings.ReduceMotion)

	renderer := render.NewTermRenderer()
	renderer.Background = settings.Background
	renderer.RefreshHz = *refreshHz
	renderer.Scale = *termScale
	renderer.Logger = logger
	renderer.OnResize = store.Viewport.Set

	control := NewSimControl(store, renderer, animator, settings.ReduceMotion)
	mux := web.NewDefaultMux(*staticDir, web.APIV1Deps{Store: store, Frames: renderer, DefaultScale: renderer.Scale})
	registerSimEndpoints(mux, control)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Logger = logger
	server.Handler = mux

	a := app.New(store, renderer, server, animator)
	a.Logger = logger
	a.Overlay = overlay
	renderer.OnExit = func() { a.Exit(nil) }

	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
	fmt.Println("Backdrop simulator stopped; API was at http://" + displayAddr(*listenAddr) + "/api/v1/")
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
