package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/backdrop/internal/app/screens"
	"github.com/rook-computer/backdrop/internal/render"
	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/system"
	"github.com/rook-computer/backdrop/internal/tiling"
	"github.com/rook-computer/backdrop/internal/web"
)

type App struct {
	Store    *state.Store
	Render   render.Renderer
	Web      web.Server
	Animator *tiling.Animator
	Overlay  *render.Overlay
	Logger   Logger
	// Console switches the virtual terminal to graphics mode while running.
	Console bool

	currentScreen render.Screen

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, renderer render.Renderer, webServer web.Server, animator *tiling.Animator) *App {
	return &App{Store: store, Render: renderer, Web: webServer, Animator: animator, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the background until ctx is cancelled or Exit is called.
// Every subscription made here is released before it returns.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Animator == nil {
		return errors.New("no animator configured")
	}

	app.Store.SetPhase(state.BOOTING)
	if app.Render == nil {
		app.Render = render.NewFBRenderer()
	}
	if fb, ok := app.Render.(*render.FBRenderer); ok {
		fb.Logger = app.Logger
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		app.Store.SetPhase(state.ERROR)
		return err
	}
	defer app.Render.Stop()

	if app.Console {
		if err := system.SetGraphicsModeWithLog(app.Logger); err != nil {
			app.Logger.Errorf("tty", "set graphics mode failed: %v", err)
		}
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("web", "server start error: %v", err)
		} else {
			defer app.Web.Stop()
		}
	}

	unsubscribe := app.subscribe()
	defer unsubscribe()

	screen := screens.NewBackdropScreen(app.Animator, app.Overlay, app.Store, app.Logger)
	if err := app.setScreen(ctx, screen); err != nil {
		app.Store.SetPhase(state.ERROR)
		return err
	}
	defer app.clearScreen()

	app.Store.SetPhase(state.RUNNING)
	app.Render.RedrawWithState(time.Now(), app.Store.Snapshot())

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Render.RunLoop(loopCtx, app.Store)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	app.Store.SetPhase(state.STOPPED)
	return err
}

// subscribe forwards host signals into the animator and returns a func
// that releases all of them.
func (app *App) subscribe() func() {
	app.Animator.Resize(app.Store.Viewport.Get())
	unsubs := []func(){
		app.Store.Viewport.Subscribe(func(vp tiling.Viewport) {
			app.Logger.Infof("app", "viewport %.0fx%.0f@%.2f", vp.Width, vp.Height, vp.Scale)
			app.Animator.Resize(vp)
		}),
		app.Store.Motion.Subscribe(func(reduce bool) {
			app.Logger.Infof("app", "reduce motion=%v", reduce)
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (app *App) setScreen(ctx context.Context, screen render.Screen) error {
	app.clearScreen()
	app.currentScreen = screen
	app.Render.SetScreen(screen)
	return screen.Start(ctx)
}

func (app *App) clearScreen() {
	if app.currentScreen == nil {
		return
	}
	_ = app.currentScreen.Stop()
	app.currentScreen = nil
	app.Render.SetScreen(nil)
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct {
	mu *sync.Mutex
	w  io.Writer
}

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{mu: &sync.Mutex{}, w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.write("INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.write("ERROR", component, format, args...)
}

func (l FileLogger) write(level, component, format string, args ...interface{}) {
	if l.mu != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	writeLog(l.w, level, component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
