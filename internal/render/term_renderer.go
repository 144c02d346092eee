package render

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/backdrop/internal/assets"
	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

// upperHalf paints the top pixel of a cell in the foreground colour and the
// bottom pixel in the background colour.
const upperHalf = '▀'

// DefaultTermScale maps logical units to terminal half-block pixels.
const DefaultTermScale = 0.25

// TermRenderer previews the background in a terminal. Every cell shows two
// canvas pixels stacked vertically.
type TermRenderer struct {
	Background color.Color
	RefreshHz  int
	Scale      float64
	Logger     Logger

	// OnResize receives the terminal size as a viewport.
	OnResize func(tiling.Viewport)
	// OnExit is called once when the user presses Esc, q or Ctrl-C.
	OnExit func()

	screen    tcell.Screen
	mu        sync.Mutex
	canvas    *Canvas
	current   Screen
	presented bool
	running   atomic.Bool
	exitOnce  sync.Once
	done      chan struct{}
}

func NewTermRenderer() *TermRenderer {
	return &TermRenderer{Background: Background, RefreshHz: 30, Scale: DefaultTermScale}
}

func (r *TermRenderer) Start(ctx context.Context) error {
	if r.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		r.screen = screen
	}
	if err := r.screen.Init(); err != nil {
		return err
	}
	r.screen.HideCursor()
	r.screen.Clear()

	r.canvas = NewCanvas(tiling.Viewport{}, r.Background, LoadFonts(assets.FontTTF, r.Logger))
	r.done = make(chan struct{})
	r.running.Store(true)

	go r.pollEvents()
	r.publishSize()
	return nil
}

func (r *TermRenderer) pollEvents() {
	defer close(r.done)
	for {
		ev := r.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// Fini was called.
			return
		case *tcell.EventResize:
			r.screen.Sync()
			r.publishSize()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				r.exitOnce.Do(func() {
					if r.OnExit != nil {
						r.OnExit()
					}
				})
			}
		}
	}
}

// Viewport returns the terminal size in logical units.
func (r *TermRenderer) Viewport() tiling.Viewport {
	if r.screen == nil {
		return tiling.Viewport{}
	}
	cols, rows := r.screen.Size()
	return cellViewport(cols, rows, r.Scale)
}

// CellViewport converts a terminal size in cells to a viewport at r.Scale.
func (r *TermRenderer) CellViewport(cols, rows int) tiling.Viewport {
	return cellViewport(cols, rows, r.Scale)
}

func cellViewport(cols, rows int, scale float64) tiling.Viewport {
	if !(scale > 0) {
		scale = DefaultTermScale
	}
	return tiling.Viewport{
		Width:  float64(cols) / scale,
		Height: float64(rows*2) / scale,
		Scale:  scale,
	}
}

func (r *TermRenderer) publishSize() {
	vp := r.Viewport()
	if r.Logger != nil {
		r.Logger.Infof("term", "terminal viewport %.0fx%.0f", vp.Width, vp.Height)
	}
	if r.OnResize != nil {
		r.OnResize(vp)
	}
}

func (r *TermRenderer) Stop() error {
	if !r.running.Swap(false) {
		return nil
	}
	r.screen.Fini()
	<-r.done
	return nil
}

func (r *TermRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

func (r *TermRenderer) RedrawWithState(now time.Time, snap state.State) bool {
	if !r.running.Load() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.canvas == nil {
		return false
	}
	r.canvas.Resize(snap.Viewport)
	if !r.current.Draw(r.canvas, now, snap) {
		return false
	}
	blitToCells(r.screen, r.canvas.Image())
	r.screen.Show()
	r.presented = true
	return true
}

func (r *TermRenderer) RunLoop(ctx context.Context, store *state.Store) {
	ticker := time.NewTicker(refreshInterval(r.RefreshHz))
	defer ticker.Stop()
	frameLoop(ctx, ticker.C, func(now time.Time) bool {
		return r.RedrawWithState(now, store.Snapshot())
	}, r.Logger, "term")
}

func (r *TermRenderer) Snapshot() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.presented || r.canvas == nil {
		return nil
	}
	return r.canvas.Snapshot()
}

// blitToCells writes pairs of canvas rows into half-block cells.
func blitToCells(screen tcell.Screen, img *image.RGBA) {
	cols, rows := screen.Size()
	bounds := img.Bounds()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := cellColor(img, bounds, x, 2*y)
			bottom := cellColor(img, bounds, x, 2*y+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
}

func cellColor(img *image.RGBA, bounds image.Rectangle, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}.In(bounds)) {
		return tcell.ColorBlack
	}
	px := img.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(px.R), int32(px.G), int32(px.B))
}
