package tiling

import (
	"image/color"
	"math"
	"sync"
	"time"
)

// Surface is what the render loop paints on. Coordinates are logical units.
type Surface interface {
	// Clear erases the whole surface.
	Clear()
	// FillPolygon fills a convex polygon, compositing c over the surface.
	// points is reused by the caller after the call returns.
	FillPolygon(points []Point, c color.NRGBA)
}

// FrameStats describes the most recent frame.
type FrameStats struct {
	Offset      float64
	Cycles      int
	Coverage    Coverage
	Highlighted []TileKey
	Painted     int
	Frames      uint64
	Viewport    Viewport
}

// Animator drives the tiling background: geometry, clock, highlight set and
// the per-frame paint.
type Animator struct {
	cfg        Config
	lattice    Lattice
	clock      *Clock
	highlights *Highlighter

	mu      sync.Mutex
	pending *Viewport
	restart bool

	viewport Viewport
	coverage Coverage
	window   Window
	painted  int
	frames   uint64

	base, accent color.NRGBA
	corners      []Point
}

// New builds an animator. rng drives highlight sampling.
func New(cfg Config, rng Source) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lattice, err := NewLattice(cfg.TileSize, cfg.Gap, cfg.Rotation)
	if err != nil {
		return nil, err
	}
	return &Animator{
		cfg:        cfg,
		lattice:    lattice,
		clock:      NewClock(cfg),
		highlights: NewHighlighter(cfg.HighlightCount, cfg.HighlightEvery, rng),
		base:       withOpacity(cfg.BaseColor, cfg.Opacity),
		accent:     withOpacity(cfg.AccentColor, cfg.Opacity),
		corners:    make([]Point, 4),
	}, nil
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}

func (a *Animator) Config() Config           { return a.cfg }
func (a *Animator) Lattice() Lattice         { return a.lattice }
func (a *Animator) Clock() *Clock            { return a.clock }
func (a *Animator) Highlights() *Highlighter { return a.highlights }
func (a *Animator) Viewport() Viewport       { return a.viewport }
func (a *Animator) Coverage() Coverage       { return a.coverage }

// Resize records a new viewport. It is safe to call from any goroutine and
// takes effect at the start of the next frame.
func (a *Animator) Resize(vp Viewport) {
	vp = vp.Normalize()
	a.mu.Lock()
	a.pending = &vp
	a.mu.Unlock()
}

// Restart rewinds the scroll offset and drops the highlights at the start
// of the next frame. It is safe to call from any goroutine.
func (a *Animator) Restart() {
	a.mu.Lock()
	a.restart = true
	a.mu.Unlock()
}

func (a *Animator) applyPending() {
	a.mu.Lock()
	pending := a.pending
	restart := a.restart
	a.pending = nil
	a.restart = false
	a.mu.Unlock()
	if restart {
		a.clock.Reset()
		a.highlights.Reset()
	}
	if pending == nil {
		return
	}
	a.viewport = *pending
	if a.viewport.Empty() {
		a.coverage = Coverage{}
	} else {
		a.coverage = a.lattice.Coverage(a.viewport.Width, a.viewport.Height)
	}
	a.window = a.coverage.Window()
}

// Frame runs one tick of the render loop. It returns false when the frame
// cap skipped the frame and nothing was painted.
func (a *Animator) Frame(now time.Time, reduceMotion bool, surface Surface) bool {
	if surface == nil {
		return false
	}
	a.applyPending()
	if _, ok := a.clock.Tick(now, reduceMotion, a.lattice.Spacing()); !ok {
		return false
	}
	if a.highlights.Due(now) {
		a.highlights.Reshuffle(now, a.eligible())
	}

	surface.Clear()
	a.painted = 0
	a.frames++
	if a.window.Empty() {
		return true
	}

	origin := a.origin()
	extent := a.lattice.HalfExtent()
	a.eachTile(func(row, col int, center Point, u, v float64) {
		if a.cfg.Cull && !a.onScreen(center, extent) {
			return
		}
		fill := a.base
		if a.highlights.Has(GlobalKey(row, col, a.clock.Cycles(), a.cfg.Direction)) {
			fill = a.accent
		}
		corners := a.lattice.Corners(u, v, origin)
		a.corners = append(a.corners[:0], corners[:]...)
		surface.FillPolygon(a.corners, fill)
		a.painted++
	})
	return true
}

func (a *Animator) origin() Point {
	return Point{X: a.viewport.Width / 2, Y: a.viewport.Height / 2}
}

// eachTile walks the whole window at the current offset.
func (a *Animator) eachTile(fn func(row, col int, center Point, u, v float64)) {
	origin := a.origin()
	offset := a.clock.Offset()
	for row := a.window.RowMin; row < a.window.RowMax; row++ {
		for col := a.window.ColMin; col < a.window.ColMax; col++ {
			u, v := a.lattice.TileCenter(row, col, offset, a.cfg.Direction)
			fn(row, col, a.lattice.ToScreen(u, v, origin), u, v)
		}
	}
}

func (a *Animator) onScreen(center Point, margin float64) bool {
	return center.X+margin >= 0 && center.X-margin <= a.viewport.Width &&
		center.Y+margin >= 0 && center.Y-margin <= a.viewport.Height
}

// VisibleKeys lists the global keys of tiles at least partly on screen at
// the current offset.
func (a *Animator) VisibleKeys() []TileKey {
	var keys []TileKey
	extent := a.lattice.HalfExtent()
	cycles := a.clock.Cycles()
	a.eachTile(func(row, col int, center Point, _, _ float64) {
		if a.onScreen(center, extent) {
			keys = append(keys, GlobalKey(row, col, cycles, a.cfg.Direction))
		}
	})
	return keys
}

// eligible returns the reshuffle candidates, falling back to the whole
// window when nothing passes the visibility test.
func (a *Animator) eligible() []TileKey {
	keys := a.VisibleKeys()
	if len(keys) > 0 || a.window.Empty() {
		return keys
	}
	cycles := a.clock.Cycles()
	keys = make([]TileKey, 0, a.window.Len())
	for row := a.window.RowMin; row < a.window.RowMax; row++ {
		for col := a.window.ColMin; col < a.window.ColMax; col++ {
			keys = append(keys, GlobalKey(row, col, cycles, a.cfg.Direction))
		}
	}
	return keys
}

// Stats reports the state left by the last frame.
func (a *Animator) Stats() FrameStats {
	return FrameStats{
		Offset:      a.clock.Offset(),
		Cycles:      a.clock.Cycles(),
		Coverage:    a.coverage,
		Highlighted: a.highlights.Keys(),
		Painted:     a.painted,
		Frames:      a.frames,
		Viewport:    a.viewport,
	}
}
