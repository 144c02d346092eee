package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/backdrop/internal/assets"
	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

// FBRenderer renders to the Linux framebuffer using an offscreen canvas
// sized to the logical viewport.
type FBRenderer struct {
	Device     string
	Background color.Color
	RefreshHz  int
	// Scale is the device pixel ratio used for the published viewport.
	Scale  float64
	Logger Logger

	// OnResize receives the device size after Start and every Reopen.
	OnResize func(tiling.Viewport)

	mu        sync.Mutex
	fbDev     *fb.Device
	canvas    *Canvas
	fonts     *Fonts
	current   Screen
	presented bool
	running   atomic.Bool
}

func NewFBRenderer() *FBRenderer {
	return &FBRenderer{Device: DefaultDevice, Background: Background, RefreshHz: RefreshHz, Scale: 1}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	if err := r.open(); err != nil {
		return err
	}
	r.fonts = LoadFonts(assets.FontTTF, r.Logger)
	r.canvas = NewCanvas(tiling.Viewport{}, r.Background, r.fonts)
	r.running.Store(true)
	r.publishSize()
	return nil
}

func (r *FBRenderer) open() error {
	path := r.Device
	if path == "" {
		path = DefaultDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.fbDev = dev
	r.mu.Unlock()
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", path, bounds.Dx(), bounds.Dy())
	}
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// Reopen closes and reopens the device so a mode change is picked up.
func (r *FBRenderer) Reopen() error {
	r.mu.Lock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	r.mu.Unlock()
	if err := r.open(); err != nil {
		return err
	}
	r.publishSize()
	return nil
}

func (r *FBRenderer) publishSize() {
	if r.OnResize != nil {
		r.OnResize(r.Viewport(r.Scale))
	}
}

// Viewport describes the device in logical units for the given pixel ratio.
func (r *FBRenderer) Viewport(scale float64) tiling.Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev == nil {
		return tiling.Viewport{}
	}
	return deviceViewport(r.fbDev.Bounds(), scale)
}

func deviceViewport(bounds image.Rectangle, scale float64) tiling.Viewport {
	if !(scale > 0) {
		scale = 1
	}
	return tiling.Viewport{
		Width:  float64(bounds.Dx()) / scale,
		Height: float64(bounds.Dy()) / scale,
		Scale:  scale,
	}
}

// SetScreen sets the current logical screen to be drawn.
func (r *FBRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

// RedrawWithState draws one frame of the current screen and presents it.
func (r *FBRenderer) RedrawWithState(now time.Time, snap state.State) bool {
	if !r.running.Load() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.fbDev == nil || r.canvas == nil {
		return false
	}
	if r.canvas.Resize(snap.Viewport) && r.Logger != nil {
		w, h := r.canvas.Size()
		r.Logger.Infof("fb", "canvas resized to %dx%d", w, h)
	}
	if !r.current.Draw(r.canvas, now, snap) {
		return false
	}
	if err := blitToFB(r.fbDev, r.canvas.Image()); err != nil && r.Logger != nil {
		r.Logger.Errorf("fb", "blit failed: %v", err)
	}
	r.presented = true
	return true
}

// RunLoop redraws once per refresh tick until the context is done.
func (r *FBRenderer) RunLoop(ctx context.Context, store *state.Store) {
	ticker := time.NewTicker(refreshInterval(r.RefreshHz))
	defer ticker.Stop()
	frameLoop(ctx, ticker.C, func(now time.Time) bool {
		return r.RedrawWithState(now, store.Snapshot())
	}, r.Logger, "fb")
}

func (r *FBRenderer) Snapshot() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.presented || r.canvas == nil {
		return nil
	}
	return r.canvas.Snapshot()
}

var errNoDevice = errors.New("framebuffer not open")

// blitToFB copies the canvas to the device, scaling when the canvas was
// rendered at a different pixel ratio than the panel.
func blitToFB(dev *fb.Device, canvas *image.RGBA) error {
	if dev == nil {
		return errNoDevice
	}
	bounds := dev.Bounds()
	if canvas.Bounds().Size() == bounds.Size() {
		draw.Draw(dev, bounds, canvas, canvas.Bounds().Min, draw.Src)
		return nil
	}
	xdraw.NearestNeighbor.Scale(dev, bounds, canvas, canvas.Bounds(), xdraw.Src, nil)
	return nil
}
