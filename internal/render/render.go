package render

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	SetScreen(screen Screen)
	RunLoop(ctx context.Context, store *state.Store)
	RedrawWithState(now time.Time, snap state.State) bool
	// Snapshot copies the last presented frame; nil before the first frame.
	Snapshot() *image.RGBA
}

type Screen interface {
	Start(ctx context.Context) error
	Stop() error
	// Draw paints one frame and reports whether anything changed.
	Draw(d Drawer, now time.Time, s state.State) bool
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Stub implementations
type NoopRenderer struct{}

func (n *NoopRenderer) Start(ctx context.Context) error                      { return nil }
func (n *NoopRenderer) Stop() error                                          { return nil }
func (n *NoopRenderer) SetScreen(screen Screen)                              {}
func (n *NoopRenderer) RunLoop(ctx context.Context, store *state.Store)      {}
func (n *NoopRenderer) RedrawWithState(now time.Time, snap state.State) bool { return false }
func (n *NoopRenderer) Snapshot() *image.RGBA                                { return nil }

// Drawer is what screens paint on: the tiling surface in logical units plus
// pixel-space text and image primitives for overlays.
type Drawer interface {
	tiling.Surface

	// Size returns the canvas size in device pixels.
	Size() (width int, height int)

	MeasureText(text string, style TextStyle) TextMetrics
	DrawText(text string, x, y int, style TextStyle) TextMetrics

	// DrawImage scales img into rect (device pixels) with nearest-neighbour sampling.
	DrawImage(img image.Image, rect image.Rectangle)
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
// Coordinates for DrawText use a top-left anchor for Y.
// For X, Align controls how x is interpreted.
type TextStyle struct {
	Color color.Color
	Size  int // font size in points; 0 means renderer default
	Align TextAlign
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}
