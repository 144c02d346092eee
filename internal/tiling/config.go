package tiling

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"
)

// ErrInvalidSpacing is returned when TileSize+Gap is not positive.
var ErrInvalidSpacing = errors.New("tiling: tile size plus gap must be positive")

// Direction selects which row parity scrolls in the positive direction of
// the lattice's primary axis.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// sign returns the scroll sign applied to even rows.
func (d Direction) sign() float64 {
	if d == Reverse {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection accepts "forward" or "reverse".
func ParseDirection(raw string) (Direction, error) {
	switch raw {
	case "", "forward", "fwd", "+":
		return Forward, nil
	case "reverse", "rev", "-":
		return Reverse, nil
	default:
		return Forward, fmt.Errorf("unknown direction %q", raw)
	}
}

// DefaultMaxDelta bounds a single frame step after the process was stalled.
const DefaultMaxDelta = 64 * time.Millisecond

// Config is the lattice and animation configuration of one Animator.
type Config struct {
	TileSize  float64
	Gap       float64
	Rotation  float64 // radians
	Direction Direction

	// Speed is the scroll speed along the primary axis in units per second.
	Speed float64

	BaseColor   color.NRGBA
	AccentColor color.NRGBA
	Opacity     float64

	HighlightCount int
	HighlightEvery time.Duration

	// TargetFPS caps the frame rate when positive.
	TargetFPS float64
	MaxDelta  time.Duration

	// Cull skips fill calls for tiles that are entirely off screen.
	Cull bool
}

// DefaultConfig returns the stock site background.
func DefaultConfig() Config {
	return Config{
		TileSize:       20,
		Gap:            24,
		Rotation:       math.Pi / 4,
		Direction:      Forward,
		Speed:          12,
		BaseColor:      color.NRGBA{R: 0x90, G: 0x00, B: 0xFF, A: 0xFF},
		AccentColor:    color.NRGBA{R: 0xFF, G: 0xDC, B: 0x00, A: 0xFF},
		Opacity:        0.35,
		HighlightCount: 6,
		HighlightEvery: 2400 * time.Millisecond,
		MaxDelta:       DefaultMaxDelta,
		Cull:           true,
	}
}

// Spacing is the centre-to-centre distance between neighbouring tiles.
func (c Config) Spacing() float64 { return c.TileSize + c.Gap }

func (c Config) Validate() error {
	if c.TileSize < 0 || c.Gap < 0 {
		return fmt.Errorf("tiling: tile size and gap must be non-negative (got %g, %g)", c.TileSize, c.Gap)
	}
	if !(c.Spacing() > 0) {
		return ErrInvalidSpacing
	}
	if c.Opacity < 0 || c.Opacity > 1 {
		return fmt.Errorf("tiling: opacity must be within [0,1] (got %g)", c.Opacity)
	}
	if c.HighlightCount < 0 {
		return fmt.Errorf("tiling: highlight count must be non-negative (got %d)", c.HighlightCount)
	}
	if c.HighlightEvery <= 0 {
		return fmt.Errorf("tiling: highlight interval must be positive (got %s)", c.HighlightEvery)
	}
	if c.TargetFPS < 0 {
		return fmt.Errorf("tiling: target fps must be non-negative (got %g)", c.TargetFPS)
	}
	if c.Speed < 0 || math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		return fmt.Errorf("tiling: speed must be a non-negative number (got %g)", c.Speed)
	}
	return nil
}

// MaxDeviceScale bounds the device pixel ratio so the canvas size stays sane.
const MaxDeviceScale = 2.0

// MaxViewportSide bounds each logical viewport side. With MaxDeviceScale it
// keeps the canvas within 16384 pixels per side.
const MaxViewportSide = 8192.0

// Viewport is the logical size of the drawing surface plus its pixel ratio.
type Viewport struct {
	Width  float64
	Height float64
	Scale  float64
}

// Normalize clamps negative sizes to zero and the scale into (0, MaxDeviceScale].
func (v Viewport) Normalize() Viewport {
	v.Width = clampSide(v.Width)
	v.Height = clampSide(v.Height)
	if !(v.Scale > 0) {
		v.Scale = 1
	}
	if v.Scale > MaxDeviceScale {
		v.Scale = MaxDeviceScale
	}
	return v
}

func clampSide(side float64) float64 {
	if side < 0 || math.IsNaN(side) {
		return 0
	}
	return math.Min(side, MaxViewportSide)
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// PixelSize is the backing canvas size in device pixels.
func (v Viewport) PixelSize() (int, int) {
	v = v.Normalize()
	return int(math.Ceil(v.Width * v.Scale)), int(math.Ceil(v.Height * v.Scale))
}
