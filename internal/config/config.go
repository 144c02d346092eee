package config

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/rook-computer/backdrop/internal/tiling"
)

const (
	EnvTileSize       = "BACKDROP_TILE_SIZE"
	EnvGap            = "BACKDROP_GAP"
	EnvSpeed          = "BACKDROP_SPEED"
	EnvDirection      = "BACKDROP_DIRECTION"
	EnvRotation       = "BACKDROP_ROTATION"
	EnvBaseColor      = "BACKDROP_BASE_COLOR"
	EnvAccentColor    = "BACKDROP_ACCENT_COLOR"
	EnvBackground     = "BACKDROP_BACKGROUND"
	EnvOpacity        = "BACKDROP_OPACITY"
	EnvHighlightCount = "BACKDROP_HIGHLIGHT_COUNT"
	EnvHighlightEvery = "BACKDROP_HIGHLIGHT_EVERY"
	EnvTargetFPS      = "BACKDROP_TARGET_FPS"
	EnvScale          = "BACKDROP_SCALE"
	EnvReduceMotion   = "BACKDROP_REDUCE_MOTION"
	EnvCaption        = "BACKDROP_CAPTION"
	EnvQRURL          = "BACKDROP_QR_URL"
	EnvSeed           = "BACKDROP_SEED"
)

// Config is the raw, user-facing configuration. Colours are hex strings and
// the rotation is in degrees; Finalize turns them into render settings.
type Config struct {
	TileSize       float64
	Gap            float64
	Speed          float64
	Direction      string
	RotationDeg    float64
	BaseColor      string
	AccentColor    string
	Background     string
	Opacity        float64
	HighlightCount int
	HighlightEvery time.Duration
	TargetFPS      float64

	Scale        float64
	ReduceMotion bool
	Caption      string
	QRURL        string
	// Seed fixes the highlight sequence when non-zero.
	Seed uint64
}

// Settings is a validated Config.
type Settings struct {
	Tiling       tiling.Config
	Background   color.NRGBA
	Scale        float64
	ReduceMotion bool
	Caption      string
	QRURL        string
	Seed         uint64
}

func Default() Config {
	d := tiling.DefaultConfig()
	return Config{
		TileSize:       d.TileSize,
		Gap:            d.Gap,
		Speed:          d.Speed,
		Direction:      d.Direction.String(),
		RotationDeg:    d.Rotation * 180 / math.Pi,
		BaseColor:      hexOf(d.BaseColor),
		AccentColor:    hexOf(d.AccentColor),
		Background:     "#0d0a14",
		Opacity:        d.Opacity,
		HighlightCount: d.HighlightCount,
		HighlightEvery: d.HighlightEvery,
		TargetFPS:      d.TargetFPS,
		Scale:          1,
	}
}

// FromEnv starts from Default and applies every BACKDROP_* variable that is
// set. getenv is usually os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()
	var errs []error
	env := func(name string, parse func(string) error) {
		raw := getenv(name)
		if raw == "" {
			return
		}
		if err := parse(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", name, raw, err))
		}
	}

	env(EnvTileSize, floatInto(&c.TileSize))
	env(EnvGap, floatInto(&c.Gap))
	env(EnvSpeed, floatInto(&c.Speed))
	env(EnvDirection, stringInto(&c.Direction))
	env(EnvRotation, floatInto(&c.RotationDeg))
	env(EnvBaseColor, stringInto(&c.BaseColor))
	env(EnvAccentColor, stringInto(&c.AccentColor))
	env(EnvBackground, stringInto(&c.Background))
	env(EnvOpacity, floatInto(&c.Opacity))
	env(EnvHighlightCount, func(raw string) (err error) { c.HighlightCount, err = strconv.Atoi(raw); return })
	env(EnvHighlightEvery, func(raw string) (err error) { c.HighlightEvery, err = time.ParseDuration(raw); return })
	env(EnvTargetFPS, floatInto(&c.TargetFPS))
	env(EnvScale, floatInto(&c.Scale))
	env(EnvReduceMotion, func(raw string) (err error) { c.ReduceMotion, err = strconv.ParseBool(raw); return })
	env(EnvCaption, stringInto(&c.Caption))
	env(EnvQRURL, stringInto(&c.QRURL))
	env(EnvSeed, func(raw string) (err error) { c.Seed, err = strconv.ParseUint(raw, 10, 64); return })

	return c, errors.Join(errs...)
}

// RegisterFlags binds flags whose defaults are the current values of c, so
// command line flags override the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.TileSize, "tile-size", c.TileSize, "tile edge length in logical units; also "+EnvTileSize)
	fs.Float64Var(&c.Gap, "gap", c.Gap, "gap between neighbouring tiles; also "+EnvGap)
	fs.Float64Var(&c.Speed, "speed", c.Speed, "scroll speed in units per second; also "+EnvSpeed)
	fs.StringVar(&c.Direction, "direction", c.Direction, "forward | reverse; also "+EnvDirection)
	fs.Float64Var(&c.RotationDeg, "rotation", c.RotationDeg, "lattice rotation in degrees; also "+EnvRotation)
	fs.StringVar(&c.BaseColor, "base-color", c.BaseColor, "tile colour as hex; also "+EnvBaseColor)
	fs.StringVar(&c.AccentColor, "accent-color", c.AccentColor, "highlight colour as hex; also "+EnvAccentColor)
	fs.StringVar(&c.Background, "background", c.Background, "background colour as hex; also "+EnvBackground)
	fs.Float64Var(&c.Opacity, "opacity", c.Opacity, "tile opacity in [0,1]; also "+EnvOpacity)
	fs.IntVar(&c.HighlightCount, "highlight-count", c.HighlightCount, "highlighted tiles per reshuffle; also "+EnvHighlightCount)
	fs.DurationVar(&c.HighlightEvery, "highlight-every", c.HighlightEvery, "interval between reshuffles; also "+EnvHighlightEvery)
	fs.Float64Var(&c.TargetFPS, "target-fps", c.TargetFPS, "frame rate cap, 0 for uncapped; also "+EnvTargetFPS)
	fs.Float64Var(&c.Scale, "scale", c.Scale, "device pixel ratio; also "+EnvScale)
	fs.BoolVar(&c.ReduceMotion, "reduce-motion", c.ReduceMotion, "start with motion reduced; also "+EnvReduceMotion)
	fs.StringVar(&c.Caption, "caption", c.Caption, "text drawn along the bottom edge; also "+EnvCaption)
	fs.StringVar(&c.QRURL, "qr-url", c.QRURL, "draw a QR code linking here; also "+EnvQRURL)
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "highlight seed, 0 for random; also "+EnvSeed)
}

func (c Config) Finalize() (Settings, error) {
	dir, err := tiling.ParseDirection(c.Direction)
	if err != nil {
		return Settings{}, err
	}
	base, err := ParseColor(c.BaseColor)
	if err != nil {
		return Settings{}, fmt.Errorf("base color: %w", err)
	}
	accent, err := ParseColor(c.AccentColor)
	if err != nil {
		return Settings{}, fmt.Errorf("accent color: %w", err)
	}
	background, err := ParseColor(c.Background)
	if err != nil {
		return Settings{}, fmt.Errorf("background: %w", err)
	}
	if math.IsNaN(c.RotationDeg) || math.IsInf(c.RotationDeg, 0) {
		return Settings{}, fmt.Errorf("rotation must be finite (got %g)", c.RotationDeg)
	}

	tc := tiling.DefaultConfig()
	tc.TileSize = c.TileSize
	tc.Gap = c.Gap
	tc.Speed = c.Speed
	tc.Direction = dir
	tc.Rotation = c.RotationDeg * math.Pi / 180
	tc.BaseColor = base
	tc.AccentColor = accent
	tc.Opacity = c.Opacity
	tc.HighlightCount = c.HighlightCount
	tc.HighlightEvery = c.HighlightEvery
	tc.TargetFPS = c.TargetFPS
	if err := tc.Validate(); err != nil {
		return Settings{}, err
	}

	return Settings{
		Tiling:       tc,
		Background:   background,
		Scale:        tiling.Viewport{Scale: c.Scale}.Normalize().Scale,
		ReduceMotion: c.ReduceMotion,
		Caption:      c.Caption,
		QRURL:        c.QRURL,
		Seed:         c.Seed,
	}, nil
}

// ParseColor reads "#rrggbb" or "#rgb" as an opaque colour.
func ParseColor(raw string) (color.NRGBA, error) {
	c, err := colorful.Hex(raw)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

func hexOf(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

func floatInto(dst *float64) func(string) error {
	return func(raw string) (err error) {
		*dst, err = strconv.ParseFloat(raw, 64)
		return
	}
}

func stringInto(dst *string) func(string) error {
	return func(raw string) error {
		*dst = raw
		return nil
	}
}
