package config

import (
	"flag"
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/backdrop/internal/tiling"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultFinalizesToTilingDefaults(t *testing.T) {
	s, err := Default().Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	want := tiling.DefaultConfig()
	got := s.Tiling
	if math.Abs(got.Rotation-want.Rotation) > 1e-12 {
		t.Fatalf("rotation = %g, want %g", got.Rotation, want.Rotation)
	}
	got.Rotation = want.Rotation
	if got != want {
		t.Fatalf("tiling config = %+v\nwant %+v", got, want)
	}
	if s.Background != (color.NRGBA{R: 0x0d, G: 0x0a, B: 0x14, A: 0xff}) || s.Scale != 1 {
		t.Fatalf("settings = %+v", s)
	}
}

func TestFromEnv(t *testing.T) {
	c, err := FromEnv(envFrom(map[string]string{
		EnvTileSize:       "10",
		EnvGap:            "6",
		EnvDirection:      "reverse",
		EnvRotation:       "30",
		EnvAccentColor:    "#f00",
		EnvHighlightCount: "3",
		EnvHighlightEvery: "500ms",
		EnvReduceMotion:   "true",
		EnvSeed:           "42",
		EnvScale:          "2",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	s, err := c.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if s.Tiling.Spacing() != 16 || s.Tiling.Direction != tiling.Reverse {
		t.Fatalf("tiling = %+v", s.Tiling)
	}
	if math.Abs(s.Tiling.Rotation-math.Pi/6) > 1e-12 {
		t.Fatalf("rotation = %g", s.Tiling.Rotation)
	}
	if s.Tiling.AccentColor != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("accent = %+v", s.Tiling.AccentColor)
	}
	if s.Tiling.HighlightCount != 3 || s.Tiling.HighlightEvery != 500*time.Millisecond {
		t.Fatalf("highlights = %d every %s", s.Tiling.HighlightCount, s.Tiling.HighlightEvery)
	}
	if !s.ReduceMotion || s.Seed != 42 || s.Scale != 2 {
		t.Fatalf("settings = %+v", s)
	}
}

func TestFromEnvReportsEveryBadVariable(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{
		EnvSpeed:        "fast",
		EnvReduceMotion: "sometimes",
	}))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{EnvSpeed, EnvReduceMotion} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not mention %s", err, name)
		}
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	c, err := FromEnv(envFrom(map[string]string{EnvSpeed: "5", EnvCaption: "from env"}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse([]string{"-speed", "30", "-base-color", "#00ff00"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Speed != 30 || c.Caption != "from env" || c.BaseColor != "#00ff00" {
		t.Fatalf("config = %+v", c)
	}
}

func TestFinalizeRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero spacing", mutate: func(c *Config) { c.TileSize, c.Gap = 0, 0 }},
		{name: "bad direction", mutate: func(c *Config) { c.Direction = "sideways" }},
		{name: "bad colour", mutate: func(c *Config) { c.BaseColor = "purple" }},
		{name: "opacity", mutate: func(c *Config) { c.Opacity = 1.5 }},
		{name: "interval", mutate: func(c *Config) { c.HighlightEvery = 0 }},
		{name: "rotation", mutate: func(c *Config) { c.RotationDeg = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if _, err := c.Finalize(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	got, err := ParseColor("#9000ff")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if got != (color.NRGBA{R: 0x90, B: 0xff, A: 0xff}) {
		t.Fatalf("colour = %+v", got)
	}
	if hexOf(got) != "#9000ff" {
		t.Fatalf("hexOf = %q", hexOf(got))
	}
}

func TestSeededRandIsDeterministic(t *testing.T) {
	s := Settings{Seed: 7}
	a, b := s.Rand(), s.Rand()
	for i := 0; i < 8; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}
