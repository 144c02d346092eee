package screens

import (
	"context"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rook-computer/backdrop/internal/render"
	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

type countingDrawer struct {
	clears, fills, texts int
}

func (d *countingDrawer) Clear()                                  { d.clears++ }
func (d *countingDrawer) FillPolygon([]tiling.Point, color.NRGBA) { d.fills++ }
func (d *countingDrawer) Size() (int, int)                        { return 800, 600 }
func (d *countingDrawer) DrawImage(image.Image, image.Rectangle)  {}

func (d *countingDrawer) MeasureText(text string, style render.TextStyle) render.TextMetrics {
	return render.TextMetrics{Width: len(text) * 8, Height: 16}
}

func (d *countingDrawer) DrawText(text string, x, y int, style render.TextStyle) render.TextMetrics {
	d.texts++
	return d.MeasureText(text, style)
}

func newScreen(t *testing.T, cfg tiling.Config, overlay *render.Overlay) (*BackdropScreen, *state.Store) {
	t.Helper()
	animator, err := tiling.New(cfg, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("tiling.New: %v", err)
	}
	animator.Resize(tiling.Viewport{Width: 800, Height: 600, Scale: 1})
	store := state.NewStore()
	s := NewBackdropScreen(animator, overlay, store, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, store
}

func TestBackdropScreenPublishesFrame(t *testing.T) {
	overlay, _ := render.NewOverlay("caption", "")
	s, store := newScreen(t, tiling.DefaultConfig(), overlay)
	d := &countingDrawer{}
	if !s.Draw(d, time.Unix(0, 0), store.Snapshot()) {
		t.Fatal("first frame skipped")
	}
	if d.clears != 1 || d.fills == 0 || d.texts != 1 {
		t.Fatalf("drawer = %+v", d)
	}
	frame := store.Snapshot().Frame
	if frame.Frames != 1 || frame.Cols == 0 || frame.Rows == 0 || len(frame.Highlighted) != 6 {
		t.Fatalf("frame info = %+v", frame)
	}
}

func TestBackdropScreenSkipsCappedFrames(t *testing.T) {
	cfg := tiling.DefaultConfig()
	cfg.TargetFPS = 10
	s, store := newScreen(t, cfg, nil)
	d := &countingDrawer{}
	now := time.Unix(0, 0)
	s.Draw(d, now, store.Snapshot())
	if s.Draw(d, now.Add(16*time.Millisecond), store.Snapshot()) {
		t.Fatal("frame inside the cap interval was drawn")
	}
	if d.clears != 1 || store.Snapshot().Frame.Frames != 1 {
		t.Fatalf("skipped frame touched the surface: %+v", d)
	}
}

func TestBackdropScreenHonoursReducedMotion(t *testing.T) {
	s, store := newScreen(t, tiling.DefaultConfig(), nil)
	store.Motion.Set(true)
	d := &countingDrawer{}
	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		s.Draw(d, now.Add(time.Duration(i)*16*time.Millisecond), store.Snapshot())
	}
	if off := store.Snapshot().Frame.Offset; off != 0 {
		t.Fatalf("offset = %g under reduced motion", off)
	}
}

func TestBackdropScreenRequiresAnimator(t *testing.T) {
	if err := (&BackdropScreen{}).Start(context.Background()); err == nil {
		t.Fatal("expected error without animator")
	}
}
