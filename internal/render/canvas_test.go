package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/rook-computer/backdrop/internal/assets"
	"github.com/rook-computer/backdrop/internal/tiling"
)

var opaqueRed = color.NRGBA{R: 0xFF, A: 0xFF}

func square(cx, cy, half float64) []tiling.Point {
	return []tiling.Point{{X: cx - half, Y: cy - half}, {X: cx + half, Y: cy - half}, {X: cx + half, Y: cy + half}, {X: cx - half, Y: cy + half}}
}

func TestCanvasClearAndFill(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 40, Height: 30, Scale: 1}, color.Black, nil)
	if w, h := c.Size(); w != 40 || h != 30 {
		t.Fatalf("size = %dx%d", w, h)
	}
	c.Clear()
	if got := c.Image().RGBAAt(5, 5); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("cleared pixel = %v", got)
	}

	c.FillPolygon(square(20, 15, 5), opaqueRed)
	if got := c.Image().RGBAAt(20, 15); got.R != 0xFF || got.G != 0 {
		t.Fatalf("centre pixel = %v, want red", got)
	}
	if got := c.Image().RGBAAt(2, 2); got.R != 0 {
		t.Fatalf("pixel outside polygon painted: %v", got)
	}
}

func TestCanvasScalesLogicalUnits(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 20, Height: 20, Scale: 2}, color.Black, nil)
	if w, h := c.Size(); w != 40 || h != 40 {
		t.Fatalf("size = %dx%d, want 40x40", w, h)
	}
	c.Clear()
	c.FillPolygon(square(15, 15, 2), opaqueRed)
	if got := c.Image().RGBAAt(30, 30); got.R != 0xFF {
		t.Fatalf("scaled centre pixel = %v", got)
	}
	if got := c.Image().RGBAAt(15, 15); got.R != 0 {
		t.Fatalf("unscaled position painted: %v", got)
	}
}

func TestCanvasBlendsTranslucentFill(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 10, Height: 10, Scale: 1}, color.Black, nil)
	c.Clear()
	c.FillPolygon(square(5, 5, 5), color.NRGBA{R: 0xFF, A: 0x80})
	got := c.Image().RGBAAt(5, 5)
	if got.R < 0x70 || got.R > 0x90 || got.A != 0xFF {
		t.Fatalf("blended pixel = %v, want half red over black", got)
	}
}

func TestCanvasClipsOffscreenPolygons(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 10, Height: 10, Scale: 1}, color.Black, nil)
	c.Clear()
	c.FillPolygon(square(-50, -50, 5), opaqueRed)
	c.FillPolygon(square(0, 0, 4), opaqueRed)
	if got := c.Image().RGBAAt(1, 1); got.R != 0xFF {
		t.Fatalf("partly visible polygon not painted: %v", got)
	}
	if got := c.Image().RGBAAt(8, 8); got.R != 0 {
		t.Fatalf("unexpected paint: %v", got)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 10, Height: 10, Scale: 1}, nil, nil)
	if c.Resize(tiling.Viewport{Width: 10, Height: 10, Scale: 1}) {
		t.Fatal("same size reported a reallocation")
	}
	if !c.Resize(tiling.Viewport{Width: 0, Height: 0}) {
		t.Fatal("resize to zero not reported")
	}
	c.Clear()
	c.FillPolygon(square(0, 0, 4), opaqueRed)
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Fatalf("size = %dx%d", w, h)
	}
}

func TestCanvasSnapshotIsCopy(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 4, Height: 4, Scale: 1}, color.White, nil)
	c.Clear()
	snap := c.Snapshot()
	c.FillPolygon(square(2, 2, 2), opaqueRed)
	if snap.RGBAAt(2, 2) != (color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Fatal("snapshot changed after drawing")
	}
}

func TestCanvasDrawText(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 300, Height: 80, Scale: 1}, color.Black, LoadFonts(assets.FontTTF, nil))
	c.Clear()
	metrics := c.DrawText("backdrop", 150, 10, TextStyle{Color: color.White, Size: 24, Align: TextAlignCenter})
	if metrics.Width <= 0 || metrics.Ascent <= 0 {
		t.Fatalf("metrics = %+v", metrics)
	}
	lit := 0
	b := c.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.Image().RGBAAt(x, y).R > 0x80 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("no text pixels drawn")
	}
}

func TestCanvasDrawImage(t *testing.T) {
	c := NewCanvas(tiling.Viewport{Width: 20, Height: 20, Scale: 1}, color.Black, nil)
	c.Clear()
	c.DrawImage(nil, image.Rect(0, 0, 5, 5))
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.Set(i%2, i/2, opaqueRed)
	}
	c.DrawImage(img, image.Rectangle{})
	c.DrawImage(img, image.Rect(10, 10, 20, 20))
	if got := c.Image().RGBAAt(15, 15); got.R != 0xFF {
		t.Fatalf("scaled image pixel = %v", got)
	}
}
