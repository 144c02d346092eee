package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/rook-computer/backdrop/internal/tiling"
)

type recordingDrawer struct {
	width, height int
	texts         []string
	images        []image.Rectangle
}

func (d *recordingDrawer) Clear()                                  {}
func (d *recordingDrawer) FillPolygon([]tiling.Point, color.NRGBA) {}
func (d *recordingDrawer) Size() (int, int)                        { return d.width, d.height }

func (d *recordingDrawer) DrawImage(img image.Image, r image.Rectangle) {
	d.images = append(d.images, r)
}

func (d *recordingDrawer) MeasureText(text string, style TextStyle) TextMetrics {
	return TextMetrics{Width: 10 * len(text), Height: 20, Ascent: 16, Descent: 4}
}
func (d *recordingDrawer) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	d.texts = append(d.texts, text)
	return d.MeasureText(text, style)
}

func TestOverlayDrawsCaptionAndQR(t *testing.T) {
	o, err := NewOverlay("hello", "https://example.com")
	if err != nil {
		t.Fatalf("NewOverlay: %v", err)
	}
	d := &recordingDrawer{width: 1920, height: 1080}
	o.Draw(d)
	if len(d.texts) != 1 || d.texts[0] != "hello" {
		t.Fatalf("texts = %v", d.texts)
	}
	if len(d.images) != 1 {
		t.Fatalf("images = %v", d.images)
	}
	qr := d.images[0]
	if qr.Max.X != 1920-overlayMarginPx || qr.Max.Y != 1080-overlayMarginPx || qr.Dx() != qr.Dy() {
		t.Fatalf("qr rect = %v", qr)
	}
}

func TestOverlayEmpty(t *testing.T) {
	o, err := NewOverlay("", "")
	if err != nil {
		t.Fatalf("NewOverlay: %v", err)
	}
	if !o.Empty() {
		t.Fatal("overlay without caption or url should be empty")
	}
	d := &recordingDrawer{width: 100, height: 100}
	o.Draw(d)
	var nilOverlay *Overlay
	nilOverlay.Draw(d)
	if len(d.texts)+len(d.images) != 0 {
		t.Fatal("empty overlay drew something")
	}
}

func TestOverlayTinyCanvas(t *testing.T) {
	o, _ := NewOverlay("x", "https://example.com")
	d := &recordingDrawer{width: 20, height: 20}
	o.Draw(d)
	if len(d.texts)+len(d.images) != 0 {
		t.Fatal("overlay drew into a canvas smaller than its margins")
	}
}

func TestGenerateQRCodeImage(t *testing.T) {
	img, err := GenerateQRCodeImage("", 0)
	if img != nil || err != nil {
		t.Fatalf("empty payload = %v, %v", img, err)
	}
	img, err = GenerateQRCodeImage("https://example.com", 0)
	if err != nil {
		t.Fatalf("GenerateQRCodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != defaultQRCodeSizePx || b.Dy() != defaultQRCodeSizePx {
		t.Fatalf("bounds = %v", b)
	}
}
