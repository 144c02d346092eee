package render

import (
	"image"
	"image/color"

	"github.com/rook-computer/backdrop/internal/render/layout"
)

const overlayMarginPx = 24

// Overlay draws foreground content over the tiles: a caption along the
// bottom edge and an optional QR code pointing at the site.
type Overlay struct {
	Caption  string
	Color    color.Color
	FontSize int

	qr image.Image
}

// NewOverlay prepares the QR code for url once; an empty url disables it.
func NewOverlay(caption, url string) (*Overlay, error) {
	qr, err := GenerateQRCodeImage(url, defaultQRCodeSizePx)
	if err != nil {
		return nil, err
	}
	return &Overlay{Caption: caption, Color: Foreground, qr: qr}, nil
}

// Empty reports whether the overlay would draw nothing.
func (o *Overlay) Empty() bool {
	return o == nil || (o.Caption == "" && o.qr == nil)
}

func (o *Overlay) Draw(d Drawer) {
	if o.Empty() {
		return
	}
	width, height := d.Size()
	area := layout.Inset(image.Rect(0, 0, width, height), overlayMarginPx)
	if area.Empty() {
		return
	}

	if o.qr != nil {
		side := min(defaultQRCodeSizePx, width/4, height/4)
		if side > 0 {
			d.DrawImage(o.qr, layout.AnchorBottomRight(area, side, side))
		}
	}

	if o.Caption != "" {
		style := TextStyle{Color: o.Color, Size: o.FontSize, Align: TextAlignCenter}
		metrics := d.MeasureText(o.Caption, style)
		box := layout.AnchorBottomCenter(area, metrics.Width, metrics.Height)
		d.DrawText(o.Caption, box.Min.X+box.Dx()/2, box.Min.Y, style)
	}
}
