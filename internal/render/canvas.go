package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/rook-computer/backdrop/internal/tiling"
)

// Canvas is an offscreen RGBA surface sized to the viewport in device
// pixels. Tiles are given in logical units and scaled by the viewport's
// pixel ratio.
type Canvas struct {
	Background color.Color

	img    *image.RGBA
	scale  float64
	raster *vector.Rasterizer
	src    *image.Uniform
	fonts  *Fonts
}

func NewCanvas(vp tiling.Viewport, background color.Color, fonts *Fonts) *Canvas {
	c := &Canvas{
		Background: background,
		raster:     vector.NewRasterizer(0, 0),
		src:        image.NewUniform(color.Transparent),
		fonts:      fonts,
	}
	c.Resize(vp)
	return c
}

// Resize reallocates the backing image when the pixel size changes.
// It reports whether a reallocation happened.
func (c *Canvas) Resize(vp tiling.Viewport) bool {
	vp = vp.Normalize()
	c.scale = vp.Scale
	width, height := vp.PixelSize()
	if c.img != nil && c.img.Bounds().Dx() == width && c.img.Bounds().Dy() == height {
		return false
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return true
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	return c.img.Bounds().Dx(), c.img.Bounds().Dy()
}

// Clear paints the background over the whole canvas.
func (c *Canvas) Clear() {
	bg := c.Background
	if bg == nil {
		bg = Background
	}
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
}

// FillPolygon rasterizes the polygon into its own bounding box only, so a
// frame costs the painted area rather than one full canvas per tile.
func (c *Canvas) FillPolygon(points []tiling.Point, fill color.NRGBA) {
	if len(points) < 3 || fill.A == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		x, y := p.X*c.scale, p.Y*c.scale
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	clip := box.Intersect(c.img.Bounds())
	if clip.Empty() {
		return
	}

	c.raster.Reset(clip.Dx(), clip.Dy())
	c.raster.DrawOp = draw.Over
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	for i, p := range points {
		x, y := float32(p.X*c.scale-ox), float32(p.Y*c.scale-oy)
		if i == 0 {
			c.raster.MoveTo(x, y)
		} else {
			c.raster.LineTo(x, y)
		}
	}
	c.raster.ClosePath()
	c.src.C = fill
	c.raster.Draw(c.img, clip, c.src, image.Point{})
}

func (c *Canvas) MeasureText(text string, style TextStyle) TextMetrics {
	return c.fonts.Measure(text, style.Size)
}

// DrawText draws text with its top edge at y. x is interpreted per style.Align.
func (c *Canvas) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	metrics := c.fonts.Measure(text, style.Size)
	switch style.Align {
	case TextAlignCenter:
		x -= metrics.Width / 2
	case TextAlignRight:
		x -= metrics.Width
	}
	textColor := style.Color
	if textColor == nil {
		textColor = Foreground
	}
	c.fonts.Draw(c.img, text, x, y+metrics.Ascent, style.Size, textColor)
	return metrics
}

func (c *Canvas) DrawImage(img image.Image, rect image.Rectangle) {
	if img == nil || rect.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(c.img, rect, img, img.Bounds(), xdraw.Over, nil)
}

// Snapshot returns a copy of the canvas pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	if c.img == nil {
		return nil
	}
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}
