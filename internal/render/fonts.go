package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const (
	defaultFontSize = 32
	fontDPI         = 96
)

// Fonts measures text with opentype faces and rasterizes it with freetype.
// Both fall back to basicfont when the font bytes do not parse.
type Fonts struct {
	otf *sfnt.Font
	ttf *truetype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// LoadFonts parses data for both the metrics and the raster path. Parse
// failures are logged and leave the basicfont fallback in place.
func LoadFonts(data []byte, logger Logger) *Fonts {
	f := &Fonts{faces: map[int]font.Face{}}
	if otf, err := opentype.Parse(data); err != nil {
		if logger != nil {
			logger.Errorf("font", "opentype parse failed, using basicfont: %v", err)
		}
	} else {
		f.otf = otf
	}
	if ttf, err := truetype.Parse(data); err != nil {
		if logger != nil {
			logger.Errorf("font", "truetype parse failed: %v", err)
		}
	} else {
		f.ttf = ttf
	}
	return f
}

func (f *Fonts) face(size int) font.Face {
	if f == nil || f.otf == nil {
		return basicfont.Face7x13
	}
	if size <= 0 {
		size = defaultFontSize
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{Size: float64(size), DPI: fontDPI, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[size] = face
	return face
}

func (f *Fonts) Measure(text string, size int) TextMetrics {
	face := f.face(size)
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	return TextMetrics{
		Width:      font.MeasureString(face, text).Ceil(),
		Height:     ascent + descent,
		Ascent:     ascent,
		Descent:    descent,
		LineHeight: metrics.Height.Ceil(),
	}
}

// Draw renders text with its baseline at (x, baseline).
func (f *Fonts) Draw(dst *image.RGBA, text string, x, baseline, size int, fg color.Color) {
	if size <= 0 {
		size = defaultFontSize
	}
	if f != nil && f.ttf != nil {
		ctx := freetype.NewContext()
		ctx.SetDPI(fontDPI)
		ctx.SetFont(f.ttf)
		ctx.SetFontSize(float64(size))
		ctx.SetClip(dst.Bounds())
		ctx.SetDst(dst)
		ctx.SetSrc(image.NewUniform(fg))
		ctx.SetHinting(font.HintingFull)
		if _, err := ctx.DrawString(text, freetype.Pt(x, baseline)); err == nil {
			return
		}
	}
	drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: f.face(size)}
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}
