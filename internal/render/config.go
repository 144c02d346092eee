package render

import (
	"image/color"
	"time"
)

// Global render defaults.
var (
	// Background is painted behind the tiles on every clear.
	Background = color.NRGBA{R: 0x0D, G: 0x0A, B: 0x14, A: 0xFF} // #0d0a14
	// Foreground is the overlay caption colour.
	Foreground = color.NRGBA{R: 0xFF, G: 0xDC, B: 0x00, A: 0xFF} // #ffdc00

	// RefreshHz stands in for the display's vertical sync.
	RefreshHz = 60

	// DefaultDevice is the framebuffer opened by FBRenderer.
	DefaultDevice = "/dev/fb0"
)

func refreshInterval(hz int) time.Duration {
	if hz <= 0 {
		hz = RefreshHz
	}
	return time.Second / time.Duration(hz)
}
