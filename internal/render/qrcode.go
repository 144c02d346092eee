package render

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 192

// GenerateQRCodeImage encodes payload as a square QR code themed with the
// render colours. An empty payload yields (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode %q: %w", payload, err)
	}
	// Dark modules on the light accent keep the code scannable.
	code.ForegroundColor = Background
	code.BackgroundColor = Foreground
	return code.Image(sizePx), nil
}
