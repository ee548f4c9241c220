package qrgen

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// defaultSize is the pixel width/height of generated QR images. Sized for
// the Carte Rose card printers.
const defaultSize = 256

// EncodePNG encodes data into a QR code PNG. The content is opaque to this
// package; callers pass the marshaled payload JSON.
func EncodePNG(data string) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, defaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
