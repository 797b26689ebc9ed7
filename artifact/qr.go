package artifact

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePx = 256

// QRCode renders the verification token as a PNG raster.
func QRCode(token string) ([]byte, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("could not encode QR code: %w", err)
	}
	return png, nil
}
