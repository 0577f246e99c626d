package service

import (
	"errors"
	"fmt"
	"image"
	"regexp"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

var ErrNoClaimBarcode = errors.New("no claim barcode found")

var claimCodePayload = regexp.MustCompile(`(?i)(?:claim[ _-]?code[ \t]*[:=][ \t]*)?(\d[\d-]{3,})`)

// ClaimCodeReader decodes the claim code printed as a barcode on a page.
type ClaimCodeReader interface {
	ReadClaimCode(img image.Image) (string, error)
}

// ClaimBarcodeReader looks for a QR code first and a Code 128 barcode second.
// Decoders are created per call, so the reader is safe for concurrent use.
type ClaimBarcodeReader struct {
	hints map[gozxing.DecodeHintType]interface{}
}

func NewClaimBarcodeReader() *ClaimBarcodeReader {
	return &ClaimBarcodeReader{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (r *ClaimBarcodeReader) ReadClaimCode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	readers := []gozxing.Reader{
		qrcode.NewQRCodeReader(),
		oned.NewCode128Reader(),
	}
	for _, reader := range readers {
		result, err := reader.Decode(bmp, r.hints)
		if err != nil {
			continue
		}
		if m := claimCodePayload.FindStringSubmatch(result.GetText()); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoClaimBarcode
}
