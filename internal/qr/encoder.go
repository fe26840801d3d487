// Package qr wraps QR symbol generation and the canonical payload convention
// for decanting records.
package qr

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// RecordPathMarker is the URL path segment that distinguishes a record link
// from an arbitrary scanned string.
const RecordPathMarker = "/record/"

// RecordURL builds the canonical QR payload for a record. Generic camera apps
// resolve it as a link; the app's own scanner strips it back to the bare id.
func RecordURL(baseURL, id string) string {
	return strings.TrimSuffix(baseURL, "/") + RecordPathMarker + id
}

// Encoder renders strings into scannable QR pixel grids.
type Encoder struct {
	Level      qrcode.RecoveryLevel
	Foreground color.Color
	Background color.Color
}

// NewEncoder returns an encoder with the defaults used on the printed forms:
// low error correction, black on white.
func NewEncoder() Encoder {
	return Encoder{
		Level:      qrcode.Low,
		Foreground: color.Black,
		Background: color.White,
	}
}

// PNG encodes the payload into a size x size pixel PNG, quiet zone included.
func (e Encoder) PNG(payload string, size int) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, errors.New("qr payload must not be empty")
	}

	q, err := qrcode.New(payload, e.Level)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	q.ForegroundColor = e.Foreground
	q.BackgroundColor = e.Background

	png, err := q.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("rasterize qr symbol: %w", err)
	}
	return png, nil
}
