package render

import (
	"bytes"
	"image/png"
	"os"
)

// Logo is the two-variant logo asset: either a validated PNG image or the
// text wordmark fallback. The zero value is the fallback.
type Logo struct {
	data []byte
}

// LoadLogo reads and validates the logo asset. Any failure selects the text
// fallback; a missing asset must never block form generation.
func LoadLogo(path string) Logo {
	if path == "" {
		return Logo{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Logo{}
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return Logo{}
	}
	return Logo{data: data}
}

// HasImage reports whether a drawable logo image was loaded.
func (l Logo) HasImage() bool {
	return len(l.data) > 0
}

// PNG returns the validated image bytes, nil in the fallback variant.
func (l Logo) PNG() []byte {
	return l.data
}
