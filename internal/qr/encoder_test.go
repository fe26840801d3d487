package qr

import (
	"bytes"
	"image/png"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordURL(t *testing.T) {
	assert.Equal(t, "https://decanting.vercel.app/record/LN21001",
		RecordURL("https://decanting.vercel.app", "LN21001"))

	t.Run("trailing slash collapsed", func(t *testing.T) {
		assert.Equal(t, "https://decanting.vercel.app/record/LN21001",
			RecordURL("https://decanting.vercel.app/", "LN21001"))
	})
}

func TestEncoderPNG(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.PNG("https://decanting.vercel.app/record/LN21001", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestEncoderPNGRejectsEmptyPayload(t *testing.T) {
	enc := NewEncoder()

	_, err := enc.PNG("   ", 256)
	assert.Error(t, err)
}

func TestEncoderPayloadRoundTrip(t *testing.T) {
	payload := "https://decanting.vercel.app/record/LN21001"

	// The wrapped library exposes the encoded content directly; decoding the
	// pixel grid itself would need a camera-side decoder.
	q, err := qrcode.New(payload, qrcode.Low)
	require.NoError(t, err)
	assert.Equal(t, payload, q.Content)
}
