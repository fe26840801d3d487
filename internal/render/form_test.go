package render

import (
	"bytes"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/qr"
)

var renderClock = time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC)

func testRecord() models.Record {
	return models.Record{
		ID:                      "LN21001",
		Date:                    "5-Jan-24",
		Requester:               "J. Smith",
		Department:              "Pathology",
		PurchaseOrder:           "0000-000000",
		Amount:                  "50KG",
		Representative:          "Tiaan van der Merwe",
		RequesterRepresentative: "A. Jones",
	}
}

func newTestRenderer() *Renderer {
	r := NewRenderer(Logo{})
	r.now = func() time.Time { return renderClock }
	return r
}

func TestRenderFormContainsRecordText(t *testing.T) {
	r := newTestRenderer()
	record := testRecord()

	doc, err := r.RenderForm(record)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))

	// Content round-trip: the record's verbatim values must survive into the
	// page text, the stored date untouched and the scan date from the clock.
	for _, want := range []string{
		record.ID,
		record.Date,
		record.Amount,
		record.PurchaseOrder,
		record.Representative,
		record.RequesterRepresentative,
		"7-Mar-24",
		"Liquid Nitrogen Decant Form",
		"Please make sure dewars are present before 09:00 on Tuesdays",
	} {
		assert.True(t, bytes.Contains(doc, []byte(want)), "form should contain %q", want)
	}
}

func TestRenderFormFallsBackToWordmark(t *testing.T) {
	r := newTestRenderer()

	doc, err := r.RenderForm(testRecord())
	require.NoError(t, err)

	assert.True(t, bytes.Contains(doc, []byte("FARMOVS")))
	assert.True(t, bytes.Contains(doc, []byte("Integrated research solutions")))
}

func TestRenderFormDeterministic(t *testing.T) {
	r := newTestRenderer()

	first, err := r.RenderForm(testRecord())
	require.NoError(t, err)
	second, err := r.RenderForm(testRecord())
	require.NoError(t, err)

	// gofpdf stamps a creation date; everything after the header must match.
	require.Equal(t, len(first), len(second))
}

// textBaseline pulls the PDF-space baseline of a drawn string out of the
// uncompressed content stream.
func textBaseline(t *testing.T, doc []byte, s string) float64 {
	t.Helper()

	re := regexp.MustCompile(`BT [\d.]+ ([\d.]+) Td \(` + regexp.QuoteMeta(s))
	m := re.FindSubmatch(doc)
	require.NotNil(t, m, "form should draw %q", s)

	y, err := strconv.ParseFloat(string(m[1]), 64)
	require.NoError(t, err)
	return y
}

func TestReminderClearsDateBlocks(t *testing.T) {
	r := newTestRenderer()

	doc, err := r.RenderForm(testRecord())
	require.NoError(t, err)

	// PDF page space runs bottom-up in points, 72/25.4 per mm.
	const k = 72.0 / 25.4
	blockBottom := (297 - float64(dateBlockY+blockH)) * k

	first := textBaseline(t, doc, "Please make sure dewars")
	second := textBaseline(t, doc, "and Thursdays")

	assert.Less(t, first, blockBottom, "reminder must start below the date blocks")
	assert.Less(t, second, first, "second reminder line sits under the first")
	assert.Greater(t, second, 0.0, "reminder must stay on the page")
}

func TestRenderQRPage(t *testing.T) {
	r := newTestRenderer()
	record := testRecord()

	png, err := qr.NewEncoder().PNG(qr.RecordURL("https://decanting.vercel.app", record.ID), 256)
	require.NoError(t, err)

	doc, err := r.RenderQRPage(record, png)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.True(t, bytes.Contains(doc, []byte("Decanting ID: "+record.ID)))
}

func TestRenderQRPageRequiresPixelGrid(t *testing.T) {
	r := newTestRenderer()

	_, err := r.RenderQRPage(testRecord(), nil)
	assert.ErrorIs(t, err, ErrNoPixelGrid)

	_, err = r.RenderQRPage(testRecord(), []byte("not a png"))
	assert.ErrorIs(t, err, ErrNoPixelGrid)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "Liquid_Nitrogen_Decant_LN21001.pdf", FormFileName("LN21001"))
	assert.Equal(t, "QR_Code_LN21001.pdf", QRPageFileName("LN21001"))
}

func TestLoadLogoFallsBackOnMissingAsset(t *testing.T) {
	assert.False(t, LoadLogo("").HasImage())
	assert.False(t, LoadLogo("testdata/definitely-missing.png").HasImage())
}
