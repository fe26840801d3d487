// Package render lays out the printable decanting artifacts: the full decant
// form and the QR-only page. All positions are fixed millimeter offsets on an
// A4 portrait page; the same record always renders the same bytes for a given
// clock reading.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/farmovs/decanting/internal/domain/models"
)

// ErrNoPixelGrid is returned when the QR-only page is requested without a
// ready QR image. The renderer refuses to produce a blank page.
var ErrNoPixelGrid = errors.New("qr pixel grid is empty or undecodable")

// Fixed layout offsets in mm, inherited from the paper form.
const (
	pageCenter = 105
	marginLeft = 20

	tableStartY = 90
	tableRowH   = 20
	signatureY  = tableStartY + 4*tableRowH + 10
	nameBlockY  = signatureY + 35
	dateBlockY  = nameBlockY + 35
	blockW      = 80
	blockH      = 30
	rightBlockX = 110

	// The reminder sits in the strip between the date blocks' bottom edge
	// and the page edge; both baselines must stay inside it.
	reminderY    = dateBlockY + blockH + 7
	reminderGapY = 7
)

// Renderer produces the PDF artifacts for a record.
type Renderer struct {
	logo Logo
	now  func() time.Time
}

// NewRenderer builds a renderer around the given logo asset.
func NewRenderer(logo Logo) *Renderer {
	return &Renderer{logo: logo, now: time.Now}
}

// FormFileName is the download name for the full decant form.
func FormFileName(id string) string {
	return fmt.Sprintf("Liquid_Nitrogen_Decant_%s.pdf", id)
}

// QRPageFileName is the download name for the QR-only page.
func QRPageFileName(id string) string {
	return fmt.Sprintf("QR_Code_%s.pdf", id)
}

// RenderForm lays out the full decant form for a record. The record's stored
// date appears verbatim; the scan date line is taken from the clock at render
// time and uses the same layout.
func (r *Renderer) RenderForm(record models.Record) ([]byte, error) {
	pdf := newPage()

	r.drawHeader(pdf)

	// Title
	pdf.SetFont("Courier", "B", 16)
	centerText(pdf, pageCenter, 65, "Liquid Nitrogen Decant Form")

	// Scan date and decanting number
	pdf.SetFont("Courier", "", 12)
	pdf.Text(marginLeft, 72, "Scan Date:")
	pdf.Text(70, 72, r.now().Format(models.DateLayout))

	pdf.Text(marginLeft, 80, "Decanting Number:")
	pdf.SetFont("Courier", "B", 12)
	pdf.Text(70, 80, record.ID)
	pdf.SetFont("Courier", "", 12)

	// Bordered label/value rows
	rows := []struct {
		label string
		value string
	}{
		{"Date of decanting:", record.Date},
		{"Requestor / Department:", record.Requester + " / " + record.Department},
		{"Purchase-Order Number:", record.PurchaseOrder},
		{"Liquid nitrogen decanted:", record.Amount},
	}
	for i, row := range rows {
		y := float64(tableStartY + i*tableRowH)
		pdf.Rect(marginLeft, y, 170, tableRowH, "D")
		pdf.Text(marginLeft+5, y+13, row.label)
		pdf.Text(130, y+13, row.value)
	}

	// Signature blocks, blank for physical signing
	pdf.Rect(marginLeft, signatureY, blockW, blockH, "D")
	pdf.Text(marginLeft+5, signatureY+7, "FARMOVS Representative Signature:")
	pdf.Rect(rightBlockX, signatureY, blockW, blockH, "D")
	pdf.Text(rightBlockX+5, signatureY+7, "Requestor Representative Signature:")

	// Name blocks
	pdf.Rect(marginLeft, nameBlockY, blockW, blockH, "D")
	pdf.Text(marginLeft+5, nameBlockY+7, "FARMOVS Representative Name:")
	pdf.Text(60, nameBlockY+20, record.Representative)
	pdf.Rect(rightBlockX, nameBlockY, blockW, blockH, "D")
	pdf.Text(rightBlockX+5, nameBlockY+7, "Requestor Representative Name:")
	pdf.Text(150, nameBlockY+20, record.RequesterRepresentative)

	// Date blocks, pre-filled with the stored decant date
	pdf.Rect(marginLeft, dateBlockY, blockW, blockH, "D")
	centerText(pdf, 60, dateBlockY+7, "Date:")
	centerText(pdf, 60, dateBlockY+20, record.Date)
	pdf.Rect(rightBlockX, dateBlockY, blockW, blockH, "D")
	centerText(pdf, 150, dateBlockY+7, "Date:")
	centerText(pdf, 150, dateBlockY+20, record.Date)

	// Compliance reminder anchored near the page bottom
	pdf.SetTextColor(255, 0, 0)
	centerText(pdf, pageCenter, reminderY, "Please make sure dewars are present before 09:00 on Tuesdays")
	centerText(pdf, pageCenter, reminderY+reminderGapY, "and Thursdays")
	pdf.SetTextColor(0, 0, 0)

	return output(pdf)
}

// RenderQRPage centers a pre-rendered QR pixel grid on a page with the
// record's identifier captioned below it. The QR image must already exist;
// callers sequence encoding before rendering.
func (r *Renderer) RenderQRPage(record models.Record, qrPNG []byte) ([]byte, error) {
	if len(qrPNG) == 0 {
		return nil, ErrNoPixelGrid
	}
	if _, err := png.Decode(bytes.NewReader(qrPNG)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPixelGrid, err)
	}

	pdf := newPage()

	pdf.SetFont("Courier", "B", 16)
	centerText(pdf, pageCenter, 40, "Liquid Nitrogen Decant Record")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+record.ID, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr-"+record.ID, 65, 70, 80, 80, false, opts, 0, "")

	pdf.SetFont("Courier", "B", 12)
	centerText(pdf, pageCenter, 165, "Decanting ID: "+record.ID)
	pdf.SetFont("Helvetica", "", 10)
	centerText(pdf, pageCenter, 173, "Scan this code to retrieve the record")

	return output(pdf)
}

func (r *Renderer) drawHeader(pdf *gofpdf.Fpdf) {
	// Right-aligned organization address block
	pdf.SetFont("Helvetica", "", 10)
	address := []string{
		"FARMOVS (Pty) Ltd. (Reg. No. 2000/003345/07)",
		"Private Bag X09",
		"Brandhof",
		"9324",
		"Telephone: +27 (0) 51 410 3111",
		"Facsimile: +27 (0) 51 4101352",
		"VAT. Reg. No.: 4490196249",
	}
	for i, line := range address {
		rightText(pdf, 110, float64(15+i*5), line)
	}

	if r.logo.HasImage() {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(r.logo.PNG()))
		pdf.ImageOptions("logo", marginLeft, 15, 90, 30, false, opts, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 20)
		pdf.Text(marginLeft, 30, "FARMOVS")
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(marginLeft, 37, "Integrated research solutions")
	}

	pdf.Line(marginLeft, 50, 190, 50)
}

func newPage() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Single-page artifact, keep the text streams inspectable.
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	if pdf.Err() {
		return nil, fmt.Errorf("layout document: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}

func centerText(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

func rightText(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}
