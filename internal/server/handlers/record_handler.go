package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/qr"
	"github.com/farmovs/decanting/internal/render"
	"github.com/farmovs/decanting/internal/repository"
	recordsvc "github.com/farmovs/decanting/internal/service/records"
)

const qrImageSize = 512

// RecordHandler adapts the record operations to HTTP.
type RecordHandler struct {
	svc      *recordsvc.Service
	renderer *render.Renderer
	encoder  qr.Encoder
	baseURL  string
	logger   *zap.Logger
}

// NewRecordHandler constructs the HTTP handler adapter for records.
func NewRecordHandler(svc *recordsvc.Service, renderer *render.Renderer, encoder qr.Encoder, baseURL string, logger *zap.Logger) *RecordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordHandler{
		svc:      svc,
		renderer: renderer,
		encoder:  encoder,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Create stores a new decanting record.
func (h *RecordHandler) Create(c *gin.Context) {
	var record models.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Request", "The record payload could not be parsed.")
		return
	}

	created, err := h.svc.Create(c.Request.Context(), record)
	if err != nil {
		h.respondStoreError(c, err, record.ID)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns live records by default, or the bin with ?deleted=true.
func (h *RecordHandler) List(c *gin.Context) {
	deleted := c.Query("deleted") == "true"

	records, err := h.svc.List(c.Request.Context(), deleted)
	if err != nil {
		h.respondStoreError(c, err, "")
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Get fetches one record by identifier. Soft-deleted records are visible only
// with ?deleted=true, as in the recovery view.
func (h *RecordHandler) Get(c *gin.Context) {
	id := c.Param("id")

	record, err := h.svc.Get(c.Request.Context(), id, c.Query("deleted") == "true")
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Update applies a partial in-place change to a record.
func (h *RecordHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var update models.RecordUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Request", "The update payload could not be parsed.")
		return
	}

	record, err := h.svc.Update(c.Request.Context(), id, update)
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete soft-deletes a record; ?permanent=true removes it irreversibly.
func (h *RecordHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var err error
	if c.Query("permanent") == "true" {
		err = h.svc.HardDelete(c.Request.Context(), id)
	} else {
		err = h.svc.SoftDelete(c.Request.Context(), id)
	}
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	c.Status(http.StatusNoContent)
}

// Restore reverses a soft delete.
func (h *RecordHandler) Restore(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.Restore(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	c.Status(http.StatusNoContent)
}

// Resolve turns a scanned or typed token into its record.
func (h *RecordHandler) Resolve(c *gin.Context) {
	token := c.Query("token")

	record, err := h.svc.Resolve(c.Request.Context(), token, c.Query("deleted") == "true")
	if err != nil {
		// Error bodies name the extracted identifier, not the raw token.
		subject := token
		if id, idErr := recordsvc.CanonicalID(token); idErr == nil {
			subject = id
		}
		h.respondStoreError(c, err, subject)
		return
	}

	c.JSON(http.StatusOK, record)
}

// QRImage serves the record's QR symbol as a PNG. The payload is the
// canonical record URL so generic scanners resolve it without the app.
// Soft-deleted records are reachable with ?deleted=true, matching the PDF
// endpoints.
func (h *RecordHandler) QRImage(c *gin.Context) {
	id := c.Param("id")

	record, err := h.svc.Get(c.Request.Context(), id, c.Query("deleted") == "true")
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	png, err := h.encoder.PNG(qr.RecordURL(h.baseURL, record.ID), qrImageSize)
	if err != nil {
		h.logger.Error("qr encoding failed", zap.String("record_id", record.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error Generating QR Code", "The QR code could not be generated. Please try again.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// FormPDF serves the full decant form as a downloadable PDF.
func (h *RecordHandler) FormPDF(c *gin.Context) {
	id := c.Param("id")

	record, err := h.svc.Get(c.Request.Context(), id, c.Query("deleted") == "true")
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	doc, err := h.renderer.RenderForm(record)
	if err != nil {
		h.logger.Error("form rendering failed", zap.String("record_id", record.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error Generating PDF", "There was an error generating the PDF. Please try again.")
		return
	}

	serveAttachment(c, render.FormFileName(record.ID), doc)
}

// QRPDF serves the QR-only page as a downloadable PDF. The QR symbol is
// encoded first; the page renderer refuses to run without a ready pixel grid.
func (h *RecordHandler) QRPDF(c *gin.Context) {
	id := c.Param("id")

	record, err := h.svc.Get(c.Request.Context(), id, c.Query("deleted") == "true")
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	png, err := h.encoder.PNG(qr.RecordURL(h.baseURL, record.ID), qrImageSize)
	if err != nil {
		h.logger.Error("qr encoding failed", zap.String("record_id", record.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error Generating PDF", "The QR code could not be generated. Please try again.")
		return
	}

	doc, err := h.renderer.RenderQRPage(record, png)
	if err != nil {
		h.logger.Error("qr page rendering failed", zap.String("record_id", record.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Error Generating PDF", "There was an error generating the PDF. Please try again.")
		return
	}

	serveAttachment(c, render.QRPageFileName(record.ID), doc)
}

// respondStoreError maps service and store errors onto the notification
// shape the UI shows. A store failure must never read as "record not found".
func (h *RecordHandler) respondStoreError(c *gin.Context, err error, subject string) {
	switch {
	case errors.Is(err, recordsvc.ErrMalformedToken):
		respondError(c, http.StatusBadRequest, "Scan Error", "Could not process the QR code. Please try again.")
	case errors.Is(err, recordsvc.ErrInvalidRecord):
		respondError(c, http.StatusBadRequest, "Invalid Record", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, "Record Not Found", fmt.Sprintf("No record found with ID: %s", subject))
	case errors.Is(err, repository.ErrDuplicateID):
		respondError(c, http.StatusConflict, "ID Already Exists", "Please choose a different Decanting ID.")
	default:
		h.logger.Error("store operation failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "Store Unavailable", "The record store could not be reached. Please retry the action.")
	}
}

func serveAttachment(c *gin.Context, fileName string, doc []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func respondError(c *gin.Context, status int, title, description string) {
	c.JSON(status, gin.H{"title": title, "description": description})
}
