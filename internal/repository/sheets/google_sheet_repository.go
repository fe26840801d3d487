package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/farmovs/decanting/internal/config"
	"github.com/farmovs/decanting/internal/domain/models"
)

// Repository defines the spreadsheet operations used by the compliance export.
type Repository interface {
	AppendRecordRow(ctx context.Context, record models.Record) error
	ListRecordIDs(ctx context.Context) (map[string]bool, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	exportRange   string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		exportRange:   cfg.ExportRange,
		logger:        logger,
	}, nil
}

// AppendRecordRow appends one record as a spreadsheet row. Column order is
// id, date, requester, department, purchase order, amount, representative,
// requester representative.
func (r *GoogleSheetRepository) AppendRecordRow(ctx context.Context, record models.Record) error {
	values := []interface{}{
		record.ID,
		record.Date,
		record.Requester,
		record.Department,
		record.PurchaseOrder,
		record.Amount,
		record.Representative,
		record.RequesterRepresentative,
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, r.exportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append record %s into range %s: %w", record.ID, r.exportRange, err)
	}

	r.logger.Debug("record appended to sheet", zap.String("record_id", record.ID), zap.String("range", r.exportRange))
	return nil
}

// ListRecordIDs reads the export range and returns the record identifiers
// already present, keyed for membership checks.
func (r *GoogleSheetRepository) ListRecordIDs(ctx context.Context) (map[string]bool, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, r.exportRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", r.exportRange, err)
	}

	ids := make(map[string]bool, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			ids[id] = true
		}
	}
	return ids, nil
}
