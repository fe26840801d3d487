// Package export copies decanting records into the compliance spreadsheet.
// The sheet is append-only; each run adds only the records it has not seen.
package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/repository"
	"github.com/farmovs/decanting/internal/repository/sheets"
)

// Service mirrors live records into the configured sheet range.
type Service struct {
	sheets  sheets.Repository
	records repository.Records
	logger  *zap.Logger
}

// NewService wires a new export service instance.
func NewService(sheetsRepo sheets.Repository, recordsRepo repository.Records, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sheets:  sheetsRepo,
		records: recordsRepo,
		logger:  logger,
	}
}

// Export appends every live record missing from the sheet, oldest first so
// row order follows creation order. Returns the number of rows appended.
func (s *Service) Export(ctx context.Context) (int, error) {
	existing, err := s.sheets.ListRecordIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load exported ids: %w", err)
	}

	records, err := s.records.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}

	appended := 0
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if existing[record.ID] {
			continue
		}
		if err := s.sheets.AppendRecordRow(ctx, record); err != nil {
			return appended, fmt.Errorf("append record %s: %w", record.ID, err)
		}
		appended++
	}

	if appended > 0 {
		s.logger.Info("records exported to sheet", zap.Int("appended", appended))
	}
	return appended, nil
}
