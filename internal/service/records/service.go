// Package records implements the decanting-register operations: creation with
// construction-time normalization, listings, in-place updates, the soft-delete
// lifecycle, token resolution, and retention purging.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/repository"
	"github.com/farmovs/decanting/pkg/clients/notify"
)

// ErrInvalidRecord indicates a create or update payload that cannot become a
// printable record.
var ErrInvalidRecord = errors.New("invalid record")

// opTimeout bounds each store access so a hung store query cannot leave the
// caller pending indefinitely.
const opTimeout = 5 * time.Second

// Service coordinates the record store and the notification webhook.
type Service struct {
	repo      repository.Records
	publisher notify.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new records service. The publisher may be nil when no
// webhook is configured.
func NewService(repo repository.Records, publisher notify.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create normalizes and stores a new record. A duplicate identifier among
// stored records fails with repository.ErrDuplicateID and leaves the store
// unchanged.
func (s *Service) Create(ctx context.Context, record models.Record) (models.Record, error) {
	now := s.now()
	record.Normalize(now)
	record.CreatedAt = now.UTC()
	record.Deleted = false
	record.DeletedAt = nil

	if err := record.Validate(); err != nil {
		return models.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.repo.Insert(opCtx, record); err != nil {
		return models.Record{}, err
	}

	s.logger.Info("record created", zap.String("record_id", record.ID))
	s.publish(ctx, models.EventRecordCreated, record.ID)
	return record, nil
}

// Get fetches a record by exact identifier.
func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (models.Record, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.FindByID(opCtx, id, includeDeleted)
}

// List returns live or soft-deleted records, newest first.
func (s *Service) List(ctx context.Context, deleted bool) ([]models.Record, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.List(opCtx, deleted)
}

// Update applies a partial in-place change to a live record. Fields are
// stored as given after trimming; creation defaults are not re-applied and
// the identifier never changes.
func (s *Service) Update(ctx context.Context, id string, update models.RecordUpdate) (models.Record, error) {
	if update.Empty() {
		return models.Record{}, fmt.Errorf("%w: no fields to update", ErrInvalidRecord)
	}
	for _, field := range []*string{
		update.Date, update.Requester, update.Department, update.PurchaseOrder,
		update.Amount, update.Representative, update.RequesterRepresentative,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if update.Date != nil {
		if _, err := time.Parse(models.DateLayout, *update.Date); err != nil {
			return models.Record{}, fmt.Errorf("%w: date %q does not match layout %s", ErrInvalidRecord, *update.Date, models.DateLayout)
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	record, err := s.repo.Update(opCtx, id, update)
	if err != nil {
		return models.Record{}, err
	}

	s.publish(ctx, models.EventRecordUpdated, id)
	return record, nil
}

// SoftDelete hides a record from default listings, recoverably.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.repo.SoftDelete(opCtx, id, s.now().UTC()); err != nil {
		return err
	}

	s.logger.Info("record soft deleted", zap.String("record_id", id))
	s.publish(ctx, models.EventRecordSoftDeleted, id)
	return nil
}

// Restore reverses a soft delete with no field drift.
func (s *Service) Restore(ctx context.Context, id string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.repo.Restore(opCtx, id); err != nil {
		return err
	}

	s.logger.Info("record restored", zap.String("record_id", id))
	s.publish(ctx, models.EventRecordRestored, id)
	return nil
}

// HardDelete removes a record permanently. Irreversible.
func (s *Service) HardDelete(ctx context.Context, id string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.repo.HardDelete(opCtx, id); err != nil {
		return err
	}

	s.logger.Info("record hard deleted", zap.String("record_id", id))
	s.publish(ctx, models.EventRecordPurged, id)
	return nil
}

// Resolve turns a scanned or typed token into its stored record. An empty
// token is rejected before any store call; a store failure is reported as
// such, never as a missing record.
func (s *Service) Resolve(ctx context.Context, token string, includeDeleted bool) (models.Record, error) {
	id, err := CanonicalID(token)
	if err != nil {
		return models.Record{}, err
	}
	return s.Get(ctx, id, includeDeleted)
}

// PurgeExpired permanently removes records left in the bin longer than the
// retention window. Returns the number purged.
func (s *Service) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cutoff := s.now().UTC().Add(-retention)
	purged, err := s.repo.PurgeDeletedBefore(opCtx, cutoff)
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		s.logger.Info("expired records purged", zap.Int64("count", purged), zap.Time("cutoff", cutoff))
	}
	return purged, nil
}

func (s *Service) publish(ctx context.Context, eventType, recordID string) {
	if s.publisher == nil {
		return
	}

	event := models.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RecordID:   recordID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.String("event_type", eventType),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}
