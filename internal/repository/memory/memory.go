// Package memory holds an in-memory implementation of the repository
// contracts. It backs tests and local development without a MongoDB instance.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/repository"
)

// Store is a mutex-guarded in-memory record and user store.
type Store struct {
	mu      sync.Mutex
	records map[string]models.Record
	users   map[string]models.User
	seq     map[string]int
	next    int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]models.Record),
		users:   make(map[string]models.User),
		seq:     make(map[string]int),
	}
}

// Insert stores a new record, rejecting duplicate identifiers.
func (s *Store) Insert(_ context.Context, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return repository.ErrDuplicateID
	}
	s.records[record.ID] = record
	s.next++
	s.seq[record.ID] = s.next
	return nil
}

// FindByID fetches a record by exact identifier match.
func (s *Store) FindByID(_ context.Context, id string, includeDeleted bool) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok || (record.Deleted && !includeDeleted) {
		return models.Record{}, repository.ErrNotFound
	}
	return record, nil
}

// List returns live or soft-deleted records, newest first.
func (s *Store) List(_ context.Context, deleted bool) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.Record
	for _, r := range s.records {
		if r.Deleted == deleted {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return s.seq[a.ID] > s.seq[b.ID]
	})
	return records, nil
}

// Update applies a partial change to a live record.
func (s *Store) Update(_ context.Context, id string, update models.RecordUpdate) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok || record.Deleted {
		return models.Record{}, repository.ErrNotFound
	}

	if update.Date != nil {
		record.Date = *update.Date
	}
	if update.Requester != nil {
		record.Requester = *update.Requester
	}
	if update.Department != nil {
		record.Department = *update.Department
	}
	if update.PurchaseOrder != nil {
		record.PurchaseOrder = *update.PurchaseOrder
	}
	if update.Amount != nil {
		record.Amount = *update.Amount
	}
	if update.Representative != nil {
		record.Representative = *update.Representative
	}
	if update.RequesterRepresentative != nil {
		record.RequesterRepresentative = *update.RequesterRepresentative
	}

	s.records[id] = record
	return record, nil
}

// SoftDelete hides a live record and stamps the deletion time.
func (s *Store) SoftDelete(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok || record.Deleted {
		return repository.ErrNotFound
	}
	record.Deleted = true
	record.DeletedAt = &at
	s.records[id] = record
	return nil
}

// Restore brings a soft-deleted record back unchanged.
func (s *Store) Restore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok || !record.Deleted {
		return repository.ErrNotFound
	}
	record.Deleted = false
	record.DeletedAt = nil
	s.records[id] = record
	return nil
}

// HardDelete removes a record permanently.
func (s *Store) HardDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	delete(s.seq, id)
	return nil
}

// PurgeDeletedBefore removes soft-deleted records older than the cutoff.
func (s *Store) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, r := range s.records {
		if r.Deleted && r.DeletedAt != nil && r.DeletedAt.Before(cutoff) {
			delete(s.records, id)
			delete(s.seq, id)
			purged++
		}
	}
	return purged, nil
}

// InsertUser stores a new operator account.
func (s *Store) InsertUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return repository.ErrUserExists
	}
	s.users[user.Username] = user
	return nil
}

// FindUser fetches an operator account by username.
func (s *Store) FindUser(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}
