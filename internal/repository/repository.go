// Package repository defines the persistence contracts for decanting records
// and operator accounts. The mongodb subpackage is the production store; the
// memory subpackage backs tests.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/farmovs/decanting/internal/domain/models"
)

// ErrNotFound signals a lookup that matched no live record (or no record at
// all when deleted ones are included). It is distinct from a store failure.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateID signals a create with an identifier already held by a
// stored record.
var ErrDuplicateID = errors.New("record id already exists")

// ErrUserExists signals a registration for a username already taken.
var ErrUserExists = errors.New("user already exists")

// Records is the store contract for decanting records. Any error other than
// the sentinels above means the store itself could not be reached or refused
// the operation; callers must not present such failures as "not found".
type Records interface {
	Insert(ctx context.Context, record models.Record) error
	FindByID(ctx context.Context, id string, includeDeleted bool) (models.Record, error)
	List(ctx context.Context, deleted bool) ([]models.Record, error)
	Update(ctx context.Context, id string, update models.RecordUpdate) (models.Record, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Users is the store contract for operator accounts.
type Users interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUser(ctx context.Context, username string) (models.User, error)
}
