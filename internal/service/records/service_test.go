package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/repository"
	"github.com/farmovs/decanting/internal/repository/memory"
)

var testClock = time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	svc.now = func() time.Time { return testClock }
	return svc, store
}

func sampleRecord() models.Record {
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

func TestCreateNormalizes(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), models.Record{
		ID:                      "LN21002",
		Requester:               "J. Smith",
		Department:              "Pathology",
		Amount:                  "50",
		Representative:          "Tiaan van der Merwe",
		RequesterRepresentative: "A. Jones",
	})
	require.NoError(t, err)

	assert.Equal(t, "50KG", created.Amount)
	assert.Equal(t, "0000-000000", created.PurchaseOrder)
	assert.Equal(t, "5-Jan-24", created.Date)
	assert.False(t, created.Deleted)
}

func TestCreateDuplicateLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	original, err := svc.Create(ctx, sampleRecord())
	require.NoError(t, err)

	dup := sampleRecord()
	dup.Requester = "Someone Else"
	_, err = svc.Create(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateID)

	stored, err := svc.Get(ctx, original.ID, false)
	require.NoError(t, err)
	assert.Equal(t, original, stored)

	live, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

func TestResolveURLAndBareFormsAgree(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord())
	require.NoError(t, err)

	byID, err := svc.Resolve(ctx, "LN21001", false)
	require.NoError(t, err)

	byURL, err := svc.Resolve(ctx, "https://decanting.vercel.app/record/LN21001", false)
	require.NoError(t, err)

	assert.Equal(t, created, byID)
	assert.Equal(t, byID, byURL)
}

func TestResolveUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), "LN99999", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// untouchableStore fails the test on any access; it proves empty tokens are
// rejected before a store round-trip.
type untouchableStore struct {
	t *testing.T
}

func (s untouchableStore) fail() {
	s.t.Helper()
	s.t.Fatal("store must not be called for a malformed token")
}

func (s untouchableStore) Insert(context.Context, models.Record) error { s.fail(); return nil }
func (s untouchableStore) FindByID(context.Context, string, bool) (models.Record, error) {
	s.fail()
	return models.Record{}, nil
}
func (s untouchableStore) List(context.Context, bool) ([]models.Record, error) {
	s.fail()
	return nil, nil
}
func (s untouchableStore) Update(context.Context, string, models.RecordUpdate) (models.Record, error) {
	s.fail()
	return models.Record{}, nil
}
func (s untouchableStore) SoftDelete(context.Context, string, time.Time) error { s.fail(); return nil }
func (s untouchableStore) Restore(context.Context, string) error               { s.fail(); return nil }
func (s untouchableStore) HardDelete(context.Context, string) error            { s.fail(); return nil }
func (s untouchableStore) PurgeDeletedBefore(context.Context, time.Time) (int64, error) {
	s.fail()
	return 0, nil
}

func TestResolveMalformedTokenSkipsStore(t *testing.T) {
	svc := NewService(untouchableStore{t: t}, nil, nil)

	for _, token := range []string{"", "   "} {
		_, err := svc.Resolve(context.Background(), token, false)
		assert.ErrorIs(t, err, ErrMalformedToken)
	}
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord())
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, created.ID))

	live, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, live)

	binned, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, binned, 1)
	assert.True(t, binned[0].Deleted)
	assert.NotNil(t, binned[0].DeletedAt)

	_, err = svc.Get(ctx, created.ID, false)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Restore(ctx, created.ID))

	restored, err := svc.Get(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, created, restored, "restore must not drift any field")

	binned, err = svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, binned)
}

func TestHardDeleteIsTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord())
	require.NoError(t, err)

	require.NoError(t, svc.HardDelete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID, true)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	for _, deleted := range []bool{false, true} {
		records, err := svc.List(ctx, deleted)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestUpdateKeepsIdentifier(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord())
	require.NoError(t, err)

	amount := "75KG"
	updated, err := svc.Update(ctx, created.ID, models.RecordUpdate{Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "75KG", updated.Amount)
	assert.Equal(t, created.Date, updated.Date)

	t.Run("empty update rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, models.RecordUpdate{})
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		bad := "2024-01-05"
		_, err := svc.Update(ctx, created.ID, models.RecordUpdate{Date: &bad})
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestPurgeExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	old := sampleRecord()
	recent := sampleRecord()
	recent.ID = "LN21002"

	_, err := svc.Create(ctx, old)
	require.NoError(t, err)
	_, err = svc.Create(ctx, recent)
	require.NoError(t, err)

	// Bin the first record 40 days ago, the second just now.
	svc.now = func() time.Time { return testClock.AddDate(0, 0, -40) }
	require.NoError(t, svc.SoftDelete(ctx, old.ID))
	svc.now = func() time.Time { return testClock }
	require.NoError(t, svc.SoftDelete(ctx, recent.ID))

	purged, err := svc.PurgeExpired(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = svc.Get(ctx, old.ID, true)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Get(ctx, recent.ID, true)
	assert.NoError(t, err)
}

// recordingPublisher captures events instead of posting them.
type recordingPublisher struct {
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event models.Event) error {
	p.events = append(p.events, event)
	return nil
}

func TestLifecycleEventsPublished(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	svc := NewService(store, pub, nil)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord())
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, created.ID))
	require.NoError(t, svc.Restore(ctx, created.ID))
	require.NoError(t, svc.HardDelete(ctx, created.ID))

	var types []string
	for _, e := range pub.events {
		assert.Equal(t, created.ID, e.RecordID)
		assert.NotEmpty(t, e.ID)
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		models.EventRecordCreated,
		models.EventRecordSoftDeleted,
		models.EventRecordRestored,
		models.EventRecordPurged,
	}, types)
}
