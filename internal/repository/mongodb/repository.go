package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/repository"
)

const (
	recordsCollection = "decanter_records"
	usersCollection   = "users"
)

// MongoDBRepository implements repository.Records and repository.Users on a
// MongoDB database. The record id is stored as _id, so the store itself
// enforces identifier uniqueness.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) records() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(recordsCollection)
}

func (r *MongoDBRepository) users() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(usersCollection)
}

// Insert stores a new record, rejecting duplicate identifiers.
func (r *MongoDBRepository) Insert(ctx context.Context, record models.Record) error {
	if _, err := r.records().InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateID
		}
		return fmt.Errorf("insert record %s: %w", record.ID, err)
	}
	return nil
}

// FindByID fetches a record by its exact, case-sensitive identifier. Soft
// deleted records are excluded unless includeDeleted is set.
func (r *MongoDBRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (models.Record, error) {
	filter := bson.M{"_id": id}
	if !includeDeleted {
		filter["deleted"] = false
	}

	var record models.Record
	if err := r.records().FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Record{}, repository.ErrNotFound
		}
		return models.Record{}, fmt.Errorf("find record %s: %w", id, err)
	}
	return record, nil
}

// List returns either the live or the soft-deleted records, newest first.
func (r *MongoDBRepository) List(ctx context.Context, deleted bool) ([]models.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.records().Find(ctx, bson.M{"deleted": deleted}, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var records []models.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// Update applies a partial in-place change and returns the updated record.
func (r *MongoDBRepository) Update(ctx context.Context, id string, update models.RecordUpdate) (models.Record, error) {
	set := bson.M{}
	if update.Date != nil {
		set["date"] = *update.Date
	}
	if update.Requester != nil {
		set["requester"] = *update.Requester
	}
	if update.Department != nil {
		set["department"] = *update.Department
	}
	if update.PurchaseOrder != nil {
		set["purchase_order"] = *update.PurchaseOrder
	}
	if update.Amount != nil {
		set["amount"] = *update.Amount
	}
	if update.Representative != nil {
		set["representative"] = *update.Representative
	}
	if update.RequesterRepresentative != nil {
		set["requester_representative"] = *update.RequesterRepresentative
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var record models.Record
	err := r.records().FindOneAndUpdate(ctx, bson.M{"_id": id, "deleted": false}, bson.M{"$set": set}, opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Record{}, repository.ErrNotFound
		}
		return models.Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	return record, nil
}

// SoftDelete hides a live record and stamps the deletion time.
func (r *MongoDBRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.records().UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "deleted_at": at}})
	if err != nil {
		return fmt.Errorf("soft delete record %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Restore brings a soft-deleted record back, clearing the deletion stamp so
// the record is field-for-field what it was before deletion.
func (r *MongoDBRepository) Restore(ctx context.Context, id string) error {
	res, err := r.records().UpdateOne(ctx,
		bson.M{"_id": id, "deleted": true},
		bson.M{"$set": bson.M{"deleted": false}, "$unset": bson.M{"deleted_at": ""}})
	if err != nil {
		return fmt.Errorf("restore record %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// HardDelete removes a record permanently, regardless of its deleted flag.
func (r *MongoDBRepository) HardDelete(ctx context.Context, id string) error {
	res, err := r.records().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("hard delete record %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PurgeDeletedBefore permanently removes soft-deleted records whose deletion
// stamp is older than the cutoff. Returns the number of records removed.
func (r *MongoDBRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.records().DeleteMany(ctx, bson.M{
		"deleted":    true,
		"deleted_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("purge deleted records: %w", err)
	}
	return res.DeletedCount, nil
}

// InsertUser stores a new operator account, rejecting duplicate usernames.
func (r *MongoDBRepository) InsertUser(ctx context.Context, user models.User) error {
	if _, err := r.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrUserExists
		}
		return fmt.Errorf("insert user %s: %w", user.Username, err)
	}
	return nil
}

// FindUser fetches an operator account by username.
func (r *MongoDBRepository) FindUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := r.users().FindOne(ctx, bson.M{"_id": username}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, repository.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user %s: %w", username, err)
	}
	return user, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
