package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "demoride/internal/bookings/errors"
	"demoride/pkg/config"
	"demoride/pkg/model"
)

const (
	LockCollectionName = "Session_locks"
)

// SessionLockRepository provides the advisory lock serializing booking
// creation per session. The lock document's _id is the session ID, so the
// unique _id index is the mutual exclusion. A TTL index on expires_at reaps
// locks abandoned by crashed requests.
type SessionLockRepository interface {
	Acquire(ctx context.Context, sessionID string, ttl time.Duration) error
	Release(ctx context.Context, sessionID string) error
}

type mongoSessionLockRepository struct {
	collection *mongo.Collection
}

func NewSessionLockRepository(cfg *config.Config) SessionLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoSessionLockRepository) Acquire(ctx context.Context, sessionID string, ttl time.Duration) error {
	now := time.Now().UTC()
	lock := &model.SessionLock{
		ID:        sessionID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if mongo.IsDuplicateKeyError(err) {
		return bookingserrors.ErrLockHeld
	}
	return err
}

func (r *mongoSessionLockRepository) Release(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	return err
}
