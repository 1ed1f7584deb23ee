package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sessionserrors "demoride/internal/sessions/errors"
	"demoride/pkg/config"
	mongotx "demoride/pkg/db/mongo"
	"demoride/pkg/model"
)

const (
	CollectionName = "Sessions"
)

type mongoSessionRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type SessionRepository interface {
	CreateMany(ctx context.Context, sessions []*model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
	ReserveSeat(ctx context.Context, id string) error
	ReleaseSeat(ctx context.Context, id string) error
	AdjustCapacity(ctx context.Context, id string, availableSlots int) (*model.Session, error)
	DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoSessionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSessionRepository) CreateMany(ctx context.Context, sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, len(sessions))
	for i, s := range sessions {
		s.CreatedAt = now
		docs[i] = s
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create sessions: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok {
			sessions[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, id)
	}

	var session model.Session
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sessionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

func (r *mongoSessionRepository) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "group", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return sessions, nil
}

func (r *mongoSessionRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func (r *mongoSessionRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	return result.DeletedCount, nil
}

// ReserveSeat is the check-and-increment at the heart of overbooking
// prevention. The capacity check lives in the update filter, so the compare
// and the increment are one atomic document operation on the server; losing
// racers simply match nothing.
func (r *mongoSessionRepository) ReserveSeat(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":   objectID,
		"$expr": bson.M{"$lt": bson.A{"$booked_slots", "$available_slots"}},
	}
	update := bson.M{"$inc": bson.M{"booked_slots": 1}}

	err = r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}

	// No match: either the session is gone or it is full.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return findErr
	}
	return sessionserrors.ErrSessionFull
}

// ReleaseSeat decrements booked_slots, clamped at zero through the filter.
func (r *mongoSessionRepository) ReleaseSeat(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":          objectID,
		"booked_slots": bson.M{"$gt": 0},
	}
	update := bson.M{"$inc": bson.M{"booked_slots": -1}}

	err = r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to release seat: %w", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return findErr
	}
	return sessionserrors.ErrNoSeatsBooked
}

// AdjustCapacity sets available_slots, refusing to shrink below the seats
// already booked. The guard rides in the filter for the same atomicity as
// ReserveSeat. Returns the session as it stands after the update.
func (r *mongoSessionRepository) AdjustCapacity(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":          objectID,
		"booked_slots": bson.M{"$lte": availableSlots},
	}
	update := bson.M{"$set": bson.M{"available_slots": availableSlots}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session model.Session
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&session)
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to adjust capacity: %w", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, sessionserrors.ErrCapacityBelowBooked
}

// DaySheet merges the two group sessions sharing a start time into one row
// per slot for a single calendar day.
func (r *mongoSessionRepository) DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"event_id":   eventID,
			"start_time": bson.M{"$gte": dayStart, "$lt": dayEnd},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$start_time",
			"end_time":        bson.M{"$first": "$end_time"},
			"available_slots": bson.M{"$sum": "$available_slots"},
			"booked_slots":    bson.M{"$sum": "$booked_slots"},
			"session_ids":     bson.M{"$push": "$_id"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate day sheet: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.SlotView
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode day sheet: %w", err)
	}

	return slots, nil
}

func (r *mongoSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
