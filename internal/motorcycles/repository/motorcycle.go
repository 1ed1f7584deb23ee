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

	motorcycleserrors "demoride/internal/motorcycles/errors"
	"demoride/pkg/config"
	mongotx "demoride/pkg/db/mongo"
	"demoride/pkg/model"
)

const (
	CollectionName = "Motorcycles"
)

type mongoMotorcycleRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type MotorcycleRepository interface {
	Create(ctx context.Context, motorcycle *model.Motorcycle) error
	FindByID(ctx context.Context, id string) (*model.Motorcycle, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Motorcycle, error)
	Count(ctx context.Context) (int64, error)
	FindAvailableByEventAndGroup(ctx context.Context, eventID string, group model.Group) ([]*model.Motorcycle, error)
	Update(ctx context.Context, id string, update bson.M) error
	SetStatus(ctx context.Context, id string, status model.MotorcycleStatus) error
	AssignToEvent(ctx context.Context, id string, eventID string) error
	UnassignFromEvent(ctx context.Context, id string, eventID string) error
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoMotorcycleRepository(cfg *config.Config) MotorcycleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMotorcycleRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoMotorcycleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoMotorcycleRepository) Create(ctx context.Context, motorcycle *model.Motorcycle) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	motorcycle.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if motorcycle.EventIDs == nil {
		motorcycle.EventIDs = []string{}
	}

	result, err := r.collection.InsertOne(ctx, motorcycle)
	if err != nil {
		return fmt.Errorf("failed to create motorcycle: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		motorcycle.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMotorcycleRepository) FindByID(ctx context.Context, id string) (*model.Motorcycle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", motorcycleserrors.ErrInvalidID, id)
	}

	var motorcycle model.Motorcycle
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&motorcycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, motorcycleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find motorcycle: %w", err)
	}

	return &motorcycle, nil
}

func (r *mongoMotorcycleRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Motorcycle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "group", Value: 1}, {Key: "model", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find motorcycles: %w", err)
	}
	defer cursor.Close(ctx)

	var motorcycles []*model.Motorcycle
	if err = cursor.All(ctx, &motorcycles); err != nil {
		return nil, fmt.Errorf("failed to decode motorcycles: %w", err)
	}

	return motorcycles, nil
}

func (r *mongoMotorcycleRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count motorcycles: %w", err)
	}
	return count, nil
}

// FindAvailableByEventAndGroup lists the candidates for relocation
// suggestions: bookable machines of the same group assigned to the event.
func (r *mongoMotorcycleRepository) FindAvailableByEventAndGroup(ctx context.Context, eventID string, group model.Group) ([]*model.Motorcycle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"event_ids": eventID,
		"group":     group,
		"status":    model.MotorcycleAvailable,
	}
	opts := options.Find().SetSort(bson.D{{Key: "model", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find available motorcycles: %w", err)
	}
	defer cursor.Close(ctx)

	var motorcycles []*model.Motorcycle
	if err = cursor.All(ctx, &motorcycles); err != nil {
		return nil, fmt.Errorf("failed to decode motorcycles: %w", err)
	}

	return motorcycles, nil
}

func (r *mongoMotorcycleRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", motorcycleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update motorcycle: %w", err)
	}
	if result.MatchedCount == 0 {
		return motorcycleserrors.ErrNotFound
	}

	return nil
}

func (r *mongoMotorcycleRepository) SetStatus(ctx context.Context, id string, status model.MotorcycleStatus) error {
	return r.Update(ctx, id, bson.M{"status": status})
}

func (r *mongoMotorcycleRepository) AssignToEvent(ctx context.Context, id string, eventID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", motorcycleserrors.ErrInvalidID, id)
	}

	update := bson.M{"$addToSet": bson.M{"event_ids": eventID}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to assign motorcycle: %w", err)
	}
	if result.MatchedCount == 0 {
		return motorcycleserrors.ErrNotFound
	}

	return nil
}

func (r *mongoMotorcycleRepository) UnassignFromEvent(ctx context.Context, id string, eventID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", motorcycleserrors.ErrInvalidID, id)
	}

	update := bson.M{"$pull": bson.M{"event_ids": eventID}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to unassign motorcycle: %w", err)
	}
	if result.MatchedCount == 0 {
		return motorcycleserrors.ErrNotFound
	}

	return nil
}

func (r *mongoMotorcycleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", motorcycleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete motorcycle: %w", err)
	}
	if result.DeletedCount == 0 {
		return motorcycleserrors.ErrNotFound
	}

	return nil
}

func (r *mongoMotorcycleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
