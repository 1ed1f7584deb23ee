package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"demoride/internal/migrations/mongo/validators"
)

var (
	EventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	SessionsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "group", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		// One active booking per (session, motorcycle). Terminal bookings are
		// kept for history, so the uniqueness is partial over active statuses.
		{
			Keys: bson.D{
				{Key: "session_id", Value: 1},
				{Key: "motorcycle_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{
						"RESERVED",
						"CONFIRMED",
						"READY",
						"IN_PROGRESS",
					}},
				}),
		},
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{
			{Key: "motorcycle_id", Value: 1},
			{Key: "session_start", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "event_id", Value: 1},
			{Key: "bib_number", Value: 1},
			{Key: "session_start", Value: 1},
		}},
	}

	SessionLocksIndexes = []mongo.IndexModel{
		// Abandoned locks expire on their own; the holder releases eagerly.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	MotorcyclesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "event_ids", Value: 1},
			{Key: "group", Value: 1},
			{Key: "status", Value: 1},
		}},
	}

	BreakdownReportsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "motorcycle_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Events": {
			Indexes:   EventsIndexes,
			Validator: validators.EventValidator,
		},
		"Sessions": {
			Indexes:   SessionsIndexes,
			Validator: validators.SessionValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Session_locks": {
			Indexes:   SessionLocksIndexes,
			Validator: validators.SessionLockValidator,
		},
		"Motorcycles": {
			Indexes:   MotorcyclesIndexes,
			Validator: validators.MotorcycleValidator,
		},
		"Breakdown_reports": {
			Indexes:   BreakdownReportsIndexes,
			Validator: validators.BreakdownReportValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
