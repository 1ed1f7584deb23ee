package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"demoride/pkg/config"
	"demoride/pkg/model"
)

const (
	BreakdownCollectionName = "Breakdown_reports"
)

// BreakdownReportRepository persists breakdown reports. Reports are
// append-only audit data; the interesting work happens in the cascade.
type BreakdownReportRepository interface {
	Create(ctx context.Context, report *model.BreakdownReport) error
}

type mongoBreakdownReportRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBreakdownReportRepository(cfg *config.Config) BreakdownReportRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBreakdownReportRepository{
		cfg:        cfg,
		collection: db.Collection(BreakdownCollectionName),
	}
}

func (r *mongoBreakdownReportRepository) Create(ctx context.Context, report *model.BreakdownReport) error {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}

	report.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to create breakdown report: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid.Hex()
	}
	return nil
}
