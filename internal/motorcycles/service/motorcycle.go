package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	motorcycleserrors "demoride/internal/motorcycles/errors"
	"demoride/internal/motorcycles/repository"
	"demoride/internal/motorcycles/validator"
	"demoride/pkg/config"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
	"demoride/pkg/sanitizer"
)

type MotorcycleService interface {
	Create(ctx context.Context, motorcycle *model.Motorcycle) error
	GetByID(ctx context.Context, id string) (*model.Motorcycle, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Motorcycle, int64, error)
	Update(ctx context.Context, id string, updates *model.MotorcycleUpdate) error
	AssignToEvent(ctx context.Context, id string, eventID string) error
	UnassignFromEvent(ctx context.Context, id string, eventID string) error
	Delete(ctx context.Context, id string) error
	ReportBreakdown(ctx context.Context, report *model.BreakdownReport) (*model.BreakdownResult, error)
}

type motorcycleService struct {
	repo      repository.MotorcycleRepository
	reports   repository.BreakdownReportRepository
	bookings  FutureBookingFinder
	canceller BookingCanceller
	notifier  NotificationPublisher
	validator *validator.MotorcycleValidator
	cfg       *config.Config
}

func NewMotorcycleService(
	repo repository.MotorcycleRepository,
	reports repository.BreakdownReportRepository,
	bookings FutureBookingFinder,
	canceller BookingCanceller,
	notifier NotificationPublisher,
	validator *validator.MotorcycleValidator,
	cfg *config.Config,
) MotorcycleService {
	return &motorcycleService{
		repo:      repo,
		reports:   reports,
		bookings:  bookings,
		canceller: canceller,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *motorcycleService) Create(ctx context.Context, motorcycle *model.Motorcycle) error {
	motorcycle.Model = sanitizer.TrimAndNormalize(motorcycle.Model)
	if motorcycle.Status == "" {
		motorcycle.Status = model.MotorcycleAvailable
	}

	if err := s.validator.Validate(motorcycle); err != nil {
		return apperrors.Validation("Motorcycle validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, motorcycle); err != nil {
		return apperrors.Internal("Failed to create motorcycle", err)
	}

	s.cfg.Log.Info("Motorcycle created",
		"motorcycle_id", motorcycle.ID,
		"model", motorcycle.Model,
		"group", motorcycle.Group,
	)
	return nil
}

func (s *motorcycleService) GetByID(ctx context.Context, id string) (*model.Motorcycle, error) {
	motorcycle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapMotorcycleError(err, id)
	}
	return motorcycle, nil
}

func (s *motorcycleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Motorcycle, int64, error) {
	motorcycles, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list motorcycles", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count motorcycles", err)
	}

	return motorcycles, total, nil
}

func (s *motorcycleService) Update(ctx context.Context, id string, updates *model.MotorcycleUpdate) error {
	updates.Model = sanitizer.TrimAndNormalize(updates.Model)

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return apperrors.Validation("Motorcycle update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	set := bson.M{}
	if updates.Model != "" {
		set["model"] = updates.Model
	}
	if updates.Group != "" {
		set["group"] = updates.Group
	}
	if updates.Status != "" {
		// Manual staff override of the operational status, including
		// putting a repaired machine back in service.
		set["status"] = updates.Status
	}
	if len(set) == 0 {
		return apperrors.InvalidInput("no updatable fields provided")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		return mapMotorcycleError(err, id)
	}

	s.cfg.Log.Info("Motorcycle updated", "motorcycle_id", id)
	return nil
}

func (s *motorcycleService) AssignToEvent(ctx context.Context, id string, eventID string) error {
	if err := s.repo.AssignToEvent(ctx, id, eventID); err != nil {
		return mapMotorcycleError(err, id)
	}

	s.cfg.Log.Info("Motorcycle assigned to event",
		"motorcycle_id", id,
		"event_id", eventID,
	)
	return nil
}

func (s *motorcycleService) UnassignFromEvent(ctx context.Context, id string, eventID string) error {
	future, err := s.bookings.FindFutureByMotorcycle(ctx, id, nowUTC())
	if err != nil {
		return apperrors.Internal("Failed to check motorcycle bookings", err)
	}
	for _, b := range future {
		if b.EventID == eventID {
			return apperrors.Conflict("motorcycle has future bookings in this event")
		}
	}

	if err := s.repo.UnassignFromEvent(ctx, id, eventID); err != nil {
		return mapMotorcycleError(err, id)
	}

	s.cfg.Log.Info("Motorcycle unassigned from event",
		"motorcycle_id", id,
		"event_id", eventID,
	)
	return nil
}

func (s *motorcycleService) Delete(ctx context.Context, id string) error {
	future, err := s.bookings.FindFutureByMotorcycle(ctx, id, nowUTC())
	if err != nil {
		return apperrors.Internal("Failed to check motorcycle bookings", err)
	}
	if len(future) > 0 {
		return apperrors.Conflict("motorcycle has future bookings; report a breakdown to cancel them first")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapMotorcycleError(err, id)
	}

	s.cfg.Log.Info("Motorcycle deleted", "motorcycle_id", id)
	return nil
}

func mapMotorcycleError(err error, id string) error {
	switch {
	case errors.Is(err, motorcycleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Motorcycle", id)
	case errors.Is(err, motorcycleserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid motorcycle ID: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Motorcycle operation failed", err)
	}
}
