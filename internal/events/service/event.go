package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	eventserrors "demoride/internal/events/errors"
	"demoride/internal/events/repository"
	"demoride/internal/events/validator"
	sessionsrepo "demoride/internal/sessions/repository"
	sessionsservice "demoride/internal/sessions/service"
	"demoride/pkg/client"
	"demoride/pkg/config"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
	"demoride/pkg/sanitizer"
)

// ActiveBookingCounter reports how many bookings still hold seats anywhere in
// an event. Used to guard destructive session operations.
type ActiveBookingCounter interface {
	CountActiveByEvent(ctx context.Context, eventID string) (int64, error)
}

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error)
	Update(ctx context.Context, id string, updates *model.EventUpdate) error
	Delete(ctx context.Context, id string) error
	RegenerateSessions(ctx context.Context, id string) (int, error)
}

type eventService struct {
	repo        repository.EventRepository
	sessionRepo sessionsrepo.SessionRepository
	bookings    ActiveBookingCounter
	generator   *sessionsservice.SlotGenerator
	validator   *validator.EventValidator
	geocoder    client.Geocoder
	cfg         *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	sessionRepo sessionsrepo.SessionRepository,
	bookings ActiveBookingCounter,
	generator *sessionsservice.SlotGenerator,
	validator *validator.EventValidator,
	geocoder client.Geocoder,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:        repo,
		sessionRepo: sessionRepo,
		bookings:    bookings,
		generator:   generator,
		validator:   validator,
		geocoder:    geocoder,
		cfg:         cfg,
	}
}

// Create persists the event and seeds its full session grid in one
// transaction, so a half-created event never becomes bookable.
func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	s.sanitize(event)
	if event.MaxSlotsPerSession == 0 {
		event.MaxSlotsPerSession = s.cfg.MaxSlotsPerSession
	}

	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event validation failed",
			"name", event.Name,
			"error", err,
		)
		return apperrors.Validation("Event validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	s.geocode(ctx, event)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, event); err != nil {
			return apperrors.Internal("Failed to create event", err)
		}

		sessions, err := s.generator.Generate(event)
		if err != nil {
			return err
		}
		if err := s.sessionRepo.CreateMany(sessCtx, sessions); err != nil {
			return apperrors.Internal("Failed to seed sessions", err)
		}

		s.cfg.Log.Info("Event created",
			"event_id", event.ID,
			"name", event.Name,
			"sessions_generated", len(sessions),
		)
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create event",
			"name", event.Name,
			"error", err,
		)
		return err
	}

	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapEventError(err, id)
	}
	return event, nil
}

func (s *eventService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
	events, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list events", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count events", err)
	}

	return events, total, nil
}

// Update touches name and address only. The date range stays immutable; a
// changed range means regenerating sessions, which is its own operation with
// its own guard.
func (s *eventService) Update(ctx context.Context, id string, updates *model.EventUpdate) error {
	updates.Name = sanitizer.NormalizeName(updates.Name)
	updates.Address = sanitizer.NormalizeAddress(updates.Address)

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return apperrors.Validation("Event update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	set := bson.M{}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.Address != "" {
		set["address"] = updates.Address

		probe := &model.Event{Address: updates.Address}
		s.geocode(ctx, probe)
		if probe.Latitude != nil && probe.Longitude != nil {
			set["latitude"] = *probe.Latitude
			set["longitude"] = *probe.Longitude
		}
	}
	if len(set) == 0 {
		return apperrors.InvalidInput("no updatable fields provided")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		return mapEventError(err, id)
	}

	s.cfg.Log.Info("Event updated", "event_id", id)
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	active, err := s.bookings.CountActiveByEvent(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check event bookings", err)
	}
	if active > 0 {
		return apperrors.Conflict(
			fmt.Sprintf("event has %d active bookings; cancel them before deleting", active))
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.sessionRepo.DeleteByEvent(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to delete event sessions", err)
		}
		return s.repo.Delete(sessCtx, id)
	})
	if err != nil {
		return mapEventError(err, id)
	}

	s.cfg.Log.Info("Event deleted", "event_id", id)
	return nil
}

// RegenerateSessions rebuilds the session grid from the event's current
// configuration. Refused while any booking still holds a seat; the grid swap
// would orphan it.
func (s *eventService) RegenerateSessions(ctx context.Context, id string) (int, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, mapEventError(err, id)
	}

	active, err := s.bookings.CountActiveByEvent(ctx, id)
	if err != nil {
		return 0, apperrors.Internal("Failed to check event bookings", err)
	}
	if active > 0 {
		return 0, apperrors.Conflict(
			fmt.Sprintf("event has %d active bookings; sessions cannot be regenerated", active))
	}

	var generated int
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.sessionRepo.DeleteByEvent(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to clear sessions", err)
		}

		sessions, err := s.generator.Generate(event)
		if err != nil {
			return err
		}
		if err := s.sessionRepo.CreateMany(sessCtx, sessions); err != nil {
			return apperrors.Internal("Failed to seed sessions", err)
		}

		generated = len(sessions)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cfg.Log.Info("Event sessions regenerated",
		"event_id", id,
		"sessions_generated", generated,
	)
	return generated, nil
}

func (s *eventService) sanitize(event *model.Event) {
	event.Name = sanitizer.NormalizeName(event.Name)
	event.Address = sanitizer.NormalizeAddress(event.Address)
}

// geocode is best effort: an unreachable geocoder never blocks event
// creation, the coordinates just stay empty.
func (s *eventService) geocode(ctx context.Context, event *model.Event) {
	if s.geocoder == nil || event.Address == "" {
		return
	}

	lat, lng, err := s.geocoder.Geocode(ctx, event.Address)
	if err != nil {
		s.cfg.Log.Warn("Geocoding failed",
			"address", event.Address,
			"error", err,
		)
		return
	}
	event.Latitude = &lat
	event.Longitude = &lng
}

func mapEventError(err error, id string) error {
	switch {
	case errors.Is(err, eventserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Event", id)
	case errors.Is(err, eventserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid event ID: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Event operation failed", err)
	}
}
