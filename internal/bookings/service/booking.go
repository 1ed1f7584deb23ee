package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "demoride/internal/bookings/errors"
	"demoride/internal/bookings/repository"
	"demoride/internal/bookings/validator"
	motorcycleserrors "demoride/internal/motorcycles/errors"
	sessionserrors "demoride/internal/sessions/errors"
	sessionsrepo "demoride/internal/sessions/repository"
	"demoride/pkg/config"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
	"demoride/pkg/sanitizer"
)

// MotorcycleFinder is the slice of the fleet store the state machine needs:
// resolving a motorcycle reference at booking time.
type MotorcycleFinder interface {
	FindByID(ctx context.Context, id string) (*model.Motorcycle, error)
}

// NotificationPublisher hands notification obligations to the external
// notifier.
type NotificationPublisher interface {
	Notify(ctx context.Context, notification model.Notification) error
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingCreateRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, int64, error)
	GetBySession(ctx context.Context, sessionID string) ([]*model.Booking, error)
	GetByMotorcycle(ctx context.Context, motorcycleID string) ([]*model.Booking, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	MarkReady(ctx context.Context, id string) (*model.Booking, error)
	Start(ctx context.Context, id string) (*model.Booking, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	NoShow(ctx context.Context, id string) (*model.Booking, error)
	UpdateDocuments(ctx context.Context, id string, update *model.DocumentUpdate) (*model.Booking, error)
	StartGroup(ctx context.Context, sessionID string) (*model.BatchResult, error)
	CompleteGroup(ctx context.Context, sessionID string) (*model.BatchResult, error)
	CountActiveByEvent(ctx context.Context, eventID string) (int64, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	locks       repository.SessionLockRepository
	sessions    sessionsrepo.SessionRepository
	motorcycles MotorcycleFinder
	notifier    NotificationPublisher
	validator   *validator.BookingValidator
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.SessionLockRepository,
	sessions sessionsrepo.SessionRepository,
	motorcycles MotorcycleFinder,
	notifier NotificationPublisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		locks:       locks,
		sessions:    sessions,
		motorcycles: motorcycles,
		notifier:    notifier,
		validator:   validator,
		cfg:         cfg,
	}
}

// Create reserves a seat and persists the booking in one transaction, under
// the session's advisory lock. Web bookings start RESERVED; walk-ins are
// created by staff with the rider standing there, so they start CONFIRMED.
func (s *bookingService) Create(ctx context.Context, req *model.BookingCreateRequest) (*model.Booking, error) {
	s.sanitizeRequest(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"session_id", req.SessionID,
			"error", err,
		)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	session, err := s.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		return nil, mapSessionRefError(err, req.SessionID)
	}
	if session.EventID != req.EventID {
		return nil, apperrors.InvalidInput("session does not belong to the given event")
	}

	motorcycle, err := s.motorcycles.FindByID(ctx, req.MotorcycleID)
	if err != nil {
		return nil, mapMotorcycleRefError(err, req.MotorcycleID)
	}
	if motorcycle.Group != session.Group {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("motorcycle belongs to %s, session is %s", motorcycle.Group, session.Group))
	}
	if !motorcycle.AssignedTo(req.EventID) {
		return nil, apperrors.Conflict("motorcycle is not assigned to this event")
	}
	if !motorcycle.Bookable() {
		return nil, apperrors.Conflict("motorcycle is not available for booking")
	}

	booking := s.buildBooking(req, session)

	if err := s.locks.Acquire(ctx, req.SessionID, s.cfg.SessionLockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("session is being booked by another request, retry")
		}
		return nil, apperrors.Internal("Failed to acquire session lock", err)
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), req.SessionID); err != nil {
			s.cfg.Log.Error("Failed to release session lock",
				"session_id", req.SessionID,
				"error", err,
			)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Re-check the fleet inside the transaction: a breakdown cascade
		// running between the guard above and this point must not be evaded.
		current, err := s.motorcycles.FindByID(sessCtx, req.MotorcycleID)
		if err != nil {
			return mapMotorcycleRefError(err, req.MotorcycleID)
		}
		if !current.Bookable() {
			return apperrors.Conflict("motorcycle is not available for booking")
		}

		if err := s.sessions.ReserveSeat(sessCtx, req.SessionID); err != nil {
			if errors.Is(err, sessionserrors.ErrSessionFull) {
				return apperrors.SlotUnavailable(req.SessionID)
			}
			return mapSessionRefError(err, req.SessionID)
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicateActiveBooking) {
				return apperrors.Conflict("motorcycle already has an active booking in this session")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Booking creation failed",
			"session_id", req.SessionID,
			"motorcycle_id", req.MotorcycleID,
			"source", req.Source,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"session_id", booking.SessionID,
		"motorcycle_id", booking.MotorcycleID,
		"source", booking.Source,
		"status", booking.Status,
	)
	return booking, nil
}

func (s *bookingService) buildBooking(req *model.BookingCreateRequest, session *model.Session) *model.Booking {
	riderID := req.RiderID
	if riderID == "" {
		riderID = uuid.NewString()
	}

	booking := &model.Booking{
		EventID:      req.EventID,
		SessionID:    req.SessionID,
		MotorcycleID: req.MotorcycleID,
		Rider: model.Rider{
			ID:    riderID,
			Name:  req.RiderName,
			Email: req.RiderEmail,
			Phone: req.RiderPhone,
		},
		Status:       model.StatusReserved,
		Source:       req.Source,
		SessionStart: session.StartTime,
	}

	if req.Source == model.SourceTablet {
		now := time.Now().UTC().Truncate(time.Millisecond)
		booking.Status = model.StatusConfirmed
		booking.ConfirmedAt = &now
	}

	return booking
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	bookings, err := s.repo.FindByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}

	total, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, total, nil
}

func (s *bookingService) GetBySession(ctx context.Context, sessionID string) ([]*model.Booking, error) {
	bookings, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list session bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByMotorcycle(ctx context.Context, motorcycleID string) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByMotorcycle(ctx, motorcycleID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list motorcycle bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking, err := s.repo.UpdateStatus(ctx, id,
		transitionSources[model.StatusConfirmed], model.StatusConfirmed,
		bson.M{"confirmed_at": now})
	if err != nil {
		return nil, s.mapTransitionError(ctx, err, id, model.StatusConfirmed)
	}

	s.cfg.Log.Info("Booking confirmed", "booking_id", id)
	return booking, nil
}

func (s *bookingService) MarkReady(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.UpdateStatus(ctx, id,
		transitionSources[model.StatusReady], model.StatusReady, nil)
	if err != nil {
		return nil, s.mapTransitionError(ctx, err, id, model.StatusReady)
	}

	s.cfg.Log.Info("Booking marked ready", "booking_id", id)
	return booking, nil
}

// Start moves a checked-in booking onto the track. The document guard runs
// before any write: a booking without a signed waiver and a bib never
// changes state here, not even a timestamp.
func (s *bookingService) Start(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(err, id)
	}

	if missing := missingDocuments(booking); len(missing) > 0 {
		return nil, apperrors.DocumentsIncomplete(missing)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	updated, err := s.repo.UpdateStatus(ctx, id,
		transitionSources[model.StatusInProgress], model.StatusInProgress,
		bson.M{"started_at": now})
	if err != nil {
		return nil, s.mapTransitionError(ctx, err, id, model.StatusInProgress)
	}

	s.cfg.Log.Info("Ride started", "booking_id", id, "bib_number", updated.BibNumber)
	return updated, nil
}

// Complete finishes the ride and queues the satisfaction survey. Survey
// publishing is best effort; the booking is completed either way.
func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking, err := s.repo.UpdateStatus(ctx, id,
		transitionSources[model.StatusCompleted], model.StatusCompleted,
		bson.M{"completed_at": now})
	if err != nil {
		return nil, s.mapTransitionError(ctx, err, id, model.StatusCompleted)
	}

	if err := s.notifier.Notify(ctx, model.Notification{
		Kind:         model.NotificationSurvey,
		BookingID:    booking.ID,
		EventID:      booking.EventID,
		Rider:        booking.Rider,
		SessionStart: booking.SessionStart,
	}); err != nil {
		s.cfg.Log.Warn("Failed to queue survey notification",
			"booking_id", booking.ID,
			"error", err,
		)
	}

	s.cfg.Log.Info("Ride completed", "booking_id", id)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.terminate(ctx, id, model.StatusCancelled)
}

func (s *bookingService) NoShow(ctx context.Context, id string) (*model.Booking, error) {
	return s.terminate(ctx, id, model.StatusNoShow)
}

// terminate ends a booking and gives its seat back. The conditional status
// update wins at most once per booking, which is what makes the release
// exactly-once: a retried cancel loses the status race and never reaches
// the ledger.
func (s *bookingService) terminate(ctx context.Context, id string, to model.BookingStatus) (*model.Booking, error) {
	var terminated *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.UpdateStatus(sessCtx, id, transitionSources[to], to, nil)
		if err != nil {
			return s.mapTransitionError(sessCtx, err, id, to)
		}
		terminated = booking

		if err := s.sessions.ReleaseSeat(sessCtx, booking.SessionID); err != nil {
			if errors.Is(err, sessionserrors.ErrNoSeatsBooked) {
				s.cfg.Log.Warn("Seat release clamped at zero",
					"booking_id", id,
					"session_id", booking.SessionID,
				)
				return nil
			}
			return apperrors.Internal("Failed to release seat", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking terminated",
		"booking_id", id,
		"status", to,
	)
	return terminated, nil
}

// UpdateDocuments touches waiver, bib and license photo without changing
// status. A bib must be unique among active bookings of the event on the
// booking's ride day.
func (s *bookingService) UpdateDocuments(ctx context.Context, id string, update *model.DocumentUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateDocuments(update); err != nil {
		return nil, apperrors.Validation("Document update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	set := bson.M{}
	if update.WaiverSigned != nil {
		set["waiver_signed"] = *update.WaiverSigned
	}
	if update.LicensePhotoURL != nil {
		set["license_photo_url"] = *update.LicensePhotoURL
	}

	var bib string
	if update.BibNumber != nil {
		bib = sanitizer.NormalizeBib(*update.BibNumber)
		if *update.BibNumber != "" && bib == "" {
			return nil, apperrors.InvalidInput("bib_number contains no letters or digits")
		}
		set["bib_number"] = bib
	}
	if len(set) == 0 {
		return nil, apperrors.InvalidInput("no document fields provided")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(err, id)
	}

	var updated *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if bib != "" {
			dayStart := startOfDay(booking.SessionStart)
			taken, err := s.repo.ActiveBibExists(sessCtx, booking.EventID, bib,
				dayStart, dayStart.AddDate(0, 0, 1), id)
			if err != nil {
				return apperrors.Internal("Failed to check bib uniqueness", err)
			}
			if taken {
				return apperrors.Conflict(
					fmt.Sprintf("bib number %s is already worn by another rider today", bib))
			}
		}

		b, err := s.repo.UpdateDocuments(sessCtx, id, set)
		if err != nil {
			return s.mapTransitionError(sessCtx, err, id, booking.Status)
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking documents updated", "booking_id", id)
	return updated, nil
}

// StartGroup applies the start transition to every active booking of a
// session. Each booking is evaluated on its own; a missing waiver on one
// rider never blocks the rest of the group.
func (s *bookingService) StartGroup(ctx context.Context, sessionID string) (*model.BatchResult, error) {
	return s.batchTransition(ctx, sessionID, s.Start)
}

func (s *bookingService) CompleteGroup(ctx context.Context, sessionID string) (*model.BatchResult, error) {
	return s.batchTransition(ctx, sessionID, s.Complete)
}

func (s *bookingService) batchTransition(
	ctx context.Context,
	sessionID string,
	transition func(ctx context.Context, id string) (*model.Booking, error),
) (*model.BatchResult, error) {
	bookings, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list session bookings", err)
	}

	result := &model.BatchResult{
		Transitioned: []string{},
		Failed:       []model.BatchFailure{},
	}

	for _, booking := range bookings {
		if booking.Status.Terminal() {
			continue
		}

		if _, err := transition(ctx, booking.ID); err != nil {
			appErr := apperrors.AsAppError(err)
			result.Failed = append(result.Failed, model.BatchFailure{
				BookingID: booking.ID,
				Reason:    fmt.Sprintf("%s: %s", appErr.Code, appErr.Message),
			})
			continue
		}
		result.Transitioned = append(result.Transitioned, booking.ID)
	}

	s.cfg.Log.Info("Group transition applied",
		"session_id", sessionID,
		"transitioned", len(result.Transitioned),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *bookingService) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	return s.repo.CountActiveByEvent(ctx, eventID)
}

func (s *bookingService) sanitizeRequest(req *model.BookingCreateRequest) {
	req.RiderName = sanitizer.NormalizeName(req.RiderName)
	req.RiderEmail = sanitizer.NormalizeEmail(req.RiderEmail)
	req.RiderPhone = sanitizer.NormalizePhone(req.RiderPhone)
}

func missingDocuments(booking *model.Booking) []string {
	var missing []string
	if !booking.WaiverSigned {
		missing = append(missing, "waiver_signed")
	}
	if booking.BibNumber == "" {
		missing = append(missing, "bib_number")
	}
	return missing
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mapTransitionError turns a conditional-update miss into the taxonomy the
// tablet understands: AlreadyTerminal when the booking is finished,
// InvalidTransition otherwise.
func (s *bookingService) mapTransitionError(ctx context.Context, err error, id string, to model.BookingStatus) error {
	if !errors.Is(err, bookingserrors.ErrStatusConflict) {
		return mapBookingError(err, id)
	}

	current, findErr := s.repo.FindByID(ctx, id)
	if findErr != nil {
		return mapBookingError(findErr, id)
	}
	if current.Status.Terminal() {
		return apperrors.AlreadyTerminal(string(current.Status))
	}
	return apperrors.InvalidTransition(string(current.Status), string(to))
}

func mapBookingError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking ID: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Booking operation failed", err)
	}
}

func mapSessionRefError(err error, id string) error {
	switch {
	case errors.Is(err, sessionserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Session", id)
	case errors.Is(err, sessionserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid session ID: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Session lookup failed", err)
	}
}

func mapMotorcycleRefError(err error, id string) error {
	switch {
	case errors.Is(err, motorcycleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Motorcycle", id)
	case errors.Is(err, motorcycleserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid motorcycle ID: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Motorcycle lookup failed", err)
	}
}
