package service

import (
	"context"
	"errors"
	"time"

	sessionserrors "demoride/internal/sessions/errors"
	"demoride/internal/sessions/repository"
	"demoride/pkg/config"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
)

type SessionService interface {
	GetByID(ctx context.Context, id string) (*model.Session, error)
	GetByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, int64, error)
	AdjustCapacity(ctx context.Context, id string, adjustment *model.CapacityAdjustment) (*model.Session, error)
	DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error)
}

type sessionService struct {
	repo repository.SessionRepository
	cfg  *config.Config
}

func NewSessionService(repo repository.SessionRepository, cfg *config.Config) SessionService {
	return &sessionService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapSessionError(err, id)
	}
	return session, nil
}

func (s *sessionService) GetByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, int64, error) {
	sessions, err := s.repo.FindByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list sessions", err)
	}

	total, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count sessions", err)
	}

	return sessions, total, nil
}

func (s *sessionService) AdjustCapacity(ctx context.Context, id string, adjustment *model.CapacityAdjustment) (*model.Session, error) {
	if adjustment.AvailableSlots < 1 {
		return nil, apperrors.InvalidConfiguration("available_slots must be at least 1")
	}

	session, err := s.repo.AdjustCapacity(ctx, id, adjustment.AvailableSlots)
	if err == nil {
		s.cfg.Log.Info("Session capacity adjusted",
			"session_id", id,
			"available_slots", session.AvailableSlots,
			"booked_slots", session.BookedSlots,
		)
		return session, nil
	}

	if errors.Is(err, sessionserrors.ErrCapacityBelowBooked) {
		booked := -1
		if current, findErr := s.repo.FindByID(ctx, id); findErr == nil {
			booked = current.BookedSlots
		}
		return nil, apperrors.CapacityBelowBooked(booked, adjustment.AvailableSlots)
	}

	return nil, mapSessionError(err, id)
}

func (s *sessionService) DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error) {
	slots, err := s.repo.DaySheet(ctx, eventID, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to build day sheet", err)
	}
	return slots, nil
}

func mapSessionError(err error, id string) error {
	switch {
	case errors.Is(err, sessionserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Session", id)
	case errors.Is(err, sessionserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid session ID: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Session operation failed", err)
	}
}
