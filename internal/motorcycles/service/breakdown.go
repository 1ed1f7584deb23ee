package service

import (
	"context"
	"time"

	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
)

// FutureBookingFinder enumerates the bookings a breakdown threatens: active
// ones on this motorcycle whose session has not yet started.
type FutureBookingFinder interface {
	FindFutureByMotorcycle(ctx context.Context, motorcycleID string, from time.Time) ([]*model.Booking, error)
}

// BookingCanceller is the state machine's cancel path. The cascade must go
// through it so seats are released and idempotency holds.
type BookingCanceller interface {
	Cancel(ctx context.Context, id string) (*model.Booking, error)
}

type NotificationPublisher interface {
	Notify(ctx context.Context, notification model.Notification) error
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// ReportBreakdown takes the motorcycle out of service and, when asked to,
// cancels every future booking that references it, queueing a relocation
// notice per rider. The status flips before the enumeration: any booking
// created concurrently re-checks the status inside its own transaction and
// fails, so nothing slips through between the two steps.
func (s *motorcycleService) ReportBreakdown(ctx context.Context, report *model.BreakdownReport) (*model.BreakdownResult, error) {
	if err := s.validator.ValidateBreakdown(report); err != nil {
		return nil, apperrors.Validation("Breakdown report validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	motorcycle, err := s.repo.FindByID(ctx, report.MotorcycleID)
	if err != nil {
		return nil, mapMotorcycleError(err, report.MotorcycleID)
	}

	newStatus := statusForProblem(report)

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.Internal("Failed to persist breakdown report", err)
	}
	if err := s.repo.SetStatus(ctx, report.MotorcycleID, newStatus); err != nil {
		return nil, mapMotorcycleError(err, report.MotorcycleID)
	}

	s.cfg.Log.Info("Motorcycle taken out of service",
		"motorcycle_id", report.MotorcycleID,
		"problem", report.Problem,
		"status", newStatus,
		"block_future_bookings", report.BlockFutureBookings,
	)

	result := &model.BreakdownResult{
		ReportID:            report.ID,
		MotorcycleStatus:    newStatus,
		CancelledBookingIDs: []string{},
	}
	if !report.BlockFutureBookings {
		return result, nil
	}

	future, err := s.bookings.FindFutureByMotorcycle(ctx, report.MotorcycleID, nowUTC())
	if err != nil {
		return nil, apperrors.Internal("Failed to enumerate future bookings", err)
	}

	// Relocation candidates per event, computed once. The broken machine is
	// already non-AVAILABLE, so it excludes itself.
	alternatives := map[string]*model.Motorcycle{}

	for _, booking := range future {
		cancelled, err := s.canceller.Cancel(ctx, booking.ID)
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeAlreadyTerminal) {
				continue
			}
			// A failed cancellation is a real problem: the rider would show
			// up for a motorcycle that does not run.
			s.cfg.Log.Error("Breakdown cascade failed to cancel booking",
				"booking_id", booking.ID,
				"motorcycle_id", report.MotorcycleID,
				"error", err,
			)
			return nil, err
		}
		result.CancelledBookingIDs = append(result.CancelledBookingIDs, cancelled.ID)

		alternative, ok := alternatives[booking.EventID]
		if !ok {
			alternative = s.suggestAlternative(ctx, booking.EventID, motorcycle.Group)
			alternatives[booking.EventID] = alternative
		}

		notification := model.Notification{
			Kind:         model.NotificationRelocation,
			BookingID:    cancelled.ID,
			EventID:      cancelled.EventID,
			Rider:        cancelled.Rider,
			SessionStart: cancelled.SessionStart,
		}
		if alternative != nil {
			notification.AlternativeMotorcycleID = alternative.ID
			notification.AlternativeModel = alternative.Model
		}

		if err := s.notifier.Notify(ctx, notification); err != nil {
			s.cfg.Log.Error("Failed to queue relocation notification",
				"booking_id", cancelled.ID,
				"error", err,
			)
			continue
		}
		result.NotificationsQueued++
	}

	s.cfg.Log.Info("Breakdown cascade finished",
		"motorcycle_id", report.MotorcycleID,
		"cancelled", len(result.CancelledBookingIDs),
		"notifications_queued", result.NotificationsQueued,
	)
	return result, nil
}

func statusForProblem(report *model.BreakdownReport) model.MotorcycleStatus {
	switch report.Problem {
	case model.ProblemCrash:
		return model.MotorcycleDamaged
	case model.ProblemMechanical:
		return model.MotorcycleMaintenance
	default:
		if report.NewStatus != "" {
			return report.NewStatus
		}
		return model.MotorcycleUnavailable
	}
}

func (s *motorcycleService) suggestAlternative(ctx context.Context, eventID string, group model.Group) *model.Motorcycle {
	candidates, err := s.repo.FindAvailableByEventAndGroup(ctx, eventID, group)
	if err != nil {
		s.cfg.Log.Warn("Failed to look up relocation alternatives",
			"event_id", eventID,
			"group", group,
			"error", err,
		)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}
