package service

import (
	"context"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	sessionserrors "demoride/internal/sessions/errors"
	"demoride/pkg/config"
	mongotx "demoride/pkg/db/mongo"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/logger"
	"demoride/pkg/model"
)

type mockSessionRepository struct {
	createManyFunc     func(ctx context.Context, sessions []*model.Session) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Session, error)
	findByEventFunc    func(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, error)
	countByEventFunc   func(ctx context.Context, eventID string) (int64, error)
	deleteByEventFunc  func(ctx context.Context, eventID string) (int64, error)
	reserveSeatFunc    func(ctx context.Context, id string) error
	releaseSeatFunc    func(ctx context.Context, id string) error
	adjustCapacityFunc func(ctx context.Context, id string, availableSlots int) (*model.Session, error)
	daySheetFunc       func(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error)
}

func (m *mockSessionRepository) CreateMany(ctx context.Context, sessions []*model.Session) error {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, sessions)
	}
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, sessionserrors.ErrNotFound
}

func (m *mockSessionRepository) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, error) {
	if m.findByEventFunc != nil {
		return m.findByEventFunc(ctx, eventID, limit, offset)
	}
	return []*model.Session{}, nil
}

func (m *mockSessionRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	if m.countByEventFunc != nil {
		return m.countByEventFunc(ctx, eventID)
	}
	return 0, nil
}

func (m *mockSessionRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	if m.deleteByEventFunc != nil {
		return m.deleteByEventFunc(ctx, eventID)
	}
	return 0, nil
}

func (m *mockSessionRepository) ReserveSeat(ctx context.Context, id string) error {
	if m.reserveSeatFunc != nil {
		return m.reserveSeatFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionRepository) ReleaseSeat(ctx context.Context, id string) error {
	if m.releaseSeatFunc != nil {
		return m.releaseSeatFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionRepository) AdjustCapacity(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
	if m.adjustCapacityFunc != nil {
		return m.adjustCapacityFunc(ctx, id, availableSlots)
	}
	return nil, sessionserrors.ErrNotFound
}

func (m *mockSessionRepository) DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error) {
	if m.daySheetFunc != nil {
		return m.daySheetFunc(ctx, eventID, day)
	}
	return []*model.SlotView{}, nil
}

func (m *mockSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:  logger.ERROR,
			Format: logger.TEXT,
			Output: io.Discard,
		}),
	}
}

func TestAdjustCapacityShrinkGuard(t *testing.T) {
	adjusted := false
	repo := &mockSessionRepository{
		adjustCapacityFunc: func(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
			adjusted = true
			return nil, sessionserrors.ErrCapacityBelowBooked
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, AvailableSlots: 8, BookedSlots: 3}, nil
		},
	}

	svc := NewSessionService(repo, testConfig())

	_, err := svc.AdjustCapacity(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1", &model.CapacityAdjustment{AvailableSlots: 2})
	if !apperrors.HasCode(err, apperrors.CodeCapacityBelowBooked) {
		t.Fatalf("AdjustCapacity() error = %v, want CapacityBelowBooked", err)
	}
	if !adjusted {
		t.Error("expected the repository adjustment attempt to carry the guard")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Details["booked_slots"] != 3 {
		t.Errorf("error details booked_slots = %v, want 3", appErr.Details["booked_slots"])
	}
}

func TestAdjustCapacityRejectsZero(t *testing.T) {
	called := false
	repo := &mockSessionRepository{
		adjustCapacityFunc: func(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
			called = true
			return nil, nil
		},
	}

	svc := NewSessionService(repo, testConfig())

	_, err := svc.AdjustCapacity(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1", &model.CapacityAdjustment{AvailableSlots: 0})
	if !apperrors.HasCode(err, apperrors.CodeInvalidConfiguration) {
		t.Fatalf("AdjustCapacity() error = %v, want InvalidConfiguration", err)
	}
	if called {
		t.Error("repository must not be called for invalid capacity")
	}
}

func TestAdjustCapacityGrow(t *testing.T) {
	repo := &mockSessionRepository{
		adjustCapacityFunc: func(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
			return &model.Session{ID: id, AvailableSlots: availableSlots, BookedSlots: 3}, nil
		},
	}

	svc := NewSessionService(repo, testConfig())

	session, err := svc.AdjustCapacity(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1", &model.CapacityAdjustment{AvailableSlots: 12})
	if err != nil {
		t.Fatalf("AdjustCapacity() error = %v", err)
	}
	if session.AvailableSlots != 12 {
		t.Errorf("available_slots = %d, want 12", session.AvailableSlots)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &mockSessionRepository{}
	svc := NewSessionService(repo, testConfig())

	_, err := svc.GetByID(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("GetByID() error = %v, want NotFound", err)
	}
}
