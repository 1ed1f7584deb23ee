package service

import (
	"context"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	eventserrors "demoride/internal/events/errors"
	"demoride/internal/events/validator"
	sessionserrors "demoride/internal/sessions/errors"
	sessionsservice "demoride/internal/sessions/service"
	"demoride/pkg/config"
	mongotx "demoride/pkg/db/mongo"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/logger"
	"demoride/pkg/model"
)

type mockEventRepository struct {
	createFunc   func(ctx context.Context, event *model.Event) error
	findByIDFunc func(ctx context.Context, id string) (*model.Event, error)
	findAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Event, error)
	countFunc    func(ctx context.Context) (int64, error)
	updateFunc   func(ctx context.Context, id string, update bson.M) error
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.Event) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	event.ID = "65f1a2b3c4d5e6f7a8b9c0d1"
	return nil
}

func (m *mockEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, eventserrors.ErrNotFound
}

func (m *mockEventRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Event{}, nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, update bson.M) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEventRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

type mockSessionStore struct {
	createManyFunc    func(ctx context.Context, sessions []*model.Session) error
	deleteByEventFunc func(ctx context.Context, eventID string) (int64, error)
}

func (m *mockSessionStore) CreateMany(ctx context.Context, sessions []*model.Session) error {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, sessions)
	}
	return nil
}

func (m *mockSessionStore) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, sessionserrors.ErrNotFound
}

func (m *mockSessionStore) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, error) {
	return []*model.Session{}, nil
}

func (m *mockSessionStore) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return 0, nil
}

func (m *mockSessionStore) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	if m.deleteByEventFunc != nil {
		return m.deleteByEventFunc(ctx, eventID)
	}
	return 0, nil
}

func (m *mockSessionStore) ReserveSeat(ctx context.Context, id string) error { return nil }

func (m *mockSessionStore) ReleaseSeat(ctx context.Context, id string) error { return nil }

func (m *mockSessionStore) AdjustCapacity(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
	return nil, sessionserrors.ErrNotFound
}

func (m *mockSessionStore) DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error) {
	return []*model.SlotView{}, nil
}

func (m *mockSessionStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

type mockBookingCounter struct {
	count int64
}

func (m *mockBookingCounter) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	return m.count, nil
}

func newTestService(t *testing.T, repo *mockEventRepository, sessions *mockSessionStore, counter *mockBookingCounter) EventService {
	t.Helper()

	log := logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	})
	cfg := &config.Config{
		Log:                   log,
		MorningStart:          config.DefaultMorningStart,
		MorningCutoff:         config.DefaultMorningCutoff,
		AfternoonStart:        config.DefaultAfternoonStart,
		AfternoonCutoff:       config.DefaultAfternoonCutoff,
		RideDurationMin:       config.DefaultRideDurationMin,
		TurnaroundDurationMin: config.DefaultTurnaroundDurationMin,
		MaxSlotsPerSession:    config.DefaultMaxSlotsPerSession,
	}

	generator, err := sessionsservice.NewSlotGenerator(cfg)
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	return NewEventService(repo, sessions, counter, generator, validator.NewEventValidator(log), nil, cfg)
}

func TestCreateSeedsSessions(t *testing.T) {
	var seeded []*model.Session
	sessions := &mockSessionStore{
		createManyFunc: func(ctx context.Context, s []*model.Session) error {
			seeded = s
			return nil
		},
	}

	svc := newTestService(t, &mockEventRepository{}, sessions, &mockBookingCounter{})

	event := &model.Event{
		Name:               "Alpine Tour Grenoble",
		StartDate:          time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Address:            "Place Victor Hugo, Grenoble",
		MaxSlotsPerSession: 8,
	}

	if err := svc.Create(context.Background(), event); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(seeded) != 28 {
		t.Fatalf("Create() seeded %d sessions, want 28", len(seeded))
	}
	for _, s := range seeded {
		if s.EventID != event.ID {
			t.Errorf("seeded session event_id = %q, want %q", s.EventID, event.ID)
		}
	}
}

func TestCreateRejectsInvertedDateRange(t *testing.T) {
	svc := newTestService(t, &mockEventRepository{}, &mockSessionStore{}, &mockBookingCounter{})

	event := &model.Event{
		Name:               "Alpine Tour Grenoble",
		StartDate:          time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		Address:            "Place Victor Hugo, Grenoble",
		MaxSlotsPerSession: 8,
	}

	err := svc.Create(context.Background(), event)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("Create() error = %v, want Validation", err)
	}
}

func TestRegenerateRefusedWithActiveBookings(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{
				ID:                 id,
				Name:               "Alpine Tour Grenoble",
				StartDate:          time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
				EndDate:            time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
				MaxSlotsPerSession: 8,
			}, nil
		},
	}

	deleted := false
	sessions := &mockSessionStore{
		deleteByEventFunc: func(ctx context.Context, eventID string) (int64, error) {
			deleted = true
			return 28, nil
		},
	}

	svc := newTestService(t, repo, sessions, &mockBookingCounter{count: 3})

	_, err := svc.RegenerateSessions(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("RegenerateSessions() error = %v, want Conflict", err)
	}
	if deleted {
		t.Error("sessions must not be touched while bookings are active")
	}
}

func TestRegenerateRebuildsGrid(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{
				ID:                 id,
				Name:               "Alpine Tour Grenoble",
				StartDate:          time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
				EndDate:            time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
				MaxSlotsPerSession: 6,
			}, nil
		},
	}

	svc := newTestService(t, repo, &mockSessionStore{}, &mockBookingCounter{})

	generated, err := svc.RegenerateSessions(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1")
	if err != nil {
		t.Fatalf("RegenerateSessions() error = %v", err)
	}
	// One day, 7 start times, 2 groups.
	if generated != 14 {
		t.Errorf("RegenerateSessions() = %d, want 14", generated)
	}
}

func TestDeleteRefusedWithActiveBookings(t *testing.T) {
	svc := newTestService(t, &mockEventRepository{}, &mockSessionStore{}, &mockBookingCounter{count: 1})

	err := svc.Delete(context.Background(), "65f1a2b3c4d5e6f7a8b9c0d1")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("Delete() error = %v, want Conflict", err)
	}
}
