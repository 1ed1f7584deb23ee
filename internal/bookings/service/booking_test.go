package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "demoride/internal/bookings/errors"
	"demoride/internal/bookings/validator"
	motorcycleserrors "demoride/internal/motorcycles/errors"
	sessionserrors "demoride/internal/sessions/errors"
	"demoride/pkg/config"
	mongotx "demoride/pkg/db/mongo"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/logger"
	"demoride/pkg/model"
)

// fakeLedger is an in-memory capacity ledger with the same atomicity
// contract as the mongo implementation: check-and-increment under one lock.
type fakeLedger struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	releases map[string]int
}

func newFakeLedger(sessions ...*model.Session) *fakeLedger {
	l := &fakeLedger{
		sessions: map[string]*model.Session{},
		releases: map[string]int{},
	}
	for _, s := range sessions {
		l.sessions[s.ID] = s
	}
	return l
}

func (l *fakeLedger) CreateMany(ctx context.Context, sessions []*model.Session) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range sessions {
		l.sessions[s.ID] = s
	}
	return nil
}

func (l *fakeLedger) FindByID(ctx context.Context, id string) (*model.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[id]
	if !ok {
		return nil, sessionserrors.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (l *fakeLedger) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Session, error) {
	return []*model.Session{}, nil
}

func (l *fakeLedger) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return 0, nil
}

func (l *fakeLedger) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	return 0, nil
}

func (l *fakeLedger) ReserveSeat(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[id]
	if !ok {
		return sessionserrors.ErrNotFound
	}
	if s.BookedSlots >= s.AvailableSlots {
		return sessionserrors.ErrSessionFull
	}
	s.BookedSlots++
	return nil
}

func (l *fakeLedger) ReleaseSeat(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[id]
	if !ok {
		return sessionserrors.ErrNotFound
	}
	if s.BookedSlots == 0 {
		return sessionserrors.ErrNoSeatsBooked
	}
	s.BookedSlots--
	l.releases[id]++
	return nil
}

func (l *fakeLedger) AdjustCapacity(ctx context.Context, id string, availableSlots int) (*model.Session, error) {
	return nil, sessionserrors.ErrNotFound
}

func (l *fakeLedger) DaySheet(ctx context.Context, eventID string, day time.Time) ([]*model.SlotView, error) {
	return []*model.SlotView{}, nil
}

func (l *fakeLedger) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func (l *fakeLedger) booked(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessions[id].BookedSlots
}

func (l *fakeLedger) released(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releases[id]
}

// fakeBookingStore mimics the conditional-update semantics of the mongo
// repository, including the status filter on UpdateStatus.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[string]*model.Booking{}}
}

func (f *fakeBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.SessionID == booking.SessionID && b.MotorcycleID == booking.MotorcycleID && !b.Status.Terminal() {
			return bookingserrors.ErrDuplicateActiveBooking
		}
	}
	booking.ID = primitive.NewObjectID().Hex()
	booking.CreatedAt = time.Now().UTC()
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingStore) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingStore) FindBySession(ctx context.Context, sessionID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.SessionID == sessionID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (f *fakeBookingStore) FindByMotorcycle(ctx context.Context, motorcycleID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.MotorcycleID == motorcycleID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return 0, nil
}

func (f *fakeBookingStore) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.EventID == eventID && !b.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingStore) FindFutureByMotorcycle(ctx context.Context, motorcycleID string, from time.Time) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.MotorcycleID == motorcycleID && !b.Status.Terminal() && !b.SessionStart.Before(from) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id string, from []model.BookingStatus, to model.BookingStatus, set bson.M) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}

	matched := false
	for _, s := range from {
		if b.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return nil, bookingserrors.ErrStatusConflict
	}

	b.Status = to
	applyFakeSet(b, set)
	copied := *b
	return &copied, nil
}

func (f *fakeBookingStore) UpdateDocuments(ctx context.Context, id string, set bson.M) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	if b.Status.Terminal() {
		return nil, bookingserrors.ErrStatusConflict
	}
	applyFakeSet(b, set)
	copied := *b
	return &copied, nil
}

func applyFakeSet(b *model.Booking, set bson.M) {
	for key, value := range set {
		switch key {
		case "confirmed_at":
			t := value.(time.Time)
			b.ConfirmedAt = &t
		case "started_at":
			t := value.(time.Time)
			b.StartedAt = &t
		case "completed_at":
			t := value.(time.Time)
			b.CompletedAt = &t
		case "waiver_signed":
			b.WaiverSigned = value.(bool)
		case "bib_number":
			b.BibNumber = value.(string)
		case "license_photo_url":
			b.LicensePhotoURL = value.(string)
		}
	}
}

func (f *fakeBookingStore) ActiveBibExists(ctx context.Context, eventID, bib string, dayStart, dayEnd time.Time, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, b := range f.bookings {
		if id == excludeID || b.Status.Terminal() {
			continue
		}
		if b.EventID == eventID && b.BibNumber == bib &&
			!b.SessionStart.Before(dayStart) && b.SessionStart.Before(dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

type fakeLockStore struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{locks: map[string]bool{}}
}

func (f *fakeLockStore) Acquire(ctx context.Context, sessionID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[sessionID] {
		return bookingserrors.ErrLockHeld
	}
	f.locks[sessionID] = true
	return nil
}

func (f *fakeLockStore) Release(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, sessionID)
	return nil
}

type fakeFleet struct {
	mu          sync.Mutex
	motorcycles map[string]*model.Motorcycle
}

func newFakeFleet(motorcycles ...*model.Motorcycle) *fakeFleet {
	f := &fakeFleet{motorcycles: map[string]*model.Motorcycle{}}
	for _, m := range motorcycles {
		f.motorcycles[m.ID] = m
	}
	return f
}

func (f *fakeFleet) FindByID(ctx context.Context, id string) (*model.Motorcycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.motorcycles[id]
	if !ok {
		return nil, motorcycleserrors.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeFleet) setStatus(id string, status model.MotorcycleStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.motorcycles[id].Status = status
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recordingNotifier) byKind(kind model.NotificationKind) []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

const (
	testEventID      = "65f1a2b3c4d5e6f7a8b9c0d1"
	testSessionID    = "65f1a2b3c4d5e6f7a8b9c0e2"
	testMotorcycleID = "65f1a2b3c4d5e6f7a8b9c0f3"
)

type fixture struct {
	svc      BookingService
	ledger   *fakeLedger
	store    *fakeBookingStore
	fleet    *fakeFleet
	notifier *recordingNotifier
}

func newFixture(availableSlots int) *fixture {
	log := logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	})
	cfg := &config.Config{
		Log:            log,
		SessionLockTTL: config.DefaultSessionLockTTL,
	}

	ledger := newFakeLedger(&model.Session{
		ID:             testSessionID,
		EventID:        testEventID,
		StartTime:      time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, time.March, 14, 10, 45, 0, 0, time.UTC),
		Group:          model.Group1,
		AvailableSlots: availableSlots,
	})
	store := newFakeBookingStore()
	fleet := newFakeFleet(&model.Motorcycle{
		ID:       testMotorcycleID,
		Model:    "Street Triple 765",
		Group:    model.Group1,
		Status:   model.MotorcycleAvailable,
		EventIDs: []string{testEventID},
	})
	notifier := &recordingNotifier{}

	svc := NewBookingService(store, newFakeLockStore(), ledger, fleet, notifier,
		validator.NewBookingValidator(log), cfg)

	return &fixture{svc: svc, ledger: ledger, store: store, fleet: fleet, notifier: notifier}
}

func walkInRequest() *model.BookingCreateRequest {
	return &model.BookingCreateRequest{
		EventID:      testEventID,
		SessionID:    testSessionID,
		MotorcycleID: testMotorcycleID,
		RiderName:    "Jean Dupont",
		RiderEmail:   "jean.dupont@example.com",
		Source:       model.SourceTablet,
	}
}

func TestCreateWalkInStartsConfirmed(t *testing.T) {
	f := newFixture(8)

	booking, err := f.svc.Create(context.Background(), walkInRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("walk-in status = %s, want CONFIRMED", booking.Status)
	}
	if booking.ConfirmedAt == nil {
		t.Error("walk-in confirmed_at not set")
	}
	if booking.Rider.ID == "" {
		t.Error("walk-in rider ID not generated")
	}
	if f.ledger.booked(testSessionID) != 1 {
		t.Errorf("booked_slots = %d, want 1", f.ledger.booked(testSessionID))
	}
}

func TestCreateWebStartsReserved(t *testing.T) {
	f := newFixture(8)

	req := walkInRequest()
	req.Source = model.SourceWeb
	req.RiderID = "rider-42"

	booking, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if booking.Status != model.StatusReserved {
		t.Errorf("web booking status = %s, want RESERVED", booking.Status)
	}
	if booking.ConfirmedAt != nil {
		t.Error("web booking must not be pre-confirmed")
	}
	if booking.Rider.ID != "rider-42" {
		t.Errorf("rider ID = %q, want the resolved identity", booking.Rider.ID)
	}
}

func TestCreateWebRequiresRiderID(t *testing.T) {
	f := newFixture(8)

	req := walkInRequest()
	req.Source = model.SourceWeb

	_, err := f.svc.Create(context.Background(), req)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("Create() error = %v, want Validation", err)
	}
}

func TestCreateFullSessionIsSlotUnavailable(t *testing.T) {
	f := newFixture(1)

	if _, err := f.svc.Create(context.Background(), walkInRequest()); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	second := walkInRequest()
	second.MotorcycleID = testMotorcycleID
	_, err := f.svc.Create(context.Background(), second)
	if err == nil {
		t.Fatal("second Create() on a full session succeeded")
	}
	// Same motorcycle: duplicate guard may win first; a different motorcycle
	// must hit the capacity guard.
	if f.ledger.booked(testSessionID) != 1 {
		t.Errorf("booked_slots = %d after failed create, want 1", f.ledger.booked(testSessionID))
	}
}

func TestCreateUnavailableMotorcycleRejected(t *testing.T) {
	f := newFixture(8)
	f.fleet.setStatus(testMotorcycleID, model.MotorcycleDamaged)

	_, err := f.svc.Create(context.Background(), walkInRequest())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("Create() error = %v, want Conflict", err)
	}
	if f.ledger.booked(testSessionID) != 0 {
		t.Errorf("booked_slots = %d, want 0 (no reservation on rejected create)", f.ledger.booked(testSessionID))
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(8)

	booking, err := f.svc.Create(context.Background(), walkInRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cancelled, err := f.svc.Cancel(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("first Cancel() error = %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	_, err = f.svc.Cancel(context.Background(), booking.ID)
	if !apperrors.HasCode(err, apperrors.CodeAlreadyTerminal) {
		t.Fatalf("second Cancel() error = %v, want AlreadyTerminal", err)
	}

	if got := f.ledger.released(testSessionID); got != 1 {
		t.Errorf("releaseSeat invoked %d times, want exactly 1", got)
	}
	if f.ledger.booked(testSessionID) != 0 {
		t.Errorf("booked_slots = %d, want 0", f.ledger.booked(testSessionID))
	}
}

func TestNoShowAfterCancelIsAlreadyTerminal(t *testing.T) {
	f := newFixture(8)

	booking, _ := f.svc.Create(context.Background(), walkInRequest())
	if _, err := f.svc.Cancel(context.Background(), booking.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	_, err := f.svc.NoShow(context.Background(), booking.ID)
	if !apperrors.HasCode(err, apperrors.CodeAlreadyTerminal) {
		t.Fatalf("NoShow() after cancel error = %v, want AlreadyTerminal", err)
	}
	if got := f.ledger.released(testSessionID); got != 1 {
		t.Errorf("releaseSeat invoked %d times, want exactly 1", got)
	}
}

func TestStartRequiresDocuments(t *testing.T) {
	f := newFixture(8)

	booking, _ := f.svc.Create(context.Background(), walkInRequest())

	_, err := f.svc.Start(context.Background(), booking.ID)
	if !apperrors.HasCode(err, apperrors.CodeDocumentsIncomplete) {
		t.Fatalf("Start() error = %v, want DocumentsIncomplete", err)
	}

	after, _ := f.svc.GetByID(context.Background(), booking.ID)
	if after.Status != model.StatusConfirmed {
		t.Errorf("status mutated to %s by failed start", after.Status)
	}
	if after.StartedAt != nil {
		t.Error("started_at set by failed start")
	}

	// Waiver alone is not enough.
	signed := true
	if _, err := f.svc.UpdateDocuments(context.Background(), booking.ID, &model.DocumentUpdate{
		WaiverSigned: &signed,
	}); err != nil {
		t.Fatalf("UpdateDocuments() error = %v", err)
	}
	if _, err := f.svc.Start(context.Background(), booking.ID); !apperrors.HasCode(err, apperrors.CodeDocumentsIncomplete) {
		t.Fatalf("Start() without bib error = %v, want DocumentsIncomplete", err)
	}

	bib := "A-12"
	if _, err := f.svc.UpdateDocuments(context.Background(), booking.ID, &model.DocumentUpdate{
		BibNumber: &bib,
	}); err != nil {
		t.Fatalf("UpdateDocuments() error = %v", err)
	}

	started, err := f.svc.Start(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("Start() with documents error = %v", err)
	}
	if started.Status != model.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", started.Status)
	}
	if started.BibNumber != "A12" {
		t.Errorf("bib = %q, want normalized A12", started.BibNumber)
	}
	if started.StartedAt == nil {
		t.Error("started_at not set")
	}
}

func TestBibUniquePerEventDay(t *testing.T) {
	f := newFixture(8)

	first, _ := f.svc.Create(context.Background(), walkInRequest())

	// A second booking in the same session needs another motorcycle.
	f.fleet.motorcycles["65f1a2b3c4d5e6f7a8b9c0f4"] = &model.Motorcycle{
		ID:       "65f1a2b3c4d5e6f7a8b9c0f4",
		Model:    "Tiger 900",
		Group:    model.Group1,
		Status:   model.MotorcycleAvailable,
		EventIDs: []string{testEventID},
	}
	req := walkInRequest()
	req.MotorcycleID = "65f1a2b3c4d5e6f7a8b9c0f4"
	second, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	bib := "A12"
	if _, err := f.svc.UpdateDocuments(context.Background(), first.ID, &model.DocumentUpdate{BibNumber: &bib}); err != nil {
		t.Fatalf("UpdateDocuments() error = %v", err)
	}

	_, err = f.svc.UpdateDocuments(context.Background(), second.ID, &model.DocumentUpdate{BibNumber: &bib})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("duplicate bib error = %v, want Conflict", err)
	}

	// Released bibs are reusable: cancel the first booking and retry.
	if _, err := f.svc.Cancel(context.Background(), first.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if _, err := f.svc.UpdateDocuments(context.Background(), second.ID, &model.DocumentUpdate{BibNumber: &bib}); err != nil {
		t.Fatalf("UpdateDocuments() after release error = %v", err)
	}
}

func TestCompleteQueuesSurvey(t *testing.T) {
	f := newFixture(8)

	booking, _ := f.svc.Create(context.Background(), walkInRequest())
	signed, bib := true, "B7"
	if _, err := f.svc.UpdateDocuments(context.Background(), booking.ID, &model.DocumentUpdate{
		WaiverSigned: &signed,
		BibNumber:    &bib,
	}); err != nil {
		t.Fatalf("UpdateDocuments() error = %v", err)
	}
	if _, err := f.svc.Start(context.Background(), booking.ID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	completed, err := f.svc.Complete(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if completed.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	surveys := f.notifier.byKind(model.NotificationSurvey)
	if len(surveys) != 1 {
		t.Fatalf("queued %d survey notifications, want 1", len(surveys))
	}
	if surveys[0].BookingID != booking.ID {
		t.Errorf("survey booking_id = %q, want %q", surveys[0].BookingID, booking.ID)
	}
}

func TestEndToEndSeatLifecycle(t *testing.T) {
	f := newFixture(1)

	extraMotoID := "65f1a2b3c4d5e6f7a8b9c0f4"
	f.fleet.motorcycles[extraMotoID] = &model.Motorcycle{
		ID:       extraMotoID,
		Model:    "Tiger 900",
		Group:    model.Group1,
		Status:   model.MotorcycleAvailable,
		EventIDs: []string{testEventID},
	}

	first, err := f.svc.Create(context.Background(), walkInRequest())
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if f.ledger.booked(testSessionID) != 1 {
		t.Fatalf("booked_slots = %d, want 1", f.ledger.booked(testSessionID))
	}

	second := walkInRequest()
	second.MotorcycleID = extraMotoID
	if _, err := f.svc.Create(context.Background(), second); !apperrors.HasCode(err, apperrors.CodeSlotUnavailable) {
		t.Fatalf("second Create() error = %v, want SlotUnavailable", err)
	}

	if _, err := f.svc.Cancel(context.Background(), first.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if f.ledger.booked(testSessionID) != 0 {
		t.Fatalf("booked_slots = %d after cancel, want 0", f.ledger.booked(testSessionID))
	}

	third := walkInRequest()
	third.MotorcycleID = extraMotoID
	if _, err := f.svc.Create(context.Background(), third); err != nil {
		t.Fatalf("third Create() after release error = %v", err)
	}
	if f.ledger.booked(testSessionID) != 1 {
		t.Errorf("booked_slots = %d, want 1", f.ledger.booked(testSessionID))
	}
}

func TestConcurrentReservationsNeverOverbook(t *testing.T) {
	const seats = 3
	const attempts = 20

	f := newFixture(seats)
	for i := 0; i < attempts; i++ {
		id := primitive.NewObjectID().Hex()
		f.fleet.motorcycles[id] = &model.Motorcycle{
			ID:       id,
			Model:    "Speed Twin 900",
			Group:    model.Group1,
			Status:   model.MotorcycleAvailable,
			EventIDs: []string{testEventID},
		}
	}

	motoIDs := make([]string, 0, attempts)
	f.fleet.mu.Lock()
	for id := range f.fleet.motorcycles {
		if id != testMotorcycleID {
			motoIDs = append(motoIDs, id)
		}
	}
	f.fleet.mu.Unlock()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(motoID string) {
			defer wg.Done()
			req := walkInRequest()
			req.MotorcycleID = motoID
			if _, err := f.svc.Create(context.Background(), req); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(motoIDs[i])
	}
	wg.Wait()

	if succeeded > seats {
		t.Errorf("%d reservations succeeded with %d seats", succeeded, seats)
	}
	if got := f.ledger.booked(testSessionID); got > seats {
		t.Errorf("booked_slots = %d, exceeds available_slots %d", got, seats)
	}
}

func TestGroupStartPartialFailure(t *testing.T) {
	f := newFixture(8)

	ready, _ := f.svc.Create(context.Background(), walkInRequest())
	signed, bib := true, "C1"
	if _, err := f.svc.UpdateDocuments(context.Background(), ready.ID, &model.DocumentUpdate{
		WaiverSigned: &signed,
		BibNumber:    &bib,
	}); err != nil {
		t.Fatalf("UpdateDocuments() error = %v", err)
	}

	undocumentedMotoID := "65f1a2b3c4d5e6f7a8b9c0f4"
	f.fleet.motorcycles[undocumentedMotoID] = &model.Motorcycle{
		ID:       undocumentedMotoID,
		Model:    "Tiger 900",
		Group:    model.Group1,
		Status:   model.MotorcycleAvailable,
		EventIDs: []string{testEventID},
	}
	req := walkInRequest()
	req.MotorcycleID = undocumentedMotoID
	undocumented, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := f.svc.StartGroup(context.Background(), testSessionID)
	if err != nil {
		t.Fatalf("StartGroup() error = %v", err)
	}

	if len(result.Transitioned) != 1 || result.Transitioned[0] != ready.ID {
		t.Errorf("transitioned = %v, want [%s]", result.Transitioned, ready.ID)
	}
	if len(result.Failed) != 1 || result.Failed[0].BookingID != undocumented.ID {
		t.Fatalf("failed = %v, want the undocumented booking", result.Failed)
	}

	started, _ := f.svc.GetByID(context.Background(), ready.ID)
	if started.Status != model.StatusInProgress {
		t.Errorf("documented booking status = %s, want IN_PROGRESS", started.Status)
	}
	blocked, _ := f.svc.GetByID(context.Background(), undocumented.ID)
	if blocked.Status != model.StatusConfirmed {
		t.Errorf("undocumented booking status = %s, want CONFIRMED untouched", blocked.Status)
	}
}
