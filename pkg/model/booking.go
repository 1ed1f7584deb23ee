package model

import "time"

type BookingStatus string

const (
	StatusReserved   BookingStatus = "RESERVED"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusReady      BookingStatus = "READY"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
	StatusNoShow     BookingStatus = "NO_SHOW"
)

// Terminal reports whether the status is final. Terminal bookings are never
// mutated again and their seat has already been accounted for.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CheckedIn covers the "present, not yet riding" statuses that the tablet
// treats as equivalent.
func (s BookingStatus) CheckedIn() bool {
	return s == StatusConfirmed || s == StatusReady
}

type BookingSource string

const (
	SourceWeb    BookingSource = "WEB"
	SourceTablet BookingSource = "TABLET"
)

// Rider is the captured identity of the person taking the ride. For web
// bookings the ID is the stable identifier resolved by the identity provider;
// walk-ins get a generated one.
type Rider struct {
	ID    string `json:"id" bson:"id" validate:"required"`
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
}

// Booking holds exactly one seat in exactly one session. Bookings are never
// physically deleted; they end in a terminal status.
type Booking struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EventID      string        `json:"event_id" bson:"event_id" validate:"required,mongodb"`
	SessionID    string        `json:"session_id" bson:"session_id" validate:"required,mongodb"`
	MotorcycleID string        `json:"motorcycle_id" bson:"motorcycle_id" validate:"required,mongodb"`
	Rider        Rider         `json:"rider" bson:"rider" validate:"required"`
	Status       BookingStatus `json:"status" bson:"status" validate:"required,oneof=RESERVED CONFIRMED READY IN_PROGRESS COMPLETED CANCELLED NO_SHOW"`
	Source       BookingSource `json:"source" bson:"source" validate:"required,oneof=WEB TABLET"`

	WaiverSigned    bool   `json:"waiver_signed" bson:"waiver_signed"`
	BibNumber       string `json:"bib_number,omitempty" bson:"bib_number"`
	LicensePhotoURL string `json:"license_photo_url,omitempty" bson:"license_photo_url"`

	SessionStart time.Time  `json:"session_start" bson:"session_start"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingCreateRequest is the explicit request payload for booking creation,
// validated at the boundary before it reaches the state machine.
type BookingCreateRequest struct {
	EventID      string        `json:"event_id" validate:"required,mongodb"`
	SessionID    string        `json:"session_id" validate:"required,mongodb"`
	MotorcycleID string        `json:"motorcycle_id" validate:"required,mongodb"`
	RiderID      string        `json:"rider_id,omitempty" validate:"omitempty"`
	RiderName    string        `json:"rider_name" validate:"required,min=2,max=100"`
	RiderEmail   string        `json:"rider_email" validate:"required,email"`
	RiderPhone   string        `json:"rider_phone,omitempty" validate:"omitempty"`
	Source       BookingSource `json:"source" validate:"required,oneof=WEB TABLET"`
}

// DocumentUpdate mutates the on-site document flags without touching status.
// Nil fields are left unchanged.
type DocumentUpdate struct {
	WaiverSigned    *bool   `json:"waiver_signed,omitempty"`
	BibNumber       *string `json:"bib_number,omitempty" validate:"omitempty,min=1,max=10"`
	LicensePhotoURL *string `json:"license_photo_url,omitempty" validate:"omitempty,url"`
}

// BatchFailure records one booking that could not transition during a
// group-column operation. Failures never abort the rest of the batch.
type BatchFailure struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

type BatchResult struct {
	Transitioned []string       `json:"transitioned"`
	Failed       []BatchFailure `json:"failed"`
}
