package model

import "time"

type ProblemType string

const (
	ProblemCrash      ProblemType = "CRASH"
	ProblemMechanical ProblemType = "MECHANICAL"
	ProblemOther      ProblemType = "OTHER"
)

// BreakdownReport is filed by staff on the tablet when a motorcycle is taken
// out of service. It triggers the breakdown cascade and is otherwise inert.
type BreakdownReport struct {
	ID                  string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	MotorcycleID        string      `json:"motorcycle_id" bson:"motorcycle_id" validate:"required,mongodb"`
	Problem             ProblemType `json:"problem" bson:"problem" validate:"required,oneof=CRASH MECHANICAL OTHER"`
	Description         string      `json:"description" bson:"description" validate:"required,min=2,max=1000"`
	PhotoURL            string      `json:"photo_url,omitempty" bson:"photo_url" validate:"omitempty,url"`
	BlockFutureBookings bool        `json:"block_future_bookings" bson:"block_future_bookings"`

	// NewStatus applies only when Problem is OTHER; CRASH and MECHANICAL map
	// to DAMAGED and MAINTENANCE respectively.
	NewStatus MotorcycleStatus `json:"new_status,omitempty" bson:"new_status" validate:"omitempty,oneof=MAINTENANCE DAMAGED UNAVAILABLE"`

	ReportedBy string    `json:"reported_by,omitempty" bson:"reported_by"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BreakdownResult is what the cascade returns to the tablet: which future
// bookings were cancelled and how many relocation notices were queued.
type BreakdownResult struct {
	ReportID            string           `json:"report_id"`
	MotorcycleStatus    MotorcycleStatus `json:"motorcycle_status"`
	CancelledBookingIDs []string         `json:"cancelled_booking_ids"`
	NotificationsQueued int              `json:"notifications_queued"`
}
