package model

import "time"

type NotificationKind string

const (
	// NotificationRelocation asks the rider to rebook after a breakdown
	// cancelled their slot, carrying a suggested alternative motorcycle.
	NotificationRelocation NotificationKind = "RELOCATION"
	// NotificationSurvey dispatches the satisfaction survey after a
	// completed ride.
	NotificationSurvey NotificationKind = "SURVEY"
)

// Notification is the obligation handed to the external notifier. Producing
// it is mandatory from the core's point of view; delivery is the notifier's
// concern.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	BookingID string           `json:"booking_id"`
	EventID   string           `json:"event_id"`
	Rider     Rider            `json:"rider"`

	SessionStart time.Time `json:"session_start"`

	// Suggested replacement for relocation notices. Empty when no motorcycle
	// of the same group is available at the same time.
	AlternativeMotorcycleID string `json:"alternative_motorcycle_id,omitempty"`
	AlternativeModel        string `json:"alternative_model,omitempty"`
}
