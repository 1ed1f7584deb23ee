package model

import "time"

type MotorcycleStatus string

const (
	MotorcycleAvailable   MotorcycleStatus = "AVAILABLE"
	MotorcycleMaintenance MotorcycleStatus = "MAINTENANCE"
	MotorcycleDamaged     MotorcycleStatus = "DAMAGED"
	MotorcycleUnavailable MotorcycleStatus = "UNAVAILABLE"
)

// Motorcycle belongs to exactly one riding group and may be assigned to any
// number of events. Only AVAILABLE motorcycles accept new bookings.
type Motorcycle struct {
	ID        string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Model     string           `json:"model" bson:"model" validate:"required,min=2,max=100"`
	Group     Group            `json:"group" bson:"group" validate:"required,oneof=GROUP_1 GROUP_2"`
	Status    MotorcycleStatus `json:"status" bson:"status" validate:"required,oneof=AVAILABLE MAINTENANCE DAMAGED UNAVAILABLE"`
	EventIDs  []string         `json:"event_ids,omitempty" bson:"event_ids" validate:"omitempty,dive,mongodb"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (m *Motorcycle) Bookable() bool {
	return m.Status == MotorcycleAvailable
}

func (m *Motorcycle) AssignedTo(eventID string) bool {
	for _, id := range m.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

type MotorcycleUpdate struct {
	Model  string           `json:"model,omitempty" validate:"omitempty,min=2,max=100"`
	Group  Group            `json:"group,omitempty" validate:"omitempty,oneof=GROUP_1 GROUP_2"`
	Status MotorcycleStatus `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE MAINTENANCE DAMAGED UNAVAILABLE"`
}
