package model

import "time"

// Event is a multi-day demo-ride tour stop. Its date range is immutable once
// sessions have been generated; regeneration is a separate explicit operation.
type Event struct {
	ID                 string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name               string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartDate          time.Time  `json:"start_date" bson:"start_date" validate:"required"`
	EndDate            time.Time  `json:"end_date" bson:"end_date" validate:"required"`
	Address            string     `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Latitude           *float64   `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty" bson:"longitude,omitempty"`
	MaxSlotsPerSession int        `json:"max_slots_per_session" bson:"max_slots_per_session" validate:"required,min=1,max=200"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type EventUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address string `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
}
