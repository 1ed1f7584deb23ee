package model

import "time"

// Group is one of the two partitions of the motorcycle fleet ridden in
// parallel. The two groups of a time slot are independent capacity pools.
type Group string

const (
	Group1 Group = "GROUP_1"
	Group2 Group = "GROUP_2"
)

var Groups = []Group{Group1, Group2}

// Session is a bookable (time, group) pair within an event. The invariant
// 0 <= booked_slots <= available_slots holds at all times; booked_slots is
// mutated only through the capacity ledger's atomic operations.
type Session struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EventID        string    `json:"event_id" bson:"event_id" validate:"required,mongodb"`
	StartTime      time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Group          Group     `json:"group" bson:"group" validate:"required,oneof=GROUP_1 GROUP_2"`
	AvailableSlots int       `json:"available_slots" bson:"available_slots" validate:"required,min=1,max=200"`
	BookedSlots    int       `json:"booked_slots" bson:"booked_slots" validate:"min=0"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SlotView is the read-side projection merging the two group sessions that
// share a start time into one display row. The underlying sessions stay
// independent ledger entries.
type SlotView struct {
	StartTime      time.Time `json:"start_time" bson:"_id"`
	EndTime        time.Time `json:"end_time" bson:"end_time"`
	AvailableSlots int       `json:"available_slots" bson:"available_slots"`
	BookedSlots    int       `json:"booked_slots" bson:"booked_slots"`
	SessionIDs     []string  `json:"session_ids" bson:"session_ids"`
}

type CapacityAdjustment struct {
	AvailableSlots int `json:"available_slots" validate:"required,min=1,max=200"`
}
