package model

import "time"

// SessionLock is an advisory lock serializing booking creation per session.
// A TTL index on expires_at reaps locks abandoned by crashed requests.
type SessionLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
