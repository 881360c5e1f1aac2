package domain

import "time"

// Subscriber is a single address registered to the newsletter. The token is
// the subscriber's proof of ownership and is required to unsubscribe.
// Records are immutable once created.
type Subscriber struct {
	ID    int64  `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Token string `json:"token" db:"token"`
}

// Export describes a subscriber snapshot written to the archive.
type Export struct {
	Key       string    `json:"key"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
