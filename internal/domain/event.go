// internal/domain/event.go
package domain

import "time"

// Event is a community event (fair, swap meet, auction viewing).
type Event struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Location  string    `db:"location" json:"location"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	Capacity  int       `db:"capacity" json:"capacity"` // 0 means unlimited
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RSVPStatus is a user's attendance answer for an event.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

// Valid reports whether s is one of the defined RSVP statuses.
func (s RSVPStatus) Valid() bool {
	return s == RSVPGoing || s == RSVPMaybe || s == RSVPDeclined
}

// RSVP is a user's attendance record, unique per (user, event).
// Re-submitting updates the status rather than duplicating.
type RSVP struct {
	ID        int64      `db:"id" json:"id"`
	EventID   int64      `db:"event_id" json:"event_id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Status    RSVPStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
