package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationCreate is the payload accepted when booking a court. Timestamps
// must be timezone-aware RFC 3339 instants; ordering of the two is left to
// the backend.
type ReservationCreate struct {
	CourtID  uuid.UUID `json:"court_id" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

// Reservation is a single court reservation as stored by the backend. The
// backend assigns ID, UserID, TotalPrice and CreatedAt; this service never
// writes those fields itself.
type Reservation struct {
	ID           uuid.UUID  `json:"id"`
	CourtID      uuid.UUID  `json:"court_id"`
	UserID       uuid.UUID  `json:"user_id"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	TotalPrice   float64    `json:"total_price"`
	CreatedAt    time.Time  `json:"created_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `json:"cancel_reason,omitempty"`

	// Court is a denormalized summary attached only for display in list
	// responses; it is not part of the canonical record.
	Court *CourtSummary `json:"court,omitempty"`
}

// Active reports whether the reservation has not been cancelled. This is
// derived from CancelledAt, never stored separately.
func (r Reservation) Active() bool {
	return r.CancelledAt == nil
}
