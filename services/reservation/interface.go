package reservation

import (
	"context"

	"github.com/google/uuid"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/models"
)

// Service exposes the reservation lifecycle. Every method is a stateless
// request/response cycle against the backend; errors are *Error values
// carrying a taxonomy kind.
type Service interface {
	// List returns the caller's reservations, newest start time first,
	// each with a best-effort court summary. Never returns a nil slice
	// on success.
	List(ctx context.Context, token string) ([]models.Reservation, error)

	// Get returns a single reservation visible to the caller.
	Get(ctx context.Context, token string, id uuid.UUID) (*models.Reservation, error)

	// Create books a court for the caller and returns the stored row.
	Create(ctx context.Context, token string, in models.ReservationCreate) (*models.Reservation, error)

	// Cancel marks the reservation cancelled with the given reason and
	// returns the updated row.
	Cancel(ctx context.Context, token string, id uuid.UUID, reason string) (*models.Reservation, error)
}
