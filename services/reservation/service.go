package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/metrics"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/models"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/supabase"
)

const (
	reservationsTable = "reservations"
	courtsTable       = "courts"
)

// DefaultReservationService proxies the reservation lifecycle to the
// Supabase backend. Row-level security on the backend decides what each
// caller may see or touch; this layer never filters by user itself.
type DefaultReservationService struct {
	Backend *supabase.Factory
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

var _ Service = (*DefaultReservationService)(nil)

// insertRecord is the row written on create. The user id comes from the
// identity endpoint, never from the payload.
type insertRecord struct {
	CourtID  uuid.UUID `json:"court_id"`
	UserID   uuid.UUID `json:"user_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// cancelPatch is the partial update applied on cancellation.
type cancelPatch struct {
	CancelledAt  time.Time `json:"cancelled_at"`
	CancelReason string    `json:"cancel_reason"`
}

func (s *DefaultReservationService) List(ctx context.Context, token string) ([]models.Reservation, error) {
	scoped := s.Backend.Scoped(token)

	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "starts_at.desc")

	result, err := scoped.Select(ctx, reservationsTable, query)
	if err != nil {
		return nil, s.backendError("list reservations", err)
	}

	privileged := s.Backend.Privileged()
	out := make([]models.Reservation, 0, len(result.Rows))
	for _, raw := range result.Rows {
		var r models.Reservation
		if err := json.Unmarshal(raw, &r); err != nil {
			s.Logger.Warn("skipping reservation row that failed to parse", zap.Error(err))
			s.Metrics.RowsSkipped.Inc()
			continue
		}
		r.Court = s.lookupCourt(ctx, privileged, r.CourtID)
		out = append(out, r)
	}

	return out, nil
}

func (s *DefaultReservationService) Get(ctx context.Context, token string, id uuid.UUID) (*models.Reservation, error) {
	scoped := s.Backend.Scoped(token)

	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id.String())
	query.Set("limit", "1")

	result, err := scoped.Select(ctx, reservationsTable, query)
	if err != nil {
		return nil, s.backendError("get reservation", err)
	}
	if len(result.Rows) == 0 {
		return nil, &Error{Kind: KindNotFound, Message: "reservation not found"}
	}

	var r models.Reservation
	if err := json.Unmarshal(result.Rows[0], &r); err != nil {
		return nil, &Error{Kind: KindServer, Message: "backend returned an unreadable reservation", Err: err}
	}
	return &r, nil
}

func (s *DefaultReservationService) Create(ctx context.Context, token string, in models.ReservationCreate) (*models.Reservation, error) {
	// The insert must carry the caller's resolved identity; without it
	// the operation does not proceed.
	userID, err := s.Backend.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, &Error{Kind: KindAuthentication, Message: "could not resolve caller identity", Err: err}
	}

	record := insertRecord{
		CourtID:  in.CourtID,
		UserID:   userID,
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
	}

	result, err := s.Backend.Scoped(token).Insert(ctx, reservationsTable, record)
	if err != nil {
		return nil, s.backendError("create reservation", err)
	}
	if result.Row == nil {
		// The backend always returns the created row; absence means
		// something upstream broke its contract.
		return nil, &Error{Kind: KindServer, Message: "no reservation returned from insert"}
	}

	var r models.Reservation
	if err := json.Unmarshal(result.Row, &r); err != nil {
		return nil, &Error{Kind: KindServer, Message: "backend returned an unreadable reservation", Err: err}
	}

	s.Logger.Info("reservation created",
		zap.String("reservation_id", r.ID.String()),
		zap.String("court_id", r.CourtID.String()),
	)
	return &r, nil
}

func (s *DefaultReservationService) Cancel(ctx context.Context, token string, id uuid.UUID, reason string) (*models.Reservation, error) {
	query := url.Values{}
	query.Set("id", "eq."+id.String())

	patch := cancelPatch{
		CancelledAt:  time.Now().UTC(),
		CancelReason: reason,
	}

	result, err := s.Backend.Scoped(token).Update(ctx, reservationsTable, query, patch)
	if err != nil {
		return nil, s.backendError("cancel reservation", err)
	}
	// Rows the caller does not own are invisible under row-level
	// security, so an unauthorized cancel lands here too.
	if len(result.Rows) == 0 {
		return nil, &Error{Kind: KindNotFound, Message: "reservation not found"}
	}

	var r models.Reservation
	if err := json.Unmarshal(result.Rows[0], &r); err != nil {
		return nil, &Error{Kind: KindServer, Message: "backend returned an unreadable reservation", Err: err}
	}

	s.Logger.Info("reservation cancelled", zap.String("reservation_id", r.ID.String()))
	return &r, nil
}

// lookupCourt fetches the court summary for display. Failures are logged
// and counted, never propagated: enrichment must not break a list response.
func (s *DefaultReservationService) lookupCourt(ctx context.Context, privileged *supabase.Client, courtID uuid.UUID) *models.CourtSummary {
	query := url.Values{}
	query.Set("select", "id,name,sport,facility_id")
	query.Set("id", "eq."+courtID.String())
	query.Set("limit", "1")

	result, err := privileged.Select(ctx, courtsTable, query)
	if err != nil || len(result.Rows) == 0 {
		s.Logger.Warn("court enrichment lookup failed",
			zap.String("court_id", courtID.String()),
			zap.Error(err),
		)
		s.Metrics.EnrichmentFailures.Inc()
		return nil
	}

	var court models.CourtSummary
	if err := json.Unmarshal(result.Rows[0], &court); err != nil {
		s.Logger.Warn("court enrichment row failed to parse",
			zap.String("court_id", courtID.String()),
			zap.Error(err),
		)
		s.Metrics.EnrichmentFailures.Inc()
		return nil
	}
	return &court
}

// backendError maps client failures onto the service taxonomy. PostgREST
// errors carry messages safe to show the caller; transport failures do not.
func (s *DefaultReservationService) backendError(op string, err error) error {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindBackendRejection, Message: apiErr.Message, Err: err}
	}
	var transportErr *supabase.TransportError
	if errors.As(err, &transportErr) {
		return &Error{Kind: KindUpstreamUnavailable, Message: "reservation backend unavailable", Err: err}
	}
	s.Logger.Error("unexpected backend failure", zap.String("op", op), zap.Error(err))
	return &Error{Kind: KindServer, Message: "internal server error", Err: err}
}
