package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/middleware"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/models"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/services/reservation"
)

// ReservationHandler translates HTTP requests into reservation service
// calls and service errors into status codes.
type ReservationHandler struct {
	Svc    reservation.Service
	Logger *zap.Logger
}

func NewReservationHandler(svc reservation.Service, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Logger: logger}
}

// ListReservationsHandler returns the caller's reservations, newest start
// time first, with court summaries attached where the lookup succeeded.
func (h *ReservationHandler) ListReservationsHandler(c *gin.Context) {
	token := middleware.BearerToken(c)

	reservations, err := h.Svc.List(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// CreateReservationHandler books a court on behalf of the caller.
func (h *ReservationHandler) CreateReservationHandler(c *gin.Context) {
	token := middleware.BearerToken(c)

	var input models.ReservationCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation payload", "details": err.Error()})
		return
	}

	created, err := h.Svc.Create(c.Request.Context(), token, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetReservationHandler returns a single reservation visible to the caller.
func (h *ReservationHandler) GetReservationHandler(c *gin.Context) {
	token := middleware.BearerToken(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	res, err := h.Svc.Get(c.Request.Context(), token, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// CancelReservationHandler marks a reservation cancelled. The reason is a
// required query parameter; ownership is enforced by the backend, where a
// non-owned row simply does not match the update.
func (h *ReservationHandler) CancelReservationHandler(c *gin.Context) {
	token := middleware.BearerToken(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reason := strings.TrimSpace(c.Query("reason"))
	if reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
		return
	}

	cancelled, err := h.Svc.Cancel(c.Request.Context(), token, id, reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cancelled)
}

// respondError maps a service error kind onto an HTTP status. Server-side
// failures are logged here with the full cause; the caller only sees the
// taxonomy message.
func (h *ReservationHandler) respondError(c *gin.Context, err error) {
	kind := reservation.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("reservation request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": reservation.MessageOf(err)})
}

func statusForKind(kind reservation.Kind) int {
	switch kind {
	case reservation.KindValidation, reservation.KindBackendRejection:
		return http.StatusBadRequest
	case reservation.KindAuthentication:
		return http.StatusUnauthorized
	case reservation.KindNotFound:
		return http.StatusNotFound
	case reservation.KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
