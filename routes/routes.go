package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/config"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/handlers"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/metrics"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/middleware"
)

// ReservationPrefix is the fixed path prefix all endpoints live under; the
// service runs behind a gateway that routes on it.
const ReservationPrefix = "/reservation"

// RegisterRoutes wires middleware and all reservation endpoints onto r.
func RegisterRoutes(r *gin.Engine, h *handlers.ReservationHandler, mc *metrics.Collector, logger *zap.Logger, cfg config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(logger, cfg.MaxRequestsPerMin))

	api := r.Group(ReservationPrefix)
	{
		api.GET("/health", handlers.HealthHandler)
		api.GET("/metrics", gin.WrapH(mc.Handler()))

		// Everything touching reservation rows needs the caller's
		// bearer token, including the list: the scoped backend client
		// cannot exist without one.
		protected := api.Group("")
		protected.Use(middleware.BearerAuthMiddleware())
		protected.GET("/", h.ListReservationsHandler)
		protected.POST("/", h.CreateReservationHandler)
		protected.GET("/:id", h.GetReservationHandler)
		protected.PUT("/:id", h.CancelReservationHandler)
	}
}
