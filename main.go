package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/config"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/handlers"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/metrics"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/routes"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/services/reservation"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/supabase"
	"github.com/CourtMate-RSO/Courtmate-Booking-Service/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.New()
	backend := supabase.NewFactory(cfg)

	reservationService := &reservation.DefaultReservationService{
		Backend: backend,
		Logger:  logger,
		Metrics: collector,
	}
	reservationHandler := handlers.NewReservationHandler(reservationService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, reservationHandler, collector, logger, cfg)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
