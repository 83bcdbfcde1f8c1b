package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/trackroom/trackroom-api/internal/config"
	"github.com/trackroom/trackroom-api/internal/domain/booking"
	"github.com/trackroom/trackroom-api/internal/domain/notification"
	"github.com/trackroom/trackroom-api/internal/domain/studio"
	"github.com/trackroom/trackroom-api/internal/middleware"
	"github.com/trackroom/trackroom-api/internal/pkg/database"
	"github.com/trackroom/trackroom-api/internal/pkg/jwt"
	"github.com/trackroom/trackroom-api/internal/pkg/logger"
	pkgresponse "github.com/trackroom/trackroom-api/internal/pkg/response"
	"github.com/trackroom/trackroom-api/internal/pkg/validator"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})
	validator.SetSessionHours(cfg.BookingSessionHours)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting TrackRoom API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	studioRepo := studio.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	sheetCache := studio.NewSheetCache(redis, cfg.AvailabilityCacheTTL)

	bookingService := booking.NewService(bookingRepo, &bookingStudioAdapter{repo: studioRepo}, booking.Config{
		ServiceFeeRate: cfg.ServiceFeeRate,
		OpenHour:       cfg.BookingOpenHour,
		CloseHour:      cfg.BookingCloseHour,
		SessionHours:   cfg.BookingSessionHours,
	})
	bookingService.SetNotifier(notification.NewPublisher(hub))
	if sheetCache != nil {
		bookingService.SetAvailabilityInvalidator(sheetCache)
	}

	studioService := studio.NewService(studioRepo, bookingRepo, studio.Config{
		OpenHour:     cfg.BookingOpenHour,
		CloseHour:    cfg.BookingCloseHour,
		SessionHours: cfg.BookingSessionHours,
	}, sheetCache)

	// ---------- Handlers ----------
	bookingHandler := booking.NewHandler(bookingService)
	studioHandler := studio.NewHandler(studioService, bookingService)
	wsHandler := notification.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint stays outside Compress; the token may arrive as a
	// query parameter because browsers cannot set headers on WS upgrades.
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(wsHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/studios", studioHandler.Routes())
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))

		r.Route("/studios/{id}/bookings", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireStudioOwner())
			r.Get("/", bookingHandler.ListForStudio)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// bookingStudioAdapter adapts studio.Repository to booking.StudioProvider
type bookingStudioAdapter struct {
	repo studio.Repository
}

func (a *bookingStudioAdapter) GetStudioInfo(ctx context.Context, id uuid.UUID) (*booking.StudioInfo, error) {
	s, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return &booking.StudioInfo{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		HourlyRate: s.HourlyRate,
		IsActive:   s.IsActive,
	}, nil
}
