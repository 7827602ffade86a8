package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/materes/reservations/internal/http/handlers"
	httpmw "github.com/materes/reservations/internal/http/middleware"
	"github.com/materes/reservations/internal/notifier"
	"github.com/materes/reservations/internal/platform/mailer"
	"github.com/materes/reservations/internal/repo/postgres"
	"github.com/materes/reservations/internal/service"
	"github.com/materes/reservations/pkg/config"
	"github.com/materes/reservations/pkg/database"
	"github.com/materes/reservations/pkg/events"
	"github.com/materes/reservations/pkg/logger"
	mw "github.com/materes/reservations/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus is optional; reservation processing never depends on it.
	var eventBus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.Enabled {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		eventBus = bus
	}

	reservationRepo := postgres.NewReservationRepo(pool)
	emailNotifier := notifier.NewEmailNotifier(selectMailer(cfg), cfg.Email.StaffInbox, cfg.Email.AdminURL)
	reservationService := service.NewReservationService(reservationRepo, emailNotifier, eventBus, cfg)

	h := handlers.New(reservationService, cfg)

	submitLimiter := httpmw.NewRateLimiter(pool, httpmw.RateLimitConfig{
		Requests: cfg.Reservations.RateLimitRequests,
		Window:   cfg.Reservations.RateLimitWindow,
		KeyFunc:  httpmw.SubmitRateLimitKeyFunc,
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("reservations"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public submission
	r.With(submitLimiter.Middleware()).Post("/reservations", h.SubmitReservation)

	// Staff moderation
	r.Post("/admin/login", h.StaffLogin)
	r.Route("/admin/reservations", func(r chi.Router) {
		r.Use(h.RequireStaff)
		r.Get("/", h.ListReservations)
		r.Post("/{id}/confirm", h.ConfirmReservation)
		r.Post("/{id}/deny", h.DenyReservation)
		r.Delete("/{id}", h.DeleteReservation)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down reservations service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Reservations service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting reservations service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Reservations service error", "error", err)
		os.Exit(1)
	}
}

func selectMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("Email dev mode: printing mail to logs")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS,
		)
	}
}
