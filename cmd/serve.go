package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heistgames/tournament-hub/config"
	"github.com/heistgames/tournament-hub/db"
	"github.com/heistgames/tournament-hub/handlers"
	"github.com/heistgames/tournament-hub/live"
	"github.com/heistgames/tournament-hub/middleware"
	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/routes"
	"github.com/heistgames/tournament-hub/services"
	"github.com/heistgames/tournament-hub/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "create the schema before serving"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return serve(c, cfg, logger)
		},
	}
}

func serve(c *cli.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := connectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	if c.Bool("migrate") {
		if err := db.CreateSchema(ctx, dbConn); err != nil {
			return err
		}
		logger.Info("schema is up to date")
	}

	// Без настроек S3 сервис работает, но загрузка картинок отвечает 500.
	var uploader storage.FileUploader
	if cfg.S3BucketName != "" {
		uploader, err = storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize S3 uploader: %w", err)
		}
		logger.Info("S3 uploader initialized", slog.String("bucket", cfg.S3BucketName))
	} else {
		logger.Warn("S3_BUCKET is not set, image uploads are disabled")
	}

	var mailer services.Mailer = services.LogMailer{Logger: logger}
	if cfg.SMTPHost != "" {
		mailer = services.NewEmailService(cfg)
	} else {
		logger.Warn("SMTP_HOST is not set, password reset links will only be logged")
	}

	hub := live.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	tx := repositories.NewTransactor(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	sponsorRepo := repositories.NewPostgresSponsorRepository(dbConn)
	inquiryRepo := repositories.NewPostgresInquiryRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, mailer, cfg.AuthSecret, cfg.PublicURL, logger)
	registrationService := services.NewRegistrationService(tx, tournamentRepo, teamRepo, registrationRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, userRepo, leaderboardRepo, sponsorRepo, uploader, logger)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, tournamentRepo, hub, logger)
	sponsorService := services.NewSponsorService(sponsorRepo, inquiryRepo, uploader, logger)
	profileService := services.NewProfileService(userRepo, registrationRepo, uploader, logger)
	dashboardService := services.NewDashboardService(userRepo, tournamentRepo, teamRepo, registrationRepo, leaderboardRepo, sponsorRepo, inquiryRepo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, "tournament_hub"),
	)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Leaderboard:  handlers.NewLeaderboardHandler(leaderboardService),
		Sponsor:      handlers.NewSponsorHandler(sponsorService),
		Profile:      handlers.NewProfileHandler(profileService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		WebSocket:    handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins),
	}, routes.Options{
		AuthSecret:         cfg.AuthSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ResetLimiter:       middleware.PerMinute(cfg.ResetRatePerMinute),
		Registry:           registry,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
