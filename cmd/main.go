package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubops/club-system/config"
	"github.com/clubops/club-system/db"
	"github.com/clubops/club-system/handlers"
	"github.com/clubops/club-system/live"
	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/repositories"
	api "github.com/clubops/club-system/routes"
	"github.com/clubops/club-system/services"
	"github.com/clubops/club-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	txRunner := repositories.NewTxRunner(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	goalRepo := repositories.NewPostgresGoalRepository(dbConn)
	cardRepo := repositories.NewPostgresCardRepository(dbConn)
	injuryRepo := repositories.NewPostgresInjuryRepository(dbConn)
	indexRepo := repositories.NewPostgresEventIndexRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)
	staffRepo := repositories.NewPostgresStaffRepository(dbConn)
	donationRepo := repositories.NewPostgresDonationRepository(dbConn)
	trainingRepo := repositories.NewPostgresTrainingRepository(dbConn)
	auditLogRepo := repositories.NewPostgresAuditLogRepository(dbConn)
	archiveRepo := repositories.NewPostgresArchiveRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	auditService := services.NewAuditService(auditLogRepo, logger)
	authService := services.NewAuthService(userRepo, auditService)
	userService := services.NewUserService(txRunner, userRepo, archiveRepo, auditService)
	teamService := services.NewTeamService(txRunner, teamRepo, playerRepo, archiveRepo, cloudflareUploader, auditService)
	playerService := services.NewPlayerService(txRunner, playerRepo, teamRepo, archiveRepo, cloudflareUploader, auditService)
	matchService := services.NewMatchService(txRunner, matchRepo, teamRepo, goalRepo, cardRepo, injuryRepo, indexRepo, cloudflareUploader, auditService)
	eventService := services.NewEventService(
		txRunner,
		matchRepo,
		playerRepo,
		goalRepo,
		cardRepo,
		injuryRepo,
		indexRepo,
		auditService,
		hub,
		logger,
	)
	newsService := services.NewNewsService(txRunner, newsRepo, userRepo, archiveRepo, cloudflareUploader, auditService)
	staffService := services.NewStaffService(txRunner, staffRepo, archiveRepo, cloudflareUploader, auditService)
	donationService := services.NewDonationService(donationRepo, auditService)
	trainingService := services.NewTrainingService(trainingRepo, userRepo)
	metricsService := services.NewMetricsService(matchRepo, goalRepo, cardRepo, injuryRepo, playerRepo, donationRepo)
	archiveService := services.NewArchiveService(archiveRepo)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	handlers.Development = cfg.IsDevelopment()
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, userRepo)

	routeHandlers := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:      handlers.NewUserHandler(userService),
		Team:      handlers.NewTeamHandler(teamService, playerService),
		Player:    handlers.NewPlayerHandler(playerService, eventService),
		Match:     handlers.NewMatchHandler(matchService, metricsService),
		Goal:      handlers.NewGoalHandler(eventService),
		Card:      handlers.NewCardHandler(eventService),
		Injury:    handlers.NewInjuryHandler(eventService),
		News:      handlers.NewNewsHandler(newsService),
		Staff:     handlers.NewStaffHandler(staffService),
		Donation:  handlers.NewDonationHandler(donationService),
		Training:  handlers.NewTrainingHandler(trainingService),
		Log:       handlers.NewLogHandler(auditService),
		Archive:   handlers.NewArchiveHandler(archiveService),
		WebSocket: handlers.NewWebSocketHandler(hub, matchService, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, authenticator, routeHandlers, cfg.CORSOrigin)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
