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

	"github.com/fbscore/fbscore/cache"
	"github.com/fbscore/fbscore/config"
	"github.com/fbscore/fbscore/db"
	"github.com/fbscore/fbscore/handlers"
	"github.com/fbscore/fbscore/live"
	"github.com/fbscore/fbscore/middleware"
	"github.com/fbscore/fbscore/repositories"
	api "github.com/fbscore/fbscore/routes"
	"github.com/fbscore/fbscore/services"
	"github.com/fbscore/fbscore/storage"
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

	// Применение миграций
	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Подключение к Redis (хранилище одноразовых кодов)
	otpStore, err := cache.NewOTPStore(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := otpStore.Close(); err != nil {
			logger.Error("failed to close redis connection", slog.Any("error", err))
		}
	}()
	logger.Info("redis connection established")

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
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	teamReqRepo := repositories.NewPostgresTeamRequestRepository(dbConn)
	officialRepo := repositories.NewPostgresOfficialRepository(dbConn)
	offReqRepo := repositories.NewPostgresOfficialRequestRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	playerReqRepo := repositories.NewPostgresPlayerRequestRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)
	postRepo := repositories.NewPostgresPostRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	emailService := services.NewEmailService(cfg)
	otpService := services.NewOTPService(otpStore, emailService)
	userService := services.NewUserService(userRepo, playerRepo, teamRepo, statsRepo, matchRepo, otpService, cloudflareUploader)
	teamService := services.NewTeamService(teamRepo, teamReqRepo, userRepo, playerRepo, matchRepo, otpService, cloudflareUploader)
	officialService := services.NewOfficialService(officialRepo, offReqRepo, otpService)
	rosterService := services.NewRosterService(
		dbConn, // Pass dbConn for transaction management
		playerRepo,
		playerReqRepo,
		teamRepo,
		userRepo,
		statsRepo,
		emailService,
		cloudflareUploader,
		logger,
	)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		teamRepo,
		playerRepo,
		userRepo,
		statsRepo,
		wsHub,
		cloudflareUploader,
	)
	postService := services.NewPostService(postRepo, userRepo, cloudflareUploader, logger)
	adminService := services.NewAdminService(
		dbConn,
		adminRepo,
		userRepo,
		teamRepo,
		officialRepo,
		teamReqRepo,
		offReqRepo,
		playerRepo,
		playerReqRepo,
		matchRepo,
		statsRepo,
		postRepo,
		emailService,
		cloudflareUploader,
		logger,
	)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(userService, cloudflareUploader, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService, rosterService, cloudflareUploader, cfg.JWTSecretKey)
	officialHandler := handlers.NewOfficialHandler(officialService, matchService, cfg.JWTSecretKey)
	playerHandler := handlers.NewPlayerHandler(rosterService)
	matchHandler := handlers.NewMatchHandler(matchService)
	postHandler := handlers.NewPostHandler(postService, cloudflareUploader)
	adminHandler := handlers.NewAdminHandler(adminService, teamService, cfg.JWTSecretKey)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		middleware.NewAuthenticator(cfg.JWTSecretKey),
		authHandler,
		teamHandler,
		officialHandler,
		playerHandler,
		matchHandler,
		postHandler,
		adminHandler,
		webSocketHandler,
	)
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
