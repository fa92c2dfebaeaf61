package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"digit-vision/config"
	telegram "digit-vision/internal/api"
	app "digit-vision/internal/application"
	"digit-vision/internal/container"
	"digit-vision/internal/domain/port"
	"digit-vision/internal/infrastructure/inference"
	"digit-vision/internal/infrastructure/storage"
	"digit-vision/internal/infrastructure/vision"
	"digit-vision/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("Failed to init logger: %v", err)
	}

	if cfg.TelegramToken == "" {
		logger.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хранилище сессий: Postgres, если задан DATABASE_URL, иначе память
	var sessionRepo port.SessionRepository
	if cfg.DatabaseURL != "" {
		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := storage.NewPostgresSessionRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		sessionRepo = repo
	} else {
		sessionRepo = storage.NewMemorySessionRepository()
	}

	resampler, err := vision.NewResampler(cfg.Resampler)
	if err != nil {
		logger.Fatalf("Failed to create resampler: %v", err)
	}

	// Собираем сервисы приложения
	loader, err := inference.NewLoader(inference.Options{
		Engine:      cfg.InferenceEngine,
		ModelPath:   cfg.ModelPath,
		InputName:   cfg.ModelInputName,
		OutputName:  cfg.ModelOutputName,
		LibraryPath: cfg.RuntimeLibPath,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create model loader: %v", err)
	}
	defer inference.ShutdownRuntime()
	names := app.TensorNames{Input: cfg.ModelInputName, Output: cfg.ModelOutputName}
	appContainer := container.New(sessionRepo, loader, resampler, names, logger)

	// Модель грузим сразу, чтобы первый пользователь не ждал
	if err := appContainer.ClassificationService.Warmup(ctx); err != nil {
		logger.WithError(err).Error("Model warmup failed")
	}

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.SessionService, appContainer.RecognitionService, logger)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	logger.Info("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		logger.Fatalf("Bot error: %v", err)
	}
	logger.Info("Bot stopped")
}
