package main

import (
	"context"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"digit-vision/config"
	app "digit-vision/internal/application"
	"digit-vision/internal/container"
	"digit-vision/internal/gui"
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

	resampler, err := vision.NewResampler(cfg.Resampler)
	if err != nil {
		logger.Fatalf("Failed to create resampler: %v", err)
	}

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
	appContainer := container.New(storage.NewMemorySessionRepository(), loader, resampler, names, logger)

	// Ошибку загрузки покажет окно при первой попытке распознать
	go func() {
		if err := appContainer.ClassificationService.Warmup(context.Background()); err != nil {
			logger.WithError(err).Error("Model warmup failed")
		}
	}()

	surface := gui.NewSurface(cfg.CanvasSize, cfg.PenWidth)
	ctrl := gui.NewController(surface, appContainer.ClassificationService, logger)

	a := fyneapp.NewWithID("digit-vision.draw")
	w := gui.NewWindow(a, ctrl, logger)
	w.ShowAndRun()
}
