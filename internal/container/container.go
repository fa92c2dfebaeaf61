package container

import (
	"github.com/sirupsen/logrus"

	app "digit-vision/internal/application"
	"digit-vision/internal/domain/port"
	"digit-vision/internal/infrastructure/vision"
)

type Container struct {
	ClassificationService *app.ClassificationService
	SessionService        *app.SessionService
	RecognitionService    *app.RecognitionService
}

func New(sessionRepo port.SessionRepository, loader port.ModelLoader, resampler port.Resampler, names app.TensorNames, logger *logrus.Logger) *Container {
	preprocessor := vision.NewPreprocessor(resampler, logger)
	classificationService := app.NewClassificationService(loader, preprocessor, names, logger)
	sessionService := app.NewSessionService(sessionRepo)
	recognitionService := app.NewRecognitionService(sessionService, classificationService, logger)

	return &Container{
		ClassificationService: classificationService,
		SessionService:        sessionService,
		RecognitionService:    recognitionService,
	}
}
