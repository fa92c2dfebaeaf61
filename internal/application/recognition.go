package app

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"digit-vision/internal/domain/entity"
)

// Classifier распознаёт цифру на закодированном изображении.
type Classifier interface {
	ClassifyBytes(ctx context.Context, data []byte) (*entity.Prediction, error)
}

// RecognitionService ведёт пользователя по сценарию распознавания в чате.
type RecognitionService struct {
	sessions   *SessionService
	classifier Classifier
	logger     *logrus.Logger
}

// NewRecognitionService создаёт сервис сценария распознавания.
func NewRecognitionService(sessions *SessionService, classifier Classifier, logger *logrus.Logger) *RecognitionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RecognitionService{
		sessions:   sessions,
		classifier: classifier,
		logger:     logger,
	}
}

// ProcessImage распознаёт присланное изображение и запоминает результат.
// При ошибке сессия возвращается в главное меню, старый результат не меняется.
func (s *RecognitionService) ProcessImage(ctx context.Context, userID, chatID int64, image []byte) (*entity.Prediction, error) {
	if s.classifier == nil {
		return nil, errors.New("classifier is not configured")
	}

	if _, err := s.sessions.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	prediction, err := s.classifier.ClassifyBytes(ctx, image)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"error":   err,
		}).Warn("Classification failed")
		if _, serr := s.sessions.Cancel(ctx, userID, chatID); serr != nil {
			return nil, serr
		}
		return nil, err
	}

	if _, err := s.sessions.Remember(ctx, userID, chatID, prediction); err != nil {
		return nil, err
	}
	return prediction, nil
}

// Last возвращает последний результат, nil если его нет.
func (s *RecognitionService) Last(ctx context.Context, userID, chatID int64) (*entity.Prediction, error) {
	session, err := s.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return session.Last, nil
}

// Clear сбрасывает результат распознавания.
func (s *RecognitionService) Clear(ctx context.Context, userID, chatID int64) error {
	_, err := s.sessions.Clear(ctx, userID, chatID)
	return err
}
