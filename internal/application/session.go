package app

import (
	"context"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// SessionService ведёт состояние чата и последний результат распознавания
type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState переключает состояние; результат не трогается, поэтому
// пишется только состояние, а не вся сессия
func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateState(ctx, chatID, state); err != nil {
		return nil, err
	}

	session.SetState(state)
	return session, nil
}

func (s *SessionService) BeginClassify(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingDigit)
}

func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// Clear сбрасывает сохранённый результат
func (s *SessionService) Clear(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, (*entity.Session).Clear)
}

// Remember сохраняет результат и возвращает сессию в главное меню
func (s *SessionService) Remember(ctx context.Context, userID, chatID int64, p *entity.Prediction) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, func(session *entity.Session) {
		session.Remember(p)
		session.SetState(entity.StateMainMenu)
	})
}

// update читает сессию, применяет fn и сохраняет целиком
func (s *SessionService) update(ctx context.Context, userID, chatID int64, fn func(*entity.Session)) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	fn(session)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
