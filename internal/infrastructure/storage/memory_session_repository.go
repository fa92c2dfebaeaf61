package storage

import (
	"context"
	"sync"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// MemorySessionRepository хранит сессии в памяти процесса, по одной на чат.
// Наружу отдаются копии: параллельные обработчики не делят один указатель.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт пустое хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает копию сессии чата, при первом обращении создаёт её
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[chatID]
	if !ok {
		session = entity.NewSession(userID, chatID)
		r.sessions[chatID] = session
	}
	return session.Clone(), nil
}

// Save заменяет сохранённую сессию копией переданной
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.ChatID] = session.Clone()
	r.mu.Unlock()
	return nil
}

// UpdateState меняет только состояние; неизвестный чат пропускается
func (r *MemorySessionRepository) UpdateState(ctx context.Context, chatID int64, state entity.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[chatID]; ok {
		session.SetState(state)
	}
	return nil
}

var _ port.SessionRepository = (*MemorySessionRepository)(nil)
