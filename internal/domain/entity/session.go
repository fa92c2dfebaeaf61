package entity

import "time"

// SessionState состояние диалога с пользователем
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingDigit SessionState = "awaiting_digit" // Ожидание изображения цифры
	StateProcessing    SessionState = "processing"     // Распознавание изображения
)

// Session представляет сессию распознавания в одном чате
type Session struct {
	UserID    int64        // Telegram User ID
	ChatID    int64        // Telegram Chat ID
	State     SessionState // Текущее состояние
	Last      *Prediction  // Последний результат, nil если сброшен
	UpdatedAt time.Time
}

// NewSession создаёт сессию с начальным состоянием
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		State:     StateMainMenu,
		UpdatedAt: time.Now(),
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
	s.UpdatedAt = time.Now()
}

// Remember сохраняет последний результат распознавания
func (s *Session) Remember(p *Prediction) {
	s.Last = p
	s.UpdatedAt = time.Now()
}

// Clear сбрасывает сохранённый результат и возвращает в главное меню
func (s *Session) Clear() {
	s.Last = nil
	s.SetState(StateMainMenu)
}

// Clone возвращает независимую копию сессии вместе с результатом.
func (s *Session) Clone() *Session {
	c := *s
	if s.Last != nil {
		last := *s.Last
		last.Scores = append(ScoreVector(nil), s.Last.Scores...)
		c.Last = &last
	}
	return &c
}
