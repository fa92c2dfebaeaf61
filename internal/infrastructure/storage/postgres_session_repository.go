package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

const schema = `
CREATE TABLE IF NOT EXISTS digit_sessions (
	chat_id     BIGINT PRIMARY KEY,
	user_id     BIGINT NOT NULL,
	state       TEXT NOT NULL,
	last_digit  INTEGER,
	last_scores JSONB,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// OpenPostgres открывает пул соединений и проверяет доступность базы.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// PostgresSessionRepository хранит сессии в Postgres
type PostgresSessionRepository struct {
	db *sql.DB
}

// NewPostgresSessionRepository создаёт хранилище поверх открытой базы
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Migrate создаёт таблицу сессий
func (r *PostgresSessionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sessions: %w", err)
	}
	return nil
}

// Get возвращает сессию чата, создаёт новую если не найдена
func (r *PostgresSessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	var (
		session entity.Session
		state   string
		digit   sql.NullInt32
		scores  []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, state, last_digit, last_scores, updated_at FROM digit_sessions WHERE chat_id = $1`,
		chatID,
	).Scan(&session.UserID, &state, &digit, &scores, &session.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		fresh := entity.NewSession(userID, chatID)
		if err := r.Save(ctx, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session %d: %w", chatID, err)
	}

	session.ChatID = chatID
	session.State = entity.SessionState(state)
	if digit.Valid {
		p := &entity.Prediction{Digit: int(digit.Int32)}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &p.Scores); err != nil {
				return nil, fmt.Errorf("decode scores for %d: %w", chatID, err)
			}
		}
		session.Last = p
	}

	return &session, nil
}

// Save сохраняет состояние сессии
func (r *PostgresSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	var (
		digit  sql.NullInt32
		scores []byte
	)
	if session.Last != nil {
		digit = sql.NullInt32{Int32: int32(session.Last.Digit), Valid: true}
		raw, err := json.Marshal(session.Last.Scores)
		if err != nil {
			return fmt.Errorf("encode scores: %w", err)
		}
		scores = raw
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO digit_sessions (chat_id, user_id, state, last_digit, last_scores, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (chat_id) DO UPDATE SET
	user_id = EXCLUDED.user_id,
	state = EXCLUDED.state,
	last_digit = EXCLUDED.last_digit,
	last_scores = EXCLUDED.last_scores,
	updated_at = EXCLUDED.updated_at`,
		session.ChatID, session.UserID, string(session.State), digit, nullableJSON(scores), session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session %d: %w", session.ChatID, err)
	}
	return nil
}

// UpdateState обновляет состояние сессии
func (r *PostgresSessionRepository) UpdateState(ctx context.Context, chatID int64, state entity.SessionState) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE digit_sessions SET state = $2, updated_at = now() WHERE chat_id = $1`,
		chatID, string(state),
	)
	if err != nil {
		return fmt.Errorf("update state %d: %w", chatID, err)
	}
	return nil
}

func nullableJSON(raw []byte) any {
	if raw == nil {
		return nil
	}
	return string(raw)
}

var _ port.SessionRepository = (*PostgresSessionRepository)(nil)
