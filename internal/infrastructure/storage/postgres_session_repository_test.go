package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"digit-vision/internal/domain/entity"
)

func TestPostgresSessionRepository_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	ctx := context.Background()

	db, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSessionRepository(db)
	require.NoError(t, repo.Migrate(ctx))

	const chatID = -424242
	_, err = db.ExecContext(ctx, `DELETE FROM digit_sessions WHERE chat_id = $1`, chatID)
	require.NoError(t, err)

	s, err := repo.Get(ctx, 7, chatID)
	require.NoError(t, err)
	require.Nil(t, s.Last)

	s.Remember(&entity.Prediction{Digit: 3, Scores: entity.ScoreVector{0.1, 0.2, 0.3, 4}})
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.UpdateState(ctx, chatID, entity.StateAwaitingDigit))

	got, err := repo.Get(ctx, 7, chatID)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingDigit, got.State)
	require.Equal(t, 3, got.Last.Digit)
	require.Equal(t, entity.ScoreVector{0.1, 0.2, 0.3, 4}, got.Last.Scores)

	got.Clear()
	require.NoError(t, repo.Save(ctx, got))
	got, err = repo.Get(ctx, 7, chatID)
	require.NoError(t, err)
	require.Nil(t, got.Last)
}
