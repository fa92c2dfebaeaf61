package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"digit-vision/internal/domain/entity"
)

func TestExtractDigit_FirstMaximumWins(t *testing.T) {
	scores := entity.ScoreVector{0, 1, 2, 9, 4, 5, 6, 9, 8, 7}
	digit, err := ExtractDigit(scores)
	require.NoError(t, err)
	require.Equal(t, 3, digit)
}

func TestExtractDigit_NegativeLogits(t *testing.T) {
	digit, err := ExtractDigit(entity.ScoreVector{-3, -2.5, -8, -0.1, -4})
	require.NoError(t, err)
	require.Equal(t, 3, digit)

	digit, err = ExtractDigit(entity.ScoreVector{-1})
	require.NoError(t, err)
	require.Equal(t, 0, digit)
}

func TestExtractDigit_Empty(t *testing.T) {
	_, err := ExtractDigit(nil)
	require.ErrorIs(t, err, entity.ErrEmptyScores)
}
