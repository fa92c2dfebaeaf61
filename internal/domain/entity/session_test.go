package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession(1, 10)
	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, int64(1), s.UserID)
	require.Equal(t, int64(10), s.ChatID)
	require.Nil(t, s.Last)
}

func TestSession_ClearDropsResult(t *testing.T) {
	s := NewSession(1, 10)
	s.SetState(StateAwaitingDigit)
	s.Remember(&Prediction{Digit: 7})
	require.Equal(t, 7, s.Last.Digit)

	s.Clear()
	require.Nil(t, s.Last)
	require.Equal(t, StateMainMenu, s.State)
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := NewSession(1, 2)
	s.Remember(&Prediction{Digit: 1, Scores: ScoreVector{0, 3}})

	c := s.Clone()
	c.Last.Scores[1] = -3
	c.SetState(StateProcessing)

	require.Equal(t, float32(3), s.Last.Scores[1])
	require.Equal(t, StateMainMenu, s.State)
}
