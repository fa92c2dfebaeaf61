//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoCVResampler_StubFails(t *testing.T) {
	_, err := NewGoCVResampler().Resample(uniformGrid(2, 2, 1), 28, 28)
	require.EqualError(t, err, "gocv build tag is not enabled")
}
