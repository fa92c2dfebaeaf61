//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"digit-vision/internal/domain/entity"
)

// GoCVResampler заглушка для сборки без OpenCV.
type GoCVResampler struct{}

// NewGoCVResampler создаёт ресемплер-заглушку (без OpenCV).
func NewGoCVResampler() *GoCVResampler {
	return &GoCVResampler{}
}

// Resample возвращает ошибку, если сборка без тега gocv.
func (r *GoCVResampler) Resample(grid *entity.IntensityGrid, width, height int) (*entity.IntensityGrid, error) {
	_ = grid
	_, _ = width, height
	return nil, errors.New("gocv build tag is not enabled")
}
