//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"digit-vision/internal/domain/entity"
)

// GoCVResampler масштабирование через OpenCV (Lanczos4).
type GoCVResampler struct {
	Interpolation gocv.InterpolationFlags
}

// NewGoCVResampler создаёт ресемплер OpenCV.
func NewGoCVResampler() *GoCVResampler {
	return &GoCVResampler{Interpolation: gocv.InterpolationLanczos4}
}

// Resample пересчитывает сетку в width×height.
func (r *GoCVResampler) Resample(grid *entity.IntensityGrid, width, height int) (*entity.IntensityGrid, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	src, err := gocv.NewMatFromBytes(grid.Height, grid.Width, gocv.MatTypeCV8U, grid.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrap grid: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, r.Interpolation)
	if dst.Empty() {
		return nil, errors.New("resize produced empty image")
	}

	out := entity.NewIntensityGrid(width, height)
	copy(out.Pix, dst.ToBytes())
	return out, nil
}
