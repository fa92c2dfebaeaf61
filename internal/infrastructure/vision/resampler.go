package vision

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// Имена ресемплеров для конфигурации (RESAMPLER, флаг -resampler).
const (
	ResamplerImaging = "imaging" // Lanczos3 на чистом Go
	ResamplerGoCV    = "gocv"    // Lanczos4 из OpenCV, нужна сборка с тегом gocv
)

// NewResampler выбирает реализацию масштабирования по имени.
func NewResampler(name string) (port.Resampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ResamplerImaging:
		return NewImagingResampler(), nil
	case ResamplerGoCV:
		return NewGoCVResampler(), nil
	default:
		return nil, fmt.Errorf("unknown resampler %q", name)
	}
}

// ImagingResampler масштабирование на чистом Go (Lanczos3 по умолчанию).
type ImagingResampler struct {
	Filter imaging.ResampleFilter
}

// NewImagingResampler создаёт ресемплер с фильтром Lanczos.
func NewImagingResampler() *ImagingResampler {
	return &ImagingResampler{Filter: imaging.Lanczos}
}

// Resample пересчитывает сетку в width×height.
func (r *ImagingResampler) Resample(grid *entity.IntensityGrid, width, height int) (*entity.IntensityGrid, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	src := &image.Gray{
		Pix:    grid.Pix,
		Stride: grid.Width,
		Rect:   image.Rect(0, 0, grid.Width, grid.Height),
	}
	dst := imaging.Resize(src, width, height, r.Filter)

	out := entity.NewIntensityGrid(width, height)
	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			out.Pix[y*width+x] = row[x*4]
		}
	}
	return out, nil
}

var _ port.Resampler = (*ImagingResampler)(nil)
