package port

import (
	"context"

	"digit-vision/internal/domain/entity"
)

// Resampler интерфейс масштабирования одноканального изображения
type Resampler interface {
	// Resample пересчитывает сетку в размер width×height
	Resample(grid *entity.IntensityGrid, width, height int) (*entity.IntensityGrid, error)
}

// Preprocessor интерфейс подготовки изображения к сети
type Preprocessor interface {
	// Preprocess приводит сетку к нормализованному тензору 1×1×28×28
	Preprocess(ctx context.Context, grid *entity.IntensityGrid) (*entity.NormalizedTensor, error)
}
