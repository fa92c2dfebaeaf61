package vision

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

const (
	// DefaultFallbackThreshold порог для однотонного изображения.
	DefaultFallbackThreshold uint8 = 50

	foreground uint8 = 255
	background uint8 = 0
)

// Options политика бинаризации.
type Options struct {
	// FallbackThreshold используется, когда max == min.
	FallbackThreshold uint8
}

// DefaultOptions возвращает значения, на которых откалибрована модель MNIST.
func DefaultOptions() Options {
	return Options{FallbackThreshold: DefaultFallbackThreshold}
}

// Preprocessor приводит сетку произвольного размера к тензору 1×1×28×28:
// масштабирование, адаптивный порог, бинаризация, инверсия.
type Preprocessor struct {
	resampler port.Resampler
	opts      Options
	logger    *logrus.Logger
}

// NewPreprocessor создаёт препроцессор с политикой по умолчанию.
func NewPreprocessor(resampler port.Resampler, logger *logrus.Logger) *Preprocessor {
	return NewPreprocessorWithOptions(resampler, DefaultOptions(), logger)
}

// NewPreprocessorWithOptions создаёт препроцессор с заданной политикой.
func NewPreprocessorWithOptions(resampler port.Resampler, opts Options, logger *logrus.Logger) *Preprocessor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Preprocessor{
		resampler: resampler,
		opts:      opts,
		logger:    logger,
	}
}

// Preprocess возвращает ErrEmptyCanvas, если после порога на изображении нет штрихов.
func (p *Preprocessor) Preprocess(ctx context.Context, grid *entity.IntensityGrid) (*entity.NormalizedTensor, error) {
	_ = ctx
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	resized, err := p.resampler.Resample(grid, entity.TensorSide, entity.TensorSide)
	if err != nil {
		return nil, fmt.Errorf("resample %dx%d: %w", grid.Width, grid.Height, err)
	}
	if err := resized.Validate(); err != nil {
		return nil, fmt.Errorf("resample %dx%d: %w", grid.Width, grid.Height, err)
	}

	threshold := Threshold(resized, p.opts.FallbackThreshold)
	binary, fg := Binarize(resized, threshold)

	p.logger.WithFields(logrus.Fields{
		"src_width":  grid.Width,
		"src_height": grid.Height,
		"threshold":  threshold,
		"foreground": fg,
	}).Debug("Grid binarized")

	// Без контраста рисунка нет: либо всё фон, либо всё одного уровня.
	if fg == 0 || fg == len(binary.Pix) {
		return nil, entity.ErrEmptyCanvas
	}

	return Normalize(binary), nil
}

// Threshold возвращает середину между минимумом и максимумом яркости,
// для однотонной сетки — fallback.
func Threshold(grid *entity.IntensityGrid, fallback uint8) uint8 {
	lo, hi := grid.Bounds()
	if hi > lo {
		return lo + (hi-lo)/2
	}
	return fallback
}

// Binarize переводит пиксели строго выше порога в 255, остальные в 0.
// Возвращает новую сетку и число пикселей переднего плана.
func Binarize(grid *entity.IntensityGrid, threshold uint8) (*entity.IntensityGrid, int) {
	out := entity.NewIntensityGrid(grid.Width, grid.Height)
	fg := 0
	for i, px := range grid.Pix {
		if px > threshold {
			out.Pix[i] = foreground
			fg++
		} else {
			out.Pix[i] = background
		}
	}
	return out, fg
}

// Normalize переводит бинарную сетку 28×28 в [0,1] с инверсией:
// тёмный штрих становится 1.0, светлый фон 0.0.
func Normalize(binary *entity.IntensityGrid) *entity.NormalizedTensor {
	var t entity.NormalizedTensor
	for y := 0; y < entity.TensorSide; y++ {
		for x := 0; x < entity.TensorSide; x++ {
			if x >= binary.Width || y >= binary.Height {
				continue
			}
			t.Set(y, x, 1.0-float32(binary.At(x, y))/255.0)
		}
	}
	return &t
}

var _ port.Preprocessor = (*Preprocessor)(nil)
