package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
	"digit-vision/internal/infrastructure/imagesource"
)

// TensorNames имена входного и выходного тензоров модели.
type TensorNames struct {
	Input  string
	Output string // пустое имя — единственный выход модели
}

// MNISTTensorNames имена тензоров модели mnist-12 из ONNX Model Zoo.
var MNISTTensorNames = TensorNames{Input: "Input3", Output: "Plus214_Output_0"}

// ClassificationService распознаёт цифру: препроцессор → сеть → argmax.
type ClassificationService struct {
	model        *modelHandle
	preprocessor port.Preprocessor
	names        TensorNames
	logger       *logrus.Logger
}

// NewClassificationService создаёт сервис. Модель загружается при первом вызове.
func NewClassificationService(loader port.ModelLoader, preprocessor port.Preprocessor, names TensorNames, logger *logrus.Logger) *ClassificationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ClassificationService{
		model:        newModelHandle(loader),
		preprocessor: preprocessor,
		names:        names,
		logger:       logger,
	}
}

// Warmup загружает модель заранее.
func (s *ClassificationService) Warmup(ctx context.Context) error {
	_, err := s.model.get(ctx)
	return err
}

// Ready сообщает, загружена ли модель.
func (s *ClassificationService) Ready() bool {
	return s.model.ready()
}

// Classify распознаёт цифру на сетке яркости.
func (s *ClassificationService) Classify(ctx context.Context, grid *entity.IntensityGrid) (*entity.Prediction, error) {
	if s.preprocessor == nil {
		return nil, errors.New("preprocessor is not configured")
	}

	engine, err := s.model.get(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	input, err := s.preprocessor.Preprocess(ctx, grid)
	if err != nil {
		return nil, err
	}

	outputs, err := engine.Run(ctx, map[string]*entity.NormalizedTensor{s.names.Input: input})
	if err != nil {
		if !errors.Is(err, entity.ErrInferenceFailure) {
			err = fmt.Errorf("%w: %v", entity.ErrInferenceFailure, err)
		}
		return nil, err
	}

	scores, err := s.pickOutput(outputs)
	if err != nil {
		return nil, err
	}

	digit, err := ExtractDigit(scores)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInferenceFailure, err)
	}

	s.logger.WithFields(logrus.Fields{
		"digit":   digit,
		"width":   grid.Width,
		"height":  grid.Height,
		"elapsed": time.Since(started).String(),
	}).Debug("Digit classified")

	return &entity.Prediction{Digit: digit, Scores: scores}, nil
}

// ClassifyFile читает изображение из файла и распознаёт цифру.
func (s *ClassificationService) ClassifyFile(ctx context.Context, path string) (*entity.Prediction, error) {
	grid, err := imagesource.FromFile(path)
	if err != nil {
		return nil, err
	}
	return s.Classify(ctx, grid)
}

// ClassifyBytes распознаёт цифру на закодированном изображении (PNG, JPEG...).
func (s *ClassificationService) ClassifyBytes(ctx context.Context, data []byte) (*entity.Prediction, error) {
	grid, err := imagesource.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return s.Classify(ctx, grid)
}

// ClassifyRGBA распознаёт цифру в сыром RGBA-буфере.
func (s *ClassificationService) ClassifyRGBA(ctx context.Context, pix []uint8, width, height int) (*entity.Prediction, error) {
	return s.ClassifyCanvas(ctx, entity.RawCanvasBuffer{Width: width, Height: height, Pix: pix})
}

// ClassifyCanvas распознаёт цифру на снимке RGBA-холста.
func (s *ClassificationService) ClassifyCanvas(ctx context.Context, buf entity.RawCanvasBuffer) (*entity.Prediction, error) {
	grid, err := imagesource.FromCanvas(buf)
	if err != nil {
		return nil, err
	}
	return s.Classify(ctx, grid)
}

func (s *ClassificationService) pickOutput(outputs map[string]entity.ScoreVector) (entity.ScoreVector, error) {
	if s.names.Output != "" {
		scores, ok := outputs[s.names.Output]
		if !ok {
			return nil, fmt.Errorf("%w: output %q is missing", entity.ErrInferenceFailure, s.names.Output)
		}
		return scores, nil
	}

	if len(outputs) != 1 {
		return nil, fmt.Errorf("%w: expected one output, got %d", entity.ErrInferenceFailure, len(outputs))
	}
	for _, scores := range outputs {
		return scores, nil
	}
	return nil, nil
}
