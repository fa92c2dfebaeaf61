// Package inference запускает ONNX-модель: через ONNX Runtime (по умолчанию)
// или через born на чистом Go для полносвязных сетей.
package inference

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// Имена движков для конфигурации (INFERENCE_ENGINE).
const (
	EngineRuntime = "onnxruntime"
	EngineBorn    = "born"
)

// Options параметры загрузки модели.
type Options struct {
	Engine      string // onnxruntime или born
	ModelPath   string
	InputName   string
	OutputName  string // пустое имя — единственный выход модели
	LibraryPath string // путь к libonnxruntime, пустой — системный
}

// NewLoader выбирает загрузчик модели по имени движка.
func NewLoader(opts Options, logger *logrus.Logger) (port.ModelLoader, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineRuntime:
		return NewRuntimeFileLoader(opts.ModelPath, opts.InputName, opts.OutputName, opts.LibraryPath, logger), nil
	case EngineBorn:
		return NewBornFileLoader(opts.ModelPath, opts.InputName, opts.OutputName, logger), nil
	default:
		return nil, fmt.Errorf("unknown inference engine %q", opts.Engine)
	}
}

// checkNames проверяет, что в модели есть ожидаемые тензоры.
func checkNames(inputs, outputs []string, inputName, outputName string) error {
	if inputName != "" && !slices.Contains(inputs, inputName) {
		return fmt.Errorf("%w: model has no input %q (inputs: %v)", entity.ErrModelLoadFailure, inputName, inputs)
	}
	if outputName != "" && !slices.Contains(outputs, outputName) {
		return fmt.Errorf("%w: model has no output %q (outputs: %v)", entity.ErrModelLoadFailure, outputName, outputs)
	}
	return nil
}

func orStandard(logger *logrus.Logger) *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
