package inference

import (
	"context"
	"fmt"

	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/onnx"
	"github.com/born-ml/born/tensor"
	"github.com/sirupsen/logrus"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// BornLoader строит движок born: чистый Go, без cgo.
// Born поддерживает полносвязные графы (Gemm, MatMul, Relu, Reshape...),
// свёрток в нём нет, поэтому CNN вроде mnist-12 не загрузятся: strict-режим
// вернёт ошибку вместо молча пропущенных операторов.
type BornLoader struct {
	path       string
	data       []byte
	inputName  string
	outputName string
	logger     *logrus.Logger
}

// NewBornFileLoader создаёт загрузчик модели из файла.
func NewBornFileLoader(path, inputName, outputName string, logger *logrus.Logger) *BornLoader {
	return &BornLoader{
		path:       path,
		inputName:  inputName,
		outputName: outputName,
		logger:     orStandard(logger),
	}
}

// NewBornBytesLoader создаёт загрузчик модели, уже прочитанной в память.
func NewBornBytesLoader(data []byte, inputName, outputName string, logger *logrus.Logger) *BornLoader {
	return &BornLoader{
		data:       data,
		inputName:  inputName,
		outputName: outputName,
		logger:     orStandard(logger),
	}
}

// Load разбирает модель и проверяет, что в ней есть ожидаемые тензоры.
func (l *BornLoader) Load(ctx context.Context) (engine port.InferenceEngine, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			engine, err = nil, fmt.Errorf("%w: parser panic: %v", entity.ErrModelLoadFailure, r)
		}
	}()

	backend := cpu.New()
	opts := onnx.DefaultLoadOptions()
	opts.StrictMode = true

	var model onnx.Model
	if l.data != nil {
		model, err = onnx.LoadFromBytes(l.data, backend, opts)
	} else {
		if l.path == "" {
			return nil, fmt.Errorf("%w: model path is empty", entity.ErrModelLoadFailure)
		}
		model, err = onnx.Load(l.path, backend, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrModelLoadFailure, err)
	}

	if err := checkNames(model.InputNames(), model.OutputNames(), l.inputName, l.outputName); err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"path":    l.path,
		"inputs":  model.InputNames(),
		"outputs": model.OutputNames(),
		"opset":   model.OpsetVersion(),
		"engine":  EngineBorn,
	}).Info("Model loaded")

	return newBornEngine(model, backend), nil
}

// BornEngine готовая к работе модель. После создания не изменяется.
type BornEngine struct {
	model   onnx.Model
	backend *cpu.Backend
}

func newBornEngine(model onnx.Model, backend *cpu.Backend) *BornEngine {
	return &BornEngine{model: model, backend: backend}
}

// Run выполняет модель. Паника внутри движка возвращается как ErrInferenceFailure.
func (e *BornEngine) Run(ctx context.Context, inputs map[string]*entity.NormalizedTensor) (out map[string]entity.ScoreVector, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: engine panic: %v", entity.ErrInferenceFailure, r)
		}
	}()

	raw := make(map[string]*tensor.RawTensor, len(inputs))
	for name, in := range inputs {
		t, err := tensor.FromSlice(in.Flat(), tensor.Shape(in.Shape()), e.backend)
		if err != nil {
			return nil, fmt.Errorf("%w: build input %q: %v", entity.ErrInferenceFailure, name, err)
		}
		raw[name] = t.Raw()
	}

	outputs, err := e.model.ForwardNamed(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInferenceFailure, err)
	}

	out = make(map[string]entity.ScoreVector, len(outputs))
	for name, t := range outputs {
		out[name] = append(entity.ScoreVector(nil), t.AsFloat32()...)
	}
	return out, nil
}

var (
	_ port.ModelLoader     = (*BornLoader)(nil)
	_ port.InferenceEngine = (*BornEngine)(nil)
)
