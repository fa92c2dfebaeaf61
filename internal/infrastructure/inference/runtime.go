package inference

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// Окружение ONNX Runtime одно на процесс.
var runtimeMu sync.Mutex

func initRuntime(libPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	return ort.InitializeEnvironment()
}

// ShutdownRuntime освобождает окружение ONNX Runtime при выходе из процесса.
func ShutdownRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// RuntimeLoader строит движок ONNX Runtime. Выполняет любой граф,
// который умеет ONNX Runtime, в том числе свёрточную mnist-12.
type RuntimeLoader struct {
	path       string
	data       []byte
	inputName  string
	outputName string
	libPath    string
	logger     *logrus.Logger
}

// NewRuntimeFileLoader создаёт загрузчик модели из файла.
func NewRuntimeFileLoader(path, inputName, outputName, libPath string, logger *logrus.Logger) *RuntimeLoader {
	return &RuntimeLoader{
		path:       path,
		inputName:  inputName,
		outputName: outputName,
		libPath:    libPath,
		logger:     orStandard(logger),
	}
}

// NewRuntimeBytesLoader создаёт загрузчик модели, уже прочитанной в память.
func NewRuntimeBytesLoader(data []byte, inputName, outputName, libPath string, logger *logrus.Logger) *RuntimeLoader {
	return &RuntimeLoader{
		data:       data,
		inputName:  inputName,
		outputName: outputName,
		libPath:    libPath,
		logger:     orStandard(logger),
	}
}

// Load читает модель, поднимает окружение и создаёт сессию.
func (l *RuntimeLoader) Load(ctx context.Context) (port.InferenceEngine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := l.data
	if data == nil {
		if l.path == "" {
			return nil, fmt.Errorf("%w: model path is empty", entity.ErrModelLoadFailure)
		}
		raw, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrModelLoadFailure, err)
		}
		data = raw
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: model is empty", entity.ErrModelLoadFailure)
	}

	if err := initRuntime(l.libPath); err != nil {
		return nil, fmt.Errorf("%w: onnxruntime: %v", entity.ErrModelLoadFailure, err)
	}

	inputsInfo, outputsInfo, err := ort.GetInputOutputInfoWithONNXData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrModelLoadFailure, err)
	}
	inputs := infoNames(inputsInfo)
	outputs := infoNames(outputsInfo)

	if err := checkNames(inputs, outputs, l.inputName, l.outputName); err != nil {
		return nil, err
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(data, inputs, outputs, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", entity.ErrModelLoadFailure, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":    l.path,
		"inputs":  inputs,
		"outputs": outputs,
		"engine":  EngineRuntime,
	}).Info("Model loaded")

	return &RuntimeEngine{session: session, inputs: inputs, outputs: outputs}, nil
}

func infoNames(info []ort.InputOutputInfo) []string {
	names := make([]string, len(info))
	for i, item := range info {
		names[i] = item.Name
	}
	return names
}

// RuntimeEngine сессия ONNX Runtime. Сессия допускает параллельные Run.
type RuntimeEngine struct {
	session *ort.DynamicAdvancedSession
	inputs  []string
	outputs []string
}

// Run выполняет модель; все входы модели должны быть переданы по имени.
func (e *RuntimeEngine) Run(ctx context.Context, inputs map[string]*entity.NormalizedTensor) (map[string]entity.ScoreVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := make([]ort.Value, 0, len(e.inputs))
	defer func() {
		for _, v := range in {
			v.Destroy()
		}
	}()
	for _, name := range e.inputs {
		t, ok := inputs[name]
		if !ok || t == nil {
			return nil, fmt.Errorf("%w: input %q is missing", entity.ErrInferenceFailure, name)
		}
		dims := make([]int64, 0, 4)
		for _, d := range t.Shape() {
			dims = append(dims, int64(d))
		}
		value, err := ort.NewTensor(ort.NewShape(dims...), t.Flat())
		if err != nil {
			return nil, fmt.Errorf("%w: build input %q: %v", entity.ErrInferenceFailure, name, err)
		}
		in = append(in, value)
	}

	// nil-выходы ONNX Runtime выделяет сам
	out := make([]ort.Value, len(e.outputs))
	defer func() {
		for _, v := range out {
			if v != nil {
				v.Destroy()
			}
		}
	}()
	if err := e.session.Run(in, out); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInferenceFailure, err)
	}

	result := make(map[string]entity.ScoreVector, len(out))
	for i, v := range out {
		t, ok := v.(*ort.Tensor[float32])
		if !ok {
			return nil, fmt.Errorf("%w: output %q is not a float32 tensor", entity.ErrInferenceFailure, e.outputs[i])
		}
		result[e.outputs[i]] = append(entity.ScoreVector(nil), t.GetData()...)
	}
	return result, nil
}

// Close освобождает сессию.
func (e *RuntimeEngine) Close() error {
	return e.session.Destroy()
}

var (
	_ port.ModelLoader     = (*RuntimeLoader)(nil)
	_ port.InferenceEngine = (*RuntimeEngine)(nil)
)
