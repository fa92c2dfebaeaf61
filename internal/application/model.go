package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

type modelState int

const (
	modelUninitialized modelState = iota
	modelReady
	modelFailed
)

// modelHandle строит движок один раз и дальше только отдаёт его.
// Ошибка загрузки запоминается: повторно модель не читается.
type modelHandle struct {
	loader port.ModelLoader
	loaded atomic.Pointer[loadedEngine]

	mu     sync.Mutex
	state  modelState
	engine port.InferenceEngine
	err    error
}

type loadedEngine struct {
	engine port.InferenceEngine
}

func newModelHandle(loader port.ModelLoader) *modelHandle {
	return &modelHandle{loader: loader}
}

func (h *modelHandle) get(ctx context.Context) (port.InferenceEngine, error) {
	// после загрузки мьютекс не нужен
	if l := h.loaded.Load(); l != nil {
		return l.engine, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case modelReady:
		return h.engine, nil
	case modelFailed:
		return nil, h.err
	}

	if h.loader == nil {
		return nil, fmt.Errorf("%w: loader is not configured", entity.ErrModelLoadFailure)
	}

	engine, err := h.loader.Load(ctx)
	if err != nil {
		// отмена не портит сессию, следующий вызов попробует снова
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if !errors.Is(err, entity.ErrModelLoadFailure) {
			err = fmt.Errorf("%w: %v", entity.ErrModelLoadFailure, err)
		}
		h.state, h.err = modelFailed, err
		return nil, err
	}
	if engine == nil {
		h.state, h.err = modelFailed, fmt.Errorf("%w: loader returned no engine", entity.ErrModelLoadFailure)
		return nil, h.err
	}

	h.state, h.engine = modelReady, engine
	h.loaded.Store(&loadedEngine{engine: engine})
	return engine, nil
}

func (h *modelHandle) ready() bool {
	return h.loaded.Load() != nil
}
