package app

import (
	"context"
	"sync"
	"sync/atomic"

	"digit-vision/internal/domain/entity"
	"digit-vision/internal/domain/port"
)

// fakeEngine ставит наибольшую оценку классу, который вернула score.
type fakeEngine struct {
	mu       sync.Mutex
	calls    int
	lastName string
	output   string
	score    func(t *entity.NormalizedTensor) entity.ScoreVector
	err      error
}

func (e *fakeEngine) Run(ctx context.Context, inputs map[string]*entity.NormalizedTensor) (map[string]entity.ScoreVector, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	for name, t := range inputs {
		e.lastName = name
		return map[string]entity.ScoreVector{e.output: e.score(t)}, nil
	}
	return map[string]entity.ScoreVector{}, nil
}

type fakeLoader struct {
	loads  atomic.Int32
	engine port.InferenceEngine
	err    error
}

func (l *fakeLoader) Load(ctx context.Context) (port.InferenceEngine, error) {
	l.loads.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return l.engine, nil
}

func oneHot(class int) entity.ScoreVector {
	s := make(entity.ScoreVector, 10)
	for i := range s {
		s[i] = -1
	}
	s[class] = 5
	return s
}

// inkScore считает класс по количеству штрихов, чтобы результат зависел от входа.
func inkScore(t *entity.NormalizedTensor) entity.ScoreVector {
	ink := 0
	for _, v := range t.Flat() {
		if v > 0.5 {
			ink++
		}
	}
	return oneHot(ink % 10)
}
