package port

import (
	"context"

	"digit-vision/internal/domain/entity"
)

// InferenceEngine интерфейс запуска нейросети
type InferenceEngine interface {
	// Run выполняет сеть по именованным входам и возвращает именованные выходы
	Run(ctx context.Context, inputs map[string]*entity.NormalizedTensor) (map[string]entity.ScoreVector, error)
}

// ModelLoader интерфейс загрузки модели
type ModelLoader interface {
	// Load строит готовый к работе движок из артефакта модели
	Load(ctx context.Context) (InferenceEngine, error)
}
