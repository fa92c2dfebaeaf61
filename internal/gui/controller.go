package gui

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"digit-vision/internal/domain/entity"
)

// CanvasClassifier распознаёт цифру на снимке холста.
type CanvasClassifier interface {
	ClassifyCanvas(ctx context.Context, buf entity.RawCanvasBuffer) (*entity.Prediction, error)
}

// Controller связывает кнопки окна с холстом и классификатором.
type Controller struct {
	surface    *Surface
	classifier CanvasClassifier
	logger     *logrus.Logger
	last       *entity.Prediction
}

// NewController создаёт контроллер для холста.
func NewController(surface *Surface, classifier CanvasClassifier, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		surface:    surface,
		classifier: classifier,
		logger:     logger,
	}
}

// Surface холст контроллера.
func (c *Controller) Surface() *Surface {
	return c.surface
}

// Last последний результат, nil после Clear.
func (c *Controller) Last() *entity.Prediction {
	return c.last
}

// Clear очищает холст и сбрасывает результат.
func (c *Controller) Clear() {
	c.surface.Clear()
	c.last = nil
}

// Classify распознаёт текущий рисунок и возвращает текст для окна.
// Ошибки не прерывают работу окна, а показываются вместо результата.
func (c *Controller) Classify(ctx context.Context) string {
	prediction, err := c.classifier.ClassifyCanvas(ctx, c.surface.Snapshot())
	if err != nil {
		c.logger.WithError(err).Warn("Classification failed")
		c.last = nil
		return entity.UserMessage(err)
	}

	c.last = prediction
	c.logger.WithField("digit", prediction.Digit).Info("Digit classified")
	return fmt.Sprintf("Распознанная цифра: %d", prediction.Digit)
}
