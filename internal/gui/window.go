package gui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// DrawingCanvas виджет, который переводит события мыши в штрихи на Surface
type DrawingCanvas struct {
	widget.BaseWidget

	surface *Surface
	image   *canvas.Image
	logger  *logrus.Logger
}

// NewDrawingCanvas создаёт виджет холста
func NewDrawingCanvas(surface *Surface, logger *logrus.Logger) *DrawingCanvas {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	dc := &DrawingCanvas{
		surface: surface,
		logger:  logger,
	}
	dc.ExtendBaseWidget(dc)
	return dc
}

// CreateRenderer создаёт отрисовку холста
func (dc *DrawingCanvas) CreateRenderer() fyne.WidgetRenderer {
	dc.image = canvas.NewImageFromImage(dc.surface.Image())
	dc.image.FillMode = canvas.ImageFillStretch
	dc.image.ScaleMode = canvas.ImageScalePixels
	return widget.NewSimpleRenderer(dc.image)
}

// MinSize один пиксель холста на единицу размера окна
func (dc *DrawingCanvas) MinSize() fyne.Size {
	side := float32(dc.surface.Size())
	return fyne.NewSize(side, side)
}

// Redraw перерисовывает изображение холста
func (dc *DrawingCanvas) Redraw() {
	if dc.image != nil {
		dc.image.Refresh()
	}
}

// Mouse event handlers
func (dc *DrawingCanvas) MouseDown(event *desktop.MouseEvent) {
	x, y := dc.toSurface(event.Position)
	dc.surface.Begin(x, y)
	dc.Redraw()
}

func (dc *DrawingCanvas) MouseUp(event *desktop.MouseEvent) {
	dc.surface.End()
}

func (dc *DrawingCanvas) Dragged(event *fyne.DragEvent) {
	x, y := dc.toSurface(event.Position)
	if !dc.surface.Drawing() {
		dc.surface.Begin(x, y)
	} else {
		dc.surface.MoveTo(x, y)
	}
	dc.Redraw()
}

func (dc *DrawingCanvas) DragEnd() {
	dc.surface.End()
	dc.logger.Debug("Stroke finished")
}

// toSurface переводит координаты виджета в пиксели холста
func (dc *DrawingCanvas) toSurface(pos fyne.Position) (float64, float64) {
	size := dc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	side := float64(dc.surface.Size())
	return float64(pos.X) * side / float64(size.Width), float64(pos.Y) * side / float64(size.Height)
}

// NewWindow собирает окно: холст, кнопки «Очистить» и «Распознать», строка результата
func NewWindow(a fyne.App, ctrl *Controller, logger *logrus.Logger) fyne.Window {
	w := a.NewWindow("Распознавание цифр")

	drawing := NewDrawingCanvas(ctrl.Surface(), logger)
	result := widget.NewLabel("Нарисуйте цифру")
	result.Alignment = fyne.TextAlignCenter

	clearButton := widget.NewButton("Очистить", func() {
		ctrl.Clear()
		drawing.Redraw()
		result.SetText("")
	})
	classifyButton := widget.NewButton("Распознать", func() {
		result.SetText(ctrl.Classify(context.Background()))
	})
	classifyButton.Importance = widget.HighImportance

	w.SetContent(container.NewVBox(
		container.NewCenter(drawing),
		container.NewGridWithColumns(2, clearButton, classifyButton),
		result,
	))
	w.SetFixedSize(true)

	return w
}
