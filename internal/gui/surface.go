// Package gui настольное окно для рисования и распознавания цифры.
package gui

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"digit-vision/internal/domain/entity"
)

// Surface холст для рисования: белый фон, чёрное перо с круглыми концами.
// Владеет изменяемым состоянием рисунка; классификация получает только копию.
type Surface struct {
	img     *image.RGBA
	raster  *vector.Rasterizer
	pen     float64
	drawing bool
	lastX   float64
	lastY   float64
}

// NewSurface создаёт квадратный холст стороной size.
func NewSurface(size int, penWidth float64) *Surface {
	if size < 1 {
		size = 1
	}
	if penWidth <= 0 {
		penWidth = 1
	}
	s := &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, size, size)),
		raster: vector.NewRasterizer(size, size),
		pen:    penWidth,
	}
	s.Clear()
	return s
}

// Size сторона холста в пикселях.
func (s *Surface) Size() int {
	return s.img.Rect.Dx()
}

// Image живое изображение для отрисовки в окне.
func (s *Surface) Image() image.Image {
	return s.img
}

// Drawing сообщает, нажато ли перо.
func (s *Surface) Drawing() bool {
	return s.drawing
}

// Clear заливает холст белым и поднимает перо.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Rect, image.White, image.Point{}, draw.Src)
	s.drawing = false
}

// Begin опускает перо в точку (x, y) и ставит точку.
func (s *Surface) Begin(x, y float64) {
	s.drawing = true
	s.lastX, s.lastY = x, y
	s.stroke(x, y, x, y)
}

// MoveTo проводит линию от предыдущей точки, если перо опущено.
func (s *Surface) MoveTo(x, y float64) {
	if !s.drawing {
		return
	}
	s.stroke(s.lastX, s.lastY, x, y)
	s.lastX, s.lastY = x, y
}

// End поднимает перо.
func (s *Surface) End() {
	s.drawing = false
}

// Snapshot копия пикселей холста в формате RGBA.
func (s *Surface) Snapshot() entity.RawCanvasBuffer {
	pix := make([]uint8, len(s.img.Pix))
	copy(pix, s.img.Pix)
	return entity.RawCanvasBuffer{
		Width:  s.img.Rect.Dx(),
		Height: s.img.Rect.Dy(),
		Pix:    pix,
	}
}

// stroke рисует отрезок толщиной pen с круглыми концами: контур «капсулы»
// растеризуется со сглаживанием и накладывается на холст чёрным цветом.
func (s *Surface) stroke(x0, y0, x1, y1 float64) {
	b := s.img.Rect
	s.raster.Reset(b.Dx(), b.Dy())
	s.raster.DrawOp = draw.Over
	capsule(s.raster, float32(x0), float32(y0), float32(x1), float32(y1), float32(s.pen/2))
	s.raster.Draw(s.img, b, image.Black, image.Point{})
}

// kappa доля радиуса для контрольных точек кубической четверти окружности.
const kappa = 0.5522847498

// capsule строит замкнутый контур отрезка p0-p1 радиуса r с полукруглыми концами.
// Для p0 == p1 получается круг.
func capsule(r *vector.Rasterizer, x0, y0, x1, y1, radius float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		dx, dy = 1, 0
	} else {
		dx, dy = dx/length, dy/length
	}
	// нормаль к отрезку
	nx, ny := -dy, dx

	r.MoveTo(x0+nx*radius, y0+ny*radius)
	r.LineTo(x1+nx*radius, y1+ny*radius)
	halfCircle(r, x1, y1, nx, ny, dx, dy, radius)
	r.LineTo(x0-nx*radius, y0-ny*radius)
	halfCircle(r, x0, y0, -nx, -ny, -dx, -dy, radius)
	r.ClosePath()
}

// halfCircle дуга вокруг (cx, cy) от c+r·e через c+r·f до c−r·e.
func halfCircle(r *vector.Rasterizer, cx, cy, ex, ey, fx, fy, radius float32) {
	k := kappa * radius
	r.CubeTo(
		cx+ex*radius+fx*k, cy+ey*radius+fy*k,
		cx+fx*radius+ex*k, cy+fy*radius+ey*k,
		cx+fx*radius, cy+fy*radius,
	)
	r.CubeTo(
		cx+fx*radius-ex*k, cy+fy*radius-ey*k,
		cx-ex*radius+fx*k, cy-ey*radius+fy*k,
		cx-ex*radius, cy-ey*radius,
	)
}
