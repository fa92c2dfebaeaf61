package entity

import (
	"fmt"
	"math"
)

// IntensityGrid одноканальное изображение: 0 — чёрный, 255 — белый.
// Пиксели хранятся построчно, начало координат в левом верхнем углу.
type IntensityGrid struct {
	Width  int     // ширина в пикселях
	Height int     // высота в пикселях
	Pix    []uint8 // яркость, len(Pix) == Width*Height
}

// NewIntensityGrid создаёт чёрную сетку заданного размера.
func NewIntensityGrid(width, height int) *IntensityGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &IntensityGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// Validate проверяет размеры сетки.
func (g *IntensityGrid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidBufferSize)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: grid is %dx%d", ErrInvalidBufferSize, g.Width, g.Height)
	}
	if g.Width > math.MaxInt/g.Height {
		return fmt.Errorf("%w: grid %dx%d is too large", ErrInvalidBufferSize, g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: grid %dx%d holds %d pixels", ErrInvalidBufferSize, g.Width, g.Height, len(g.Pix))
	}
	return nil
}

// At возвращает яркость пикселя; за пределами сетки — 0.
func (g *IntensityGrid) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Pix[y*g.Width+x]
}

// Set записывает яркость пикселя, координаты вне сетки игнорируются.
func (g *IntensityGrid) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Pix[y*g.Width+x] = v
}

// Bounds возвращает минимальную и максимальную яркость.
func (g *IntensityGrid) Bounds() (lo, hi uint8) {
	if len(g.Pix) == 0 {
		return 0, 0
	}
	lo, hi = g.Pix[0], g.Pix[0]
	for _, p := range g.Pix[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return lo, hi
}

// Clone возвращает независимую копию сетки.
func (g *IntensityGrid) Clone() *IntensityGrid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &IntensityGrid{Width: g.Width, Height: g.Height, Pix: pix}
}

// RawCanvasBuffer снимок холста: RGBA по 4 байта на пиксель.
type RawCanvasBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// Validate проверяет, что длина буфера равна Width*Height*4.
func (b RawCanvasBuffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: canvas is %dx%d", ErrInvalidBufferSize, b.Width, b.Height)
	}
	if b.Width > math.MaxInt/4/b.Height {
		return fmt.Errorf("%w: canvas %dx%d is too large", ErrInvalidBufferSize, b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%w: %dx%dx4=%d != %d", ErrInvalidBufferSize, b.Width, b.Height, want, len(b.Pix))
	}
	return nil
}
