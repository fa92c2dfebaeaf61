package imagesource

import (
	"digit-vision/internal/domain/entity"
)

// FromRGBA переводит снимок холста в сетку яркости с учётом альфа-канала:
// gray = (A/255) * (R+G+B)/3. Прозрачный фон читается как чёрный.
func FromRGBA(pix []uint8, width, height int) (*entity.IntensityGrid, error) {
	return FromCanvas(entity.RawCanvasBuffer{Width: width, Height: height, Pix: pix})
}

// FromCanvas то же, что FromRGBA, для готового снимка.
func FromCanvas(buf entity.RawCanvasBuffer) (*entity.IntensityGrid, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	grid := entity.NewIntensityGrid(buf.Width, buf.Height)
	for i := range grid.Pix {
		px := buf.Pix[i*4 : i*4+4]
		grid.Pix[i] = alphaGray(px[0], px[1], px[2], px[3])
	}
	return grid, nil
}

func alphaGray(r, g, b, a uint8) uint8 {
	alpha := float32(a) / 255
	v := (float32(r)*alpha + float32(g)*alpha + float32(b)*alpha) / 3
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
