// Package imagesource приводит файлы и снимки холста к одноканальной сетке яркости.
package imagesource

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"digit-vision/internal/domain/entity"
)

// FromFile читает и декодирует изображение, сохраняя исходное разрешение.
func FromFile(path string) (*entity.IntensityGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrDecodeFailure, path, err)
	}
	defer f.Close()

	return FromReader(f)
}

// FromBytes декодирует изображение из памяти.
func FromBytes(data []byte) (*entity.IntensityGrid, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image data", entity.ErrDecodeFailure)
	}
	return FromReader(bytes.NewReader(data))
}

// FromReader декодирует изображение; EXIF-ориентация фотографий учитывается.
func FromReader(r io.Reader) (*entity.IntensityGrid, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}
	return FromImage(img)
}

// FromImage переводит изображение в яркость по стандартной формуле luma.
func FromImage(img image.Image) (*entity.IntensityGrid, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", entity.ErrDecodeFailure)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", entity.ErrDecodeFailure, b.Dx(), b.Dy())
	}

	// Grayscale кладёт одинаковое значение во все три канала.
	gray := imaging.Grayscale(img)
	grid := entity.NewIntensityGrid(b.Dx(), b.Dy())
	for y := 0; y < grid.Height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < grid.Width; x++ {
			grid.Pix[y*grid.Width+x] = row[x*4]
		}
	}
	return grid, nil
}
