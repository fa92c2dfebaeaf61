package imagesource

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"digit-vision/internal/domain/entity"
)

const (
	idxImagesMagic = 2051
	idxHeaderSize  = 16

	// больше любого разумного изображения; защищает от битого заголовка
	maxIDXImagePixels = 1 << 24
)

// FromIDX читает одно изображение из файла MNIST в формате IDX.
//
// Формат:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// В MNIST цифра светлая на тёмном фоне, поэтому яркость инвертируется:
// дальше по конвейеру изображение идёт как тёмный штрих на светлом фоне.
func FromIDX(path string, index int) (*entity.IntensityGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrDecodeFailure, path, err)
	}
	defer f.Close()

	return ReadIDX(f, index)
}

// ReadIDX читает изображение index из потока IDX.
func ReadIDX(r io.ReadSeeker, index int) (*entity.IntensityGrid, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: read idx header: %v", entity.ErrDecodeFailure, err)
	}
	if header.Magic != idxImagesMagic {
		return nil, fmt.Errorf("%w: invalid idx magic: got %d, want %d", entity.ErrDecodeFailure, header.Magic, idxImagesMagic)
	}
	if header.Rows == 0 || header.Cols == 0 {
		return nil, fmt.Errorf("%w: idx image is %dx%d", entity.ErrDecodeFailure, header.Cols, header.Rows)
	}
	if index < 0 || index >= int(header.Count) {
		return nil, fmt.Errorf("%w: idx index %d out of range [0,%d)", entity.ErrDecodeFailure, index, header.Count)
	}

	// произведение двух uint32 помещается в uint64 без переполнения
	if uint64(header.Rows)*uint64(header.Cols) > maxIDXImagePixels {
		return nil, fmt.Errorf("%w: idx image %dx%d is too large", entity.ErrDecodeFailure, header.Cols, header.Rows)
	}
	size := int64(header.Rows) * int64(header.Cols)
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: seek idx end: %v", entity.ErrDecodeFailure, err)
	}
	if need := idxHeaderSize + (int64(index)+1)*size; need > end {
		return nil, fmt.Errorf("%w: idx file is truncated: need %d bytes, have %d", entity.ErrDecodeFailure, need, end)
	}
	if _, err := r.Seek(idxHeaderSize+int64(index)*size, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek idx image %d: %v", entity.ErrDecodeFailure, index, err)
	}

	grid := entity.NewIntensityGrid(int(header.Cols), int(header.Rows))
	if _, err := io.ReadFull(r, grid.Pix); err != nil {
		return nil, fmt.Errorf("%w: read idx image %d: %v", entity.ErrDecodeFailure, index, err)
	}
	for i, p := range grid.Pix {
		grid.Pix[i] = 255 - p
	}
	return grid, nil
}
