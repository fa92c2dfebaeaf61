package imagesource

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"digit-vision/internal/domain/entity"
)

func rgbaBuffer(w, h int, c color.RGBA) []uint8 {
	pix := make([]uint8, 0, w*h*4)
	for i := 0; i < w*h; i++ {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return pix
}

func TestFromRGBA_RejectsShortBuffer(t *testing.T) {
	pix := make([]uint8, 4*3*4-1)
	_, err := FromRGBA(pix, 4, 3)
	require.ErrorIs(t, err, entity.ErrInvalidBufferSize)

	_, err = FromRGBA(nil, 0, 0)
	require.ErrorIs(t, err, entity.ErrInvalidBufferSize)
}

func TestFromRGBA_TransparentIsBlack(t *testing.T) {
	grid, err := FromRGBA(rgbaBuffer(5, 4, color.RGBA{R: 255, G: 120, B: 30, A: 0}), 5, 4)
	require.NoError(t, err)
	require.Equal(t, 5, grid.Width)
	require.Equal(t, 4, grid.Height)
	for _, p := range grid.Pix {
		require.Equal(t, uint8(0), p)
	}
}

func TestFromRGBA_AlphaWeightedAverage(t *testing.T) {
	pix := []uint8{
		255, 255, 255, 255,
		200, 200, 200, 128,
		30, 60, 90, 255,
		0, 0, 0, 255,
	}
	grid, err := FromRGBA(pix, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []uint8{255, 100, 60, 0}, grid.Pix)
}

func TestFromImage_Luma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 255})
	img.Set(2, 0, color.RGBA{0, 255, 0, 255})

	grid, err := FromImage(img)
	require.NoError(t, err)
	require.Equal(t, uint8(255), grid.Pix[0])
	require.Equal(t, uint8(0), grid.Pix[1])
	// зелёный вносит основной вклад в яркость
	require.InDelta(t, 150, int(grid.Pix[2]), 2)
}

func TestFromBytes_PNGKeepsResolution(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	img.SetGray(10, 5, color.Gray{Y: 200})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	grid, err := FromBytes(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 40, grid.Width)
	require.Equal(t, 30, grid.Height)
	require.Equal(t, uint8(200), grid.At(10, 5))
}

func TestFromBytes_Garbage(t *testing.T) {
	_, err := FromBytes([]byte("definitely not an image"))
	require.ErrorIs(t, err, entity.ErrDecodeFailure)

	_, err = FromBytes(nil)
	require.ErrorIs(t, err, entity.ErrDecodeFailure)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, entity.ErrDecodeFailure)
}

func writeIDX(t *testing.T, images ...[]uint8) string {
	t.Helper()
	var buf bytes.Buffer
	header := []uint32{idxImagesMagic, uint32(len(images)), 2, 2}
	require.NoError(t, binary.Write(&buf, binary.BigEndian, header))
	for _, img := range images {
		buf.Write(img)
	}
	path := filepath.Join(t.TempDir(), "images.idx3-ubyte")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestFromIDX_InvertsPolarity(t *testing.T) {
	path := writeIDX(t, []uint8{0, 0, 0, 0}, []uint8{255, 0, 10, 0})

	grid, err := FromIDX(path, 1)
	require.NoError(t, err)
	require.Equal(t, 2, grid.Width)
	require.Equal(t, []uint8{0, 255, 245, 255}, grid.Pix)
}

func TestFromIDX_Errors(t *testing.T) {
	path := writeIDX(t, []uint8{1, 2, 3, 4})

	_, err := FromIDX(path, 1)
	require.ErrorIs(t, err, entity.ErrDecodeFailure)

	var bad bytes.Buffer
	require.NoError(t, binary.Write(&bad, binary.BigEndian, []uint32{2049, 1, 2, 2}))
	_, err = ReadIDX(bytes.NewReader(bad.Bytes()), 0)
	require.ErrorIs(t, err, entity.ErrDecodeFailure)
}

func TestReadIDX_RejectsOversizedHeader(t *testing.T) {
	for _, dims := range [][2]uint32{
		{0xFFFFFFFF, 0xFFFFFFFF},
		{100000, 100000},
		{28, 28}, // заголовок обещает картинку, которой нет в файле
	} {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{idxImagesMagic, 1, dims[0], dims[1]}))

		_, err := ReadIDX(bytes.NewReader(buf.Bytes()), 0)
		require.ErrorIs(t, err, entity.ErrDecodeFailure, "dims %v", dims)
	}
}

func TestFromRGBA_HugeDimensions(t *testing.T) {
	_, err := FromRGBA(make([]uint8, 4), math.MaxInt/4+1, 1)
	require.ErrorIs(t, err, entity.ErrInvalidBufferSize)
}
