package vision

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"digit-vision/internal/domain/entity"
)

// identityResampler отдаёт копию сетки нужного размера без фильтрации.
type identityResampler struct{}

func (identityResampler) Resample(grid *entity.IntensityGrid, width, height int) (*entity.IntensityGrid, error) {
	out := entity.NewIntensityGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, grid.At(x*grid.Width/width, y*grid.Height/height))
		}
	}
	return out, nil
}

func uniformGrid(w, h int, v uint8) *entity.IntensityGrid {
	g := entity.NewIntensityGrid(w, h)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

// ringGrid белый холст с чёрным кольцом — «ноль».
func ringGrid(side int) *entity.IntensityGrid {
	g := uniformGrid(side, side, 255)
	c := float64(side) / 2
	rIn, rOut := float64(side)*0.28, float64(side)*0.42
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			d2 := dx*dx + dy*dy
			if d2 >= rIn*rIn && d2 <= rOut*rOut {
				g.Set(x, y, 0)
			}
		}
	}
	return g
}

func TestThreshold_MidpointAndFallback(t *testing.T) {
	g := uniformGrid(4, 4, 30)
	g.Set(0, 0, 10)
	g.Set(3, 3, 201)
	require.Equal(t, uint8(105), Threshold(g, 50))

	require.Equal(t, uint8(50), Threshold(uniformGrid(4, 4, 90), 50))
}

func TestBinarize_StrictlyGreater(t *testing.T) {
	g := &entity.IntensityGrid{Width: 3, Height: 1, Pix: []uint8{99, 100, 101}}
	out, fg := Binarize(g, 100)
	require.Equal(t, []uint8{0, 0, 255}, out.Pix)
	require.Equal(t, 1, fg)
}

func TestPreprocess_BlankCanvasIsEmpty(t *testing.T) {
	p := NewPreprocessor(NewImagingResampler(), nil)
	ctx := context.Background()

	_, err := p.Preprocess(ctx, uniformGrid(280, 280, 255))
	require.ErrorIs(t, err, entity.ErrEmptyCanvas)

	_, err = p.Preprocess(ctx, uniformGrid(280, 280, 0))
	require.ErrorIs(t, err, entity.ErrEmptyCanvas)
}

func TestPreprocess_InvalidGrid(t *testing.T) {
	p := NewPreprocessor(identityResampler{}, nil)
	_, err := p.Preprocess(context.Background(), &entity.IntensityGrid{Width: 2, Height: 2, Pix: []uint8{1}})
	require.ErrorIs(t, err, entity.ErrInvalidBufferSize)
}

func TestPreprocess_ShapeAndRangeForAnySize(t *testing.T) {
	p := NewPreprocessor(NewImagingResampler(), nil)
	rng := rand.New(rand.NewSource(7))

	sizes := [][2]int{{1, 1}, {3, 5}, {28, 28}, {17, 90}, {280, 280}, {641, 33}}
	for _, sz := range sizes {
		g := entity.NewIntensityGrid(sz[0], sz[1])
		for i := range g.Pix {
			g.Pix[i] = uint8(rng.Intn(256))
		}

		tn, err := p.Preprocess(context.Background(), g)
		if err != nil {
			require.ErrorIs(t, err, entity.ErrEmptyCanvas, "size %v", sz)
			continue
		}
		require.Equal(t, []int{1, 1, 28, 28}, tn.Shape())
		flat := tn.Flat()
		require.Len(t, flat, 28*28)
		for _, v := range flat {
			require.True(t, v == 0 || v == 1, "size %v value %v", sz, v)
		}
	}
}

func TestPreprocess_InkBecomesOne(t *testing.T) {
	p := NewPreprocessor(NewImagingResampler(), nil)

	tn, err := p.Preprocess(context.Background(), ringGrid(280))
	require.NoError(t, err)

	require.Equal(t, float32(0), tn.At(0, 0), "corner is background")
	require.Equal(t, float32(0), tn.At(14, 14), "hole of the zero is background")
	require.Equal(t, float32(1), tn.At(4, 14), "top of the ring is ink")
	require.Equal(t, float32(1), tn.At(14, 4), "left of the ring is ink")
}

func TestPreprocess_ThresholdMonotonicity(t *testing.T) {
	p := NewPreprocessor(identityResampler{}, nil)
	ctx := context.Background()

	g := uniformGrid(28, 28, 0)
	g.Set(0, 0, 200)
	// порог 100: пиксель ниже порога — штрих
	g.Set(5, 7, 60)

	before, err := p.Preprocess(ctx, g)
	require.NoError(t, err)
	require.Equal(t, float32(1), before.At(7, 5))

	bin, _ := Binarize(g, Threshold(g, DefaultFallbackThreshold))
	require.Equal(t, uint8(0), bin.At(5, 7))

	for v := 61; v <= 200; v++ {
		g.Set(5, 7, uint8(v))
		bin, _ := Binarize(g, Threshold(g, DefaultFallbackThreshold))
		after, err := p.Preprocess(ctx, g)
		require.NoError(t, err)
		if v > 100 {
			require.Equal(t, uint8(255), bin.At(5, 7), "value %d", v)
			require.Equal(t, float32(0), after.At(7, 5), "value %d", v)
		} else {
			require.Equal(t, uint8(0), bin.At(5, 7), "value %d", v)
			require.Equal(t, float32(1), after.At(7, 5), "value %d", v)
		}
	}
}

func TestNormalize_InvertsPolarity(t *testing.T) {
	g := uniformGrid(28, 28, 255)
	g.Set(3, 2, 0)

	tn := Normalize(g)
	require.Equal(t, float32(1), tn.At(2, 3))
	require.Equal(t, float32(0), tn.At(0, 0))
}
