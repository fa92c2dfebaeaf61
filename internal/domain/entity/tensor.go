package entity

// TensorSide сторона входного изображения сети.
const TensorSide = 28

// NormalizedTensor вход сети формы 1×1×28×28.
// 1.0 — штрих цифры, 0.0 — фон.
type NormalizedTensor struct {
	data [TensorSide * TensorSide]float32
}

// Shape возвращает форму тензора в порядке NCHW.
func (t *NormalizedTensor) Shape() []int {
	return []int{1, 1, TensorSide, TensorSide}
}

// At возвращает значение в точке (y, x); вне диапазона — 0.0.
func (t *NormalizedTensor) At(y, x int) float32 {
	if y < 0 || x < 0 || y >= TensorSide || x >= TensorSide {
		return 0
	}
	return t.data[y*TensorSide+x]
}

// Set записывает значение в точку (y, x), вне диапазона ничего не делает.
func (t *NormalizedTensor) Set(y, x int, v float32) {
	if y < 0 || x < 0 || y >= TensorSide || x >= TensorSide {
		return
	}
	t.data[y*TensorSide+x] = v
}

// Flat возвращает копию данных построчно (y, x).
func (t *NormalizedTensor) Flat() []float32 {
	out := make([]float32, len(t.data))
	copy(out, t.data[:])
	return out
}

// ScoreVector сырые оценки сети по классам (логиты).
type ScoreVector []float32

// Prediction результат классификации.
type Prediction struct {
	Digit  int         // распознанная цифра
	Scores ScoreVector // оценки по всем классам
}
