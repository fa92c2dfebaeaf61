package entity

import "errors"

var (
	// ErrInvalidBufferSize размеры буфера не совпадают с заявленными.
	ErrInvalidBufferSize = errors.New("invalid buffer size")
	// ErrEmptyCanvas на изображении нет штрихов.
	ErrEmptyCanvas = errors.New("empty canvas")
	// ErrDecodeFailure файл изображения не читается.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrModelLoadFailure модель отсутствует или повреждена.
	ErrModelLoadFailure = errors.New("model load failure")
	// ErrInferenceFailure ошибка движка при выполнении запроса.
	ErrInferenceFailure = errors.New("inference failure")
	// ErrEmptyScores движок вернул пустой вектор оценок.
	ErrEmptyScores = errors.New("empty score vector")
)

// UserMessage переводит ошибку классификации в текст для пользователя.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCanvas):
		return "Ничего не нарисовано. Нарисуйте цифру и попробуйте снова."
	case errors.Is(err, ErrInvalidBufferSize):
		return "Некорректный размер изображения."
	case errors.Is(err, ErrDecodeFailure):
		return "Не удалось прочитать изображение."
	case errors.Is(err, ErrModelLoadFailure):
		return "Модель не загружена. Проверьте файл модели."
	case errors.Is(err, ErrInferenceFailure), errors.Is(err, ErrEmptyScores):
		return "Ошибка распознавания. Попробуйте ещё раз."
	default:
		return "Не удалось распознать цифру."
	}
}
