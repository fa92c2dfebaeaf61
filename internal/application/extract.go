package app

import (
	"digit-vision/internal/domain/entity"
)

// ExtractDigit возвращает индекс максимальной оценки.
// При равенстве побеждает первый индекс.
func ExtractDigit(scores entity.ScoreVector) (int, error) {
	if len(scores) == 0 {
		return 0, entity.ErrEmptyScores
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best, nil
}
