package services

import (
	"math"

	"github.com/confjudge/api-server/internal/models"
)

// round2 rounds to two decimal places, matching the precision grades
// and report averages are published with.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// flatAverage averages every criterion score across the given
// evaluations. Returns 0 when there are no scores at all.
func flatAverage(evaluations []models.Evaluation) float64 {
	var sum float64
	var n int
	for _, e := range evaluations {
		for _, sc := range e.Scores {
			sum += sc.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
