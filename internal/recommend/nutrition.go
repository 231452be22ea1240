package recommend

import (
	"fmt"

	"github.com/starford/raido/internal/apperr"
)

// NutrientCount is the dimensionality of a recipe nutrition vector:
// [calories, totalFat, sugar, sodium, protein, saturatedFat, carbs],
// percent daily value except calories.
const NutrientCount = 7

// Nutrients names the vector dimensions, in order.
var Nutrients = [NutrientCount]string{
	"calories", "total_fat", "sugar", "sodium", "protein", "saturated_fat", "carbs",
}

// Range is a per-nutrient acceptance band. Bounds are exclusive: a recipe
// whose value equals Low or High is filtered out.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v lies strictly inside the range.
func (r Range) Contains(v float64) bool {
	return v > r.Low && v < r.High
}

// NutrientRanges computes, independently per nutrient dimension, the
// lowPct and highPct percentiles across vectors. Vectors shorter than
// NutrientCount are ignored. Returns apperr.ErrEmptyProfile when no
// usable vectors remain; a percentile over zero rows is not meaningful
// and must never produce a degenerate (0,0) band.
func NutrientRanges(vectors [][]float64, lowPct, highPct float64) ([NutrientCount]Range, error) {
	var ranges [NutrientCount]Range

	var usable [][]float64
	for _, v := range vectors {
		if len(v) >= NutrientCount {
			usable = append(usable, v)
		}
	}
	if len(usable) == 0 {
		return ranges, fmt.Errorf("nutrient ranges: %w", apperr.ErrEmptyProfile)
	}

	dim := make([]float64, len(usable))
	for i := 0; i < NutrientCount; i++ {
		for j, v := range usable {
			dim[j] = v[i]
		}
		ranges[i] = Range{Low: quantile(dim, lowPct), High: quantile(dim, highPct)}
	}
	return ranges, nil
}

// inAllRanges reports whether every nutrient value of vec lies strictly
// inside the corresponding range. Vectors of the wrong dimensionality
// never qualify.
func inAllRanges(vec []float64, ranges [NutrientCount]Range) bool {
	if len(vec) < NutrientCount {
		return false
	}
	for i := 0; i < NutrientCount; i++ {
		if !ranges[i].Contains(vec[i]) {
			return false
		}
	}
	return true
}
