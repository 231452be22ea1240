package recommend

import "math"

// Relevance computes the per-axis score for a candidate:
//
//	(matched / total) * ln(1 + total)
//
// The ratio rewards high overlap proportion; the logarithmic factor
// dampens the ratio's bias toward recipes with very few items without
// cancelling the proportion signal. total must be positive; candidates
// with an empty axis never reach the scorer.
func Relevance(matched, total int) float64 {
	return float64(matched) / float64(total) * math.Log(1+float64(total))
}
