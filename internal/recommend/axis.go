package recommend

import (
	"fmt"
	"strings"
)

// Axis is one of the filter/score dimensions for candidate generation.
type Axis string

const (
	AxisIngredients Axis = "ingredients"
	AxisNutrition   Axis = "nutrition"
	AxisTags        Axis = "tags"
)

// DefaultAxes is the axis combination used when a caller does not specify any.
var DefaultAxes = []Axis{AxisIngredients, AxisTags}

// ParseAxes parses a comma-separated axis list. An empty string yields
// DefaultAxes; duplicates are collapsed; unknown names are rejected.
func ParseAxes(raw string) ([]Axis, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultAxes, nil
	}
	seen := make(map[Axis]struct{}, 3)
	var out []Axis
	for _, part := range strings.Split(raw, ",") {
		a := Axis(strings.ToLower(strings.TrimSpace(part)))
		switch a {
		case AxisIngredients, AxisNutrition, AxisTags:
		default:
			return nil, fmt.Errorf("unknown axis %q", part)
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

// Weights maps an axis to its fusion weight. Missing axes weigh 1.0, so
// an empty map reproduces the plain additive fusion.
type Weights map[Axis]float64

// For returns the weight for axis a.
func (w Weights) For(a Axis) float64 {
	if v, ok := w[a]; ok {
		return v
	}
	return 1.0
}
