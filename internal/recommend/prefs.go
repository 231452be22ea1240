package recommend

import "github.com/starford/raido/internal/graph"

// Preference is one retained favorite name with its occurrence count.
// RecipeIDs lists the contributing recipes for ingredient preferences.
type Preference struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	RecipeIDs []string `json:"recipe_ids,omitempty"`
}

// ExtractPreferences applies an adaptive threshold to aggregated name
// counts: the pct-th percentile of the set of DISTINCT count values.
// Deduplicating counts before taking the percentile keeps high-frequency
// names from dominating the threshold estimate. Names whose count reaches
// the threshold are retained, preserving the input's descending-count
// order. Empty input yields an empty result.
func ExtractPreferences(counts []graph.NameCount, pct float64) []Preference {
	if len(counts) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(counts))
	var distinct []float64
	for _, nc := range counts {
		if _, ok := seen[nc.Count]; ok {
			continue
		}
		seen[nc.Count] = struct{}{}
		distinct = append(distinct, float64(nc.Count))
	}
	threshold := quantile(distinct, pct)

	var out []Preference
	for _, nc := range counts {
		if float64(nc.Count) >= threshold {
			out = append(out, Preference{Name: nc.Name, Count: nc.Count, RecipeIDs: nc.RecipeIDs})
		}
	}
	return out
}

// Names returns just the names of prefs, in order.
func Names(prefs []Preference) []string {
	out := make([]string, len(prefs))
	for i, p := range prefs {
		out[i] = p.Name
	}
	return out
}
