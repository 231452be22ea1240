package recommend

import (
	"reflect"
	"testing"
)

func TestParseAxes(t *testing.T) {
	cases := []struct {
		raw  string
		want []Axis
	}{
		{"", DefaultAxes},
		{"  ", DefaultAxes},
		{"ingredients", []Axis{AxisIngredients}},
		{"tags,nutrition", []Axis{AxisTags, AxisNutrition}},
		{"Ingredients, TAGS", []Axis{AxisIngredients, AxisTags}},
		{"tags,tags,ingredients", []Axis{AxisTags, AxisIngredients}},
	}
	for _, c := range cases {
		got, err := ParseAxes(c.raw)
		if err != nil {
			t.Errorf("ParseAxes(%q): %v", c.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseAxes(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestParseAxesRejectsUnknown(t *testing.T) {
	if _, err := ParseAxes("ingredients,flavor"); err == nil {
		t.Error("expected error for unknown axis")
	}
}

func TestWeightsDefaultToOne(t *testing.T) {
	var w Weights
	if w.For(AxisIngredients) != 1.0 {
		t.Errorf("nil weights: For = %v, want 1.0", w.For(AxisIngredients))
	}
	w = Weights{AxisTags: 2.5}
	if w.For(AxisTags) != 2.5 {
		t.Errorf("For(tags) = %v, want 2.5", w.For(AxisTags))
	}
	if w.For(AxisIngredients) != 1.0 {
		t.Errorf("unset axis: For = %v, want 1.0", w.For(AxisIngredients))
	}
}
