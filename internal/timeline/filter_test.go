package timeline

import (
	"reflect"
	"testing"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/paulmach/orb"
)

func scenario() []atlas.Feature {
	return []atlas.Feature{
		{Name: "A", Year: 2006, Geometry: orb.Point{77.6, 12.9}},
		{Name: "B", Year: 0, Geometry: orb.Point{77.5, 12.8}},
		{Name: "C", Year: 2020, Geometry: orb.Point{77.7, 13.0}},
	}
}

func names(fs []atlas.Feature) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

func TestFilterScenario(t *testing.T) {
	tests := []struct {
		threshold int
		expected  []string
	}{
		{2010, []string{"A"}},
		{2023, []string{"A", "C"}},
		{1998, []string{}},
		{2006, []string{"A"}},
		{0, []string{}},
		{-5, []string{}},
	}

	for _, tt := range tests {
		got := names(Filter(scenario(), tt.threshold))
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("threshold %d: expected %v, got %v", tt.threshold, tt.expected, got)
		}
	}
}

func TestFilterKeepsYears(t *testing.T) {
	got := Filter(scenario(), 2023)
	if got[0].Year != 2006 || got[1].Year != 2020 {
		t.Errorf("unexpected years %d, %d", got[0].Year, got[1].Year)
	}
}

func TestFilterEmpty(t *testing.T) {
	if got := Filter(nil, 2023); len(got) != 0 {
		t.Errorf("expected empty result, got %d features", len(got))
	}
}

func TestFilterProperties(t *testing.T) {
	features := []atlas.Feature{
		{Name: "a", Year: 2001}, {Name: "b", Year: 0}, {Name: "c", Year: 1998},
		{Name: "d", Year: 2023}, {Name: "e", Year: 2010}, {Name: "f", Year: -3},
		{Name: "g", Year: 2010}, {Name: "h", Year: 2030},
	}

	for t1 := 1990; t1 <= 2035; t1++ {
		got := Filter(features, t1)
		for _, f := range got {
			if f.Year <= 0 || f.Year > t1 {
				t.Fatalf("threshold %d: unexpected feature %s (%d)", t1, f.Name, f.Year)
			}
		}

		again := Filter(got, t1)
		if !reflect.DeepEqual(names(again), names(got)) {
			t.Fatalf("threshold %d: filter is not idempotent", t1)
		}

		for t2 := t1; t2 <= 2035; t2++ {
			wider := make(map[string]bool)
			for _, f := range Filter(features, t2) {
				wider[f.Name] = true
			}
			for _, f := range got {
				if !wider[f.Name] {
					t.Fatalf("%s visible at %d but not at %d", f.Name, t1, t2)
				}
			}
		}
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	features := scenario()
	before := names(features)

	out := Filter(features, 2023)
	out[0].Name = "changed"

	if !reflect.DeepEqual(names(features), before) {
		t.Error("input slice was mutated")
	}
}

func TestCompleted(t *testing.T) {
	got := Completed(scenario(), 2020)
	if len(got) != 1 || got[0].Name != "C" {
		t.Errorf("expected [C], got %v", names(got))
	}
	if got := Completed(scenario(), 0); len(got) != 0 {
		t.Errorf("year 0 must match nothing, got %v", names(got))
	}
}

func TestCounts(t *testing.T) {
	features := append(scenario(), atlas.Feature{Name: "old", Year: 1990})
	r := Range{Min: 2005, Max: 2008}

	got := Counts(features, r)
	expected := []int{1, 2, 2, 2}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	for i, year := 0, r.Min; year <= r.Max; i, year = i+1, year+1 {
		if got[i] != len(Filter(features, year)) {
			t.Errorf("count for %d disagrees with Filter", year)
		}
	}

	if Counts(features, Range{Min: 3, Max: 1}) != nil {
		t.Error("expected nil for invalid range")
	}
}
