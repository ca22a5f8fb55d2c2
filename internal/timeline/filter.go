package timeline

import "github.com/blrviz/blrviz/internal/atlas"

// Filter returns the features whose year is known and no later than threshold,
// in their original order. Unknown years are never included, whatever the
// threshold.
func Filter(features []atlas.Feature, threshold int) []atlas.Feature {
	out := make([]atlas.Feature, 0, len(features))
	for _, f := range features {
		if f.HasYear() && f.Year <= threshold {
			out = append(out, f)
		}
	}
	return out
}

// Completed returns the features whose year is exactly year.
func Completed(features []atlas.Feature, year int) []atlas.Feature {
	var out []atlas.Feature
	if year <= 0 {
		return out
	}
	for _, f := range features {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out
}

// Counts returns the size of the filtered view for every year in r, starting
// at r.Min.
func Counts(features []atlas.Feature, r Range) []int {
	if !r.Valid() {
		return nil
	}
	perYear := make([]int, r.Len())
	before := 0
	for _, f := range features {
		switch {
		case !f.HasYear() || f.Year > r.Max:
		case f.Year < r.Min:
			before++
		default:
			perYear[f.Year-r.Min]++
		}
	}

	counts := make([]int, r.Len())
	running := before
	for i, n := range perYear {
		running += n
		counts[i] = running
	}
	return counts
}
