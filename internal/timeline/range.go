package timeline

import (
	"fmt"

	"github.com/blrviz/blrviz/internal/atlas"
)

const (
	DefaultMinYear = 1998
	DefaultMaxYear = 2023
)

// Range is a closed interval of years.
type Range struct {
	Min int `yaml:"min_year"`
	Max int `yaml:"max_year" validate:"gtefield=Min"`
}

func DefaultRange() Range {
	return Range{Min: DefaultMinYear, Max: DefaultMaxYear}
}

func NewRange(min, max int) (Range, error) {
	r := Range{Min: min, Max: max}
	if !r.Valid() {
		return Range{}, fmt.Errorf("%w: %d..%d", atlas.ErrInvalidRange, min, max)
	}
	return r, nil
}

func (r Range) Valid() bool { return r.Min <= r.Max }

func (r Range) Len() int { return r.Max - r.Min + 1 }

func (r Range) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

func (r Range) Clamp(year int) int {
	if year < r.Min {
		return r.Min
	}
	if year > r.Max {
		return r.Max
	}
	return year
}

// Next advances one year, wrapping from Max back to Min.
func (r Range) Next(year int) int {
	year++
	if year > r.Max || year < r.Min {
		return r.Min
	}
	return year
}

// Prev steps back one year, wrapping from Min to Max.
func (r Range) Prev(year int) int {
	year--
	if year < r.Min || year > r.Max {
		return r.Max
	}
	return year
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
