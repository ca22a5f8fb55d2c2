// Package heat aggregates weighted stop points into a density surface for
// the bus-trip heatmap.
package heat

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
)

const (
	DefaultCellMeters     = 500.0
	DefaultMaxTrips       = 1000.0
	DefaultWeightProperty = "trips"
)

type Options struct {
	CellMeters     float64 `yaml:"cell_meters" validate:"gte=0"`
	Radius         int     `yaml:"radius" validate:"gte=0,lte=20"`
	MaxTrips       float64 `yaml:"max_trips" validate:"gte=0"`
	WeightProperty string  `yaml:"weight_property"`
}

func (o Options) withDefaults() Options {
	if o.CellMeters <= 0 {
		o.CellMeters = DefaultCellMeters
	}
	if o.MaxTrips <= 0 {
		o.MaxTrips = DefaultMaxTrips
	}
	if o.WeightProperty == "" {
		o.WeightProperty = DefaultWeightProperty
	}
	if o.Radius < 0 {
		o.Radius = 0
	}
	return o
}

// Weight maps a trip count linearly onto 0..1, saturating at max.
func Weight(trips, max float64) float64 {
	if max <= 0 || trips <= 0 {
		return 0
	}
	if trips >= max {
		return 1
	}
	return trips / max
}

// Cell is one square of the Web-Mercator grid.
type Cell struct {
	X, Y    int
	Weight  float64
	Density float64
}

type Surface struct {
	opts  Options
	cells []Cell
	max   float64
}

// Aggregate bins point features by weight. Points outside the Mercator range
// and features that are not points are ignored.
func Aggregate(features []atlas.Feature, opts Options) *Surface {
	opts = opts.withDefaults()
	sums := make(map[[2]int]float64)

	for _, f := range features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok || math.Abs(pt.Lat()) > 85.05 {
			continue
		}
		w := Weight(number(f.Properties[opts.WeightProperty]), opts.MaxTrips)
		if w == 0 {
			continue
		}

		m := project.WGS84.ToMercator(pt)
		cx := int(math.Floor(m.X() / opts.CellMeters))
		cy := int(math.Floor(m.Y() / opts.CellMeters))
		spread(sums, cx, cy, w, opts.Radius)
	}

	s := &Surface{opts: opts, cells: make([]Cell, 0, len(sums))}
	for k, w := range sums {
		s.cells = append(s.cells, Cell{X: k[0], Y: k[1], Weight: w})
		if w > s.max {
			s.max = w
		}
	}
	sort.Slice(s.cells, func(i, j int) bool {
		if s.cells[i].Y != s.cells[j].Y {
			return s.cells[i].Y > s.cells[j].Y
		}
		return s.cells[i].X < s.cells[j].X
	})
	for i := range s.cells {
		s.cells[i].Density = s.cells[i].Weight / s.max
	}
	return s
}

// number reads counts decoded from CSV (int) or JSON (float64).
func number(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func spread(sums map[[2]int]float64, cx, cy int, w float64, radius int) {
	if radius == 0 {
		sums[[2]int{cx, cy}] += w
		return
	}
	reach := float64(radius + 1)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d >= reach {
				continue
			}
			sums[[2]int{cx + dx, cy + dy}] += w * (1 - d/reach)
		}
	}
}

// Cells are ordered north to south, then west to east.
func (s *Surface) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

func (s *Surface) Max() float64 { return s.max }

// Polygon returns the cell outline in WGS84.
func (s *Surface) Polygon(c Cell) orb.Polygon {
	size := s.opts.CellMeters
	x0, y0 := float64(c.X)*size, float64(c.Y)*size
	x1, y1 := x0+size, y0+size
	toWGS := project.Mercator.ToWGS84
	ring := orb.Ring{
		toWGS(orb.Point{x0, y0}),
		toWGS(orb.Point{x1, y0}),
		toWGS(orb.Point{x1, y1}),
		toWGS(orb.Point{x0, y1}),
		toWGS(orb.Point{x0, y0}),
	}
	return orb.Polygon{ring}
}

// Collection renders the surface as polygons carrying density, fill colour
// and fill opacity.
func (s *Surface) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range s.cells {
		col := Ramp(c.Density)
		f := geojson.NewFeature(s.Polygon(c))
		f.Properties["density"] = math.Round(c.Density*1000) / 1000
		f.Properties["fill"] = Hex(col)
		f.Properties["fill-opacity"] = math.Round(float64(col.A)/255*100) / 100
		fc.Append(f)
	}
	return fc
}

type stop struct {
	at  float64
	col color.RGBA
}

var ramp = []stop{
	{0, color.RGBA{33, 102, 172, 0}},
	{0.2, color.RGBA{103, 169, 207, 255}},
	{0.4, color.RGBA{209, 229, 240, 255}},
	{0.6, color.RGBA{253, 219, 199, 255}},
	{0.8, color.RGBA{239, 138, 98, 255}},
	{1, color.RGBA{178, 24, 43, 255}},
}

// Ramp interpolates the heatmap colour for a density in 0..1.
func Ramp(density float64) color.RGBA {
	if density <= 0 || math.IsNaN(density) {
		return ramp[0].col
	}
	if density >= 1 {
		return ramp[len(ramp)-1].col
	}
	for i := 1; i < len(ramp); i++ {
		hi := ramp[i]
		if density > hi.at {
			continue
		}
		lo := ramp[i-1]
		t := (density - lo.at) / (hi.at - lo.at)
		return color.RGBA{
			R: lerp(lo.col.R, hi.col.R, t),
			G: lerp(lo.col.G, hi.col.G, t),
			B: lerp(lo.col.B, hi.col.B, t),
			A: lerp(lo.col.A, hi.col.A, t),
		}
	}
	return ramp[len(ramp)-1].col
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
