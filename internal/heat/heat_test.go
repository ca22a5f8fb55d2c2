package heat

import (
	"image/color"
	"math"
	"testing"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func stopAt(lon, lat float64, trips int) atlas.Feature {
	return atlas.Feature{
		Geometry:   orb.Point{lon, lat},
		Properties: geojson.Properties{"trips": trips},
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		trips, max, want float64
	}{
		{0, 1000, 0},
		{-5, 1000, 0},
		{500, 1000, 0.5},
		{1000, 1000, 1},
		{4500, 1000, 1},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := Weight(tt.trips, tt.max); got != tt.want {
			t.Errorf("Weight(%v, %v): expected %v, got %v", tt.trips, tt.max, tt.want, got)
		}
	}
}

func TestAggregateSameCell(t *testing.T) {
	features := []atlas.Feature{
		stopAt(77.5713, 12.9767, 500),
		stopAt(77.5714, 12.9768, 250),
		stopAt(77.7011, 12.9569, 250),
		stopAt(77.6, 12.9, 0),
		{Geometry: orb.LineString{{77.5, 12.9}, {77.6, 12.9}}},
	}

	s := Aggregate(features, Options{CellMeters: 1000})
	cells := s.Cells()
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if s.Max() != 0.75 {
		t.Errorf("expected max weight 0.75, got %v", s.Max())
	}

	var dense, light Cell
	for _, c := range cells {
		if c.Density == 1 {
			dense = c
		} else {
			light = c
		}
	}
	if dense.Weight != 0.75 {
		t.Errorf("expected combined weight 0.75, got %v", dense.Weight)
	}
	if math.Abs(light.Density-1.0/3.0) > 1e-9 {
		t.Errorf("expected density 1/3, got %v", light.Density)
	}
}

func TestAggregateRadius(t *testing.T) {
	s := Aggregate([]atlas.Feature{stopAt(77.6, 12.97, 1000)}, Options{CellMeters: 500, Radius: 1})

	cells := s.Cells()
	if len(cells) != 9 {
		t.Fatalf("expected 3x3 spread, got %d cells", len(cells))
	}
	for _, c := range cells {
		if c.Weight <= 0 || c.Weight > 1 {
			t.Errorf("cell weight out of range: %v", c.Weight)
		}
	}
	if cells[4].Density != 1 {
		t.Errorf("expected the centre cell to be densest, got %v", cells[4].Density)
	}
}

func TestSurfaceCollection(t *testing.T) {
	s := Aggregate([]atlas.Feature{stopAt(77.6, 12.97, 1000)}, Options{})
	fc := s.Collection()

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(fc.Features))
	}
	f := fc.Features[0]
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected polygon, got %T", f.Geometry)
	}
	if !poly[0].Closed() {
		t.Error("cell ring not closed")
	}
	if !poly.Bound().Contains(orb.Point{77.6, 12.97}) {
		t.Error("cell does not contain its stop")
	}
	if f.Properties.MustString("fill", "") != "#b2182b" {
		t.Errorf("expected top ramp colour, got %v", f.Properties["fill"])
	}
}

func TestRamp(t *testing.T) {
	if got := Ramp(0); got.A != 0 {
		t.Errorf("zero density should be transparent, got %v", got)
	}
	if got := Ramp(1); got != (color.RGBA{178, 24, 43, 255}) {
		t.Errorf("unexpected top colour %v", got)
	}
	if got := Ramp(0.4); got != (color.RGBA{209, 229, 240, 255}) {
		t.Errorf("expected exact stop at 0.4, got %v", got)
	}
	mid := Ramp(0.5)
	if mid.R != 231 || mid.G != 224 || mid.B != 220 {
		t.Errorf("unexpected interpolation at 0.5: %v", mid)
	}
	if Hex(color.RGBA{1, 2, 255, 0}) != "#0102ff" {
		t.Error("hex formatting")
	}
}
