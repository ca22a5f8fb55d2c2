package atlas

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func sample() []Feature {
	return []Feature{
		{Name: "A", Year: 2006, Geometry: orb.LineString{{77.5, 12.9}, {77.6, 13.0}}},
		{Name: "B", Year: 0, Geometry: orb.Point{77.7, 12.8}},
		{Name: "C", Year: 2020, Geometry: orb.Point{77.4, 13.1}},
		{Name: "B", Year: 0, Geometry: orb.Point{77.71, 12.81}},
	}
}

func TestDatasetBound(t *testing.T) {
	ds := NewDataset("test", sample())

	b := ds.Bound()
	if b.Min.Lon() != 77.4 || b.Max.Lon() != 77.71 {
		t.Errorf("unexpected lon range %v..%v", b.Min.Lon(), b.Max.Lon())
	}
	if b.Min.Lat() != 12.8 || b.Max.Lat() != 13.1 {
		t.Errorf("unexpected lat range %v..%v", b.Min.Lat(), b.Max.Lat())
	}
}

func TestDatasetYears(t *testing.T) {
	lo, hi := NewDataset("test", sample()).Years()
	if lo != 2006 || hi != 2020 {
		t.Errorf("expected 2006..2020, got %d..%d", lo, hi)
	}

	lo, hi = NewDataset("empty", nil).Years()
	if lo != 0 || hi != 0 {
		t.Errorf("expected 0..0 for empty dataset, got %d..%d", lo, hi)
	}
}

func TestDatasetUnknown(t *testing.T) {
	names := NewDataset("test", sample()).Unknown()
	if len(names) != 1 || names[0] != "B" {
		t.Errorf("expected [B], got %v", names)
	}
}

func TestDatasetFeaturesIsCopy(t *testing.T) {
	ds := NewDataset("test", sample())
	fs := ds.Features()
	fs[0].Year = 1900

	if ds.Features()[0].Year != 2006 {
		t.Error("dataset was mutated through Features()")
	}
}

func TestCollection(t *testing.T) {
	f := sample()[0]
	f.Properties = geojson.Properties{"ref": "Purple"}

	fc := Collection([]Feature{f})
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	props := fc.Features[0].Properties
	if props.MustString("name", "") != "A" {
		t.Errorf("expected name A, got %v", props["name"])
	}
	if props.MustInt("year", 0) != 2006 {
		t.Errorf("expected year 2006, got %v", props["year"])
	}
	if props.MustString("ref", "") != "Purple" {
		t.Error("source property not carried over")
	}
	if _, ok := f.Properties["name"]; ok {
		t.Error("source properties were mutated")
	}
}
