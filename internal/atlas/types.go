package atlas

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is a named geographic entity. Year 0 means the year is unknown or
// the entity does not exist yet.
type Feature struct {
	Name       string
	Year       int
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// HasYear reports whether the feature carries a known year.
func (f Feature) HasYear() bool {
	return f.Year > 0
}

// GeoJSON builds a geojson feature that shares the geometry and copies the
// properties, adding name and year.
func (f Feature) GeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry)
	for k, v := range f.Properties {
		gf.Properties[k] = v
	}
	if f.Name != "" {
		gf.Properties["name"] = f.Name
	}
	if f.Year > 0 {
		gf.Properties["year"] = f.Year
	}
	return gf
}

// Dataset is an ordered, immutable feature collection loaded once at startup.
type Dataset struct {
	name     string
	features []Feature
	bound    orb.Bound
}

func NewDataset(name string, features []Feature) *Dataset {
	owned := make([]Feature, len(features))
	copy(owned, features)

	var bound orb.Bound
	first := true
	for _, f := range owned {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if first {
			bound, first = b, false
			continue
		}
		bound = bound.Union(b)
	}

	return &Dataset{name: name, features: owned, bound: bound}
}

func (d *Dataset) Name() string { return d.name }

func (d *Dataset) Len() int { return len(d.features) }

// Features returns a copy of the feature slice so callers cannot reorder or
// replace the dataset's entries.
func (d *Dataset) Features() []Feature {
	out := make([]Feature, len(d.features))
	copy(out, d.features)
	return out
}

// Bound covers every feature in the dataset, visible or not. Views use it as a
// stable frame so the map does not jump while the year changes.
func (d *Dataset) Bound() orb.Bound { return d.bound }

// Years returns the smallest and largest known years, or 0, 0 when no feature
// has a year.
func (d *Dataset) Years() (int, int) {
	lo, hi := 0, 0
	for _, f := range d.features {
		if !f.HasYear() {
			continue
		}
		if lo == 0 || f.Year < lo {
			lo = f.Year
		}
		if f.Year > hi {
			hi = f.Year
		}
	}
	return lo, hi
}

// Unknown lists the names of features without a year, in dataset order and
// without duplicates.
func (d *Dataset) Unknown() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range d.features {
		if f.HasYear() || seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		names = append(names, f.Name)
	}
	return names
}

// Collection converts features into a geojson feature collection for render
// sinks. The result is freshly allocated on every call.
func Collection(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.GeoJSON())
	}
	return fc
}

// MapConfig describes the base map a sink draws over. It replaces any
// process-wide token or style setting and is passed to sink constructors.
type MapConfig struct {
	AccessToken string     `yaml:"access_token"`
	Style       string     `yaml:"style" validate:"required"`
	Center      [2]float64 `yaml:"center"`
	Zoom        float64    `yaml:"zoom" validate:"gte=0,lte=22"`
	MinZoom     float64    `yaml:"min_zoom" validate:"gte=0,lte=22"`
	MaxZoom     float64    `yaml:"max_zoom" validate:"gte=0,lte=22,gtefield=MinZoom"`
}
