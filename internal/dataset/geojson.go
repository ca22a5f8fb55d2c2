package dataset

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/logger"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
)

// RelationNamePath reads the name of the first OSM relation a way belongs to,
// as exported by overpass-turbo.
const RelationNamePath = `\@relations.0.reltags.name`

// Options controls how feature names and years are resolved.
type Options struct {
	// Name labels the dataset.
	Name string
	// NamePath is a gjson path evaluated against each feature's properties.
	// Defaults to "name".
	NamePath string
	// Timeline maps feature names to years. When set it is the only source of
	// years; names missing from it get year 0.
	Timeline map[string]int
	// YearProperty is a gjson path to a numeric year, used when Timeline is nil.
	YearProperty string
}

func LoadGeoJSON(path string, opts Options) (*atlas.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &atlas.LoadError{Path: path, Wrapped: err}
	}
	if opts.Name == "" {
		opts.Name = path
	}
	ds, err := DecodeGeoJSON(data, opts)
	if err != nil {
		return nil, &atlas.LoadError{Path: path, Wrapped: err}
	}
	return ds, nil
}

func DecodeGeoJSON(data []byte, opts Options) (*atlas.Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, atlas.ErrEmptyDataset
	}

	namePath := opts.NamePath
	if namePath == "" {
		namePath = "name"
	}

	log := logger.L().WithField("dataset", opts.Name)
	features := make([]atlas.Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		if gf.Geometry == nil {
			log.WithField("index", i).Debug("skipping feature without geometry")
			continue
		}
		raw := propertiesJSON(gf.Properties)
		name := gjson.GetBytes(raw, namePath).String()
		year := resolveYear(raw, name, opts)
		if year == 0 {
			log.WithField("name", name).Debug("feature has no known year")
		}
		features = append(features, atlas.Feature{
			Name:       name,
			Year:       year,
			Geometry:   gf.Geometry,
			Properties: gf.Properties.Clone(),
		})
	}
	if len(features) == 0 {
		return nil, atlas.ErrEmptyDataset
	}

	log.WithField("features", len(features)).Info("dataset loaded")
	return atlas.NewDataset(opts.Name, features), nil
}

func propertiesJSON(props geojson.Properties) []byte {
	if len(props) == 0 {
		return []byte("{}")
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// resolveYear never fails: anything missing or malformed is year 0.
func resolveYear(raw []byte, name string, opts Options) int {
	if opts.Timeline != nil {
		if name == "" {
			return 0
		}
		return positive(opts.Timeline[name])
	}
	if opts.YearProperty == "" {
		return 0
	}

	res := gjson.GetBytes(raw, opts.YearProperty)
	switch res.Type {
	case gjson.Number:
		return positive(int(res.Int()))
	case gjson.String:
		n, err := strconv.Atoi(res.Str)
		if err != nil {
			return 0
		}
		return positive(n)
	}
	return 0
}

func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
