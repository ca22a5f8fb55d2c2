package render

import (
	"encoding/json"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
)

// GeoJSONSink writes one FeatureCollection file per frame.
type GeoJSONSink struct {
	Dir    string
	Prefix string
	Indent bool
}

func NewGeoJSONSink(dir, prefix string) *GeoJSONSink {
	return &GeoJSONSink{Dir: dir, Prefix: prefix}
}

func (s *GeoJSONSink) Render(year int, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	return writeFile(framePath(s.Dir, s.Prefix, "geojson", year), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		if s.Indent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(fc)
	})
}

// Path returns the file a frame for year is written to.
func (s *GeoJSONSink) Path(year int) string {
	return framePath(s.Dir, s.Prefix, "geojson", year)
}

// NDJSONSink streams one JSON object per frame, suitable for piping into
// other tools.
type NDJSONSink struct {
	enc *json.Encoder
}

type ndjsonFrame struct {
	Year       int                        `json:"year,omitempty"`
	Count      int                        `json:"count"`
	Collection *geojson.FeatureCollection `json:"collection"`
}

func NewNDJSONSink(w io.Writer) *NDJSONSink {
	return &NDJSONSink{enc: json.NewEncoder(w)}
}

func (s *NDJSONSink) Render(year int, fc *geojson.FeatureCollection) error {
	return s.enc.Encode(ndjsonFrame{Year: year, Count: len(fc.Features), Collection: fc})
}
