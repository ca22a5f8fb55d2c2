package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/logger"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var stopColumns = []string{"stop", "lat", "lon", "routes", "trips"}

// Report summarises a tabular load.
type Report struct {
	Rows    int
	Loaded  int
	Skipped int
}

// LoadStops reads bus stops with route and trip counts from a CSV file with
// the header stop,lat,lon,routes,trips (any column order).
func LoadStops(path string) (*atlas.Dataset, Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Report{}, &atlas.LoadError{Path: path, Wrapped: err}
	}
	defer file.Close()

	ds, report, err := DecodeStops(file, path)
	if err != nil {
		return nil, report, &atlas.LoadError{Path: path, Wrapped: err}
	}
	return ds, report, nil
}

func DecodeStops(r io.Reader, name string) (*atlas.Dataset, Report, error) {
	var report Report

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, report, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var missing []string
	for _, col := range stopColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, report, fmt.Errorf("missing columns %q", missing)
	}

	log := logger.L().WithField("dataset", name)
	features := make([]atlas.Feature, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, err
		}
		report.Rows++

		f, ok := stopFeature(record, idx)
		if !ok {
			report.Skipped++
			log.WithField("row", report.Rows).Warn("skipping malformed stop row")
			continue
		}
		features = append(features, f)
	}
	report.Loaded = len(features)

	if len(features) == 0 {
		return nil, report, atlas.ErrEmptyDataset
	}
	log.WithField("stops", report.Loaded).WithField("skipped", report.Skipped).Info("stops loaded")
	return atlas.NewDataset(name, features), report, nil
}

func stopFeature(record []string, idx map[string]int) (atlas.Feature, bool) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id := field("stop")
	lat, errLat := strconv.ParseFloat(field("lat"), 64)
	lon, errLon := strconv.ParseFloat(field("lon"), 64)
	if id == "" || errLat != nil || errLon != nil {
		return atlas.Feature{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return atlas.Feature{}, false
	}

	routes, _ := strconv.Atoi(field("routes"))
	trips, _ := strconv.Atoi(field("trips"))

	return atlas.Feature{
		Name:     id,
		Geometry: orb.Point{lon, lat},
		Properties: geojson.Properties{
			"id":     id,
			"routes": routes,
			"trips":  trips,
		},
	}, true
}
