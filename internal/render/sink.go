package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// Sink consumes the filtered view. Static views pass year 0.
type Sink interface {
	Render(year int, fc *geojson.FeatureCollection) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(year int, fc *geojson.FeatureCollection) error

func (f SinkFunc) Render(year int, fc *geojson.FeatureCollection) error {
	return f(year, fc)
}

// Multi fans a frame out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Render(year int, fc *geojson.FeatureCollection) error {
	var errs []error
	for _, s := range m {
		if err := s.Render(year, fc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func framePath(dir, prefix, ext string, year int) string {
	if year > 0 {
		return filepath.Join(dir, fmt.Sprintf("%s-%d.%s", prefix, year, ext))
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", prefix, ext))
}

// writeFile creates path, hands it to write and closes it. A failed close is
// reported when the write itself succeeded.
func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(file, write(file))
}

func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}
