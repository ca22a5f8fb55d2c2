package dataset

import (
	"fmt"
	"os"

	"github.com/blrviz/blrviz/internal/atlas"
	"gopkg.in/yaml.v3"
)

// LoadTimeline reads a yaml mapping of feature name to year. A year of 0 marks
// an entity whose date is not known yet.
func LoadTimeline(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &atlas.LoadError{Path: path, Wrapped: err}
	}

	table := make(map[string]int)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, &atlas.LoadError{Path: path, Wrapped: err}
	}
	for name, year := range table {
		if year < 0 {
			return nil, &atlas.LoadError{Path: path, Wrapped: fmt.Errorf("negative year %d for %q", year, name)}
		}
	}
	return table, nil
}

func SaveTimeline(path string, table map[string]int) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
