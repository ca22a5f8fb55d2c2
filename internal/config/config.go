package config

import (
	"fmt"
	"os"
	"time"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/dataset"
	"github.com/blrviz/blrviz/internal/feeder"
	"github.com/blrviz/blrviz/internal/heat"
	"github.com/blrviz/blrviz/internal/timeline"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutput = "frames"
	DefaultRuns   = "runs"
	TokenEnv      = "MAPBOX_TOKEN"
)

type Config struct {
	Output   string         `yaml:"output"`
	Runs     string         `yaml:"runs"`
	Flyovers FlyoversConfig `yaml:"flyovers"`
	Feeder   FeederConfig   `yaml:"feeder"`
	Heatmap  HeatmapConfig  `yaml:"heatmap"`
}

type FlyoversConfig struct {
	Source       string          `yaml:"source" validate:"required"`
	NamePath     string          `yaml:"name_path"`
	TimelinePath string          `yaml:"timeline_path,omitempty"`
	Timeline     map[string]int  `yaml:"timeline,omitempty" validate:"dive,gte=0"`
	Range        timeline.Range  `yaml:"range"`
	Interval     time.Duration   `yaml:"interval" validate:"gte=0"`
	Map          atlas.MapConfig `yaml:"map"`
}

type FeederConfig struct {
	Source     string          `yaml:"source" validate:"required"`
	DiameterKm float64         `yaml:"diameter_km" validate:"gt=0"`
	Steps      int             `yaml:"steps" validate:"gte=3"`
	Map        atlas.MapConfig `yaml:"map"`
}

type HeatmapConfig struct {
	Source string          `yaml:"source" validate:"required"`
	Grid   heat.Options    `yaml:"grid"`
	Map    atlas.MapConfig `yaml:"map"`
}

func DefaultConfig() *Config {
	return &Config{
		Output: DefaultOutput,
		Runs:   DefaultRuns,
		Flyovers: FlyoversConfig{
			Source:   "data/flyovers.geojson",
			NamePath: dataset.RelationNamePath,
			Timeline: BengaluruFlyovers(),
			Range:    timeline.DefaultRange(),
			Interval: timeline.DefaultInterval,
			Map: atlas.MapConfig{
				Style:   "mapbox://styles/mapbox/streets-v11",
				Center:  [2]float64{77.6081, 12.9737},
				Zoom:    10.39,
				MinZoom: 10,
				MaxZoom: 18,
			},
		},
		Feeder: FeederConfig{
			Source:     "data/metro_feeder.geojson",
			DiameterKm: feeder.DefaultDiameterKm,
			Steps:      feeder.DefaultSteps,
			Map: atlas.MapConfig{
				Style:   "mapbox://styles/mapbox/streets-v12",
				Center:  [2]float64{77.6145, 12.9487},
				Zoom:    11.56,
				MinZoom: 10,
				MaxZoom: 18,
			},
		},
		Heatmap: HeatmapConfig{
			Source: "data/bmtc.csv",
			Grid: heat.Options{
				CellMeters:     heat.DefaultCellMeters,
				Radius:         2,
				MaxTrips:       heat.DefaultMaxTrips,
				WeightProperty: heat.DefaultWeightProperty,
			},
			Map: atlas.MapConfig{
				Style:   "mapbox://styles/mapbox/streets-v11",
				Center:  [2]float64{77.6081, 12.9737},
				Zoom:    10.39,
				MaxZoom: 22,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks field constraints on every view.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// LoadEnv reads .env style files into the process environment. Missing
// files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv copies the map token from the environment into every view that
// has none configured.
func (c *Config) ApplyEnv() {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return
	}
	for _, m := range []*atlas.MapConfig{&c.Flyovers.Map, &c.Feeder.Map, &c.Heatmap.Map} {
		if m.AccessToken == "" {
			m.AccessToken = token
		}
	}
}

// ResolveTimeline returns the name to year table for the flyover view. A
// timeline file takes precedence over the inline table.
func (c *Config) ResolveTimeline() (map[string]int, error) {
	if c.Flyovers.TimelinePath != "" {
		return dataset.LoadTimeline(c.Flyovers.TimelinePath)
	}
	return c.Flyovers.Timeline, nil
}
