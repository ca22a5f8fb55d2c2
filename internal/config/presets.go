package config

import (
	"sort"
	"time"

	"github.com/blrviz/blrviz/internal/timeline"
)

// bengaluruFlyovers holds the opening year of each flyover, keyed by the
// OSM relation name. Zero marks a flyover whose year is not known yet.
var bengaluruFlyovers = map[string]int{
	"Agara Flyover":                       2010,
	"Ananda Rao Flyover":                  2006,
	"BDA Junction Flyover":                2008,
	"BGS Flyover":                         1998,
	"Basaveshwaranagar Flyover":           2023,
	"Bellandur Flyover":                   2012,
	"Bhadrappa Layout Flyover":            2014,
	"Dairy Circle Flyover":                2004,
	"Delmia Circle Flyover":               2018,
	"Devarabeesanahalli Flyover":          2013,
	"Doddanekundi Flyover":                2018,
	"Domlur Flyover":                      2006,
	"Ganga Nagar Flyover":                 0,
	"HSR Layout 14th Main Flyover":        2012,
	"Hebbal Flyover":                      2003,
	"Hennur Flyover":                      2018,
	"Ibblur Flyover":                      2010,
	"KEB Junction Flyover":                2017,
	"Kalyan Nagar Flyover":                2012,
	"Kanteerava Studio Flyover":           2015,
	"Kengeri Flyover":                     0,
	"Kittur Rani Chenamma Circle Flyover": 2017,
	"Lingarajapuram Flyover":              2004,
	"Mahadevapura Flyover":                0,
	"Manjunath Nagar Flyover":             2018,
	"Mother Dairy Circle Flyover":         2020,
	"Nagawara Flyover":                    2014,
	"Nayandahalli Flyover":                2012,
	"Rajajinagar 1st Block Flyover":       2016,
	"Rashtrotthana Junction Flyover":      2021,
	"Richmond Circle Flyover":             0,
	"Shivanagar Flyover":                  2021,
	"Silk Board Flyover":                  0,
	"Sumanahalli Flyover":                 2010,
	"Tin Factory Flyover":                 2002,
	"Vanivilas Flyover":                   2005,
	"Wheeler Road Flyover":                2013,
	"Yeshwantpura Circle Flyover":         2009,
}

// BengaluruFlyovers returns a copy of the built-in flyover timeline.
func BengaluruFlyovers() map[string]int {
	out := make(map[string]int, len(bengaluruFlyovers))
	for k, v := range bengaluruFlyovers {
		out[k] = v
	}
	return out
}

// Presets are named tweaks applied on top of DefaultConfig, grouped by view.
var Presets = map[string]map[string]func(*Config){
	"flyovers": {
		"full": func(c *Config) {},
		"slow": func(c *Config) {
			c.Flyovers.Interval = time.Second
		},
		"fast": func(c *Config) {
			c.Flyovers.Interval = 100 * time.Millisecond
		},
		"2010s": func(c *Config) {
			c.Flyovers.Range = timeline.Range{Min: 2010, Max: 2019}
		},
	},
	"feeder": {
		"walk": func(c *Config) {
			c.Feeder.DiameterKm = 1.5
		},
		"cycle": func(c *Config) {
			c.Feeder.DiameterKm = 5
			c.Feeder.Steps = 64
		},
	},
	"heatmap": {
		"fine": func(c *Config) {
			c.Heatmap.Grid.CellMeters = 250
			c.Heatmap.Grid.Radius = 4
		},
		"coarse": func(c *Config) {
			c.Heatmap.Grid.CellMeters = 1000
			c.Heatmap.Grid.Radius = 1
		},
		"raw": func(c *Config) {
			c.Heatmap.Grid.Radius = 0
		},
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(view, preset string) *Config {
	viewPresets, ok := Presets[view]
	if !ok {
		return nil
	}
	apply, ok := viewPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply mutates cfg with the named preset. It reports whether the preset
// exists.
func Apply(cfg *Config, view, preset string) bool {
	apply, ok := Presets[view][preset]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets(view string) []string {
	viewPresets, ok := Presets[view]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(viewPresets))
	for name := range viewPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
