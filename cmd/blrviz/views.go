package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/dataset"
	"github.com/blrviz/blrviz/internal/feeder"
	"github.com/blrviz/blrviz/internal/heat"
	"github.com/blrviz/blrviz/internal/logger"
	"github.com/blrviz/blrviz/internal/render"
	"github.com/blrviz/blrviz/internal/storage"
	"github.com/blrviz/blrviz/internal/timeline"
	"github.com/blrviz/blrviz/internal/viz"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
)

func menuEntries() []viz.Entry {
	return []viz.Entry{
		{Name: "flyovers", Description: "flyover construction timeline", Open: func() (tea.Model, error) {
			ds, r, err := loadFlyovers()
			if err != nil {
				return nil, err
			}
			d := timeline.NewDriver(r, cfg.Flyovers.Interval)
			return viz.NewTimelineModel(ds, d, viz.TimelineOptions{Title: "Bengaluru flyovers"}), nil
		}},
		{Name: "feeder", Description: "metro feeder routes and catchments", Open: func() (tea.Model, error) {
			v, err := loadFeeder()
			if err != nil {
				return nil, err
			}
			return v.model(), nil
		}},
		{Name: "heatmap", Description: "bus trips per stop", Open: func() (tea.Model, error) {
			v, err := loadHeatmap()
			if err != nil {
				return nil, err
			}
			return v.model(), nil
		}},
	}
}

// outputDir is where interactive views write frames: the configured output
// directory, but only when --out was given.
func outputDir() string {
	if out == "" {
		return ""
	}
	return cfg.Output
}

// frameSinks builds file sinks in dir for every requested format. It returns
// nil when dir is empty.
func frameSinks(dir, prefix, title string, mapCfg atlas.MapConfig, bound orb.Bound, layers ...render.Layer) (render.Multi, error) {
	if dir == "" {
		return nil, nil
	}
	var sinks render.Multi
	for _, f := range strings.Split(format, ",") {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "geojson":
			sinks = append(sinks, render.NewGeoJSONSink(dir, prefix))
		case "svg":
			sinks = append(sinks, render.NewSVGSink(dir, prefix, bound))
		case "html":
			if mapCfg.AccessToken == "" {
				logger.L().Warn("no MAPBOX_TOKEN set, html frames will not load tiles")
			}
			sinks = append(sinks, render.NewHTMLSink(dir, prefix, title, mapCfg, layers...))
		case "":
		default:
			return nil, fmt.Errorf("unknown format: %s", f)
		}
	}
	return sinks, nil
}

func loadFlyovers() (*atlas.Dataset, timeline.Range, error) {
	r, err := timeline.NewRange(cfg.Flyovers.Range.Min, cfg.Flyovers.Range.Max)
	if err != nil {
		return nil, r, err
	}
	tl, err := cfg.ResolveTimeline()
	if err != nil {
		return nil, r, err
	}
	ds, err := dataset.LoadGeoJSON(cfg.Flyovers.Source, dataset.Options{
		Name:     "flyovers",
		NamePath: cfg.Flyovers.NamePath,
		Timeline: tl,
	})
	if err != nil {
		return nil, r, err
	}

	log := logger.L().WithField("source", cfg.Flyovers.Source)
	if unknown := ds.Unknown(); len(unknown) > 0 {
		log.WithField("names", unknown).Warn("flyovers without a year are never shown")
	}
	lo, hi := ds.Years()
	log.WithFields(map[string]interface{}{"features": ds.Len(), "first": lo, "last": hi}).Info("flyovers loaded")
	return ds, r, nil
}

func flyoverLayers() []render.Layer {
	return []render.Layer{render.LineLayer("flyovers", "#4264fb", 2.5)}
}

func runFlyovers(cmd *cobra.Command, args []string) error {
	ds, r, err := loadFlyovers()
	if err != nil {
		return err
	}

	d := timeline.NewDriver(r, cfg.Flyovers.Interval)
	if cmd.Flags().Changed("year") {
		d.Set(year)
	}

	sinks, err := frameSinks(outputDir(), "flyovers", "Bengaluru flyovers", cfg.Flyovers.Map, ds.Bound(), flyoverLayers()...)
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	if save {
		st := storage.New(cfg.Runs)
		rec, err = st.Record(storage.RunMetadata{
			View:     "flyovers",
			Source:   cfg.Flyovers.Source,
			Range:    r,
			Features: ds.Len(),
			Unknown:  len(ds.Unknown()),
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, rec)
	}

	if headless {
		err = playHeadless(d, ds, sinks)
	} else {
		var sink render.Sink
		if len(sinks) > 0 {
			sink = sinks
		}
		err = runTUI(viz.NewTimelineModel(ds, d, viz.TimelineOptions{
			Title:    "Bengaluru flyovers",
			Sink:     sink,
			Autoplay: autoplay,
		}))
	}

	if rec != nil {
		if cerr := rec.Close(); cerr != nil && err == nil {
			err = cerr
		}
		fmt.Fprintf(os.Stderr, "run id: %s\n", rec.ID())
	}
	return err
}

// playHeadless drives the timeline without a terminal: the current frame
// first, then one frame per tick on stdout as NDJSON.
func playHeadless(d *timeline.Driver, ds *atlas.Dataset, sinks render.Multi) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer d.Close()

	features := ds.Features()
	sink := append(render.Multi{render.NewNDJSONSink(os.Stdout)}, sinks...)
	emit := func() error {
		return sink.Render(d.Year(), atlas.Collection(timeline.Filter(features, d.Year())))
	}

	if err := emit(); err != nil {
		return err
	}

	n := frames
	if n <= 0 {
		n = d.Range().Len()
	}

	next := d.Start()
	for i := 0; i < n && next != nil; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, ok := next().(timeline.TickMsg)
		if !ok {
			return nil
		}
		var advanced bool
		advanced, next = d.Tick(msg)
		if !advanced {
			continue
		}
		if err := emit(); err != nil {
			return err
		}
	}
	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	ds, r, err := loadFlyovers()
	if err != nil {
		return err
	}

	threshold := r.Max
	if cmd.Flags().Changed("year") {
		threshold = year
	}
	visible := timeline.Filter(ds.Features(), threshold)
	fc := atlas.Collection(visible)

	logger.L().WithFields(map[string]interface{}{"year": threshold, "visible": len(visible)}).Info("filtered")

	if out == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	}

	sinks, err := frameSinks(outputDir(), "flyovers", "Bengaluru flyovers", cfg.Flyovers.Map, ds.Bound(), flyoverLayers()...)
	if err != nil {
		return err
	}
	return sinks.Render(threshold, fc)
}

func runFrames(cmd *cobra.Command, args []string) error {
	ds, r, err := loadFlyovers()
	if err != nil {
		return err
	}

	sinks, err := frameSinks(cfg.Output, "flyovers", "Bengaluru flyovers", cfg.Flyovers.Map, ds.Bound(), flyoverLayers()...)
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	if saveFrames {
		st := storage.New(cfg.Runs)
		if err := st.Init(); err != nil {
			return err
		}
		rec, err = st.Record(storage.RunMetadata{
			View:     "flyovers",
			Source:   cfg.Flyovers.Source,
			Range:    r,
			Features: ds.Len(),
			Unknown:  len(ds.Unknown()),
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, rec)
	}

	features := ds.Features()
	err = render.RenderYears(cmd.Context(), sinks, r.Min, r.Max, workers, func(y int) *geojson.FeatureCollection {
		return atlas.Collection(timeline.Filter(features, y))
	})
	if err != nil {
		return err
	}
	for i, n := range timeline.Counts(features, r) {
		fmt.Printf("%d  %3d\n", r.Min+i, n)
	}

	if rec != nil {
		if err := rec.Close(); err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", rec.ID())
	}
	return nil
}

type feederView struct {
	routes, stops, circles []atlas.Feature
}

func loadFeeder() (*feederView, error) {
	ds, err := dataset.LoadGeoJSON(cfg.Feeder.Source, dataset.Options{Name: "metro feeder", NamePath: "name"})
	if err != nil {
		return nil, err
	}
	layers := feeder.Split(ds.Features())
	v := &feederView{
		routes:  feeder.Styled(layers.Routes, "stroke"),
		stops:   layers.Stops,
		circles: feeder.Catchments(layers.Routes, layers.Stops, cfg.Feeder.DiameterKm, cfg.Feeder.Steps),
	}
	logger.L().WithFields(map[string]interface{}{
		"routes":  len(v.routes),
		"stops":   len(v.stops),
		"ignored": len(layers.Other),
	}).Info("feeder loaded")
	return v, nil
}

func (v *feederView) model() viz.OverlayModel {
	return viz.NewOverlayModel([]viz.OverlayLayer{
		{Name: "Catchments", ColourProperty: "fill", Features: v.circles},
		{Name: "Routes", ColourProperty: "stroke", Features: v.routes},
		{Name: "Stops", Colour: "#ffffff", Features: v.stops},
	}, viz.OverlayOptions{Title: "Metro feeder", Inspect: v.stops})
}

func runFeeder(cmd *cobra.Command, args []string) error {
	v, err := loadFeeder()
	if err != nil {
		return err
	}
	if out == "" {
		return runTUI(v.model())
	}

	var all []atlas.Feature
	all = append(all, v.circles...)
	all = append(all, v.routes...)
	all = append(all, v.stops...)
	bound := atlas.NewDataset("feeder", all).Bound()

	sinks, err := frameSinks(outputDir(), "feeder", "Metro feeder", cfg.Feeder.Map, bound,
		render.FillLayer("circles", 0.2),
		render.PropertyLineLayer("routes", 3),
		render.StopLayer("stops", 0),
	)
	if err != nil {
		return err
	}
	return sinks.Render(0, atlas.Collection(all))
}

// stopFields are shown for a selected bus stop, in the TUI readout and in
// the html popup.
var stopFields = []string{"trips", "routes"}

type heatView struct {
	stops   *atlas.Dataset
	surface *heat.Surface
}

func loadHeatmap() (*heatView, error) {
	ds, report, err := dataset.LoadStops(cfg.Heatmap.Source)
	if err != nil {
		return nil, err
	}
	log := logger.L().WithFields(map[string]interface{}{"rows": report.Rows, "loaded": report.Loaded})
	if report.Skipped > 0 {
		log.WithField("skipped", report.Skipped).Warn("malformed stop rows skipped")
	}
	surface := heat.Aggregate(ds.Features(), cfg.Heatmap.Grid)
	log.WithField("cells", len(surface.Cells())).Info("heatmap built")
	return &heatView{stops: ds, surface: surface}, nil
}

func (v *heatView) model() viz.OverlayModel {
	stops := v.stops.Features()
	return viz.NewOverlayModel([]viz.OverlayLayer{
		{Name: "Bus stops", Colour: "#ffffff", Features: stops},
	}, viz.OverlayOptions{
		Title:         "Bus trips",
		Heat:          v.surface,
		Inspect:       stops,
		InspectFields: stopFields,
	})
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	v, err := loadHeatmap()
	if err != nil {
		return err
	}
	if out == "" {
		return runTUI(v.model())
	}

	fc := v.surface.Collection()
	for _, f := range v.stops.Features() {
		fc.Append(f.GeoJSON())
	}

	sinks, err := frameSinks(outputDir(), "heatmap", "Bus trips", cfg.Heatmap.Map, v.stops.Bound(),
		render.FillLayer("heat", 0.8),
		render.StopLayer("busstops", 12.5).WithPopup(stopFields...),
	)
	if err != nil {
		return err
	}
	return sinks.Render(0, fc)
}
