package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/blrviz/blrviz/internal/config"
	"github.com/blrviz/blrviz/internal/logger"
	"github.com/blrviz/blrviz/internal/render"
	"github.com/blrviz/blrviz/internal/timeline"
	"github.com/blrviz/blrviz/internal/viz"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	logFile    string
	theme      string
	preset     string

	// Shared by the views
	source string
	out    string
	format string

	// Flyovers
	year         int
	minYear      int
	maxYear      int
	interval     time.Duration
	autoplay     bool
	headless     bool
	frames       int
	timelineFile string
	save         bool
	saveFrames   bool
	workers      int

	// Feeder
	diameterKm float64
	steps      int

	// Heatmap
	cellMeters float64
	radius     int

	cfg *config.Config

	// logCloser holds the --log-file handle until the command finishes.
	logCloser io.Closer
)

// main registers the commands and opens the view menu when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:               "blrviz",
		Short:             "bengaluru map views in the terminal",
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(viz.NewApp(menuEntries()))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultRuns, "directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with MAPBOX_TOKEN")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", os.Getenv("LOG_FORMAT"), "log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "streets", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	flyoversCmd := &cobra.Command{
		Use:   "flyovers",
		Short: "flyover construction timeline",
		RunE:  runFlyovers,
	}
	addSourceFlags(flyoversCmd)
	addTimelineFlags(flyoversCmd)
	flyoversCmd.Flags().BoolVar(&autoplay, "autoplay", false, "start playing immediately")
	flyoversCmd.Flags().DurationVar(&interval, "interval", timeline.DefaultInterval, "time between autoplay steps")
	flyoversCmd.Flags().BoolVar(&headless, "headless", false, "play without a terminal UI, streaming frames as NDJSON")
	flyoversCmd.Flags().IntVar(&frames, "frames", 0, "frames to play in headless mode (default one full cycle)")
	flyoversCmd.Flags().BoolVar(&save, "save", false, "record the frames as a run")

	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "write the flyovers built by a given year",
		RunE:  runFilter,
	}
	addSourceFlags(filterCmd)
	addTimelineFlags(filterCmd)

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "render one frame per year without waiting",
		RunE:  runFrames,
	}
	addSourceFlags(framesCmd)
	addTimelineFlags(framesCmd)
	framesCmd.Flags().BoolVar(&saveFrames, "save", true, "record the frames as a run")
	framesCmd.Flags().IntVar(&workers, "workers", render.DefaultWorkers, "frames rendered in parallel")

	feederCmd := &cobra.Command{
		Use:   "feeder",
		Short: "metro feeder routes, stops and catchments",
		RunE:  runFeeder,
	}
	addSourceFlags(feederCmd)
	feederCmd.Flags().Float64Var(&diameterKm, "diameter", 0, "catchment circle diameter in km")
	feederCmd.Flags().IntVar(&steps, "steps", 0, "vertices per catchment circle")

	heatmapCmd := &cobra.Command{
		Use:   "heatmap",
		Short: "bus trip density",
		RunE:  runHeatmap,
	}
	addSourceFlags(heatmapCmd)
	heatmapCmd.Flags().Float64Var(&cellMeters, "cell", 0, "grid cell size in metres")
	heatmapCmd.Flags().IntVar(&radius, "radius", 0, "spread radius in cells")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot features per year of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&out, "out", "", "write to a file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets [view]",
		Short: "list available presets for a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for view: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configInitCmd := &cobra.Command{
		Use:   "config-init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "blrviz.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(flyoversCmd, filterCmd, framesCmd, feederCmd, heatmapCmd, listCmd, plotCmd, exportCmd, presetsCmd, configInitCmd)

	if err := rootCmd.Execute(); err != nil {
		closeLog()
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&source, "source", "", "dataset path (overrides config)")
	cmd.Flags().StringVar(&out, "out", "", "output directory for rendered frames")
	cmd.Flags().StringVar(&format, "format", "geojson", "frame formats, comma separated (geojson, svg, html)")
	cmd.Flags().StringVar(&preset, "preset", "", "apply a named preset")
}

func addTimelineFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&year, "year", 0, "year threshold (default the last year)")
	cmd.Flags().IntVar(&minYear, "min-year", timeline.DefaultMinYear, "first year of the slider")
	cmd.Flags().IntVar(&maxYear, "max-year", timeline.DefaultMaxYear, "last year of the slider")
	cmd.Flags().StringVar(&timelineFile, "timeline", "", "yaml table of feature name to year")
}

// setup configures logging and loads the configuration. Flags that were set
// explicitly win over the config file.
func setup(cmd *cobra.Command, args []string) error {
	logOut, err := openLog(logFile)
	if err != nil {
		return err
	}
	log := logger.SetupWith(logLevel, logFormat, logOut)

	config.LoadEnv(envFile)

	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log.WithField("path", configFile).Debug("config loaded")
	}

	if preset != "" {
		view := cmd.Name()
		if view == "filter" || view == "frames" {
			view = "flyovers"
		}
		if !config.Apply(cfg, view, preset) {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(view))
		}
	}

	applyFlags(cmd)
	cfg.ApplyEnv()
	viz.SetTheme(theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// openLog returns stderr, or the named file opened for appending. The file
// stays open until closeLog.
func openLog(path string) (io.Writer, error) {
	if path == "" {
		return os.Stderr, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	logCloser = f
	return f, nil
}

func closeLog() error {
	if logCloser == nil {
		return nil
	}
	logger.L().SetOutput(os.Stderr)
	err := logCloser.Close()
	logCloser = nil
	return err
}

func teardown(cmd *cobra.Command, args []string) error {
	return closeLog()
}

func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		switch cmd.Name() {
		case "feeder":
			cfg.Feeder.Source = source
		case "heatmap":
			cfg.Heatmap.Source = source
		default:
			cfg.Flyovers.Source = source
		}
	}
	if flags.Changed("min-year") {
		cfg.Flyovers.Range.Min = minYear
	}
	if flags.Changed("max-year") {
		cfg.Flyovers.Range.Max = maxYear
	}
	if flags.Changed("interval") {
		cfg.Flyovers.Interval = interval
	}
	if flags.Changed("timeline") {
		cfg.Flyovers.TimelinePath = timelineFile
	}
	if flags.Changed("diameter") {
		cfg.Feeder.DiameterKm = diameterKm
	}
	if flags.Changed("steps") {
		cfg.Feeder.Steps = steps
	}
	if flags.Changed("cell") {
		cfg.Heatmap.Grid.CellMeters = cellMeters
	}
	if flags.Changed("radius") {
		cfg.Heatmap.Grid.Radius = radius
	}
	if flags.Changed("data") {
		cfg.Runs = dataDir
	}
	if flags.Changed("out") && cmd.Name() != "export" {
		cfg.Output = out
	}
	if cfg.Output == "" {
		cfg.Output = config.DefaultOutput
	}
	if cfg.Runs == "" {
		cfg.Runs = config.DefaultRuns
	}
}

func runTUI(model tea.Model) error {
	if logFile == "" {
		logger.L().SetOutput(io.Discard)
	}
	return viz.Run(model)
}
