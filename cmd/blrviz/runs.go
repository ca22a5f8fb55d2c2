package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/blrviz/blrviz/internal/storage"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Runs)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVIEW\tTIME\tRANGE\tFRAMES\tFEATURES\tNO YEAR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.View,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Range,
			run.Frames,
			run.Features,
			run.Unknown,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.Runs)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	counts, err := st.LoadCounts(runID)
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("view: %s\n", meta.View)
	fmt.Printf("frames: %d\n\n", len(counts))

	data := make([]float64, len(counts))
	for i, c := range counts {
		data[i] = float64(c.Count)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("features by year, %d-%d", counts[0].Year, counts[len(counts)-1].Year)),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Runs)
	summary, err := st.Summary(args[0])
	if err != nil {
		return err
	}
	if out != "" {
		return storage.ExportJSON(out, summary)
	}
	return storage.WriteJSON(os.Stdout, summary)
}
