package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	playDt    float64
	playTime  float64
	saveRun   bool
	benchTick int
	benchReal time.Duration
)

func runCommands() []*cobra.Command {
	playCmd := &cobra.Command{
		Use:   "play [scenario]",
		Short: "run a scenario headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playScenario,
	}
	playCmd.Flags().Float64Var(&playDt, "dt", 1.0/60, "timestep")
	playCmd.Flags().Float64Var(&playTime, "time", 10, "duration")
	playCmd.Flags().BoolVar(&saveRun, "save", true, "record the run to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame computation",
		Args:  cobra.NoArgs,
		RunE:  benchModel,
	}
	benchCmd.Flags().IntVar(&benchTick, "ticks", 100000, "frames to compute")
	benchCmd.Flags().DurationVar(&benchReal, "realtime", 0, "drive the wall-clock loop for this long instead")

	return []*cobra.Command{playCmd, listCmd, plotCmd, exportJSONCmd, benchCmd}
}

func playScenario(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := cmd.Flags().Set("scenario", args[0]); err != nil {
			return err
		}
	}
	ss, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer ss.Close()
	if ss.player == nil {
		return fmt.Errorf("play needs a scenario: pass a file or --scenario")
	}

	rec := storage.NewRecorder()
	ss.sim.AddObserver(rec)

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	var last sim.Frame
	if err := automation.Play(ctx, ss.sim, ss.player, playDt, playTime, func(f sim.Frame) { last = f }); err != nil {
		return err
	}
	logger.Info("scenario finished", "name", ss.player.Name(), "frames", last.Index+1, "elapsed", time.Since(start))

	fmt.Printf("%s: %d frames over %.2fs\n", ss.player.Name(), last.Index+1, last.Time)
	fmt.Printf("final n=%d  box %s\n", last.Params.Energy, last.Params.Box)
	fmt.Printf("final %s\n", last.Position)
	printMetrics(ss.sim.Metrics())

	if !saveRun {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(rec, storage.RunMetadata{
		Scenario: ss.player.Name(),
		Dt:       playDt,
		Metrics:  ss.sim.Metrics(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n", runID)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range names {
		fmt.Fprintf(w, "  %s\t%.4f\n", k, m[k])
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSCENARIO\tFRAMES\tDURATION\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n", r.ID, r.Model, r.Scenario, r.Frames, r.Duration, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	series := [][]float64{
		make([]float64, len(samples)),
		make([]float64, len(samples)),
		make([]float64, len(samples)),
	}
	for i, s := range samples {
		series[0][i], series[1][i], series[2][i] = s.X, s.Y, s.Z
	}

	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.SeriesLegends("x", "y", "z"),
		asciigraph.Caption(fmt.Sprintf("%s  %s  %.2fs", meta.Model, meta.Scenario, meta.Duration)),
	))
	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	ss, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer ss.Close()

	if benchReal > 0 {
		return benchLoop(ss)
	}

	start := time.Now()
	for i := 0; i < benchTick; i++ {
		if _, err := ss.sim.Tick(1.0 / 60); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", ss.cfg.Model)
	fmt.Fprintf(w, "frames\t%d\n", benchTick)
	fmt.Fprintf(w, "elapsed\t%s\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(w, "frames/s\t%.0f\n", float64(benchTick)/elapsed.Seconds())
	}
	return w.Flush()
}

// countingRenderer accepts every frame and remembers the last one.
type countingRenderer struct {
	last sim.Frame
}

func (r *countingRenderer) Ready() bool { return true }

func (r *countingRenderer) Render(f sim.Frame) error {
	r.last = f
	return nil
}

func benchLoop(ss *session) error {
	ctx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, benchReal)
	defer cancel()

	r := &countingRenderer{}
	stats, err := ss.sim.Run(ctx, r, time.Second/time.Duration(ss.cfg.FPS))
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", ss.cfg.Model)
	fmt.Fprintf(w, "rendered\t%d\n", stats.Rendered)
	fmt.Fprintf(w, "skipped\t%d\n", stats.Skipped)
	fmt.Fprintf(w, "failed\t%d\n", stats.Failed)
	fmt.Fprintf(w, "sim time\t%.3fs\n", ss.sim.Time())
	fmt.Fprintf(w, "last\t%s\n", r.last.Position)
	return w.Flush()
}
