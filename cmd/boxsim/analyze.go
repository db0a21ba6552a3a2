package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/optim"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/spf13/cobra"
)

var (
	axisName   string
	axisB      string
	sampleDt   float64
	numSamples int
	maxLevel   int
	duration   float64
	target     float64
	gridSteps  int
	gridMin    float64
	gridMax    float64
)

func analysisCommands() []*cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency analysis across energy levels",
		Args:  cobra.NoArgs,
		RunE:  analyzeEnergy,
	}
	analyzeCmd.Flags().StringVar(&axisName, "axis", "x", "axis to measure")
	analyzeCmd.Flags().Float64Var(&sampleDt, "dt", 0.01, "sample interval")
	analyzeCmd.Flags().IntVar(&numSamples, "samples", 4096, "samples per level")
	analyzeCmd.Flags().IntVar(&maxLevel, "max-n", 10, "highest energy level")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "plot the path projected onto two axes",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&axisName, "x-axis", "x", "horizontal axis")
	phaseCmd.Flags().StringVar(&axisB, "y-axis", "y", "vertical axis")
	phaseCmd.Flags().Float64Var(&sampleDt, "dt", 0.01, "sample interval")
	phaseCmd.Flags().Float64Var(&duration, "time", 20, "duration")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search a box side for a target frequency",
		Args:  cobra.NoArgs,
		RunE:  tuneBox,
	}
	tuneCmd.Flags().StringVar(&axisName, "axis", "x", "axis to tune")
	tuneCmd.Flags().Float64Var(&target, "target", 1, "target frequency in Hz")
	tuneCmd.Flags().Float64Var(&gridMin, "min", 0.5, "smallest side to try")
	tuneCmd.Flags().Float64Var(&gridMax, "max", 5, "largest side to try")
	tuneCmd.Flags().IntVar(&gridSteps, "steps", 46, "grid points")
	tuneCmd.Flags().Float64Var(&sampleDt, "dt", 0.01, "sample interval")
	tuneCmd.Flags().IntVar(&numSamples, "samples", 4096, "samples per candidate")

	return []*cobra.Command{analyzeCmd, phaseCmd, tuneCmd}
}

func analyzeEnergy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	axis, err := automation.ParseAxis(axisName)
	if err != nil {
		return err
	}
	m, err := physics.NewRegistry().GetConfigured(cfg.Model, cfg.ModelParams)
	if err != nil {
		return err
	}

	levels := make([]int, 0, maxLevel)
	for n := 1; n <= maxLevel; n++ {
		levels = append(levels, n)
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := analysis.SweepEnergy(ctx, m, cfg.Box, axis, levels, sampleDt, numSamples)
	if err != nil {
		return err
	}

	fmt.Printf("model %s, %s axis, box %s\n\n", m.Name(), axis, cfg.Box)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tDOMINANT (Hz)\tEXPECTED (Hz)\tMODEL (rad/s)\tRMS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\n", r.N, r.Dominant, r.Expected, r.Frequency, r.RMS)
	}
	w.Flush()

	if analysis.Monotonic(results) {
		fmt.Println("\nfrequency rises with every energy level")
	} else {
		fmt.Println("\nwarning: frequency does not rise monotonically with n")
	}

	p := dynamo.Params{Energy: dynamo.EnergyLevel(cfg.EnergyLevel), Box: cfg.Box}
	bins, err := analysis.Spectrum(analysis.SampleAxis(m, p, axis, sampleDt, numSamples), sampleDt)
	if err != nil {
		return err
	}
	limit := len(bins)
	if limit > 200 {
		limit = 200
	}
	power := make([]float64, limit)
	for i := range power {
		power[i] = bins[i].Power
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(power,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("spectrum at n=%d, 0 to %.2f Hz, peak %.4f Hz",
			cfg.EnergyLevel, bins[limit-1].Freq, analysis.DominantFrequency(bins))),
	))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := automation.ParseAxis(axisName)
	if err != nil {
		return err
	}
	b, err := automation.ParseAxis(axisB)
	if err != nil {
		return err
	}
	m, err := physics.NewRegistry().GetConfigured(cfg.Model, cfg.ModelParams)
	if err != nil {
		return err
	}

	p := dynamo.Params{Energy: dynamo.EnergyLevel(cfg.EnergyLevel), Box: cfg.Box}
	pts := analysis.Portrait(m, p, a, b, sampleDt, duration)
	fmt.Printf("%s vs %s, n=%d, box %s\n", a, b, cfg.EnergyLevel, cfg.Box)
	fmt.Print(analysis.PortraitToASCII(pts, cfg.Box.Dim(a), cfg.Box.Dim(b), 72, 28))
	return nil
}

func tuneBox(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	axis, err := automation.ParseAxis(axisName)
	if err != nil {
		return err
	}
	m, err := physics.NewRegistry().GetConfigured(cfg.Model, cfg.ModelParams)
	if err != nil {
		return err
	}

	g, err := optim.NewGridSearch([]dynamo.Axis{axis}, [][]float64{optim.Linspace(gridMin, gridMax, gridSteps)})
	if err != nil {
		return err
	}
	obj := optim.FrequencyObjective(m, dynamo.EnergyLevel(cfg.EnergyLevel), axis, target, sampleDt, numSamples)

	ctx, cancel := signalContext()
	defer cancel()
	box, score, err := g.Search(ctx, cfg.Box, obj)
	if err != nil {
		return err
	}
	logger.Debug("tune finished", "box", box, "error", score)

	p := dynamo.Params{Energy: dynamo.EnergyLevel(cfg.EnergyLevel), Box: box}
	bins, err := analysis.Spectrum(analysis.SampleAxis(m, p, axis, sampleDt, numSamples), sampleDt)
	if err != nil {
		return err
	}
	fmt.Printf("%s = %.4f gives %.4f Hz (target %.4f Hz)\n", axis, box.Dim(axis), analysis.DominantFrequency(bins), target)
	fmt.Printf("box %s\n", box)
	return nil
}
