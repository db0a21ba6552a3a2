package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/san-kum/boxsim/internal/audio"
	"github.com/san-kum/boxsim/internal/audio/output"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/camera"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/gui"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string
	dataDir    string

	model       string
	energy      int
	width       float64
	height      float64
	depth       float64
	theme       string
	fps         int
	trailLength int
	withAudio   bool
	scenario    string
	snapshotDir string
	configOut   string

	logger = log.Default()

	logOut *os.File
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "boxsim",
		Short:         "particle in a box, in the terminal or a window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&dataDir, "data", ".boxsim", "data directory for recorded runs")
	pf.StringVar(&model, "model", config.DefaultModel, "motion model")
	pf.IntVarP(&energy, "energy", "n", config.DefaultEnergy, "energy level")
	pf.Float64Var(&width, "width", config.DefaultSide, "box width")
	pf.Float64Var(&height, "height", config.DefaultSide, "box height")
	pf.Float64Var(&depth, "depth", config.DefaultSide, "box depth")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.IntVar(&trailLength, "trail", config.DefaultTrailLength, "trail length in points")
	pf.BoolVar(&withAudio, "audio", false, "sonify the particle")
	pf.StringVar(&scenario, "scenario", "", "scenario file to play (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&snapshotDir, "snapshots", "snapshots", "directory for SVG snapshots")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window view",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				c := config.GetPreset(p)
				fmt.Printf("  %-10s %-13s n=%d  %s\n", p, c.Model, c.EnergyLevel, c.Box)
			}
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list motion models",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range physics.NewRegistry().Names() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if configOut != "" {
				if err := config.Save(configOut, cfg); err != nil {
					return err
				}
				logger.Info("config written", "path", configOut)
				return nil
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write the configuration to a file instead of stdout")

	rootCmd.AddCommand(liveCmd, guiCmd, presetsCmd, modelsCmd, configCmd)
	rootCmd.AddCommand(analysisCommands()...)
	rootCmd.AddCommand(runCommands()...)

	err := rootCmd.Execute()
	if err != nil {
		logger.Error(err)
	}
	if cerr := closeLogFile(); cerr != nil {
		fmt.Fprintln(os.Stderr, "close log file:", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogger sends logs to --log-file, or to stderr for commands that do
// not take over the terminal.
func setupLogger(cmd *cobra.Command) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logOut = f
		w = f
	} else if cmd.Name() == "live" || cmd.Name() == "boxsim" {
		w = io.Discard
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "boxsim",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	log.SetDefault(logger)
	return nil
}

// closeLogFile closes the --log-file handle opened by setupLogger, if any.
func closeLogFile() error {
	if logOut == nil {
		return nil
	}
	err := logOut.Close()
	logOut = nil
	return err
}

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		logger.Debug("preset loaded", "name", preset)
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
		logger.Debug("config loaded", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = model
	}
	if flags.Changed("energy") {
		cfg.EnergyLevel = energy
	}
	if flags.Changed("width") {
		cfg.Box.Width = width
	}
	if flags.Changed("height") {
		cfg.Box.Height = height
	}
	if flags.Changed("depth") {
		cfg.Box.Depth = depth
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("trail") {
		cfg.Trail.Length = trailLength
	}
	if flags.Changed("audio") {
		cfg.Audio = withAudio
	}
	if flags.Changed("scenario") {
		cfg.Scenario = scenario
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type session struct {
	cfg    *config.Config
	reg    *physics.Registry
	sim    *sim.Simulator
	orbit  *camera.Orbit
	player *automation.Player
	audio  *output.Output
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	reg := physics.NewRegistry()
	s, err := cfg.Build(reg)
	if err != nil {
		return nil, err
	}
	s.SetLogger(logger)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	ss := &session{
		cfg:   cfg,
		reg:   reg,
		sim:   s,
		orbit: camera.NewOrbit(cfg.FPS, cfg.Camera.Damping, cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.Distance),
	}

	if cfg.Scenario != "" {
		sc, err := automation.LoadScenario(cfg.Scenario)
		if err != nil {
			return nil, err
		}
		if ss.player, err = automation.NewPlayer(sc); err != nil {
			return nil, err
		}
		logger.Info("scenario loaded", "name", sc.Name, "steps", len(sc.Steps))
	}

	if cfg.Audio {
		synth := audio.NewSynth()
		s.AddObserver(synth)
		out, err := output.Open(synth, logger)
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			ss.audio = out
		}
	}

	logger.Info("session ready", "model", cfg.Model, "n", cfg.EnergyLevel, "box", cfg.Box)
	return ss, nil
}

func (ss *session) Close() {
	if err := ss.audio.Close(); err != nil {
		logger.Warn("audio close failed", "err", err)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	ss, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer ss.Close()

	app := viz.NewApp(ss.sim, ss.orbit, viz.Options{
		FPS:      ss.cfg.FPS,
		Theme:    ss.cfg.Theme,
		Registry: ss.reg,
		Player:   ss.player,
		Snapshot: export.Snapshotter(snapshotDir, ss.orbit, 960, 720),
		Logger:   logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	ss, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer ss.Close()

	return gui.Run(ss.sim, ss.orbit, gui.Options{
		FPS:    ss.cfg.FPS,
		Player: ss.player,
		Logger: logger,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
