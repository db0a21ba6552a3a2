package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = physics.DefaultModel
	DefaultEnergy      = 1
	DefaultSide        = 2.0
	DefaultTrailLength = 100
	DefaultTrailStride = 1
	DefaultMaxDelta    = 0.1
	DefaultFPS         = 60
	DefaultDistance    = 6.0
	DefaultDamping     = 0.25
	DefaultTheme       = "cyberpunk"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Model       string             `yaml:"model"`
	ModelParams map[string]float64 `yaml:"model_params,omitempty"`
	EnergyLevel int                `yaml:"energy_level"`
	Box         dynamo.Box         `yaml:"box"`
	Limits      params.Limits      `yaml:"limits"`
	Trail       TrailConfig        `yaml:"trail"`
	MaxDelta    float64            `yaml:"max_delta"`
	TimeScale   float64            `yaml:"time_scale"`
	FPS         int                `yaml:"fps"`
	Camera      CameraConfig       `yaml:"camera"`
	Theme       string             `yaml:"theme"`
	Audio       bool               `yaml:"audio"`
	Scenario    string             `yaml:"scenario,omitempty"`
}

type TrailConfig struct {
	Length int `yaml:"length"`
	Stride int `yaml:"stride"`
}

type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	// Damping is the fraction of the remaining orbit applied per frame.
	Damping float64 `yaml:"damping"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		EnergyLevel: DefaultEnergy,
		Box:         dynamo.Box{Width: DefaultSide, Height: DefaultSide, Depth: DefaultSide},
		Limits:      params.DefaultLimits(),
		Trail: TrailConfig{
			Length: DefaultTrailLength,
			Stride: DefaultTrailStride,
		},
		MaxDelta:  DefaultMaxDelta,
		TimeScale: 1.0,
		FPS:       DefaultFPS,
		Camera: CameraConfig{
			Distance: DefaultDistance,
			Yaw:      0.6,
			Pitch:    0.4,
			Damping:  DefaultDamping,
		},
		Theme: DefaultTheme,
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate rejects settings the simulator cannot run with. Out-of-range
// parameters are not errors; the parameter store clamps them.
func (c *Config) Validate() error {
	if c.Trail.Length < 1 {
		return fmt.Errorf("%w: trail.length must be positive, got %d", ErrInvalidConfig, c.Trail.Length)
	}
	if c.Trail.Stride < 1 {
		return fmt.Errorf("%w: trail.stride must be positive, got %d", ErrInvalidConfig, c.Trail.Stride)
	}
	if c.MaxDelta <= 0 {
		return fmt.Errorf("%w: max_delta must be positive, got %f", ErrInvalidConfig, c.MaxDelta)
	}
	if c.TimeScale < 0 {
		return fmt.Errorf("%w: time_scale must be non-negative, got %f", ErrInvalidConfig, c.TimeScale)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("%w: fps must be in 1..240, got %d", ErrInvalidConfig, c.FPS)
	}
	if c.Limits.MaxEnergy != 0 && c.Limits.MaxEnergy < c.Limits.MinEnergy {
		return fmt.Errorf("%w: limits.max_energy below min_energy", ErrInvalidConfig)
	}
	if !c.Box.Finite() {
		return fmt.Errorf("%w: box %v", ErrInvalidConfig, c.Box)
	}
	if c.Camera.Damping < 0 || c.Camera.Damping > 1 {
		return fmt.Errorf("%w: camera.damping must be in [0,1], got %f", ErrInvalidConfig, c.Camera.Damping)
	}
	return nil
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		Energy: dynamo.EnergyLevel(c.EnergyLevel),
		Box:    c.Box,
	}
}

func (c *Config) SimOptions() sim.Options {
	return sim.Options{
		TrailLength: c.Trail.Length,
		TrailStride: c.Trail.Stride,
		MaxDelta:    c.MaxDelta,
		TimeScale:   c.TimeScale,
	}
}

// Store builds a parameter store seeded from the config.
func (c *Config) Store() *params.Store {
	return params.NewStore(c.Params(), c.Limits)
}

// Build assembles the model and simulator described by the config.
func (c *Config) Build(reg *physics.Registry) (*sim.Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	model, err := reg.GetConfigured(c.Model, c.ModelParams)
	if err != nil {
		return nil, err
	}
	return sim.New(model, c.Store(), c.SimOptions())
}
