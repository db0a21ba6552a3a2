package config

import (
	"sort"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Presets are named starting points. Fields left zero take DefaultConfig values.
var Presets = map[string]*Config{
	"ground": {
		Model: "product_sine", EnergyLevel: 1,
		Box: dynamo.Box{Width: 2, Height: 2, Depth: 2},
	},
	"excited": {
		Model: "product_sine", EnergyLevel: 5,
		Box:   dynamo.Box{Width: 2.3, Height: 2.7, Depth: 3.1},
		Trail: TrailConfig{Length: 300, Stride: 1},
	},
	"slab": {
		Model: "product_sine", EnergyLevel: 2,
		Box: dynamo.Box{Width: 4, Height: 0.6, Depth: 3},
	},
	"needle": {
		Model: "product_sine", EnergyLevel: 3,
		Box:   dynamo.Box{Width: 0.7, Height: 5, Depth: 0.9},
		Trail: TrailConfig{Length: 200, Stride: 2},
	},
	"coupled": {
		Model: "coupled", EnergyLevel: 3,
		Box:   dynamo.Box{Width: 2, Height: 2, Depth: 2},
		Trail: TrailConfig{Length: 100, Stride: 3},
	},
}

// GetPreset returns a complete config for name, or nil when unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.EnergyLevel = p.EnergyLevel
	cfg.Box = p.Box
	if p.Trail.Length > 0 {
		cfg.Trail.Length = p.Trail.Length
	}
	if p.Trail.Stride > 0 {
		cfg.Trail.Stride = p.Trail.Stride
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
