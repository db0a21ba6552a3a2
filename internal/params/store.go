// Package params holds the user-controlled simulation input.
//
// Input surfaces never mutate fields directly. They send a [Message] to a
// [Store], which validates and clamps it and bumps a version counter when the
// value actually changes. The frame loop reads a consistent snapshot once per
// tick and compares versions to know when the trail must be discarded.
package params

import (
	"math"
	"sync"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Limits bounds the values a Store accepts.
type Limits struct {
	MinEnergy    int     `yaml:"min_energy"`
	MaxEnergy    int     `yaml:"max_energy"`
	MinDimension float64 `yaml:"min_dimension"`
	MaxDimension float64 `yaml:"max_dimension"`
}

func DefaultLimits() Limits {
	return Limits{
		MinEnergy:    1,
		MaxEnergy:    10,
		MinDimension: dynamo.MinDimension,
		MaxDimension: 10,
	}
}

func (l Limits) clampEnergy(n int) dynamo.EnergyLevel {
	lo := l.MinEnergy
	if lo < 1 {
		lo = 1
	}
	if n < lo {
		n = lo
	}
	if l.MaxEnergy >= lo && n > l.MaxEnergy {
		n = l.MaxEnergy
	}
	return dynamo.EnergyLevel(n)
}

func (l Limits) clampBox(b dynamo.Box) dynamo.Box {
	lo := l.MinDimension
	if lo <= 0 || math.IsNaN(lo) {
		lo = dynamo.MinDimension
	}
	return b.Clamp(lo, l.MaxDimension)
}

// Store is a mutex-guarded Params value with a change counter.
type Store struct {
	mu      sync.RWMutex
	params  dynamo.Params
	limits  Limits
	version uint64
}

// NewStore clamps initial into limits. Non-finite sides fall back to the default box.
func NewStore(initial dynamo.Params, limits Limits) *Store {
	if !initial.Box.Finite() {
		initial.Box = dynamo.DefaultParams().Box
	}
	return &Store{
		params: dynamo.Params{
			Energy: limits.clampEnergy(int(initial.Energy)),
			Box:    limits.clampBox(initial.Box),
		},
		limits: limits,
	}
}

// Apply runs msg against the current value. It reports whether the value
// changed. On error the store is left untouched.
func (s *Store) Apply(msg Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := msg.apply(s.params, s.limits)
	if err != nil {
		return false, err
	}
	if next == s.params {
		return false, nil
	}
	s.params = next
	s.version++
	return true, nil
}

// Snapshot returns the current value and its version.
func (s *Store) Snapshot() (dynamo.Params, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params, s.version
}

func (s *Store) Params() dynamo.Params {
	p, _ := s.Snapshot()
	return p
}

func (s *Store) Limits() Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}
