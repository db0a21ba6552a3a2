// Package automation plays scripted parameter changes against a running
// simulation.
//
// A scenario is a YAML list of steps, each due at a simulation time:
//
//	name: breathe
//	steps:
//	  - at: 0
//	    energy: 1
//	  - at: 2.5
//	    axis: height
//	    value: 4
//	  - at: 5
//	    box: {width: 1, height: 1, depth: 3}
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/sim"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Loop restarts the steps when the last one is released, so a step at
	// t=0 coincides with the last step of the previous round.
	Loop  bool   `yaml:"loop,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step changes one or more parameters at time At. Fields are applied in the
// order reset, energy, step_energy, box, axis.
type Step struct {
	At         float64     `yaml:"at"`
	Reset      bool        `yaml:"reset,omitempty"`
	Energy     *int        `yaml:"energy,omitempty"`
	StepEnergy int         `yaml:"step_energy,omitempty"`
	Box        *dynamo.Box `yaml:"box,omitempty"`
	Axis       string      `yaml:"axis,omitempty"`
	Value      float64     `yaml:"value,omitempty"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return &s, nil
}

// Messages converts the step into store messages.
func (st Step) Messages() ([]params.Message, error) {
	if st.At < 0 || math.IsNaN(st.At) || math.IsInf(st.At, 0) {
		return nil, fmt.Errorf("%w: at=%v", ErrInvalidScenario, st.At)
	}
	msgs := make([]params.Message, 0, 2)
	if st.Reset {
		msgs = append(msgs, params.Reset{To: dynamo.DefaultParams()})
	}
	if st.Energy != nil {
		msgs = append(msgs, params.SetEnergyLevel{N: *st.Energy})
	}
	if st.StepEnergy != 0 {
		msgs = append(msgs, params.StepEnergy{Delta: st.StepEnergy})
	}
	if st.Box != nil {
		if !st.Box.Finite() {
			return nil, fmt.Errorf("%w: box %v", ErrInvalidScenario, *st.Box)
		}
		msgs = append(msgs, params.SetBoxDimensions{Width: st.Box.Width, Height: st.Box.Height, Depth: st.Box.Depth})
	}
	if st.Axis != "" {
		a, err := ParseAxis(st.Axis)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, params.SetBoxAxis{Axis: a, Value: st.Value})
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: step at %gs changes nothing", ErrInvalidScenario, st.At)
	}
	return msgs, nil
}

// ParseAxis accepts x/y/z or width/height/depth.
func ParseAxis(s string) (dynamo.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "width":
		return dynamo.AxisX, nil
	case "y", "height":
		return dynamo.AxisY, nil
	case "z", "depth":
		return dynamo.AxisZ, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidScenario, s)
}

type cue struct {
	at   float64
	msgs []params.Message
}

// Player releases scenario messages as the simulation clock passes each
// step's time.
type Player struct {
	name   string
	cues   []cue
	next   int
	loop   bool
	offset float64
	period float64
}

func NewPlayer(s *Scenario) (*Player, error) {
	if s == nil || len(s.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	cues := make([]cue, 0, len(s.Steps))
	for i, st := range s.Steps {
		msgs, err := st.Messages()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		cues = append(cues, cue{at: st.At, msgs: msgs})
	}
	sort.SliceStable(cues, func(i, j int) bool { return cues[i].at < cues[j].at })

	p := &Player{name: s.Name, cues: cues, loop: s.Loop}
	p.period = cues[len(cues)-1].at
	if p.loop && p.period <= 0 {
		return nil, fmt.Errorf("%w: looping scenario needs steps after t=0", ErrInvalidScenario)
	}
	return p, nil
}

func (p *Player) Name() string { return p.name }

// Due returns the messages of every step whose time is at or before t and
// which has not been returned yet.
func (p *Player) Due(t float64) []params.Message {
	var out []params.Message
	for {
		for p.next < len(p.cues) && p.cues[p.next].at+p.offset <= t {
			out = append(out, p.cues[p.next].msgs...)
			p.next++
		}
		if !p.loop || p.next < len(p.cues) {
			return out
		}
		p.offset += p.period
		p.next = 0
	}
}

// Done reports whether every step has been released. Looping players are
// never done.
func (p *Player) Done() bool { return !p.loop && p.next >= len(p.cues) }

func (p *Player) Rewind() {
	p.next = 0
	p.offset = 0
}

// playEpsilon absorbs rounding in the accumulated clock so a run of
// duration/dt steps does not take one extra tick.
const playEpsilon = 1e-9

// Play drives s with a fixed time step for duration seconds of simulation
// time, dispatching scenario messages as they fall due. dt must not exceed the
// simulator's MaxDelta. fn is called with every frame. Play returns early when
// ctx is cancelled.
func Play(ctx context.Context, s *sim.Simulator, p *Player, dt, duration float64, fn func(sim.Frame)) error {
	if dt <= 0 || duration < 0 {
		return fmt.Errorf("%w: dt=%g duration=%g", ErrInvalidScenario, dt, duration)
	}
	opts := s.Options()
	if dt > opts.MaxDelta {
		return fmt.Errorf("%w: dt=%g exceeds max delta %g", ErrInvalidScenario, dt, opts.MaxDelta)
	}
	if opts.TimeScale <= 0 {
		return fmt.Errorf("%w: time scale %g never advances the clock", ErrInvalidScenario, opts.TimeScale)
	}

	end := s.Time() + duration - playEpsilon
	for s.Time() < end {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, msg := range p.Due(s.Time()) {
			if _, err := s.Dispatch(msg); err != nil {
				return fmt.Errorf("%s at %.3fs: %w", msg, s.Time(), err)
			}
		}
		f, err := s.Tick(dt)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(f)
		}
	}
	return nil
}
