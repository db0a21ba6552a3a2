package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/trail"
)

// Simulator advances the particle one frame at a time.
// Tick and Dispatch may be called from different goroutines.
type Simulator struct {
	mu        sync.Mutex
	model     dynamo.Model
	store     *params.Store
	opts      Options
	trail     *trail.Buffer
	status    Status
	clock     float64
	frame     uint64
	seen      uint64
	cleared   bool
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(model dynamo.Model, store *params.Store, opts Options) (*Simulator, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", dynamo.ErrUnknownModel)
	}
	_, v := store.Snapshot()
	return &Simulator{
		model:     model,
		store:     store,
		opts:      opts,
		trail:     trail.New(opts.TrailLength),
		seen:      v,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.Default(),
	}, nil
}

func validateOptions(opts Options) error {
	if opts.TrailLength < 1 {
		return fmt.Errorf("trail length must be positive, got %d", opts.TrailLength)
	}
	if opts.TrailStride < 1 {
		return fmt.Errorf("trail stride must be positive, got %d", opts.TrailStride)
	}
	if opts.MaxDelta <= 0 || math.IsNaN(opts.MaxDelta) {
		return fmt.Errorf("max delta must be positive, got %f", opts.MaxDelta)
	}
	if opts.TimeScale < 0 || math.IsNaN(opts.TimeScale) {
		return fmt.Errorf("time scale must be non-negative, got %f", opts.TimeScale)
	}
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Store() *params.Store { return s.store }

func (s *Simulator) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Simulator) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

func (s *Simulator) Model() dynamo.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// TrailLen returns the number of points currently held.
func (s *Simulator) TrailLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trail.Len()
}

// Tick advances the clock by dt seconds and computes the next frame.
// dt is clamped to [0, MaxDelta] before TimeScale is applied.
func (s *Simulator) Tick(dt float64) (Frame, error) {
	s.mu.Lock()

	if s.status == Idle {
		s.status = Running
		s.logger.Debug("simulation started", "model", s.model.Name())
	}

	dt = s.clampDelta(dt) * s.opts.TimeScale

	p, v := s.store.Snapshot()
	cleared := s.cleared
	if v != s.seen {
		s.trail.Clear()
		s.seen = v
		cleared = true
	}
	s.cleared = false

	s.clock += dt
	pos := s.model.Position(s.clock, p.Energy, p.Box)
	if !pos.IsValid() {
		err := &dynamo.FrameError{Frame: s.frame, Time: s.clock, Wrapped: dynamo.ErrInvalidState}
		s.mu.Unlock()
		return Frame{}, err
	}
	col := s.model.Color(pos, p.Energy, s.clock, p.Box)

	if s.frame%uint64(s.opts.TrailStride) == 0 {
		s.trail.Push(pos)
	}

	f := Frame{
		Index:    s.frame,
		Time:     s.clock,
		Delta:    dt,
		Model:    s.model.Name(),
		Params:   p,
		Position: pos,
		Color:    col,
		Trail:    s.trailSnapshot(),
		TrailCap: s.trail.Cap(),
		Labels:   dynamo.AxisLabels(p.Box),
		Cleared:  cleared,
	}
	s.frame++
	s.mu.Unlock()

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f, nil
}

func (s *Simulator) clampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	return math.Min(dt, s.opts.MaxDelta)
}

func (s *Simulator) trailSnapshot() []TrailPoint {
	out := make([]TrailPoint, 0, s.trail.Len())
	s.trail.ForEachAgeWeighted(func(_ int, p dynamo.Vec3, fade float64) {
		out = append(out, TrailPoint{Position: p, Fade: fade})
	})
	return out
}

// Dispatch applies msg to the parameter store. When the value changes the
// trail is cleared at once, before the next tick pushes a point.
func (s *Simulator) Dispatch(msg params.Message) (bool, error) {
	changed, err := s.store.Apply(msg)
	if err != nil {
		s.logger.Debug("input ignored", "msg", msg.String(), "err", err)
		return false, err
	}
	if !changed {
		return false, nil
	}

	s.mu.Lock()
	s.trail.Clear()
	_, s.seen = s.store.Snapshot()
	s.cleared = true
	s.mu.Unlock()

	s.logger.Debug("parameters changed", "msg", msg.String())
	return true, nil
}

// SetModel swaps the position model. The trail is discarded.
func (s *Simulator) SetModel(m dynamo.Model) {
	if m == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
	s.trail.Clear()
	s.cleared = true
}

// Restart rewinds the clock to zero and empties the trail.
func (s *Simulator) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = 0
	s.trail.Clear()
	s.cleared = true
	for _, m := range s.metrics {
		m.Reset()
	}
}

// ResizeTrail changes the trail capacity, keeping the newest points.
func (s *Simulator) ResizeTrail(capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trail.Resize(capacity)
	s.opts.TrailLength = s.trail.Cap()
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
