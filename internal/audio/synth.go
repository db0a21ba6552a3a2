// Package audio turns the particle's motion into sound. Pitch follows the
// energy level and the distance from the box centre; stereo pan follows x.
package audio

import (
	"math"
	"sync"

	"github.com/san-kum/boxsim/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 512

	BaseFreq = 110.0 // A2 at n=1
	maxGain  = 0.25
)

// Tone is the sound for one frame.
type Tone struct {
	Freq float64 // Hz
	Pan  float64 // -1 left .. 1 right
	Gain float64
}

// ToneFor maps a frame to a tone. Each energy level raises the pitch by a
// major third; moving away from the centre bends it up to a fifth higher
// and makes it louder.
func ToneFor(f sim.Frame) Tone {
	n := float64(f.Params.Energy)
	if n < 1 {
		n = 1
	}
	b := f.Params.Box
	half := math.Sqrt(b.Width*b.Width+b.Height*b.Height+b.Depth*b.Depth) / 2
	r := 0.0
	if half > 0 {
		r = math.Min(f.Position.Length()/half, 1)
	}

	pan := 0.0
	if b.Width > 0 {
		pan = math.Max(-1, math.Min(1, f.Position.X/(b.Width/2)))
	}

	return Tone{
		Freq: BaseFreq * math.Pow(2, (n-1)/3) * math.Pow(1.5, r),
		Pan:  pan,
		Gain: maxGain * (0.4 + 0.6*r),
	}
}

// Synth renders a smoothed triangle voice toward the most recent tone.
// OnFrame and Process may run on different goroutines.
type Synth struct {
	mu     sync.Mutex
	target Tone

	cur    Tone
	phase  float64
	filter [2]float64
	delay  [2][]float64
	head   int
	muted  bool
}

func NewSynth() *Synth {
	delayLen := int(float64(SampleRate) * 0.25)
	return &Synth{
		delay: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// OnFrame implements sim.Observer.
func (s *Synth) OnFrame(f sim.Frame) {
	t := ToneFor(f)
	s.mu.Lock()
	s.target = t
	s.mu.Unlock()
}

func (s *Synth) SetMuted(m bool) {
	s.mu.Lock()
	s.muted = m
	s.mu.Unlock()
}

// Target returns the tone the synth is gliding toward.
func (s *Synth) Target() Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a non-interleaved stereo buffer. It matches the portaudio
// output-only callback signature.
func (s *Synth) Process(out [][]float32) {
	s.mu.Lock()
	target, muted := s.target, s.muted
	s.mu.Unlock()
	if muted {
		target.Gain = 0
	}

	const dt = 1.0 / SampleRate
	const glide = 0.0015
	for i := range out[0] {
		s.cur.Freq += (target.Freq - s.cur.Freq) * glide
		s.cur.Pan += (target.Pan - s.cur.Pan) * glide
		s.cur.Gain += (target.Gain - s.cur.Gain) * glide

		s.phase += s.cur.Freq * dt
		if s.phase > 1 {
			s.phase -= math.Floor(s.phase)
		}
		v := triangle(s.phase) * s.cur.Gain

		left := v * math.Sqrt((1-s.cur.Pan)/2)
		right := v * math.Sqrt((1+s.cur.Pan)/2)
		s.filter[0] = lpf(left, 1200, dt, s.filter[0])
		s.filter[1] = lpf(right, 1200, dt, s.filter[1])

		mixL := s.filter[0] + s.delay[0][s.head]*0.3
		mixR := s.filter[1] + s.delay[1][s.head]*0.3
		s.delay[0][s.head] = mixL * 0.5
		s.delay[1][s.head] = mixR * 0.5
		s.head = (s.head + 1) % len(s.delay[0])

		out[0][i] = float32(mixL)
		if len(out) > 1 {
			out[1][i] = float32(mixR)
		}
	}
}
