// Package storage records headless runs to disk: a metadata.json and a
// frames.csv per run under a data directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/san-kum/boxsim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

var csvHeader = []string{"time", "energy_level", "width", "height", "depth", "x", "y", "z"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Scenario  string             `json:"scenario,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one recorded frame.
type Sample struct {
	Time   float64 `json:"time"`
	Energy int     `json:"energy_level"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

func (s Sample) row() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		f(s.Time), strconv.Itoa(s.Energy),
		f(s.Width), f(s.Height), f(s.Depth),
		f(s.X), f(s.Y), f(s.Z),
	}
}

// Recorder collects frames as a sim.Observer.
type Recorder struct {
	mu      sync.Mutex
	model   string
	samples []Sample
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) OnFrame(f sim.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = f.Model
	b := f.Params.Box
	r.samples = append(r.samples, Sample{
		Time:   f.Time,
		Energy: int(f.Params.Energy),
		Width:  b.Width, Height: b.Height, Depth: b.Depth,
		X: f.Position.X, Y: f.Position.Y, Z: f.Position.Z,
	})
}

func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

func (r *Recorder) Model() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model
}

// Save writes the recorded frames as a new run and returns its id. meta.ID,
// Model, Timestamp and Frames are filled in.
func (s *Store) Save(rec *Recorder, meta RunMetadata) (string, error) {
	samples := rec.Samples()
	meta.Model = rec.Model()
	meta.Timestamp = time.Now()
	meta.Frames = len(samples)
	meta.ID = fmt.Sprintf("%s_%d", meta.Model, meta.Timestamp.UnixNano())
	if len(samples) > 0 {
		meta.Duration = samples[len(samples)-1].Time
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "frames.csv"), func(f io.Writer) error {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, smp := range samples {
			if err := w.Write(smp.row()); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(f, write(f))
}

// closeAfter closes c and returns err, or the close error when err is nil.
func closeAfter(c io.Closer, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return fmt.Errorf("storage: close: %w", cerr)
	}
	return nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads a run's frames. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			continue
		}
		var v [8]float64
		ok := true
		for i, field := range rec {
			if v[i], err = strconv.ParseFloat(field, 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			Time: v[0], Energy: int(v[1]),
			Width: v[2], Height: v[3], Depth: v[4],
			X: v[5], Y: v[6], Z: v[7],
		})
	}
	return samples, nil
}

type ExportData struct {
	RunMetadata
	Samples []Sample `json:"samples"`
}

// ExportJSON writes a run's metadata and frames as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Samples: samples})
}
