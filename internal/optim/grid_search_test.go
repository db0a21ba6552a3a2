package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/physics"
)

func TestLinspace(t *testing.T) {
	got := Linspace(1, 2, 5)
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Linspace = %v, want %v", got, want)
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("n=1 should give a single value")
	}
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g, err := NewGridSearch(
		[]dynamo.Axis{dynamo.AxisX, dynamo.AxisY},
		[][]float64{Linspace(1, 3, 5), Linspace(1, 3, 5)},
	)
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	obj := func(_ context.Context, b dynamo.Box) (float64, error) {
		calls++
		return math.Abs(b.Width-2.5) + math.Abs(b.Height-1.5), nil
	}
	box, score, err := g.Search(context.Background(), dynamo.Box{Width: 2, Height: 2, Depth: 4}, obj)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if calls != 25 {
		t.Errorf("expected 25 evaluations, got %d", calls)
	}
	if box != (dynamo.Box{Width: 2.5, Height: 1.5, Depth: 4}) || score != 0 {
		t.Errorf("best = %v (%f)", box, score)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]dynamo.Axis{dynamo.AxisX}, nil); err == nil {
		t.Error("mismatched ranges should fail")
	}

	g, _ := NewGridSearch([]dynamo.Axis{dynamo.AxisZ}, [][]float64{{1, 2}})
	failing := func(context.Context, dynamo.Box) (float64, error) { return 0, errors.New("boom") }
	if _, _, err := g.Search(context.Background(), dynamo.Box{Width: 1, Height: 1, Depth: 1}, failing); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := func(context.Context, dynamo.Box) (float64, error) { return 1, nil }
	if _, _, err := g.Search(ctx, dynamo.Box{Width: 1, Height: 1, Depth: 1}, ok); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFrequencyObjective(t *testing.T) {
	m := physics.NewProductSine()
	// n=2 along x gives n/(2W) Hz, so 0.5 Hz wants W=2.
	obj := FrequencyObjective(m, 2, dynamo.AxisX, 0.5, 0.02, 2048)
	g, _ := NewGridSearch([]dynamo.Axis{dynamo.AxisX}, [][]float64{{1, 1.5, 2, 3}})

	box, score, err := g.Search(context.Background(), dynamo.Box{Width: 1, Height: 1.5, Depth: 1.5}, obj)
	if err != nil {
		t.Fatal(err)
	}
	if box.Width != 2 {
		t.Errorf("expected width 2, got %v (score %f)", box, score)
	}
	if score > 0.05 {
		t.Errorf("score %f too far from target", score)
	}
}
