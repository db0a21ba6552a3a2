package trail

import (
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
)

func pt(i int) dynamo.Vec3 { return dynamo.Vec3{X: float64(i)} }

func TestPushOverCapacity(t *testing.T) {
	b := New(100)
	for i := 1; i <= 101; i++ {
		b.Push(pt(i))
	}

	if b.Len() != 100 {
		t.Fatalf("expected 100 points, got %d", b.Len())
	}
	if b.At(0).X != 2 {
		t.Errorf("expected oldest retained point to be push #2, got %v", b.At(0).X)
	}
	if newest, _ := b.Newest(); newest.X != 101 {
		t.Errorf("expected newest point 101, got %v", newest.X)
	}
}

func TestKeepsMostRecentInOrder(t *testing.T) {
	tests := []struct {
		capacity int
		extra    int
	}{
		{1, 1},
		{5, 3},
		{10, 25},
		{100, 1},
	}

	for _, tt := range tests {
		b := New(tt.capacity)
		total := tt.capacity + tt.extra
		for i := 0; i < total; i++ {
			b.Push(pt(i))
		}

		pts := b.Points()
		if len(pts) != tt.capacity {
			t.Errorf("cap %d: expected %d points, got %d", tt.capacity, tt.capacity, len(pts))
			continue
		}
		for i, p := range pts {
			want := float64(total - tt.capacity + i)
			if p.X != want {
				t.Errorf("cap %d: point %d = %v, want %v", tt.capacity, i, p.X, want)
			}
		}
	}
}

func TestClear(t *testing.T) {
	for _, n := range []int{0, 1, 50, 150} {
		b := New(100)
		for i := 0; i < n; i++ {
			b.Push(pt(i))
		}
		b.Clear()
		if b.Len() != 0 {
			t.Errorf("after %d pushes and Clear, Len = %d", n, b.Len())
		}
		if len(b.Points()) != 0 {
			t.Errorf("after %d pushes and Clear, Points not empty", n)
		}
	}
}

func TestEmptyBufferOperations(t *testing.T) {
	b := New(0)
	if b.Cap() != 1 {
		t.Errorf("capacity below 1 should be raised to 1, got %d", b.Cap())
	}
	if _, ok := b.Newest(); ok {
		t.Error("empty buffer should have no newest point")
	}
	if b.EvictOldestIfOverCapacity() {
		t.Error("empty buffer should evict nothing")
	}
	called := false
	b.ForEachAgeWeighted(func(int, dynamo.Vec3, float64) { called = true })
	if called {
		t.Error("ForEachAgeWeighted should not visit an empty buffer")
	}
}

func TestForEachAgeWeighted(t *testing.T) {
	b := New(4)
	for i := 0; i < 6; i++ {
		b.Push(pt(i))
	}

	var fades []float64
	var xs []float64
	b.ForEachAgeWeighted(func(i int, p dynamo.Vec3, fade float64) {
		fades = append(fades, fade)
		xs = append(xs, p.X)
	})

	wantFades := []float64{0.25, 0.5, 0.75, 1}
	wantXs := []float64{2, 3, 4, 5}
	for i := range wantFades {
		if fades[i] != wantFades[i] {
			t.Errorf("fade[%d] = %f, want %f", i, fades[i], wantFades[i])
		}
		if xs[i] != wantXs[i] {
			t.Errorf("x[%d] = %f, want %f", i, xs[i], wantXs[i])
		}
	}
}

func TestResize(t *testing.T) {
	b := New(5)
	for i := 0; i < 7; i++ {
		b.Push(pt(i))
	}

	b.Resize(3)
	pts := b.Points()
	if len(pts) != 3 || pts[0].X != 4 || pts[2].X != 6 {
		t.Errorf("shrink kept %v, want [4 5 6]", pts)
	}

	b.Resize(10)
	b.Push(pt(7))
	pts = b.Points()
	if len(pts) != 4 || pts[0].X != 4 || pts[3].X != 7 {
		t.Errorf("grow kept %v, want [4 5 6 7]", pts)
	}
}

func BenchmarkPush(b *testing.B) {
	buf := New(DefaultCapacity)
	p := dynamo.Vec3{X: 1, Y: 2, Z: 3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Push(p)
	}
}
