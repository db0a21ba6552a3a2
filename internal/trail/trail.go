// Package trail keeps a bounded history of recent particle positions.
package trail

import "github.com/san-kum/boxsim/internal/dynamo"

// DefaultCapacity is the number of points kept when none is configured.
const DefaultCapacity = 100

// Buffer is a fixed-capacity FIFO of positions backed by a ring.
// Once full, each Push overwrites the oldest point.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	points []dynamo.Vec3
	head   int // index of the oldest point
	size   int
}

func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{points: make([]dynamo.Vec3, capacity)}
}

func (b *Buffer) Len() int { return b.size }
func (b *Buffer) Cap() int { return len(b.points) }

// Push appends p as the newest point, evicting the oldest when full.
func (b *Buffer) Push(p dynamo.Vec3) {
	if b.size < len(b.points) {
		b.points[(b.head+b.size)%len(b.points)] = p
		b.size++
		return
	}
	b.points[b.head] = p
	b.head = (b.head + 1) % len(b.points)
}

// EvictOldestIfOverCapacity drops the oldest point while the buffer holds
// more than its capacity and reports whether anything was dropped. Push and
// Resize already keep the buffer within capacity, so this normally returns false.
func (b *Buffer) EvictOldestIfOverCapacity() bool {
	evicted := false
	for b.size > len(b.points) {
		b.head = (b.head + 1) % len(b.points)
		b.size--
		evicted = true
	}
	return evicted
}

func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

// At returns the i-th point counting from the oldest.
func (b *Buffer) At(i int) dynamo.Vec3 {
	return b.points[(b.head+i)%len(b.points)]
}

// Newest returns the most recently pushed point.
func (b *Buffer) Newest() (dynamo.Vec3, bool) {
	if b.size == 0 {
		return dynamo.Vec3{}, false
	}
	return b.At(b.size - 1), true
}

// Points returns a copy ordered oldest to newest.
func (b *Buffer) Points() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, b.size)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Fade returns the opacity for the i-th point of a trail of length n.
// It rises linearly with recency; the newest point is fully opaque.
func Fade(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i+1) / float64(n)
}

// ForEachAgeWeighted visits points oldest to newest with their fade factor.
func (b *Buffer) ForEachAgeWeighted(fn func(i int, p dynamo.Vec3, fade float64)) {
	for i := 0; i < b.size; i++ {
		fn(i, b.At(i), Fade(i, b.size))
	}
}

// Resize changes the capacity, keeping the newest points that fit.
func (b *Buffer) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == len(b.points) {
		return
	}
	pts := b.Points()
	if len(pts) > capacity {
		pts = pts[len(pts)-capacity:]
	}
	b.points = make([]dynamo.Vec3, capacity)
	copy(b.points, pts)
	b.head = 0
	b.size = len(pts)
}
