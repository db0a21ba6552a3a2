package viz

import (
	"math"
	"sort"

	"github.com/san-kum/boxsim/internal/camera"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
)

// offscreen bounds projected coordinates so a point just in front of the
// camera cannot turn one edge into millions of Bresenham steps.
const offscreen = 4

type Edge struct {
	Start, End dynamo.Vec3
	Color      string
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0, 16)} }

func (w *Wireframe) AddEdge(s, e dynamo.Vec3, color string) {
	w.Edges = append(w.Edges, Edge{s, e, color})
}

func (w *Wireframe) AddPoint(p dynamo.Vec3, color string) {
	w.Edges = append(w.Edges, Edge{p, p, color})
}

func (w *Wireframe) Clear() { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	color          string
}

func project(c *Canvas, o *camera.Orbit, p dynamo.Vec3) (int, int, float64, bool) {
	pw, ph := c.PixelSize()
	x, y, depth, ok := o.ProjectTo(p, float64(pw), float64(ph))
	if !ok {
		return 0, 0, 0, false
	}
	limW, limH := float64(pw*offscreen), float64(ph*offscreen)
	if math.Abs(x) > limW || math.Abs(y) > limH {
		return 0, 0, 0, false
	}
	return int(math.Round(x)), int(math.Round(y)), depth, true
}

// Render3D draws the wireframe to the canvas, farthest edges first, so nearer
// edges own the colour of shared cells.
func Render3D(c *Canvas, w *Wireframe, o *camera.Orbit) {
	if c == nil || w == nil || o == nil {
		return
	}
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := project(c, o, e.Start)
		x2, y2, d2, v2 := project(c, o, e.End)
		if v1 && v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.SetColor(e.x1, e.y1, e.color)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2, e.color)
		}
	}
}

// BoxWireframe returns the twelve edges of box centred on the origin.
func BoxWireframe(box dynamo.Box, color string) *Wireframe {
	w := NewWireframe()
	v := box.Corners()
	for _, e := range dynamo.BoxEdges {
		w.AddEdge(v[e[0]], v[e[1]], color)
	}
	return w
}

// TrailWireframe joins consecutive trail points, fading each segment from
// the background colour toward the trail colour with age.
func TrailWireframe(points []sim.TrailPoint, t Theme) *Wireframe {
	w := NewWireframe()
	if len(points) == 1 {
		w.AddPoint(points[0].Position, t.TrailColor(points[0].Fade))
		return w
	}
	for i := 1; i < len(points); i++ {
		w.AddEdge(points[i-1].Position, points[i].Position, t.TrailColor(points[i].Fade))
	}
	return w
}

// DrawParticle draws the particle as a small filled marker.
func DrawParticle(c *Canvas, o *camera.Orbit, p dynamo.Vec3, color string) bool {
	x, y, _, ok := project(c, o, p)
	if !ok {
		return false
	}
	c.DrawDot(x, y, 1, color)
	return true
}

// DrawLabels writes the axis captions at their projected anchors. Terminal
// text cannot be rotated, so RotationY is not used here.
func DrawLabels(c *Canvas, o *camera.Orbit, labels [3]dynamo.Label) {
	for _, l := range labels {
		x, y, _, ok := project(c, o, l.Position)
		if !ok {
			continue
		}
		c.WriteText(x/2, y/4, l.Text, l.Color.Hex())
	}
}

// DrawFrame clears the canvas and draws a whole frame: box, trail, particle
// and labels.
func DrawFrame(c *Canvas, o *camera.Orbit, f sim.Frame, t Theme) {
	c.Clear()
	Render3D(c, BoxWireframe(f.Params.Box, string(t.Box)), o)
	Render3D(c, TrailWireframe(f.Trail, t), o)
	DrawParticle(c, o, f.Position, f.Color.Hex())
	DrawLabels(c, o, f.Labels)
}
