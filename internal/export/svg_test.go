package export

import (
	"os"
	"strings"
	"testing"

	"github.com/san-kum/boxsim/internal/camera"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/viz"
)

func testFrame() sim.Frame {
	box := dynamo.Box{Width: 2, Height: 2, Depth: 2}
	return sim.Frame{
		Index:    42,
		Params:   dynamo.Params{Energy: 2, Box: box},
		Position: dynamo.Vec3{X: 0.1, Y: -0.2, Z: 0.3},
		Color:    dynamo.Color{R: 1, G: 0.5, B: 0},
		Trail: []sim.TrailPoint{
			{Position: dynamo.Vec3{}, Fade: 0.5},
			{Position: dynamo.Vec3{X: 0.1, Y: -0.2, Z: 0.3}, Fade: 1},
		},
		Labels: dynamo.AxisLabels(box),
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.SetColor(0, 0, "#ff0000")
	c.Set(5, 6)
	c.WriteText(3, 1, "Z", "#0000ff")

	svg := CanvasToSVG(c, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("not an svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("dot colour missing")
	}
	if !strings.Contains(svg, `fill="#0000ff">Z</text>`) {
		t.Error("text cell missing")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestTrailToSVG(t *testing.T) {
	o := camera.NewOrbit(60, 0, 0.6, 0.4, 6)
	svg := TrailToSVG(testFrame(), o, 640, 480)

	if n := strings.Count(svg, `<line x1=`); n != 13 {
		t.Errorf("expected 12 box edges and 1 trail segment, got %d lines", n)
	}
	if !strings.Contains(svg, `stroke-opacity="1.000"`) {
		t.Error("trail segment should carry its fade")
	}
	if !strings.Contains(svg, `<circle`) || !strings.Contains(svg, "#ff8000") {
		t.Error("particle missing")
	}
	for _, l := range []string{">X</text>", ">Y</text>", ">Z</text>"} {
		if !strings.Contains(svg, l) {
			t.Errorf("label %s missing", l)
		}
	}
	if !strings.Contains(svg, "X: 0.100 | Y: -0.200 | Z: 0.300") {
		t.Error("coordinates caption missing")
	}
}

func TestSnapshotter(t *testing.T) {
	dir := t.TempDir()
	save := Snapshotter(dir, camera.NewOrbit(60, 0, 0, 0, 6), 320, 240)

	path, err := save(testFrame(), nil)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.HasSuffix(path, "boxsim-000042.svg") {
		t.Errorf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "<svg") {
		t.Errorf("snapshot not written: %v", err)
	}
}
