// Package export writes snapshots of the simulation as SVG.
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/boxsim/internal/camera"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/viz"
)

const (
	background = "#0a0a0a"
	boxStroke  = "#8a8aa8"
)

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// the colour of its cell. Text cells become <text> elements.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width)*scale*2, float64(canvas.Height)*scale*4)

	dotRadius := scale * 0.4
	pw, ph := canvas.PixelSize()
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			row, col := y/4, x/2
			if canvas.Text[row][col] != 0 || !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill(canvas.Colors[row][col]))
		}
	}

	for row := range canvas.Text {
		for col, r := range canvas.Text[row] {
			if r == 0 {
				continue
			}
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.1f" fill="%s">%s</text>
`, float64(col)*scale*2, float64(row+1)*scale*4, scale*4, fill(canvas.Colors[row][col]), html.EscapeString(string(r)))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func fill(c string) string {
	if c == "" {
		return "#00ff00"
	}
	return c
}

// TrailToSVG renders a frame as seen through the orbit camera: the box
// wireframe, the trail with age-faded opacity, the particle and the axis
// labels.
func TrailToSVG(f sim.Frame, o *camera.Orbit, width, height int) string {
	w, h := float64(width), float64(height)
	var sb strings.Builder
	header(&sb, w, h)

	project := func(p dynamo.Vec3) (float64, float64, bool) {
		x, y, _, ok := o.ProjectTo(p, w, h)
		return x, y, ok
	}

	corners := f.Params.Box.Corners()
	fmt.Fprintf(&sb, `<g stroke="%s" stroke-width="1">
`, boxStroke)
	for _, e := range dynamo.BoxEdges {
		x1, y1, ok1 := project(corners[e[0]])
		x2, y2, ok2 := project(corners[e[1]])
		if ok1 && ok2 {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2)
		}
	}
	sb.WriteString("</g>\n")

	trail := f.Color.Hex()
	for i := 1; i < len(f.Trail); i++ {
		x1, y1, ok1 := project(f.Trail[i-1].Position)
		x2, y2, ok2 := project(f.Trail[i].Position)
		if ok1 && ok2 {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2" stroke-opacity="%.3f"/>
`, x1, y1, x2, y2, trail, f.Trail[i].Fade)
		}
	}

	if x, y, ok := project(f.Position); ok {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>
`, x, y, f.Color.Hex())
	}

	for _, l := range f.Labels {
		x, y, ok := project(l.Position)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="16" fill="%s">%s</text>
`, x, y, l.Color.Hex(), html.EscapeString(l.Text))
	}

	fmt.Fprintf(&sb, `<text x="8" y="%.0f" font-family="monospace" font-size="12" fill="#cccccc">%s</text>
`, h-8, html.EscapeString(fmt.Sprintf("n=%d  %s  %s", f.Params.Energy, f.Params.Box, f.Position)))
	sb.WriteString("</svg>\n")
	return sb.String()
}

// Snapshotter returns a viz.SnapshotFunc that writes the camera view of each
// frame to dir as boxsim-<frame>.svg.
func Snapshotter(dir string, o *camera.Orbit, width, height int) viz.SnapshotFunc {
	return func(f sim.Frame, _ *viz.Canvas) (string, error) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		path := filepath.Join(dir, fmt.Sprintf("boxsim-%06d.svg", f.Index))
		if err := os.WriteFile(path, []byte(TrailToSVG(f, o, width, height)), 0644); err != nil {
			return "", err
		}
		return path, nil
	}
}
