package analysis

import (
	"strings"

	"github.com/san-kum/boxsim/internal/dynamo"
)

type Point2 struct{ X, Y float64 }

// Portrait samples the model for duration seconds and projects the path onto
// the plane of axes a and b.
func Portrait(m dynamo.Model, p dynamo.Params, a, b dynamo.Axis, dt, duration float64) []Point2 {
	if dt <= 0 || duration <= 0 {
		return nil
	}
	pts := make([]Point2, 0, int(duration/dt)+1)
	for t := 0.0; t <= duration; t += dt {
		pos := m.Position(t, p.Energy, p.Box)
		pts = append(pts, Point2{pos.Axis(a), pos.Axis(b)})
	}
	return pts
}

// PortraitToASCII plots points on a width x height character grid fitted to
// the given extents, with axes drawn through the origin.
func PortraitToASCII(points []Point2, extentX, extentY float64, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}
	if extentX <= 0 {
		extentX = 1
	}
	if extentY <= 0 {
		extentY = 1
	}
	minX, maxX := -extentX/2, extentX/2
	minY, maxY := -extentY/2, extentY/2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	col0 := int((0 - minX) / (maxX - minX) * float64(width-1))
	row0 := height - 1 - int((0-minY)/(maxY-minY)*float64(height-1))
	for row := range canvas {
		canvas[row][col0] = '│'
	}
	for col := range canvas[row0] {
		canvas[row0][col] = '─'
	}
	canvas[row0][col0] = '┼'

	for _, p := range points {
		col := int((p.X - minX) / (maxX - minX) * float64(width-1))
		row := height - 1 - int((p.Y-minY)/(maxY-minY)*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
