package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Canvas is a grid of braille cells. Each cell holds 2x4 dots, a colour
// and optionally a text character that replaces the dots when rendered.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]string
	Text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid. Existing content is dropped.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Colors = make([][]string, h)
	c.Text = make([][]rune, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]string, w)
		c.Text[i] = make([]rune, w)
	}
	c.Clear()
}

// PixelSize returns the drawable size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set turns on the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= pixelMap[y%4][x%2]
	}
}

// SetColor turns on a dot and paints its cell. The last colour written to a
// cell wins.
func (c *Canvas) SetColor(x, y int, color string) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= pixelMap[y%4][x%2]
		c.Colors[row][col] = color
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= pixelMap[y%4][x%2]
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
			c.Text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetColor(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDot fills a square of side 2r+1 dots centred on (x, y).
func (c *Canvas) DrawDot(x, y, r int, color string) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.SetColor(x+dx, y+dy, color)
		}
	}
}

// WriteText places s on the cell row starting at col. Characters outside
// the grid are dropped.
func (c *Canvas) WriteText(col, row int, s string, color string) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.Text[row][col] = r
			c.Colors[row][col] = color
		}
		col++
	}
}

func (c *Canvas) glyph(row, col int) rune {
	if t := c.Text[row][col]; t != 0 {
		return t
	}
	return c.Grid[row][col]
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			b.WriteRune(c.glyph(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with each run of same-coloured cells wrapped in
// a single style.
func (c *Canvas) Render(fallback lipgloss.Color) string {
	var b strings.Builder
	var run strings.Builder
	for row := range c.Grid {
		current := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			col := fallback
			if current != "" {
				col = lipgloss.Color(current)
			}
			b.WriteString(lipgloss.NewStyle().Foreground(col).Render(run.String()))
			run.Reset()
		}
		for col := range c.Grid[row] {
			if color := c.Colors[row][col]; color != current {
				flush()
				current = color
			}
			run.WriteRune(c.glyph(row, col))
		}
		flush()
		if row < c.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
