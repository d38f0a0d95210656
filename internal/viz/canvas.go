package viz

import (
	"strings"
)

// Braille patterns, 2x4 dots per cell:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille sub-pixel canvas. A w x h cell grid addresses
// (w*2) x (h*4) pixels, which is the logical coordinate space the
// renderer draws cracks and particles into.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// PixelWidth and PixelHeight report the sub-pixel space dimensions.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set lights the pixel at sub-pixel coordinates (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// Line draws with Bresenham's algorithm in sub-pixel space.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, 1)
}

// DashedLine lights every other pixel, used for faded cracks.
func (c *Canvas) DashedLine(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, 2)
}

func (c *Canvas) line(x0, y0, x1, y1, step int) {
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
	n := 0

	for {
		if n%step == 0 {
			c.Set(x0, y0)
		}
		n++
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

// Dot lights one pixel; Plus lights a small cross for bigger particles.
func (c *Canvas) Dot(x, y int) {
	c.Set(x, y)
}

func (c *Canvas) Plus(x, y int) {
	c.Set(x, y)
	c.Set(x-1, y)
	c.Set(x+1, y)
	c.Set(x, y-1)
	c.Set(x, y+1)
}

// Rect draws an axis-aligned rectangle outline in sub-pixel space.
func (c *Canvas) Rect(x0, y0, x1, y1 int) {
	c.Line(x0, y0, x1, y0)
	c.Line(x1, y0, x1, y1)
	c.Line(x1, y1, x0, y1)
	c.Line(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
