// Package render maps a session frame to draw commands on a braille
// canvas. Rendering is pure: it reads the frame snapshot and never touches
// the session, so the TUI and the SVG exporter share one dispatch table.
package render

import (
	"math"

	"github.com/san-kum/glassdial/internal/glass"
	"github.com/san-kum/glassdial/internal/viz"
)

// Renderer draws one state's look onto the canvas.
type Renderer func(f glass.Frame, c *viz.Canvas)

// table is keyed by state tag instead of a switch so adding a state
// means adding a row, and the completeness test can range over it.
var table = map[glass.State]Renderer{
	glass.Normal:       drawPane,
	glass.TinyCrack:    drawCracked,
	glass.SmallCrack:   drawCracked,
	glass.Cracked:      drawCracked,
	glass.BigCrack:     drawCracked,
	glass.Shatter:      drawShattered,
	glass.HeavyShatter: drawShattered,
	glass.Silence:      drawSilence,
	glass.Rebuild:      drawRepairing,
	glass.Recovery:     drawRepairing,
}

// Render produces the frame's canvas. cols and rows are braille cells;
// the frame's logical coordinates map onto the sub-pixel grid.
func Render(f glass.Frame, cols, rows int) *viz.Canvas {
	c := viz.NewCanvas(cols, rows)
	if r, ok := table[f.State]; ok {
		r(f, c)
	} else {
		drawPane(f, c)
	}
	return c
}

// drawPane renders the intact pane: border plus a corner sheen.
func drawPane(f glass.Frame, c *viz.Canvas) {
	w, h := c.PixelWidth(), c.PixelHeight()
	c.Rect(1, 1, w-2, h-2)
	c.Line(w/8, h/4, w/4, h/8)
	c.Line(w/8+6, h/4+4, w/4+6, h/8+4)
}

func drawCracked(f glass.Frame, c *viz.Canvas) {
	drawPane(f, c)
	drawCrackSegments(f.Cracks, c)
}

func drawShattered(f glass.Frame, c *viz.Canvas) {
	drawCrackSegments(f.Cracks, c)
	drawParticles(f.Particles, c)
	// broken frame: only fragments of the border remain
	w, h := c.PixelWidth(), c.PixelHeight()
	c.DashedLine(1, 1, w-2, 1)
	c.DashedLine(1, h-2, w-2, h-2)
}

func drawSilence(f glass.Frame, c *viz.Canvas) {
	drawParticles(f.Particles, c)
}

func drawRepairing(f glass.Frame, c *viz.Canvas) {
	drawCrackSegments(f.Cracks, c)
	drawParticles(f.Particles, c)
	w, h := c.PixelWidth(), c.PixelHeight()
	c.DashedLine(1, 1, w-2, 1)
	c.DashedLine(w-2, 1, w-2, h-2)
	c.DashedLine(w-2, h-2, 1, h-2)
	c.DashedLine(1, h-2, 1, 1)
}

func drawCrackSegments(cracks []glass.Crack, c *viz.Canvas) {
	for _, cr := range cracks {
		if !cr.Active {
			continue
		}
		x0, y0 := pixel(cr.Start)
		x1, y1 := pixel(cr.End)
		if cr.Alpha >= 0.5 {
			c.Line(x0, y0, x1, y1)
		} else {
			c.DashedLine(x0, y0, x1, y1)
		}
	}
}

func drawParticles(particles []glass.Particle, c *viz.Canvas) {
	for _, p := range particles {
		if !p.Active || p.Alpha < 0.05 {
			continue
		}
		x, y := pixel(p.Pos)
		if p.Size >= 2 && p.Alpha >= 0.5 {
			c.Plus(x, y)
		} else {
			c.Dot(x, y)
		}
	}
}

func pixel(p glass.Point) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
