// Package export renders a session frame as an SVG snapshot: cracks as
// lines with stroke opacity, particles as filled circles.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/glassdial/internal/glass"
)

// FrameSVG draws one frame snapshot. w and h are the logical space
// dimensions; scale converts logical units to SVG pixels.
func FrameSVG(f glass.Frame, w, h, scale float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a12"/>
`, w*scale, h*scale, w*scale, h*scale))

	sb.WriteString(fmt.Sprintf(
		"<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"none\" stroke=\"#2a3a4a\" stroke-width=\"%.1f\"/>\n",
		scale, scale, (w-2)*scale, (h-2)*scale, scale*0.5))

	sb.WriteString("<g stroke=\"#cfe8ff\" stroke-linecap=\"round\">\n")
	for _, c := range f.Cracks {
		if !c.Active {
			continue
		}
		width := scale * (1.2 - 0.2*float64(c.Generation))
		if width < scale*0.3 {
			width = scale * 0.3
		}
		sb.WriteString(fmt.Sprintf(
			"<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke-width=\"%.2f\" stroke-opacity=\"%.3f\"/>\n",
			c.Start.X*scale, c.Start.Y*scale, c.End.X*scale, c.End.Y*scale, width, c.Alpha))
	}
	sb.WriteString("</g>\n")

	sb.WriteString("<g fill=\"#9fd4ff\">\n")
	for _, p := range f.Particles {
		if !p.Active {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			"<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.2f\" fill-opacity=\"%.3f\"/>\n",
			p.Pos.X*scale, p.Pos.Y*scale, p.Size*scale*0.5, p.Alpha))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(
		"<text x=\"%.1f\" y=\"%.1f\" font-family=\"monospace\" font-size=\"%.1f\" fill=\"#5a7a9a\">%s  level %.3f</text>\n",
		2*scale, (h-3)*scale, 3*scale, f.State, f.Level))

	sb.WriteString("</svg>\n")
	return sb.String()
}
