// Package export renders recorded flights and curve previews as standalone
// SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/tosslab/internal/vec"
	"github.com/san-kum/tosslab/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG, one dot per circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FlightToSVG draws the planned curve and the flown trajectory in the given
// projection plane: curve dashed, flight solid.
func FlightToSVG(planned, flown []vec.Vec3, plane viz.Plane, width, height int) string {
	all := make([]vec.Vec3, 0, len(planned)+len(flown))
	all = append(all, planned...)
	all = append(all, flown...)
	if len(all) < 2 {
		return ""
	}
	vp := viz.FitViewport(plane, all, 0.3)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if poly := polylinePoints(planned, plane, vp, width, height); poly != "" {
		sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="#5f87ff" stroke-width="1.5" stroke-dasharray="4 3"/>
`, poly))
	}
	if poly := polylinePoints(flown, plane, vp, width, height); poly != "" {
		sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="#00ff87" stroke-width="2"/>
`, poly))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func polylinePoints(points []vec.Vec3, plane viz.Plane, vp viz.Viewport, width, height int) string {
	if len(points) < 2 {
		return ""
	}
	spanX := vp.MaxX - vp.MinX
	spanY := vp.MaxY - vp.MinY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	parts := make([]string, 0, len(points))
	for _, p := range points {
		x, y := viz.Flatten(plane, p)
		sx := (x - vp.MinX) / spanX * float64(width)
		sy := (1 - (y-vp.MinY)/spanY) * float64(height)
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", sx, sy))
	}
	return strings.Join(parts, " ")
}
