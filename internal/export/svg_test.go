package export

import (
	"strings"
	"testing"

	"github.com/san-kum/tosslab/internal/vec"
	"github.com/san-kum/tosslab/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)

	svg := CanvasToSVG(c, 4)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("no dots emitted for a lit canvas")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}

	if got := CanvasToSVG(nil, 4); got != "" {
		t.Errorf("nil canvas should render empty, got %q", got)
	}
}

func TestCanvasToSVG_EmptyCanvas(t *testing.T) {
	svg := CanvasToSVG(viz.NewCanvas(10, 5), 4)
	if strings.Contains(svg, "<circle") {
		t.Error("empty canvas emitted dots")
	}
}

func TestFlightToSVG(t *testing.T) {
	planned := []vec.Vec3{{Y: 0.5}, {Y: 1.5, Z: 3}, {Y: 1.2, Z: 6}}
	flown := []vec.Vec3{{Y: 0.5}, {Y: 1.4, Z: 2.9}, {Y: 1.1, Z: 5.9}}

	svg := FlightToSVG(planned, flown, viz.SideView, 640, 360)
	if count := strings.Count(svg, "<polyline"); count != 2 {
		t.Errorf("got %d polylines, want planned + flown", count)
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("planned path should be dashed")
	}

	if got := FlightToSVG(nil, []vec.Vec3{{}}, viz.SideView, 640, 360); got != "" {
		t.Errorf("too few points should render empty, got %q", got)
	}
}
