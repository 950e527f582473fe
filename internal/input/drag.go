// Package input converts raw screen-space drag deltas into goal-face local
// offsets. Raw deltas are assumed already delivered by the host (mouse, or
// keys in the terminal live view); only the scaling lives here.
package input

import (
	"math"

	"github.com/san-kum/tosslab/internal/vec"
)

const spanEps = 1e-6

// Tracker holds the per-axis sensitivity factors mapping pixel deltas to
// local-offset deltas. Sensitivity is recomputed whenever the viewport
// changes, not per event.
type Tracker struct {
	rangeX, rangeY float64 // drag rectangle extents in local units
	spanX, spanY   float64 // fraction of the viewport one full-range drag covers
	sensX, sensY   float64
}

// NewTracker builds a tracker for the given rectangle extents and drag-span
// multipliers. Sensitivity stays zero until SetViewport is called.
func NewTracker(rangeX, rangeY, spanX, spanY float64) *Tracker {
	return &Tracker{rangeX: rangeX, rangeY: rangeY, spanX: spanX, spanY: spanY}
}

// SetViewport recomputes the per-axis sensitivity for a viewport of the
// given pixel size. Non-positive sizes floor to one pixel.
func (t *Tracker) SetViewport(width, height float64) {
	width = math.Max(width, 1)
	height = math.Max(height, 1)
	t.sensX = (t.rangeX / width) / math.Max(t.spanX, spanEps)
	t.sensY = (t.rangeY / height) / math.Max(t.spanY, spanEps)
}

// Delta converts a screen-space pixel delta to a local-offset delta. Screen
// y grows downward, local y grows upward.
func (t *Tracker) Delta(dxPx, dyPx float64) vec.Vec2 {
	return vec.Vec2{X: dxPx * t.sensX, Y: -dyPx * t.sensY}
}

// Sensitivity exposes the current factors, mainly for display.
func (t *Tracker) Sensitivity() (x, y float64) { return t.sensX, t.sensY }
