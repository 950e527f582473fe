package metrics

import (
	"math"

	"github.com/san-kum/tosslab/internal/sim"
	"github.com/san-kum/tosslab/internal/vec"
)

// CrossTrack measures how far the body strays from the sample polyline,
// using the distance to the closest segment. Value is the maximum observed
// deviation over the launch.
type CrossTrack struct {
	name      string
	waypoints []vec.Vec3
	maxDev    float64
}

func NewCrossTrack(waypoints []vec.Vec3) *CrossTrack {
	copied := make([]vec.Vec3, len(waypoints))
	copy(copied, waypoints)
	return &CrossTrack{name: "cross_track_max", waypoints: copied}
}

func (c *CrossTrack) Name() string { return c.name }

func (c *CrossTrack) Observe(x sim.State, u sim.Control, t float64) {
	if len(x) < 3 || len(c.waypoints) < 2 {
		return
	}
	p := vec.Vec3{X: x[0], Y: x[1], Z: x[2]}
	d := distanceToPolyline(p, c.waypoints)
	if d > c.maxDev {
		c.maxDev = d
	}
}

func (c *CrossTrack) Value() float64 { return c.maxDev }

func (c *CrossTrack) Reset() { c.maxDev = 0 }

// distanceToPolyline projects the point onto every segment and keeps the
// closest clamped projection.
func distanceToPolyline(p vec.Vec3, nodes []vec.Vec3) float64 {
	best := math.MaxFloat64
	for i := 0; i < len(nodes)-1; i++ {
		a, b := nodes[i], nodes[i+1]
		ab := b.Sub(a)
		abLenSq := ab.Dot(ab)
		t := 0.0
		if abLenSq > 0 {
			t = p.Sub(a).Dot(ab) / abLenSq
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}
		closest := a.Add(ab.Scale(t))
		if d := p.Sub(closest).Length(); d < best {
			best = d
		}
	}
	if best == math.MaxFloat64 {
		return 0
	}
	return best
}
