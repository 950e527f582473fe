package curve

import "github.com/san-kum/tosslab/internal/vec"

// Curve is an immutable snapshot of one rebuild: the cubic Bézier control
// points and the uniform sample polyline derived from them. It is handed off
// by value copy at launch; the builder never mutates a snapshot it has
// already published.
type Curve struct {
	Start   vec.Vec3
	Anchor  vec.Vec3
	End     vec.Vec3
	C1      vec.Vec3
	C2      vec.Vec3
	Samples []vec.Vec3
}

// Waypoints returns a defensive copy of the sample polyline, suitable for
// handing to a steering session.
func (c *Curve) Waypoints() []vec.Vec3 {
	out := make([]vec.Vec3, len(c.Samples))
	copy(out, c.Samples)
	return out
}

// Point evaluates the cubic Bernstein blend at parameter t.
func Point(p0, c1, c2, p1 vec.Vec3, t float64) vec.Vec3 {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return p0.Scale(b0).Add(c1.Scale(b1)).Add(c2.Scale(b2)).Add(p1.Scale(b3))
}

// Tangent evaluates the derivative of the cubic Bernstein blend at t. The
// result is not normalized; its magnitude carries the parametric speed.
func Tangent(p0, c1, c2, p1 vec.Vec3, t float64) vec.Vec3 {
	u := 1 - t
	d0 := c1.Sub(p0).Scale(3 * u * u)
	d1 := c2.Sub(c1).Scale(6 * u * t)
	d2 := p1.Sub(c2).Scale(3 * t * t)
	return d0.Add(d1).Add(d2)
}

// Point evaluates the snapshot's own Bézier at t.
func (c *Curve) Point(t float64) vec.Vec3 {
	return Point(c.Start, c.C1, c.C2, c.End, t)
}

// Tangent evaluates the snapshot's Bézier derivative at t.
func (c *Curve) Tangent(t float64) vec.Vec3 {
	return Tangent(c.Start, c.C1, c.C2, c.End, t)
}

func sample(p0, c1, c2, p1 vec.Vec3, count int) []vec.Vec3 {
	if count < 2 {
		count = 2
	}
	out := make([]vec.Vec3, count)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(count-1)
		out[i] = Point(p0, c1, c2, p1, t)
	}
	return out
}
