package phys

import (
	"math"

	"github.com/san-kum/tosslab/internal/sim"
	"github.com/san-kum/tosslab/internal/vec"
)

// Box is an axis-aligned solid collider.
type Box struct {
	Min, Max vec.Vec3
}

func (b Box) expand(r float64) Box {
	return Box{
		Min: vec.Vec3{X: b.Min.X - r, Y: b.Min.Y - r, Z: b.Min.Z - r},
		Max: vec.Vec3{X: b.Max.X + r, Y: b.Max.Y + r, Z: b.Max.Z + r},
	}
}

func (b Box) contains(p vec.Vec3) bool {
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

// World owns gravity, the ground plane, and the static colliders. It advances
// one body per fixed step and reports contacts through the body.
type World struct {
	Gravity float64 // magnitude, acting along -Y
	GroundY float64
	boxes   []Box
	integ   sim.Integrator
	time    float64
}

func NewWorld(gravity, groundY float64, integ sim.Integrator) *World {
	return &World{Gravity: gravity, GroundY: groundY, integ: integ}
}

func (w *World) AddBox(b Box) { w.boxes = append(w.boxes, b) }

func (w *World) Time() float64 { return w.time }

// Step integrates the body's accumulated force over dt, then resolves
// collisions. The force accumulator is consumed.
func (w *World) Step(b *Body, dt float64) {
	dyn := dynamics{body: b, gravity: w.Gravity}
	u := sim.Control{b.force.X, b.force.Y, b.force.Z}

	prev := b.pos
	next := w.integ.Step(dyn, b.state(), u, w.time, dt)
	if next.IsValid() {
		b.setState(next)
	}

	b.force = vec.Vec3{}
	b.contacts = 0
	w.resolve(b, prev)
	w.time += dt
}

func (w *World) resolve(b *Body, prev vec.Vec3) {
	r := b.cfg.Radius

	if b.pos.Y-r < w.GroundY {
		b.pos.Y = w.GroundY + r
		if b.vel.Y < 0 {
			b.vel.Y = -b.vel.Y * b.cfg.Bounce
		}
		b.vel.X *= 1 - b.cfg.Friction
		b.vel.Z *= 1 - b.cfg.Friction
		b.contacts++
	}

	for _, box := range w.boxes {
		solid := box.expand(r)
		if solid.contains(b.pos) {
			w.pushOut(b, solid)
			b.contacts++
			continue
		}
		// Thin colliders can be tunneled through in one step; the swept
		// test catches the crossing.
		if b.cfg.Continuous {
			if hit, at, normal := sweep(prev, b.pos, solid); hit {
				b.pos = at
				b.vel = reflect(b.vel, normal, b.cfg.Bounce)
				b.contacts++
			}
		}
	}
}

// pushOut moves the body out of the box along the axis of least penetration
// and reflects the velocity component on that axis.
func (w *World) pushOut(b *Body, box Box) {
	depths := [6]float64{
		b.pos.X - box.Min.X, // -X face
		box.Max.X - b.pos.X, // +X face
		b.pos.Y - box.Min.Y,
		box.Max.Y - b.pos.Y,
		b.pos.Z - box.Min.Z,
		box.Max.Z - b.pos.Z,
	}
	minIdx := 0
	for i, d := range depths {
		if d < depths[minIdx] {
			minIdx = i
		}
	}
	switch minIdx {
	case 0:
		b.pos.X = box.Min.X
		b.vel = reflect(b.vel, vec.Vec3{X: -1}, b.cfg.Bounce)
	case 1:
		b.pos.X = box.Max.X
		b.vel = reflect(b.vel, vec.Vec3{X: 1}, b.cfg.Bounce)
	case 2:
		b.pos.Y = box.Min.Y
		b.vel = reflect(b.vel, vec.Vec3{Y: -1}, b.cfg.Bounce)
	case 3:
		b.pos.Y = box.Max.Y
		b.vel = reflect(b.vel, vec.Vec3{Y: 1}, b.cfg.Bounce)
	case 4:
		b.pos.Z = box.Min.Z
		b.vel = reflect(b.vel, vec.Vec3{Z: -1}, b.cfg.Bounce)
	case 5:
		b.pos.Z = box.Max.Z
		b.vel = reflect(b.vel, vec.Vec3{Z: 1}, b.cfg.Bounce)
	}
}

// reflect mirrors the normal component of v, scaled by restitution.
func reflect(v, normal vec.Vec3, bounce float64) vec.Vec3 {
	vn := v.Dot(normal)
	if vn >= 0 {
		return v
	}
	return v.Sub(normal.Scale((1 + bounce) * vn))
}

// sweep intersects the segment from..to against the box using the slab
// method and returns the entry point and face normal.
func sweep(from, to vec.Vec3, box Box) (bool, vec.Vec3, vec.Vec3) {
	dir := to.Sub(from)
	tEnter, tExit := 0.0, 1.0
	normal := vec.Vec3{}

	for axis := 0; axis < 3; axis++ {
		o, d := component(from, axis), component(dir, axis)
		lo, hi := component(box.Min, axis), component(box.Max, axis)
		if math.Abs(d) < 1e-12 {
			if o <= lo || o >= hi {
				return false, vec.Vec3{}, vec.Vec3{}
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		n := axisNormal(axis, -1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = axisNormal(axis, 1)
		}
		if t1 > tEnter {
			tEnter = t1
			normal = n
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return false, vec.Vec3{}, vec.Vec3{}
		}
	}

	if tEnter <= 0 || tEnter > 1 {
		return false, vec.Vec3{}, vec.Vec3{}
	}
	return true, from.Add(dir.Scale(tEnter)), normal
}

func component(v vec.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func axisNormal(axis, sign int) vec.Vec3 {
	s := float64(sign)
	switch axis {
	case 0:
		return vec.Vec3{X: s}
	case 1:
		return vec.Vec3{Y: s}
	default:
		return vec.Vec3{Z: s}
	}
}
