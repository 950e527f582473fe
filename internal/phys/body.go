// Package phys is the minimal rigid-body backend behind the steering
// contract: world position, linear velocity, a settable gravity scale, a
// continuous-force accumulator, and a contact count. Everything else about
// collision response stays inside the World.
package phys

import (
	"github.com/san-kum/tosslab/internal/sim"
	"github.com/san-kum/tosslab/internal/vec"
)

// Config carries the spawn-time body parameters.
type Config struct {
	Mass          float64 `yaml:"mass"`
	Radius        float64 `yaml:"radius"`
	Bounce        float64 `yaml:"bounce"`
	Friction      float64 `yaml:"friction"`
	LinearDamping float64 `yaml:"linear_damping"`
	GravityScale  float64 `yaml:"gravity_scale"`
	Continuous    bool    `yaml:"continuous"` // swept collision test against thin colliders
}

// Body is a single dynamic sphere. Forces accumulate between steps and are
// consumed by World.Step.
type Body struct {
	cfg          Config
	pos          vec.Vec3
	vel          vec.Vec3
	force        vec.Vec3
	gravityScale float64
	contacts     int
}

// NewBody spawns a body at the given position with the given initial
// velocity. A non-positive mass floors to 1 so the derivative stays defined.
func NewBody(cfg Config, pos, vel vec.Vec3) *Body {
	if cfg.Mass <= 0 {
		cfg.Mass = 1
	}
	return &Body{
		cfg:          cfg,
		pos:          pos,
		vel:          vel,
		gravityScale: cfg.GravityScale,
	}
}

func (b *Body) Position() vec.Vec3 { return b.pos }
func (b *Body) Velocity() vec.Vec3 { return b.vel }
func (b *Body) ContactCount() int  { return b.contacts }

// ApplyForce adds a continuous force for the current tick.
func (b *Body) ApplyForce(f vec.Vec3) { b.force = b.force.Add(f) }

// PendingForce returns the force accumulated since the last world step.
func (b *Body) PendingForce() vec.Vec3 { return b.force }

func (b *Body) SetGravityScale(scale float64) { b.gravityScale = scale }
func (b *Body) GravityScale() float64         { return b.gravityScale }

func (b *Body) Config() Config { return b.cfg }

// state packs the body into [px, py, pz, vx, vy, vz].
func (b *Body) state() sim.State {
	return sim.State{b.pos.X, b.pos.Y, b.pos.Z, b.vel.X, b.vel.Y, b.vel.Z}
}

func (b *Body) setState(x sim.State) {
	b.pos = vec.Vec3{X: x[0], Y: x[1], Z: x[2]}
	b.vel = vec.Vec3{X: x[3], Y: x[4], Z: x[5]}
}

// dynamics adapts a body to sim.Dynamics. The control vector is the steering
// force; gravity and linear damping are part of the drift term.
type dynamics struct {
	body    *Body
	gravity float64 // positive magnitude, acting along -Y
}

func (d dynamics) StateDim() int   { return 6 }
func (d dynamics) ControlDim() int { return 3 }

func (d dynamics) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	b := d.body
	var fx, fy, fz float64
	if len(u) >= 3 {
		fx, fy, fz = u[0], u[1], u[2]
	}
	invMass := 1 / b.cfg.Mass
	ax := fx*invMass - b.cfg.LinearDamping*x[3]
	ay := fy*invMass - d.gravity*b.gravityScale - b.cfg.LinearDamping*x[4]
	az := fz*invMass - b.cfg.LinearDamping*x[5]
	return sim.State{x[3], x[4], x[5], ax, ay, az}
}
