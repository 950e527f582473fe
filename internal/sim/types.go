package sim

import "math"

// State is a flat state vector. The ball body packs it as
// [px, py, pz, vx, vy, vz].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Control is a flat control vector; for the ball it is the steering force
// [fx, fy, fz].
type Control []float64

// Dynamics describes dX/dt = f(X, u, t).
type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a state by one fixed step.
type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// Observer is notified after every tick of a launch.
type Observer interface {
	OnStep(x State, u Control, t float64)
}

// Metric accumulates a scalar over a launch.
type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}
