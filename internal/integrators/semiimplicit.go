package integrators

import "github.com/san-kum/tosslab/internal/sim"

// SemiImplicit is symplectic Euler over a [positions | velocities] state:
// velocities advance first, positions advance with the new velocities. It is
// the default for the ball body since it stays stable at game-sized steps.
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (s *SemiImplicit) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	n := len(x)
	half := n / 2

	dx := dyn.Derivative(x, u, t)

	result := make(sim.State, n)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dx[half+i]*dt
	}
	for i := 0; i < half; i++ {
		result[i] = x[i] + result[half+i]*dt
	}
	return result
}
