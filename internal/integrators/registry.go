package integrators

import (
	"fmt"

	"github.com/san-kum/tosslab/internal/sim"
)

// New returns the integrator registered under the given name.
func New(name string) (sim.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "semi_implicit", "":
		return NewSemiImplicit(), nil
	case "rk4":
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// Names lists the registered integrators.
func Names() []string {
	return []string{"euler", "semi_implicit", "rk4"}
}
