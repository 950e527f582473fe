// Package launch runs one ball toss end to end: it spawns the body from the
// released curve, attaches a steering session, and drives the fixed-step
// loop until the session stops or the clock runs out.
package launch

import (
	"context"
	"fmt"

	"github.com/san-kum/tosslab/internal/curve"
	"github.com/san-kum/tosslab/internal/phys"
	"github.com/san-kum/tosslab/internal/sim"
	"github.com/san-kum/tosslab/internal/steer"
	"github.com/san-kum/tosslab/internal/vec"
)

// Config is the per-launch loop configuration.
type Config struct {
	Dt          float64 // fixed physics step
	MaxDuration float64 // hard cap on simulated time
	// Settle keeps the free body simulating this long after the session
	// stops, so the recorded trajectory includes the landing.
	Settle float64
}

// Result is the recorded flight.
type Result struct {
	States   []sim.State
	Controls []sim.Control
	Times    []float64
	Stop     steer.Status
	// Completion is the fraction of waypoints passed before stopping.
	Completion float64
	Metrics    map[string]float64
}

// Final returns the last recorded position.
func (r *Result) Final() vec.Vec3 {
	if len(r.States) == 0 {
		return vec.Vec3{}
	}
	x := r.States[len(r.States)-1]
	return vec.Vec3{X: x[0], Y: x[1], Z: x[2]}
}

// Launcher owns the collaborators of one toss.
type Launcher struct {
	world     *phys.World
	body      *phys.Body
	session   *steer.Session
	metrics   []sim.Metric
	observers []sim.Observer
}

// New wires a launcher. The session must already drive the given body.
func New(world *phys.World, body *phys.Body, session *steer.Session) *Launcher {
	return &Launcher{world: world, body: body, session: session}
}

// FromCurve spawns a body at the curve start with the release velocity
// tangentAt(0) * boostSpeed, starts a session over the curve samples, and
// returns the wired launcher.
func FromCurve(world *phys.World, c curve.Curve, bodyCfg phys.Config, boost float64, params steer.Params) (*Launcher, error) {
	vel := c.Tangent(0).NormalizeSafe(1e-9).Scale(boost)
	body := phys.NewBody(bodyCfg, c.Start, vel)
	session, err := steer.Launch(body, c.Samples, params)
	if err != nil {
		return nil, err
	}
	return New(world, body, session), nil
}

func (l *Launcher) AddMetric(m sim.Metric)     { l.metrics = append(l.metrics, m) }
func (l *Launcher) AddObserver(o sim.Observer) { l.observers = append(l.observers, o) }

func (l *Launcher) Body() *phys.Body        { return l.body }
func (l *Launcher) Session() *steer.Session { return l.session }

func (l *Launcher) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxDuration <= 0 {
		return fmt.Errorf("max duration must be positive, got %f", cfg.MaxDuration)
	}
	return nil
}

// Run drives the loop to completion. Each tick: one steering step, one
// physics step, then metric observation with the force the session applied.
func (l *Launcher) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	t := 0.0
	settleLeft := cfg.Settle

	l.record(result, t, sim.Control{0, 0, 0})

	for t < cfg.MaxDuration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		l.session.Step()

		// Capture the steering force now; the world step consumes the
		// accumulator.
		f := l.body.PendingForce()
		u := sim.Control{f.X, f.Y, f.Z}
		x := l.stateOf()
		for _, m := range l.metrics {
			m.Observe(x, u, t)
		}
		for _, o := range l.observers {
			o.OnStep(x, u, t)
		}

		l.world.Step(l.body, cfg.Dt)
		t += cfg.Dt
		l.record(result, t, u)

		if l.session.Status().Stopped() {
			settleLeft -= cfg.Dt
			if settleLeft <= 0 {
				break
			}
		}
	}

	result.Stop = l.session.Status()
	result.Completion = l.completion()
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// StepOnce runs a single tick, for callers that own their own loop (the
// live view). It returns true while the session is still following.
func (l *Launcher) StepOnce(dt float64) bool {
	l.session.Step()
	l.world.Step(l.body, dt)
	return !l.session.Status().Stopped()
}

func (l *Launcher) stateOf() sim.State {
	p := l.body.Position()
	v := l.body.Velocity()
	return sim.State{p.X, p.Y, p.Z, v.X, v.Y, v.Z}
}

// record appends one row. The control is passed in by the loop because the
// body's accumulator is already zeroed once the world step ran.
func (l *Launcher) record(r *Result, t float64, u sim.Control) {
	r.States = append(r.States, l.stateOf())
	r.Controls = append(r.Controls, u)
	r.Times = append(r.Times, t)
}

func (l *Launcher) completion() float64 {
	n := l.session.Len()
	if n < 2 {
		return 0
	}
	return float64(l.session.Index()) / float64(n-1)
}
