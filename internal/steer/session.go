package steer

import (
	"errors"

	"github.com/san-kum/tosslab/internal/vec"
)

// directionEps guards against normalizing a near-zero to-target vector.
const directionEps = 1e-8

// Body is the contract a dynamical body must satisfy to be steered. The
// physics engine behind it is a black box; only position, velocity, gravity
// scale, continuous force, and a contact count are needed.
type Body interface {
	Position() vec.Vec3
	Velocity() vec.Vec3
	ApplyForce(f vec.Vec3)
	SetGravityScale(scale float64)
	ContactCount() int
}

// Status is the session state. Following is the only non-terminal state;
// both stopped states are terminal and irreversible.
type Status int

const (
	Following Status = iota
	StoppedArrival
	StoppedCollision
)

func (s Status) String() string {
	switch s {
	case Following:
		return "following"
	case StoppedArrival:
		return "arrival"
	case StoppedCollision:
		return "collision"
	default:
		return "unknown"
	}
}

// Stopped reports whether the session reached a terminal state.
func (s Status) Stopped() bool { return s != Following }

// Params tune the proportional follower.
type Params struct {
	TargetSpeed   float64 // desired speed along the path
	SteerStrength float64 // proportional gain on the velocity error
	ArriveRadius  float64 // distance below which a waypoint counts as reached
	StopOnContact bool    // disengage on the first reported contact
	// PostHitGravity is the gravity scale restored on a collision stop,
	// since steering may have been counteracting gravity. Arrival stops
	// leave gravity untouched.
	PostHitGravity float64
}

var (
	ErrNoBody    = errors.New("steer: no body to drive")
	ErrShortPath = errors.New("steer: polyline needs at least two points")
)

// Session drives one body along one fixed polyline. Step is invoked once per
// physics tick by the body's owner; the session holds no other resources and
// is discarded with the body.
type Session struct {
	body      Body
	waypoints []vec.Vec3
	index     int
	status    Status
	params    Params
}

// Launch starts a steering session over the given polyline. The polyline is
// defensively copied; a nil body or a short path is a configuration error
// reported here once, and no session is created.
func Launch(body Body, polyline []vec.Vec3, params Params) (*Session, error) {
	if body == nil {
		return nil, ErrNoBody
	}
	if len(polyline) < 2 {
		return nil, ErrShortPath
	}
	waypoints := make([]vec.Vec3, len(polyline))
	copy(waypoints, polyline)
	return &Session{
		body:      body,
		waypoints: waypoints,
		params:    params,
	}, nil
}

// Index returns the current waypoint cursor. It advances monotonically and
// freezes when the session stops.
func (s *Session) Index() int { return s.index }

// Status returns the session state.
func (s *Session) Status() Status { return s.status }

// Target returns the waypoint currently being chased.
func (s *Session) Target() vec.Vec3 { return s.waypoints[s.index] }

// Len returns the waypoint count.
func (s *Session) Len() int { return len(s.waypoints) }

// Step runs one tick of the follower: collision check, waypoint advancement
// with single-step lookahead, arrival detection, and the proportional
// velocity-error force. It never blocks and applies at most one force.
func (s *Session) Step() {
	if s.status.Stopped() {
		return
	}
	if s.params.StopOnContact && s.body.ContactCount() > 0 {
		s.status = StoppedCollision
		s.body.SetGravityScale(s.params.PostHitGravity)
		return
	}
	if len(s.waypoints) == 0 {
		return
	}

	last := len(s.waypoints) - 1
	p := s.body.Position()
	toTarget := s.waypoints[s.index].Sub(p)
	dist := toTarget.Length()

	// Single-step lookahead: advance at most one waypoint per tick, even
	// if several fall inside the arrival radius.
	if dist < s.params.ArriveRadius && s.index < last {
		s.index++
		toTarget = s.waypoints[s.index].Sub(p)
		dist = toTarget.Length()
	}

	if s.index == last && dist < s.params.ArriveRadius {
		// Path complete. The body keeps its momentum; gravity is left as
		// the physics engine has it.
		s.status = StoppedArrival
		return
	}

	if dist > directionEps {
		desired := toTarget.Normalize().Scale(s.params.TargetSpeed)
		force := desired.Sub(s.body.Velocity()).Scale(s.params.SteerStrength)
		s.body.ApplyForce(force)
	}
}
