package steer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tosslab/internal/steer"
	"github.com/san-kum/tosslab/internal/vec"
)

// fakeBody records every interaction the session has with its body.
type fakeBody struct {
	pos          vec.Vec3
	vel          vec.Vec3
	forces       []vec.Vec3
	contacts     int
	gravityScale float64
	gravitySet   bool
}

func (b *fakeBody) Position() vec.Vec3    { return b.pos }
func (b *fakeBody) Velocity() vec.Vec3    { return b.vel }
func (b *fakeBody) ApplyForce(f vec.Vec3) { b.forces = append(b.forces, f) }
func (b *fakeBody) ContactCount() int     { return b.contacts }
func (b *fakeBody) SetGravityScale(s float64) {
	b.gravityScale = s
	b.gravitySet = true
}

var _ = Describe("Session", func() {
	var (
		body   *fakeBody
		params steer.Params
	)

	BeforeEach(func() {
		body = &fakeBody{}
		params = steer.Params{
			TargetSpeed:    9,
			SteerStrength:  14,
			ArriveRadius:   0.15,
			StopOnContact:  true,
			PostHitGravity: 1.0,
		}
	})

	Describe("Launch", func() {
		It("rejects a nil body", func() {
			_, err := steer.Launch(nil, []vec.Vec3{{}, {X: 1}}, params)
			Expect(err).To(MatchError(steer.ErrNoBody))
		})

		It("rejects a polyline shorter than two points", func() {
			_, err := steer.Launch(body, []vec.Vec3{{}}, params)
			Expect(err).To(MatchError(steer.ErrShortPath))
		})

		It("copies the polyline so later mutation has no effect", func() {
			path := []vec.Vec3{{}, {X: 1}}
			s, err := steer.Launch(body, path, params)
			Expect(err).NotTo(HaveOccurred())

			path[0] = vec.Vec3{X: 99}
			Expect(s.Target()).To(Equal(vec.Vec3{}))
		})
	})

	Describe("following", func() {
		It("pushes toward the next waypoint with a velocity-error force", func() {
			s, err := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			Expect(err).NotTo(HaveOccurred())

			// Body starts on the first waypoint, so the cursor advances
			// to the last one and the force points along +x.
			s.Step()
			Expect(s.Index()).To(Equal(1))
			Expect(body.forces).To(HaveLen(1))

			f := body.forces[0]
			Expect(f.X).To(BeNumerically("~", params.TargetSpeed*params.SteerStrength, 1e-9))
			Expect(f.Y).To(BeNumerically("~", 0, 1e-9))
			Expect(f.Z).To(BeNumerically("~", 0, 1e-9))
		})

		It("subtracts the current velocity before scaling", func() {
			body.vel = vec.Vec3{X: 4}
			s, err := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			Expect(err).NotTo(HaveOccurred())

			s.Step()
			f := body.forces[0]
			Expect(f.X).To(BeNumerically("~", (params.TargetSpeed-4)*params.SteerStrength, 1e-9))
		})

		It("advances at most one waypoint per tick", func() {
			// Every waypoint sits inside the arrival radius of the body.
			path := []vec.Vec3{{}, {X: 0.01}, {X: 0.02}, {X: 5}}
			s, err := steer.Launch(body, path, params)
			Expect(err).NotTo(HaveOccurred())

			s.Step()
			Expect(s.Index()).To(Equal(1))
			s.Step()
			Expect(s.Index()).To(Equal(2))
			s.Step()
			Expect(s.Index()).To(Equal(3))
		})

		It("applies no force when sitting exactly on the target", func() {
			// A zero arrival radius keeps the cursor pinned on a waypoint
			// coincident with the body, exercising the direction guard.
			params.ArriveRadius = 0
			s, err := steer.Launch(body, []vec.Vec3{{}, {}}, params)
			Expect(err).NotTo(HaveOccurred())

			s.Step()
			Expect(s.Index()).To(Equal(0))
			Expect(body.forces).To(BeEmpty())
		})
	})

	Describe("arrival", func() {
		It("stops when the last waypoint falls inside the radius", func() {
			s, err := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			Expect(err).NotTo(HaveOccurred())

			s.Step() // cursor moves onto the final waypoint
			body.pos = vec.Vec3{X: 0.86}
			body.vel = vec.Vec3{X: 9}
			s.Step()

			Expect(s.Status()).To(Equal(steer.StoppedArrival))
			Expect(s.Status().Stopped()).To(BeTrue())
		})

		It("leaves gravity untouched on arrival", func() {
			s, _ := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			s.Step()
			body.pos = vec.Vec3{X: 0.95}
			s.Step()

			Expect(s.Status()).To(Equal(steer.StoppedArrival))
			Expect(body.gravitySet).To(BeFalse())
		})

		It("applies no force on the stopping tick", func() {
			s, _ := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			s.Step()
			applied := len(body.forces)

			body.pos = vec.Vec3{X: 0.9}
			s.Step()
			Expect(body.forces).To(HaveLen(applied))
		})
	})

	Describe("collision", func() {
		It("stops and restores gravity on the first contact", func() {
			s, _ := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			body.contacts = 1
			s.Step()

			Expect(s.Status()).To(Equal(steer.StoppedCollision))
			Expect(body.gravitySet).To(BeTrue())
			Expect(body.gravityScale).To(Equal(1.0))
			Expect(body.forces).To(BeEmpty())
		})

		It("ignores contacts when StopOnContact is off", func() {
			params.StopOnContact = false
			s, _ := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			body.contacts = 3
			s.Step()

			Expect(s.Status()).To(Equal(steer.Following))
			Expect(body.forces).NotTo(BeEmpty())
		})

		It("checks contact before arrival", func() {
			s, _ := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			s.Step()
			body.pos = vec.Vec3{X: 0.9} // inside the radius of the last waypoint
			body.contacts = 1
			s.Step()

			Expect(s.Status()).To(Equal(steer.StoppedCollision))
		})
	})

	Describe("stopped", func() {
		It("is terminal: further steps change nothing", func() {
			s, _ := steer.Launch(body, []vec.Vec3{{}, {X: 1}}, params)
			body.contacts = 1
			s.Step()
			Expect(s.Status()).To(Equal(steer.StoppedCollision))

			body.contacts = 0
			body.gravitySet = false
			index := s.Index()
			for i := 0; i < 5; i++ {
				s.Step()
			}

			Expect(s.Status()).To(Equal(steer.StoppedCollision))
			Expect(s.Index()).To(Equal(index))
			Expect(body.forces).To(BeEmpty())
			Expect(body.gravitySet).To(BeFalse())
		})
	})

	Describe("Status", func() {
		It("renders human-readable names", func() {
			Expect(steer.Following.String()).To(Equal("following"))
			Expect(steer.StoppedArrival.String()).To(Equal("arrival"))
			Expect(steer.StoppedCollision.String()).To(Equal("collision"))
		})
	})
})
