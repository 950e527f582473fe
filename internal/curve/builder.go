package curve

import (
	"math"

	"github.com/san-kum/tosslab/internal/vec"
)

const (
	// halfExtentEps floors the drag-rectangle half extents so offset
	// normalization never divides by zero.
	halfExtentEps = 1e-6
	// chordEps below which the start-to-target chord counts as degenerate.
	chordEps = 1e-9
)

// fallbackSide replaces the side axis when the chord is parallel to world-up.
var fallbackSide = vec.Vec3{X: 1}

// Params are the curve shaping tunables.
type Params struct {
	AnchorOffsetMax   float64 // >= 0, world units of maximum anchor displacement
	AnchorForwardBias float64 // in [0,1], anchor position along the chord
	HandleStrength    float64 // in [0,1], control-handle pull toward the anchor
	SampleCount       int     // >= 2
	XMin, XMax        float64 // drag rectangle, goal-face local units
	YMin, YMax        float64
	WorldUp           vec.Vec3 // zero value falls back to vec.Up
}

// RectCenter returns the symmetric center of the drag rectangle.
func (p Params) RectCenter() vec.Vec2 {
	return vec.Vec2{X: (p.XMin + p.XMax) / 2, Y: (p.YMin + p.YMax) / 2}
}

func (p Params) worldUp() vec.Vec3 {
	if p.WorldUp == (vec.Vec3{}) {
		return vec.Up
	}
	return p.WorldUp
}

// Frame anchors the curve between a fixed start and the goal face. FaceRight
// and FaceUp need not be unit vectors but must be non-degenerate.
type Frame struct {
	Start      vec.Vec3
	FaceOrigin vec.Vec3
	FaceRight  vec.Vec3
	FaceUp     vec.Vec3
}

// Observer is notified with the new snapshot after every rebuild. Purely
// observational; observers must not retain and mutate the sample slice.
type Observer interface {
	CurveRebuilt(c Curve)
}

// Builder converts the accumulated drag offset into a cubic Bézier curve and
// its uniform sample polyline. Recomputation happens only when dirty, so
// per-frame Rebuild calls are cheap no-ops between input events.
type Builder struct {
	frame     Frame
	params    Params
	drag      vec.Vec2
	dirty     bool
	cached    Curve
	observers []Observer
}

// New creates a builder with the drag offset at the rectangle center.
func New(frame Frame, params Params) *Builder {
	b := &Builder{frame: frame, params: params, dirty: true}
	b.drag = params.RectCenter()
	return b
}

func (b *Builder) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// BeginDrag starts a drag session, resetting the offset to the rectangle
// center.
func (b *Builder) BeginDrag() {
	b.drag = b.params.RectCenter()
	b.dirty = true
}

// Drag accumulates a local-offset delta (already converted from pixels by
// the input tracker) and clamps the result into the rectangle.
func (b *Builder) Drag(delta vec.Vec2) {
	b.drag = b.drag.Add(delta).Clamp(b.params.XMin, b.params.XMax, b.params.YMin, b.params.YMax)
	b.dirty = true
}

// EndDrag closes the drag session. The offset is kept so the released curve
// matches the last preview.
func (b *Builder) EndDrag() {
	b.dirty = true
}

// SetParams replaces the tunables and re-clamps the offset into the possibly
// changed rectangle.
func (b *Builder) SetParams(p Params) {
	b.params = p
	b.drag = b.drag.Clamp(p.XMin, p.XMax, p.YMin, p.YMax)
	b.dirty = true
}

// SetFrame moves the start or the goal face.
func (b *Builder) SetFrame(f Frame) {
	b.frame = f
	b.dirty = true
}

func (b *Builder) Params() Params   { return b.params }
func (b *Builder) Offset() vec.Vec2 { return b.drag }

// Snapshot returns the current curve, rebuilding first if dirty.
func (b *Builder) Snapshot() Curve {
	return b.Rebuild()
}

// Rebuild recomputes the curve when dirty and notifies observers. When
// nothing changed since the last rebuild it returns the cached snapshot
// without recomputing or notifying.
func (b *Builder) Rebuild() Curve {
	if !b.dirty {
		return b.cached
	}
	b.cached = b.compute()
	b.dirty = false
	for _, o := range b.observers {
		o.CurveRebuilt(b.cached)
	}
	return b.cached
}

func (b *Builder) compute() Curve {
	p := b.params
	start := b.frame.Start
	target := b.frame.FaceOrigin.
		Add(b.frame.FaceRight.Scale(b.drag.X)).
		Add(b.frame.FaceUp.Scale(b.drag.Y))

	chord := target.Sub(start)
	if chord.Length() < chordEps {
		// Zero-length chord: the curve collapses onto the endpoints.
		c := Curve{Start: start, Anchor: start, End: target, C1: start, C2: target}
		c.Samples = sample(start, start, target, target, p.SampleCount)
		return c
	}

	chordForward := chord.Normalize()
	side := chordForward.Cross(p.worldUp()).NormalizeSafe(chordEps)
	if side == (vec.Vec3{}) {
		side = fallbackSide
	}

	nx, ny := b.normalizedOffset()
	up := p.worldUp()

	anchor := vec.Lerp(start, target, p.AnchorForwardBias).
		Add(side.Scale(nx * p.AnchorOffsetMax)).
		Add(up.Scale(ny * p.AnchorOffsetMax))

	c1 := vec.Lerp(start, anchor, p.HandleStrength)
	c2 := vec.Lerp(target, anchor, p.HandleStrength)

	return Curve{
		Start:   start,
		Anchor:  anchor,
		End:     target,
		C1:      c1,
		C2:      c2,
		Samples: sample(start, c1, c2, target, p.SampleCount),
	}
}

// normalizedOffset maps the clamped drag offset into [-1,1]x[-1,1] relative
// to the rectangle center. Degenerate half extents floor to an epsilon, which
// with a clamped offset resolves the coordinate to 0.
func (b *Builder) normalizedOffset() (nx, ny float64) {
	center := b.params.RectCenter()
	hx := math.Max((b.params.XMax-b.params.XMin)/2, halfExtentEps)
	hy := math.Max((b.params.YMax-b.params.YMin)/2, halfExtentEps)
	nx = clampUnit((b.drag.X - center.X) / hx)
	ny = clampUnit((b.drag.Y - center.Y) / hy)
	return nx, ny
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
