package curve

import (
	"math"
	"testing"

	"github.com/san-kum/tosslab/internal/vec"
)

func testFrame() Frame {
	return Frame{
		Start:      vec.Vec3{X: 0, Y: 0.5, Z: 0},
		FaceOrigin: vec.Vec3{X: 0, Y: 1.2, Z: 6},
		FaceRight:  vec.Vec3{X: 1, Y: 0, Z: 0},
		FaceUp:     vec.Vec3{X: 0, Y: 1, Z: 0},
	}
}

func testParams() Params {
	return Params{
		AnchorOffsetMax:   2.0,
		AnchorForwardBias: 0.5,
		HandleStrength:    0.75,
		SampleCount:       24,
		XMin:              -1.5,
		XMax:              1.5,
		YMin:              -0.8,
		YMax:              0.8,
	}
}

func TestBuilder_EndpointInvariants(t *testing.T) {
	frame := testFrame()

	offsets := []vec.Vec2{
		{X: 0, Y: 0},
		{X: 1.5, Y: 0.8},
		{X: -1.5, Y: -0.8},
		{X: 0.7, Y: -0.3},
	}

	for _, off := range offsets {
		b := New(frame, testParams())
		b.BeginDrag()
		b.Drag(off)
		b.EndDrag()
		c := b.Snapshot()

		if len(c.Samples) != testParams().SampleCount {
			t.Fatalf("offset %v: got %d samples, want %d", off, len(c.Samples), testParams().SampleCount)
		}

		wantEnd := frame.FaceOrigin.
			Add(frame.FaceRight.Scale(off.X)).
			Add(frame.FaceUp.Scale(off.Y))

		if c.Samples[0].Sub(frame.Start).Length() > 1e-4 {
			t.Errorf("offset %v: first sample %v, want start %v", off, c.Samples[0], frame.Start)
		}
		if c.Samples[len(c.Samples)-1].Sub(wantEnd).Length() > 1e-4 {
			t.Errorf("offset %v: last sample %v, want end %v", off, c.Samples[len(c.Samples)-1], wantEnd)
		}
	}
}

func TestBuilder_DragClamped(t *testing.T) {
	b := New(testFrame(), testParams())
	b.BeginDrag()
	b.Drag(vec.Vec2{X: 100, Y: -100})

	off := b.Offset()
	if off.X != 1.5 || off.Y != -0.8 {
		t.Errorf("offset after wild drag = %v, want (1.5,-0.8)", off)
	}

	c := b.Snapshot()
	for i, s := range c.Samples {
		if !s.IsValid() {
			t.Fatalf("sample %d invalid after clamped drag: %v", i, s)
		}
	}
}

func TestBuilder_CenterOffsetAnchorOnChord(t *testing.T) {
	frame := testFrame()
	b := New(frame, testParams())
	c := b.Snapshot()

	target := frame.FaceOrigin
	wantAnchor := vec.Lerp(frame.Start, target, testParams().AnchorForwardBias)
	if c.Anchor.Sub(wantAnchor).Length() > 1e-10 {
		t.Errorf("centered anchor = %v, want on-chord %v", c.Anchor, wantAnchor)
	}
}

func TestBuilder_DegenerateRectangle(t *testing.T) {
	p := testParams()
	p.XMin, p.XMax = 0.5, 0.5 // zero width
	b := New(testFrame(), p)
	b.BeginDrag()
	b.Drag(vec.Vec2{X: 3, Y: 0.2})
	c := b.Snapshot()

	for i, s := range c.Samples {
		if !s.IsValid() {
			t.Fatalf("sample %d invalid with degenerate rectangle: %v", i, s)
		}
	}
	// A pinned axis contributes no lateral displacement.
	nx, _ := b.normalizedOffset()
	if nx != 0 {
		t.Errorf("degenerate x axis gave normalized offset %v, want 0", nx)
	}
}

func TestBuilder_ZeroChordCollapse(t *testing.T) {
	frame := testFrame()
	frame.FaceOrigin = frame.Start // target lands on start at centered offset
	b := New(frame, testParams())
	c := b.Snapshot()

	if c.Anchor != frame.Start || c.C1 != frame.Start || c.C2 != frame.Start {
		t.Errorf("zero chord should collapse control points onto start, got anchor %v c1 %v c2 %v", c.Anchor, c.C1, c.C2)
	}
	if len(c.Samples) != testParams().SampleCount {
		t.Errorf("collapsed curve sample count = %d, want %d", len(c.Samples), testParams().SampleCount)
	}
	for _, s := range c.Samples {
		if s.Sub(frame.Start).Length() > 1e-12 {
			t.Errorf("collapsed sample %v should equal start", s)
		}
	}
}

func TestBuilder_VerticalChordFallbackAxis(t *testing.T) {
	frame := testFrame()
	frame.FaceOrigin = frame.Start.Add(vec.Vec3{X: 0, Y: 3, Z: 0}) // chord parallel to world up
	b := New(frame, testParams())
	b.BeginDrag()
	b.Drag(vec.Vec2{X: 1.5, Y: 0}) // full sideways offset
	c := b.Snapshot()

	// The side axis falls back to +x, so the anchor displaces along x by
	// the full AnchorOffsetMax.
	if math.Abs(c.Anchor.X-testParams().AnchorOffsetMax) > 1e-10 {
		t.Errorf("anchor x = %v, want %v along fallback axis", c.Anchor.X, testParams().AnchorOffsetMax)
	}
	for i, s := range c.Samples {
		if !s.IsValid() {
			t.Fatalf("sample %d invalid with vertical chord: %v", i, s)
		}
	}
}

type countingObserver struct {
	rebuilds int
	last     Curve
}

func (o *countingObserver) CurveRebuilt(c Curve) {
	o.rebuilds++
	o.last = c
}

func TestBuilder_RebuildDirtyGating(t *testing.T) {
	b := New(testFrame(), testParams())
	obs := &countingObserver{}
	b.AddObserver(obs)

	b.Rebuild()
	b.Rebuild()
	b.Rebuild()
	if obs.rebuilds != 1 {
		t.Errorf("clean rebuilds notified %d times, want 1", obs.rebuilds)
	}

	b.Drag(vec.Vec2{X: 0.1, Y: 0})
	b.Rebuild()
	if obs.rebuilds != 2 {
		t.Errorf("drag should mark dirty; notified %d times, want 2", obs.rebuilds)
	}
	if len(obs.last.Samples) != testParams().SampleCount {
		t.Errorf("observer snapshot has %d samples, want %d", len(obs.last.Samples), testParams().SampleCount)
	}
}

func TestBuilder_SetParamsReclamps(t *testing.T) {
	b := New(testFrame(), testParams())
	b.BeginDrag()
	b.Drag(vec.Vec2{X: 1.5, Y: 0.8})

	p := testParams()
	p.XMax, p.YMax = 0.5, 0.2
	b.SetParams(p)

	off := b.Offset()
	if off.X != 0.5 || off.Y != 0.2 {
		t.Errorf("offset after shrinking rectangle = %v, want (0.5,0.2)", off)
	}
}

func TestCurve_WaypointsCopy(t *testing.T) {
	b := New(testFrame(), testParams())
	c := b.Snapshot()

	wp := c.Waypoints()
	wp[0] = vec.Vec3{X: 99, Y: 99, Z: 99}
	if c.Samples[0] == (vec.Vec3{X: 99, Y: 99, Z: 99}) {
		t.Error("Waypoints must return a copy, not the internal slice")
	}
}
