package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/tosslab/internal/vec"
)

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(10, 5)

	c.Set(0, 0)
	if c.Grid[0][0] == 0x2800 {
		t.Error("Set(0,0) left the cell empty")
	}

	// Out of range is a no-op.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 100)

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("Clear left lit cells")
			}
		}
	}
}

func TestCanvas_SubPixelPacking(t *testing.T) {
	c := NewCanvas(2, 2)

	// All 8 sub-pixels of one char cell land in Grid[0][0].
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			c.Set(x, y)
		}
	}
	if c.Grid[0][0] != 0x28FF {
		t.Errorf("full cell = %#x, want 0x28FF", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2800 {
		t.Error("neighbor cell was touched")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("diagonal line lit no cells")
	}
}

func TestCanvas_String(t *testing.T) {
	c := NewCanvas(4, 3)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("string has %d rows, want 3", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 4 {
			t.Errorf("row width %d, want 4", len([]rune(line)))
		}
	}
}

func TestFlatten(t *testing.T) {
	w := vec.Vec3{X: 1, Y: 2, Z: 3}

	x, y := Flatten(SideView, w)
	if x != 3 || y != 2 {
		t.Errorf("side view = (%v,%v), want (3,2)", x, y)
	}

	x, y = Flatten(TopView, w)
	if x != 3 || y != 1 {
		t.Errorf("top view = (%v,%v), want (3,1)", x, y)
	}
}

func TestFitViewport(t *testing.T) {
	points := []vec.Vec3{
		{Y: 0.5},
		{Y: 2, Z: 3},
		{Y: 1.2, Z: 6},
	}
	v := FitViewport(SideView, points, 0.5)

	if v.MinX != -0.5 || v.MaxX != 6.5 {
		t.Errorf("x span [%v,%v], want [-0.5,6.5]", v.MinX, v.MaxX)
	}
	if v.MinY != 0 || v.MaxY != 2.5 {
		t.Errorf("y span [%v,%v], want [0,2.5]", v.MinY, v.MaxY)
	}

	empty := FitViewport(SideView, nil, 0.5)
	if empty.MaxX <= empty.MinX || empty.MaxY <= empty.MinY {
		t.Error("empty viewport must stay non-degenerate")
	}
}

func TestViewport_Include(t *testing.T) {
	v := FitViewport(SideView, []vec.Vec3{{}, {Z: 1, Y: 1}}, 0)
	grown := v.Include([]vec.Vec3{{Z: 5, Y: -2}}, 0)
	if grown.MaxX < 5 || grown.MinY > -2 {
		t.Errorf("Include did not grow the viewport: %+v", grown)
	}
}

func TestViewport_ProjectYFlip(t *testing.T) {
	c := NewCanvas(10, 10)
	v := Viewport{Plane: SideView, MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}

	_, yLow := v.project(c, vec.Vec3{Y: 0, Z: 5})
	_, yHigh := v.project(c, vec.Vec3{Y: 10, Z: 5})
	if yHigh >= yLow {
		t.Errorf("higher world y should project to smaller screen y: got %d vs %d", yHigh, yLow)
	}
}

func TestCanvas_DrawPath(t *testing.T) {
	c := NewCanvas(20, 10)
	points := []vec.Vec3{{Y: 0.5}, {Y: 2, Z: 3}, {Y: 1.2, Z: 6}}
	v := FitViewport(SideView, points, 0.3)
	c.DrawPath(v, points)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	if lit < 10 {
		t.Errorf("path lit only %d cells", lit)
	}
}
