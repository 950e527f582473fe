package viz

import (
	"strings"

	"github.com/san-kum/tosslab/internal/vec"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Plane selects which two world axes a viewport flattens onto.
type Plane int

const (
	// SideView maps world (z, y): flight distance along x, height along y.
	SideView Plane = iota
	// TopView maps world (z, x): flight distance along x, lateral bend along y.
	TopView
)

func (p Plane) flatten(w vec.Vec3) (float64, float64) {
	if p == TopView {
		return w.Z, w.X
	}
	return w.Z, w.Y
}

// Flatten maps a world point onto the plane's two screen axes.
func Flatten(p Plane, w vec.Vec3) (float64, float64) { return p.flatten(w) }

// Viewport maps a world-plane rectangle onto canvas sub-pixels. Screen y is
// flipped so larger world values draw higher.
type Viewport struct {
	Plane                  Plane
	MinX, MaxX, MinY, MaxY float64
}

// FitViewport bounds the given points with a margin.
func FitViewport(plane Plane, points []vec.Vec3, margin float64) Viewport {
	v := Viewport{Plane: plane, MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	if len(points) == 0 {
		return v
	}
	x0, y0 := plane.flatten(points[0])
	v.MinX, v.MaxX, v.MinY, v.MaxY = x0, x0, y0, y0
	for _, p := range points[1:] {
		x, y := plane.flatten(p)
		v.MinX = minF(v.MinX, x)
		v.MaxX = maxF(v.MaxX, x)
		v.MinY = minF(v.MinY, y)
		v.MaxY = maxF(v.MaxY, y)
	}
	v.MinX -= margin
	v.MaxX += margin
	v.MinY -= margin
	v.MaxY += margin
	return v
}

// Include grows the viewport to cover more points.
func (v Viewport) Include(points []vec.Vec3, margin float64) Viewport {
	for _, p := range points {
		x, y := v.Plane.flatten(p)
		v.MinX = minF(v.MinX, x-margin)
		v.MaxX = maxF(v.MaxX, x+margin)
		v.MinY = minF(v.MinY, y-margin)
		v.MaxY = maxF(v.MaxY, y+margin)
	}
	return v
}

func (v Viewport) project(c *Canvas, w vec.Vec3) (int, int) {
	x, y := v.Plane.flatten(w)
	spanX := v.MaxX - v.MinX
	spanY := v.MaxY - v.MinY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	px := int((x - v.MinX) / spanX * float64(c.Width*2-1))
	py := int((1 - (y-v.MinY)/spanY) * float64(c.Height*4-1))
	return px, py
}

// DrawPath draws a world polyline through the viewport.
func (c *Canvas) DrawPath(v Viewport, points []vec.Vec3) {
	if len(points) == 0 {
		return
	}
	px, py := v.project(c, points[0])
	for _, p := range points[1:] {
		nx, ny := v.project(c, p)
		c.DrawLine(px, py, nx, ny)
		px, py = nx, ny
	}
}

// DrawMarker lights a small cross at a world point.
func (c *Canvas) DrawMarker(v Viewport, w vec.Vec3) {
	x, y := v.project(c, w)
	c.Set(x, y)
	c.Set(x-1, y)
	c.Set(x+1, y)
	c.Set(x, y-1)
	c.Set(x, y+1)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
