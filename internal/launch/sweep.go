package launch

import (
	"context"
	"sync"

	"github.com/san-kum/tosslab/internal/curve"
	"github.com/san-kum/tosslab/internal/integrators"
	"github.com/san-kum/tosslab/internal/phys"
	"github.com/san-kum/tosslab/internal/steer"
	"github.com/san-kum/tosslab/internal/vec"
)

// Factory carries everything needed to build one independent toss. Each
// sweep cell constructs its own builder, world, body, and session, so the
// runs share nothing.
type Factory struct {
	Frame      curve.Frame
	Curve      curve.Params
	Body       phys.Config
	Boost      float64
	Steer      steer.Params
	Gravity    float64
	GroundY    float64
	Integrator string
}

// Cell is the outcome of one sweep launch.
type Cell struct {
	Offset       vec.Vec2 // drag offset used for this cell
	Stop         steer.Status
	Completion   float64
	LandingError float64 // final position distance to the curve end
	Err          error
}

// RunSweep launches a cols x rows grid of drag offsets across the rectangle
// in parallel and reports per-cell landing accuracy. Cell order is row-major
// from (XMin, YMin).
func RunSweep(ctx context.Context, f Factory, cols, rows int, cfg Config) ([]Cell, error) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([]Cell, cols*rows)

	var wg sync.WaitGroup
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			wg.Add(1)
			go func(col, row int) {
				defer wg.Done()
				idx := row*cols + col
				cells[idx] = runCell(ctx, f, cellOffset(f.Curve, col, row, cols, rows), cfg)
			}(col, row)
		}
	}
	wg.Wait()

	for i := range cells {
		if cells[i].Err != nil {
			return cells, cells[i].Err
		}
	}
	return cells, nil
}

// cellOffset maps a grid coordinate to an absolute drag offset inside the
// rectangle, inclusive of its edges.
func cellOffset(p curve.Params, col, row, cols, rows int) vec.Vec2 {
	fx, fy := 0.5, 0.5
	if cols > 1 {
		fx = float64(col) / float64(cols-1)
	}
	if rows > 1 {
		fy = float64(row) / float64(rows-1)
	}
	return vec.Vec2{
		X: p.XMin + (p.XMax-p.XMin)*fx,
		Y: p.YMin + (p.YMax-p.YMin)*fy,
	}
}

func runCell(ctx context.Context, f Factory, offset vec.Vec2, cfg Config) Cell {
	cell := Cell{Offset: offset}

	builder := curve.New(f.Frame, f.Curve)
	builder.BeginDrag()
	center := f.Curve.RectCenter()
	builder.Drag(vec.Vec2{X: offset.X - center.X, Y: offset.Y - center.Y})
	c := builder.Rebuild()

	integ, err := integrators.New(f.Integrator)
	if err != nil {
		cell.Err = err
		return cell
	}
	world := phys.NewWorld(f.Gravity, f.GroundY, integ)

	launcher, err := FromCurve(world, c, f.Body, f.Boost, f.Steer)
	if err != nil {
		cell.Err = err
		return cell
	}

	result, err := launcher.Run(ctx, cfg)
	if err != nil {
		cell.Err = err
		return cell
	}

	cell.Stop = result.Stop
	cell.Completion = result.Completion
	cell.LandingError = result.Final().Sub(c.End).Length()
	return cell
}
