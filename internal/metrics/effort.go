package metrics

import (
	"math"

	"github.com/san-kum/tosslab/internal/sim"
)

// ControlEffort averages the absolute steering force per tick.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(x sim.State, u sim.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// PeakHeight tracks the highest y the body reaches.
type PeakHeight struct {
	name string
	peak float64
	seen bool
}

func NewPeakHeight() *PeakHeight {
	return &PeakHeight{name: "peak_height"}
}

func (p *PeakHeight) Name() string { return p.name }

func (p *PeakHeight) Observe(x sim.State, u sim.Control, t float64) {
	if len(x) < 2 {
		return
	}
	if !p.seen || x[1] > p.peak {
		p.peak = x[1]
		p.seen = true
	}
}

func (p *PeakHeight) Value() float64 { return p.peak }

func (p *PeakHeight) Reset() {
	p.peak = 0
	p.seen = false
}
