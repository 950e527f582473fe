package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/tosslab/internal/curve"
	"github.com/san-kum/tosslab/internal/vec"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Preview is the rendering collaborator: it receives every curve rebuild as
// a notification and can render the latest snapshot on demand. Purely
// observational, no feedback into the builder.
type Preview struct {
	width, height int
	last          curve.Curve
	has           bool
	rebuilds      int
}

func NewPreview(width, height int) *Preview {
	return &Preview{width: width, height: height}
}

// CurveRebuilt implements curve.Observer.
func (p *Preview) CurveRebuilt(c curve.Curve) {
	p.last = c
	p.has = true
	p.rebuilds++
}

// Curve returns the last received snapshot.
func (p *Preview) Curve() (curve.Curve, bool) { return p.last, p.has }

// Rebuilds counts notifications received, mainly for tests and stats.
func (p *Preview) Rebuilds() int { return p.rebuilds }

// Render draws the side and top projections of the last curve with its
// control points marked.
func (p *Preview) Render() string {
	if !p.has {
		return labelStyle.Render("no curve yet")
	}

	side := p.renderPlane(SideView, "side (z/y)")
	top := p.renderPlane(TopView, "top (z/x)")
	stats := p.renderStats()

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, side, top),
		stats,
	)
}

func (p *Preview) renderPlane(plane Plane, title string) string {
	c := NewCanvas(p.width, p.height)
	controls := []vec.Vec3{p.last.Start, p.last.C1, p.last.Anchor, p.last.C2, p.last.End}
	vp := FitViewport(plane, p.last.Samples, 0.5).Include(controls, 0.5)

	c.DrawPath(vp, p.last.Samples)
	c.DrawMarker(vp, p.last.Start)
	c.DrawMarker(vp, p.last.End)
	c.DrawMarker(vp, p.last.Anchor)

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(title),
		frameStyle.Render(strings.TrimRight(c.String(), "\n")),
	)
}

func (p *Preview) renderStats() string {
	c := p.last
	chord := c.End.Sub(c.Start).Length()
	rows := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("start:"), valueStyle.Render(fmtVec(c.Start))),
		fmt.Sprintf("%s %s", labelStyle.Render("end:"), valueStyle.Render(fmtVec(c.End))),
		fmt.Sprintf("%s %s", labelStyle.Render("anchor:"), valueStyle.Render(fmtVec(c.Anchor))),
		fmt.Sprintf("%s %s", labelStyle.Render("chord:"), valueStyle.Render(fmt.Sprintf("%.2f", chord))),
		fmt.Sprintf("%s %s", labelStyle.Render("samples:"), valueStyle.Render(fmt.Sprintf("%d", len(c.Samples)))),
	}
	return strings.Join(rows, "\n")
}

func fmtVec(v vec.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
