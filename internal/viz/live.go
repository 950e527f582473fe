package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/tosslab/internal/config"
	"github.com/san-kum/tosslab/internal/curve"
	"github.com/san-kum/tosslab/internal/input"
	"github.com/san-kum/tosslab/internal/integrators"
	"github.com/san-kum/tosslab/internal/launch"
	"github.com/san-kum/tosslab/internal/phys"
	"github.com/san-kum/tosslab/internal/vec"
)

const (
	liveCanvasW = 48
	liveCanvasH = 14
	frameRate   = 30
	// dragStepPx is the synthetic pixel delta one key press feeds the
	// tracker, standing in for a mouse-move event.
	dragStepPx = 12
)

var (
	aimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	flyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the interactive live view: aim the curve with keys, release, and
// watch the follower fly. Key presses stand in for the drag-move events the
// input tracker expects.
type Model struct {
	cfg        *config.Config
	configPath string
	watcher    *config.Watcher

	builder *curve.Builder
	tracker *input.Tracker
	preview *Preview

	launcher *launch.Launcher
	trail    []vec.Vec3
	simTime  float64

	flying   bool
	stopNote string
	err      error
}

// NewModel wires the live view. watcher may be nil when no config file is
// being watched.
func NewModel(cfg *config.Config, configPath string, watcher *config.Watcher) Model {
	m := Model{
		cfg:        cfg,
		configPath: configPath,
		watcher:    watcher,
		builder:    curve.New(cfg.Frame(), cfg.CurveParams()),
		tracker:    newTracker(cfg),
		preview:    NewPreview(liveCanvasW, liveCanvasH),
	}
	m.builder.AddObserver(m.preview)
	m.builder.BeginDrag()
	m.builder.Rebuild()
	return m
}

func newTracker(cfg *config.Config) *input.Tracker {
	t := input.NewTracker(
		cfg.Curve.XMax-cfg.Curve.XMin,
		cfg.Curve.YMax-cfg.Curve.YMin,
		cfg.Drag.SpanX,
		cfg.Drag.SpanY,
	)
	// Until the first WindowSizeMsg arrives, assume a typical terminal.
	t.SetViewport(640, 480)
	return t
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.tracker.SetViewport(float64(msg.Width)*8, float64(msg.Height)*16)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.pollConfig()
		if m.flying {
			m.advance()
		}
		m.builder.Rebuild()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.drag(-dragStepPx, 0)
	case "right", "l":
		m.drag(dragStepPx, 0)
	case "up", "k":
		m.drag(0, -dragStepPx)
	case "down", "j":
		m.drag(0, dragStepPx)
	case "enter", " ":
		if !m.flying {
			m.release()
		}
	case "r":
		m.reset()
	}
	return m, nil
}

func (m *Model) drag(dxPx, dyPx float64) {
	if m.flying {
		return
	}
	m.builder.Drag(m.tracker.Delta(dxPx, dyPx))
}

func (m *Model) release() {
	c := m.builder.Rebuild()
	m.builder.EndDrag()

	integ, err := integrators.New(m.cfg.Sim.Integrator)
	if err != nil {
		m.err = err
		return
	}
	world := phys.NewWorld(m.cfg.Scene.Gravity, m.cfg.Scene.GroundY, integ)
	if box, ok := m.cfg.Backboard(); ok {
		world.AddBox(box)
	}

	launcher, err := launch.FromCurve(world, c, m.cfg.Body, m.cfg.Steer.BoostSpeed, m.cfg.SteerParams())
	if err != nil {
		m.err = err
		return
	}

	m.launcher = launcher
	m.trail = m.trail[:0]
	m.simTime = 0
	m.flying = true
	m.stopNote = ""
	m.err = nil
}

func (m *Model) reset() {
	m.launcher = nil
	m.trail = nil
	m.flying = false
	m.stopNote = ""
	m.builder.BeginDrag()
}

// advance runs the physics substeps that fit into one frame.
func (m *Model) advance() {
	dt := m.cfg.Sim.Dt
	frameDt := 1.0 / frameRate
	for elapsed := 0.0; elapsed < frameDt; elapsed += dt {
		following := m.launcher.StepOnce(dt)
		m.simTime += dt
		m.trail = append(m.trail, m.launcher.Body().Position())
		if !following {
			m.flying = false
			m.stopNote = m.launcher.Session().Status().String()
			return
		}
		if m.simTime > m.cfg.Sim.MaxDuration {
			m.flying = false
			m.stopNote = "timeout"
			return
		}
	}
}

// pollConfig drains pending watcher events and reloads tunables, marking the
// builder dirty through SetParams/SetFrame.
func (m *Model) pollConfig() {
	if m.watcher == nil {
		return
	}
	reload := false
	for {
		select {
		case _, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			reload = true
		default:
			if !reload {
				return
			}
			cfg, err := config.Load(m.configPath)
			if err != nil {
				m.err = err
				return
			}
			m.cfg = cfg
			m.builder.SetFrame(cfg.Frame())
			m.builder.SetParams(cfg.CurveParams())
			m.tracker = newTracker(cfg)
			return
		}
	}
}

func (m Model) View() string {
	c := NewCanvas(liveCanvasW, liveCanvasH)
	snapshot := m.builder.Snapshot()

	points := snapshot.Samples
	vp := FitViewport(SideView, points, 0.5).Include(m.trail, 0.5)
	c.DrawPath(vp, points)
	c.DrawMarker(vp, snapshot.Start)
	c.DrawMarker(vp, snapshot.End)
	c.DrawPath(vp, m.trail)
	if m.launcher != nil {
		c.DrawMarker(vp, m.launcher.Body().Position())
	}

	var status string
	switch {
	case m.err != nil:
		status = aimStyle.Render("error: " + m.err.Error())
	case m.flying:
		status = flyStyle.Render(fmt.Sprintf("flying  t=%.2fs  waypoint %d/%d",
			m.simTime, m.launcher.Session().Index()+1, m.launcher.Session().Len()))
	case m.stopNote != "":
		status = flyStyle.Render("stopped: " + m.stopNote)
	default:
		off := m.builder.Offset()
		status = aimStyle.Render(fmt.Sprintf("aiming  offset=(%.2f, %.2f)", off.X, off.Y))
	}

	help := helpStyle.Render("arrows/hjkl aim · enter release · r reset · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("tosslab"),
		frameStyle.Render(strings.TrimRight(c.String(), "\n")),
		status,
		help,
	)
}
