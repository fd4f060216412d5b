package viz

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

const (
	defaultCols   = 80
	defaultRows   = 24
	minCols       = 20
	minRows       = 8
	panelWidth    = 44
	historyLen    = 240
	maxFrameGap   = 250 * time.Millisecond
	orbitStep     = 0.08
	zoomStep      = 1.15
	axisLength    = 3.0
	particleArm   = 1
	graphWidth    = 34
	graphHeight   = 4
	statusTimeout = 3 * time.Second
)

type tickMsg time.Time

type Options struct {
	FPS       int
	Theme     string
	OutputDir string
}

// Model is the Bubble Tea program for the terminal renderer. It owns the
// simulation and advances it by the wall-clock time between ticks.
type Model struct {
	sim   *scene.Simulation
	frame scene.Frame

	fps      int
	last     time.Time
	paused   bool
	quitting bool

	cols, rows int
	aspect     float64
	canvas     *Canvas
	orbit      *scene.Orbit

	sliders  []*slider
	selected int

	theme  Theme
	styles styles

	xHistory []float64

	recorder  *Recorder
	recording bool
	outputDir string
	status    string
	statusAt  time.Time

	showHelp bool
}

func NewModel(sim *scene.Simulation, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	theme := GetTheme(opts.Theme)

	m := Model{
		sim:       sim,
		frame:     sim.Frame(),
		fps:       opts.FPS,
		orbit:     scene.NewOrbit(),
		theme:     theme,
		styles:    newStyles(theme),
		xHistory:  make([]float64, 0, historyLen),
		recorder:  NewRecorder(),
		outputDir: opts.OutputDir,
	}
	m.resize(defaultCols+panelWidth+4, defaultRows+2)

	p := sim.Params()
	for _, name := range dynamo.ParamNames {
		v, _ := p.Get(name)
		m.sliders = append(m.sliders, newSlider(name, v, opts.FPS, string(theme.Trail[0]), string(theme.Primary)))
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Simulation exposes the underlying simulation, mainly for tests and for
// saving the session afterwards.
func (m Model) Simulation() *scene.Simulation { return m.sim }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		now := time.Time(msg)
		m.advance(now)
		return m, m.tick()
	}
	return m, nil
}

// advance ticks the simulation by the time since the previous tick. The
// first tick and any tick while paused advance by zero; long stalls are
// capped at maxFrameGap.
func (m *Model) advance(now time.Time) {
	elapsed := 0.0
	if !m.last.IsZero() && !m.paused {
		gap := now.Sub(m.last)
		if gap > maxFrameGap {
			gap = maxFrameGap
		}
		elapsed = gap.Seconds()
	}
	m.last = now

	if m.paused {
		m.frame = m.sim.Frame()
	} else {
		m.frame = m.sim.Tick(elapsed)
		m.xHistory = append(m.xHistory, m.frame.Particle.X)
		if len(m.xHistory) > historyLen {
			m.xHistory = m.xHistory[len(m.xHistory)-historyLen:]
		}
	}

	for _, s := range m.sliders {
		s.animate()
	}
	if m.status != "" && now.Sub(m.statusAt) > statusTimeout {
		m.status = ""
	}

	m.draw()
	if m.recording {
		m.recorder.Capture(m.canvas)
	}
}

// resize recomputes the canvas and projection aspect from the terminal size.
// Simulation state is untouched.
func (m *Model) resize(width, height int) {
	m.cols = max(minCols, width-panelWidth-4)
	m.rows = max(minRows, height-2)
	m.canvas = NewCanvas(m.cols, m.rows)
	m.aspect = float64(m.canvas.SubWidth()) / float64(m.canvas.SubHeight())
	m.draw()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.sim.Reset()
		m.xHistory = m.xHistory[:0]
		m.frame = m.sim.Frame()
		m.setStatus("reset")
	case "tab":
		m.selected = (m.selected + 1) % len(m.sliders)
	case "shift+tab":
		m.selected = (m.selected + len(m.sliders) - 1) % len(m.sliders)
	case "up", "k":
		m.adjust(1)
	case "down", "j":
		m.adjust(-1)
	case "f":
		m.frame = m.sim.ToggleFollow()
	case "left", "h":
		m.orbit.Rotate(-orbitStep, 0)
	case "right", "l":
		m.orbit.Rotate(orbitStep, 0)
	case "pgup", "K":
		m.orbit.Rotate(0, orbitStep)
	case "pgdown", "J":
		m.orbit.Rotate(0, -orbitStep)
	case "+", "=":
		m.orbit.Zoom(1 / zoomStep)
	case "-", "_":
		m.orbit.Zoom(zoomStep)
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
		m.setStatus("theme " + m.theme.Name)
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.setStatus("recording")
		}
	case "s":
		path := filepath.Join(m.outputDir, fmt.Sprintf("gyrosim_%d.svg", time.Now().Unix()))
		if err := SaveSnapshot(m.canvas, path); err != nil {
			m.setStatus("snapshot failed: " + err.Error())
		} else {
			m.setStatus("saved " + path)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	m.draw()
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusAt = m.last
	if m.statusAt.IsZero() {
		m.statusAt = time.Now()
	}
}

func (m *Model) stopRecording() {
	m.recording = false
	path := filepath.Join(m.outputDir, "gyrosim.gif")
	n := m.recorder.Len()
	if err := m.recorder.Save(path); err != nil {
		m.setStatus("gif failed: " + err.Error())
		return
	}
	m.setStatus(fmt.Sprintf("saved %d frames to %s", n, path))
}

// adjust moves the selected slider by dir steps and applies the change.
func (m *Model) adjust(dir int) {
	s := m.sliders[m.selected]
	v := s.nudge(dir)
	reset, err := m.sim.Apply(scene.Change{Name: s.name, Value: v})
	if err != nil {
		m.setStatus(err.Error())
		return
	}
	s.set(v)
	if reset {
		m.xHistory = m.xHistory[:0]
	}
	m.frame = m.sim.Frame()
}

// camera picks the follow pose when the frame carries one and the orbit
// otherwise. The orbit circles the current guiding center so the helix
// stays in view as it drifts along z.
func (m *Model) camera() *Camera {
	if m.frame.Camera != nil {
		return NewCamera(*m.frame.Camera, m.aspect)
	}
	m.orbit.Target = m.sim.Model().Center(m.frame.Time)
	return NewCamera(m.orbit.Pose(), m.aspect)
}

func (m *Model) draw() {
	if m.canvas == nil || m.sim == nil {
		return
	}
	c := m.canvas
	c.Clear()
	cam := m.camera()
	w, h := c.SubWidth(), c.SubHeight()

	line := func(a, b dynamo.Vec3, level uint8) {
		x0, y0, d0, ok0 := cam.Project(a, w, h)
		x1, y1, d1, ok1 := cam.Project(b, w, h)
		if d0 <= cam.Near || d1 <= cam.Near || (!ok0 && !ok1) {
			return
		}
		if absInt(x0-x1) > 4*w || absInt(y0-y1) > 4*h {
			return
		}
		c.Line(x0, y0, x1, y1, level)
	}

	origin := dynamo.Vec3{}
	line(origin, dynamo.Vec3{X: axisLength}, levelAxis)
	line(origin, dynamo.Vec3{Y: axisLength}, levelAxis)
	line(origin, dynamo.Vec3{Z: axisLength}, levelAxis)

	colours := len(m.theme.Trail)
	trail := m.frame.Trail
	for i := 1; i < len(trail); i++ {
		line(trail[i-1], trail[i], levelTrail(i, len(trail), colours))
	}

	if x, y, _, ok := cam.Project(m.frame.Particle, w, h); ok {
		lvl := levelParticle(colours)
		for d := -particleArm; d <= particleArm; d++ {
			c.Plot(x+d, y, lvl)
			c.Plot(x, y+d, lvl)
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.styles
	canvasView := st.canvasBx.Render(m.canvas.Render(st.levels))

	var s strings.Builder
	s.WriteString(st.title.Render("GYROSIM") + "\n")

	switch {
	case m.recording:
		s.WriteString(st.rec.Render(fmt.Sprintf("● REC %d", m.recorder.Len())))
	case m.paused:
		s.WriteString(st.paused.Render("PAUSED"))
	default:
		s.WriteString(st.running.Render("RUNNING"))
	}
	if m.frame.Camera != nil {
		s.WriteString(st.muted.Render("  follow"))
	}
	s.WriteString("\n\n")

	if len(m.xHistory) > 1 {
		chart := asciigraph.Plot(m.xHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Precision(2),
			asciigraph.Caption("x(t)"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	model := m.sim.Model()
	p := m.frame.Particle
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2f", m.frame.Time))
	row("position", fmt.Sprintf("%.2f %.2f %.2f", p.X, p.Y, p.Z))
	row("omega", formatFinite(model.Omega()))
	row("radius", formatFinite(math.Abs(model.Gyroradius())))
	row("period", formatFinite(model.Period()))
	row("trail", fmt.Sprintf("%d/%d", len(m.frame.Trail), m.sim.Trail().Cap()))
	if model.Degenerate() {
		s.WriteString(st.warn.Render("straight-line drift") + "\n")
	}

	s.WriteString("\n")
	for i, sl := range m.sliders {
		s.WriteString(sl.view(i == m.selected, st) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + st.muted.Render(m.status) + "\n")
	}
	s.WriteString("\n" + st.muted.Render("tab:param ↑↓:adjust f:follow r:reset\nspace:pause t:theme g:gif s:svg ?:help q:quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return st.helpBox.Render(helpText) + "\n" + view
	}
	return view
}

func formatFinite(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "∞"
	}
	return fmt.Sprintf("%.3f", v)
}

const helpText = `KEYS
tab / shift+tab   select parameter
↑ k / ↓ j         adjust parameter
f                 toggle follow camera
← h / → l         orbit around the particle
pgup K / pgdn J   tilt orbit
+ / -             zoom orbit
space             pause
r                 reset time and trail
t                 next theme
g                 start/stop GIF recording
s                 save SVG snapshot
q                 quit`

// Run starts the terminal renderer in the alternate screen.
func Run(sim *scene.Simulation, opts Options) error {
	_, err := tea.NewProgram(NewModel(sim, opts), tea.WithAltScreen()).Run()
	return err
}
