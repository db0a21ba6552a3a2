package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/camera"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/sim"
)

const (
	historyCapacity = 120
	sidebarWidth    = 44
	rotateStep      = 0.08
	zoomStep        = 1.1
	scaleStep       = 1.1
	minTrail        = 10
	maxTrail        = 1000
)

type TickMsg time.Time

// SnapshotFunc saves the current frame and returns where it went.
type SnapshotFunc func(f sim.Frame, c *Canvas) (string, error)

type Options struct {
	FPS      int
	Theme    string
	Registry *physics.Registry
	Player   *automation.Player
	Snapshot SnapshotFunc
	Logger   *log.Logger
}

// App is the interactive terminal frontend.
type App struct {
	sim      *sim.Simulator
	orbit    *camera.Orbit
	registry *physics.Registry
	player   *automation.Player
	snapshot SnapshotFunc
	logger   *log.Logger
	theme    Theme
	interval time.Duration

	canvas   *Canvas
	frame    sim.Frame
	hasFrame bool
	last     time.Time
	initial  dynamo.Params

	width, height int
	paused        bool
	axis          dynamo.Axis
	editing       bool
	input         string
	showHelp      bool
	status        string
	history       [3][]float64
}

func NewApp(s *sim.Simulator, orbit *camera.Orbit, opts Options) App {
	fps := opts.FPS
	if fps < 1 {
		fps = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = physics.NewRegistry()
	}
	return App{
		sim:      s,
		orbit:    orbit,
		registry: reg,
		player:   opts.Player,
		snapshot: opts.Snapshot,
		logger:   logger,
		theme:    GetTheme(opts.Theme),
		interval: time.Second / time.Duration(fps),
		canvas:   NewCanvas(1, 1),
		initial:  s.Store().Params(),
		showHelp: true,
	}
}

func (m App) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m App) Init() tea.Cmd { return m.tick() }

// Ready reports whether the terminal size is known and frames can be drawn.
func (m App) Ready() bool { return m.width > 0 && m.height > 0 }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.editing {
			m.editKey(msg)
			break
		}
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	m.redraw()
	return m, nil
}

func (m *App) resize(w, h int) {
	m.width, m.height = w, h
	cw := w - sidebarWidth - 4
	ch := h - 3
	if cw < 10 {
		cw = 10
	}
	if ch < 5 {
		ch = 5
	}
	m.canvas.Resize(cw, ch)
	m.orbit.SetViewport(m.canvas.PixelSize())
}

func (m *App) step(now time.Time) {
	if m.last.IsZero() {
		m.last = now
	}
	dt := now.Sub(m.last).Seconds()
	m.last = now

	m.orbit.Update()
	if m.paused || !m.Ready() {
		m.redraw()
		return
	}

	if m.player != nil {
		for _, msg := range m.player.Due(m.sim.Time()) {
			m.dispatch(msg)
		}
	}

	f, err := m.sim.Tick(dt)
	if err != nil {
		m.logger.Warn("frame dropped", "err", err)
		m.status = err.Error()
		return
	}
	m.frame, m.hasFrame = f, true
	if f.Cleared {
		m.clearHistory()
	}
	m.record(f.Position)
	m.redraw()
}

func (m *App) record(p dynamo.Vec3) {
	for i, v := range [3]float64{p.X, p.Y, p.Z} {
		h := append(m.history[i], v)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[i] = h
	}
}

func (m *App) clearHistory() {
	for i := range m.history {
		m.history[i] = m.history[i][:0]
	}
}

func (m *App) dispatch(msg params.Message) {
	changed, err := m.sim.Dispatch(msg)
	switch {
	case err != nil:
		m.status = "ignored: " + err.Error()
	case changed:
		m.status = msg.String()
	}
}

// handleKey applies a key press and reports whether the app should quit.
func (m *App) handleKey(key string) bool {
	switch key {
	case "q", "ctrl+c":
		return true
	case "?", "i":
		m.showHelp = !m.showHelp
	case "esc":
		m.showHelp = false
	case " ":
		m.paused = !m.paused
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.dispatch(params.SetEnergyLevel{N: int(key[0] - '0')})
	case "+", "=":
		m.dispatch(params.StepEnergy{Delta: 1})
	case "-", "_":
		m.dispatch(params.StepEnergy{Delta: -1})
	case "tab":
		m.axis = (m.axis + 1) % 3
	case "shift+tab":
		m.axis = (m.axis + 2) % 3
	case "[":
		m.dispatch(params.ScaleBoxAxis{Axis: m.axis, Factor: 1 / scaleStep})
	case "]":
		m.dispatch(params.ScaleBoxAxis{Axis: m.axis, Factor: scaleStep})
	case "e", "enter":
		m.editing = true
		m.input = fmt.Sprintf("%.3g", m.sim.Store().Params().Box.Dim(m.axis))
	case "left", "h":
		m.orbit.Rotate(-rotateStep, 0)
	case "right", "l":
		m.orbit.Rotate(rotateStep, 0)
	case "up", "k":
		m.orbit.Rotate(0, rotateStep)
	case "down", "j":
		m.orbit.Rotate(0, -rotateStep)
	case "z":
		m.orbit.Zoom(1 / zoomStep)
	case "Z":
		m.orbit.Zoom(zoomStep)
	case "f":
		m.orbit.Frame(m.sim.Store().Params().Box)
	case "t":
		m.theme = NextTheme(m.theme)
		m.status = "theme " + m.theme.Name
	case "m":
		m.cycleModel()
	case "r":
		m.sim.Restart()
		m.clearHistory()
		if m.player != nil {
			m.player.Rewind()
		}
		m.status = "restarted"
	case "R":
		m.dispatch(params.Reset{To: m.initial})
	case "s":
		m.saveSnapshot()
	case "<", ",":
		m.resizeTrail(m.sim.Options().TrailLength / 2)
	case ">", ".":
		m.resizeTrail(m.sim.Options().TrailLength * 2)
	}
	return false
}

func (m *App) resizeTrail(n int) {
	n = max(minTrail, min(maxTrail, n))
	m.sim.ResizeTrail(n)
	m.status = fmt.Sprintf("trail %d", n)
}

func (m *App) editKey(k tea.KeyMsg) {
	switch k.Type {
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyEnter:
		m.editing = false
		msg, err := params.ParseDimension(m.axis, m.input)
		if err != nil {
			m.status = "ignored: " + err.Error()
			return
		}
		m.dispatch(msg)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes:
		for _, r := range k.Runes {
			if strings.ContainsRune("0123456789.-+eE", r) {
				m.input += string(r)
			}
		}
	}
}

func (m *App) cycleModel() {
	names := m.registry.Names()
	if len(names) == 0 {
		return
	}
	current := m.sim.Model().Name()
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	model, err := m.registry.Get(next)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.sim.SetModel(model)
	m.clearHistory()
	m.status = "model " + next
	m.logger.Info("model changed", "model", next)
}

func (m *App) saveSnapshot() {
	if m.snapshot == nil || !m.hasFrame {
		m.status = "snapshot unavailable"
		return
	}
	path, err := m.snapshot(m.frame, m.canvas)
	if err != nil {
		m.logger.Error("snapshot failed", "err", err)
		m.status = "snapshot failed"
		return
	}
	m.status = "saved " + path
}

func (m *App) redraw() {
	if !m.hasFrame || !m.Ready() {
		return
	}
	DrawFrame(m.canvas, m.orbit, m.frame, m.theme)
}

// Render implements sim.Renderer for callers that drive the App's canvas
// from their own loop.
func (m *App) Render(f sim.Frame) error {
	if !m.Ready() {
		return dynamo.ErrNotReady
	}
	m.frame, m.hasFrame = f, true
	m.record(f.Position)
	m.redraw()
	return nil
}

func (m App) View() string {
	if !m.Ready() {
		return "initializing..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView())
	}

	canvas := canvasStyle.Render(m.canvas.Render(m.theme.Muted))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvas, panelStyle.Render(m.sidebar()))

	coords := "X: -     | Y: -     | Z: -"
	if m.hasFrame {
		coords = m.frame.Position.String()
	}
	footer := coordsStyle.Foreground(m.theme.Accent).Render(coords) + "  " +
		hintStyle.Render("? help  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, main, footer)
}

func (m App) sidebar() string {
	var s strings.Builder
	s.WriteString(GradientText("BOXSIM", m.theme.Primary, m.theme.Secondary) + "  ")
	if m.paused {
		s.WriteString(SparkMid.Render("PAUSED"))
	} else {
		s.WriteString(SparkHigh.Render("RUNNING"))
	}
	s.WriteString("\n\n")

	p := m.sim.Store().Params()
	s.WriteString(row("Model", m.sim.Model().Name()))
	s.WriteString(row("Energy n", fmt.Sprintf("%d", p.Energy)))
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.sim.Time())))
	if m.player != nil {
		s.WriteString(row("Scenario", m.player.Name()))
	}

	s.WriteString("\n" + m.theme.header().Render("BOX") + "\n")
	for _, a := range []dynamo.Axis{dynamo.AxisX, dynamo.AxisY, dynamo.AxisZ} {
		line := fmt.Sprintf("%-7s %.3f", a, p.Box.Dim(a))
		if a == m.axis {
			if m.editing {
				line = fmt.Sprintf("%-7s %s_", a, m.input)
			}
			s.WriteString(m.theme.selected().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}

	s.WriteString("\n")
	opts := m.sim.Options()
	fill := float64(m.sim.TrailLen()) / float64(opts.TrailLength)
	s.WriteString(labelStyle.Render("Trail") + ProgressBar(fill, 16) +
		valueStyle.Render(fmt.Sprintf(" %d", m.sim.TrailLen())) + "\n")
	if m.hasFrame {
		s.WriteString(labelStyle.Render("Colour") + Swatch(m.frame.Color.Hex()) + "\n")
	}

	metrics := m.sim.Metrics()
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		s.WriteString(row(k, fmt.Sprintf("%.3f", metrics[k])))
	}

	if len(m.history[0]) > 1 {
		chart := asciigraph.PlotMany(m.history[:],
			asciigraph.Height(6),
			asciigraph.Width(sidebarWidth-12),
			asciigraph.Precision(2),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
			asciigraph.SeriesLegends("x", "y", "z"),
		)
		s.WriteString("\n" + chart + "\n")
	}

	if m.status != "" {
		st := valueStyle
		if strings.HasPrefix(m.status, "ignored") || strings.Contains(m.status, "failed") {
			st = errorStyle
		}
		s.WriteString("\n" + st.Render(m.status))
	}
	return s.String()
}

var helpText = [][2]string{
	{"1-9", "set energy level n"},
	{"+ / -", "raise / lower n"},
	{"tab", "select box dimension"},
	{"[ / ]", "shrink / grow dimension"},
	{"e", "type a dimension value"},
	{"arrows, hjkl", "orbit camera"},
	{"z / Z", "zoom in / out"},
	{"f", "frame the box"},
	{"m", "switch model"},
	{"space", "pause / resume"},
	{"r / R", "restart clock / reset params"},
	{"t", "cycle theme"},
	{"s", "save SVG snapshot"},
	{"< / >", "halve / double trail"},
	{"? or i", "toggle this help"},
	{"esc", "close help"},
	{"q", "quit"},
}

func (m App) helpView() string {
	var s strings.Builder
	s.WriteString(m.theme.header().Render("PARTICLE IN A BOX") + "\n\n")
	s.WriteString(valueStyle.Render("A particle oscillates inside a resizable box.\nHigher n means faster motion; smaller sides too.") + "\n\n")
	for _, h := range helpText {
		s.WriteString(m.theme.selected().Width(14).Render(h[0]) + valueStyle.Render(h[1]) + "\n")
	}
	s.WriteString("\n" + hintStyle.Render("press esc to start"))
	return helpBox.Render(s.String())
}
