// Package gui is the raylib window frontend. It shares the simulator,
// parameter store and orbit camera with the terminal frontend.
package gui

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/camera"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/params"
	"github.com/san-kum/boxsim/internal/sim"
)

var ErrWindow = errors.New("gui: window initialisation failed")

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColBox     = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColModal   = rl.NewColor(20, 20, 24, 230)
)

const (
	fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

	dragSpeed  = 0.008
	wheelZoom  = 0.9
	scaleStep  = 1.1
	keyRotate  = 0.04
	sphereSize = 0.06
)

type Options struct {
	Width, Height int
	FPS           int
	Player        *automation.Player
	Logger        *log.Logger
}

type App struct {
	sim    *sim.Simulator
	orbit  *camera.Orbit
	camera rl.Camera3D
	font   rl.Font
	logger *log.Logger
	player *automation.Player

	frame    sim.Frame
	hasFrame bool
	axis     dynamo.Axis
	paused   bool
	showHelp bool
	last     time.Time
	initial  dynamo.Params
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Simulator, orbit *camera.Orbit, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "boxsim")
	if !rl.IsWindowReady() {
		return ErrWindow
	}
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)

	a := NewApp(s, orbit, opts)
	a.RunLoop()
	return nil
}

// NewApp must be called after the window exists.
func NewApp(s *sim.Simulator, orbit *camera.Orbit, opts Options) *App {
	a := &App{
		sim:      s,
		orbit:    orbit,
		logger:   opts.Logger,
		player:   opts.Player,
		showHelp: true,
		initial:  s.Store().Params(),
		camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 6),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			float32(orbit.FOV*180/math.Pi),
			rl.CameraPerspective,
		),
	}
	a.font = loadFont(a.logger)
	orbit.SetViewport(rl.GetScreenWidth(), rl.GetScreenHeight())
	return a
}

// loadFont falls back to the built-in raylib font when the system font is missing.
func loadFont(logger *log.Logger) rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		logger.Warn("font not found, using default", "path", fontPath)
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if !rl.IsFontValid(font) {
		logger.Warn("font failed to load, using default", "path", fontPath)
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the simulation. It returns false when
// the user asked to quit.
func (a *App) Update() bool {
	if rl.IsWindowResized() {
		a.orbit.SetViewport(rl.GetScreenWidth(), rl.GetScreenHeight())
	}
	if !a.handleKeys() {
		return false
	}
	a.handleMouse()

	now := time.Now()
	dt := 0.0
	if !a.last.IsZero() {
		dt = now.Sub(a.last).Seconds()
	}
	a.last = now

	a.orbit.Update()
	a.syncCamera()

	if a.paused {
		return true
	}
	if a.player != nil {
		for _, msg := range a.player.Due(a.sim.Time()) {
			a.dispatch(msg)
		}
	}
	f, err := a.sim.Tick(dt)
	if err != nil {
		a.logger.Error("tick failed", "err", err)
		return true
	}
	a.frame, a.hasFrame = f, true
	return true
}

func (a *App) syncCamera() {
	eye := a.orbit.Eye()
	a.camera.Position = rl.NewVector3(float32(eye.X()), float32(eye.Y()), float32(eye.Z()))
	a.camera.Fovy = float32(a.orbit.FOV * 180 / math.Pi)
}

func (a *App) dispatch(msg params.Message) {
	if _, err := a.sim.Dispatch(msg); err != nil {
		a.logger.Warn("ignored input", "msg", msg, "err", err)
	}
}

func (a *App) handleKeys() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySlash) || rl.IsKeyPressed(rl.KeyI) {
		a.showHelp = !a.showHelp
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.showHelp = false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	for k := int32(rl.KeyOne); k <= rl.KeyNine; k++ {
		if rl.IsKeyPressed(k) {
			a.dispatch(params.SetEnergyLevel{N: int(k-rl.KeyOne) + 1})
		}
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.dispatch(params.StepEnergy{Delta: 1})
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.dispatch(params.StepEnergy{Delta: -1})
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.axis = (a.axis + 1) % 3
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.dispatch(params.ScaleBoxAxis{Axis: a.axis, Factor: scaleStep})
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.dispatch(params.ScaleBoxAxis{Axis: a.axis, Factor: 1 / scaleStep})
	}

	if rl.IsKeyDown(rl.KeyLeft) {
		a.orbit.Rotate(-keyRotate, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.orbit.Rotate(keyRotate, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.orbit.Rotate(0, keyRotate)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.orbit.Rotate(0, -keyRotate)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.orbit.Frame(a.sim.Store().Params().Box)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
			a.dispatch(params.Reset{To: a.initial})
		}
		a.sim.Restart()
		if a.player != nil {
			a.player.Rewind()
		}
	}
	return true
}

func (a *App) handleMouse() {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		a.orbit.Rotate(-float64(d.X)*dragSpeed, float64(d.Y)*dragSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbit.Zoom(math.Pow(wheelZoom, float64(wheel)))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.hasFrame {
		rl.BeginMode3D(a.camera)
		a.drawScene()
		rl.EndMode3D()
		a.drawLabels()
	}
	a.drawHUD()
	if a.showHelp {
		a.drawHelp()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawHUD() {
	a.drawText("boxsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.sim.Model().Name()), 130, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if a.paused {
		status = "PAUSED"
		col = ColTextDim
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	a.drawText(status, w-130, 30, 16, col)

	p := a.sim.Store().Params()
	a.drawText(fmt.Sprintf("n = %d", p.Energy), 30, 70, 16, ColText)
	for i, ax := range []dynamo.Axis{dynamo.AxisX, dynamo.AxisY, dynamo.AxisZ} {
		c := ColText
		if ax == a.axis {
			c = ColSelect
		}
		a.drawText(fmt.Sprintf("%-6s %.3f", ax, p.Box.Dim(ax)), 30, 94+i*20, 16, c)
	}

	if a.hasFrame {
		a.drawText(a.frame.Position.String(), 30, h-70, 18, ColSelect)
	}
	a.drawText("[?] HELP  [SPACE] PAUSE  [R] RESTART  [Q] QUIT", w-480, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, h-40, 14, ColTextDim)
}

var helpLines = []string{
	"PARTICLE IN A BOX",
	"",
	"1-9     set energy level",
	"+ / -   step energy level",
	"tab     select box axis",
	"[ / ]   shrink / grow axis",
	"drag    orbit camera",
	"wheel   zoom",
	"arrows  orbit camera",
	"f       frame the box",
	"r / R   restart / reset",
	"space   pause",
	"? / i   toggle help",
	"esc     close help",
	"q       quit",
}

func (a *App) drawHelp() {
	const lineH, pad = 22, 24
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	mw, mh := 380, len(helpLines)*lineH+2*pad
	x, y := (w-mw)/2, (h-mh)/2

	rl.DrawRectangleRounded(rl.NewRectangle(float32(x), float32(y), float32(mw), float32(mh)), 0.05, 8, ColModal)
	for i, line := range helpLines {
		c := ColText
		if i == 0 {
			c = ColSelect
		}
		a.drawText(line, x+pad, y+pad+i*lineH, 16, c)
	}
}
