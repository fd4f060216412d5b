package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(0, 229, 255, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColTrail   = rl.NewColor(255, 64, 255, 255)
	ColField   = rl.NewColor(90, 90, 140, 255)
)

const (
	windowW, windowH = 1280, 720
	targetFPS        = 60
	maxFrameGap      = 0.25
	fontPath         = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	orbitSpeed       = 1.5
	mouseOrbitSpeed  = 0.005
	zoomSpeed        = 0.1
	camLerpRate      = 5.0
)

type Options struct {
	Title string
	FPS   int
}

// App is the raylib window. It drives one Simulation from raylib's frame
// clock.
type App struct {
	Sim    *scene.Simulation
	Camera rl.Camera3D
	Orbit  *scene.Orbit
	Font   rl.Font

	Paused   bool
	ParamSel int
	Status   string

	frame scene.Frame
	log   *zap.Logger
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(windowW, windowH, opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if !rl.FileExists(fontPath) {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(sim *scene.Simulation, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		Sim: sim,
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 12),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
		Orbit: scene.NewOrbit(),
		Font:  loadFont(),
		frame: sim.Frame(),
		log:   log,
	}
	a.snapCamera()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(sim *scene.Simulation, opts Options, log *zap.Logger) {
	if opts.Title == "" {
		opts.Title = "gyrosim"
	}
	if opts.FPS <= 0 {
		opts.FPS = targetFPS
	}
	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(sim, log)
	app.log.Info("window opened", zap.Int("fps", opts.FPS))
	app.RunLoop()
	app.log.Info("window closed", zap.Float64("sim_time", sim.Time()))
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		if rl.IsWindowResized() {
			a.log.Debug("window resized", zap.Int("width", rl.GetScreenWidth()), zap.Int("height", rl.GetScreenHeight()))
		}
		a.Update(rl.GetFrameTime())
		a.Draw()
	}
}

// Update advances the simulation by the frame time and handles input.
func (a *App) Update(frameTime float32) {
	a.handleKeys()

	elapsed := float64(frameTime)
	if elapsed > maxFrameGap {
		elapsed = maxFrameGap
	}
	if a.Paused {
		a.frame = a.Sim.Frame()
	} else {
		a.frame = a.Sim.Tick(elapsed)
	}

	a.updateOrbit(float64(frameTime))
	a.updateCamera(float64(frameTime))
}

func (a *App) handleKeys() {
	names := dynamo.ParamNames

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Reset()
		a.Status = "reset"
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.frame = a.Sim.ToggleFollow()
		if a.frame.Camera == nil {
			a.snapCamera()
		}
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(names)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel = (a.ParamSel + len(names) - 1) % len(names)
	}

	dir := 0
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		dir = 1
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		dir = -1
	}
	if dir != 0 {
		if rl.IsKeyDown(rl.KeyLeftShift) {
			dir *= 10
		}
		a.adjust(names[a.ParamSel], dir)
	}
}

func (a *App) adjust(name string, dir int) {
	cur, err := a.Sim.Params().Get(name)
	if err != nil {
		return
	}
	v := scene.RangeOf(name).Nudge(cur, dir)
	reset, err := a.Sim.Apply(scene.Change{Name: name, Value: v})
	if err != nil {
		a.Status = err.Error()
		a.log.Warn("parameter rejected", zap.String("param", name), zap.Error(err))
		return
	}
	a.Status = fmt.Sprintf("%s = %.2f", name, v)
	if reset {
		a.Status += " (reset)"
	}
	a.log.Debug("parameter changed", zap.String("param", name), zap.Float64("value", v), zap.Bool("reset", reset))
}

// updateOrbit applies WASD, right-drag and wheel input to the free camera.
func (a *App) updateOrbit(dt float64) {
	var yaw, pitch float64
	if rl.IsKeyDown(rl.KeyA) {
		yaw -= orbitSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyD) {
		yaw += orbitSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyW) {
		pitch += orbitSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyS) {
		pitch -= orbitSpeed * dt
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		yaw += float64(delta.X) * mouseOrbitSpeed
		pitch += float64(delta.Y) * mouseOrbitSpeed
	}
	if yaw != 0 || pitch != 0 {
		a.Orbit.Rotate(yaw, pitch)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Orbit.Zoom(1 - float64(wheel)*zoomSpeed)
	}
}

// targetPose is the follow pose when follow is on, otherwise the orbit
// around the guiding center.
func (a *App) targetPose() scene.CameraPose {
	if a.frame.Camera != nil {
		return *a.frame.Camera
	}
	a.Orbit.Target = a.Sim.Model().Center(a.frame.Time)
	return a.Orbit.Pose()
}

// updateCamera holds the follow pose exactly and eases the orbit camera
// toward its target.
func (a *App) updateCamera(dt float64) {
	pose := a.targetPose()
	pos, tgt := toVector3(pose.Position), toVector3(pose.Target)
	if a.frame.Camera != nil {
		a.Camera.Position, a.Camera.Target = pos, tgt
		return
	}
	lerp := float32(camLerpRate * dt)
	if lerp > 1 {
		lerp = 1
	}
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, pos, lerp)
	a.Camera.Target = rl.Vector3Lerp(a.Camera.Target, tgt, lerp)
}

func (a *App) snapCamera() {
	pose := a.targetPose()
	a.Camera.Position, a.Camera.Target = toVector3(pose.Position), toVector3(pose.Target)
}

func toVector3(v dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
