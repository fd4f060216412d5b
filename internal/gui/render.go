package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawGrid(40, 1)
	a.drawAxes(3)
	a.drawField()
	a.drawTrail()
	a.drawParticle()
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

// drawGrid lays the grid in the plane of gyration, under the guiding center.
func (a *App) drawGrid(slices int, spacing float32) {
	c := a.Sim.Model().Center(a.frame.Time)
	half := float32(slices) * spacing / 2
	z := float32(c.Z)
	for i := -slices / 2; i <= slices/2; i++ {
		p := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(p, -half, z), rl.NewVector3(p, half, z), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, p, z), rl.NewVector3(half, p, z), ColGrid)
	}
}

func (a *App) drawAxes(length float32) {
	o := rl.NewVector3(0, 0, 0)
	rl.DrawLine3D(o, rl.NewVector3(length, 0, 0), rl.Red)
	rl.DrawLine3D(o, rl.NewVector3(0, length, 0), rl.Green)
	rl.DrawLine3D(o, rl.NewVector3(0, 0, length), rl.Blue)
}

// drawField marks the guiding center line along B and the gyro circle at
// the particle's height.
func (a *App) drawField() {
	h := a.Sim.Model()
	c := toVector3(h.Center(a.frame.Time))
	rl.DrawLine3D(rl.NewVector3(c.X, c.Y, c.Z-20), rl.NewVector3(c.X, c.Y, c.Z+20), rl.ColorAlpha(ColField, 0.5))
	if !h.Degenerate() {
		rl.DrawCircle3D(c, float32(math.Abs(h.Gyroradius())), rl.NewVector3(0, 0, 1), 0, rl.ColorAlpha(ColField, 0.35))
	}
}

// drawTrail fades older segments out.
func (a *App) drawTrail() {
	pts := a.frame.Trail
	n := len(pts)
	for i := 1; i < n; i++ {
		rl.DrawLine3D(toVector3(pts[i-1]), toVector3(pts[i]), rl.ColorAlpha(ColTrail, trailAlpha(i, n)))
	}
}

func trailAlpha(i, n int) float32 {
	if n <= 1 {
		return 1
	}
	return 0.1 + 0.9*float32(i)/float32(n-1)
}

func (a *App) drawParticle() {
	rl.DrawSphere(toVector3(a.frame.Particle), 0.15, ColSelect)
}

func (a *App) drawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	a.drawText("gyrosim", 30, 30, 24, ColSelect)

	status, col := "RUNNING", ColSelect
	if a.Paused {
		status, col = "PAUSED", ColTextDim
	}
	if a.frame.Camera != nil {
		status += "  FOLLOW"
	}
	a.drawText(status, w-200, 30, 16, col)

	model := a.Sim.Model()
	p := a.frame.Particle
	y := 80
	line := func(s string, c rl.Color) {
		a.drawText(s, 30, y, 16, c)
		y += 22
	}
	line(fmt.Sprintf("t        %8.2f", a.frame.Time), ColText)
	line(fmt.Sprintf("pos      %6.2f %6.2f %6.2f", p.X, p.Y, p.Z), ColText)
	line(fmt.Sprintf("omega    %8.3f", model.Omega()), ColText)
	line(fmt.Sprintf("radius   %8.3f", math.Abs(model.Gyroradius())), ColText)
	line(fmt.Sprintf("pitch    %8.3f", model.Pitch()), ColText)
	if model.Degenerate() {
		line("straight-line drift", ColAccent)
	}
	y += 12

	params := a.Sim.Params()
	for i, name := range dynamo.ParamNames {
		v, _ := params.Get(name)
		if i == a.ParamSel {
			line(fmt.Sprintf("> %-10s %7.2f", name, v), ColSelect)
		} else {
			line(fmt.Sprintf("  %-10s %7.2f", name, v), ColText)
		}
	}
	if a.Status != "" {
		y += 12
		line(a.Status, ColAccent)
	}

	a.drawText("[J/K] PARAM  [H/L] ADJUST  [F] FOLLOW  [WASD] ORBIT  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-100, h-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
