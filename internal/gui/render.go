package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/boxsim/internal/dynamo"
)

func vec(p dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
}

func color(c dynamo.Color) rl.Color {
	r, g, b := c.RGBA8()
	return rl.NewColor(r, g, b, 255)
}

func (a *App) drawScene() {
	f := a.frame
	b := f.Params.Box
	rl.DrawCubeWires(rl.NewVector3(0, 0, 0), float32(b.Width), float32(b.Height), float32(b.Depth), ColBox)

	trail := color(f.Color)
	for i := 1; i < len(f.Trail); i++ {
		rl.DrawLine3D(vec(f.Trail[i-1].Position), vec(f.Trail[i].Position), rl.ColorAlpha(trail, float32(f.Trail[i].Fade)))
	}

	r := float32(sphereSize * b.Min())
	if r < 0.01 {
		r = 0.01
	}
	rl.DrawSphere(vec(f.Position), r, trail)
}

// drawLabels places the axis captions in screen space at their projected
// anchors. Anchors behind the camera are skipped.
func (a *App) drawLabels() {
	for _, l := range a.frame.Labels {
		if !a.orbit.InFront(l.Position) {
			continue
		}
		p := rl.GetWorldToScreen(vec(l.Position), a.camera)
		a.drawText(l.Text, int(p.X), int(p.Y), 20, color(l.Color))
	}
}
