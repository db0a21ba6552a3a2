// Package camera implements damped orbit controls around the box centre.
//
// Input moves a target yaw, pitch and distance. Each Update steps the actual
// values toward the targets with critically damped springs, which gives the
// same glide-to-rest feel as a per-frame damping factor.
package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/boxsim/internal/dynamo"
)

const (
	MinPitch = -math.Pi/2 + 0.01
	MaxPitch = math.Pi/2 - 0.01

	nearPlane = 0.05
)

type Orbit struct {
	yaw, pitch, dist          float64
	yawVel, pitchVel, distVel float64
	targetYaw, targetPitch    float64
	targetDist                float64

	spring harmonica.Spring
	snap   bool

	MinDistance float64
	MaxDistance float64
	FOV         float64 // vertical field of view in radians

	width, height int
}

// NewOrbit creates controls updated fps times per second. damping is the
// fraction of the remaining motion applied each frame; 0 or 1 disables smoothing.
func NewOrbit(fps int, damping, yaw, pitch, distance float64) *Orbit {
	if fps < 1 {
		fps = 60
	}
	o := &Orbit{
		MinDistance: 0.5,
		MaxDistance: 100,
		FOV:         mgl64.DegToRad(75),
		width:       1,
		height:      1,
	}
	if damping <= 0 || damping >= 1 {
		o.snap = true
	} else {
		o.spring = harmonica.NewSpring(harmonica.FPS(fps), SpringFrequency(fps, damping), 1.0)
	}
	o.Reset(yaw, pitch, distance)
	return o
}

// SpringFrequency converts a per-frame damping fraction into the angular
// frequency of a critically damped spring with the same decay rate.
func SpringFrequency(fps int, damping float64) float64 {
	return -float64(fps) * math.Log(1-damping)
}

// Reset jumps to the given orientation with no residual motion.
func (o *Orbit) Reset(yaw, pitch, distance float64) {
	o.targetYaw = yaw
	o.targetPitch = clamp(pitch, MinPitch, MaxPitch)
	o.targetDist = clamp(distance, o.MinDistance, o.MaxDistance)
	o.yaw, o.pitch, o.dist = o.targetYaw, o.targetPitch, o.targetDist
	o.yawVel, o.pitchVel, o.distVel = 0, 0, 0
}

// Rotate moves the target orientation by the given angles in radians.
func (o *Orbit) Rotate(dyaw, dpitch float64) {
	o.targetYaw += dyaw
	o.targetPitch = clamp(o.targetPitch+dpitch, MinPitch, MaxPitch)
}

// Zoom scales the target distance; factors below 1 move closer.
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	o.targetDist = clamp(o.targetDist*factor, o.MinDistance, o.MaxDistance)
}

// Frame keeps the whole box in view by placing the target distance
// relative to its largest side.
func (o *Orbit) Frame(box dynamo.Box) {
	o.targetDist = clamp(box.Max()*2.2+1, o.MinDistance, o.MaxDistance)
}

// Update advances the damped motion by one frame. Call once per tick.
func (o *Orbit) Update() {
	if o.snap {
		o.yaw, o.pitch, o.dist = o.targetYaw, o.targetPitch, o.targetDist
		return
	}
	o.yaw, o.yawVel = o.spring.Update(o.yaw, o.yawVel, o.targetYaw)
	o.pitch, o.pitchVel = o.spring.Update(o.pitch, o.pitchVel, o.targetPitch)
	o.dist, o.distVel = o.spring.Update(o.dist, o.distVel, o.targetDist)
}

// Settled reports whether the camera has come to rest on its target.
func (o *Orbit) Settled() bool {
	const eps = 1e-4
	return math.Abs(o.yaw-o.targetYaw) < eps &&
		math.Abs(o.pitch-o.targetPitch) < eps &&
		math.Abs(o.dist-o.targetDist) < eps
}

func (o *Orbit) Yaw() float64      { return o.yaw }
func (o *Orbit) Pitch() float64    { return o.pitch }
func (o *Orbit) Distance() float64 { return o.dist }

// SetViewport records the drawable size so projections keep the right aspect.
func (o *Orbit) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	o.width, o.height = width, height
}

func (o *Orbit) Aspect() float64 { return float64(o.width) / float64(o.height) }

// Eye returns the camera position on the orbit sphere.
func (o *Orbit) Eye() mgl64.Vec3 {
	rot := mgl64.Rotate3DY(o.yaw).Mul3(mgl64.Rotate3DX(-o.pitch))
	return rot.Mul3x1(mgl64.Vec3{0, 0, o.dist})
}

// View returns the world-to-camera matrix looking at the origin.
func (o *Orbit) View() mgl64.Mat4 {
	return mgl64.LookAtV(o.Eye(), mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
}

// ToCamera transforms a world point into camera space, where the camera
// looks down -Z.
func (o *Orbit) ToCamera(p dynamo.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, p.Z}, o.View())
}

// InFront reports whether p lies beyond the near plane, where ProjectTo
// gives a usable screen position.
func (o *Orbit) InFront(p dynamo.Vec3) bool {
	return -o.ToCamera(p).Z() >= nearPlane
}

// Project maps a world point into the viewport set by SetViewport.
func (o *Orbit) Project(p dynamo.Vec3) (x, y, depth float64, ok bool) {
	return o.ProjectTo(p, float64(o.width), float64(o.height))
}

// ProjectTo maps a world point to pixel coordinates in a width x height image
// with square pixels. depth is the distance along the view direction; ok is
// false for points behind or too close to the camera.
func (o *Orbit) ProjectTo(p dynamo.Vec3, width, height float64) (x, y, depth float64, ok bool) {
	c := o.ToCamera(p)
	depth = -c.Z()
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	f := (height / 2) / math.Tan(o.FOV/2)
	x = width/2 + c.X()*f/depth
	y = height/2 - c.Y()*f/depth
	return x, y, depth, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
