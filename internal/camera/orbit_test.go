package camera

import (
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
)

func TestEyeOnSphere(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
		want       [3]float64
	}{
		{"front", 0, 0, [3]float64{0, 0, 5}},
		{"right", math.Pi / 2, 0, [3]float64{5, 0, 0}},
		{"nearly above", 0, math.Pi / 2, [3]float64{0, 5 * math.Sin(MaxPitch), 5 * math.Cos(MaxPitch)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrbit(60, 0, tt.yaw, tt.pitch, 5)
			eye := o.Eye()
			for i := 0; i < 3; i++ {
				if math.Abs(eye[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("eye = %v, want %v", eye, tt.want)
				}
			}
			if math.Abs(eye.Len()-5) > 1e-9 {
				t.Errorf("eye distance %f, want 5", eye.Len())
			}
		})
	}
}

func TestOriginInFrontOfCamera(t *testing.T) {
	o := NewOrbit(60, 0, 0.7, 0.3, 6)
	c := o.ToCamera(dynamo.Vec3{})

	if math.Abs(c.X()) > 1e-9 || math.Abs(c.Y()) > 1e-9 {
		t.Errorf("origin should be centred, got %v", c)
	}
	if math.Abs(c.Z()+6) > 1e-9 {
		t.Errorf("origin should be 6 units down -Z, got %v", c)
	}
}

func TestDampedRotationConverges(t *testing.T) {
	o := NewOrbit(60, 0.25, 0, 0, 5)
	o.Rotate(1, 0)

	o.Update()
	if o.Yaw() <= 0 || o.Yaw() >= 1 {
		t.Errorf("first damped step should move part way, got %f", o.Yaw())
	}
	if o.Settled() {
		t.Error("should not be settled after one frame")
	}

	for i := 0; i < 240; i++ {
		o.Update()
	}
	if math.Abs(o.Yaw()-1) > 1e-3 {
		t.Errorf("expected yaw to converge to 1, got %f", o.Yaw())
	}
}

func TestSnapWithoutDamping(t *testing.T) {
	o := NewOrbit(60, 0, 0, 0, 5)
	o.Rotate(0.5, 0.2)
	o.Update()

	if o.Yaw() != 0.5 || o.Pitch() != 0.2 || !o.Settled() {
		t.Errorf("expected immediate move, got yaw=%f pitch=%f", o.Yaw(), o.Pitch())
	}
}

func TestPitchAndZoomClamped(t *testing.T) {
	o := NewOrbit(60, 0, 0, 0, 5)
	o.Rotate(0, 10)
	o.Zoom(1000)
	o.Update()

	if o.Pitch() != MaxPitch {
		t.Errorf("pitch = %f, want %f", o.Pitch(), MaxPitch)
	}
	if o.Distance() != o.MaxDistance {
		t.Errorf("distance = %f, want %f", o.Distance(), o.MaxDistance)
	}

	o.Zoom(-1)
	o.Update()
	if o.Distance() != o.MaxDistance {
		t.Error("negative zoom factor should be ignored")
	}
}

func TestViewportAspect(t *testing.T) {
	o := NewOrbit(60, 0, 0, 0, 5)
	o.SetViewport(160, 90)
	if math.Abs(o.Aspect()-16.0/9.0) > 1e-12 {
		t.Errorf("aspect = %f", o.Aspect())
	}
	o.SetViewport(0, 0)
	if o.Aspect() != 1 {
		t.Errorf("degenerate viewport should give aspect 1, got %f", o.Aspect())
	}
}

func TestSpringFrequency(t *testing.T) {
	f := SpringFrequency(60, 0.25)
	want := -60 * math.Log(0.75)
	if math.Abs(f-want) > 1e-12 {
		t.Errorf("SpringFrequency = %f, want %f", f, want)
	}
}

func TestProject(t *testing.T) {
	o := NewOrbit(60, 0, 0, 0, 5)
	o.SetViewport(200, 100)

	x, y, depth, ok := o.Project(dynamo.Vec3{})
	if !ok || x != 100 || y != 50 || math.Abs(depth-5) > 1e-9 {
		t.Errorf("origin projected to (%f, %f, %f, %v)", x, y, depth, ok)
	}

	// +X is to the right and +Y is up when looking from +Z.
	rx, _, _, _ := o.Project(dynamo.Vec3{X: 1})
	_, uy, _, _ := o.Project(dynamo.Vec3{Y: 1})
	if rx <= 100 || uy >= 50 {
		t.Errorf("unexpected orientation: right x=%f, up y=%f", rx, uy)
	}

	if _, _, _, ok := o.Project(dynamo.Vec3{Z: 5}); ok {
		t.Error("point at the eye should not project")
	}
}

func TestInFront(t *testing.T) {
	o := NewOrbit(60, 0, 0, 0, 5)

	tests := []struct {
		name string
		p    dynamo.Vec3
		want bool
	}{
		{"origin", dynamo.Vec3{}, true},
		{"label anchor", dynamo.Vec3{X: 1.3}, true},
		{"at the eye", dynamo.Vec3{Z: 5}, false},
		{"behind the eye", dynamo.Vec3{Z: 8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := o.InFront(tt.p); got != tt.want {
				t.Errorf("InFront(%v) = %v, want %v", tt.p, got, tt.want)
			}
			if _, _, _, ok := o.ProjectTo(tt.p, 640, 480); ok != tt.want {
				t.Errorf("ProjectTo ok = %v, want %v", ok, tt.want)
			}
		})
	}
}
