// Package camera implements the orbiting perspective camera used by the
// primary pass.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV      = 75
	DefaultNear     = 0.1
	DefaultFar      = 1000
	DefaultDamping  = 0.05
	DefaultDistance = 1.5

	// polar angle is kept away from the poles so LookAt never degenerates
	polarEpsilon = 1e-6
)

// Orbit is a perspective camera that circles a target point. Rotation and
// zoom requests accumulate as deltas that are eased in by Update.
type Orbit struct {
	FOV         float32 // vertical field of view in degrees
	Near        float32
	Far         float32
	Damping     float32
	RotateSpeed float32
	ZoomSpeed   float32
	MinPolar    float32
	MaxPolar    float32
	MinDistance float32
	MaxDistance float32

	target   mgl32.Vec3
	radius   float32
	azimuth  float32
	polar    float32
	dAzimuth float32
	dPolar   float32
	scale    float32

	aspect     float32
	projection mgl32.Mat4

	dragging     bool
	lastX, lastY float64
}

// NewOrbit places the camera on the +Z axis at the given distance from the
// origin, looking at the origin.
func NewOrbit(distance float32) *Orbit {
	o := &Orbit{
		FOV:         DefaultFOV,
		Near:        DefaultNear,
		Far:         DefaultFar,
		Damping:     DefaultDamping,
		RotateSpeed: 1,
		ZoomSpeed:   1,
		MinPolar:    0,
		MaxPolar:    math.Pi / 2,
		MinDistance: 0,
		MaxDistance: float32(math.Inf(1)),
		radius:      distance,
		polar:       math.Pi / 2,
		scale:       1,
		aspect:      1,
	}
	o.UpdateProjection()
	return o
}

// SetAspect recomputes the projection for a new width/height ratio.
// Non-positive or non-finite ratios are ignored.
func (o *Orbit) SetAspect(aspect float32) {
	a := float64(aspect)
	if a <= 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return
	}
	o.aspect = aspect
	o.UpdateProjection()
}

func (o *Orbit) Aspect() float32 { return o.aspect }

// UpdateProjection rebuilds the projection matrix from FOV, aspect and the
// clip planes.
func (o *Orbit) UpdateProjection() {
	o.projection = mgl32.Perspective(mgl32.DegToRad(o.FOV), o.aspect, o.Near, o.Far)
}

func (o *Orbit) Projection() mgl32.Mat4 { return o.projection }

// Rotate queues a rotation from a pointer movement of dx, dy pixels on a
// surface of the given height. A full-height drag is one full turn.
func (o *Orbit) Rotate(dx, dy float64, height int) {
	if height <= 0 {
		return
	}
	h := float32(height)
	o.dAzimuth -= 2 * math.Pi * float32(dx) / h * o.RotateSpeed
	o.dPolar -= 2 * math.Pi * float32(dy) / h * o.RotateSpeed
}

// Zoom queues a dolly step; positive steps move toward the target.
func (o *Orbit) Zoom(steps float64) {
	if steps == 0 {
		return
	}
	f := float32(math.Pow(0.95, float64(o.ZoomSpeed)*math.Abs(steps)))
	if steps > 0 {
		o.scale *= f
	} else {
		o.scale /= f
	}
}

// HandlePointer converts absolute cursor positions into rotation deltas while
// the button is held.
func (o *Orbit) HandlePointer(x, y float64, down bool, height int) {
	if !down {
		o.dragging = false
		return
	}
	if o.dragging {
		o.Rotate(x-o.lastX, y-o.lastY, height)
	}
	o.dragging = true
	o.lastX, o.lastY = x, y
}

// Update applies the queued deltas with damping and clamps the result.
func (o *Orbit) Update() {
	o.azimuth += o.dAzimuth * o.Damping
	o.polar += o.dPolar * o.Damping
	o.dAzimuth *= 1 - o.Damping
	o.dPolar *= 1 - o.Damping

	o.polar = clamp(o.polar, o.MinPolar, o.MaxPolar)
	o.polar = clamp(o.polar, polarEpsilon, math.Pi-polarEpsilon)

	o.radius = clamp(o.radius*o.scale, o.MinDistance, o.MaxDistance)
	o.scale = 1
}

func (o *Orbit) Polar() float32    { return o.polar }
func (o *Orbit) Azimuth() float32  { return o.azimuth }
func (o *Orbit) Distance() float32 { return o.radius }

// Position returns the eye position in world space.
func (o *Orbit) Position() mgl32.Vec3 {
	sp, cp := sincos(o.polar)
	sa, ca := sincos(o.azimuth)
	offset := mgl32.Vec3{o.radius * sp * sa, o.radius * cp, o.radius * sp * ca}
	return o.target.Add(offset)
}

func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.target, mgl32.Vec3{0, 1, 0})
}

// ViewProjection is the combined transform consumed by the primary pass.
func (o *Orbit) ViewProjection() mgl32.Mat4 {
	return o.projection.Mul4(o.View())
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
