package renderer

import "log"

// Projector is the part of the camera that depends on the viewport shape.
type Projector interface {
	SetAspect(aspect float32)
}

// Viewport tracks the drawable size and keeps the camera projection in step
// with it.
type Viewport struct {
	width     int
	height    int
	projector Projector
	deferred  bool
}

func NewViewport(projector Projector) *Viewport {
	return &Viewport{projector: projector}
}

func (v *Viewport) Current() (int, int) {
	return v.width, v.height
}

// Resolution returns the current size as a shader vec2.
func (v *Viewport) Resolution() [2]float32 {
	return [2]float32{float32(v.width), float32(v.height)}
}

// OnResize applies new dimensions and reports whether they changed, in which
// case size-dependent resources must be rebuilt. Unchanged dimensions are a
// no-op. A zero or negative dimension is deferred: the previous size and
// projection are kept until a usable size arrives.
func (v *Viewport) OnResize(width, height int) bool {
	if width <= 0 || height <= 0 {
		if !v.deferred {
			log.Printf("Viewport: deferring degenerate resize to %dx%d", width, height)
		}
		v.deferred = true
		return false
	}
	v.deferred = false
	if width == v.width && height == v.height {
		return false
	}
	v.width = width
	v.height = height
	if v.projector != nil {
		v.projector.SetAspect(float32(width) / float32(height))
	}
	return true
}

// Deferred reports whether the most recent resize was degenerate.
func (v *Viewport) Deferred() bool { return v.deferred }
