package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfx/params"
	"github.com/richinsley/goshaderfx/shader"
)

const (
	// TimeScale damps elapsed time before it reaches the shaders.
	TimeScale = 0.5

	DefaultSegments = 1000
	planeSize       = 2
)

// background is 0x00002f.
var background = [4]float32{0, 0, 47.0 / 255.0, 1}

// PrimaryOutput is handed from the primary pass to the post-process pass
// within one frame.
type PrimaryOutput struct {
	Color ColorBuffer
	// Time is the scaled time the primary pass rendered with.
	Time float32
}

// ScaledTime is the animation time for a snapshot: elapsed * speed * TimeScale.
func ScaledTime(snap params.Snapshot) float32 {
	return float32(snap.Time * snap.PrimarySpeed * TimeScale)
}

// PrimaryPass draws the tessellated plane into the pipeline's color buffer.
type PrimaryPass struct {
	*RenderPass
	dev Device
}

func NewPrimaryPass(dev Device, segments int) (*PrimaryPass, error) {
	if segments <= 0 {
		segments = DefaultSegments
	}
	src := shader.Primary()
	vertices, indices := NewPlane(planeSize, planeSize, segments)
	pass, err := newRenderPass(dev, "primary", src.Vertex, src.Fragment, vertices, indices)
	if err != nil {
		return nil, err
	}
	return &PrimaryPass{RenderPass: pass, dev: dev}, nil
}

// Render draws into target using the snapshot's time, speed and resolution.
func (p *PrimaryPass) Render(target ColorBuffer, snap params.Snapshot, viewProjection mgl32.Mat4) PrimaryOutput {
	t := ScaledTime(snap)

	target.BindForWriting()
	width, height := target.Size()
	p.dev.Viewport(width, height)
	p.dev.SetBlend(BlendNone)
	p.dev.Clear(background[0], background[1], background[2], background[3])

	p.dev.SetBlend(BlendAdditive)
	p.dev.SetDepthWrite(false)
	p.program.Use()
	p.program.SetFloat(shader.UniformTime, t)
	p.program.SetVec2(shader.UniformResolution, mgl32.Vec2(snap.Resolution))
	p.program.SetMat4(shader.UniformViewProjection, viewProjection)
	p.dev.Draw(p.geometry)

	p.dev.SetDepthWrite(true)
	p.dev.SetBlend(BlendNone)
	target.UnbindForWriting()

	return PrimaryOutput{Color: target, Time: t}
}
