package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfx/params"
	"github.com/richinsley/goshaderfx/shader"
)

// Fixed shading constants of the post-process program.
var (
	Luminance = mgl32.Vec3{0.3086, 0.6094, 0.0820}
	BaseColor = mgl32.Vec3{0.2, 1.0, 0.4}
)

const diffuseUnit = 0

// PostProcessPass samples the primary output over a full-screen quad and
// writes the effect result to the display.
type PostProcessPass struct {
	*RenderPass
	dev Device
}

func NewPostProcessPass(dev Device) (*PostProcessPass, error) {
	src := shader.PostProcess()
	vertices, indices := NewPlane(2, 2, 1)
	pass, err := newRenderPass(dev, "postprocess", src.Vertex, src.Fragment, vertices, indices)
	if err != nil {
		return nil, err
	}
	return &PostProcessPass{RenderPass: pass, dev: dev}, nil
}

// Render applies the effect selected by snap.PostEffectMode. Every uniform
// is written each frame so nothing carries over from a previous mode.
func (p *PostProcessPass) Render(in PrimaryOutput, snap params.Snapshot, display Display) {
	display.Bind()
	width, height := in.Color.Size()
	p.dev.Viewport(width, height)
	p.dev.SetBlend(BlendNone)
	p.dev.Clear(0, 0, 0, 1)

	p.program.Use()
	p.program.SetTexture(shader.UniformDiffuse, diffuseUnit, in.Color)
	p.program.SetFloat(shader.UniformTime, in.Time)
	p.program.SetFloat(shader.UniformNoise, float32(snap.PostNoise))
	p.program.SetFloat(shader.UniformContrast, float32(snap.PostContrast))
	p.program.SetInt(shader.UniformBehavior, int32(snap.PostEffectMode))
	p.program.SetVec3(shader.UniformLuminance, Luminance)
	p.program.SetVec3(shader.UniformBaseColor, BaseColor)
	p.dev.Draw(p.geometry)
}
