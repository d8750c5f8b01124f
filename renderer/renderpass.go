package renderer

import "fmt"

// RenderPass pairs a program with the geometry it draws.
type RenderPass struct {
	Name     string
	program  Program
	geometry Geometry
}

func newRenderPass(dev Device, name, vertexSource, fragmentSource string, vertices []float32, indices []uint32) (*RenderPass, error) {
	program, err := dev.NewProgram(name, vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProgram, name, err)
	}
	geometry, err := dev.NewGeometry(vertices, indices)
	if err != nil {
		program.Destroy()
		return nil, fmt.Errorf("failed to upload %s geometry: %w", name, err)
	}
	return &RenderPass{Name: name, program: program, geometry: geometry}, nil
}

func (p *RenderPass) Destroy() {
	if p == nil {
		return
	}
	p.program.Destroy()
	p.geometry.Destroy()
}
