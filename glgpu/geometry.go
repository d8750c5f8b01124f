package glgpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfx/renderer"
)

type geometry struct {
	vao   uint32
	vbo   uint32
	ebo   uint32
	count int
}

func newGeometry(vertices []float32, indices []uint32) (*geometry, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("empty geometry")
	}
	if len(vertices)%renderer.VertexStride != 0 {
		return nil, fmt.Errorf("vertex data length %d is not a multiple of %d", len(vertices), renderer.VertexStride)
	}

	g := &geometry{count: len(indices)}
	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)

	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(renderer.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	// the element buffer binding is VAO state and must stay bound
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return g, nil
}

func (g *geometry) IndexCount() int { return g.count }

func (g *geometry) Destroy() {
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
}
