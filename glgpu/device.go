// Package glgpu implements renderer.Device on OpenGL 4.1 core.
package glgpu

import (
	"fmt"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfx/renderer"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

var _ renderer.Device = (*Device)(nil)

// Device issues GL calls on the thread that owns the current context.
type Device struct {
	isGLES      bool
	foreignOnce sync.Once
}

// New loads the GL function pointers for the current context and checks that
// it can run the pipeline. The context must already be current.
func New(isGLES bool) (*Device, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("%w: failed to initialize OpenGL: %v", renderer.ErrCapability, glInitErr)
	}

	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	log.Printf("OpenGL renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	minMinor := int32(3)
	if isGLES {
		minMinor = 0
	}
	if major < 3 || (major == 3 && minor < minMinor) {
		return nil, fmt.Errorf("%w: OpenGL 3.%d or newer required, have %d.%d", renderer.ErrCapability, minMinor, major, minor)
	}

	return &Device{isGLES: isGLES}, nil
}

// IsGLES reports whether programs are translated for OpenGL ES.
func (d *Device) IsGLES() bool { return d.isGLES }

func (d *Device) NewProgram(name, vertexSource, fragmentSource string) (renderer.Program, error) {
	p, err := newProgram(name, vertexSource, fragmentSource, d.isGLES)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d *Device) NewGeometry(vertices []float32, indices []uint32) (renderer.Geometry, error) {
	g, err := newGeometry(vertices, indices)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (d *Device) NewColorBuffer(width, height int) (renderer.ColorBuffer, error) {
	cb, err := NewColorBuffer(width, height, d.isGLES)
	if err != nil {
		return nil, err
	}
	return cb, nil
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetBlend(mode renderer.BlendMode) {
	switch mode {
	case renderer.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.Disable(gl.BLEND)
	}
}

func (d *Device) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

// Draw issues the geometry's triangles. Geometry not created by this device
// is skipped.
func (d *Device) Draw(g renderer.Geometry) {
	geom, ok := g.(*geometry)
	if !ok {
		d.foreignOnce.Do(func() {
			log.Printf("glgpu: skipping draw of foreign geometry %T", g)
		})
		return
	}
	gl.BindVertexArray(geom.vao)
	gl.DrawElements(gl.TRIANGLES, int32(g.IndexCount()), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}
