package renderer

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrProgram reports a shader program that failed to translate, compile or link.
	ErrProgram = errors.New("shader program unavailable")
	// ErrCapability reports missing GPU support for a required feature.
	ErrCapability = errors.New("required GPU capability missing")
)

// BlendMode selects how a draw combines with the target's existing contents.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAdditive
)

// Device is the GPU surface area the pipeline draws through.
type Device interface {
	// NewProgram builds a program from WebGL2 GLSL sources.
	NewProgram(name, vertexSource, fragmentSource string) (Program, error)
	// NewGeometry uploads interleaved position(3)+uv(2) vertices and triangle indices.
	NewGeometry(vertices []float32, indices []uint32) (Geometry, error)
	// NewColorBuffer allocates an offscreen color target.
	NewColorBuffer(width, height int) (ColorBuffer, error)

	Viewport(width, height int)
	Clear(r, g, b, a float32)
	SetBlend(mode BlendMode)
	SetDepthWrite(enabled bool)
	Draw(g Geometry)
}

// Program is a linked shader program with named uniform slots. Setting a
// uniform the program does not declare is a no-op.
type Program interface {
	Use()
	SetFloat(name string, v float32)
	SetInt(name string, v int32)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, m mgl32.Mat4)
	// SetTexture binds the color buffer to the texture unit and points the sampler at it.
	SetTexture(name string, unit int, cb ColorBuffer)
	Destroy()
}

// Geometry is an immutable uploaded mesh.
type Geometry interface {
	IndexCount() int
	Destroy()
}

// ColorBuffer is an offscreen render target with a sampleable color attachment.
type ColorBuffer interface {
	Size() (width, height int)
	BindForWriting()
	UnbindForWriting()
	TextureID() uint32
	Destroy()
}

// Display is the presentable surface the post-process pass writes to.
type Display interface {
	Bind()
	Resize(width, height int) error
	Present() error
}

// Overlay draws on top of the display after the post-process pass, before
// the frame is presented.
type Overlay interface {
	Draw(width, height int)
}

// Camera supplies the view transform and follows viewport aspect changes.
type Camera interface {
	SetAspect(aspect float32)
	Update()
	ViewProjection() mgl32.Mat4
}
