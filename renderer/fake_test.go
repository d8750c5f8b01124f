package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeDevice records what the pipeline asks of the GPU.
type fakeDevice struct {
	programs map[string]*fakeProgram
	buffers  []*fakeColorBuffer
	events   []string

	failProgram     string
	failColorBuffer bool

	current string
	target  string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{programs: make(map[string]*fakeProgram), target: "display"}
}

func (d *fakeDevice) NewProgram(name, vertexSource, fragmentSource string) (Program, error) {
	if name == d.failProgram {
		return nil, errors.New("0:12: syntax error")
	}
	p := &fakeProgram{
		name:     name,
		dev:      d,
		floats:   make(map[string]float32),
		ints:     make(map[string]int32),
		vec2s:    make(map[string]mgl32.Vec2),
		vec3s:    make(map[string]mgl32.Vec3),
		mat4s:    make(map[string]mgl32.Mat4),
		textures: make(map[string]ColorBuffer),
		written:  make(map[string]bool),
	}
	d.programs[name] = p
	return p, nil
}

func (d *fakeDevice) NewGeometry(vertices []float32, indices []uint32) (Geometry, error) {
	return &fakeGeometry{vertexFloats: len(vertices), indexCount: len(indices)}, nil
}

func (d *fakeDevice) NewColorBuffer(width, height int) (ColorBuffer, error) {
	if d.failColorBuffer {
		return nil, fmt.Errorf("%w: framebuffer incomplete", ErrCapability)
	}
	cb := &fakeColorBuffer{id: uint32(len(d.buffers) + 1), width: width, height: height, dev: d}
	d.buffers = append(d.buffers, cb)
	return cb, nil
}

func (d *fakeDevice) Viewport(width, height int) {
	d.events = append(d.events, fmt.Sprintf("viewport %dx%d", width, height))
}

func (d *fakeDevice) Clear(r, g, b, a float32) {
	d.events = append(d.events, "clear "+d.target)
}

func (d *fakeDevice) SetBlend(mode BlendMode) {}

func (d *fakeDevice) SetDepthWrite(enabled bool) {}

func (d *fakeDevice) Draw(g Geometry) {
	d.events = append(d.events, fmt.Sprintf("draw %s -> %s", d.current, d.target))
}

func (d *fakeDevice) liveBuffers() []*fakeColorBuffer {
	var live []*fakeColorBuffer
	for _, b := range d.buffers {
		if !b.destroyed {
			live = append(live, b)
		}
	}
	return live
}

type fakeProgram struct {
	name      string
	dev       *fakeDevice
	floats    map[string]float32
	ints      map[string]int32
	vec2s     map[string]mgl32.Vec2
	vec3s     map[string]mgl32.Vec3
	mat4s     map[string]mgl32.Mat4
	textures  map[string]ColorBuffer
	written   map[string]bool
	behaviors []int32
	destroyed bool
}

func (p *fakeProgram) Use() {
	p.dev.current = p.name
	p.written = make(map[string]bool)
}

func (p *fakeProgram) SetFloat(name string, v float32) {
	p.floats[name] = v
	p.written[name] = true
}

func (p *fakeProgram) SetVec2(name string, v mgl32.Vec2) {
	p.vec2s[name] = v
	p.written[name] = true
}

func (p *fakeProgram) SetVec3(name string, v mgl32.Vec3) {
	p.vec3s[name] = v
	p.written[name] = true
}

func (p *fakeProgram) SetMat4(name string, m mgl32.Mat4) {
	p.mat4s[name] = m
	p.written[name] = true
}

func (p *fakeProgram) SetInt(name string, v int32) {
	p.ints[name] = v
	p.written[name] = true
	p.behaviors = append(p.behaviors, v)
}

func (p *fakeProgram) SetTexture(name string, unit int, cb ColorBuffer) {
	p.textures[name] = cb
	p.written[name] = true
}

func (p *fakeProgram) Destroy() { p.destroyed = true }

type fakeGeometry struct {
	vertexFloats int
	indexCount   int
	destroyed    bool
}

func (g *fakeGeometry) IndexCount() int { return g.indexCount }
func (g *fakeGeometry) Destroy()        { g.destroyed = true }

type fakeColorBuffer struct {
	id        uint32
	width     int
	height    int
	dev       *fakeDevice
	destroyed bool
}

func (b *fakeColorBuffer) Size() (int, int)  { return b.width, b.height }
func (b *fakeColorBuffer) TextureID() uint32 { return b.id }
func (b *fakeColorBuffer) Destroy()          { b.destroyed = true }

func (b *fakeColorBuffer) BindForWriting() {
	b.dev.target = fmt.Sprintf("buffer%d", b.id)
}

func (b *fakeColorBuffer) UnbindForWriting() {
	b.dev.target = "none"
}

type fakeDisplay struct {
	dev        *fakeDevice
	width      int
	height     int
	resizes    int
	presents   int
	presentErr error
}

func (d *fakeDisplay) Bind() { d.dev.target = "display" }

func (d *fakeDisplay) Resize(width, height int) error {
	d.width, d.height = width, height
	d.resizes++
	return nil
}

func (d *fakeDisplay) Present() error {
	d.presents++
	d.dev.events = append(d.dev.events, "present")
	return d.presentErr
}

// manualTime is a TimeSource the test moves by hand.
type manualTime struct {
	t float64
}

func (m *manualTime) now() float64 { return m.t }
