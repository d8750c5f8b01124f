package glgpu

import (
	"fmt"
	"log"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfx/renderer"
	"github.com/richinsley/goshaderfx/translator"
)

// Program is a linked GL program. Uniform locations are looked up by their
// source name through the translator's name map and cached.
type Program struct {
	name      string
	id        uint32
	names     map[string]string
	locations map[string]int32
}

func newProgram(name, vertexSource, fragmentSource string, isGLES bool) (*Program, error) {
	vsCode, vsNames, err := translator.Translate(vertexSource, "vertex", isGLES)
	if err != nil {
		return nil, err
	}
	fsCode, fsNames, err := translator.Translate(fragmentSource, "fragment", isGLES)
	if err != nil {
		return nil, err
	}

	id, err := linkProgram(vsCode, fsCode)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(vsNames)+len(fsNames))
	for k, v := range vsNames {
		names[k] = v
	}
	for k, v := range fsNames {
		names[k] = v
	}
	log.Printf("Created %s program (%d variables)", name, len(names))
	return &Program{
		name:      name,
		id:        id,
		names:     names,
		locations: make(map[string]int32),
	}, nil
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	mapped, ok := p.names[name]
	if !ok {
		mapped = name
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(mapped+"\x00"))
	p.locations[name] = loc
	return loc
}

func (p *Program) Use() { gl.UseProgram(p.id) }

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc != -1 {
		gl.Uniform1f(loc, v)
	}
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc != -1 {
		gl.Uniform1i(loc, v)
	}
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.location(name); loc != -1 {
		gl.Uniform2f(loc, v[0], v[1])
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.location(name); loc != -1 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (p *Program) SetTexture(name string, unit int, cb renderer.ColorBuffer) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, cb.TextureID())
	if loc := p.location(name); loc != -1 {
		gl.Uniform1i(loc, int32(unit))
	}
}

func (p *Program) Destroy() {
	gl.DeleteProgram(p.id)
}

func linkProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", logText)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
