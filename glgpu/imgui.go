package glgpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/inkyblackness/imgui-go/v4"
)

const imguiVertexShader = `
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;
void main()
{
	Frag_UV = UV;
	Frag_Color = Color;
	gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const imguiFragmentShader = `
precision mediump float;
uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;
void main()
{
	Out_Color = vec4(Frag_Color.rgb, Frag_Color.a * texture(Texture, Frag_UV.st).r);
}
`

// ImGuiRenderer draws ImGui frames with its own program, buffers and font
// texture. It restores blending, scissor and viewport state it changes.
type ImGuiRenderer struct {
	program     uint32
	fontTexture uint32
	vbo         uint32
	ebo         uint32

	locTex      int32
	locProjMtx  int32
	locPosition int32
	locUV       int32
	locColor    int32
}

// NewImGuiRenderer compiles the UI program and uploads the current ImGui
// context's font atlas.
func NewImGuiRenderer(isGLES bool) (*ImGuiRenderer, error) {
	header := "#version 150\n"
	if isGLES {
		header = "#version 300 es\n"
	}
	program, err := linkProgram(header+imguiVertexShader, header+imguiFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to build imgui program: %w", err)
	}

	r := &ImGuiRenderer{program: program}
	r.locTex = gl.GetUniformLocation(program, gl.Str("Texture\x00"))
	r.locProjMtx = gl.GetUniformLocation(program, gl.Str("ProjMtx\x00"))
	r.locPosition = gl.GetAttribLocation(program, gl.Str("Position\x00"))
	r.locUV = gl.GetAttribLocation(program, gl.Str("UV\x00"))
	r.locColor = gl.GetAttribLocation(program, gl.Str("Color\x00"))

	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	fonts := imgui.CurrentIO().Fonts()
	image := fonts.TextureDataAlpha8()
	gl.GenTextures(1, &r.fontTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.fontTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(image.Width), int32(image.Height), 0, gl.RED, gl.UNSIGNED_BYTE, image.Pixels)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	fonts.SetTextureID(imgui.TextureID(r.fontTexture))

	return r, nil
}

// RenderImgui translates the ImGui draw data to OpenGL commands.
func (r *ImGuiRenderer) RenderImgui(displaySize [2]float32, framebufferSize [2]float32, drawData imgui.DrawData) {
	displayWidth, displayHeight := displaySize[0], displaySize[1]
	fbWidth, fbHeight := framebufferSize[0], framebufferSize[1]
	if fbWidth <= 0 || fbHeight <= 0 || displayWidth <= 0 || displayHeight <= 0 {
		return
	}
	drawData.ScaleClipRects(imgui.Vec2{X: fbWidth / displayWidth, Y: fbHeight / displayHeight})

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	orthoProjection := [4][4]float32{
		{2.0 / displayWidth, 0.0, 0.0, 0.0},
		{0.0, 2.0 / -displayHeight, 0.0, 0.0},
		{0.0, 0.0, -1.0, 0.0},
		{-1.0, 1.0, 0.0, 1.0},
	}
	gl.UseProgram(r.program)
	gl.Uniform1i(r.locTex, 0)
	gl.UniformMatrix4fv(r.locProjMtx, 1, false, &orthoProjection[0][0])
	gl.ActiveTexture(gl.TEXTURE0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	vertexSize, vertexOffsetPos, vertexOffsetUv, vertexOffsetCol := imgui.VertexBufferLayout()
	gl.EnableVertexAttribArray(uint32(r.locPosition))
	gl.EnableVertexAttribArray(uint32(r.locUV))
	gl.EnableVertexAttribArray(uint32(r.locColor))
	gl.VertexAttribPointerWithOffset(uint32(r.locPosition), 2, gl.FLOAT, false, int32(vertexSize), uintptr(vertexOffsetPos))
	gl.VertexAttribPointerWithOffset(uint32(r.locUV), 2, gl.FLOAT, false, int32(vertexSize), uintptr(vertexOffsetUv))
	gl.VertexAttribPointerWithOffset(uint32(r.locColor), 4, gl.UNSIGNED_BYTE, true, int32(vertexSize), uintptr(vertexOffsetCol))

	indexSize := imgui.IndexBufferLayout()
	drawType := uint32(gl.UNSIGNED_SHORT)
	if indexSize == 4 {
		drawType = gl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gl.BufferData(gl.ARRAY_BUFFER, vertexBufferSize, vertexBuffer, gl.STREAM_DRAW)
		indexBuffer, indexBufferSize := list.IndexBuffer()
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBufferSize, indexBuffer, gl.STREAM_DRAW)

		var indexBufferOffset uintptr
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
			} else {
				gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.TextureID()))
				clipRect := cmd.ClipRect()
				gl.Scissor(int32(clipRect.X), int32(fbHeight)-int32(clipRect.W), int32(clipRect.Z-clipRect.X), int32(clipRect.W-clipRect.Y))
				gl.DrawElementsWithOffset(gl.TRIANGLES, int32(cmd.ElementCount()), drawType, indexBufferOffset)
			}
			indexBufferOffset += uintptr(cmd.ElementCount() * indexSize)
		}
	}

	gl.DeleteVertexArrays(1, &vao)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.BLEND)
}

func (r *ImGuiRenderer) Destroy() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteTextures(1, &r.fontTexture)
	gl.DeleteProgram(r.program)
}
