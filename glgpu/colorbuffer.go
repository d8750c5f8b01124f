package glgpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfx/renderer"
)

// ColorBuffer is a framebuffer with a color texture attachment, half-float on
// desktop GL and RGBA8 on GLES. Its size is fixed; a new size means a new
// ColorBuffer.
type ColorBuffer struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
}

func NewColorBuffer(width, height int, isGLES bool) (*ColorBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid color buffer size %dx%d", width, height)
	}
	b := &ColorBuffer{width: width, height: height}

	gl.GenTextures(1, &b.textureID)
	gl.BindTexture(gl.TEXTURE_2D, b.textureID)
	if isGLES {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &b.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, b.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, b.textureID, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		b.Destroy()
		return nil, fmt.Errorf("%w: color buffer framebuffer incomplete (0x%x)", renderer.ErrCapability, status)
	}
	return b, nil
}

func (b *ColorBuffer) Size() (int, int) { return b.width, b.height }

func (b *ColorBuffer) TextureID() uint32 { return b.textureID }

func (b *ColorBuffer) BindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, b.fbo)
}

func (b *ColorBuffer) UnbindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (b *ColorBuffer) Destroy() {
	gl.DeleteFramebuffers(1, &b.fbo)
	gl.DeleteTextures(1, &b.textureID)
}
