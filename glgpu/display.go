package glgpu

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/renderer"
)

var (
	_ renderer.Display = (*WindowDisplay)(nil)
	_ renderer.Display = (*RecordDisplay)(nil)
)

// WindowDisplay presents to the context's default framebuffer.
type WindowDisplay struct {
	ctx graphics.Context
}

func NewWindowDisplay(ctx graphics.Context) *WindowDisplay {
	return &WindowDisplay{ctx: ctx}
}

func (d *WindowDisplay) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Resize is a no-op: the window system owns the default framebuffer size.
func (d *WindowDisplay) Resize(width, height int) error { return nil }

// Present swaps buffers and pumps window events.
func (d *WindowDisplay) Present() error {
	d.ctx.EndFrame()
	return nil
}

// FrameSink consumes tightly packed RGBA8 frames, bottom row first.
type FrameSink interface {
	WriteFrame(pixels []byte) error
}

// RecordDisplay renders into an offscreen RGBA8 framebuffer and hands each
// presented frame to a sink.
type RecordDisplay struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
	pixels    []byte
	sink      FrameSink
}

func NewRecordDisplay(sink FrameSink) *RecordDisplay {
	return &RecordDisplay{sink: sink}
}

func (d *RecordDisplay) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
}

func (d *RecordDisplay) Resize(width, height int) error {
	if width == d.width && height == d.height && d.fbo != 0 {
		return nil
	}
	d.Destroy()

	gl.GenTextures(1, &d.textureID)
	gl.BindTexture(gl.TEXTURE_2D, d.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.GenFramebuffers(1, &d.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, d.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: record framebuffer is not complete (0x%x)", renderer.ErrCapability, status)
	}

	d.width, d.height = width, height
	d.pixels = make([]byte, width*height*4)
	return nil
}

// Present reads the frame back and writes it to the sink.
func (d *RecordDisplay) Present() error {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(d.width), int32(d.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(d.pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	frame := make([]byte, len(d.pixels))
	copy(frame, d.pixels)
	return d.sink.WriteFrame(frame)
}

func (d *RecordDisplay) Destroy() {
	if d.fbo != 0 {
		gl.DeleteFramebuffers(1, &d.fbo)
		d.fbo = 0
	}
	if d.textureID != 0 {
		gl.DeleteTextures(1, &d.textureID)
		d.textureID = 0
	}
}
