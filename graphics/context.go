package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// GetPointer returns the cursor in framebuffer pixels and whether the
	// primary button is held.
	GetPointer() (x, y float64, down bool)
}
