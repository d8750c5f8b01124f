package glfwcontext

import (
	"log"
	"runtime"
	"unicode"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	graphics "github.com/richinsley/goshaderfx/graphics"
	options "github.com/richinsley/goshaderfx/options"
)

var _ graphics.Context = (*Context)(nil)

// Context wraps a GLFW window and dispatches its input callbacks.
type Context struct {
	window *glfw.Window
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
	resize       func(width, height int)
	scroll       func(dy float64)
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(options *options.ShaderOptions, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*options.Width, *options.Height, "goshaderfx", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetScrollCallback(c.glfwScrollCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// BindKey registers f for a printable key. GLFW key codes for letters and
// digits match their upper-case ASCII values.
func (c *Context) BindKey(r rune, f func()) {
	c.RegisterKeyCallback(glfw.Key(unicode.ToUpper(r)), f)
}

// OnResize sets the function called with the new framebuffer size whenever
// the window is resized.
func (c *Context) OnResize(f func(width, height int)) {
	c.resize = f
}

// OnScroll sets the function called with the vertical scroll offset.
func (c *Context) OnScroll(f func(dy float64)) {
	c.scroll = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	// Holding a key repeats the edit.
	if action == glfw.Press || action == glfw.Repeat {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.resize != nil {
		c.resize(width, height)
	}
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	if c.scroll != nil {
		c.scroll(yoff)
	}
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// GetPointer implements the method for the graphics.Context interface.
func (c *Context) GetPointer() (float64, float64, bool) {
	fbWidth, fbHeight := c.GetFramebufferSize()
	winWidth, winHeight := c.WindowSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}

	cursorX, cursorY, down := c.CursorPos()
	return cursorX * scaleX, cursorY * scaleY, down
}

// WindowSize is the window size in screen coordinates.
func (c *Context) WindowSize() (int, int) {
	return c.window.GetSize()
}

// CursorPos is the cursor in screen coordinates and whether the primary
// button is held.
func (c *Context) CursorPos() (float64, float64, bool) {
	x, y := c.window.GetCursorPos()
	return x, y, c.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown now only destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
