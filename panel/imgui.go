package panel

import (
	"github.com/inkyblackness/imgui-go/v4"
)

// Window is what the on-screen panel reads from the host window each frame.
type Window interface {
	// WindowSize is the window size in screen coordinates.
	WindowSize() (width, height int)
	// CursorPos is the cursor in screen coordinates and whether the primary
	// button is held.
	CursorPos() (x, y float64, down bool)
	Time() float64
}

// DrawDataRenderer turns a finished ImGui frame into draw calls.
type DrawDataRenderer interface {
	RenderImgui(displaySize [2]float32, framebufferSize [2]float32, drawData imgui.DrawData)
}

type widget interface {
	build()
}

// ImGui is an on-screen Panel drawn with Dear ImGui: sliders for scalars and
// a combo box for enums, in one window over the display.
type ImGui struct {
	Title    string
	context  *imgui.Context
	io       imgui.IO
	window   Window
	renderer DrawDataRenderer
	widgets  []widget
	lastTime float64
}

// NewImGui creates the ImGui context and builds its font atlas. The atlas
// must exist before the first frame; the renderer uploads it.
func NewImGui(window Window) *ImGui {
	context := imgui.CreateContext(nil)
	_ = context.SetCurrent()
	io := imgui.CurrentIO()
	io.SetIniFilename("")
	io.Fonts().TextureDataAlpha8()
	return &ImGui{
		Title:   "Controls",
		context: context,
		io:      io,
		window:  window,
	}
}

// SetRenderer attaches the renderer used by Draw. Without one, Draw still
// builds the frame but issues no draw calls.
func (g *ImGui) SetRenderer(r DrawDataRenderer) {
	g.renderer = r
}

// BindScalar adds a slider over [min, max]. Values are clamped before
// onChange sees them.
func (g *ImGui) BindScalar(label string, min, max, initial float64, onChange func(float64)) {
	s := &scalar{label: label, min: min, max: max, onChange: onChange}
	s.value = s.clamp(initial)
	g.widgets = append(g.widgets, &slider{scalar: s})
}

// BindEnum adds a combo box listing the options in value order.
func (g *ImGui) BindEnum(label string, options map[string]int, initial int, onChange func(int)) {
	if len(options) == 0 {
		return
	}
	e := newEnum(label, options, initial, onChange)
	if e.options[e.index].value != initial {
		e.index = -1
	}
	g.widgets = append(g.widgets, &combo{enum: e, items: e.labels()})
}

// WantsPointer reports whether the panel is using the mouse, in which case
// the camera should ignore it.
func (g *ImGui) WantsPointer() bool {
	return g.io.WantCaptureMouse()
}

// Scroll forwards a wheel offset to the panel.
func (g *ImGui) Scroll(dy float64) {
	g.io.AddMouseWheelDelta(0, float32(dy))
}

// Draw runs one ImGui frame and renders it over whatever framebuffer is
// bound. width and height are the framebuffer size.
func (g *ImGui) Draw(width, height int) {
	if err := g.context.SetCurrent(); err != nil {
		return
	}

	winWidth, winHeight := g.window.WindowSize()
	if winWidth <= 0 || winHeight <= 0 || width <= 0 || height <= 0 {
		return
	}
	g.io.SetDisplaySize(imgui.Vec2{X: float32(winWidth), Y: float32(winHeight)})

	now := g.window.Time()
	delta := now - g.lastTime
	if g.lastTime == 0 || delta <= 0 {
		delta = 1.0 / 60.0
	}
	g.lastTime = now
	g.io.SetDeltaTime(float32(delta))

	x, y, down := g.window.CursorPos()
	g.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	g.io.SetMouseButtonDown(0, down)

	imgui.NewFrame()
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowBgAlpha(0.6)
	if imgui.Begin(g.Title) {
		for _, w := range g.widgets {
			w.build()
		}
	}
	imgui.End()
	imgui.Render()

	if g.renderer != nil {
		g.renderer.RenderImgui(
			[2]float32{float32(winWidth), float32(winHeight)},
			[2]float32{float32(width), float32(height)},
			imgui.RenderedDrawData())
	}
}

func (g *ImGui) Destroy() {
	if g.context != nil {
		g.context.Destroy()
		g.context = nil
	}
}

type slider struct {
	*scalar
}

func (s *slider) build() {
	v := float32(s.value)
	if imgui.SliderFloat(s.label, &v, float32(s.min), float32(s.max)) {
		s.set(float64(v))
	}
}

type combo struct {
	*enum
	items []string
}

func (c *combo) build() {
	current := int32(c.index)
	if imgui.Combo(c.label, &current, c.items) && int(current) != c.index {
		c.choose(int(current))
	}
}
