package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	camera "github.com/richinsley/goshaderfx/camera"
	encoder "github.com/richinsley/goshaderfx/encoder"
	glfwcontext "github.com/richinsley/goshaderfx/glfwcontext"
	glgpu "github.com/richinsley/goshaderfx/glgpu"
	headless "github.com/richinsley/goshaderfx/headless"
	options "github.com/richinsley/goshaderfx/options"
	panel "github.com/richinsley/goshaderfx/panel"
	params "github.com/richinsley/goshaderfx/params"
	renderer "github.com/richinsley/goshaderfx/renderer"
)

// pointerOrbit feeds the window's pointer into the orbit camera before each
// damped update. The pointer is withheld while the panel has it.
type pointerOrbit struct {
	*camera.Orbit
	ctx      *glfwcontext.Context
	captured func() bool
}

func (p *pointerOrbit) Update() {
	x, y, down := p.ctx.GetPointer()
	if p.captured != nil && p.captured() {
		down = false
	}
	_, height := p.ctx.GetFramebufferSize()
	p.HandlePointer(x, y, down, height)
	p.Orbit.Update()
}

func bindPanel(pn panel.Panel, store *params.Store) {
	pn.BindScalar("Speed", params.SpeedRange.Min, params.SpeedRange.Max, store.Speed(), store.SetSpeed)
	pn.BindScalar("Noise", params.NoiseRange.Min, params.NoiseRange.Max, store.Noise(), store.SetNoise)
	pn.BindScalar("Contrast", params.ContrastRange.Min, params.ContrastRange.Max, store.Contrast(), store.SetContrast)
	pn.BindEnum("Effect", params.EffectOptions, int(store.EffectMode()), store.SetEffectMode)
}

func loadParameters(o *options.ShaderOptions) (*params.Store, error) {
	store := params.NewStore()
	options.FromFlags(o).Apply(store)
	if *o.PresetFile != "" {
		preset, err := options.LoadPreset(*o.PresetFile)
		if err != nil {
			return nil, err
		}
		preset.Apply(store)
		log.Printf("Loaded preset %s", *o.PresetFile)
	}
	return store, nil
}

func runWindow(o *options.ShaderOptions, ctx *glfwcontext.Context, dev *glgpu.Device, store *params.Store) error {
	if *o.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	orbit := camera.NewOrbit(camera.DefaultDistance)
	cam := &pointerOrbit{Orbit: orbit, ctx: ctx}
	zoom := orbit.Zoom

	var overlay renderer.Overlay
	switch *o.Panel {
	case "imgui":
		gui := panel.NewImGui(ctx)
		defer gui.Destroy()
		guiRenderer, err := glgpu.NewImGuiRenderer(dev.IsGLES())
		if err != nil {
			return err
		}
		defer guiRenderer.Destroy()
		gui.SetRenderer(guiRenderer)
		bindPanel(gui, store)

		cam.captured = gui.WantsPointer
		zoom = func(dy float64) {
			if gui.WantsPointer() {
				gui.Scroll(dy)
				return
			}
			orbit.Zoom(dy)
		}
		overlay = gui
	case "keys":
		keys := panel.NewKeys(ctx)
		bindPanel(keys, store)
		for _, line := range keys.Help() {
			log.Println(line)
		}
	default:
		return fmt.Errorf("unknown panel %q", *o.Panel)
	}

	width, height := ctx.GetFramebufferSize()
	clock := renderer.NewFrameClock(ctx.Time)
	p, err := renderer.New(renderer.Config{Width: width, Height: height, Segments: *o.Segments},
		dev, glgpu.NewWindowDisplay(ctx), clock, store, cam)
	if err != nil {
		return err
	}
	defer p.Shutdown()
	p.SetOverlay(overlay)

	ctx.OnResize(p.RequestResize)
	ctx.OnScroll(zoom)

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Println("Starting interactive render loop...")
	err = p.Run(sigctx, ctx.ShouldClose)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runRecord(o *options.ShaderOptions, dev *glgpu.Device, store *params.Store) error {
	settings := encoder.SettingsFromOptions(o)
	enc, err := encoder.New(settings)
	if err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	display := glgpu.NewRecordDisplay(enc)
	defer display.Destroy()

	steps := renderer.NewStepSource(*o.FPS)
	p, err := renderer.New(renderer.Config{Width: *o.Width, Height: *o.Height, Segments: *o.Segments},
		dev, display, renderer.NewFrameClock(steps.Now), store, camera.NewOrbit(camera.DefaultDistance))
	if err != nil {
		enc.Close()
		return err
	}
	defer p.Shutdown()

	totalFrames := int(math.Ceil(*o.Duration * float64(*o.FPS)))
	log.Printf("Starting offscreen render loop for %d frames...", totalFrames)
	for i := 0; i < totalFrames; i++ {
		if err := p.Tick(); err != nil {
			enc.Close()
			return err
		}
		steps.Advance()
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoder failed: %w", err)
	}
	log.Printf("Successfully rendered %d frames to %s", enc.Frames(), *o.OutputFile)
	return nil
}

func run(o *options.ShaderOptions) error {
	record := *o.Mode == "record"
	if !record && *o.Mode != "window" {
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	if *o.Headless && !record {
		return fmt.Errorf("-headless requires -mode record")
	}

	store, err := loadParameters(o)
	if err != nil {
		return err
	}

	if record && *o.Headless {
		h, err := headless.New(*o.Width, *o.Height)
		if err != nil {
			return fmt.Errorf("failed to create headless context: %w", err)
		}
		defer h.Shutdown()

		dev, err := glgpu.New(h.IsGLES())
		if err != nil {
			return err
		}
		return runRecord(o, dev, store)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	// Recording renders into an offscreen target; the window stays hidden.
	ctx, err := glfwcontext.New(o, !record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := glgpu.New(ctx.IsGLES())
	if err != nil {
		return err
	}

	if record {
		return runRecord(o, dev, store)
	}
	return runWindow(o, ctx, dev, store)
}

func init() {
	runtime.LockOSThread()
}

func main() {
	o := &options.ShaderOptions{}
	o.Help = flag.Bool("help", false, "Show help message")
	o.Mode = flag.String("mode", "window", "Run mode: window or record")
	o.Width = flag.Int("width", 1280, "Width of the output")
	o.Height = flag.Int("height", 720, "Height of the output")
	o.Segments = flag.Int("segments", renderer.DefaultSegments, "Plane tessellation per side")
	o.VSync = flag.Bool("vsync", true, "Synchronize buffer swaps to the display")
	o.PresetFile = flag.String("preset", "", "TOML file with initial parameter values")
	o.Panel = flag.String("panel", "imgui", "Control panel: imgui (on screen) or keys (keyboard only)")

	// Recording flags
	o.Duration = flag.Float64("duration", 10.0, "Duration to record in seconds")
	o.FPS = flag.Int("fps", 60, "Frames per second for recording")
	o.OutputFile = flag.String("output", "output.mp4", "Output file name for recording")
	o.FFMPEGPath = flag.String("ffmpeg", "", "Path to ffmpeg executable")
	o.Headless = flag.Bool("headless", false, "Record through an EGL pbuffer instead of a hidden window (Linux only)")
	o.Codec = flag.String("codec", "h264", "Video codec for recording: h264 or hevc")

	// Initial parameters
	o.Speed = flag.Float64("speed", params.DefaultSpeed, "Primary animation speed")
	o.Noise = flag.Float64("noise", params.DefaultNoise, "Post-process noise amount")
	o.Contrast = flag.Float64("contrast", params.DefaultContrast, "Post-process contrast")
	o.Effect = flag.Int("effect", int(params.NightVision), "Post-process effect: 0 night vision, 1 chromatic aberration")

	flag.Parse()

	if *o.Help {
		fmt.Println("goshaderfx shader effect viewer/recorder")
		flag.PrintDefaults()
		return
	}

	if err := run(o); err != nil {
		log.Fatalf("goshaderfx: %v", err)
	}
}
