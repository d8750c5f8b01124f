package renderer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/goshaderfx/params"
)

// State is the pipeline lifecycle stage.
type State int

const (
	Initializing State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var errNotRunning = errors.New("pipeline is not running")

// Config sizes the pipeline at construction.
type Config struct {
	Width    int
	Height   int
	Segments int
}

type size struct {
	width, height int
}

// Pipeline drives the per-frame sequence: clock, pending resize, parameter
// update, primary pass, post-process pass, present.
type Pipeline struct {
	dev      Device
	display  Display
	clock    *FrameClock
	viewport *Viewport
	store    *params.Store
	camera   Camera

	primary *PrimaryPass
	post    *PostProcessPass
	color   ColorBuffer
	overlay Overlay

	state       State
	pending     *size
	allocations int
	frame       int64
	last        PrimaryOutput
}

// New builds every pipeline resource and enters the Running state. Any
// program or capability failure is returned and leaves nothing allocated.
func New(cfg Config, dev Device, display Display, clock *FrameClock, store *params.Store, camera Camera) (*Pipeline, error) {
	p := &Pipeline{
		dev:     dev,
		display: display,
		clock:   clock,
		store:   store,
		camera:  camera,
		state:   Initializing,
	}
	p.viewport = NewViewport(camera)

	if !p.viewport.OnResize(cfg.Width, cfg.Height) {
		return nil, fmt.Errorf("invalid initial viewport %dx%d", cfg.Width, cfg.Height)
	}

	var err error
	p.primary, err = NewPrimaryPass(dev, cfg.Segments)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary pass: %w", err)
	}
	p.post, err = NewPostProcessPass(dev)
	if err != nil {
		p.primary.Destroy()
		return nil, fmt.Errorf("failed to create post-process pass: %w", err)
	}

	width, height := p.viewport.Current()
	if err := p.allocateColorBuffer(width, height); err != nil {
		p.primary.Destroy()
		p.post.Destroy()
		return nil, err
	}
	if err := display.Resize(width, height); err != nil {
		p.Shutdown()
		return nil, fmt.Errorf("failed to size display: %w", err)
	}

	p.state = Running
	log.Printf("Pipeline running at %dx%d", width, height)
	return p, nil
}

func (p *Pipeline) allocateColorBuffer(width, height int) error {
	if p.color != nil {
		p.color.Destroy()
		p.color = nil
	}
	cb, err := p.dev.NewColorBuffer(width, height)
	if err != nil {
		return fmt.Errorf("failed to allocate %dx%d color buffer: %w", width, height, err)
	}
	p.color = cb
	p.allocations++
	return nil
}

// RequestResize records a new drawable size to be applied at the start of
// the next frame. Later requests replace earlier ones.
func (p *Pipeline) RequestResize(width, height int) {
	p.pending = &size{width, height}
}

func (p *Pipeline) applyResize(s size) error {
	if !p.viewport.OnResize(s.width, s.height) {
		return nil
	}
	if err := p.allocateColorBuffer(s.width, s.height); err != nil {
		return err
	}
	if err := p.display.Resize(s.width, s.height); err != nil {
		return fmt.Errorf("failed to resize display: %w", err)
	}
	log.Printf("Pipeline resized to %dx%d", s.width, s.height)
	return nil
}

// SetOverlay sets what is drawn over the post-process output each frame.
// nil removes it.
func (p *Pipeline) SetOverlay(o Overlay) {
	p.overlay = o
}

// Tick renders exactly one frame.
func (p *Pipeline) Tick() error {
	if p.state != Running {
		return errNotRunning
	}

	elapsed := p.clock.Elapsed()

	if p.pending != nil {
		s := *p.pending
		p.pending = nil
		if err := p.applyResize(s); err != nil {
			return err
		}
	}

	p.store.Update(elapsed, p.viewport.Resolution())
	snap := p.store.Snapshot()

	p.camera.Update()
	p.last = p.primary.Render(p.color, snap, p.camera.ViewProjection())
	p.post.Render(p.last, snap, p.display)
	if p.overlay != nil {
		p.overlay.Draw(p.viewport.Current())
	}

	p.frame++
	if err := p.display.Present(); err != nil {
		return fmt.Errorf("failed to present frame %d: %w", p.frame-1, err)
	}
	return nil
}

// Run ticks until shouldClose reports true or ctx is cancelled. Both are
// only checked between frames.
func (p *Pipeline) Run(ctx context.Context, shouldClose func() bool) error {
	for !shouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := p.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown releases GPU resources. The pipeline cannot be ticked afterwards.
func (p *Pipeline) Shutdown() {
	p.primary.Destroy()
	p.post.Destroy()
	if p.color != nil {
		p.color.Destroy()
		p.color = nil
	}
	p.state = Stopped
}

func (p *Pipeline) State() State             { return p.state }
func (p *Pipeline) Viewport() *Viewport      { return p.viewport }
func (p *Pipeline) ColorBuffer() ColorBuffer { return p.color }
func (p *Pipeline) Frame() int64             { return p.frame }

// Allocations counts color buffer allocations since construction.
func (p *Pipeline) Allocations() int { return p.allocations }

// LastOutput is the primary pass output of the most recent frame.
func (p *Pipeline) LastOutput() PrimaryOutput { return p.last }
