package renderer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/richinsley/goshaderfx/camera"
	"github.com/richinsley/goshaderfx/params"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	dev     *fakeDevice
	display *fakeDisplay
	clock   *manualTime
	store   *params.Store
	camera  *camera.Orbit
	p       *Pipeline
}

func newHarness(t *testing.T, width, height int) *harness {
	t.Helper()
	h := &harness{
		dev:    newFakeDevice(),
		clock:  &manualTime{},
		store:  params.NewStore(),
		camera: camera.NewOrbit(camera.DefaultDistance),
	}
	h.display = &fakeDisplay{dev: h.dev}
	p, err := New(Config{Width: width, Height: height, Segments: 4}, h.dev, h.display, NewFrameClock(h.clock.now), h.store, h.camera)
	require.NoError(t, err)
	h.p = p
	return h
}

func (h *harness) primary() *fakeProgram { return h.dev.programs["primary"] }
func (h *harness) post() *fakeProgram    { return h.dev.programs["postprocess"] }

func TestNewEntersRunning(t *testing.T) {
	h := newHarness(t, 800, 600)
	assert.Equal(t, Running, h.p.State())
	assert.Equal(t, 1, h.p.Allocations())
	w, ht := h.p.ColorBuffer().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, ht)
	assert.Equal(t, 800, h.display.width)
	assert.Equal(t, 600, h.display.height)
	assert.InDelta(t, 800.0/600.0, h.camera.Aspect(), 1e-6)
}

// Scenario: 800x600, clock at 2s, speed 1 gives a primary time of 1.
func TestPrimaryTimeAtTwoSeconds(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.store.SetSpeed(1.0)
	h.clock.t = 2.0

	require.NoError(t, h.p.Tick())
	assert.Equal(t, float32(1.0), h.primary().floats[shader.UniformTime])
}

func TestPrimaryTimeScaling(t *testing.T) {
	h := newHarness(t, 64, 64)
	for _, speed := range []float64{0.1, 0.5, 1, 1.7, 4} {
		h.store.SetSpeed(speed)
		for _, elapsed := range []float64{0, 0.016, 1, 2.5, 1234.567} {
			h.clock.t = elapsed
			require.NoError(t, h.p.Tick())
			got := h.primary().floats[shader.UniformTime]
			assert.Equal(t, float32(h.store.Time()*speed*0.5), got)
		}
	}
}

func TestPostTimeMatchesPrimaryTime(t *testing.T) {
	h := newHarness(t, 64, 64)
	h.store.SetSpeed(1.3)
	for i := 1; i <= 10; i++ {
		h.clock.t = float64(i) * 0.37
		require.NoError(t, h.p.Tick())
		assert.Equal(t, h.primary().floats[shader.UniformTime], h.post().floats[shader.UniformTime])
		assert.Equal(t, h.p.LastOutput().Time, h.post().floats[shader.UniformTime])
	}
}

func TestPrimaryUniforms(t *testing.T) {
	h := newHarness(t, 800, 600)
	require.NoError(t, h.p.Tick())

	assert.Equal(t, [2]float32{800, 600}, [2]float32(h.primary().vec2s[shader.UniformResolution]))
	assert.Equal(t, h.camera.ViewProjection(), h.primary().mat4s[shader.UniformViewProjection])
}

func TestPostUniformsMirrorStore(t *testing.T) {
	h := newHarness(t, 64, 64)
	h.store.SetNoise(0.3)
	h.store.SetContrast(1.8)
	h.store.SetEffectMode(int(params.ChromaticAberration))
	require.NoError(t, h.p.Tick())

	post := h.post()
	assert.Equal(t, float32(0.3), post.floats[shader.UniformNoise])
	assert.Equal(t, float32(1.8), post.floats[shader.UniformContrast])
	assert.Equal(t, int32(1), post.ints[shader.UniformBehavior])
	assert.Equal(t, Luminance, post.vec3s[shader.UniformLuminance])
	assert.Equal(t, BaseColor, post.vec3s[shader.UniformBaseColor])
	assert.Same(t, h.p.ColorBuffer(), post.textures[shader.UniformDiffuse])
}

func TestOutOfDomainValuesPassThrough(t *testing.T) {
	h := newHarness(t, 64, 64)
	h.store.SetNoise(5)
	h.store.SetContrast(-2)
	require.NoError(t, h.p.Tick())

	assert.Equal(t, float32(5), h.post().floats[shader.UniformNoise])
	assert.Equal(t, float32(-2), h.post().floats[shader.UniformContrast])
}

func TestPassOrderWithinFrame(t *testing.T) {
	h := newHarness(t, 64, 64)
	h.dev.events = nil
	require.NoError(t, h.p.Tick())

	assert.Equal(t, []string{
		"viewport 64x64",
		"clear buffer1",
		"draw primary -> buffer1",
		"viewport 64x64",
		"clear display",
		"draw postprocess -> display",
		"present",
	}, h.dev.events)
	assert.Equal(t, 1, h.display.presents)
	assert.Equal(t, int64(1), h.p.Frame())
}

// Scenario: resizing mid-run rebuilds the color buffer and the projection.
func TestResizeMidRun(t *testing.T) {
	h := newHarness(t, 800, 600)
	require.NoError(t, h.p.Tick())

	h.p.RequestResize(1024, 768)
	require.NoError(t, h.p.Tick())

	w, ht := h.p.Viewport().Current()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, ht)
	cw, ch := h.p.ColorBuffer().Size()
	assert.Equal(t, 1024, cw)
	assert.Equal(t, 768, ch)
	assert.InDelta(t, float32(1024)/float32(768), h.camera.Aspect(), 1e-6)
	assert.Equal(t, [2]float32{1024, 768}, h.store.Resolution())
	assert.Equal(t, 2, h.p.Allocations())
	assert.Len(t, h.dev.liveBuffers(), 1)
	assert.Same(t, h.p.ColorBuffer(), h.post().textures[shader.UniformDiffuse])
}

func TestResizeSameDimensionsIsNoop(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.p.RequestResize(800, 600)
	require.NoError(t, h.p.Tick())
	assert.Equal(t, 1, h.p.Allocations())

	h.p.RequestResize(1024, 768)
	require.NoError(t, h.p.Tick())
	h.p.RequestResize(1024, 768)
	require.NoError(t, h.p.Tick())
	assert.Equal(t, 2, h.p.Allocations())
	assert.Equal(t, 2, h.display.resizes)
}

func TestPendingResizesCoalesce(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.p.RequestResize(300, 200)
	h.p.RequestResize(640, 480)
	require.NoError(t, h.p.Tick())

	assert.Equal(t, 2, h.p.Allocations())
	w, ht := h.p.ColorBuffer().Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, ht)
}

func TestDegenerateResizeDeferred(t *testing.T) {
	h := newHarness(t, 800, 600)
	aspect := h.camera.Aspect()

	h.p.RequestResize(0, 600)
	require.NoError(t, h.p.Tick())
	h.p.RequestResize(800, -1)
	require.NoError(t, h.p.Tick())

	assert.True(t, h.p.Viewport().Deferred())
	assert.Equal(t, 1, h.p.Allocations())
	assert.Equal(t, aspect, h.camera.Aspect())
	w, ht := h.p.ColorBuffer().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, ht)

	h.p.RequestResize(400, 300)
	require.NoError(t, h.p.Tick())
	assert.False(t, h.p.Viewport().Deferred())
	assert.Equal(t, 2, h.p.Allocations())
}

// Scenario: switching to mode 1 and back to 0 on consecutive frames runs
// algorithm B then A, with every post uniform rewritten each frame.
func TestEffectModeSwitch(t *testing.T) {
	h := newHarness(t, 64, 64)
	all := []string{
		shader.UniformDiffuse, shader.UniformTime, shader.UniformNoise, shader.UniformContrast,
		shader.UniformBehavior, shader.UniformLuminance, shader.UniformBaseColor,
	}
	h.post().behaviors = nil

	h.store.SetEffectMode(int(params.ChromaticAberration))
	h.clock.t = 1
	require.NoError(t, h.p.Tick())
	for _, name := range all {
		assert.True(t, h.post().written[name], name)
	}

	h.store.SetEffectMode(int(params.NightVision))
	h.clock.t = 2
	require.NoError(t, h.p.Tick())
	for _, name := range all {
		assert.True(t, h.post().written[name], name)
	}

	assert.Equal(t, []int32{1, 0}, h.post().behaviors)
}

func TestPanelEditsPickedUpNextFrame(t *testing.T) {
	h := newHarness(t, 64, 64)
	require.NoError(t, h.p.Tick())
	assert.Equal(t, float32(params.DefaultNoise), h.post().floats[shader.UniformNoise])

	h.store.SetNoise(0.9)
	assert.Equal(t, float32(params.DefaultNoise), h.post().floats[shader.UniformNoise])
	require.NoError(t, h.p.Tick())
	assert.Equal(t, float32(0.9), h.post().floats[shader.UniformNoise])
}

func TestProgramFailureIsFatal(t *testing.T) {
	dev := newFakeDevice()
	dev.failProgram = "postprocess"
	display := &fakeDisplay{dev: dev}
	p, err := New(Config{Width: 800, Height: 600}, dev, display, NewFrameClock((&manualTime{}).now), params.NewStore(), camera.NewOrbit(1.5))

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, ErrProgram))
	assert.True(t, dev.programs["primary"].destroyed)
	assert.Empty(t, dev.buffers)
}

func TestColorBufferFailureIsFatal(t *testing.T) {
	dev := newFakeDevice()
	dev.failColorBuffer = true
	display := &fakeDisplay{dev: dev}
	p, err := New(Config{Width: 800, Height: 600}, dev, display, NewFrameClock((&manualTime{}).now), params.NewStore(), camera.NewOrbit(1.5))

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, ErrCapability))
	assert.True(t, dev.programs["primary"].destroyed)
	assert.True(t, dev.programs["postprocess"].destroyed)
}

func TestInvalidInitialViewport(t *testing.T) {
	dev := newFakeDevice()
	_, err := New(Config{Width: 0, Height: 600}, dev, &fakeDisplay{dev: dev}, NewFrameClock((&manualTime{}).now), params.NewStore(), camera.NewOrbit(1.5))
	require.Error(t, err)
	assert.Empty(t, dev.programs)
}

func TestPresentErrorPropagates(t *testing.T) {
	h := newHarness(t, 64, 64)
	h.display.presentErr = errors.New("broken pipe")
	err := h.p.Tick()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestShutdown(t *testing.T) {
	h := newHarness(t, 64, 64)
	cb := h.dev.buffers[0]
	h.p.Shutdown()

	assert.Equal(t, Stopped, h.p.State())
	assert.True(t, cb.destroyed)
	assert.True(t, h.primary().destroyed)
	assert.True(t, h.post().destroyed)
	assert.Error(t, h.p.Tick())
}

func TestRunStopsAtFrameBoundary(t *testing.T) {
	h := newHarness(t, 64, 64)
	frames := 0
	err := h.p.Run(context.Background(), func() bool {
		frames++
		return frames > 3
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), h.p.Frame())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = h.p.Run(ctx, func() bool { return false })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(3), h.p.Frame())
}

type fakeOverlay struct {
	dev *fakeDevice
}

func (o *fakeOverlay) Draw(width, height int) {
	o.dev.events = append(o.dev.events, fmt.Sprintf("overlay %dx%d -> %s", width, height, o.dev.target))
}

func TestOverlayDrawnAfterPostBeforePresent(t *testing.T) {
	h := newHarness(t, 64, 48)
	h.p.SetOverlay(&fakeOverlay{dev: h.dev})
	h.dev.events = nil
	require.NoError(t, h.p.Tick())

	assert.Equal(t, []string{
		"viewport 64x48",
		"clear buffer1",
		"draw primary -> buffer1",
		"viewport 64x48",
		"clear display",
		"draw postprocess -> display",
		"overlay 64x48 -> display",
		"present",
	}, h.dev.events)

	h.p.RequestResize(100, 80)
	h.p.SetOverlay(nil)
	h.dev.events = nil
	require.NoError(t, h.p.Tick())
	assert.NotContains(t, h.dev.events, "overlay 100x80 -> display")
}
