package renderer

// TimeSource reports wall-clock seconds from an arbitrary origin.
type TimeSource func() float64

// FrameClock measures seconds since it was constructed. Readings never go
// backwards even if the source does.
type FrameClock struct {
	now   TimeSource
	start float64
	last  float64
}

func NewFrameClock(now TimeSource) *FrameClock {
	return &FrameClock{now: now, start: now()}
}

// Elapsed returns seconds since construction.
func (c *FrameClock) Elapsed() float64 {
	t := c.now() - c.start
	if t < c.last {
		t = c.last
	}
	c.last = t
	return t
}

// StepSource is a deterministic TimeSource for offline rendering: time moves
// only when Advance is called, by exactly one frame period.
type StepSource struct {
	frame int64
	fps   int
}

func NewStepSource(fps int) *StepSource {
	if fps <= 0 {
		fps = 60
	}
	return &StepSource{fps: fps}
}

func (s *StepSource) Now() float64 {
	return float64(s.frame) / float64(s.fps)
}

func (s *StepSource) Advance() { s.frame++ }

func (s *StepSource) Frame() int64 { return s.frame }
