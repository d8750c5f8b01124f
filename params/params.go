// Package params holds the live-tunable values shared by the render passes.
package params

import "fmt"

// EffectMode selects the post-processing algorithm.
type EffectMode int32

const (
	NightVision         EffectMode = 0
	ChromaticAberration EffectMode = 1
)

func (m EffectMode) String() string {
	switch m {
	case NightVision:
		return "NightVision"
	case ChromaticAberration:
		return "ChromaticAberration"
	default:
		return fmt.Sprintf("EffectMode(%d)", int32(m))
	}
}

// EffectOptions is the enum domain of postEffectMode, keyed by display label.
var EffectOptions = map[string]int{
	NightVision.String():         int(NightVision),
	ChromaticAberration.String(): int(ChromaticAberration),
}

// Range is the closed interval a scalar entry is allowed to take.
type Range struct {
	Min float64
	Max float64
}

// Clamp pins v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	SpeedRange    = Range{Min: 0.1, Max: 4.0}
	NoiseRange    = Range{Min: 0.1, Max: 1.0}
	ContrastRange = Range{Min: 0.1, Max: 2.0}
)

const (
	DefaultSpeed    = 1.0
	DefaultNoise    = 0.5
	DefaultContrast = 1.2
)

// Snapshot is an immutable copy of the store taken once per frame.
type Snapshot struct {
	Time           float64
	Resolution     [2]float32
	PrimarySpeed   float64
	PostNoise      float64
	PostContrast   float64
	PostEffectMode EffectMode
}

// Store is the single source of truth for pipeline parameters.
//
// Derived fields (time, resolution) are written by the pipeline every frame.
// Tunables are written only through the setters, which the control panel
// calls from its change callbacks. Setters do not validate: the panel owns
// range enforcement. The store is not safe for concurrent use; edits are
// expected on the render thread between frames.
type Store struct {
	time       float64
	resolution [2]float32

	speed    float64
	noise    float64
	contrast float64
	effect   EffectMode
}

// NewStore returns a store holding the default tunables.
func NewStore() *Store {
	return &Store{
		speed:    DefaultSpeed,
		noise:    DefaultNoise,
		contrast: DefaultContrast,
		effect:   NightVision,
	}
}

// Update overwrites the derived fields.
func (s *Store) Update(time float64, resolution [2]float32) {
	s.time = time
	s.resolution = resolution
}

func (s *Store) SetSpeed(v float64)    { s.speed = v }
func (s *Store) SetNoise(v float64)    { s.noise = v }
func (s *Store) SetContrast(v float64) { s.contrast = v }

// SetEffectMode takes the raw enum value delivered by a panel callback.
func (s *Store) SetEffectMode(v int) { s.effect = EffectMode(v) }

func (s *Store) Time() float64          { return s.time }
func (s *Store) Resolution() [2]float32 { return s.resolution }
func (s *Store) Speed() float64         { return s.speed }
func (s *Store) Noise() float64         { return s.noise }
func (s *Store) Contrast() float64      { return s.contrast }
func (s *Store) EffectMode() EffectMode { return s.effect }

// Snapshot returns the latest committed values.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Time:           s.time,
		Resolution:     s.resolution,
		PrimarySpeed:   s.speed,
		PostNoise:      s.noise,
		PostContrast:   s.contrast,
		PostEffectMode: s.effect,
	}
}
