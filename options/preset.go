package options

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/richinsley/goshaderfx/params"
)

// Preset is a set of initial parameter values. Unset fields keep whatever
// the store already holds.
//
//	speed = 1.5
//	noise = 0.4
//	contrast = 1.1
//	effect = "ChromaticAberration"
type Preset struct {
	Speed    *float64 `toml:"speed"`
	Noise    *float64 `toml:"noise"`
	Contrast *float64 `toml:"contrast"`
	Effect   *string  `toml:"effect"`
}

// LoadPreset reads a TOML preset from path.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset: %w", err)
	}
	return ParsePreset(data)
}

func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}
	if p.Effect != nil {
		if _, ok := params.EffectOptions[*p.Effect]; !ok {
			return nil, fmt.Errorf("unknown effect %q", *p.Effect)
		}
	}
	return &p, nil
}

// FromFlags builds a preset from the command-line parameter flags.
func FromFlags(o *ShaderOptions) *Preset {
	p := &Preset{Speed: o.Speed, Noise: o.Noise, Contrast: o.Contrast}
	if o.Effect != nil {
		name := params.EffectMode(*o.Effect).String()
		p.Effect = &name
	}
	return p
}

// Apply writes the preset into the store, clamped to each control's range
// the same way the panel would.
func (p *Preset) Apply(s *params.Store) {
	if p.Speed != nil {
		s.SetSpeed(params.SpeedRange.Clamp(*p.Speed))
	}
	if p.Noise != nil {
		s.SetNoise(params.NoiseRange.Clamp(*p.Noise))
	}
	if p.Contrast != nil {
		s.SetContrast(params.ContrastRange.Clamp(*p.Contrast))
	}
	if p.Effect != nil {
		if v, ok := params.EffectOptions[*p.Effect]; ok {
			s.SetEffectMode(v)
		} else {
			log.Printf("Preset: ignoring unknown effect %q", *p.Effect)
		}
	}
}
