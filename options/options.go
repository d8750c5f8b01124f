package options

type ShaderOptions struct {
	Help       *bool
	Mode       *string // "window" or "record"
	Width      *int
	Height     *int
	Segments   *int
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	PresetFile *string // optional TOML file with initial parameter values
	Panel      *string // "imgui" or "keys"
	VSync      *bool
	Headless   *bool // record through EGL instead of a hidden window

	// Initial parameter values; a preset file overrides these.
	Speed    *float64
	Noise    *float64
	Contrast *float64
	Effect   *int
}
