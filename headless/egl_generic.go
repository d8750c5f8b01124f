//go:build !linux

package headless

import (
	"fmt"
)

// Headless is unavailable off Linux.
type Headless struct{}

func New(width, height int) (*Headless, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}

func (h *Headless) MakeCurrent()                         {}
func (h *Headless) Shutdown()                            {}
func (h *Headless) ShouldClose() bool                    { return true }
func (h *Headless) EndFrame()                            {}
func (h *Headless) GetFramebufferSize() (int, int)       { return 0, 0 }
func (h *Headless) Time() float64                        { return 0 }
func (h *Headless) GetPointer() (float64, float64, bool) { return 0, 0, false }
func (h *Headless) IsGLES() bool                         { return false }
