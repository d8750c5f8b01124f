// Package headless provides an offscreen EGL graphics context.
package headless

import "github.com/richinsley/goshaderfx/graphics"

var _ graphics.Context = (*Headless)(nil)
