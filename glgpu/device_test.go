package glgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type otherGeometry struct {
	count int
}

func (g *otherGeometry) IndexCount() int { return g.count }
func (g *otherGeometry) Destroy()        {}

// Drawing geometry from another device must return before touching GL, so
// this runs without a context.
func TestDrawSkipsForeignGeometry(t *testing.T) {
	d := &Device{}
	assert.NotPanics(t, func() {
		d.Draw(&otherGeometry{count: 6})
		d.Draw(&otherGeometry{count: 6})
	})
}

func TestGeometryIndexCount(t *testing.T) {
	g := &geometry{count: 42}
	assert.Equal(t, 42, g.IndexCount())
}
