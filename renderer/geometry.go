package renderer

// VertexStride is the number of floats per vertex: position xyz, uv.
const VertexStride = 5

// NewPlane tessellates a width x height plane in the XY plane, centered on
// the origin and facing +Z, into segments x segments quads. Vertices are
// interleaved position(3)+uv(2); uv runs 0..1 left to right and bottom to top.
func NewPlane(width, height float32, segments int) ([]float32, []uint32) {
	if segments < 1 {
		segments = 1
	}
	grid := segments + 1
	segW := width / float32(segments)
	segH := height / float32(segments)
	halfW, halfH := width/2, height/2

	vertices := make([]float32, 0, grid*grid*VertexStride)
	for iy := 0; iy < grid; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix < grid; ix++ {
			x := float32(ix)*segW - halfW
			vertices = append(vertices,
				x, -y, 0,
				float32(ix)/float32(segments), 1-float32(iy)/float32(segments),
			)
		}
	}

	indices := make([]uint32, 0, segments*segments*6)
	for iy := 0; iy < segments; iy++ {
		for ix := 0; ix < segments; ix++ {
			a := uint32(ix + grid*iy)
			b := uint32(ix + grid*(iy+1))
			c := uint32(ix + 1 + grid*(iy+1))
			d := uint32(ix + 1 + grid*iy)
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return vertices, indices
}
