package convert

import "golang.org/x/image/math/f32"

// Bounds is an axis-aligned box around a vertex pool.
type Bounds struct {
	Min f32.Vec3
	Max f32.Vec3
}

// Size returns the box extent per axis.
func (b Bounds) Size() f32.Vec3 {
	return f32.Vec3{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// ComputeBounds scans an xyz-interleaved vertex pool. Reports false
// when the pool holds no complete vertex.
func ComputeBounds(vertices []float32) (Bounds, bool) {
	if len(vertices) < 3 {
		return Bounds{}, false
	}

	b := Bounds{
		Min: f32.Vec3{vertices[0], vertices[1], vertices[2]},
		Max: f32.Vec3{vertices[0], vertices[1], vertices[2]},
	}
	for i := 3; i+2 < len(vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := vertices[i+a]
			if v < b.Min[a] {
				b.Min[a] = v
			}
			if v > b.Max[a] {
				b.Max[a] = v
			}
		}
	}
	return b, true
}
