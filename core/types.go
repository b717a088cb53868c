package core

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDegenerateSurface is returned when a surface has no triangles or zero total area
	ErrDegenerateSurface = errors.New("cannot sample empty or degenerate surface")

	// ErrLengthMismatch is returned when two point sets cannot be paired index for index
	ErrLengthMismatch = errors.New("point set length mismatch")

	// ErrInvalidCount is returned for a non-positive point count
	ErrInvalidCount = errors.New("point count must be positive")
)

// Triangle stores its own three vertices (no shared-vertex indirection)
type Triangle [3]mgl32.Vec3

// Area returns half the magnitude of the edge cross product
func (t Triangle) Area() float64 {
	return triangleArea(t)
}

// Surface is a non-indexed triangle list. Methods never modify the receiver.
type Surface struct {
	Triangles []Triangle
}

// NewSurface builds a surface from a flat xyz array, nine floats per triangle.
// Trailing floats that do not make up a whole triangle are ignored.
func NewSurface(positions []float32) Surface {
	count := len(positions) / 9
	tris := make([]Triangle, count)
	for i := 0; i < count; i++ {
		p := positions[i*9 : i*9+9]
		tris[i] = Triangle{
			{p[0], p[1], p[2]},
			{p[3], p[4], p[5]},
			{p[6], p[7], p[8]},
		}
	}
	return Surface{Triangles: tris}
}

// Len returns the number of triangles
func (s Surface) Len() int {
	return len(s.Triangles)
}

// Area returns the total surface area
func (s Surface) Area() float64 {
	total := 0.0
	for _, t := range s.Triangles {
		total += triangleArea(t)
	}
	return total
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty surface yields a zero box.
func (s Surface) Bounds() Box {
	if len(s.Triangles) == 0 {
		return Box{}
	}
	b := Box{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, t := range s.Triangles {
		for _, v := range t {
			b = b.Extend(v)
		}
	}
	return b
}

// Translated returns a copy of the surface moved by offset
func (s Surface) Translated(offset mgl32.Vec3) Surface {
	tris := make([]Triangle, len(s.Triangles))
	for i, t := range s.Triangles {
		tris[i] = Triangle{t[0].Add(offset), t[1].Add(offset), t[2].Add(offset)}
	}
	return Surface{Triangles: tris}
}

// Centered returns a copy recentered on its bounding-box centre
func (s Surface) Centered() Surface {
	if len(s.Triangles) == 0 {
		return Surface{}
	}
	return s.Translated(s.Bounds().Center().Mul(-1))
}

// Box is an axis-aligned bounding box
type Box struct {
	Min, Max mgl32.Vec3
}

// Extend grows the box to include p
func (b Box) Extend(p mgl32.Vec3) Box {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Center returns the midpoint of the box
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent along each axis
func (b Box) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside the box, within eps
func (b Box) Contains(p mgl32.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i]-eps || p[i] > b.Max[i]+eps {
			return false
		}
	}
	return true
}
