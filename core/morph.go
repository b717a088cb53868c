package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// PointSet is a fixed-length ordered sequence of sampled positions.
// Draws are independent, so duplicates are possible.
type PointSet []mgl32.Vec3

// BuildPointSet samples exactly n points from surface
func BuildPointSet(surface Surface, n int, rng Rand) (PointSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("build point set: n=%d: %w", n, ErrInvalidCount)
	}
	sampler, err := BuildSampler(surface)
	if err != nil {
		return nil, err
	}
	points := make(PointSet, n)
	for i := range points {
		points[i] = sampler.Sample(rng)
	}
	return points, nil
}

// Flatten returns the positions as a packed xyz float array
func (p PointSet) Flatten() []float32 {
	out := make([]float32, 0, len(p)*3)
	for _, v := range p {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Bounds returns the bounding box of the set
func (p PointSet) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	b := Box{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		b = b.Extend(v)
	}
	return b
}

// MorphBuffer pairs two point sets by index. Pairing is positional only;
// no correspondence between the two clouds is computed.
type MorphBuffer struct {
	from PointSet
	to   PointSet
}

// Interleaved vertex layout: position (3 floats) then secPosition (3 floats)
const (
	MorphStride       = 6
	MorphStrideBytes  = MorphStride * 4
	MorphSecondOffset = 3 * 4
)

// ConstructMorphBuffer pairs a and b; both must have the same length
func ConstructMorphBuffer(a, b PointSet) (*MorphBuffer, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("construct morph buffer: %d vs %d: %w", len(a), len(b), ErrLengthMismatch)
	}
	return &MorphBuffer{from: a, to: b}, nil
}

// Len returns the number of paired points
func (m *MorphBuffer) Len() int {
	return len(m.from)
}

// From returns the set shown at mix factor 0
func (m *MorphBuffer) From() PointSet {
	return m.from
}

// To returns the set shown at mix factor 1
func (m *MorphBuffer) To() PointSet {
	return m.to
}

// Interleaved returns the GPU upload layout, MorphStride floats per point
func (m *MorphBuffer) Interleaved() []float32 {
	out := make([]float32, 0, len(m.from)*MorphStride)
	for i := range m.from {
		a, b := m.from[i], m.to[i]
		out = append(out, a[0], a[1], a[2], b[0], b[1], b[2])
	}
	return out
}

// At returns the interpolated position of point i. This mirrors the vertex
// shader: x*(1-t) + y*t, so t=0 and t=1 give the endpoints exactly and values
// outside [0,1] extrapolate.
func (m *MorphBuffer) At(i int, t float32) mgl32.Vec3 {
	a, b := m.from[i], m.to[i]
	return mgl32.Vec3{
		mix(a[0], b[0], t),
		mix(a[1], b[1], t),
		mix(a[2], b[2], t),
	}
}

// Interpolate evaluates every point at mix factor t
func (m *MorphBuffer) Interpolate(t float32) PointSet {
	out := make(PointSet, len(m.from))
	for i := range out {
		out[i] = m.At(i, t)
	}
	return out
}

func mix(x, y, t float32) float32 {
	return x*(1-t) + y*t
}
