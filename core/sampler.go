package core

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rand is the randomness source used for sampling.
// *math/rand/v2.Rand and *math/rand.Rand both satisfy it.
type Rand interface {
	Float64() float64
}

// SurfaceSampler draws points uniformly over the area of a surface.
// It is immutable once built and safe for concurrent use as long as each
// goroutine brings its own Rand.
type SurfaceSampler struct {
	triangles  []Triangle
	cumulative []float64 // prefix sums of triangle areas
	total      float64
}

// BuildSampler computes the cumulative area table for s
func BuildSampler(s Surface) (*SurfaceSampler, error) {
	if len(s.Triangles) == 0 {
		return nil, fmt.Errorf("build sampler: no triangles: %w", ErrDegenerateSurface)
	}

	cumulative := make([]float64, len(s.Triangles))
	total := 0.0
	for i, t := range s.Triangles {
		total += triangleArea(t)
		cumulative[i] = total
	}

	// NaN fails this comparison as well
	if !(total > 0) {
		return nil, fmt.Errorf("build sampler: total area %g over %d triangles: %w",
			total, len(s.Triangles), ErrDegenerateSurface)
	}

	return &SurfaceSampler{
		triangles:  s.Triangles,
		cumulative: cumulative,
		total:      total,
	}, nil
}

// TotalArea returns the summed area of the sampled surface
func (s *SurfaceSampler) TotalArea() float64 {
	return s.total
}

// Sample returns a uniformly distributed point on the surface
func (s *SurfaceSampler) Sample(rng Rand) mgl32.Vec3 {
	p, _ := s.SampleFace(rng)
	return p
}

// SampleFace returns a sampled point and the index of the triangle it lies on
func (s *SurfaceSampler) SampleFace(rng Rand) (mgl32.Vec3, int) {
	idx := s.pickTriangle(rng.Float64() * s.total)
	u := rng.Float64()
	v := rng.Float64()
	if u+v > 1 {
		u = 1 - u
		v = 1 - v
	}
	return barycentric(s.triangles[idx], u, v), idx
}

// pickTriangle finds the triangle whose cumulative range [c[i-1], c[i]) holds r.
// Zero-area triangles have an empty range and are never chosen.
func (s *SurfaceSampler) pickTriangle(r float64) int {
	idx := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > r
	})
	if idx == len(s.cumulative) {
		// r rounded up to the total
		idx = len(s.cumulative) - 1
		for idx > 0 && s.cumulative[idx] == s.cumulative[idx-1] {
			idx--
		}
	}
	return idx
}

func barycentric(t Triangle, u, v float64) mgl32.Vec3 {
	a, b, c := toR3(t[0]), toR3(t[1]), toR3(t[2])
	p := r3.Add(a, r3.Add(r3.Scale(u, r3.Sub(b, a)), r3.Scale(v, r3.Sub(c, a))))
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

func triangleArea(t Triangle) float64 {
	a, b, c := toR3(t[0]), toR3(t[1]), toR3(t[2])
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
}

func toR3(v mgl32.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}
