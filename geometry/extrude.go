package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"textmorph/core"
)

// TextOptions controls glyph layout and extrusion
type TextOptions struct {
	Size           float64 `json:"size"`           // em size in scene units
	Depth          float64 `json:"depth"`          // extrusion along +z
	CurveSegments  int     `json:"curveSegments"`  // straight pieces per outline curve
	BevelEnabled   bool    `json:"bevelEnabled"`
	BevelThickness float64 `json:"bevelThickness"` // how far the bevel reaches past each cap
	BevelSize      float64 `json:"bevelSize"`      // how far the bevel grows the outline
	BevelOffset    float64 `json:"bevelOffset"`
	BevelSegments  int     `json:"bevelSegments"`
}

// DefaultTextOptions returns the stock glyph size, depth and bevel
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Size:           0.5,
		Depth:          0.2,
		CurveSegments:  12,
		BevelEnabled:   true,
		BevelThickness: 0.03,
		BevelSize:      0.02,
		BevelOffset:    0,
		BevelSegments:  5,
	}
}

// NewTextSurface lays out text with f and extrudes it into a non-indexed
// triangle surface. The result is not centered.
func NewTextSurface(f *Font, text string, opts TextOptions) (core.Surface, error) {
	if opts.Size <= 0 {
		return core.Surface{}, fmt.Errorf("text size must be positive, got %v", opts.Size)
	}
	shapes, err := f.Shapes(text, opts.Size, opts.CurveSegments)
	if err != nil {
		return core.Surface{}, fmt.Errorf("failed to lay out %q: %w", text, err)
	}
	return Extrude(shapes, opts), nil
}

// ring is one copy of every contour at a given depth and outline offset
type ring struct {
	z      float64
	offset float64
}

// Extrude builds front and back caps, side walls, and bevel bands for each
// shape. The back cap sits at z = -BevelThickness and the front cap at
// z = Depth + BevelThickness when bevelling is enabled.
func Extrude(shapes []Shape, opts TextOptions) core.Surface {
	rings := extrusionRings(opts)
	var tris []core.Triangle
	for _, s := range shapes {
		tris = append(tris, extrudeShape(s, rings)...)
	}
	return core.Surface{Triangles: tris}
}

func extrusionRings(opts TextOptions) []ring {
	if !opts.BevelEnabled || opts.BevelSegments < 1 {
		return []ring{{z: 0}, {z: opts.Depth}}
	}

	segs := opts.BevelSegments
	var rings []ring
	for b := 0; b <= segs; b++ {
		t := float64(b) / float64(segs)
		rings = append(rings, ring{
			z:      -opts.BevelThickness * math.Cos(t*math.Pi/2),
			offset: opts.BevelSize*math.Sin(t*math.Pi/2) + opts.BevelOffset,
		})
	}
	for b := segs; b >= 0; b-- {
		t := float64(b) / float64(segs)
		rings = append(rings, ring{
			z:      opts.Depth + opts.BevelThickness*math.Cos(t*math.Pi/2),
			offset: opts.BevelSize*math.Sin(t*math.Pi/2) + opts.BevelOffset,
		})
	}
	return rings
}

func extrudeShape(s Shape, rings []ring) []core.Triangle {
	if len(s.Outer) < 3 {
		return nil
	}

	contours := [][]mgl64.Vec2{oriented(s.Outer, true)}
	for _, h := range s.Holes {
		if len(h) >= 3 {
			contours = append(contours, oriented(h, false))
		}
	}

	var flat []mgl64.Vec2
	var bevel []mgl64.Vec2
	for _, c := range contours {
		flat = append(flat, c...)
		bevel = append(bevel, bevelVectors(c)...)
	}

	at := func(i int, r ring) mgl32.Vec3 {
		p := flat[i].Add(bevel[i].Mul(r.offset))
		return mgl32.Vec3{float32(p[0]), float32(p[1]), float32(r.z)}
	}

	var tris []core.Triangle

	// Caps
	caps := Triangulate(contours[0], contours[1:])
	back, front := rings[0], rings[len(rings)-1]
	for _, c := range caps {
		tris = append(tris,
			core.Triangle{at(c[0], front), at(c[1], front), at(c[2], front)},
			core.Triangle{at(c[2], back), at(c[1], back), at(c[0], back)},
		)
	}

	// Walls between consecutive rings
	base := 0
	for _, contour := range contours {
		n := len(contour)
		for j := 0; j < n; j++ {
			i0, i1 := base+j, base+(j+1)%n
			for r := 0; r+1 < len(rings); r++ {
				lo, hi := rings[r], rings[r+1]
				a, b := at(i0, lo), at(i1, lo)
				c, d := at(i1, hi), at(i0, hi)
				tris = append(tris, core.Triangle{a, b, c}, core.Triangle{a, c, d})
			}
		}
		base += n
	}
	return tris
}

// bevelVectors returns, for each vertex, the miter direction pointing out of
// the filled region. For a counter-clockwise outer or clockwise hole that is
// the right-hand side of the direction of travel.
func bevelVectors(contour []mgl64.Vec2) []mgl64.Vec2 {
	n := len(contour)
	out := make([]mgl64.Vec2, n)
	for i := range contour {
		prev, cur, next := contour[(i-1+n)%n], contour[i], contour[(i+1)%n]
		n1 := rightNormal(cur.Sub(prev))
		n2 := rightNormal(next.Sub(cur))
		sum := n1.Add(n2)
		if sum.Len() < 1e-9 {
			out[i] = n1
			continue
		}
		dir := sum.Normalize()
		// stretch so the offset edges stay parallel, limited on sharp corners
		scale := 4.0
		if cosHalf := dir.Dot(n1); cosHalf > 0.25 {
			scale = 1 / cosHalf
		}
		out[i] = dir.Mul(scale)
	}
	return out
}

func rightNormal(d mgl64.Vec2) mgl64.Vec2 {
	l := d.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{d[1] / l, -d[0] / l}
}
