package geometry

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Shape is one filled region: a counter-clockwise outer contour and any
// clockwise holes inside it. Contours are open (the last point does not
// repeat the first).
type Shape struct {
	Outer []mgl64.Vec2
	Holes [][]mgl64.Vec2
}

// Area returns the filled area (outer minus holes)
func (s Shape) Area() float64 {
	area := math.Abs(SignedArea(s.Outer))
	for _, h := range s.Holes {
		area -= math.Abs(SignedArea(h))
	}
	return area
}

// SignedArea is the shoelace area, positive for counter-clockwise contours (y up)
func SignedArea(contour []mgl64.Vec2) float64 {
	area := 0.0
	n := len(contour)
	for i := 0; i < n; i++ {
		a, b := contour[i], contour[(i+1)%n]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return area / 2
}

// PointInPolygon is an even-odd crossing test
func PointInPolygon(p mgl64.Vec2, contour []mgl64.Vec2) bool {
	inside := false
	n := len(contour)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := contour[i], contour[j]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := a[0] + (p[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// flattenSegments turns glyph outline segments into closed polylines
func flattenSegments(segments sfnt.Segments, steps int, transform func(fixed.Point26_6) mgl64.Vec2) [][]mgl64.Vec2 {
	var (
		contours [][]mgl64.Vec2
		current  []mgl64.Vec2
	)
	closeContour := func() {
		if len(current) > 1 && current[0].ApproxEqual(current[len(current)-1]) {
			current = current[:len(current)-1]
		}
		if len(current) >= 3 {
			contours = append(contours, current)
		}
		current = nil
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			current = append(current, transform(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			current = appendPoint(current, transform(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p0 := current[len(current)-1]
			c := transform(seg.Args[0])
			p1 := transform(seg.Args[1])
			for i := 1; i <= steps; i++ {
				current = appendPoint(current, mgl64.QuadraticBezierCurve2D(float64(i)/float64(steps), p0, c, p1))
			}
		case sfnt.SegmentOpCubeTo:
			p0 := current[len(current)-1]
			c0 := transform(seg.Args[0])
			c1 := transform(seg.Args[1])
			p1 := transform(seg.Args[2])
			for i := 1; i <= steps; i++ {
				current = appendPoint(current, mgl64.CubicBezierCurve2D(float64(i)/float64(steps), p0, c0, c1, p1))
			}
		}
	}
	closeContour()
	return contours
}

func appendPoint(contour []mgl64.Vec2, p mgl64.Vec2) []mgl64.Vec2 {
	if n := len(contour); n > 0 && contour[n-1].ApproxEqual(p) {
		return contour
	}
	return append(contour, p)
}

// groupContours sorts contours into shapes. A contour nested inside an odd
// number of others is a hole and belongs to the smallest outer contour that
// contains it. Winding direction in the font file is ignored.
func groupContours(contours [][]mgl64.Vec2) []Shape {
	type entry struct {
		points []mgl64.Vec2
		area   float64
		depth  int
		parent int
	}

	entries := make([]entry, 0, len(contours))
	for _, c := range contours {
		if a := math.Abs(SignedArea(c)); a > 1e-12 {
			entries = append(entries, entry{points: c, area: a, parent: -1})
		}
	}
	// Largest first so a containing contour is always seen before its children
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].area > entries[j].area
	})

	for i := range entries {
		probe := entries[i].points[0]
		for j := 0; j < i; j++ {
			if PointInPolygon(probe, entries[j].points) {
				entries[i].depth++
				if entries[j].depth%2 == 0 {
					// later matches are smaller, so this ends on the tightest outer
					entries[i].parent = j
				}
			}
		}
	}

	shapeOf := make(map[int]int)
	var shapes []Shape
	for i, e := range entries {
		if e.depth%2 == 0 {
			shapeOf[i] = len(shapes)
			shapes = append(shapes, Shape{Outer: oriented(e.points, true)})
		}
	}
	for _, e := range entries {
		if e.depth%2 == 1 && e.parent >= 0 {
			s := shapeOf[e.parent]
			shapes[s].Holes = append(shapes[s].Holes, oriented(e.points, false))
		}
	}
	return shapes
}

// oriented returns the contour wound counter-clockwise, or clockwise when ccw is false
func oriented(contour []mgl64.Vec2, ccw bool) []mgl64.Vec2 {
	if (SignedArea(contour) > 0) == ccw {
		return contour
	}
	out := make([]mgl64.Vec2, len(contour))
	for i, p := range contour {
		out[len(contour)-1-i] = p
	}
	return out
}
