package geometry

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangulate fills a polygon with holes by ear clipping. Returned index
// triples refer to the concatenation of outer followed by each hole in order,
// and are wound counter-clockwise. The outer contour is expected
// counter-clockwise and holes clockwise, as produced by Shapes; contours
// wound the other way are reversed first and the indices then refer to the
// reversed order. Holes are joined to the outer contour with zero-width
// bridges before clipping.
func Triangulate(outer []mgl64.Vec2, holes [][]mgl64.Vec2) [][3]int {
	if len(outer) < 3 {
		return nil
	}

	points := make([]mgl64.Vec2, 0, len(outer))
	points = append(points, oriented(outer, true)...)
	ring := make([]int, len(outer))
	for i := range ring {
		ring[i] = i
	}

	type hole struct {
		start, n  int
		rightmost int // index into points
	}
	var hs []hole
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		start := len(points)
		points = append(points, oriented(h, false)...)
		best := start
		for i := start; i < len(points); i++ {
			if points[i][0] > points[best][0] || (points[i][0] == points[best][0] && points[i][1] < points[best][1]) {
				best = i
			}
		}
		hs = append(hs, hole{start: start, n: len(h), rightmost: best})
	}
	sort.SliceStable(hs, func(i, j int) bool {
		return points[hs[i].rightmost][0] > points[hs[j].rightmost][0]
	})

	for _, h := range hs {
		ring = bridgeHole(points, ring, h.start, h.n, h.rightmost)
	}

	return clipEars(points, ring)
}

// bridgeHole splices a hole into ring through a mutually visible vertex pair
func bridgeHole(points []mgl64.Vec2, ring []int, start, n, m int) []int {
	k := findBridge(points, ring, points[m])

	// ..., P, M, M+1, ..., M-1, M, P, ...
	spliced := make([]int, 0, len(ring)+n+2)
	spliced = append(spliced, ring[:k+1]...)
	for i := 0; i <= n; i++ {
		spliced = append(spliced, start+(m-start+i)%n)
	}
	spliced = append(spliced, ring[k])
	spliced = append(spliced, ring[k+1:]...)
	return spliced
}

// findBridge returns the position in ring of a vertex visible from m, using a
// ray cast towards +x and the reflex-vertex refinement.
func findBridge(points []mgl64.Vec2, ring []int, m mgl64.Vec2) int {
	n := len(ring)
	bestX := math.Inf(1)
	candidate := -1
	for i := 0; i < n; i++ {
		a, b := points[ring[i]], points[ring[(i+1)%n]]
		if (a[1] > m[1]) == (b[1] > m[1]) && a[1] != m[1] && b[1] != m[1] {
			continue
		}
		if a[1] == b[1] {
			continue
		}
		x := a[0] + (m[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
		if x < m[0] || x >= bestX {
			continue
		}
		bestX = x
		if x == a[0] && m[1] == a[1] {
			candidate = i
		} else if x == b[0] && m[1] == b[1] {
			candidate = (i + 1) % n
		} else if a[0] > b[0] {
			candidate = i
		} else {
			candidate = (i + 1) % n
		}
	}

	if candidate < 0 {
		// no edge to the right; fall back to the nearest vertex
		bestDist := math.Inf(1)
		for i, idx := range ring {
			if d := points[idx].Sub(m).LenSqr(); d < bestDist {
				bestDist, candidate = d, i
			}
		}
		return candidate
	}

	hit := mgl64.Vec2{bestX, m[1]}
	p := points[ring[candidate]]
	if hit.ApproxEqual(p) {
		return candidate
	}

	// Any reflex vertex inside triangle (m, hit, p) blocks the view of p.
	// Pick the one with the smallest angle to the ray instead.
	tri := [3]mgl64.Vec2{m, hit, p}
	if cross(tri[0], tri[1], tri[2]) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	best := candidate
	bestTan := math.Inf(1)
	for i, idx := range ring {
		q := points[idx]
		if i == candidate || q[0] < m[0] || q.ApproxEqual(m) || !inTriangle(q, tri[0], tri[1], tri[2]) {
			continue
		}
		prev := points[ring[(i-1+n)%n]]
		next := points[ring[(i+1)%n]]
		if cross(prev, q, next) > 0 {
			continue // convex
		}
		tan := math.Abs(q[1]-m[1]) / (q[0] - m[0] + 1e-300)
		if tan < bestTan || (tan == bestTan && q[0] < points[ring[best]][0]) {
			best, bestTan = i, tan
		}
	}
	return best
}

func clipEars(points []mgl64.Vec2, ring []int) [][3]int {
	var tris [][3]int
	idx := append([]int(nil), ring...)

	// pass 0 rejects ears touching any other vertex, pass 1 only ears that
	// strictly contain one, pass 2 clips whatever convex corner it finds
	pass := 0
	stalled := 0
	i := 0
	for len(idx) > 3 {
		n := len(idx)
		i %= n
		ip, ic, in := idx[(i-1+n)%n], idx[i], idx[(i+1)%n]
		a, b, c := points[ip], points[ic], points[in]

		area := cross(a, b, c)
		if math.Abs(area) < 1e-14 {
			// collinear or duplicated vertex, nothing to emit
			idx = append(idx[:i], idx[i+1:]...)
			stalled = 0
			continue
		}
		if area > 0 && (pass == 2 || isEar(points, idx, i, pass == 0)) {
			tris = append(tris, [3]int{ip, ic, in})
			idx = append(idx[:i], idx[i+1:]...)
			pass, stalled = 0, 0
			continue
		}

		stalled++
		if stalled > n {
			stalled = 0
			if pass < 2 {
				pass++
			} else {
				// only reflex corners left; drop one so the loop terminates
				idx = append(idx[:i], idx[i+1:]...)
				continue
			}
		}
		i++
	}

	if len(idx) == 3 && cross(points[idx[0]], points[idx[1]], points[idx[2]]) > 1e-14 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

// isEar reports whether no other ring vertex lies in the triangle at
// position i. With inclusive set, vertices on the triangle boundary count.
func isEar(points []mgl64.Vec2, idx []int, i int, inclusive bool) bool {
	n := len(idx)
	a, b, c := points[idx[(i-1+n)%n]], points[idx[i]], points[idx[(i+1)%n]]
	for j := 0; j < n; j++ {
		if j == i || j == (i-1+n)%n || j == (i+1)%n {
			continue
		}
		p := points[idx[j]]
		if p.ApproxEqual(a) || p.ApproxEqual(b) || p.ApproxEqual(c) {
			continue
		}
		if inclusive && inTriangle(p, a, b, c) {
			return false
		}
		if !inclusive && cross(a, b, p) > 0 && cross(b, c, p) > 0 && cross(c, a, p) > 0 {
			return false
		}
	}
	return true
}

// cross returns twice the signed area of triangle abc
func cross(a, b, c mgl64.Vec2) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// inTriangle reports whether p lies inside or on counter-clockwise triangle abc
func inTriangle(p, a, b, c mgl64.Vec2) bool {
	return cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0
}
