package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"textmorph/core"
)

func square(x0, y0, size float64) []mgl64.Vec2 {
	return []mgl64.Vec2{{x0, y0}, {x0 + size, y0}, {x0 + size, y0 + size}, {x0, y0 + size}}
}

func reversed(c []mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// capArea sums the triangle areas of a triangulation
func capArea(points []mgl64.Vec2, tris [][3]int) float64 {
	total := 0.0
	for _, t := range tris {
		total += cross(points[t[0]], points[t[1]], points[t[2]]) / 2
	}
	return total
}

func TestTriangulate(t *testing.T) {
	lShape := []mgl64.Vec2{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	comb := []mgl64.Vec2{{0, 0}, {5, 0}, {5, 3}, {4, 3}, {4, 1}, {3, 1}, {3, 3}, {2, 3}, {2, 1}, {1, 1}, {1, 3}, {0, 3}}

	tests := []struct {
		name      string
		outer     []mgl64.Vec2
		holes     [][]mgl64.Vec2
		wantArea  float64
		wantCount int
	}{
		{name: "square", outer: square(0, 0, 1), wantArea: 1, wantCount: 2},
		{name: "clockwise square", outer: reversed(square(0, 0, 2)), wantArea: 4, wantCount: 2},
		{name: "L shape", outer: lShape, wantArea: 3, wantCount: 4},
		{name: "comb", outer: comb, wantArea: 11, wantCount: 10},
		{
			name:      "square with hole",
			outer:     square(0, 0, 4),
			holes:     [][]mgl64.Vec2{reversed(square(1, 1, 2))},
			wantArea:  12,
		},
		{
			name:  "two holes",
			outer: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 4}, {0, 4}},
			holes: [][]mgl64.Vec2{
				reversed(square(1, 1, 2)),
				reversed(square(6, 1, 2)),
			},
			wantArea:  32,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tris := Triangulate(tc.outer, tc.holes)

			points := oriented(tc.outer, true)
			for _, h := range tc.holes {
				points = append(points, oriented(h, false)...)
			}
			if got := capArea(points, tris); math.Abs(got-tc.wantArea) > 1e-9 {
				t.Errorf("area = %v, want %v", got, tc.wantArea)
			}
			// bridged holes may lose collinear duplicates, so only simple polygons pin the count
			if tc.wantCount > 0 && len(tris) != tc.wantCount {
				t.Errorf("triangles = %d, want %d", len(tris), tc.wantCount)
			}
			for _, tri := range tris {
				if cross(points[tri[0]], points[tri[1]], points[tri[2]]) <= 0 {
					t.Errorf("triangle %v is not counter-clockwise", tri)
				}
			}
		})
	}
}

func TestTriangulateTooFewPoints(t *testing.T) {
	if tris := Triangulate([]mgl64.Vec2{{0, 0}, {1, 1}}, nil); tris != nil {
		t.Errorf("expected nil, got %v", tris)
	}
}

func TestGroupContoursNesting(t *testing.T) {
	// outer, hole, island inside the hole; windings deliberately mixed up
	contours := [][]mgl64.Vec2{
		reversed(square(3, 3, 2)),
		square(0, 0, 8),
		square(2, 2, 4),
		square(20, 0, 1),
	}
	shapes := groupContours(contours)
	if len(shapes) != 3 {
		t.Fatalf("shapes = %d, want 3", len(shapes))
	}

	var withHole *Shape
	for i := range shapes {
		if SignedArea(shapes[i].Outer) <= 0 {
			t.Errorf("shape %d outer is not counter-clockwise", i)
		}
		for _, h := range shapes[i].Holes {
			if SignedArea(h) >= 0 {
				t.Errorf("shape %d hole is not clockwise", i)
			}
		}
		if len(shapes[i].Holes) > 0 {
			withHole = &shapes[i]
		}
	}
	if withHole == nil {
		t.Fatal("no shape received the hole")
	}
	if got := withHole.Area(); math.Abs(got-48) > 1e-9 {
		t.Errorf("ring area = %v, want 48", got)
	}
}

func TestExtrudeWithoutBevel(t *testing.T) {
	opts := TextOptions{Size: 1, Depth: 0.5}
	s := Extrude([]Shape{{Outer: square(0, 0, 1)}}, opts)

	// 2 caps x 2 triangles + 4 walls x 2 triangles
	if s.Len() != 12 {
		t.Errorf("triangles = %d, want 12", s.Len())
	}
	if got, want := s.Area(), 2*1.0+4*0.5; math.Abs(got-want) > 1e-6 {
		t.Errorf("area = %v, want %v", got, want)
	}
	b := s.Bounds()
	if b.Min[2] != 0 || math.Abs(float64(b.Max[2])-0.5) > 1e-6 {
		t.Errorf("z range = [%v, %v], want [0, 0.5]", b.Min[2], b.Max[2])
	}
}

func TestExtrudeWithBevel(t *testing.T) {
	opts := DefaultTextOptions()
	shape := Shape{Outer: square(0, 0, 1), Holes: [][]mgl64.Vec2{reversed(square(0.25, 0.25, 0.5))}}
	s := Extrude([]Shape{shape}, opts)

	rings := 2 * (opts.BevelSegments + 1)
	caps := 2 * len(Triangulate(shape.Outer, shape.Holes))
	walls := 2 * 8 * (rings - 1)
	if s.Len() != caps+walls {
		t.Errorf("triangles = %d, want %d", s.Len(), caps+walls)
	}

	b := s.Bounds()
	wantMinZ := -opts.BevelThickness
	wantMaxZ := opts.Depth + opts.BevelThickness
	if math.Abs(float64(b.Min[2])-wantMinZ) > 1e-6 || math.Abs(float64(b.Max[2])-wantMaxZ) > 1e-6 {
		t.Errorf("z range = [%v, %v], want [%v, %v]", b.Min[2], b.Max[2], wantMinZ, wantMaxZ)
	}
	// the bevel pushes the outer walls out by BevelSize
	if math.Abs(float64(b.Min[0])+opts.BevelSize) > 1e-6 || math.Abs(float64(b.Max[0])-1-opts.BevelSize) > 1e-6 {
		t.Errorf("x range = [%v, %v]", b.Min[0], b.Max[0])
	}
	if s.Area() <= 2*shape.Area() {
		t.Errorf("area %v should exceed both caps %v", s.Area(), 2*shape.Area())
	}
}

func TestLoadDefaultFont(t *testing.T) {
	f, err := LoadFont("")
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if f.Name() == "" {
		t.Error("expected a font name")
	}
}

func TestLoadFontMissingFile(t *testing.T) {
	if _, err := LoadFont("does/not/exist.ttf"); err == nil {
		t.Error("expected an error for a missing font")
	}
}

func TestShapesLayout(t *testing.T) {
	f, err := LoadFont("")
	if err != nil {
		t.Fatal(err)
	}

	// "o" has one outer contour and one hole
	shapes, err := f.Shapes("o", 1, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 1 {
		t.Fatalf("o: shapes = %d, want 1", len(shapes))
	}
	if len(shapes[0].Holes) != 1 {
		t.Fatalf("o: holes = %d, want 1", len(shapes[0].Holes))
	}

	// a space has no outline but still advances
	spaced, err := f.Shapes("l l", 1, 12)
	if err != nil {
		t.Fatal(err)
	}
	tight, err := f.Shapes("ll", 1, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(spaced) != 2 || len(tight) != 2 {
		t.Fatalf("expected two shapes, got %d and %d", len(spaced), len(tight))
	}
	if maxX(spaced[1].Outer) <= maxX(tight[1].Outer) {
		t.Error("space did not advance the cursor")
	}

	// a newline moves the next glyph below
	lines, err := f.Shapes("l\nl", 1, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || maxY(lines[1].Outer) >= maxY(lines[0].Outer) {
		t.Error("newline did not move the second line down")
	}
}

func TestNewTextSurface(t *testing.T) {
	f, err := LoadFont("")
	if err != nil {
		t.Fatal(err)
	}

	hello, err := NewTextSurface(f, "H e l l o", DefaultTextOptions())
	if err != nil {
		t.Fatalf("NewTextSurface: %v", err)
	}
	if hello.Len() == 0 || hello.Area() <= 0 {
		t.Fatalf("empty surface: %d triangles, area %v", hello.Len(), hello.Area())
	}
	centered := hello.Centered()
	if c := centered.Bounds().Center(); c.Len() > 1e-5 {
		t.Errorf("centered surface centre = %v", c)
	}
	// roughly one em tall glyphs at size 0.5
	if h := centered.Bounds().Size()[1]; h < 0.25 || h > 0.75 {
		t.Errorf("text height = %v", h)
	}

	blank, err := NewTextSurface(f, "   ", DefaultTextOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := core.BuildSampler(blank); err == nil {
		t.Error("blank text should not be sampleable")
	}

	if _, err := NewTextSurface(f, "x", TextOptions{}); err == nil {
		t.Error("expected an error for zero size")
	}
}

func maxX(c []mgl64.Vec2) float64 {
	m := math.Inf(-1)
	for _, p := range c {
		m = math.Max(m, p[0])
	}
	return m
}

func maxY(c []mgl64.Vec2) float64 {
	m := math.Inf(-1)
	for _, p := range c {
		m = math.Max(m, p[1])
	}
	return m
}
