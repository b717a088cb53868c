package geometry

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font wraps a parsed TrueType/OpenType face. Glyph outlines are loaded at
// a ppem equal to the font's units per em, so outline coordinates come back
// in font units. A Font is safe for concurrent use.
type Font struct {
	face *sfnt.Font
	upem float64
	name string
}

// LoadFont reads a font file. An empty path selects the embedded Go Regular face.
func LoadFont(path string) (*Font, error) {
	if path == "" {
		f, err := ParseFont(goregular.TTF)
		if err != nil {
			return nil, err
		}
		f.name = "Go Regular"
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	f, err := ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	f.name = path
	return f, nil
}

// ParseFont parses font data held in memory
func ParseFont(data []byte) (*Font, error) {
	face, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	upem := float64(face.UnitsPerEm())
	if upem <= 0 {
		return nil, fmt.Errorf("font reports %v units per em", upem)
	}
	return &Font{face: face, upem: upem}, nil
}

// Name returns the font file path, or the embedded face name
func (f *Font) Name() string {
	return f.name
}

func (f *Font) ppem() fixed.Int26_6 {
	return fixed.I(int(f.upem))
}

// Shapes lays out text along the baseline starting at the origin and returns
// one shape per outer contour, scaled so one em equals size. A newline
// starts a new line below the previous one. Curves are split into
// curveSegments straight pieces.
func (f *Font) Shapes(text string, size float64, curveSegments int) ([]Shape, error) {
	if curveSegments < 1 {
		curveSegments = 1
	}
	scale := size / f.upem
	ppem := f.ppem()

	var buf sfnt.Buffer
	metrics, err := f.face.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font metrics: %w", err)
	}
	lineHeight := fromFixed(metrics.Height)

	var (
		shapes  []Shape
		cursorX float64
		cursorY float64
		prev    sfnt.GlyphIndex
		hasPrev bool
	)
	for _, r := range text {
		if r == '\n' {
			cursorX = 0
			cursorY -= lineHeight
			hasPrev = false
			continue
		}

		idx, err := f.face.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index for %q: %w", r, err)
		}
		// idx 0 is .notdef, which still has an outline and an advance

		if hasPrev {
			// fonts without a usable kern table report an error; spacing stays unkerned
			if kern, err := f.face.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				cursorX += fromFixed(kern)
			}
		}

		segments, err := f.face.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("load glyph %q: %w", r, err)
		}
		origin := mgl64.Vec2{cursorX, cursorY}
		contours := flattenSegments(segments, curveSegments, func(p fixed.Point26_6) mgl64.Vec2 {
			// sfnt outlines are y-down
			return mgl64.Vec2{
				(origin[0] + fromFixed(p.X)) * scale,
				(origin[1] - fromFixed(p.Y)) * scale,
			}
		})
		shapes = append(shapes, groupContours(contours)...)

		advance, err := f.face.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("advance for %q: %w", r, err)
		}
		cursorX += fromFixed(advance)
		prev, hasPrev = idx, true
	}

	return shapes, nil
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
