package scene

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"textmorph/core"
	"textmorph/geometry"
)

// MorphRequest describes the two words and how densely to sample them
type MorphRequest struct {
	From     string
	To       string
	FontPath string
	Options  geometry.TextOptions
	Count    int
	Seed     uint64 // 0 draws a random seed
}

// LoadResult is delivered once the point cloud is built or has failed
type LoadResult struct {
	Morph *core.MorphBuffer
	Err   error
}

// TextSurfaces holds the extruded meshes of both words, as laid out by the
// font and before recentering.
type TextSurfaces struct {
	Font   string
	Words  [2]string
	Meshes [2]core.Surface
}

// BuildSurfaces loads the font and extrudes both words concurrently
func BuildSurfaces(ctx context.Context, req MorphRequest) (*TextSurfaces, error) {
	font, err := geometry.LoadFont(req.FontPath)
	if err != nil {
		return nil, err
	}

	ts := &TextSurfaces{Font: font.Name(), Words: [2]string{req.From, req.To}}
	g, ctx := errgroup.WithContext(ctx)
	for i, text := range ts.Words {
		g.Go(func() error {
			surface, err := geometry.NewTextSurface(font, text, req.Options)
			if err != nil {
				return err
			}
			ts.Meshes[i] = surface
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ts, nil
}

// SampleMorph recenters both meshes and samples count points from each.
// Word i draws from its own PCG stream seeded with (seed, i+1); a zero seed
// is replaced by a random one.
func SampleMorph(ctx context.Context, ts *TextSurfaces, count int, seed uint64) (*core.MorphBuffer, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}

	var sets [2]core.PointSet
	g, ctx := errgroup.WithContext(ctx)
	for i, surface := range ts.Meshes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(i)+1))
			points, err := core.BuildPointSet(surface.Centered(), count, rng)
			if err != nil {
				return fmt.Errorf("sampling %q: %w", ts.Words[i], err)
			}
			sets[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return core.ConstructMorphBuffer(sets[0], sets[1])
}

// BuildMorph extrudes both words and samples Count points from each
func BuildMorph(ctx context.Context, req MorphRequest) (*core.MorphBuffer, error) {
	ts, err := BuildSurfaces(ctx, req)
	if err != nil {
		return nil, err
	}
	return SampleMorph(ctx, ts, req.Count, req.Seed)
}

// Load runs BuildMorph in the background. The channel receives exactly one
// result and is then closed.
func Load(ctx context.Context, req MorphRequest) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		start := time.Now()
		m, err := BuildMorph(ctx, req)
		if err == nil {
			fmt.Printf("Point cloud ready: %d points in %.3fs\n", m.Len(), time.Since(start).Seconds())
			logPointSet(req.From, m.From())
			logPointSet(req.To, m.To())
		}
		out <- LoadResult{Morph: m, Err: err}
	}()
	return out
}

func logPointSet(name string, p core.PointSet) {
	b := p.Bounds()
	fmt.Printf("  %q: %d points, bounds (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		name, len(p), b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}
