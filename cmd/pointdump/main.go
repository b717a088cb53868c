package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"textmorph/config"
	"textmorph/core"
	"textmorph/scene"
)

// mixFlag records whether -mix was given, so any value including a
// negative overscroll frame can be dumped
type mixFlag struct {
	value float64
	set   bool
}

func (m *mixFlag) String() string {
	if m == nil || !m.set {
		return ""
	}
	return strconv.FormatFloat(m.value, 'g', -1, 64)
}

func (m *mixFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	m.value, m.set = v, true
	return nil
}

type options struct {
	configPath string
	mix        mixFlag
	format     string
	seed       uint64
	count      int
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pointdump", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "settings.json", "Settings file")
	fs.Var(&o.mix, "mix", "Write the frame at this mix factor (unset: summary only)")
	fs.StringVar(&o.format, "format", "json", "Frame output format (json, csv)")
	fs.Uint64Var(&o.seed, "seed", 0, "Sampler seed (0: use settings)")
	fs.IntVar(&o.count, "points", 0, "Points per word (0: use settings)")
	err := fs.Parse(args)
	return o, err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	settings, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if opts.seed != 0 {
		settings.Seed = opts.seed
	}
	if opts.count != 0 {
		settings.Points.Count = opts.count
	}

	ctx := context.Background()
	surfaces, err := scene.BuildSurfaces(ctx, scene.MorphRequest{
		From:     settings.Text.From,
		To:       settings.Text.To,
		FontPath: settings.Text.FontPath,
		Options:  settings.Text.Geometry,
	})
	if err != nil {
		log.Fatalf("Failed to build text surfaces: %v", err)
	}
	summarize(os.Stderr, surfaces)

	m, err := scene.SampleMorph(ctx, surfaces, settings.Points.Count, settings.Seed)
	if err != nil {
		log.Fatalf("Failed to build point cloud: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Point cloud: %d points per word\n", m.Len())

	if !opts.mix.set {
		return
	}
	if err := writeFrame(os.Stdout, m, float32(opts.mix.value), opts.format); err != nil {
		log.Fatalf("Failed to write frame: %v", err)
	}
}

// summarize prints triangle counts, areas and bounds of both text surfaces
func summarize(w io.Writer, ts *scene.TextSurfaces) {
	fmt.Fprintf(w, "Font: %s\n", ts.Font)
	for i, surface := range ts.Meshes {
		b := surface.Bounds()
		fmt.Fprintf(w, "%q: %d triangles, area %.4f, bounds (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
			ts.Words[i], surface.Len(), surface.Area(),
			b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	}
}

type frame struct {
	Mix    float32      `json:"mix"`
	Count  int          `json:"count"`
	Points [][3]float32 `json:"points"`
}

// writeFrame writes the CPU-interpolated point cloud at mix factor t
func writeFrame(w io.Writer, m *core.MorphBuffer, t float32, format string) error {
	points := m.Interpolate(t)

	switch format {
	case "json":
		f := frame{Mix: t, Count: len(points), Points: make([][3]float32, len(points))}
		for i, p := range points {
			f.Points[i] = p
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"x", "y", "z"}); err != nil {
			return err
		}
		for _, p := range points {
			row := []string{
				strconv.FormatFloat(float64(p[0]), 'f', -1, 32),
				strconv.FormatFloat(float64(p[1]), 'f', -1, 32),
				strconv.FormatFloat(float64(p[2]), 'f', -1, 32),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
