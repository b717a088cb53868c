package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"textmorph/config"
	"textmorph/rendering/opengl"
	"textmorph/scene"
	"textmorph/server"
)

func main() {
	runtime.LockOSThread()

	// Parse command line flags
	var (
		configPath = flag.String("config", "settings.json", "Settings file")
		points     = flag.Int("points", 0, "Points per word (0: use settings)")
		width      = flag.Int("width", 0, "Window width (0: use settings)")
		height     = flag.Int("height", 0, "Window height (0: use settings)")
		fontPath   = flag.String("font", "", "TrueType/OpenType font file (empty: use settings)")
		from       = flag.String("from", "", "First word (empty: use settings)")
		to         = flag.String("to", "", "Second word (empty: use settings)")
		serve      = flag.String("serve", "", "Start the scroll bridge on this address, e.g. :8000")
		seed       = flag.Uint64("seed", 0, "Sampler seed (0: use settings)")
		helpers    = flag.Bool("helpers", false, "Draw the axes and grid helpers")
		stats      = flag.Bool("stats", true, "Print FPS and mix factor once a second")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	applyFlags(&settings, flagOverrides{
		points: *points, width: *width, height: *height,
		fontPath: *fontPath, from: *from, to: *to,
		serve: *serve, seed: *seed, helpers: *helpers,
	})
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	fmt.Println("=== Text Morph ===")
	fmt.Printf("Words: %q -> %q\n", settings.Text.From, settings.Text.To)
	fmt.Printf("Points: %d\n", settings.Points.Count)
	fmt.Printf("Window: %dx%d\n", settings.Window.Width, settings.Window.Height)
	fmt.Println("Scroll or use Home/End/PageUp/PageDown to morph, H toggles helpers, Esc quits")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := scene.NewContext(settings, settings.Window.Width, settings.Window.Height)

	renderer, err := opengl.NewPointRenderer(sc, settings.Window, settings.Page.ScrollStep)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Terminate()

	loop := &scene.Loop{
		Scene:    sc,
		Frame:    renderer,
		Continue: func() bool { return !renderer.ShouldClose() },
		Stats:    *stats,
		Loaded: scene.Load(ctx, scene.MorphRequest{
			From:     settings.Text.From,
			To:       settings.Text.To,
			FontPath: settings.Text.FontPath,
			Options:  settings.Text.Geometry,
			Count:    settings.Points.Count,
			Seed:     settings.Seed,
		}),
	}

	if settings.Server.Enabled {
		bridge := server.New(settings.Server.Addr)
		loop.Mix = bridge.Updates()
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.Printf("Scroll bridge stopped: %v", err)
			}
		}()
	}

	frames := loop.Run(ctx)
	fmt.Printf("\nRendered %d frames\n", frames)
}

type flagOverrides struct {
	points, width, height int
	fontPath, from, to    string
	serve                 string
	seed                  uint64
	helpers               bool
}

// applyFlags overrides settings with the flags that were set
func applyFlags(s *config.Settings, f flagOverrides) {
	if f.points > 0 {
		s.Points.Count = f.points
	}
	if f.width > 0 {
		s.Window.Width = f.width
	}
	if f.height > 0 {
		s.Window.Height = f.height
	}
	if f.fontPath != "" {
		s.Text.FontPath = f.fontPath
	}
	if f.from != "" {
		s.Text.From = f.from
	}
	if f.to != "" {
		s.Text.To = f.to
	}
	if f.serve != "" {
		s.Server.Enabled = true
		s.Server.Addr = f.serve
	}
	if f.seed != 0 {
		s.Seed = f.seed
	}
	if f.helpers {
		s.ShowHelpers = true
	}
}
