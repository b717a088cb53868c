package scene

import (
	"context"
	"fmt"
	"log"
	"time"

	"textmorph/core"
)

// Frame is the rendering side of the loop. Implementations own the window
// and the GPU resources and must be driven from one OS thread.
type Frame interface {
	PollEvents()
	Upload(m *core.MorphBuffer) error
	Render(c *Context) error
}

// Loop drives frames until Continue returns false or the context is done.
// All writes to the Context happen on the goroutine that calls Run.
type Loop struct {
	Scene *Context
	Frame Frame

	// Continue is checked before every frame; nil means run until cancelled
	Continue func() bool

	// Loaded delivers the point cloud once it is built
	Loaded <-chan LoadResult

	// Mix delivers mix factor updates from outside the window (remote scroll)
	Mix <-chan float32

	// Stats prints frames per second once a second
	Stats bool

	frames     int
	lastReport time.Time
}

// Run executes frames until stopped and returns the number rendered
func (l *Loop) Run(ctx context.Context) int {
	rendered := 0
	l.lastReport = time.Now()
	for {
		if ctx.Err() != nil {
			return rendered
		}
		if l.Continue != nil && !l.Continue() {
			return rendered
		}
		l.Tick()
		rendered++
	}
}

// Tick runs a single frame: events, pending updates, draw
func (l *Loop) Tick() {
	l.Frame.PollEvents()
	l.drain()

	if err := l.Frame.Render(l.Scene); err != nil {
		log.Printf("render failed: %v", err)
	}

	if l.Stats {
		l.report()
	}
}

func (l *Loop) drain() {
	select {
	case res, ok := <-l.Loaded:
		if ok {
			l.install(res)
		}
		// the loader closes after its single result
		l.Loaded = nil
	default:
	}

	for {
		select {
		case v, ok := <-l.Mix:
			if !ok {
				l.Mix = nil
				return
			}
			// dropped while the point cloud is still loading
			l.Scene.SetMixFactor(v)
		default:
			return
		}
	}
}

func (l *Loop) install(res LoadResult) {
	if res.Err != nil {
		// fatal to the point cloud only; the background keeps rendering
		log.Printf("text initialization failed: %v", res.Err)
		return
	}
	if err := l.Frame.Upload(res.Morph); err != nil {
		log.Printf("failed to upload point cloud: %v", err)
		return
	}
	l.Scene.SetMorph(res.Morph)
}

func (l *Loop) report() {
	l.frames++
	now := time.Now()
	if elapsed := now.Sub(l.lastReport).Seconds(); elapsed >= 1.0 {
		fps := float64(l.frames) / elapsed
		fmt.Printf("\rFPS: %.1f | Mix: %.3f", fps, l.Scene.MixFactor())
		l.frames = 0
		l.lastReport = now
	}
}
