package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"textmorph/config"
	"textmorph/core"
)

// Context holds everything a frame needs. It is owned by the render thread;
// callbacks and the loop read and write it from that thread only.
type Context struct {
	Camera     *Camera
	Page       *Page
	Background mgl32.Vec3

	PointSize  float32
	DiscRadius float32
	PointColor mgl32.Vec4

	ShowHelpers bool

	morph *core.MorphBuffer
	mix   float32
}

// NewContext builds a context from settings for a width x height viewport
func NewContext(s config.Settings, width, height int) *Context {
	return &Context{
		Camera:      NewCamera(s.Camera.FOV, s.Camera.Near, s.Camera.Far, s.Camera.Z, width, height),
		Page:        NewPage(s.Page.Screens, height),
		Background:  mgl32.Vec3(s.Background),
		PointSize:   s.Points.Size,
		DiscRadius:  s.Points.DiscRadius,
		PointColor:  mgl32.Vec4(s.Points.Color),
		ShowHelpers: s.ShowHelpers,
	}
}

// Ready reports whether the point cloud has been built
func (c *Context) Ready() bool {
	return c.morph != nil
}

// Morph returns the point cloud, or nil while it is still loading
func (c *Context) Morph() *core.MorphBuffer {
	return c.morph
}

// SetMorph installs the point cloud and picks up the current scroll position
func (c *Context) SetMorph(m *core.MorphBuffer) {
	c.morph = m
	if m != nil {
		c.mix = c.Page.Metrics().MixFactor()
	}
}

// MixFactor returns the last value written
func (c *Context) MixFactor() float32 {
	return c.mix
}

// SetMixFactor overwrites the mix factor, unclamped and without easing.
// Updates that arrive before the point cloud exists are dropped and
// reported as false.
func (c *Context) SetMixFactor(v float32) bool {
	if !c.Ready() {
		return false
	}
	c.mix = v
	return true
}

// Resize updates the camera and the page for a new viewport
func (c *Context) Resize(width, height int) {
	c.Camera.Resize(width, height)
	c.Page.Resize(height)
	c.SetMixFactor(c.Page.Metrics().MixFactor())
}

// Scroll moves the page by dy pixels and recomputes the mix factor
func (c *Context) Scroll(dy float64) bool {
	c.Page.ScrollBy(dy)
	return c.SetMixFactor(c.Page.Metrics().MixFactor())
}

// ScrollTo jumps the page to top and recomputes the mix factor
func (c *Context) ScrollTo(top float64) bool {
	c.Page.ScrollTo(top)
	return c.SetMixFactor(c.Page.Metrics().MixFactor())
}

// ScrollHome jumps to the top of the page
func (c *Context) ScrollHome() bool {
	c.Page.Home()
	return c.SetMixFactor(c.Page.Metrics().MixFactor())
}

// ScrollEnd jumps to the bottom of the page
func (c *Context) ScrollEnd() bool {
	c.Page.End()
	return c.SetMixFactor(c.Page.Metrics().MixFactor())
}
