package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera on the +z axis looking at the origin
type Camera struct {
	FOV      float32 // vertical, degrees
	Aspect   float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
}

// NewCamera creates a camera for a width x height viewport
func NewCamera(fov, near, far, z float32, width, height int) *Camera {
	c := &Camera{
		FOV:      fov,
		Aspect:   1,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{0, 0, z},
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio. A zero-height (minimized) viewport keeps
// the previous aspect.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Projection returns the projection matrix
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// View returns the view matrix. The camera is not rotated, so this is a
// plain translation.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2])
}
