package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Helper line vertices are interleaved: position (3 floats) then color (3 floats)
const helperStride = 6

var (
	gridCenterColor = mgl32.Vec3{0x44 / 255.0, 0x44 / 255.0, 0x44 / 255.0}
	gridLineColor   = mgl32.Vec3{0x88 / 255.0, 0x88 / 255.0, 0x88 / 255.0}
)

// axesVertices builds three lines from the origin along +x (red), +y (green)
// and +z (blue)
func axesVertices(size float32) []float32 {
	return []float32{
		0, 0, 0, 1, 0, 0, size, 0, 0, 1, 0, 0,
		0, 0, 0, 0, 1, 0, 0, size, 0, 0, 1, 0,
		0, 0, 0, 0, 0, 1, 0, 0, size, 0, 0, 1,
	}
}

// gridVertices builds a size x size grid on the XZ plane centered on the
// origin, with divisions cells per side. The two center lines are darker.
func gridVertices(size float32, divisions int) []float32 {
	if divisions <= 0 {
		return nil
	}
	step := size / float32(divisions)
	half := size / 2
	center := divisions / 2

	vertices := make([]float32, 0, (divisions+1)*4*helperStride)
	for i := 0; i <= divisions; i++ {
		k := -half + float32(i)*step
		color := gridLineColor
		if i == center && divisions%2 == 0 {
			color = gridCenterColor
		}
		vertices = append(vertices,
			-half, 0, k, color[0], color[1], color[2],
			half, 0, k, color[0], color[1], color[2],
			k, 0, -half, color[0], color[1], color[2],
			k, 0, half, color[0], color[1], color[2],
		)
	}
	return vertices
}

// lineMesh is a static VAO of GL_LINES
type lineMesh struct {
	vao, vbo uint32
	count    int32
}

func newLineMesh(vertices []float32) *lineMesh {
	m := &lineMesh{count: int32(len(vertices) / helperStride)}

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	stride := int32(helperStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

func (m *lineMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.LINES, 0, m.count)
}

func (m *lineMesh) release() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
}
