package opengl

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"textmorph/config"
	"textmorph/core"
	"textmorph/rendering/opengl/shaders"
	"textmorph/scene"
)

var errNoWindow = errors.New("window already destroyed")

// PointRenderer draws the morphing point cloud into a glfw window
type PointRenderer struct {
	window *glfw.Window
	scene  *scene.Context

	// Shader programs
	pointProgram uint32
	lineProgram  uint32

	// Interleaved position/secPosition buffer
	pointVAO   uint32
	pointVBO   uint32
	pointCount int32

	axes *lineMesh
	grid *lineMesh

	// Pixels scrolled per wheel notch or arrow key
	scrollStep float64
}

// NewPointRenderer opens the window, creates the GL context and compiles the
// shaders. It must be called from the thread that will run the loop.
func NewPointRenderer(c *scene.Context, ws config.WindowSettings, scrollStep float64) (*PointRenderer, error) {
	runtime.LockOSThread()

	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// Configure OpenGL context
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(ws.Width, ws.Height, ws.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if ws.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Println("OpenGL version:", version)

	r := &PointRenderer{
		window:     window,
		scene:      c,
		scrollStep: scrollStep,
	}

	// Setup OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.pointProgram, err = shaders.CompilePointShaders()
	if err != nil {
		r.Terminate()
		return nil, fmt.Errorf("failed to compile point shaders: %v", err)
	}

	// Helpers are optional; the points render without them
	r.lineProgram, err = shaders.CompileLineShaders()
	if err != nil {
		fmt.Printf("Warning: failed to compile helper shaders: %v\n", err)
	} else {
		r.axes = newLineMesh(axesVertices(5))
		r.grid = newLineMesh(gridVertices(10, 10))
	}

	gl.GenVertexArrays(1, &r.pointVAO)
	gl.GenBuffers(1, &r.pointVBO)

	// The scroll page follows the window size; the viewport follows the
	// framebuffer, which differs on high-DPI displays.
	fbw, fbh := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	w, h := window.GetSize()
	c.Resize(w, h)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})

	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		r.scene.Resize(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		// Wheel up scrolls the document up
		r.scene.Scroll(-yoff * r.scrollStep)
	})

	return r, nil
}

func (r *PointRenderer) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	page := r.scene.Page.ClientHeight()
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
	case glfw.KeyHome:
		r.scene.ScrollHome()
	case glfw.KeyEnd:
		r.scene.ScrollEnd()
	case glfw.KeyPageDown, glfw.KeySpace:
		r.scene.Scroll(page)
	case glfw.KeyPageUp:
		r.scene.Scroll(-page)
	case glfw.KeyDown:
		r.scene.Scroll(r.scrollStep)
	case glfw.KeyUp:
		r.scene.Scroll(-r.scrollStep)
	case glfw.KeyH:
		if action == glfw.Press {
			r.scene.ShowHelpers = !r.scene.ShowHelpers
		}
	}
}

// Upload copies both point sets into one interleaved vertex buffer.
// Attribute 0 reads the first endpoint and attribute 1 the second.
func (r *PointRenderer) Upload(m *core.MorphBuffer) error {
	if r.window == nil {
		return errNoWindow
	}
	data := m.Interleaved()

	gl.BindVertexArray(r.pointVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	gl.VertexAttribPointer(shaders.PositionLocation, 3, gl.FLOAT, false, core.MorphStrideBytes, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shaders.PositionLocation)
	gl.VertexAttribPointer(shaders.SecPositionLocation, 3, gl.FLOAT, false, core.MorphStrideBytes, gl.PtrOffset(core.MorphSecondOffset))
	gl.EnableVertexAttribArray(shaders.SecPositionLocation)

	gl.BindVertexArray(0)
	r.pointCount = int32(m.Len())

	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error after upload: 0x%x", err)
	}
	fmt.Printf("Uploaded %d points (%d bytes)\n", m.Len(), len(data)*4)
	return nil
}

// Render draws one frame: background, helpers, then the points
func (r *PointRenderer) Render(c *scene.Context) error {
	if r.window == nil {
		return errNoWindow
	}

	bg := c.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := c.Camera.Projection()
	view := c.Camera.View()

	if c.ShowHelpers && r.lineProgram != 0 {
		gl.UseProgram(r.lineProgram)
		setMatrices(r.lineProgram, view, projection)
		r.axes.draw()
		r.grid.draw()
	}

	if c.Ready() && r.pointCount > 0 {
		program := r.pointProgram
		gl.UseProgram(program)
		setMatrices(program, view, projection)
		gl.Uniform1f(gl.GetUniformLocation(program, gl.Str("mixFactor\x00")), c.MixFactor())
		gl.Uniform1f(gl.GetUniformLocation(program, gl.Str("pointSize\x00")), c.PointSize)
		gl.Uniform1f(gl.GetUniformLocation(program, gl.Str("discRadius\x00")), c.DiscRadius)
		gl.Uniform4fv(gl.GetUniformLocation(program, gl.Str("pointColor\x00")), 1, &c.PointColor[0])

		gl.BindVertexArray(r.pointVAO)
		gl.DrawArrays(gl.POINTS, 0, r.pointCount)
	}
	gl.BindVertexArray(0)

	r.window.SwapBuffers()

	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error after draw: 0x%x", err)
	}
	return nil
}

func setMatrices(program uint32, view, projection mgl32.Mat4) {
	gl.UniformMatrix4fv(gl.GetUniformLocation(program, gl.Str("modelViewMatrix\x00")), 1, false, &view[0])
	gl.UniformMatrix4fv(gl.GetUniformLocation(program, gl.Str("projectionMatrix\x00")), 1, false, &projection[0])
}

// ShouldClose reports whether the user asked to close the window
func (r *PointRenderer) ShouldClose() bool {
	return r.window == nil || r.window.ShouldClose()
}

// PollEvents processes window events
func (r *PointRenderer) PollEvents() {
	glfw.PollEvents()
}

// Terminate cleans up OpenGL resources
func (r *PointRenderer) Terminate() {
	if r.window == nil {
		return
	}
	if r.axes != nil {
		r.axes.release()
		r.grid.release()
	}
	if r.pointVBO != 0 {
		gl.DeleteBuffers(1, &r.pointVBO)
		gl.DeleteVertexArrays(1, &r.pointVAO)
	}
	if r.pointProgram != 0 {
		gl.DeleteProgram(r.pointProgram)
	}
	if r.lineProgram != 0 {
		gl.DeleteProgram(r.lineProgram)
	}
	r.window.Destroy()
	r.window = nil
	glfw.Terminate()
}
