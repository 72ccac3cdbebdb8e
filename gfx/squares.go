// Package gfx implements the OpenGL side of the demos: the square renderer
// and a view which displays a 2D canvas image inside a window.
//
// All functions must be called from the thread owning the current GL context.
package gfx

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/canvasdemo/scene"
)

// quadFloats is the number of floats in one quad: 4 vertices of (x, y).
const quadFloats = 8

// SquareRenderer draws every square of a scene as a colored triangle fan.
type SquareRenderer struct {
	size        float64 // Square width/height in pixels.
	shader      uint32
	vao         uint32
	vbo         uint32
	colorLoc    int32
	initialized bool
}

// NewSquareRenderer creates a renderer drawing squares of the given pixel size.
func NewSquareRenderer(size float64) *SquareRenderer {
	if size <= 0 {
		size = scene.DefaultSize
	}
	return &SquareRenderer{size: size}
}

// Startup compiles the shader program and allocates the vertex buffer.
// A shader compile or link failure is returned as a *ShaderError and
// leaves the renderer unusable.
func (r *SquareRenderer) Startup() error {
	var err error

	r.shader, err = compileProgram(squareVertex, squareFragment)
	if err != nil {
		return errors.Wrapf(err, "failed to build square program")
	}

	gl.UseProgram(r.shader)
	r.colorLoc = gl.GetUniformLocation(r.shader, glStr("color"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	// Sized for one quad up front; every draw overwrites it in place.
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, quadFloats*4, nil, gl.DYNAMIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(r.shader, glStr("vertPos")))
	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	r.initialized = true
	return nil
}

// Shutdown releases GL resources.
func (r *SquareRenderer) Shutdown() error {
	if !r.initialized {
		return nil
	}
	r.initialized = false
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.shader)
	return nil
}

// Draw clears the frame buffer and renders s onto a surface of the given
// dimensions. Later squares are drawn over earlier ones.
func (r *SquareRenderer) Draw(s *scene.Scene, width, height int) {
	gl.ClearColor(0, 0, 0, 1)
	gl.ClearDepth(1)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if !r.initialized || s == nil || width <= 0 || height <= 0 {
		return
	}

	gl.UseProgram(r.shader)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	w, h := float64(width), float64(height)

	s.Each(func(sq scene.Square) {
		quad := scene.Quad(sq, w, h, r.size)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, quadFloats*4, gl.Ptr(&quad[0]))
		gl.Uniform3f(r.colorLoc, sq.Color.R, sq.Color.G, sq.Color.B)
		gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	})
}
