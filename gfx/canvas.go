package gfx

import (
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Fullscreen quad as two triangles: x, y, u, v.
// Texture row 0 is the top of the image, so v is flipped.
var quadVertices = []float32{
	-1, 1, 0, 0,
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, -1, 1, 1,
	1, 1, 1, 0,
}

// Viewport defines a window region in pixels, with the origin at the
// top-left corner of the window.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// CanvasView displays an RGBA image inside a region of the window.
type CanvasView struct {
	shader      uint32
	vao         uint32
	vbo         uint32
	texture     uint32
	initialized bool
}

// NewCanvasView creates a new, uninitialized view.
func NewCanvasView() *CanvasView {
	return &CanvasView{}
}

// Startup initializes GL resources.
func (v *CanvasView) Startup() error {
	var err error

	v.shader, err = compileProgram(canvasVertex, canvasFragment)
	if err != nil {
		return errors.Wrapf(err, "failed to build canvas program")
	}

	gl.UseProgram(v.shader)
	gl.Uniform1i(gl.GetUniformLocation(v.shader, glStr("canvas")), 0)

	gl.GenVertexArrays(1, &v.vao)
	gl.BindVertexArray(v.vao)

	gl.GenBuffers(1, &v.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(v.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(v.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))

	v.texture = makeTexture()
	v.initialized = true
	return nil
}

// Shutdown releases GL resources.
func (v *CanvasView) Shutdown() error {
	if !v.initialized {
		return nil
	}
	v.initialized = false
	gl.DeleteTextures(1, &v.texture)
	gl.DeleteBuffers(1, &v.vbo)
	gl.DeleteVertexArrays(1, &v.vao)
	gl.DeleteProgram(v.shader)
	return nil
}

// Upload replaces the displayed image.
func (v *CanvasView) Upload(img *image.RGBA) {
	if !v.initialized || img == nil {
		return
	}

	b := img.Bounds()
	if img.Stride != b.Dx()*4 {
		// Sub-images share the parent's stride; repack into a tight buffer.
		tight := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			copy(tight.Pix[y*tight.Stride:], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):][:b.Dx()*4])
		}
		img = tight
	}

	uploadTexture(v.texture, int32(b.Dx()), int32(b.Dy()), img.Pix)
}

// Draw renders the current image into vp of a window whose drawable
// height is windowHeight.
func (v *CanvasView) Draw(vp Viewport, windowHeight int) {
	if !v.initialized {
		return
	}

	// GL viewports are anchored at the bottom-left corner.
	gl.Viewport(int32(vp.X), int32(windowHeight-vp.Y-vp.Height), int32(vp.Width), int32(vp.Height))

	gl.UseProgram(v.shader)
	gl.BindVertexArray(v.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, v.texture)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}
