package gldevice

import (
	"image"
	"image/draw"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/pkg/errors"

	"github.com/phanxgames/birch"
)

// quadVertices covers clip space as a triangle strip, matching the
// "position" attribute of the identity vertex shader.
var quadVertices = [...]float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// Quad draws a texture across the whole viewport with a linked program.
type Quad struct {
	vbo uint32
}

// NewQuad uploads the full-screen vertices.
func NewQuad() *Quad {
	q := &Quad{}
	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(&quadVertices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return q
}

// Draw activates prog and draws tex through it. prog must expose a vec2
// "position" attribute and a sampler2D "texture" uniform, like every
// birch.PostProcessor built on the identity vertex stage.
func (q *Quad) Draw(prog *birch.ShaderProgram, tex uint32) error {
	if err := prog.Activate(); err != nil {
		return err
	}
	id := uint32(prog.Handle())

	aPosition := gl.GetAttribLocation(id, gl.Str("position\x00"))
	if aPosition < 0 {
		return errors.New("gldevice: program has no position attribute")
	}
	uTexture := gl.GetUniformLocation(id, gl.Str("texture\x00"))

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(uTexture, 0)

	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.EnableVertexAttribArray(uint32(aPosition))
	gl.VertexAttribPointer(uint32(aPosition), 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, int32(len(quadVertices)/2))
	gl.DisableVertexAttribArray(uint32(aPosition))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Delete releases the vertex buffer.
func (q *Quad) Delete() {
	gl.DeleteBuffers(1, &q.vbo)
	q.vbo = 0
}

// toRGBA returns img as tightly packed RGBA with rows flipped bottom-up,
// the order glTexImage2D expects.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	row := make([]uint8, rgba.Stride)
	for y := 0; y < b.Dy()/2; y++ {
		top := rgba.Pix[y*rgba.Stride : (y+1)*rgba.Stride]
		bottom := rgba.Pix[(b.Dy()-1-y)*rgba.Stride : (b.Dy()-y)*rgba.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return rgba
}

// NewTexture uploads img as a linear-filtered 2D texture.
func NewTexture(img image.Image) uint32 {
	rgba := toRGBA(img)
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
