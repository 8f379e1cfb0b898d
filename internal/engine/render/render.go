// Package render draws materialized tilemaps and sprite sheets with OpenGL.
package render

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/SephDB/aseforge/internal/engine/gpu"
	"github.com/SephDB/aseforge/internal/engine/render/shaders"
	"github.com/SephDB/aseforge/internal/engine/shader"
	"github.com/SephDB/aseforge/pkg/math"
)

// QuadRenderer draws textured quads in pixel space. One shared unit quad
// is positioned and sized per draw through uniforms.
type QuadRenderer struct {
	program uint32

	// Uniform locations
	locProjection int32
	locPos        int32
	locSize       int32
	locUVRect     int32
	locDiagonal   int32
	locTexture    int32

	vao uint32
	vbo uint32
}

// NewQuadRenderer compiles the quad shader and uploads the shared quad mesh.
// Requires a current OpenGL context.
func NewQuadRenderer() (*QuadRenderer, error) {
	r := &QuadRenderer{}

	program, err := shader.CompileProgram(shaders.QuadVertexShader, shaders.QuadFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("quad shader: %w", err)
	}
	r.program = program

	r.locProjection = shader.GetUniform(program, "uProjection")
	r.locPos = shader.GetUniform(program, "uPos")
	r.locSize = shader.GetUniform(program, "uSize")
	r.locUVRect = shader.GetUniform(program, "uUVRect")
	r.locDiagonal = shader.GetUniform(program, "uDiagonal")
	r.locTexture = shader.GetUniform(program, "uTexture")

	r.createQuad()

	return r, nil
}

func (r *QuadRenderer) createQuad() {
	// Unit quad with matching texcoords; the shader scales and places it
	vertices := []float32{
		// Position (XY), TexCoord (UV)
		0, 0, 0, 0, // Top-left
		1, 0, 1, 0, // Top-right
		1, 1, 1, 1, // Bottom-right
		0, 0, 0, 0, // Top-left
		1, 1, 1, 1, // Bottom-right
		0, 1, 0, 1, // Bottom-left
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)

	// TexCoord attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// Begin prepares a frame: pixel-space projection with the origin at the
// top-left, alpha blending on. Zoom scales the visible world area; 1 maps
// one world unit to one framebuffer pixel.
func (r *QuadRenderer) Begin(width, height int, zoom float32) {
	gl.Viewport(0, 0, int32(width), int32(height))

	gl.UseProgram(r.program)

	if zoom <= 0 {
		zoom = 1
	}
	proj := math.Ortho(0, float32(width)/zoom, float32(height)/zoom, 0, -1, 1)
	gl.UniformMatrix4fv(r.locProjection, 1, false, proj.Ptr())

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.locTexture, 0)
}

// End finishes a frame.
func (r *QuadRenderer) End() {
	gl.BindVertexArray(0)
}

// DrawRegion draws the src region of tex at pos, stretched to size.
// FlipX and flipY mirror the region; diagonal swaps its axes, which
// together with the mirrors expresses 90-degree tile rotations.
func (r *QuadRenderer) DrawRegion(tex gpu.Texture, src image.Rectangle, pos, size math.Vec2, flipX, flipY, diagonal bool) {
	glTex, ok := tex.(interface{ ID() uint32 })
	if !ok {
		return
	}

	texW, texH := tex.Size()
	if texW == 0 || texH == 0 {
		return
	}

	u0 := float32(src.Min.X) / float32(texW)
	v0 := float32(src.Min.Y) / float32(texH)
	uw := float32(src.Dx()) / float32(texW)
	vh := float32(src.Dy()) / float32(texH)

	if flipX {
		u0 += uw
		uw = -uw
	}
	if flipY {
		v0 += vh
		vh = -vh
	}

	gl.Uniform2f(r.locPos, pos.X, pos.Y)
	gl.Uniform2f(r.locSize, size.X, size.Y)
	gl.Uniform4f(r.locUVRect, u0, v0, uw, vh)
	if diagonal {
		gl.Uniform1i(r.locDiagonal, 1)
	} else {
		gl.Uniform1i(r.locDiagonal, 0)
	}

	gl.BindTexture(gl.TEXTURE_2D, glTex.ID())
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Destroy releases all resources.
func (r *QuadRenderer) Destroy() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
