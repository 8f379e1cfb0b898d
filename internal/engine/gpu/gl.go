package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLDevice creates OpenGL textures. It requires a current GL context on the
// calling thread; context and window setup live in the window package.
type GLDevice struct{}

// NewGLDevice returns a device backed by the current OpenGL context.
func NewGLDevice() *GLDevice {
	return &GLDevice{}
}

// CreateTexture allocates a GL texture and uploads the pixel buffer with
// nearest filtering and clamp-to-edge wrapping, the settings pixel art
// wants.
func (d *GLDevice) CreateTexture(width, height int, pixels []byte) (Texture, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelSize, len(pixels), width, height)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	var data interface{}
	if len(pixels) > 0 {
		data = pixels
	}
	var ptr = gl.Ptr(data)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return nil, fmt.Errorf("%w: GL error 0x%04x", ErrTextureCreation, glErr)
	}

	return &GLTexture{id: id, width: width, height: height}, nil
}

// GLTexture is an OpenGL texture handle.
type GLTexture struct {
	id     uint32
	width  int
	height int
}

// ID returns the GL texture name for binding during rendering.
func (t *GLTexture) ID() uint32 {
	return t.id
}

// Size returns the texture dimensions in pixels.
func (t *GLTexture) Size() (int, int) {
	return t.width, t.height
}

// Dispose deletes the GL texture.
func (t *GLTexture) Dispose() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
