// Package gpu defines the graphics-device boundary used to materialize raw
// content into GPU-resident textures, plus the OpenGL implementation. The
// rest of the engine treats the device as an opaque capability.
package gpu

import "errors"

// Device errors.
var (
	ErrPixelSize       = errors.New("pixel buffer does not match texture size")
	ErrTextureCreation = errors.New("texture creation failed")
)

// Device allocates 2D textures and uploads pixel buffers. Implementations
// are synchronous: when CreateTexture returns, the texture is usable.
type Device interface {
	// CreateTexture allocates a width x height RGBA texture and uploads
	// pixels (4 bytes per pixel, row-major). An empty buffer with zero
	// area is legal and produces an empty texture.
	CreateTexture(width, height int, pixels []byte) (Texture, error)
}

// Texture is a device-owned 2D texture.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (width, height int)

	// Dispose releases the texture. Calling it twice is safe.
	Dispose()
}
