package gpu

import "fmt"

// MemDevice is an in-memory Device for tests and headless tooling: textures
// keep their pixels and record disposal instead of touching a GPU.
type MemDevice struct {
	// Err, when set, makes every CreateTexture call fail with it.
	Err error

	// Created tracks every texture handed out, in creation order.
	Created []*MemTexture
}

// NewMemDevice returns an empty in-memory device.
func NewMemDevice() *MemDevice {
	return &MemDevice{}
}

// CreateTexture retains a copy of the pixel buffer.
func (d *MemDevice) CreateTexture(width, height int, pixels []byte) (Texture, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelSize, len(pixels), width, height)
	}

	buf := make([]byte, len(pixels))
	copy(buf, pixels)
	t := &MemTexture{width: width, height: height, Pixels: buf}
	d.Created = append(d.Created, t)
	return t, nil
}

// MemTexture is a Texture that lives on the heap.
type MemTexture struct {
	width  int
	height int

	// Pixels is the retained upload, RGBA.
	Pixels []byte

	// Disposals counts Dispose calls.
	Disposals int
}

// Size returns the texture dimensions in pixels.
func (t *MemTexture) Size() (int, int) {
	return t.width, t.height
}

// Dispose records the disposal.
func (t *MemTexture) Dispose() {
	t.Disposals++
}
