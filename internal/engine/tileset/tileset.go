// Package tileset provides the runtime tileset: a GPU texture sliced into
// fixed-size tiles, looked up by tile index.
package tileset

import (
	"errors"
	"fmt"
	"image"

	"github.com/SephDB/aseforge/internal/engine/gpu"
	"github.com/SephDB/aseforge/pkg/content"
)

// ErrTileOutOfRange is returned for tile indices outside the tileset.
var ErrTileOutOfRange = errors.New("tile index out of range")

// Tileset owns a texture holding TileCount tiles of TileWidth x TileHeight
// pixels, stacked vertically in tile order. Tilesets are shared by
// reference between tilemap layers; ownership belongs to the tilemap arena
// that created them.
type Tileset struct {
	ID         int
	Name       string
	TileCount  int
	TileWidth  int
	TileHeight int
	Texture    gpu.Texture
}

// Create uploads a raw tileset to the device. Deterministic: the same raw
// tileset always yields pixel-identical texture content. Device failures
// propagate unchanged. Zero tiles produce an empty texture.
func Create(dev gpu.Device, raw content.RawTileset) (*Tileset, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	tex, err := dev.CreateTexture(raw.TileWidth, raw.TileHeight*raw.TileCount, raw.Pixels)
	if err != nil {
		return nil, fmt.Errorf("tileset %d: %w", raw.ID, err)
	}

	return &Tileset{
		ID:         raw.ID,
		Name:       raw.Name,
		TileCount:  raw.TileCount,
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		Texture:    tex,
	}, nil
}

// TileRect returns the texture region of the tile at index i.
func (t *Tileset) TileRect(i int) (image.Rectangle, error) {
	if i < 0 || i >= t.TileCount {
		return image.Rectangle{}, fmt.Errorf("%w: %d (tileset %d has %d tiles)", ErrTileOutOfRange, i, t.ID, t.TileCount)
	}
	y := i * t.TileHeight
	return image.Rect(0, y, t.TileWidth, y+t.TileHeight), nil
}

// Dispose releases the backing texture.
func (t *Tileset) Dispose() {
	if t.Texture != nil {
		t.Texture.Dispose()
		t.Texture = nil
	}
}
