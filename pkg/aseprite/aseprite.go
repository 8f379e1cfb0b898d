// Package aseprite defines the in-memory model of a parsed Aseprite file.
// The binary .aseprite parser itself is an external collaborator; it is
// expected to fill these structures. This package only models what the
// processors consume.
package aseprite

import (
	"errors"
	"fmt"
)

// Model errors.
var (
	ErrFrameOutOfRange = errors.New("frame index out of range")
	ErrTilesetNotFound = errors.New("tileset not found")
)

// Tile bit layout inside a tilemap cel, per the Aseprite file spec.
// The tile ID occupies the low 29 bits; the high bits carry flips.
const (
	TileIDMask      = 0x1fffffff
	TileXFlipBit    = 0x80000000
	TileYFlipBit    = 0x40000000
	TileDiagonalBit = 0x20000000
)

// Tile is a single tile reference inside a tilemap cel. Flip bits and the
// rotation value are kept exactly as the editor wrote them; any non-zero
// flip bit means flipped.
type Tile struct {
	TilesetTileID int
	XFlip         uint32
	YFlip         uint32
	Rotation      int
}

// TileFromPacked unpacks a 32-bit tile value as stored in a tilemap cel.
func TileFromPacked(v uint32) Tile {
	return Tile{
		TilesetTileID: int(v & TileIDMask),
		XFlip:         (v & TileXFlipBit) >> 31,
		YFlip:         (v & TileYFlipBit) >> 30,
		Rotation:      int((v & TileDiagonalBit) >> 29),
	}
}

// Layer is a layer definition shared by the cels that belong to it.
type Layer struct {
	Name    string
	Visible bool
}

// CelKind discriminates cel payloads.
type CelKind int

// Cel payload kinds.
const (
	CelImage CelKind = iota
	CelTilemap
)

// Cel is one layer's content within a single frame.
type Cel struct {
	Layer *Layer
	Kind  CelKind

	// Position of the cel on the canvas, in pixels.
	X, Y int

	// Tilemap cels only.
	TilesetID int
	Columns   int
	Rows      int
	Tiles     []Tile

	// Image cels only: RGBA pixel data, 4 bytes per pixel.
	Width  int
	Height int
	Pixels []byte
}

// IsTilemap reports whether the cel carries tilemap data.
func (c *Cel) IsTilemap() bool {
	return c.Kind == CelTilemap
}

// LayerVisible reports whether the cel's owning layer is visible.
// A cel without a layer is treated as visible.
func (c *Cel) LayerVisible() bool {
	return c.Layer == nil || c.Layer.Visible
}

// Frame is a single animation frame with its cels in file order.
type Frame struct {
	DurationMS int
	Cels       []*Cel
}

// Tileset is an indexed collection of fixed-size tile images. Pixels holds
// all tiles stacked vertically (tile 0 first), RGBA, 4 bytes per pixel.
type Tileset struct {
	ID         int
	Name       string
	TileCount  int
	TileWidth  int
	TileHeight int
	Pixels     []byte
}

// LoopDirection is an animation tag's playback direction.
type LoopDirection int

// Tag loop directions, in file encoding order.
const (
	DirectionForward LoopDirection = iota
	DirectionReverse
	DirectionPingPong
	DirectionPingPongReverse
)

// Tag is a named animation over an inclusive frame range.
type Tag struct {
	Name      string
	From      int
	To        int
	Direction LoopDirection
	Repeat    int // 0 = play forever
}

// File is a fully parsed Aseprite file.
type File struct {
	Name     string
	Width    int
	Height   int
	Frames   []Frame
	Layers   []*Layer
	Tilesets []Tileset
	Tags     []Tag
}

// Frame returns the frame at index i.
func (f *File) Frame(i int) (*Frame, error) {
	if i < 0 || i >= len(f.Frames) {
		return nil, fmt.Errorf("%w: %d (file has %d frames)", ErrFrameOutOfRange, i, len(f.Frames))
	}
	return &f.Frames[i], nil
}

// TilesetByID returns the tileset with the given id.
func (f *File) TilesetByID(id int) (*Tileset, error) {
	for i := range f.Tilesets {
		if f.Tilesets[i].ID == id {
			return &f.Tilesets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrTilesetNotFound, id)
}
