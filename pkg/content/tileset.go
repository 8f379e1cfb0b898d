package content

import (
	"fmt"
	"io"
)

// tilesetMagic identifies a standalone baked tileset stream.
const tilesetMagic = "TS"

// RawTileset is a tileset's identity, tile geometry and pixel data. Pixels
// holds TileCount tiles stacked vertically, RGBA, 4 bytes per pixel. A
// tileset with zero tiles is legal and carries an empty pixel buffer.
type RawTileset struct {
	ID         int
	Name       string
	TileCount  int
	TileWidth  int
	TileHeight int
	Pixels     []byte
}

// Validate checks that the pixel buffer matches the tile geometry.
func (t *RawTileset) Validate() error {
	want := t.TileCount * t.TileWidth * t.TileHeight * 4
	if len(t.Pixels) != want {
		return fmt.Errorf("%w: tileset %d has %d pixel bytes, want %d",
			ErrInvalidContent, t.ID, len(t.Pixels), want)
	}
	return nil
}

// WriteTileset bakes a single tileset to its own content stream.
func WriteTileset(w io.Writer, t *RawTileset) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := writeHeader(w, tilesetMagic); err != nil {
		return err
	}
	return writeTilesetRecord(w, t)
}

// ReadTileset loads a standalone baked tileset.
func ReadTileset(r io.Reader) (*RawTileset, error) {
	if err := readHeader(r, tilesetMagic); err != nil {
		return nil, err
	}
	t, err := readTilesetRecord(r)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeTilesetRecord writes the tileset fields without a stream header, so
// the record can be embedded in tilemap streams.
func writeTilesetRecord(w io.Writer, t *RawTileset) error {
	if err := writeInt(w, t.ID); err != nil {
		return err
	}
	if err := writeString(w, t.Name); err != nil {
		return err
	}
	if err := writeInt(w, t.TileCount); err != nil {
		return err
	}
	if err := writeInt(w, t.TileWidth); err != nil {
		return err
	}
	if err := writeInt(w, t.TileHeight); err != nil {
		return err
	}
	return writeBytes(w, t.Pixels)
}

// readTilesetRecord reads a tileset record written by writeTilesetRecord.
func readTilesetRecord(r io.Reader) (RawTileset, error) {
	var t RawTileset
	var err error
	if t.ID, err = readInt(r, "tileset id"); err != nil {
		return RawTileset{}, err
	}
	if t.Name, err = readString(r); err != nil {
		return RawTileset{}, err
	}
	if t.TileCount, err = readInt(r, "tile count"); err != nil {
		return RawTileset{}, err
	}
	if t.TileWidth, err = readInt(r, "tile width"); err != nil {
		return RawTileset{}, err
	}
	if t.TileHeight, err = readInt(r, "tile height"); err != nil {
		return RawTileset{}, err
	}
	if t.Pixels, err = readBytes(r, "tileset pixels"); err != nil {
		return RawTileset{}, err
	}
	if err := t.Validate(); err != nil {
		return RawTileset{}, err
	}
	return t, nil
}
