package content

import (
	"fmt"
	"io"
)

// tilemapMagic identifies a baked tilemap stream.
const tilemapMagic = "TM"

// RawTile is a single tile placement inside a raw tilemap layer. Flip flags
// and the rotation value are carried verbatim from the source file.
type RawTile struct {
	TilesetTileID int
	FlipX         bool
	FlipY         bool
	Rotation      int
}

// RawTilemapLayer is a grid of tile references bound to one tileset.
type RawTilemapLayer struct {
	Name      string
	TilesetID int
	Columns   int
	Rows      int
	Tiles     []RawTile
	Offset    PointF
}

// Validate checks the layer grid invariant.
func (l *RawTilemapLayer) Validate() error {
	if len(l.Tiles) != l.Columns*l.Rows {
		return fmt.Errorf("%w: layer %q has %d tiles, want %d (%dx%d)",
			ErrInvalidContent, l.Name, len(l.Tiles), l.Columns*l.Rows, l.Columns, l.Rows)
	}
	return nil
}

// RawTilemap is a fully converted tilemap: layers in source order plus the
// set of tilesets they reference, deduplicated by id.
type RawTilemap struct {
	Name     string
	Layers   []RawTilemapLayer
	Tilesets []RawTileset
}

// TilesetByID returns the raw tileset with the given id.
func (m *RawTilemap) TilesetByID(id int) (*RawTileset, bool) {
	for i := range m.Tilesets {
		if m.Tilesets[i].ID == id {
			return &m.Tilesets[i], true
		}
	}
	return nil, false
}

// Validate checks the tilemap invariants: every layer grid is complete,
// every referenced tileset id resolves, and the tileset set holds no
// duplicate ids.
func (m *RawTilemap) Validate() error {
	seen := make(map[int]bool, len(m.Tilesets))
	for i := range m.Tilesets {
		id := m.Tilesets[i].ID
		if seen[id] {
			return fmt.Errorf("%w: duplicate tileset id %d", ErrInvalidContent, id)
		}
		seen[id] = true
	}
	for i := range m.Layers {
		if err := m.Layers[i].Validate(); err != nil {
			return err
		}
		if !seen[m.Layers[i].TilesetID] {
			return fmt.Errorf("%w: layer %q references unknown tileset id %d",
				ErrInvalidContent, m.Layers[i].Name, m.Layers[i].TilesetID)
		}
	}
	return nil
}

// WriteTilemap bakes a raw tilemap to the binary content stream. The
// tilemap is validated first; an invalid tilemap writes nothing.
func WriteTilemap(w io.Writer, m *RawTilemap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := writeHeader(w, tilemapMagic); err != nil {
		return err
	}
	if err := writeString(w, m.Name); err != nil {
		return err
	}

	if err := writeInt(w, len(m.Tilesets)); err != nil {
		return err
	}
	for i := range m.Tilesets {
		if err := writeTilesetRecord(w, &m.Tilesets[i]); err != nil {
			return fmt.Errorf("writing tileset %d: %w", i, err)
		}
	}

	if err := writeInt(w, len(m.Layers)); err != nil {
		return err
	}
	for i := range m.Layers {
		if err := writeLayerRecord(w, &m.Layers[i]); err != nil {
			return fmt.Errorf("writing layer %d: %w", i, err)
		}
	}
	return nil
}

// ReadTilemap loads a raw tilemap from a baked content stream and verifies
// its invariants.
func ReadTilemap(r io.Reader) (*RawTilemap, error) {
	if err := readHeader(r, tilemapMagic); err != nil {
		return nil, err
	}

	m := &RawTilemap{}
	var err error
	if m.Name, err = readString(r); err != nil {
		return nil, err
	}

	tilesetCount, err := readCount(r, "tileset count")
	if err != nil {
		return nil, err
	}
	m.Tilesets = make([]RawTileset, 0, preallocCap(tilesetCount))
	for i := 0; i < tilesetCount; i++ {
		ts, err := readTilesetRecord(r)
		if err != nil {
			return nil, fmt.Errorf("reading tileset %d: %w", i, err)
		}
		m.Tilesets = append(m.Tilesets, ts)
	}

	layerCount, err := readCount(r, "layer count")
	if err != nil {
		return nil, err
	}
	m.Layers = make([]RawTilemapLayer, 0, preallocCap(layerCount))
	for i := 0; i < layerCount; i++ {
		layer, err := readLayerRecord(r)
		if err != nil {
			return nil, fmt.Errorf("reading layer %d: %w", i, err)
		}
		m.Layers = append(m.Layers, layer)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// writeLayerRecord writes one layer: name, tileset binding, grid geometry,
// offset, then one cell record per grid slot.
func writeLayerRecord(w io.Writer, l *RawTilemapLayer) error {
	if err := writeString(w, l.Name); err != nil {
		return err
	}
	if err := writeInt(w, l.TilesetID); err != nil {
		return err
	}
	if err := writeInt(w, l.Columns); err != nil {
		return err
	}
	if err := writeInt(w, l.Rows); err != nil {
		return err
	}
	if err := writePointF(w, l.Offset); err != nil {
		return err
	}
	for i := range l.Tiles {
		t := &l.Tiles[i]
		if err := writeInt(w, t.TilesetTileID); err != nil {
			return err
		}
		if err := writeBool(w, t.FlipX); err != nil {
			return err
		}
		if err := writeBool(w, t.FlipY); err != nil {
			return err
		}
		if err := writeInt(w, t.Rotation); err != nil {
			return err
		}
	}
	return nil
}

// readLayerRecord reads one layer record. The cell count is implied by the
// layer geometry.
func readLayerRecord(r io.Reader) (RawTilemapLayer, error) {
	var l RawTilemapLayer
	var err error
	if l.Name, err = readString(r); err != nil {
		return RawTilemapLayer{}, err
	}
	if l.TilesetID, err = readInt(r, "tileset id"); err != nil {
		return RawTilemapLayer{}, err
	}
	if l.Columns, err = readInt(r, "columns"); err != nil {
		return RawTilemapLayer{}, err
	}
	if l.Rows, err = readInt(r, "rows"); err != nil {
		return RawTilemapLayer{}, err
	}
	if l.Columns < 0 || l.Rows < 0 {
		return RawTilemapLayer{}, fmt.Errorf("%w: negative layer geometry %dx%d", ErrInvalidContent, l.Columns, l.Rows)
	}
	if l.Offset, err = readPointF(r, "offset"); err != nil {
		return RawTilemapLayer{}, err
	}

	l.Tiles = make([]RawTile, 0, preallocCap(l.Columns*l.Rows))
	for i := 0; i < l.Columns*l.Rows; i++ {
		var t RawTile
		if t.TilesetTileID, err = readInt(r, "tile id"); err != nil {
			return RawTilemapLayer{}, err
		}
		if t.FlipX, err = readBool(r, "flip x"); err != nil {
			return RawTilemapLayer{}, err
		}
		if t.FlipY, err = readBool(r, "flip y"); err != nil {
			return RawTilemapLayer{}, err
		}
		if t.Rotation, err = readInt(r, "rotation"); err != nil {
			return RawTilemapLayer{}, err
		}
		l.Tiles = append(l.Tiles, t)
	}
	return l, nil
}
