// Package tilemap provides the runtime tilemap: named layers bound to
// shared tilesets, with per-cell placements resolved at materialize time.
package tilemap

import (
	"errors"
	"fmt"

	"github.com/SephDB/aseforge/internal/engine/gpu"
	"github.com/SephDB/aseforge/internal/engine/tileset"
	"github.com/SephDB/aseforge/pkg/content"
)

// Runtime tilemap errors.
var (
	ErrTilesetNotFound = errors.New("tilemap references unknown tileset id")
	ErrCellOutOfRange  = errors.New("cell coordinates out of range")
)

// Cell is one resolved tile placement: the source tile index, its
// flip/rotation flags and the precomputed pixel position.
type Cell struct {
	TileIndex int
	FlipX     bool
	FlipY     bool
	Rotation  int
	Position  content.PointF
}

// Layer is a named grid of cells referencing a shared tileset by id. The
// layer does not own the tileset; the tilemap's arena does.
type Layer struct {
	Name      string
	TilesetID int
	Columns   int
	Rows      int
	Offset    content.PointF
	Cells     []Cell
}

// CellAt returns the cell at the given grid coordinates.
func (l *Layer) CellAt(col, row int) (Cell, error) {
	if col < 0 || col >= l.Columns || row < 0 || row >= l.Rows {
		return Cell{}, fmt.Errorf("%w: (%d,%d) in %dx%d layer %q", ErrCellOutOfRange, col, row, l.Columns, l.Rows, l.Name)
	}
	return l.Cells[row*l.Columns+col], nil
}

// Tilemap owns its layers, in source order, and an arena of the tilesets
// they share. Layers resolve tilesets through the arena so texture lifetime
// is controlled in one place.
type Tilemap struct {
	Name   string
	Layers []*Layer

	tilesets map[int]*tileset.Tileset
}

// Tileset resolves a tileset id through the arena.
func (m *Tilemap) Tileset(id int) (*tileset.Tileset, error) {
	ts, ok := m.tilesets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTilesetNotFound, id)
	}
	return ts, nil
}

// Dispose releases every arena tileset exactly once. Layers hold no
// resources of their own.
func (m *Tilemap) Dispose() {
	for _, ts := range m.tilesets {
		ts.Dispose()
	}
	m.tilesets = nil
}

// Materialize builds a runtime tilemap from a raw one: one runtime tileset
// per raw tileset, then layers bound in order with cell positions computed
// from the layer offset and tile geometry. A layer referencing an id absent
// from the arena is an invariant violation: everything allocated so far is
// disposed and the whole call fails. No partial tilemap is ever returned.
func Materialize(dev gpu.Device, raw *content.RawTilemap) (*Tilemap, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	m := &Tilemap{
		Name:     raw.Name,
		tilesets: make(map[int]*tileset.Tileset, len(raw.Tilesets)),
	}

	for i := range raw.Tilesets {
		ts, err := tileset.Create(dev, raw.Tilesets[i])
		if err != nil {
			m.Dispose()
			return nil, err
		}
		m.tilesets[ts.ID] = ts
	}

	for i := range raw.Layers {
		layer, err := m.bindLayer(&raw.Layers[i])
		if err != nil {
			m.Dispose()
			return nil, err
		}
		m.Layers = append(m.Layers, layer)
	}

	return m, nil
}

// bindLayer resolves a raw layer against the arena and computes its cells.
func (m *Tilemap) bindLayer(raw *content.RawTilemapLayer) (*Layer, error) {
	ts, ok := m.tilesets[raw.TilesetID]
	if !ok {
		return nil, fmt.Errorf("%w: layer %q wants %d", ErrTilesetNotFound, raw.Name, raw.TilesetID)
	}

	layer := &Layer{
		Name:      raw.Name,
		TilesetID: raw.TilesetID,
		Columns:   raw.Columns,
		Rows:      raw.Rows,
		Offset:    raw.Offset,
		Cells:     make([]Cell, 0, len(raw.Tiles)),
	}

	for i, t := range raw.Tiles {
		col := i % raw.Columns
		row := i / raw.Columns
		layer.Cells = append(layer.Cells, Cell{
			TileIndex: t.TilesetTileID,
			FlipX:     t.FlipX,
			FlipY:     t.FlipY,
			Rotation:  t.Rotation,
			Position: content.PointF{
				X: raw.Offset.X + float32(col*ts.TileWidth),
				Y: raw.Offset.Y + float32(row*ts.TileHeight),
			},
		})
	}

	return layer, nil
}
