package processor

import (
	"fmt"

	"github.com/SephDB/aseforge/pkg/aseprite"
	"github.com/SephDB/aseforge/pkg/content"
)

// TilemapOptions selects what BuildRawTilemap extracts. It is an immutable
// value: construct it with all fields named and pass it by value.
type TilemapOptions struct {
	// FrameIndex is the source frame to extract the tilemap from.
	FrameIndex int

	// OnlyVisibleLayers skips cels whose owning layer is hidden.
	OnlyVisibleLayers bool
}

// DefaultTilemapOptions extracts frame 0 with hidden layers skipped.
func DefaultTilemapOptions() TilemapOptions {
	return TilemapOptions{FrameIndex: 0, OnlyVisibleLayers: true}
}

// BuildRawTilemap converts one frame's tilemap cels into a raw tilemap.
// Cels are scanned in source order and kept when they carry tilemap data
// and their layer survives the visibility filter; surviving layer order
// matches source cel order. Each referenced tileset is resolved exactly
// once, first-seen-wins. The frame index is range checked and an
// unresolvable tileset id fails the whole call; no partial tilemap is ever
// returned.
func BuildRawTilemap(file *aseprite.File, opts TilemapOptions) (*content.RawTilemap, error) {
	frame, err := file.Frame(opts.FrameIndex)
	if err != nil {
		return nil, err
	}

	m := &content.RawTilemap{Name: file.Name}
	for _, cel := range frame.Cels {
		if !cel.IsTilemap() {
			continue
		}
		if opts.OnlyVisibleLayers && !cel.LayerVisible() {
			continue
		}
		m.Layers = append(m.Layers, rawLayer(cel))
	}

	seen := make(map[int]bool)
	for i := range m.Layers {
		id := m.Layers[i].TilesetID
		if seen[id] {
			continue
		}
		ts, err := file.TilesetByID(id)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", m.Layers[i].Name, err)
		}
		m.Tilesets = append(m.Tilesets, ToRawTileset(ts))
		seen[id] = true
	}

	return m, nil
}

// rawLayer converts one tilemap cel into a raw layer record. Source tile
// flip bits become booleans (non-zero = flipped) and the rotation value is
// copied verbatim, unvalidated, matching the editor's encoding.
func rawLayer(cel *aseprite.Cel) content.RawTilemapLayer {
	tiles := make([]content.RawTile, 0, len(cel.Tiles))
	for _, t := range cel.Tiles {
		tiles = append(tiles, content.RawTile{
			TilesetTileID: t.TilesetTileID,
			FlipX:         t.XFlip != 0,
			FlipY:         t.YFlip != 0,
			Rotation:      t.Rotation,
		})
	}

	name := ""
	if cel.Layer != nil {
		name = cel.Layer.Name
	}

	return content.RawTilemapLayer{
		Name:      name,
		TilesetID: cel.TilesetID,
		Columns:   cel.Columns,
		Rows:      cel.Rows,
		Tiles:     tiles,
		Offset:    content.PointF{X: float32(cel.X), Y: float32(cel.Y)},
	}
}
