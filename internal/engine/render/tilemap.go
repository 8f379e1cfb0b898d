package render

import (
	"github.com/SephDB/aseforge/internal/engine/tilemap"
	"github.com/SephDB/aseforge/pkg/math"
)

// DrawTilemap draws every layer of a materialized tilemap in source order,
// so later layers paint over earlier ones. Tile index 0 is the empty tile
// and is skipped. Call between Begin and End.
func (r *QuadRenderer) DrawTilemap(m *tilemap.Tilemap, origin math.Vec2) error {
	for _, layer := range m.Layers {
		ts, err := m.Tileset(layer.TilesetID)
		if err != nil {
			return err
		}

		size := math.Vec2{X: float32(ts.TileWidth), Y: float32(ts.TileHeight)}

		for _, cell := range layer.Cells {
			if cell.TileIndex == 0 {
				continue
			}

			src, err := ts.TileRect(cell.TileIndex)
			if err != nil {
				return err
			}

			pos := math.Vec2{X: origin.X + cell.Position.X, Y: origin.Y + cell.Position.Y}
			r.DrawRegion(ts.Texture, src, pos, size, cell.FlipX, cell.FlipY, cell.Rotation != 0)
		}
	}
	return nil
}
