// Package processor converts the parsed Aseprite model into raw content
// records. All transforms are pure: they never touch a graphics device and
// never return partially populated results.
package processor

import (
	"github.com/SephDB/aseforge/pkg/aseprite"
	"github.com/SephDB/aseforge/pkg/content"
)

// ToRawTileset converts an Aseprite tileset into its raw content record.
// A tileset with zero tiles is legal and yields an empty pixel buffer. The
// returned record owns its pixel data.
func ToRawTileset(ts *aseprite.Tileset) content.RawTileset {
	pixels := make([]byte, len(ts.Pixels))
	copy(pixels, ts.Pixels)

	return content.RawTileset{
		ID:         ts.ID,
		Name:       ts.Name,
		TileCount:  ts.TileCount,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Pixels:     pixels,
	}
}
