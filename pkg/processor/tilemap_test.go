package processor

import (
	"errors"
	"testing"

	"github.com/SephDB/aseforge/pkg/aseprite"
	"github.com/SephDB/aseforge/pkg/content"
)

// buildTilemapFile returns a file with three frames. Frame 2 carries a
// visible tilemap cel, a hidden one and an image cel, all over one tileset.
func buildTilemapFile() *aseprite.File {
	ground := &aseprite.Layer{Name: "Ground", Visible: true}
	hidden := &aseprite.Layer{Name: "Hidden", Visible: false}
	art := &aseprite.Layer{Name: "Art", Visible: true}

	celFor := func(layer *aseprite.Layer, cols, rows int) *aseprite.Cel {
		tiles := make([]aseprite.Tile, cols*rows)
		for i := range tiles {
			tiles[i] = aseprite.Tile{TilesetTileID: i % 4}
		}
		return &aseprite.Cel{
			Layer:   layer,
			Kind:    aseprite.CelTilemap,
			Columns: cols,
			Rows:    rows,
			Tiles:   tiles,
		}
	}

	return &aseprite.File{
		Name:   "level1",
		Width:  64,
		Height: 64,
		Layers: []*aseprite.Layer{ground, hidden, art},
		Tilesets: []aseprite.Tileset{
			{ID: 0, Name: "terrain", TileCount: 4, TileWidth: 8, TileHeight: 8, Pixels: make([]byte, 4*8*8*4)},
		},
		Frames: []aseprite.Frame{
			{DurationMS: 100},
			{DurationMS: 100},
			{DurationMS: 100, Cels: []*aseprite.Cel{
				celFor(ground, 4, 4),
				celFor(hidden, 4, 4),
				{Layer: art, Kind: aseprite.CelImage, Width: 8, Height: 8, Pixels: make([]byte, 8*8*4)},
			}},
		},
	}
}

func TestBuildRawTilemapFiltersHiddenLayers(t *testing.T) {
	file := buildTilemapFile()

	m, err := BuildRawTilemap(file, TilemapOptions{FrameIndex: 2, OnlyVisibleLayers: true})
	if err != nil {
		t.Fatalf("BuildRawTilemap failed: %v", err)
	}

	if m.Name != "level1" {
		t.Errorf("expected name 'level1', got %q", m.Name)
	}
	if len(m.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(m.Layers))
	}
	if m.Layers[0].Name != "Ground" {
		t.Errorf("expected layer 'Ground', got %q", m.Layers[0].Name)
	}
	if len(m.Tilesets) != 1 {
		t.Errorf("expected 1 tileset, got %d", len(m.Tilesets))
	}
	if err := m.Validate(); err != nil {
		t.Errorf("result should satisfy its invariants: %v", err)
	}
}

func TestBuildRawTilemapIncludesHiddenWhenAsked(t *testing.T) {
	file := buildTilemapFile()

	m, err := BuildRawTilemap(file, TilemapOptions{FrameIndex: 2, OnlyVisibleLayers: false})
	if err != nil {
		t.Fatalf("BuildRawTilemap failed: %v", err)
	}

	// The image cel is still skipped; only tile payloads survive
	if len(m.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(m.Layers))
	}
	if m.Layers[0].Name != "Ground" || m.Layers[1].Name != "Hidden" {
		t.Errorf("layer order should match cel order, got %q, %q", m.Layers[0].Name, m.Layers[1].Name)
	}
}

func TestBuildRawTilemapFrameOutOfRange(t *testing.T) {
	file := buildTilemapFile()

	for _, idx := range []int{-1, 3} {
		_, err := BuildRawTilemap(file, TilemapOptions{FrameIndex: idx, OnlyVisibleLayers: true})
		if !errors.Is(err, aseprite.ErrFrameOutOfRange) {
			t.Errorf("frame %d: expected ErrFrameOutOfRange, got %v", idx, err)
		}
	}
}

func TestBuildRawTilemapUnknownTileset(t *testing.T) {
	file := buildTilemapFile()
	file.Frames[2].Cels[0].TilesetID = 42

	_, err := BuildRawTilemap(file, TilemapOptions{FrameIndex: 2, OnlyVisibleLayers: true})
	if !errors.Is(err, aseprite.ErrTilesetNotFound) {
		t.Errorf("expected ErrTilesetNotFound, got %v", err)
	}
}

func TestBuildRawTilemapDedupesSharedTilesets(t *testing.T) {
	file := buildTilemapFile()

	second := &aseprite.Layer{Name: "Overlay", Visible: true}
	file.Tilesets = append(file.Tilesets, aseprite.Tileset{
		ID: 1, Name: "props", TileCount: 2, TileWidth: 8, TileHeight: 8, Pixels: make([]byte, 2*8*8*4),
	})
	// Two more layers: one sharing tileset 0, one on tileset 1
	file.Frames[2].Cels = append(file.Frames[2].Cels,
		&aseprite.Cel{Layer: second, Kind: aseprite.CelTilemap, Columns: 1, Rows: 1, Tiles: make([]aseprite.Tile, 1)},
		&aseprite.Cel{Layer: second, Kind: aseprite.CelTilemap, TilesetID: 1, Columns: 1, Rows: 1, Tiles: make([]aseprite.Tile, 1)},
	)

	m, err := BuildRawTilemap(file, TilemapOptions{FrameIndex: 2, OnlyVisibleLayers: true})
	if err != nil {
		t.Fatalf("BuildRawTilemap failed: %v", err)
	}

	if len(m.Layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(m.Layers))
	}
	if len(m.Tilesets) != 2 {
		t.Fatalf("expected 2 deduplicated tilesets, got %d", len(m.Tilesets))
	}
	// First-seen order
	if m.Tilesets[0].ID != 0 || m.Tilesets[1].ID != 1 {
		t.Errorf("tileset order: got ids %d, %d", m.Tilesets[0].ID, m.Tilesets[1].ID)
	}
}

func TestBuildRawTilemapTileConversion(t *testing.T) {
	layer := &aseprite.Layer{Name: "Ground", Visible: true}
	file := &aseprite.File{
		Name: "flips",
		Tilesets: []aseprite.Tileset{
			{ID: 0, TileCount: 8, TileWidth: 8, TileHeight: 8, Pixels: make([]byte, 8*8*8*4)},
		},
		Frames: []aseprite.Frame{
			{Cels: []*aseprite.Cel{{
				Layer:   layer,
				Kind:    aseprite.CelTilemap,
				X:       24,
				Y:       -8,
				Columns: 2,
				Rows:    2,
				Tiles: []aseprite.Tile{
					{TilesetTileID: 1},
					{TilesetTileID: 2, XFlip: 1},
					{TilesetTileID: 3, YFlip: 1},
					{TilesetTileID: 4, XFlip: 1, YFlip: 1, Rotation: 1},
				},
			}}},
		},
	}

	m, err := BuildRawTilemap(file, DefaultTilemapOptions())
	if err != nil {
		t.Fatalf("BuildRawTilemap failed: %v", err)
	}

	l := m.Layers[0]
	if l.Offset != (content.PointF{X: 24, Y: -8}) {
		t.Errorf("expected offset (24, -8), got %v", l.Offset)
	}

	want := []content.RawTile{
		{TilesetTileID: 1},
		{TilesetTileID: 2, FlipX: true},
		{TilesetTileID: 3, FlipY: true},
		{TilesetTileID: 4, FlipX: true, FlipY: true, Rotation: 1},
	}
	for i, tile := range want {
		if l.Tiles[i] != tile {
			t.Errorf("tile %d: got %+v, want %+v", i, l.Tiles[i], tile)
		}
	}
}

func TestToRawTilesetOwnsPixels(t *testing.T) {
	src := aseprite.Tileset{
		ID: 3, Name: "terrain", TileCount: 1, TileWidth: 2, TileHeight: 2,
		Pixels: make([]byte, 1*2*2*4),
	}
	src.Pixels[0] = 7

	raw := ToRawTileset(&src)
	src.Pixels[0] = 99

	if raw.Pixels[0] != 7 {
		t.Error("converted tileset should own its pixel buffer")
	}
	if raw.ID != 3 || raw.Name != "terrain" || raw.TileCount != 1 {
		t.Errorf("field mismatch: %+v", raw)
	}
	if err := raw.Validate(); err != nil {
		t.Errorf("converted tileset should be valid: %v", err)
	}
}

func TestToRawTilesetEmpty(t *testing.T) {
	raw := ToRawTileset(&aseprite.Tileset{ID: 1, TileWidth: 8, TileHeight: 8})

	if raw.TileCount != 0 || len(raw.Pixels) != 0 {
		t.Errorf("expected empty tileset, got %+v", raw)
	}
	if err := raw.Validate(); err != nil {
		t.Errorf("empty tileset should be valid: %v", err)
	}
}
