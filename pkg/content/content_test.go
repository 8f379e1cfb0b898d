package content

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/SephDB/aseforge/pkg/animation"
)

// buildTileset returns a valid tileset with recognizable pixel data.
func buildTileset(id, tileCount int) RawTileset {
	w, h := 8, 8
	pixels := make([]byte, tileCount*w*h*4)
	for i := range pixels {
		pixels[i] = byte(i % 251)
	}
	return RawTileset{
		ID:         id,
		Name:       "tiles",
		TileCount:  tileCount,
		TileWidth:  w,
		TileHeight: h,
		Pixels:     pixels,
	}
}

// buildTilemap returns a valid two-layer tilemap sharing one tileset.
func buildTilemap() *RawTilemap {
	tiles := func(n int) []RawTile {
		out := make([]RawTile, n)
		for i := range out {
			out[i] = RawTile{
				TilesetTileID: i % 4,
				FlipX:         i%2 == 0,
				FlipY:         i%3 == 0,
				Rotation:      i % 2,
			}
		}
		return out
	}

	return &RawTilemap{
		Name:     "level1",
		Tilesets: []RawTileset{buildTileset(0, 4)},
		Layers: []RawTilemapLayer{
			{Name: "ground", TilesetID: 0, Columns: 3, Rows: 2, Tiles: tiles(6)},
			{Name: "props", TilesetID: 0, Columns: 2, Rows: 2, Tiles: tiles(4), Offset: PointF{X: 16, Y: 8}},
		},
	}
}

func TestTilemapRoundTrip(t *testing.T) {
	m := buildTilemap()

	var buf bytes.Buffer
	if err := WriteTilemap(&buf, m); err != nil {
		t.Fatalf("WriteTilemap failed: %v", err)
	}

	got, err := ReadTilemap(&buf)
	if err != nil {
		t.Fatalf("ReadTilemap failed: %v", err)
	}

	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, m)
	}
}

func TestTilesetRoundTrip(t *testing.T) {
	ts := buildTileset(2, 3)

	var buf bytes.Buffer
	if err := WriteTileset(&buf, &ts); err != nil {
		t.Fatalf("WriteTileset failed: %v", err)
	}

	got, err := ReadTileset(&buf)
	if err != nil {
		t.Fatalf("ReadTileset failed: %v", err)
	}

	if !reflect.DeepEqual(*got, ts) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", *got, ts)
	}
}

func TestTilesetRoundTripEmpty(t *testing.T) {
	ts := RawTileset{ID: 1, Name: "empty", TileWidth: 8, TileHeight: 8}

	var buf bytes.Buffer
	if err := WriteTileset(&buf, &ts); err != nil {
		t.Fatalf("WriteTileset failed: %v", err)
	}

	got, err := ReadTileset(&buf)
	if err != nil {
		t.Fatalf("ReadTileset failed: %v", err)
	}
	if got.TileCount != 0 || len(got.Pixels) != 0 {
		t.Errorf("expected empty tileset, got %d tiles, %d pixel bytes", got.TileCount, len(got.Pixels))
	}
}

func TestSpriteSheetRoundTrip(t *testing.T) {
	s := &SpriteSheetContent{
		Name:          "player",
		TextureWidth:  32,
		TextureHeight: 16,
		Pixels:        make([]byte, 32*16*4),
		Regions: []FrameRegion{
			{X: 0, Y: 0, Width: 16, Height: 16, DurationMS: 100},
			{X: 16, Y: 0, Width: 16, Height: 16, DurationMS: 150},
		},
		Animations: []animation.Definition{
			{Name: "walk", FrameIndexes: []int{0, 1}, IsLooping: true},
			{Name: "spin", FrameIndexes: []int{1, 0}, IsPingPong: true, IsReversed: true},
		},
	}

	var buf bytes.Buffer
	if err := WriteSpriteSheet(&buf, s); err != nil {
		t.Fatalf("WriteSpriteSheet failed: %v", err)
	}

	got, err := ReadSpriteSheet(&buf)
	if err != nil {
		t.Fatalf("ReadSpriteSheet failed: %v", err)
	}

	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, s)
	}
}

func TestReadInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTileset(&buf, &RawTileset{Name: "x", TileWidth: 1, TileHeight: 1}); err != nil {
		t.Fatalf("WriteTileset failed: %v", err)
	}

	// A tileset stream is not a tilemap stream
	if _, err := ReadTilemap(&buf); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(tilemapMagic)
	binary.Write(&buf, binary.LittleEndian, uint16(99))

	if _, err := ReadTilemap(&buf); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTilemap(&buf, buildTilemap()); err != nil {
		t.Fatalf("WriteTilemap failed: %v", err)
	}
	full := buf.Bytes()

	// Every proper prefix must fail with a truncation error, never panic
	for _, cut := range []int{0, 1, 3, 10, len(full) / 2, len(full) - 1} {
		_, err := ReadTilemap(bytes.NewReader(full[:cut]))
		if !errors.Is(err, ErrTruncatedData) {
			t.Errorf("cut at %d: expected ErrTruncatedData, got %v", cut, err)
		}
	}
}

func TestReadNegativeCounts(t *testing.T) {
	sheetHead := func(buf *bytes.Buffer) {
		writeHeader(buf, spriteSheetMagic)
		writeString(buf, "s")
		writeInt(buf, 1)
		writeInt(buf, 1)
		writeBytes(buf, make([]byte, 4))
	}

	tests := []struct {
		name  string
		build func(*bytes.Buffer)
		read  func(*bytes.Buffer) error
	}{
		{
			name: "tilemap tileset count",
			build: func(buf *bytes.Buffer) {
				writeHeader(buf, tilemapMagic)
				writeString(buf, "m")
				writeInt(buf, -1)
			},
			read: func(buf *bytes.Buffer) error { _, err := ReadTilemap(buf); return err },
		},
		{
			name: "tilemap layer count",
			build: func(buf *bytes.Buffer) {
				writeHeader(buf, tilemapMagic)
				writeString(buf, "m")
				writeInt(buf, 1)
				ts := buildTileset(0, 1)
				writeTilesetRecord(buf, &ts)
				writeInt(buf, -5)
			},
			read: func(buf *bytes.Buffer) error { _, err := ReadTilemap(buf); return err },
		},
		{
			name: "layer geometry",
			build: func(buf *bytes.Buffer) {
				writeHeader(buf, tilemapMagic)
				writeString(buf, "m")
				writeInt(buf, 0)
				writeInt(buf, 1)
				writeString(buf, "l")
				writeInt(buf, 0)
				writeInt(buf, -4)
				writeInt(buf, 2)
			},
			read: func(buf *bytes.Buffer) error { _, err := ReadTilemap(buf); return err },
		},
		{
			name: "sheet region count",
			build: func(buf *bytes.Buffer) {
				sheetHead(buf)
				writeInt(buf, -1)
			},
			read: func(buf *bytes.Buffer) error { _, err := ReadSpriteSheet(buf); return err },
		},
		{
			name: "sheet animation count",
			build: func(buf *bytes.Buffer) {
				sheetHead(buf)
				writeInt(buf, 0)
				writeInt(buf, -2)
			},
			read: func(buf *bytes.Buffer) error { _, err := ReadSpriteSheet(buf); return err },
		},
		{
			name: "animation frame index count",
			build: func(buf *bytes.Buffer) {
				sheetHead(buf)
				writeInt(buf, 0)
				writeInt(buf, 1)
				writeString(buf, "walk")
				writeInt(buf, -3)
			},
			read: func(buf *bytes.Buffer) error { _, err := ReadSpriteSheet(buf); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.build(&buf)
			if err := tt.read(&buf); !errors.Is(err, ErrInvalidContent) {
				t.Errorf("expected ErrInvalidContent, got %v", err)
			}
		})
	}
}

func TestReadHugeCount(t *testing.T) {
	// An oversized count must fail on the missing data, not allocate up front
	var buf bytes.Buffer
	writeHeader(&buf, tilemapMagic)
	writeString(&buf, "m")
	writeInt(&buf, 1<<30)

	if _, err := ReadTilemap(&buf); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestTilemapValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawTilemap)
	}{
		{
			name: "incomplete layer grid",
			mutate: func(m *RawTilemap) {
				m.Layers[0].Tiles = m.Layers[0].Tiles[:3]
			},
		},
		{
			name: "unknown tileset reference",
			mutate: func(m *RawTilemap) {
				m.Layers[1].TilesetID = 42
			},
		},
		{
			name: "duplicate tileset id",
			mutate: func(m *RawTilemap) {
				m.Tilesets = append(m.Tilesets, buildTileset(0, 1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildTilemap()
			tt.mutate(m)

			if err := m.Validate(); !errors.Is(err, ErrInvalidContent) {
				t.Errorf("expected ErrInvalidContent, got %v", err)
			}

			// An invalid tilemap must not serialize
			var buf bytes.Buffer
			if err := WriteTilemap(&buf, m); err == nil {
				t.Error("WriteTilemap should reject an invalid tilemap")
			}
			if buf.Len() != 0 {
				t.Errorf("WriteTilemap wrote %d bytes for an invalid tilemap", buf.Len())
			}
		})
	}
}

func TestTilesetValidatePixelSize(t *testing.T) {
	ts := buildTileset(0, 2)
	ts.Pixels = ts.Pixels[:10]

	if err := ts.Validate(); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", err)
	}
}

func TestSpriteSheetValidate(t *testing.T) {
	s := &SpriteSheetContent{
		Name:          "bad",
		TextureWidth:  4,
		TextureHeight: 4,
		Pixels:        make([]byte, 4*4*4),
		Regions:       []FrameRegion{{Width: 4, Height: 4, DurationMS: 100}},
		Animations: []animation.Definition{
			{Name: "broken", FrameIndexes: []int{0, 9}},
		},
	}

	if err := s.Validate(); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", err)
	}
}

func TestTilemapTilesetByID(t *testing.T) {
	m := buildTilemap()

	ts, ok := m.TilesetByID(0)
	if !ok || ts.Name != "tiles" {
		t.Errorf("TilesetByID(0): got %v, %v", ts, ok)
	}
	if _, ok := m.TilesetByID(9); ok {
		t.Error("TilesetByID(9) should not resolve")
	}
}
