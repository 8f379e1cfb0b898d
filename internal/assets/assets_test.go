package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SephDB/aseforge/pkg/content"
)

// bakeTileset writes a baked tileset into dir and returns its file name.
func bakeTileset(t *testing.T, dir, name string, id int) string {
	t.Helper()

	ts := content.RawTileset{
		ID:         id,
		Name:       name,
		TileCount:  1,
		TileWidth:  4,
		TileHeight: 4,
		Pixels:     make([]byte, 4*4*4),
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := content.WriteTileset(f, &ts); err != nil {
		t.Fatalf("failed to bake %s: %v", name, err)
	}
	return name
}

func TestStoreLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	name := bakeTileset(t, dir, "terrain.ts", 7)

	s := NewStore(dir)

	ts, err := s.Tileset(name)
	if err != nil {
		t.Fatalf("Tileset failed: %v", err)
	}
	if ts.ID != 7 {
		t.Errorf("expected id 7, got %d", ts.ID)
	}

	// Second load hits the cache and returns the same value
	again, err := s.Tileset(name)
	if err != nil {
		t.Fatalf("cached Tileset failed: %v", err)
	}
	if again != ts {
		t.Error("cached load should return the same decoded value")
	}

	hits, misses := s.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", hits, misses)
	}
}

func TestStoreNotFound(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Tileset("missing.ts"); err == nil {
		t.Error("expected error for missing content")
	}
}

func TestStoreRootPriority(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	bakeTileset(t, low, "terrain.ts", 1)
	bakeTileset(t, high, "terrain.ts", 2)

	s := NewStore(low)
	s.AddRoot(high)

	ts, err := s.Tileset("terrain.ts")
	if err != nil {
		t.Fatalf("Tileset failed: %v", err)
	}
	// Last added root wins
	if ts.ID != 2 {
		t.Errorf("expected the high-priority root's tileset (id 2), got %d", ts.ID)
	}
}

func TestStoreClear(t *testing.T) {
	dir := t.TempDir()
	name := bakeTileset(t, dir, "terrain.ts", 1)

	s := NewStore(dir)
	if _, err := s.Tileset(name); err != nil {
		t.Fatalf("Tileset failed: %v", err)
	}

	s.Clear()

	if _, err := s.Tileset(name); err != nil {
		t.Fatalf("Tileset after clear failed: %v", err)
	}
	hits, misses := s.Stats()
	if hits != 0 || misses != 1 {
		t.Errorf("expected counters reset then 1 miss, got %d / %d", hits, misses)
	}
}

func TestStoreTilemapAndSheet(t *testing.T) {
	dir := t.TempDir()

	m := &content.RawTilemap{
		Name:     "level1",
		Tilesets: []content.RawTileset{{ID: 0, Name: "t", TileCount: 0, TileWidth: 4, TileHeight: 4, Pixels: []byte{}}},
	}
	f, err := os.Create(filepath.Join(dir, "level1.tm"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := content.WriteTilemap(f, m); err != nil {
		t.Fatalf("bake failed: %v", err)
	}
	f.Close()

	s := NewStore(dir)
	got, err := s.Tilemap("level1.tm")
	if err != nil {
		t.Fatalf("Tilemap failed: %v", err)
	}
	if got.Name != "level1" {
		t.Errorf("expected 'level1', got %q", got.Name)
	}

	if _, err := s.SpriteSheet("level1.tm"); err == nil {
		t.Error("loading a tilemap as a sprite sheet should fail")
	}
}
