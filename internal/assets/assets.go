// Package assets handles baked content loading and caching.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/SephDB/aseforge/pkg/content"
)

// Store loads baked content files from a set of root directories and
// caches the decoded results. Roots are searched in reverse order (last
// added = highest priority), so later roots can shadow earlier ones.
type Store struct {
	mu    sync.RWMutex
	roots []string

	tilemaps map[string]*content.RawTilemap
	tilesets map[string]*content.RawTileset
	sheets   map[string]*content.SpriteSheetContent

	hits   int
	misses int
}

// NewStore creates a store over the given root directories.
func NewStore(roots ...string) *Store {
	return &Store{
		roots:    roots,
		tilemaps: make(map[string]*content.RawTilemap),
		tilesets: make(map[string]*content.RawTileset),
		sheets:   make(map[string]*content.SpriteSheetContent),
	}
}

// AddRoot adds a root directory with the highest priority.
func (s *Store) AddRoot(path string) {
	s.mu.Lock()
	s.roots = append(s.roots, path)
	s.mu.Unlock()
}

// Tilemap loads and caches the named tilemap file.
func (s *Store) Tilemap(name string) (*content.RawTilemap, error) {
	s.mu.RLock()
	m, ok := s.tilemaps[name]
	s.mu.RUnlock()
	if ok {
		s.recordHit()
		return m, nil
	}
	s.recordMiss()

	m, err := loadContent(s, name, content.ReadTilemap)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tilemaps[name] = m
	s.mu.Unlock()
	return m, nil
}

// Tileset loads and caches the named tileset file.
func (s *Store) Tileset(name string) (*content.RawTileset, error) {
	s.mu.RLock()
	t, ok := s.tilesets[name]
	s.mu.RUnlock()
	if ok {
		s.recordHit()
		return t, nil
	}
	s.recordMiss()

	t, err := loadContent(s, name, content.ReadTileset)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tilesets[name] = t
	s.mu.Unlock()
	return t, nil
}

// SpriteSheet loads and caches the named sprite sheet file.
func (s *Store) SpriteSheet(name string) (*content.SpriteSheetContent, error) {
	s.mu.RLock()
	sh, ok := s.sheets[name]
	s.mu.RUnlock()
	if ok {
		s.recordHit()
		return sh, nil
	}
	s.recordMiss()

	sh, err := loadContent(s, name, content.ReadSpriteSheet)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sheets[name] = sh
	s.mu.Unlock()
	return sh, nil
}

// loadContent resolves name against the roots and decodes it with read.
func loadContent[T any](s *Store, name string, read func(r io.Reader) (*T, error)) (*T, error) {
	s.mu.RLock()
	roots := s.roots
	s.mu.RUnlock()

	for i := len(roots) - 1; i >= 0; i-- {
		f, err := os.Open(filepath.Join(roots[i], name))
		if err != nil {
			continue
		}
		v, err := read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("content not found: %s", name)
}

// Stats returns the cache hit and miss counters.
func (s *Store) Stats() (hits, misses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

// Clear drops all cached content.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tilemaps = make(map[string]*content.RawTilemap)
	s.tilesets = make(map[string]*content.RawTileset)
	s.sheets = make(map[string]*content.SpriteSheetContent)
	s.hits = 0
	s.misses = 0
}

func (s *Store) recordHit() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
}

func (s *Store) recordMiss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}
