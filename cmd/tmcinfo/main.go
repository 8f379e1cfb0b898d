// tmcinfo is a CLI utility for inspecting baked tilemap, tileset and
// sprite sheet content files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SephDB/aseforge/pkg/content"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tmcinfo - baked content file utility

Usage:
  tmcinfo <command> [options]

Commands:
  info <file>      Show content summary (.tm, .ts or .ss file)
  validate <file>  Check file integrity and internal consistency

Examples:
  tmcinfo info level1.tm
  tmcinfo info terrain.ts
  tmcinfo validate player.ss`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmcinfo info <file>")
		os.Exit(1)
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tm":
		infoTilemap(path)
	case ".ts":
		infoTileset(path)
	case ".ss":
		infoSpriteSheet(path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown content extension: %s (want .tm, .ts or .ss)\n", path)
		os.Exit(1)
	}
}

func infoTilemap(path string) {
	m := readTilemap(path)

	fmt.Printf("Tilemap:  %s\n", m.Name)
	fmt.Printf("Layers:   %d\n", len(m.Layers))
	fmt.Printf("Tilesets: %d\n", len(m.Tilesets))
	fmt.Println()

	for i := range m.Layers {
		l := &m.Layers[i]
		fmt.Printf("  layer %q: %dx%d tiles, tileset %d, offset (%.0f, %.0f)\n",
			l.Name, l.Columns, l.Rows, l.TilesetID, l.Offset.X, l.Offset.Y)
	}
	for i := range m.Tilesets {
		t := &m.Tilesets[i]
		fmt.Printf("  tileset %d %q: %d tiles of %dx%d px\n",
			t.ID, t.Name, t.TileCount, t.TileWidth, t.TileHeight)
	}
}

func infoTileset(path string) {
	f := openFile(path)
	defer f.Close()

	t, err := content.ReadTileset(f)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Tileset: %s (id %d)\n", t.Name, t.ID)
	fmt.Printf("Tiles:   %d of %dx%d px\n", t.TileCount, t.TileWidth, t.TileHeight)
	fmt.Printf("Pixels:  %d bytes\n", len(t.Pixels))
}

func infoSpriteSheet(path string) {
	f := openFile(path)
	defer f.Close()

	s, err := content.ReadSpriteSheet(f)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Sheet:      %s\n", s.Name)
	fmt.Printf("Texture:    %dx%d px\n", s.TextureWidth, s.TextureHeight)
	fmt.Printf("Frames:     %d\n", len(s.Regions))
	fmt.Printf("Animations: %d\n", len(s.Animations))
	fmt.Println()

	for _, def := range s.Animations {
		var flags []string
		if def.IsLooping {
			flags = append(flags, "loop")
		}
		if def.IsReversed {
			flags = append(flags, "reversed")
		}
		if def.IsPingPong {
			flags = append(flags, "ping-pong")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Printf("  %q: %d frames%s\n", def.Name, len(def.FrameIndexes), suffix)
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmcinfo validate <file>")
		os.Exit(1)
	}

	path := args[0]
	f := openFile(path)
	defer f.Close()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tm":
		var m *content.RawTilemap
		if m, err = content.ReadTilemap(f); err == nil {
			err = m.Validate()
		}
	case ".ts":
		var t *content.RawTileset
		if t, err = content.ReadTileset(f); err == nil {
			err = t.Validate()
		}
	case ".ss":
		var s *content.SpriteSheetContent
		if s, err = content.ReadSpriteSheet(f); err == nil {
			err = s.Validate()
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown content extension: %s (want .tm, .ts or .ss)\n", path)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: INVALID: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("%s: OK\n", path)
}

func readTilemap(path string) *content.RawTilemap {
	f := openFile(path)
	defer f.Close()

	m, err := content.ReadTilemap(f)
	if err != nil {
		fail(err)
	}
	return m
}

func openFile(path string) *os.File {
	f, err := os.Open(path)
	if err != nil {
		fail(err)
	}
	return f
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
