// Package viewer implements the interactive content preview loop.
package viewer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/SephDB/aseforge/internal/assets"
	"github.com/SephDB/aseforge/internal/engine/gpu"
	"github.com/SephDB/aseforge/internal/engine/input"
	"github.com/SephDB/aseforge/internal/engine/render"
	"github.com/SephDB/aseforge/internal/engine/sprite"
	"github.com/SephDB/aseforge/internal/engine/tilemap"
	"github.com/SephDB/aseforge/internal/engine/window"
	"github.com/SephDB/aseforge/internal/logger"
	"github.com/SephDB/aseforge/pkg/content"
	"github.com/SephDB/aseforge/pkg/math"
)

// Config holds viewer configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Viewer shows one baked content file in a window. Tilemaps and tilesets
// pan with mouse drag and zoom with the wheel; sprite sheets additionally
// cycle animations with space.
type Viewer struct {
	config  Config
	running bool
	window  *window.Window
	input   *input.Input
	quad    *render.QuadRenderer

	tilemap   *tilemap.Tilemap
	sheet     *sprite.Sheet
	spr       *sprite.AnimatedSprite
	animNames []string
	animIndex int

	width, height int
	origin        math.Vec2
	zoom          float32
	dragging      bool
	lastMouseX    int
	lastMouseY    int
}

// New creates a viewer showing the given content file.
func New(cfg Config, path string) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("file", path),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	v := &Viewer{
		config: cfg,
		width:  cfg.Width,
		height: cfg.Height,
		zoom:   1,
	}

	// Window creation also creates the OpenGL context
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	v.quad, err = render.NewQuadRenderer()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.load(path); err != nil {
		v.Close()
		return nil, err
	}

	v.input = input.New()

	logger.Info("viewer initialized")
	return v, nil
}

// load reads the content file and materializes it on the GPU.
func (v *Viewer) load(path string) error {
	store := assets.NewStore(filepath.Dir(path))
	name := filepath.Base(path)
	dev := gpu.NewGLDevice()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tm":
		raw, err := store.Tilemap(name)
		if err != nil {
			return err
		}
		v.tilemap, err = tilemap.Materialize(dev, raw)
		return err

	case ".ts":
		raw, err := store.Tileset(name)
		if err != nil {
			return err
		}
		v.tilemap, err = tilemap.Materialize(dev, tilesetPreview(raw))
		return err

	case ".ss":
		c, err := store.SpriteSheet(name)
		if err != nil {
			return err
		}
		v.sheet, err = sprite.NewSheet(dev, c)
		if err != nil {
			return err
		}
		v.spr = sprite.New(v.sheet)
		for _, def := range c.Animations {
			v.animNames = append(v.animNames, def.Name)
		}
		sort.Strings(v.animNames)
		if len(v.animNames) > 0 {
			return v.spr.Play(v.animNames[0])
		}
		return nil

	default:
		return fmt.Errorf("unknown content extension: %s (want .tm, .ts or .ss)", path)
	}
}

// previewColumns is the grid width used when showing a bare tileset.
const previewColumns = 16

// tilesetPreview wraps a tileset into a single-layer tilemap laying its
// tiles out in a grid, tile 0 included.
func tilesetPreview(ts *content.RawTileset) *content.RawTilemap {
	cols := previewColumns
	if ts.TileCount < cols {
		cols = ts.TileCount
	}
	if cols == 0 {
		cols = 1
	}
	rows := (ts.TileCount + cols - 1) / cols

	tiles := make([]content.RawTile, cols*rows)
	for i := 0; i < ts.TileCount; i++ {
		tiles[i].TilesetTileID = i
	}

	return &content.RawTilemap{
		Name:     ts.Name,
		Tilesets: []content.RawTileset{*ts},
		Layers: []content.RawTilemapLayer{{
			Name:      "preview",
			TilesetID: ts.ID,
			Columns:   cols,
			Rows:      rows,
			Tiles:     tiles,
		}},
	}
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if v.input.Update() {
			break
		}
		v.handleEvents()

		v.update(dt)

		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.SwapBuffers()
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.width = event.Width
			v.height = event.Height

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
				v.running = false
			case sdl.SCANCODE_SPACE:
				v.nextAnimation()
			case sdl.SCANCODE_R:
				v.origin = math.Vec2{}
				v.zoom = 1
			}

		case input.EventMouseDown:
			v.dragging = true
			v.lastMouseX = event.MouseX
			v.lastMouseY = event.MouseY

		case input.EventMouseUp:
			v.dragging = false

		case input.EventMouseMove:
			if v.dragging {
				dx := float32(event.MouseX-v.lastMouseX) / v.zoom
				dy := float32(event.MouseY-v.lastMouseY) / v.zoom
				v.origin = v.origin.Add(math.Vec2{X: dx, Y: dy})
				v.lastMouseX = event.MouseX
				v.lastMouseY = event.MouseY
			}

		case input.EventMouseWheel:
			if event.WheelY > 0 {
				v.zoom *= 1.25
			} else if event.WheelY < 0 {
				v.zoom /= 1.25
			}
			if v.zoom < 0.125 {
				v.zoom = 0.125
			}
			if v.zoom > 32 {
				v.zoom = 32
			}
		}
	}
}

// nextAnimation cycles to the next animation of the loaded sheet.
func (v *Viewer) nextAnimation() {
	if v.spr == nil || len(v.animNames) == 0 {
		return
	}
	v.animIndex = (v.animIndex + 1) % len(v.animNames)
	name := v.animNames[v.animIndex]
	if err := v.spr.Play(name); err != nil {
		logger.Warn("failed to play animation", zap.String("name", name), zap.Error(err))
		return
	}
	logger.Info("playing animation", zap.String("name", name))
}

func (v *Viewer) update(dt time.Duration) {
	if v.spr == nil {
		return
	}
	for _, ev := range v.spr.Update(dt) {
		logger.Debug("animation event",
			zap.String("animation", v.spr.Playing()),
			zap.Stringer("kind", ev.Kind),
			zap.Int("frame", ev.FrameIndex),
		)
	}
}

func (v *Viewer) render() error {
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	v.quad.Begin(v.width, v.height, v.zoom)
	defer v.quad.End()

	if v.tilemap != nil {
		return v.quad.DrawTilemap(v.tilemap, v.origin)
	}
	if v.spr != nil {
		v.quad.DrawSprite(v.spr, v.origin, 1)
	}
	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.tilemap != nil {
		v.tilemap.Dispose()
		v.tilemap = nil
	}
	if v.sheet != nil {
		v.sheet.Dispose()
		v.sheet = nil
	}
	if v.quad != nil {
		v.quad.Destroy()
		v.quad = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
