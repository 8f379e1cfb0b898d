// Package sprite provides the animated sprite runtime: a sheet texture with
// its frame regions and named animations, plus the per-sprite playback
// state.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/SephDB/aseforge/internal/engine/gpu"
	"github.com/SephDB/aseforge/pkg/animation"
	"github.com/SephDB/aseforge/pkg/content"
)

// Sprite errors.
var (
	ErrAnimationNotFound = errors.New("animation not found")
	ErrNoAnimation       = errors.New("no animation playing")
)

// Sheet is a materialized sprite sheet: one texture, the resolved frame
// table and the animations defined over it. Sheets are shared between the
// sprites created from them.
type Sheet struct {
	Name    string
	Texture gpu.Texture

	frames []animation.Frame
	defs   map[string]animation.Definition
}

// NewSheet uploads a sprite sheet's texture and resolves its region table.
// Device failures propagate unchanged.
func NewSheet(dev gpu.Device, c *content.SpriteSheetContent) (*Sheet, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tex, err := dev.CreateTexture(c.TextureWidth, c.TextureHeight, c.Pixels)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", c.Name, err)
	}

	s := &Sheet{
		Name:    c.Name,
		Texture: tex,
		frames:  make([]animation.Frame, 0, len(c.Regions)),
		defs:    make(map[string]animation.Definition, len(c.Animations)),
	}
	for _, reg := range c.Regions {
		s.frames = append(s.frames, animation.Frame{
			Bounds:   image.Rect(reg.X, reg.Y, reg.X+reg.Width, reg.Y+reg.Height),
			Duration: time.Duration(reg.DurationMS) * time.Millisecond,
		})
	}
	for _, def := range c.Animations {
		s.defs[def.Name] = def
	}
	return s, nil
}

// Definition returns the named animation definition.
func (s *Sheet) Definition(name string) (animation.Definition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// FrameCount returns the number of regions in the sheet.
func (s *Sheet) FrameCount() int {
	return len(s.frames)
}

// Dispose releases the sheet texture.
func (s *Sheet) Dispose() {
	if s.Texture != nil {
		s.Texture.Dispose()
		s.Texture = nil
	}
}

// AnimatedSprite plays one of its sheet's animations at a time. Selecting a
// new animation replaces the running instance wholesale; the previous
// instance's state is discarded.
type AnimatedSprite struct {
	sheet *Sheet
	inst  *animation.Instance
	name  string
}

// New creates a sprite with no animation playing.
func New(sheet *Sheet) *AnimatedSprite {
	return &AnimatedSprite{sheet: sheet}
}

// Play starts the named animation from its first frame in the definition's
// declared direction.
func (sp *AnimatedSprite) Play(name string) error {
	def, ok := sp.sheet.Definition(name)
	if !ok {
		return fmt.Errorf("%w: %q in sheet %q", ErrAnimationNotFound, name, sp.sheet.Name)
	}

	inst, err := animation.NewInstance(def, sp.sheet.frames)
	if err != nil {
		return err
	}
	sp.inst = inst
	sp.name = name
	return nil
}

// Sheet returns the sheet this sprite draws from.
func (sp *AnimatedSprite) Sheet() *Sheet {
	return sp.sheet
}

// Playing returns the name of the current animation, or "" when idle.
func (sp *AnimatedSprite) Playing() string {
	return sp.name
}

// Update advances the current animation and returns the events fired. A
// sprite with no animation playing is a no-op.
func (sp *AnimatedSprite) Update(dt time.Duration) []animation.Event {
	if sp.inst == nil {
		return nil
	}
	return sp.inst.Update(dt)
}

// CurrentFrame returns the frame region currently shown.
func (sp *AnimatedSprite) CurrentFrame() (animation.Frame, error) {
	if sp.inst == nil {
		return animation.Frame{}, ErrNoAnimation
	}
	return sp.inst.Frame(), nil
}
