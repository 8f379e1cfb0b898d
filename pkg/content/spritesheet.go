package content

import (
	"fmt"
	"io"

	"github.com/SephDB/aseforge/pkg/animation"
)

// spriteSheetMagic identifies a baked sprite sheet stream.
const spriteSheetMagic = "SS"

// FrameRegion is one frame's rectangle inside the sheet texture plus its
// display duration in milliseconds.
type FrameRegion struct {
	X          int
	Y          int
	Width      int
	Height     int
	DurationMS int
}

// SpriteSheetContent is a packed sprite sheet: one texture, a region table
// with one entry per source frame, and the animations defined over it.
type SpriteSheetContent struct {
	Name          string
	TextureWidth  int
	TextureHeight int
	Pixels        []byte
	Regions       []FrameRegion
	Animations    []animation.Definition
}

// Validate checks the pixel buffer size and that every animation only
// references regions that exist.
func (s *SpriteSheetContent) Validate() error {
	want := s.TextureWidth * s.TextureHeight * 4
	if len(s.Pixels) != want {
		return fmt.Errorf("%w: sheet %q has %d pixel bytes, want %d",
			ErrInvalidContent, s.Name, len(s.Pixels), want)
	}
	for i := range s.Animations {
		for _, idx := range s.Animations[i].FrameIndexes {
			if idx < 0 || idx >= len(s.Regions) {
				return fmt.Errorf("%w: animation %q references frame %d (sheet has %d regions)",
					ErrInvalidContent, s.Animations[i].Name, idx, len(s.Regions))
			}
		}
	}
	return nil
}

// WriteSpriteSheet bakes a sprite sheet to the binary content stream.
func WriteSpriteSheet(w io.Writer, s *SpriteSheetContent) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := writeHeader(w, spriteSheetMagic); err != nil {
		return err
	}
	if err := writeString(w, s.Name); err != nil {
		return err
	}
	if err := writeInt(w, s.TextureWidth); err != nil {
		return err
	}
	if err := writeInt(w, s.TextureHeight); err != nil {
		return err
	}
	if err := writeBytes(w, s.Pixels); err != nil {
		return err
	}

	if err := writeInt(w, len(s.Regions)); err != nil {
		return err
	}
	for _, reg := range s.Regions {
		for _, v := range [5]int{reg.X, reg.Y, reg.Width, reg.Height, reg.DurationMS} {
			if err := writeInt(w, v); err != nil {
				return err
			}
		}
	}

	if err := writeInt(w, len(s.Animations)); err != nil {
		return err
	}
	for i := range s.Animations {
		if err := writeDefinition(w, &s.Animations[i]); err != nil {
			return fmt.Errorf("writing animation %d: %w", i, err)
		}
	}
	return nil
}

// ReadSpriteSheet loads a baked sprite sheet and verifies its invariants.
func ReadSpriteSheet(r io.Reader) (*SpriteSheetContent, error) {
	if err := readHeader(r, spriteSheetMagic); err != nil {
		return nil, err
	}

	s := &SpriteSheetContent{}
	var err error
	if s.Name, err = readString(r); err != nil {
		return nil, err
	}
	if s.TextureWidth, err = readInt(r, "texture width"); err != nil {
		return nil, err
	}
	if s.TextureHeight, err = readInt(r, "texture height"); err != nil {
		return nil, err
	}
	if s.Pixels, err = readBytes(r, "sheet pixels"); err != nil {
		return nil, err
	}

	regionCount, err := readCount(r, "region count")
	if err != nil {
		return nil, err
	}
	s.Regions = make([]FrameRegion, 0, preallocCap(regionCount))
	for i := 0; i < regionCount; i++ {
		var reg FrameRegion
		fields := [5]*int{&reg.X, &reg.Y, &reg.Width, &reg.Height, &reg.DurationMS}
		for _, f := range fields {
			if *f, err = readInt(r, "frame region"); err != nil {
				return nil, err
			}
		}
		s.Regions = append(s.Regions, reg)
	}

	animCount, err := readCount(r, "animation count")
	if err != nil {
		return nil, err
	}
	s.Animations = make([]animation.Definition, 0, preallocCap(animCount))
	for i := 0; i < animCount; i++ {
		def, err := readDefinition(r)
		if err != nil {
			return nil, fmt.Errorf("reading animation %d: %w", i, err)
		}
		s.Animations = append(s.Animations, def)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// writeDefinition writes one animation definition record.
func writeDefinition(w io.Writer, def *animation.Definition) error {
	if err := writeString(w, def.Name); err != nil {
		return err
	}
	if err := writeInt(w, len(def.FrameIndexes)); err != nil {
		return err
	}
	for _, idx := range def.FrameIndexes {
		if err := writeInt(w, idx); err != nil {
			return err
		}
	}
	for _, flag := range [3]bool{def.IsLooping, def.IsReversed, def.IsPingPong} {
		if err := writeBool(w, flag); err != nil {
			return err
		}
	}
	return nil
}

// readDefinition reads a record written by writeDefinition.
func readDefinition(r io.Reader) (animation.Definition, error) {
	var def animation.Definition
	var err error
	if def.Name, err = readString(r); err != nil {
		return animation.Definition{}, err
	}
	count, err := readCount(r, "frame index count")
	if err != nil {
		return animation.Definition{}, err
	}
	def.FrameIndexes = make([]int, 0, preallocCap(count))
	for i := 0; i < count; i++ {
		idx, err := readInt(r, "frame index")
		if err != nil {
			return animation.Definition{}, err
		}
		def.FrameIndexes = append(def.FrameIndexes, idx)
	}
	flags := [3]*bool{&def.IsLooping, &def.IsReversed, &def.IsPingPong}
	for _, f := range flags {
		if *f, err = readBool(r, "animation flag"); err != nil {
			return animation.Definition{}, err
		}
	}
	return def, nil
}
