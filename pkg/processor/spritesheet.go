package processor

import (
	"fmt"

	"github.com/SephDB/aseforge/pkg/animation"
	"github.com/SephDB/aseforge/pkg/aseprite"
	"github.com/SephDB/aseforge/pkg/content"
)

// BuildSpriteSheet flattens every frame of the file onto a horizontal strip
// texture and derives one animation definition per tag. Hidden layers are
// excluded from the flattened frames. Tag frame ranges are validated
// against the file's frame count.
func BuildSpriteSheet(file *aseprite.File) (*content.SpriteSheetContent, error) {
	sheet := &content.SpriteSheetContent{
		Name:          file.Name,
		TextureWidth:  file.Width * len(file.Frames),
		TextureHeight: file.Height,
	}
	sheet.Pixels = make([]byte, sheet.TextureWidth*sheet.TextureHeight*4)
	sheet.Regions = make([]content.FrameRegion, 0, len(file.Frames))

	for i := range file.Frames {
		originX := i * file.Width
		flattenFrame(sheet, &file.Frames[i], originX, file.Width, file.Height)
		sheet.Regions = append(sheet.Regions, content.FrameRegion{
			X:          originX,
			Y:          0,
			Width:      file.Width,
			Height:     file.Height,
			DurationMS: file.Frames[i].DurationMS,
		})
	}

	for _, tag := range file.Tags {
		def, err := definitionFromTag(tag, len(file.Frames))
		if err != nil {
			return nil, err
		}
		sheet.Animations = append(sheet.Animations, def)
	}

	return sheet, nil
}

// definitionFromTag converts a tag's frame range and loop direction into an
// animation definition. Frames are listed forward even for reversed tags;
// direction is carried by the flags.
func definitionFromTag(tag aseprite.Tag, frameCount int) (animation.Definition, error) {
	if tag.From < 0 || tag.To >= frameCount || tag.From > tag.To {
		return animation.Definition{}, fmt.Errorf("%w: tag %q spans frames %d-%d (file has %d)",
			aseprite.ErrFrameOutOfRange, tag.Name, tag.From, tag.To, frameCount)
	}

	indexes := make([]int, 0, tag.To-tag.From+1)
	for i := tag.From; i <= tag.To; i++ {
		indexes = append(indexes, i)
	}

	return animation.Definition{
		Name:         tag.Name,
		FrameIndexes: indexes,
		IsLooping:    tag.Repeat == 0,
		IsReversed:   tag.Direction == aseprite.DirectionReverse || tag.Direction == aseprite.DirectionPingPongReverse,
		IsPingPong:   tag.Direction == aseprite.DirectionPingPong || tag.Direction == aseprite.DirectionPingPongReverse,
	}, nil
}

// flattenFrame composites the frame's visible image cels onto the sheet at
// originX, in cel order, with source-over alpha blending. Cels are clipped
// to the canvas.
func flattenFrame(sheet *content.SpriteSheetContent, frame *aseprite.Frame, originX, width, height int) {
	for _, cel := range frame.Cels {
		if cel.Kind != aseprite.CelImage || !cel.LayerVisible() {
			continue
		}
		for y := 0; y < cel.Height; y++ {
			dstY := cel.Y + y
			if dstY < 0 || dstY >= height {
				continue
			}
			for x := 0; x < cel.Width; x++ {
				dstX := cel.X + x
				if dstX < 0 || dstX >= width {
					continue
				}
				src := cel.Pixels[(y*cel.Width+x)*4:]
				dst := sheet.Pixels[(dstY*sheet.TextureWidth+originX+dstX)*4:]
				blendPixel(dst, src)
			}
		}
	}
}

// blendPixel source-over blends one straight-alpha RGBA pixel onto dst.
func blendPixel(dst, src []byte) {
	sa := uint32(src[3])
	if sa == 255 {
		copy(dst[:4], src[:4])
		return
	}
	if sa == 0 {
		return
	}
	inv := 255 - sa
	for c := 0; c < 3; c++ {
		dst[c] = byte((uint32(src[c])*sa + uint32(dst[c])*inv) / 255)
	}
	dst[3] = byte(sa + uint32(dst[3])*inv/255)
}
