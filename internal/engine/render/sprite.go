package render

import (
	"github.com/SephDB/aseforge/internal/engine/sprite"
	"github.com/SephDB/aseforge/pkg/math"
)

// DrawSprite draws the sprite's current frame at pos, scaled by scale.
// Idle sprites draw nothing. Call between Begin and End.
func (r *QuadRenderer) DrawSprite(sp *sprite.AnimatedSprite, pos math.Vec2, scale float32) {
	frame, err := sp.CurrentFrame()
	if err != nil {
		return
	}

	size := math.Vec2{
		X: float32(frame.Bounds.Dx()) * scale,
		Y: float32(frame.Bounds.Dy()) * scale,
	}
	r.DrawRegion(sp.Sheet().Texture, frame.Bounds, pos, size, false, false, false)
}
