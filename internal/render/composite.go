// Package render composites the blurred selection over a bitmap and draws
// the selection overlay used by the live preview.
package render

import (
	"image"
	"image/draw"

	"github.com/example/shineyblur/internal/selection"
)

// Params is everything a composite depends on.
type Params struct {
	Bitmap  *image.RGBA
	Shape   selection.Shape
	Radius  int
	Preview bool
}

// Composite returns a new surface holding Bitmap with the selection blurred
// when Preview is set. Bitmap is never modified.
func Composite(p Params, b Blurrer) *image.RGBA {
	if p.Bitmap == nil {
		return nil
	}
	surface := cloneRGBA(p.Bitmap)
	if !p.Preview || p.Shape == nil || p.Radius <= 0 {
		return surface
	}
	if b == nil {
		b = Gaussian
	}
	blurred := b.Blur(p.Bitmap, p.Radius)
	bounds := p.Bitmap.Bounds()
	mask := ClipMask(p.Shape, bounds.Size())
	draw.DrawMask(surface, bounds, blurred, blurred.Bounds().Min, mask, image.Point{}, draw.Over)
	return surface
}

// Preview is Composite followed by the selection overlay.
func Preview(p Params, b Blurrer, style OverlayStyle) *image.RGBA {
	surface := Composite(p, b)
	if surface == nil || p.Shape == nil {
		return surface
	}
	DrawOverlay(surface, p.Shape, style)
	return surface
}
