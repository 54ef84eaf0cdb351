package render

import (
	"image"

	"golang.org/x/image/vector"

	"github.com/example/shineyblur/internal/selection"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498307936

// ClipMask rasterises s into an alpha mask covering a bitmap of size.
// Pixels inside the shape are opaque, pixels outside are zero.
func ClipMask(s selection.Shape, size image.Point) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, size.X, size.Y))
	if size.X <= 0 || size.Y <= 0 || s == nil {
		return mask
	}
	r := vector.NewRasterizer(size.X, size.Y)
	switch v := s.(type) {
	case selection.Circle:
		c := v.Center()
		circlePath(r, float32(c.X), float32(c.Y), float32(v.Radius))
	default:
		b := s.Bounds()
		x0, y0 := float32(b.X), float32(b.Y)
		x1, y1 := float32(b.X+b.Width), float32(b.Y+b.Height)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.ClosePath()
	}
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func circlePath(r *vector.Rasterizer, cx, cy, rad float32) {
	k := rad * kappa
	r.MoveTo(cx+rad, cy)
	r.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	r.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	r.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	r.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	r.ClosePath()
}
