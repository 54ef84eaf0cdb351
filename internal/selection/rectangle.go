package selection

import (
	"image"
	"math"
)

// Rectangle is an axis-aligned selection with a top-left origin.
type Rectangle struct {
	X, Y          float64
	Width, Height float64
}

func (r Rectangle) Kind() Kind { return KindRectangle }

func (r Rectangle) Origin() Point { return Point{r.X, r.Y} }

func (r Rectangle) Bounds() Rectangle { return r }

func (r Rectangle) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Max returns the bottom-right corner.
func (r Rectangle) Max() Point { return Point{r.X + r.Width, r.Y + r.Height} }

// Contains uses inclusive edges.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Handles lists the four corners in hit-test order.
func (r Rectangle) Handles() []HandlePoint {
	max := r.Max()
	return []HandlePoint{
		{HandleTopLeft, Point{r.X, r.Y}},
		{HandleTopRight, Point{max.X, r.Y}},
		{HandleBottomLeft, Point{r.X, max.Y}},
		{HandleBottomRight, max},
	}
}

func (r Rectangle) HitTest(p Point, tolerance float64) Handle {
	return hitTest(r.Handles(), p, tolerance)
}

// Resize moves the dragged corner to p while the diagonally opposite corner
// stays put.
func (r Rectangle) Resize(h Handle, p Point, size image.Point) Shape {
	w, ht := dims(size)
	r = r.clamp(size)
	p = sanitize(p)
	left, top := r.X, r.Y
	right, bottom := r.X+r.Width, r.Y+r.Height
	switch h {
	case HandleTopLeft:
		left = clampRange(p.X, 0, right-MinSize)
		top = clampRange(p.Y, 0, bottom-MinSize)
	case HandleTopRight:
		right = clampRange(p.X, left+MinSize, w)
		top = clampRange(p.Y, 0, bottom-MinSize)
	case HandleBottomLeft:
		left = clampRange(p.X, 0, right-MinSize)
		bottom = clampRange(p.Y, top+MinSize, ht)
	case HandleBottomRight:
		right = clampRange(p.X, left+MinSize, w)
		bottom = clampRange(p.Y, top+MinSize, ht)
	default:
		return r
	}
	out := Rectangle{X: left, Y: top, Width: right - left, Height: bottom - top}
	return out.clamp(size)
}

func (r Rectangle) MoveTo(origin Point, size image.Point) Shape {
	origin = sanitize(origin)
	r.X, r.Y = origin.X, origin.Y
	return r.clamp(size)
}

func (r Rectangle) Clamp(size image.Point) Shape { return r.clamp(size) }

func (r Rectangle) clamp(size image.Point) Rectangle {
	w, h := dims(size)
	r.Width = clampRange(finite(r.Width), MinSize, w)
	r.Height = clampRange(finite(r.Height), MinSize, h)
	r.X = clampRange(finite(r.X), 0, w-r.Width)
	r.Y = clampRange(finite(r.Y), 0, h-r.Height)
	return r
}

// Image returns the integer pixel rectangle covered by r, rounding outward.
func (r Rectangle) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)),
		int(math.Ceil(r.Y+r.Height)),
	)
}

func hitTest(handles []HandlePoint, p Point, tolerance float64) Handle {
	if tolerance < 0 || math.IsNaN(tolerance) {
		tolerance = 0
	}
	for _, hp := range handles {
		if p.Distance(hp.Point) <= tolerance {
			return hp.Handle
		}
	}
	return HandleNone
}
