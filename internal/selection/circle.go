package selection

import (
	"image"
	"math"
)

// Circle is described by its bounding box origin and radius. The center sits
// at (X+Radius, Y+Radius).
type Circle struct {
	X, Y   float64
	Radius float64
}

func (c Circle) Kind() Kind { return KindCircle }

func (c Circle) Origin() Point { return Point{c.X, c.Y} }

func (c Circle) Bounds() Rectangle {
	return Rectangle{X: c.X, Y: c.Y, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

func (c Circle) Center() Point { return Point{c.X + c.Radius, c.Y + c.Radius} }

func (c Circle) Contains(p Point) bool {
	return p.Distance(c.Center()) <= c.Radius
}

// Handles returns the single handle on the right-center of the bounding box.
func (c Circle) Handles() []HandlePoint {
	return []HandlePoint{{HandleCircle, Point{c.X + 2*c.Radius, c.Y + c.Radius}}}
}

func (c Circle) HitTest(p Point, tolerance float64) Handle {
	return hitTest(c.Handles(), p, tolerance)
}

// Resize sets the radius to the pointer's distance from the current center.
// The origin is kept, so the center follows the radius.
func (c Circle) Resize(h Handle, p Point, size image.Point) Shape {
	if h != HandleCircle {
		return c.clamp(size)
	}
	w, ht := dims(size)
	c = c.clamp(size)
	p = sanitize(p)
	max := math.Min(w-c.X, ht-c.Y) / 2
	c.Radius = clampRange(p.Distance(c.Center()), MinRadius, max)
	return c.clamp(size)
}

func (c Circle) MoveTo(origin Point, size image.Point) Shape {
	origin = sanitize(origin)
	c.X, c.Y = origin.X, origin.Y
	return c.clamp(size)
}

func (c Circle) Clamp(size image.Point) Shape { return c.clamp(size) }

func (c Circle) clamp(size image.Point) Circle {
	w, h := dims(size)
	c.Radius = clampRange(finite(c.Radius), MinRadius, math.Min(w, h)/2)
	c.X = clampRange(finite(c.X), 0, w-2*c.Radius)
	c.Y = clampRange(finite(c.Y), 0, h-2*c.Radius)
	return c
}
