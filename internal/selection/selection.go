// Package selection models the blur region as a sum type over a rectangle and
// a circle. All coordinates are image pixels.
package selection

import (
	"fmt"
	"image"
	"math"
	"strings"
)

const (
	// MinSize is the smallest width or height a rectangle may shrink to.
	MinSize = 50.0
	// MinRadius is the smallest radius a circle may shrink to.
	MinRadius = 25.0
)

// Kind identifies which selection geometry is active.
type Kind int

const (
	KindRectangle Kind = iota
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a user supplied shape name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangle", "rect", "rectangular", "":
		return KindRectangle, nil
	case "circle", "circular":
		return KindCircle, nil
	}
	return KindRectangle, fmt.Errorf("unknown shape %q", s)
}

// Handle identifies a resize control point.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleCircle
)

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "tl"
	case HandleTopRight:
		return "tr"
	case HandleBottomLeft:
		return "bl"
	case HandleBottomRight:
		return "br"
	case HandleCircle:
		return "circle"
	default:
		return "none"
	}
}

// Point is a position in image space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// HandlePoint places a handle in image space.
type HandlePoint struct {
	Handle Handle
	Point  Point
}

// Shape is implemented by Rectangle and Circle. Every method returns a new
// value; shapes are never mutated in place.
type Shape interface {
	Kind() Kind
	// Origin is the top-left corner of the bounding box.
	Origin() Point
	Bounds() Rectangle
	Center() Point
	Contains(p Point) bool
	Handles() []HandlePoint
	HitTest(p Point, tolerance float64) Handle
	Resize(h Handle, p Point, size image.Point) Shape
	MoveTo(origin Point, size image.Point) Shape
	Clamp(size image.Point) Shape
}

// ContainsPoint reports whether p lies inside s.
func ContainsPoint(s Shape, p Point) bool { return s.Contains(p) }

// HitTestHandle returns the handle within tolerance image pixels of p.
func HitTestHandle(s Shape, p Point, tolerance float64) Handle {
	return s.HitTest(p, tolerance)
}

// ClampToBitmap fits s inside a bitmap of the given size.
func ClampToBitmap(s Shape, size image.Point) Shape { return s.Clamp(size) }

// Resize drags handle h of s to p.
func Resize(s Shape, h Handle, p Point, size image.Point) Shape {
	return s.Resize(h, p, size)
}

// Default returns the initial selection of kind k for a bitmap of size.
func Default(k Kind, size image.Point) Shape {
	if k == KindCircle {
		return DefaultCircle(size)
	}
	return DefaultRectangle(size)
}

// DefaultRectangle covers 30% of each dimension, offset 20% from the origin.
func DefaultRectangle(size image.Point) Rectangle {
	w, h := float64(size.X), float64(size.Y)
	r := Rectangle{
		X:      math.Floor(w * 0.2),
		Y:      math.Floor(h * 0.2),
		Width:  math.Floor(w * 0.3),
		Height: math.Floor(h * 0.3),
	}
	return r.clamp(size)
}

// DefaultCircle uses 15% of the shorter dimension as radius.
func DefaultCircle(size image.Point) Circle {
	w, h := float64(size.X), float64(size.Y)
	c := Circle{
		X:      math.Floor(w * 0.2),
		Y:      math.Floor(h * 0.2),
		Radius: math.Floor(math.Min(w, h) * 0.15),
	}
	return c.clamp(size)
}

// clampRange limits v to [lo, hi]. When the range is inverted hi wins so the
// containment bound always holds. NaN collapses to lo.
func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = lo
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(v, -1) {
		return -math.MaxFloat64
	}
	return v
}

func sanitize(p Point) Point { return Point{finite(p.X), finite(p.Y)} }

func dims(size image.Point) (float64, float64) {
	w, h := float64(size.X), float64(size.Y)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}
