// Package viewport converts between display pixels and image pixels.
package viewport

import (
	"image"
	"math"

	"github.com/example/shineyblur/internal/selection"
)

const (
	// DefaultMaxWidth caps the on-screen width of the surface.
	DefaultMaxWidth = 800
	// DefaultPadding is subtracted from the host width to get the container width.
	DefaultPadding = 40
)

// ComputeDisplayScale returns the factor applied to image pixels when the
// surface is shown. It never upscales.
func ComputeDisplayScale(bitmapWidth, containerWidth, maxDisplayWidth float64) float64 {
	if !(bitmapWidth > 0) || math.IsInf(bitmapWidth, 0) {
		return 1
	}
	limit := math.Inf(1)
	if containerWidth > 0 {
		limit = containerWidth
	}
	if maxDisplayWidth > 0 && maxDisplayWidth < limit {
		limit = maxDisplayWidth
	}
	if math.IsInf(limit, 1) {
		return 1
	}
	return math.Min(1, limit/bitmapWidth)
}

// Mapper places a scaled surface at Origin on the display.
type Mapper struct {
	Origin image.Point
	Scale  float64
}

// NewMapper returns a Mapper for the given origin and scale. Non-positive or
// non-finite scales become 1.
func NewMapper(origin image.Point, scale float64) Mapper {
	return Mapper{Origin: origin, Scale: scale}.normalized()
}

func (m Mapper) normalized() Mapper {
	if !(m.Scale > 0) || math.IsInf(m.Scale, 0) {
		m.Scale = 1
	}
	return m
}

// ToImage converts a display position into image pixels.
func (m Mapper) ToImage(x, y float64) selection.Point {
	m = m.normalized()
	return selection.Point{
		X: (x - float64(m.Origin.X)) / m.Scale,
		Y: (y - float64(m.Origin.Y)) / m.Scale,
	}
}

// ToDisplay converts an image position into display pixels.
func (m Mapper) ToDisplay(p selection.Point) (float64, float64) {
	m = m.normalized()
	return p.X*m.Scale + float64(m.Origin.X), p.Y*m.Scale + float64(m.Origin.Y)
}

func (m Mapper) DisplayToImageLength(l float64) float64 {
	return l / m.normalized().Scale
}

func (m Mapper) ImageToDisplayLength(l float64) float64 {
	return l * m.normalized().Scale
}

// DisplayRect is where a surface of the given size lands on screen.
func (m Mapper) DisplayRect(size image.Point) image.Rectangle {
	m = m.normalized()
	w := int(math.Round(float64(size.X) * m.Scale))
	h := int(math.Round(float64(size.Y) * m.Scale))
	return image.Rect(m.Origin.X, m.Origin.Y, m.Origin.X+w, m.Origin.Y+h)
}
