package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/example/shineyblur/internal/selection"
)

// OverlayStyle controls how the selection outline and handles look.
type OverlayStyle struct {
	Outline      color.Color
	OutlineWidth float64
	Dash         []float64
	HandleSize   int
	HandleFill   color.Color
	// HandleBorder is optional.
	HandleBorder color.Color
}

// DefaultOverlayStyle is a 2px blue dashed outline with 8px handles.
func DefaultOverlayStyle() OverlayStyle {
	blue := color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	return OverlayStyle{
		Outline:      blue,
		OutlineWidth: 2,
		Dash:         []float64{5, 5},
		HandleSize:   8,
		HandleFill:   blue,
		HandleBorder: color.White,
	}
}

// DrawOverlay strokes the outline of s onto dst and fills a square at every
// handle point.
func DrawOverlay(dst *image.RGBA, s selection.Shape, style OverlayStyle) {
	if dst == nil || s == nil {
		return
	}
	def := DefaultOverlayStyle()
	if style.Outline == nil {
		style.Outline = def.Outline
	}
	if style.HandleFill == nil {
		style.HandleFill = def.HandleFill
	}
	if style.OutlineWidth <= 0 {
		style.OutlineWidth = def.OutlineWidth
	}
	if style.HandleSize <= 0 {
		style.HandleSize = def.HandleSize
	}
	strokeOutline(dst, s, style)
	for _, hp := range s.Handles() {
		drawHandle(dst, hp.Point, style)
	}
}

func strokeOutline(dst *image.RGBA, s selection.Shape, style OverlayStyle) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	d := rasterx.NewDasher(w, h, scanner)
	d.SetStroke(fixed.Int26_6(style.OutlineWidth*64), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.ArcClip, style.Dash, 0)
	d.SetColor(style.Outline)
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	switch v := s.(type) {
	case selection.Circle:
		c := v.Center()
		rasterx.AddCircle(c.X-ox, c.Y-oy, v.Radius, d)
	default:
		r := s.Bounds()
		rasterx.AddRect(r.X-ox, r.Y-oy, r.X+r.Width-ox, r.Y+r.Height-oy, 0, d)
	}
	d.Draw()
}

func drawHandle(dst *image.RGBA, p selection.Point, style OverlayStyle) {
	half := float64(style.HandleSize) / 2
	x0 := int(math.Round(p.X - half))
	y0 := int(math.Round(p.Y - half))
	r := image.Rect(x0, y0, x0+style.HandleSize, y0+style.HandleSize)
	if style.HandleBorder != nil {
		draw.Draw(dst, r.Inset(-1), image.NewUniform(style.HandleBorder), image.Point{}, draw.Src)
	}
	draw.Draw(dst, r, image.NewUniform(style.HandleFill), image.Point{}, draw.Src)
}
