package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/shineyblur/internal/render"
	"github.com/example/shineyblur/internal/theme"
)

const (
	statusHeight = 24
	checkerSize  = 8
	messageTime  = 2 * time.Second
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// OverlayStyle derives the selection overlay colors from th.
func OverlayStyle(th *theme.Theme, handleSize int) render.OverlayStyle {
	style := render.DefaultOverlayStyle()
	if th == nil {
		th = theme.Default()
	}
	style.Outline = th.Outline
	style.HandleFill = th.HandleFill
	style.HandleBorder = th.HandleBorder
	if handleSize > 0 {
		style.HandleSize = handleSize
	}
	return style
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

type paintState struct {
	width, height int
	theme         *theme.Theme

	surface     *image.RGBA
	displayRect image.Rectangle

	status       string
	detail       string
	canExport    bool
	message      string
	messageUntil time.Time
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !renderFrame(ctx, b.RGBA(), st) {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// renderFrame paints st into dst. It reports false when ctx was canceled
// before the frame was complete.
func renderFrame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	canvas := image.Rect(0, 0, st.width, st.height-statusHeight)
	if st.surface != nil {
		r := st.displayRect.Intersect(canvas)
		drawCheckerboard(dst, r, checkerSize, th.CheckerLight, th.CheckerDark)
		if ctx.Err() != nil {
			return false
		}
		xdraw.ApproxBiLinear.Scale(dst, st.displayRect, st.surface, st.surface.Bounds(), draw.Over, nil)
	} else {
		drawCentered(dst, canvas, "No image loaded. Ctrl+V pastes, Ctrl+N captures the screen.", th.Foreground)
	}
	if ctx.Err() != nil {
		return false
	}

	drawStatusBar(dst, st, th)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, canvas, st.message, th)
	}
	return ctx.Err() == nil
}

func drawStatusBar(dst *image.RGBA, st paintState, th *theme.Theme) {
	bar := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, bar, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	baseline := bar.Min.Y + (statusHeight+face.Metrics().Ascent.Ceil())/2 - 1
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: face}
	d.Dot = fixed.P(bar.Min.X+8, baseline)
	d.DrawString(st.status)

	if st.detail == "" {
		return
	}
	col := th.StatusText
	if !st.canExport {
		col = th.StatusDisabled
	}
	d = &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	wd := d.MeasureString(st.detail).Ceil()
	d.Dot = fixed.P(bar.Max.X-wd-8, baseline)
	d.DrawString(st.detail)
}

func drawCentered(dst *image.RGBA, area image.Rectangle, text string, col color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	wd := d.MeasureString(text).Ceil()
	x := area.Min.X + (area.Dx()-wd)/2
	y := area.Min.Y + (area.Dy()+face.Metrics().Ascent.Ceil())/2
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func drawMessage(dst *image.RGBA, area image.Rectangle, msg string, th *theme.Theme) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := area.Min.X + (area.Dx()-wmsg)/2
	py := area.Max.Y - descent - 24
	rect := image.Rect(px-12, py-ascent-8, px+wmsg+12, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.MessageText, 1)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
