// Package session holds the state of one blur editing session and routes
// pointer input through the gesture state machine. A Session is not safe
// for concurrent use; all calls belong on the event loop.
package session

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/example/shineyblur/internal/export"
	"github.com/example/shineyblur/internal/imagesrc"
	"github.com/example/shineyblur/internal/interact"
	"github.com/example/shineyblur/internal/render"
	"github.com/example/shineyblur/internal/selection"
	"github.com/example/shineyblur/internal/viewport"
)

const (
	MinBlurRadius     = 1
	MaxBlurRadius     = 30
	DefaultBlurRadius = 10
	// DefaultHandleTolerance is the handle hit radius in display pixels.
	DefaultHandleTolerance = 8
)

// Startup selections used before any image is installed.
var (
	startupRectangle = selection.Rectangle{X: 100, Y: 100, Width: 200, Height: 150}
	startupCircle    = selection.Circle{X: 100, Y: 100, Radius: 100}
)

// Session owns the bitmap, both selection variants and the gesture state.
type Session struct {
	bitmap *image.RGBA

	rect   selection.Rectangle
	circle selection.Circle
	kind   selection.Kind

	radius  int
	preview bool

	containerWidth float64
	maxWidth       float64
	padding        float64
	scale          float64
	origin         image.Point
	tolerance      float64

	blur    *render.Cache
	overlay render.OverlayStyle
	machine interact.Machine
	cursor  interact.Cursor

	lastTicket      imagesrc.Ticket
	installedTicket imagesrc.Ticket
}

// Option configures a Session.
type Option func(*Session)

// WithKind selects the initial selection shape.
func WithKind(k selection.Kind) Option { return func(s *Session) { s.kind = k } }

// WithBlurRadius sets the initial blur radius in pixels.
func WithBlurRadius(r int) Option { return func(s *Session) { s.radius = clampRadius(r) } }

// WithPreview toggles the live blur preview.
func WithPreview(on bool) Option { return func(s *Session) { s.preview = on } }

// WithBlurrer replaces the Gaussian backend.
func WithBlurrer(b render.Blurrer) Option { return func(s *Session) { s.blur = render.NewCache(b) } }

// WithMaxDisplayWidth caps the on-screen width of the surface.
func WithMaxDisplayWidth(w float64) Option { return func(s *Session) { s.maxWidth = w } }

// WithContainerPadding is subtracted from host widths passed to SetHostWidth.
func WithContainerPadding(p float64) Option { return func(s *Session) { s.padding = p } }

// WithHandleTolerance sets the handle hit radius in display pixels.
func WithHandleTolerance(px float64) Option { return func(s *Session) { s.tolerance = px } }

// WithOverlayStyle changes how the outline and handles are drawn.
func WithOverlayStyle(style render.OverlayStyle) Option {
	return func(s *Session) { s.overlay = style }
}

// New creates an empty Session.
func New(opts ...Option) *Session {
	s := &Session{
		rect:      startupRectangle,
		circle:    startupCircle,
		radius:    DefaultBlurRadius,
		preview:   true,
		maxWidth:  viewport.DefaultMaxWidth,
		padding:   viewport.DefaultPadding,
		tolerance: DefaultHandleTolerance,
		overlay:   render.DefaultOverlayStyle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.blur == nil {
		s.blur = render.NewCache(nil)
	}
	s.containerWidth = s.maxWidth
	s.rescale()
	return s
}

// Install replaces the bitmap, resets both selections to their defaults and
// supersedes any load that is still in flight.
func (s *Session) Install(bitmap *image.RGBA) {
	if bitmap == nil {
		return
	}
	s.lastTicket++
	s.install(s.lastTicket, bitmap)
}

func (s *Session) install(t imagesrc.Ticket, bitmap *image.RGBA) {
	s.bitmap = bitmap
	s.installedTicket = t
	s.blur.Invalidate()
	s.resetSelection()
	s.rescale()
}

// BeginLoad reserves a ticket for an asynchronous load.
func (s *Session) BeginLoad() imagesrc.Ticket {
	s.lastTicket++
	return s.lastTicket
}

// CompleteLoad installs bitmap if t is not older than the newest installed
// ticket. Failed loads are returned unchanged and never touch state.
func (s *Session) CompleteLoad(t imagesrc.Ticket, bitmap *image.RGBA, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	if bitmap == nil || t < s.installedTicket {
		return false, nil
	}
	s.install(t, bitmap)
	return true, nil
}

// SetKind switches between the rectangle and circle selection. Each kind
// keeps its own last geometry.
func (s *Session) SetKind(k selection.Kind) {
	if k == s.kind {
		return
	}
	s.kind = k
	s.machine.Reset()
}

// ToggleKind flips between rectangle and circle.
func (s *Session) ToggleKind() selection.Kind {
	if s.kind == selection.KindCircle {
		s.SetKind(selection.KindRectangle)
	} else {
		s.SetKind(selection.KindCircle)
	}
	return s.kind
}

// SetBlurRadius clamps r to [MinBlurRadius, MaxBlurRadius] and returns the
// applied value.
func (s *Session) SetBlurRadius(r int) int {
	s.radius = clampRadius(r)
	return s.radius
}

func (s *Session) SetPreview(on bool) { s.preview = on }

func (s *Session) TogglePreview() bool {
	s.preview = !s.preview
	return s.preview
}

// SetContainerWidth updates the width available for the surface and
// recomputes the display scale. Geometry is untouched.
func (s *Session) SetContainerWidth(w float64) {
	s.containerWidth = w
	s.rescale()
}

// SetHostWidth is SetContainerWidth after removing the configured padding.
// The container never shrinks below one pixel.
func (s *Session) SetHostWidth(w float64) {
	s.SetContainerWidth(math.Max(1, w-s.padding))
}

// SetOrigin places the surface on the display.
func (s *Session) SetOrigin(p image.Point) { s.origin = p }

func (s *Session) rescale() {
	if s.bitmap == nil {
		s.scale = 1
		return
	}
	s.scale = viewport.ComputeDisplayScale(float64(s.bitmap.Bounds().Dx()), s.containerWidth, s.maxWidth)
}

// Mapper returns the current display transform.
func (s *Session) Mapper() viewport.Mapper {
	return viewport.NewMapper(s.origin, s.scale)
}

func (s *Session) PointerDown(x, y float64) (interact.Cursor, bool) {
	return s.pointer(interact.Down, x, y)
}

func (s *Session) PointerMove(x, y float64) (interact.Cursor, bool) {
	return s.pointer(interact.Move, x, y)
}

func (s *Session) PointerUp(x, y float64) (interact.Cursor, bool) {
	return s.pointer(interact.Up, x, y)
}

func (s *Session) PointerLeave(x, y float64) (interact.Cursor, bool) {
	return s.pointer(interact.Leave, x, y)
}

func (s *Session) pointer(kind interact.EventKind, x, y float64) (interact.Cursor, bool) {
	if s.bitmap == nil {
		s.machine.Reset()
		s.cursor = interact.CursorCrosshair
		return s.cursor, false
	}
	m := s.Mapper()
	ev := interact.Event{Kind: kind, Point: m.ToImage(x, y)}
	res := s.machine.Handle(s.Shape(), ev, s.BitmapSize(), m.DisplayToImageLength(s.tolerance))
	if res.Changed {
		s.setShape(res.Shape)
	}
	s.cursor = res.Cursor
	return res.Cursor, res.Changed
}

// ResetSelection restores the default selections for the current bitmap.
func (s *Session) ResetSelection() {
	s.resetSelection()
}

func (s *Session) resetSelection() {
	s.machine.Reset()
	if s.bitmap == nil {
		s.rect = startupRectangle
		s.circle = startupCircle
		return
	}
	size := s.BitmapSize()
	s.rect = selection.DefaultRectangle(size)
	s.circle = selection.DefaultCircle(size)
}

// SetShape replaces the selection of sh's kind, clamped to the bitmap, and
// makes that kind active. Without a bitmap the geometry is kept as given.
func (s *Session) SetShape(sh selection.Shape) {
	if sh == nil {
		return
	}
	s.machine.Reset()
	if s.bitmap != nil {
		sh = selection.ClampToBitmap(sh, s.BitmapSize())
	}
	s.kind = sh.Kind()
	s.setShape(sh)
}

func (s *Session) setShape(sh selection.Shape) {
	switch v := sh.(type) {
	case selection.Rectangle:
		s.rect = v
	case selection.Circle:
		s.circle = v
	}
}

// Shape returns the live selection.
func (s *Session) Shape() selection.Shape {
	if s.kind == selection.KindCircle {
		return s.circle
	}
	return s.rect
}

func (s *Session) params() render.Params {
	return render.Params{Bitmap: s.bitmap, Shape: s.Shape(), Radius: s.radius, Preview: s.preview}
}

// Surface renders the live preview with the selection overlay at native
// resolution. It returns nil before an image is installed.
func (s *Session) Surface() *image.RGBA {
	if s.bitmap == nil {
		return nil
	}
	return render.Preview(s.params(), s.blur, s.overlay)
}

// CanExport reports whether an image is loaded.
func (s *Session) CanExport() bool { return s.bitmap != nil }

// Export renders the full resolution result with the selection blurred,
// whatever the preview setting. Without an image it returns nil, nil.
func (s *Session) Export(now time.Time, format export.Format) (*export.Artifact, error) {
	if !s.CanExport() {
		return nil, nil
	}
	return export.Build(export.Request{
		Bitmap: s.bitmap,
		Shape:  s.Shape(),
		Radius: s.radius,
		Blur:   s.blur,
		Format: format,
		Now:    now,
	})
}

// Status describes the image and the selection the way the status bar shows
// them.
func (s *Session) Status() string {
	if s.bitmap == nil {
		return "No image loaded"
	}
	size := s.BitmapSize()
	img := fmt.Sprintf("Image: %d × %d pixels", size.X, size.Y)
	switch v := s.Shape().(type) {
	case selection.Circle:
		c := v.Center()
		return fmt.Sprintf("%s · Blur area: radius %d at (%d, %d)", img, round(v.Radius), round(c.X), round(c.Y))
	case selection.Rectangle:
		return fmt.Sprintf("%s · Blur area: %d × %d at (%d, %d)", img, round(v.Width), round(v.Height), round(v.X), round(v.Y))
	}
	return img
}

func (s *Session) Bitmap() *image.RGBA { return s.bitmap }

// BitmapSize is the zero value without an image.
func (s *Session) BitmapSize() image.Point {
	if s.bitmap == nil {
		return image.Point{}
	}
	return s.bitmap.Bounds().Size()
}

func (s *Session) Kind() selection.Kind { return s.kind }
func (s *Session) Rectangle() selection.Rectangle { return s.rect }
func (s *Session) Circle() selection.Circle { return s.circle }
func (s *Session) BlurRadius() int { return s.radius }
func (s *Session) Preview() bool { return s.preview }
func (s *Session) DisplayScale() float64 { return s.scale }
func (s *Session) ContainerWidth() float64 { return s.containerWidth }
func (s *Session) Origin() image.Point { return s.origin }
func (s *Session) Cursor() interact.Cursor { return s.cursor }
func (s *Session) Gesture() interact.Gesture { return s.machine.Gesture }
func (s *Session) Blurrer() render.Blurrer { return s.blur }
func (s *Session) OverlayStyle() render.OverlayStyle { return s.overlay }

// DisplayRect is where the surface is drawn on screen.
func (s *Session) DisplayRect() image.Rectangle {
	return s.Mapper().DisplayRect(s.BitmapSize())
}

func clampRadius(r int) int {
	if r < MinBlurRadius {
		return MinBlurRadius
	}
	if r > MaxBlurRadius {
		return MaxBlurRadius
	}
	return r
}

func round(v float64) int { return int(math.Round(v)) }
