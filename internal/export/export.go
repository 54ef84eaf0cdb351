// Package export recomposes the blurred selection at full resolution and
// encodes the result for delivery.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/shineyblur/internal/render"
	"github.com/example/shineyblur/internal/selection"
)

// ErrNoBitmap is returned when an export is requested before an image is
// loaded.
var ErrNoBitmap = errors.New("no image loaded")

// JPEGQuality is used for jpeg exports.
const JPEGQuality = 95

// Format selects the output encoding.
type Format int

const (
	PNG Format = iota
	TIFF
	BMP
	JPEG
)

func (f Format) String() string {
	switch f {
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	case JPEG:
		return "jpeg"
	default:
		return "png"
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return f.String()
}

// ParseFormat accepts a format name or extension. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("unknown image format %q", s)
}

// Render blurs the selection of bitmap regardless of any preview setting.
// The overlay is never drawn.
func Render(bitmap *image.RGBA, shape selection.Shape, radius int, blur render.Blurrer) *image.RGBA {
	return render.Composite(render.Params{
		Bitmap:  bitmap,
		Shape:   shape,
		Radius:  radius,
		Preview: true,
	}, blur)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}
	return fmt.Errorf("unsupported format %v", f)
}

// Filename returns blurred-image-<unix ms>.<ext>.
func Filename(now time.Time, f Format) string {
	return fmt.Sprintf("blurred-image-%d.%s", now.UnixMilli(), f.Ext())
}

// Artifact is an encoded export ready for a Sink.
type Artifact struct {
	Data     []byte
	Filename string
	Format   Format
	Size     image.Point
	// Image is the composited result that Data encodes.
	Image *image.RGBA
}

// Request describes a single export.
type Request struct {
	Bitmap *image.RGBA
	Shape  selection.Shape
	Radius int
	Blur   render.Blurrer
	Format Format
	Now    time.Time
}

// Build renders and encodes req.
func Build(req Request) (*Artifact, error) {
	if req.Bitmap == nil {
		return nil, ErrNoBitmap
	}
	img := Render(req.Bitmap, req.Shape, req.Radius, req.Blur)
	var buf bytes.Buffer
	if err := Encode(&buf, img, req.Format); err != nil {
		return nil, fmt.Errorf("encode %s: %w", req.Format, err)
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Artifact{
		Data:     buf.Bytes(),
		Filename: Filename(now, req.Format),
		Format:   req.Format,
		Size:     img.Bounds().Size(),
		Image:    img,
	}, nil
}
