package render

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/anthonynsimon/bild/blur"
)

// Blurrer produces a blurred copy of a bitmap. Implementations must not
// modify src and must return an image with the same bounds.
type Blurrer interface {
	Blur(src *image.RGBA, radius int) *image.RGBA
}

// BlurFunc adapts a function to the Blurrer interface.
type BlurFunc func(src *image.RGBA, radius int) *image.RGBA

func (f BlurFunc) Blur(src *image.RGBA, radius int) *image.RGBA { return f(src, radius) }

// Backend names accepted by ParseBackend.
const (
	BackendGaussian = "gaussian"
	BackendBox      = "box"
)

// ParseBackend returns the blur implementation for name. An empty name
// selects the Gaussian backend.
func ParseBackend(name string) (Blurrer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGaussian:
		return Gaussian, nil
	case BackendBox:
		return Box, nil
	}
	return nil, fmt.Errorf("unknown blur backend %q", name)
}

// Gaussian blurs with a kernel whose radius matches the pixel radius.
var Gaussian Blurrer = BlurFunc(gaussian)

// Box blurs each channel with a separable moving average.
var Box Blurrer = BlurFunc(boxBlur)

func gaussian(src *image.RGBA, radius int) *image.RGBA {
	if radius <= 0 {
		return cloneRGBA(src)
	}
	out := blur.Gaussian(src, float64(radius))
	if out.Bounds() != src.Bounds() {
		// bild always returns a zero based image; rebase it when src is not.
		dst := image.NewRGBA(src.Bounds())
		draw.Draw(dst, dst.Bounds(), out, out.Bounds().Min, draw.Src)
		return dst
	}
	return out
}

func boxBlur(src *image.RGBA, radius int) *image.RGBA {
	if radius <= 0 {
		return cloneRGBA(src)
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewRGBA(bounds)
	dst := image.NewRGBA(bounds)
	if w == 0 || h == 0 {
		return dst
	}

	prefix := make([]int, (max(w, h)+1)*4)
	for y := 0; y < h; y++ {
		row := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		out := tmp.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				prefix[(x+1)*4+c] = prefix[x*4+c] + int(src.Pix[row+x*4+c])
			}
		}
		for x := 0; x < w; x++ {
			x0, x1 := window(x, radius, w)
			count := x1 - x0 + 1
			for c := 0; c < 4; c++ {
				sum := prefix[(x1+1)*4+c] - prefix[x0*4+c]
				tmp.Pix[out+x*4+c] = uint8(sum / count)
			}
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			off := tmp.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			for c := 0; c < 4; c++ {
				prefix[(y+1)*4+c] = prefix[y*4+c] + int(tmp.Pix[off+c])
			}
		}
		for y := 0; y < h; y++ {
			y0, y1 := window(y, radius, h)
			count := y1 - y0 + 1
			off := dst.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			for c := 0; c < 4; c++ {
				sum := prefix[(y1+1)*4+c] - prefix[y0*4+c]
				dst.Pix[off+c] = uint8(sum / count)
			}
		}
	}
	return dst
}

func window(i, radius, n int) (int, int) {
	lo := i - radius
	if lo < 0 {
		lo = 0
	}
	hi := i + radius
	if hi >= n {
		hi = n - 1
	}
	return lo, hi
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// Cache remembers the most recent blur so repeated compositing of the same
// bitmap and radius only pays for the blur once. The returned image is
// shared and must be treated as read-only.
type Cache struct {
	Blurrer Blurrer

	src    *image.RGBA
	radius int
	out    *image.RGBA
}

// NewCache wraps b. A nil b uses Gaussian.
func NewCache(b Blurrer) *Cache {
	if b == nil {
		b = Gaussian
	}
	return &Cache{Blurrer: b}
}

func (c *Cache) Blur(src *image.RGBA, radius int) *image.RGBA {
	if c.out != nil && c.src == src && c.radius == radius {
		return c.out
	}
	b := c.Blurrer
	if b == nil {
		b = Gaussian
	}
	c.out = b.Blur(src, radius)
	c.src = src
	c.radius = radius
	return c.out
}

// Invalidate drops the cached result.
func (c *Cache) Invalidate() {
	c.src = nil
	c.out = nil
}
