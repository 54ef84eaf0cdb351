package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/shineyblur/internal/selection"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if (x+y)%2 == 0 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBoxBlurUniform(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = fill.R, fill.G, fill.B, fill.A
	}
	out := Box.Blur(img, 3)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if got := out.RGBAAt(x, y); got != fill {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, fill)
			}
		}
	}
}

func TestBoxBlurSpreads(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	img.SetRGBA(2, 2, color.RGBA{A: 255})
	out := Box.Blur(img, 1)
	if out.RGBAAt(1, 2).A == 0 || out.RGBAAt(2, 1).A == 0 {
		t.Fatalf("expected alpha to reach neighbours")
	}
	if img.RGBAAt(1, 2).A != 0 {
		t.Fatalf("source modified")
	}
	if out.RGBAAt(0, 0).A != 0 {
		t.Fatalf("alpha leaked beyond radius")
	}
}

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"", "gaussian", "Box"} {
		if _, err := ParseBackend(name); err != nil {
			t.Errorf("ParseBackend(%q): %v", name, err)
		}
	}
	if _, err := ParseBackend("motion"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestGaussianKeepsBounds(t *testing.T) {
	img := checker(20, 10)
	out := Gaussian.Blur(img, 4)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds %v, want %v", out.Bounds(), img.Bounds())
	}
}

func TestClipMask(t *testing.T) {
	size := image.Pt(100, 100)
	rect := ClipMask(selection.Rectangle{X: 20, Y: 20, Width: 50, Height: 50}, size)
	if rect.AlphaAt(40, 40).A != 0xff || rect.AlphaAt(10, 10).A != 0 || rect.AlphaAt(80, 40).A != 0 {
		t.Fatalf("unexpected rectangle mask")
	}
	circle := ClipMask(selection.Circle{X: 20, Y: 20, Radius: 30}, size)
	if circle.AlphaAt(50, 50).A != 0xff {
		t.Fatalf("circle center not covered")
	}
	if circle.AlphaAt(22, 22).A != 0 {
		t.Fatalf("bounding box corner covered")
	}
}

func TestCompositeBlursOnlyInside(t *testing.T) {
	img := checker(100, 100)
	orig := append([]uint8(nil), img.Pix...)
	p := Params{Bitmap: img, Shape: selection.Rectangle{X: 20, Y: 20, Width: 50, Height: 50}, Radius: 3, Preview: true}
	out := Composite(p, Box)
	if !bytes.Equal(img.Pix, orig) {
		t.Fatalf("bitmap modified")
	}
	for _, pt := range []image.Point{{5, 5}, {90, 90}, {19, 40}, {71, 40}} {
		if out.RGBAAt(pt.X, pt.Y) != img.RGBAAt(pt.X, pt.Y) {
			t.Errorf("outside pixel %v changed", pt)
		}
	}
	in := out.RGBAAt(45, 45)
	if in == img.RGBAAt(45, 45) || in.R == 0 || in.R == 255 {
		t.Fatalf("inside pixel not blurred: %+v", in)
	}
}

func TestCompositePreviewOff(t *testing.T) {
	img := checker(40, 40)
	p := Params{Bitmap: img, Shape: selection.Rectangle{X: 0, Y: 0, Width: 40, Height: 40}, Radius: 5}
	out := Composite(p, Box)
	if !bytes.Equal(out.Pix, img.Pix) {
		t.Fatalf("preview off should copy the bitmap")
	}
	if &out.Pix[0] == &img.Pix[0] {
		t.Fatalf("surface must be a fresh copy")
	}
}

func TestCompositeIdempotent(t *testing.T) {
	img := checker(64, 48)
	p := Params{Bitmap: img, Shape: selection.Circle{X: 10, Y: 5, Radius: 20}, Radius: 4, Preview: true}
	a := Composite(p, Gaussian)
	b := Composite(p, Gaussian)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("composite not idempotent")
	}
}

func TestCacheMatchesUncached(t *testing.T) {
	calls := 0
	counting := BlurFunc(func(src *image.RGBA, radius int) *image.RGBA {
		calls++
		return Box.Blur(src, radius)
	})
	cache := NewCache(counting)
	img := checker(30, 30)
	p := Params{Bitmap: img, Shape: selection.Rectangle{X: 0, Y: 0, Width: 20, Height: 20}, Radius: 2, Preview: true}
	first := Composite(p, cache)
	second := Composite(p, cache)
	if calls != 1 {
		t.Fatalf("blur called %d times, want 1", calls)
	}
	direct := Composite(p, Box)
	if !bytes.Equal(first.Pix, direct.Pix) || !bytes.Equal(second.Pix, direct.Pix) {
		t.Fatalf("cached composite differs from uncached")
	}
	p.Radius = 3
	Composite(p, cache)
	if calls != 2 {
		t.Fatalf("radius change should miss the cache")
	}
	cache.Invalidate()
	Composite(p, cache)
	if calls != 3 {
		t.Fatalf("invalidate should force a new blur")
	}
}

func TestPreviewDrawsOverlay(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := selection.Rectangle{X: 20, Y: 20, Width: 60, Height: 60}
	style := DefaultOverlayStyle()
	out := Preview(Params{Bitmap: img, Shape: r, Radius: 2}, Box, style)
	if got := out.RGBAAt(20, 20); got != style.HandleFill.(color.RGBA) {
		t.Fatalf("handle pixel = %+v", got)
	}
	changed := 0
	for x := 30; x < 70; x++ {
		if out.RGBAAt(x, 20).A != 0 {
			changed++
		}
	}
	if changed == 0 || changed == 40 {
		t.Fatalf("expected a dashed top edge, %d of 40 pixels painted", changed)
	}
	if img.RGBAAt(20, 20).A != 0 {
		t.Fatalf("overlay leaked into the bitmap")
	}
}
