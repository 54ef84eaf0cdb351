package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/shineyblur/internal/render"
	"github.com/example/shineyblur/internal/selection"
)

func stripes(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if x%2 == 0 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		f    Format
		want string
	}{
		{PNG, "blurred-image-1700000000123.png"},
		{JPEG, "blurred-image-1700000000123.jpg"},
		{TIFF, "blurred-image-1700000000123.tiff"},
		{BMP, "blurred-image-1700000000123.bmp"},
	}
	for _, tt := range tests {
		if got := Filename(now, tt.f); got != tt.want {
			t.Errorf("Filename(%v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": PNG, "PNG": PNG, ".jpg": JPEG, "jpeg": JPEG, "tif": TIFF, "bmp": BMP}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatalf("expected error for gif")
	}
}

func TestEncodeFormats(t *testing.T) {
	img := stripes(12, 8)
	for _, f := range []Format{PNG, TIFF, BMP, JPEG} {
		var buf bytes.Buffer
		if err := Encode(&buf, img, f); err != nil {
			t.Fatalf("Encode(%v): %v", f, err)
		}
		var (
			cfg image.Config
			err error
		)
		switch f {
		case TIFF:
			cfg, err = tiff.DecodeConfig(bytes.NewReader(buf.Bytes()))
		case BMP:
			cfg, err = bmp.DecodeConfig(bytes.NewReader(buf.Bytes()))
		default:
			cfg, _, err = image.DecodeConfig(bytes.NewReader(buf.Bytes()))
		}
		if err != nil {
			t.Fatalf("decode %v: %v", f, err)
		}
		if cfg.Width != 12 || cfg.Height != 8 {
			t.Fatalf("%v size = %dx%d", f, cfg.Width, cfg.Height)
		}
	}
}

func TestRenderIgnoresPreviewFlag(t *testing.T) {
	img := stripes(100, 60)
	shape := selection.Rectangle{X: 10, Y: 10, Width: 50, Height: 40}
	got := Render(img, shape, 4, render.Box)
	want := render.Composite(render.Params{Bitmap: img, Shape: shape, Radius: 4, Preview: true}, render.Box)
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Fatalf("export differs from blurred composite")
	}
	if bytes.Equal(got.Pix, img.Pix) {
		t.Fatalf("export did not blur the selection")
	}
}

func TestBuild(t *testing.T) {
	if _, err := Build(Request{}); !errors.Is(err, ErrNoBitmap) {
		t.Fatalf("expected ErrNoBitmap, got %v", err)
	}
	now := time.UnixMilli(42)
	a, err := Build(Request{
		Bitmap: stripes(64, 32),
		Shape:  selection.DefaultRectangle(image.Pt(64, 32)),
		Radius: 3,
		Blur:   render.Box,
		Now:    now,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Filename != "blurred-image-42.png" || a.Size != image.Pt(64, 32) || len(a.Data) == 0 {
		t.Fatalf("unexpected artifact %+v", a)
	}
}

func TestSinks(t *testing.T) {
	a := &Artifact{Data: []byte("pixels"), Filename: "blurred-image-1.png", Image: stripes(2, 2)}
	ctx := context.Background()

	dir := t.TempDir()
	where, err := FileSink{Dir: filepath.Join(dir, "out")}.Deliver(ctx, a)
	if err != nil {
		t.Fatalf("FileSink: %v", err)
	}
	if !strings.HasSuffix(where, filepath.Join("out", a.Filename)) {
		t.Fatalf("FileSink wrote to %q", where)
	}
	data, err := os.ReadFile(where)
	if err != nil || string(data) != "pixels" {
		t.Fatalf("read back %q, %v", data, err)
	}

	explicit := filepath.Join(dir, "custom.png")
	if where, err := (FileSink{Dir: "ignored", Path: explicit}).Deliver(ctx, a); err != nil || where != explicit {
		t.Fatalf("FileSink with path = %q, %v", where, err)
	}

	var buf bytes.Buffer
	if _, err := (WriterSink{W: &buf}).Deliver(ctx, a); err != nil || buf.String() != "pixels" {
		t.Fatalf("WriterSink = %q, %v", buf.String(), err)
	}

	var copied image.Image
	sink := ClipboardSink{Write: func(img image.Image) error {
		copied = img
		return nil
	}}
	if where, err := sink.Deliver(ctx, a); err != nil || where != "clipboard" || copied != image.Image(a.Image) {
		t.Fatalf("ClipboardSink = %q, %v", where, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := (WriterSink{W: &buf}).Deliver(cancelled, a); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
