package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/shineyblur/internal/export"
)

// checker alternates black and white pixels so any blur shows up as grey.
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

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func isGrey(c color.Color) bool {
	r, _, _, _ := c.RGBA()
	r >>= 8
	return r > 40 && r < 215
}

func testRoot() (*root, *bytes.Buffer, *bytes.Buffer) {
	var out, errb bytes.Buffer
	return &root{program: "shineyblur", stdout: &out, stderr: &errb}, &out, &errb
}

type recordSink struct {
	got []*export.Artifact
}

func (r *recordSink) Deliver(_ context.Context, a *export.Artifact) (string, error) {
	r.got = append(r.got, a)
	return "clipboard", nil
}
