package imagesrc

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/example/shineyblur/internal/capture"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoadFromBytesNormalizes(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 9))
	src.Set(5, 5, color.NRGBA{R: 255, A: 255})
	got, err := LoadFromBytes(encodePNG(t, src))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 10, 4) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if got.RGBAAt(0, 0).R != 255 {
		t.Fatalf("pixel not moved to origin")
	}
}

func TestLoadFromBytesError(t *testing.T) {
	_, err := LoadFromBytes([]byte("not an image"))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Source != "bytes" || !errors.Is(err, image.ErrFormat) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoadFromFileBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.bmp")
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 7, 3))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if got.Bounds().Size() != image.Pt(7, 3) {
		t.Fatalf("size = %v", got.Bounds().Size())
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadFromURL(t *testing.T) {
	data := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 600, 400)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	got, err := LoadFromURL(context.Background(), srv.Client(), srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("LoadFromURL: %v", err)
	}
	if got.Bounds().Size() != image.Pt(600, 400) {
		t.Fatalf("size = %v", got.Bounds().Size())
	}

	_, err = LoadFromURL(context.Background(), srv.Client(), srv.URL+"/missing.png")
	var de *DecodeError
	if !errors.As(err, &de) || de.Source != srv.URL+"/missing.png" {
		t.Fatalf("expected DecodeError for 404, got %v", err)
	}
}

func TestDecodeLimited(t *testing.T) {
	big := bytes.NewReader(make([]byte, MaxBytes+10))
	if _, err := LoadFromReader(big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

// pngHeader returns a PNG signature and IHDR chunk claiming w x h 8-bit
// grayscale pixels. It carries no image data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 0, 17)
	ihdr = append(ihdr, "IHDR"...)
	ihdr = binary.BigEndian.AppendUint32(ihdr, w)
	ihdr = binary.BigEndian.AppendUint32(ihdr, h)
	ihdr = append(ihdr, 8, 0, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, 13)
	out = append(out, ihdr...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(ihdr))
}

func TestDecodeRejectsHugeDimensions(t *testing.T) {
	tests := []struct {
		name string
		load func([]byte) (*image.RGBA, error)
	}{
		{"bytes", LoadFromBytes},
		{"reader", func(b []byte) (*image.RGBA, error) { return LoadFromReader(bytes.NewReader(b)) }},
	}
	data := pngHeader(100000, 100000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.load(data)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if !errors.Is(err, ErrTooManyPixels) {
				t.Fatalf("expected ErrTooManyPixels, got %v", err)
			}
		})
	}

	// within the limit the header alone is accepted and decoding fails later
	if _, err := LoadFromBytes(pngHeader(64, 64)); err == nil || errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("small header: unexpected error %v", err)
	}
}

func TestLoadFromClipboardAndScreen(t *testing.T) {
	prevClip, prevScreen := readClipboard, captureScreen
	t.Cleanup(func() {
		readClipboard = prevClip
		captureScreen = prevScreen
	})
	data := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	readClipboard = func() ([]byte, error) { return data, nil }
	if img, err := LoadFromClipboard(); err != nil || img.Bounds().Dx() != 4 {
		t.Fatalf("LoadFromClipboard = %v, %v", img, err)
	}
	clipErr := errors.New("empty")
	readClipboard = func() ([]byte, error) { return nil, clipErr }
	if _, err := LoadFromClipboard(); !errors.Is(err, clipErr) {
		t.Fatalf("expected wrapped clipboard error, got %v", err)
	}

	captureScreen = func(capture.Options) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(10, 10, 20, 30)), nil
	}
	img, err := LoadFromScreen(capture.Options{})
	if err != nil || img.Bounds() != image.Rect(0, 0, 10, 20) {
		t.Fatalf("LoadFromScreen = %v, %v", img.Bounds(), err)
	}
}

func TestRequesterPostsResult(t *testing.T) {
	results := make(chan Result, 1)
	r := &Requester{Post: func(res Result) { results <- res }}
	want := image.NewRGBA(image.Rect(0, 0, 1, 1))
	r.Run(7, "test", func() (*image.RGBA, error) { return want, nil })
	select {
	case res := <-results:
		if res.Ticket != 7 || res.Bitmap != want || res.Err != nil || res.Source != "test" {
			t.Fatalf("unexpected result %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}
