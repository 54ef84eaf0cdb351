// Package imagesrc decodes source bitmaps from files, URLs, the clipboard
// or the screen. Every loader returns a fresh zero-origin *image.RGBA.
package imagesrc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/shineyblur/internal/capture"
	"github.com/example/shineyblur/internal/clipboard"
)

// DefaultURL is loaded when no source is given.
const DefaultURL = "https://picsum.photos/600/400?random=1"

// MaxBytes limits how much a single load may read.
const MaxBytes = 64 << 20

// MaxPixels limits the decoded width times height of a single load.
const MaxPixels = 64 << 20

var (
	// ErrTooLarge is wrapped when a source exceeds MaxBytes.
	ErrTooLarge = errors.New("image exceeds size limit")
	// ErrTooManyPixels is wrapped when the decoded dimensions exceed MaxPixels.
	ErrTooManyPixels = errors.New("image dimensions exceed pixel limit")
)

// DecodeError reports a failed load along with where it came from.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Seams for tests.
var (
	readClipboard = clipboard.ReadImagePNG
	captureScreen = capture.CaptureScreen
)

// LoadFromBytes decodes data in any registered format.
func LoadFromBytes(data []byte) (*image.RGBA, error) {
	return decode("bytes", data)
}

// LoadFromReader decodes at most MaxBytes from r.
func LoadFromReader(r io.Reader) (*image.RGBA, error) {
	return decodeLimited("reader", r)
}

// LoadFromFile decodes the image stored at path.
func LoadFromFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing %q: %v", path, cerr)
		}
	}()
	return decodeLimited(path, f)
}

// LoadFromURL fetches and decodes url. A nil client uses a client with a
// 30 second timeout.
func LoadFromURL(ctx context.Context, client *http.Client, url string) (*image.RGBA, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DecodeError{Source: url, Err: err}
	}
	req.Header.Set("Accept", "image/*")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &DecodeError{Source: url, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Printf("error closing response for %q: %v", url, cerr)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DecodeError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if resp.ContentLength > MaxBytes {
		return nil, &DecodeError{Source: url, Err: ErrTooLarge}
	}
	return decodeLimited(url, resp.Body)
}

// LoadFromClipboard decodes the image held by the system clipboard.
func LoadFromClipboard() (*image.RGBA, error) {
	data, err := readClipboard()
	if err != nil {
		return nil, &DecodeError{Source: "clipboard", Err: err}
	}
	return decode("clipboard", data)
}

// LoadFromScreen captures the desktop.
func LoadFromScreen(opts capture.Options) (*image.RGBA, error) {
	img, err := captureScreen(opts)
	if err != nil {
		return nil, &DecodeError{Source: "screen", Err: err}
	}
	return normalize(img), nil
}

func decodeLimited(source string, r io.Reader) (*image.RGBA, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	if len(data) > MaxBytes {
		return nil, &DecodeError{Source: source, Err: ErrTooLarge}
	}
	return decode(source, data)
}

// decode reads the header first so oversized dimensions are rejected before
// any pixel buffer is allocated.
func decode(source string, data []byte) (*image.RGBA, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("image has no pixels")}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooManyPixels)}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	if b := img.Bounds(); b.Empty() {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("image has no pixels")}
	}
	return normalize(img), nil
}

// normalize copies img into a zero-origin RGBA.
func normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
