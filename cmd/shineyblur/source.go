package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"strings"

	"github.com/example/shineyblur/internal/capture"
	"github.com/example/shineyblur/internal/imagesrc"
)

// Seams for tests.
var (
	loadFileFn      = imagesrc.LoadFromFile
	loadURLFn       = func(url string) (*image.RGBA, error) { return imagesrc.LoadFromURL(context.Background(), nil, url) }
	loadClipboardFn = imagesrc.LoadFromClipboard
	captureScreenFn = imagesrc.LoadFromScreen
)

var errManySources = errors.New("only one of -file, -url, -from-clipboard or -capture may be given")

// sourceFlags selects where the bitmap comes from.
type sourceFlags struct {
	file          string
	url           string
	fromClipboard bool
	capture       bool
	monitor       string
	includeCursor bool
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.file, "file", "", "load the image from this file")
	fs.StringVar(&s.url, "url", "", "download the image from this URL")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.BoolVar(&s.fromClipboard, "from-clip", false, "load the image from the clipboard (alias)")
	fs.BoolVar(&s.capture, "capture", false, "capture the screen")
	fs.StringVar(&s.monitor, "monitor", "", "monitor index or name to capture")
	fs.BoolVar(&s.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
}

func (s *sourceFlags) count() int {
	n := 0
	for _, set := range []bool{s.file != "", s.url != "", s.fromClipboard, s.capture} {
		if set {
			n++
		}
	}
	return n
}

// resolve returns a description of the source and the function that loads
// it. fallbackURL is used when no source was given; an empty fallback makes
// the source mandatory.
func (s *sourceFlags) resolve(fallbackURL string) (string, imagesrc.LoadFunc, error) {
	switch s.count() {
	case 0:
		if fallbackURL == "" {
			return "", nil, errors.New("an image source is required")
		}
		url := fallbackURL
		return url, func() (*image.RGBA, error) { return loadURLFn(url) }, nil
	case 1:
	default:
		return "", nil, errManySources
	}
	switch {
	case s.file != "":
		path := s.file
		return path, func() (*image.RGBA, error) { return loadFileFn(path) }, nil
	case s.url != "":
		url := s.url
		return url, func() (*image.RGBA, error) { return loadURLFn(url) }, nil
	case s.fromClipboard:
		return "clipboard", func() (*image.RGBA, error) { return loadClipboardFn() }, nil
	}
	opts := capture.Options{Monitor: strings.TrimSpace(s.monitor), IncludeCursor: s.includeCursor}
	return "screen", func() (*image.RGBA, error) {
		img, err := captureScreenFn(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, nil
	}, nil
}
