package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/example/shineyblur/internal/clipboard"
)

// Sink delivers an artifact somewhere and returns a human readable
// description of where it went.
type Sink interface {
	Deliver(ctx context.Context, a *Artifact) (string, error)
}

// FileSink writes to Path, or to Dir joined with the artifact filename when
// Path is empty. An empty Dir means the working directory.
type FileSink struct {
	Dir  string
	Path string
}

func (s FileSink) Deliver(ctx context.Context, a *Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := s.Path
	if path == "" {
		path = filepath.Join(s.Dir, a.Filename)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// WriterSink streams the encoded bytes to W, typically stdout.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(ctx context.Context, a *Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := s.W.Write(a.Data); err != nil {
		return "", fmt.Errorf("write %s: %w", a.Filename, err)
	}
	return a.Filename, nil
}

// ClipboardSink publishes the composited image on the system clipboard.
// Write defaults to clipboard.WriteImage.
type ClipboardSink struct {
	Write func(image.Image) error
}

func (s ClipboardSink) Deliver(ctx context.Context, a *Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if a.Image == nil {
		return "", fmt.Errorf("artifact %s has no image", a.Filename)
	}
	write := s.Write
	if write == nil {
		write = clipboard.WriteImage
	}
	if err := write(a.Image); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return "clipboard", nil
}
