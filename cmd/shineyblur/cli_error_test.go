package main

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/example/shineyblur/internal/capture"
	"github.com/example/shineyblur/internal/selection"
)

func TestBlurRunCaptureError(t *testing.T) {
	original := captureScreenFn
	sentinel := errors.New("boom")
	captureScreenFn = func(capture.Options) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureScreenFn = original })

	r, _, _ := testRoot()
	cmd, err := parseBlurCmd([]string{"-capture", "-stdout"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to contain %q, got %v", want, err)
		}
	}
}

func TestParseBlurErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"two sources", []string{"-file", "a.png", "-from-clipboard"}, "only one of -file"},
		{"two outputs", []string{"-file", "a.png", "-stdout", "-to-clipboard"}, "only one of -output"},
		{"rect and circle", []string{"-file", "a.png", "-rect", "0,0,60,60", "-circle", "0,0,30"}, "cannot be used with -circle"},
		{"rect with circle shape", []string{"-file", "a.png", "-shape", "circle", "-rect", "0,0,60,60"}, "-rect cannot be used with -shape circle"},
		{"circle with rectangle shape", []string{"-file", "a.png", "-shape", "rectangle", "-circle", "0,0,30"}, "-circle cannot be used with -shape rectangle"},
		{"bad rect", []string{"-file", "a.png", "-rect", "0,0,60"}, "invalid -rect"},
		{"bad circle", []string{"-file", "a.png", "-circle", "x,0,30"}, "invalid -circle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBlurCmd(tt.args, nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseBlurMatchingShape(t *testing.T) {
	cmd, err := parseBlurCmd([]string{"-file", "a.png", "-shape", "circle", "-circle", "10,10,40"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.shape == nil || cmd.shape.Kind() != selection.KindCircle {
		t.Fatalf("shape = %+v", cmd.shape)
	}
}

func TestParseBlurNeedsSource(t *testing.T) {
	_, err := parseBlurCmd([]string{"-stdout"}, nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestBlurLoadError(t *testing.T) {
	r, _, _ := testRoot()
	cmd, err := parseBlurCmd([]string{"missing.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.source.file != "missing.png" {
		t.Fatalf("positional argument not used as file: %+v", cmd.source)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "blur missing.png") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestEditRejectsManySources(t *testing.T) {
	if _, err := parseEditCmd([]string{"-url", "http://x", "-capture"}, nil); !errors.Is(err, errManySources) {
		t.Fatalf("expected errManySources, got %v", err)
	}
}
