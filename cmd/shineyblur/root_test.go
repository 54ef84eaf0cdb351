package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/shineyblur/internal/appstate"
	"github.com/example/shineyblur/internal/selection"
)

func newTestRoot(t *testing.T) (*root, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHINEYBLUR_THEME", "")
	r := newRoot()
	var out, errb bytes.Buffer
	r.stdout, r.stderr = &out, &errb
	return r, &out, &errb
}

func TestRootUsage(t *testing.T) {
	r, _, _ := newTestRoot(t)
	for _, args := range [][]string{nil, {"help"}, {"nope"}} {
		err := r.Run(args)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Fatalf("%v: expected usage error, got %v", args, err)
		}
		help := uerr.Error()
		for _, want := range []string{"Usage: shineyblur", "blur      blur a region", "-notify-save"} {
			if !strings.Contains(help, want) {
				t.Fatalf("%v: help missing %q:\n%s", args, want, help)
			}
		}
	}
}

func TestSubcommandUsage(t *testing.T) {
	tests := map[string]HelpData{
		"Usage: shineyblur edit":   &editCmd{root: &root{program: "shineyblur"}},
		"Usage: shineyblur blur":   &blurCmd{root: &root{program: "shineyblur"}},
		"Usage: shineyblur script": &scriptCmd{root: &root{program: "shineyblur"}},
		"Usage: shineyblur config": &configCmd{root: &root{program: "shineyblur"}},
	}
	for want, h := range tests {
		if got := (&UsageError{of: h}).Error(); !strings.Contains(got, want) {
			t.Fatalf("help = %q, want %q", got, want)
		}
	}
}

func TestVersion(t *testing.T) {
	r, out, _ := newTestRoot(t)
	if err := r.Run([]string{"version"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "shineyblur version dev\n" {
		t.Fatalf("version = %q", got)
	}
}

func TestConfigPrintAndSave(t *testing.T) {
	r, out, errb := newTestRoot(t)
	if err := r.Run([]string{"config", "print"}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out.String(), "[blur]") || !strings.Contains(out.String(), "radius = 10") {
		t.Fatalf("config print = %q", out.String())
	}

	c := &configCmd{root: r}
	path := filepath.Join(t.TempDir(), "sub", "config.rc")
	if err := c.runSave(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != r.cfg().String() {
		t.Fatalf("saved config differs from print")
	}
	if !strings.Contains(errb.String(), "Configuration saved to "+path) {
		t.Fatalf("stderr = %q", errb.String())
	}
	if err := r.Run([]string{"config", "frob"}); err == nil {
		t.Fatalf("expected unknown config command error")
	}
}

func TestEditOpensWindow(t *testing.T) {
	original := runWindow
	var got *appstate.AppState
	runWindow = func(st *appstate.AppState) { got = st }
	t.Cleanup(func() { runWindow = original })

	r, _, _ := newTestRoot(t)
	if err := r.Run([]string{"edit", "-shape", "circle", "-radius", "7", "-no-preview", "photo.png"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got == nil {
		t.Fatalf("window not started")
	}
	sess := got.Session
	if sess.Kind() != selection.KindCircle || sess.BlurRadius() != 7 || sess.Preview() {
		t.Fatalf("session settings not applied: kind=%v radius=%d preview=%v", sess.Kind(), sess.BlurRadius(), sess.Preview())
	}
	if got.Theme == nil {
		t.Fatalf("theme not resolved")
	}
}

func TestEditBadShape(t *testing.T) {
	original := runWindow
	runWindow = func(*appstate.AppState) { t.Fatalf("window started") }
	t.Cleanup(func() { runWindow = original })

	r, _, _ := newTestRoot(t)
	if err := r.Run([]string{"edit", "-shape", "hexagon"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestThemeFlagOverridesEnv(t *testing.T) {
	r, _, _ := newTestRoot(t)
	t.Setenv("SHINEYBLUR_THEME", "dark")
	if err := r.Run([]string{"-theme", "high_contrast", "version"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.activeTheme == nil || r.activeTheme.Name != "High Contrast" {
		t.Fatalf("theme = %+v", r.activeTheme)
	}

	r, _, errb := newTestRoot(t)
	t.Setenv("SHINEYBLUR_THEME", "missing-theme")
	if err := r.Run([]string{"version"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errb.String(), "failed to load theme 'missing-theme'") {
		t.Fatalf("stderr = %q", errb.String())
	}
}
