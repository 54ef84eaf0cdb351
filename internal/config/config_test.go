package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/blurred
default_url = "https://example.com/a.png"

[blur]
shape = Circle
radius = 14
preview = false
backend = box
format = jpeg

[display]
max_width = 1024
padding = 20

[notify]
load = true
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Outline = orange
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/blurred" {
		t.Errorf("Expected save_dir '/tmp/blurred', got '%s'", cfg.SaveDir)
	}
	if cfg.DefaultURL != "https://example.com/a.png" {
		t.Errorf("Unexpected default_url %q", cfg.DefaultURL)
	}

	want := Blur{Shape: "circle", Radius: 14, Preview: false, Backend: "box", Format: "jpeg"}
	if cfg.Blur != want {
		t.Errorf("Blur = %+v, want %+v", cfg.Blur, want)
	}
	if cfg.Display.MaxWidth != 1024 || cfg.Display.Padding != 20 || cfg.Display.HandleSize != 8 {
		t.Errorf("Unexpected display %+v", cfg.Display)
	}

	if !cfg.Notify.Load {
		t.Error("Expected notify.load to be true")
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if theme.Outline.R != 255 || theme.Outline.G != 165 || theme.Outline.B != 0 {
		t.Errorf("Unexpected Outline color: %+v", theme.Outline)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"shape", "[blur]\nshape = triangle\n"},
		{"radius", "[blur]\nradius = ten\n"},
		{"display", "[display]\nmax_width = -4\n"},
		{"notify", "[notify]\nsave = maybe\n"},
		{"color", "[theme.x]\nOutline = #12\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/blurred

[blur]
shape = circle
radius = 22

[notify]
load = true
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
MessageBackground = #00000080
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Blur != cfg2.Blur || cfg.Display != cfg2.Display {
		t.Errorf("Blur/Display mismatch: %+v %+v vs %+v %+v", cfg.Blur, cfg.Display, cfg2.Blur, cfg2.Display)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	l := NewLoader("dev", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Blur.Radius != 10 {
		t.Fatalf("defaults not returned: %+v, %v", cfg, err)
	}
	if want := filepath.Join(home, ".config", "shineyblur", "config.rc"); l.SavePath() != want {
		t.Fatalf("SavePath = %q, want %q", l.SavePath(), want)
	}

	xdg := filepath.Join(home, ".config", "shineyblur", "config.rc")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("[blur]\nradius = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != xdg {
		t.Fatalf("GetConfigPath = %q, want %q", got, xdg)
	}

	local := filepath.Join(wd, ".shineyblurrc")
	if err := os.WriteFile(local, []byte("[blur]\nradius = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err != nil || cfg.Blur.Radius != 5 {
		t.Fatalf("dev rc not preferred: %+v, %v", cfg.Blur, err)
	}
	if cfg, err = NewLoader("v1.0.0", "").Load(); err != nil || cfg.Blur.Radius != 3 {
		t.Fatalf("release build should skip dev rc: %+v, %v", cfg.Blur, err)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("[blur]\nradius = bad\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("dev", override).Load(); err == nil || !strings.Contains(err.Error(), override) {
		t.Fatalf("expected error naming %s, got %v", override, err)
	}
}
