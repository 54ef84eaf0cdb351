package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/shineyblur/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Load bool
	Save bool
	Copy bool
}

// Blur holds the defaults a new session starts with.
type Blur struct {
	Shape   string // rectangle or circle
	Radius  int
	Preview bool
	Backend string // gaussian or box
	Format  string // png, tiff, bmp or jpeg
}

// Display controls how the surface is laid out in the window.
type Display struct {
	MaxWidth   int
	Padding    int
	HandleSize int
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	DefaultURL string
	Blur       Blur
	Display    Display
	Notify     Notify
	Themes     map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Blur: Blur{
			Shape:   "rectangle",
			Radius:  10,
			Preview: true,
			Backend: "gaussian",
			Format:  "png",
		},
		Display: Display{
			MaxWidth:   800,
			Padding:    40,
			HandleSize: 8,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.DefaultURL != "" {
		fmt.Fprintf(&sb, "default_url = %s\n", c.DefaultURL)
	}
	sb.WriteString("\n")

	sb.WriteString("[blur]\n")
	fmt.Fprintf(&sb, "shape = %s\n", c.Blur.Shape)
	fmt.Fprintf(&sb, "radius = %d\n", c.Blur.Radius)
	fmt.Fprintf(&sb, "preview = %v\n", c.Blur.Preview)
	fmt.Fprintf(&sb, "backend = %s\n", c.Blur.Backend)
	fmt.Fprintf(&sb, "format = %s\n", c.Blur.Format)
	sb.WriteString("\n")

	sb.WriteString("[display]\n")
	fmt.Fprintf(&sb, "max_width = %d\n", c.Display.MaxWidth)
	fmt.Fprintf(&sb, "padding = %d\n", c.Display.Padding)
	fmt.Fprintf(&sb, "handle_size = %d\n", c.Display.HandleSize)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = c.Themes[name].Format(&sb)
		sb.WriteString("\n")
	}

	return sb.String()
}
