package main

import (
	"flag"
	"fmt"

	"github.com/example/shineyblur/internal/appstate"
	"github.com/example/shineyblur/internal/export"
	"github.com/example/shineyblur/internal/render"
	"github.com/example/shineyblur/internal/selection"
	"github.com/example/shineyblur/internal/session"
	"github.com/example/shineyblur/internal/theme"
)

// blurSettings are the session defaults shared by edit and blur. Flag
// defaults come from the configuration file.
type blurSettings struct {
	shape   string
	radius  int
	backend string
	format  string
}

func (b *blurSettings) register(fs *flag.FlagSet, r *root) {
	cfg := r.cfg()
	fs.StringVar(&b.shape, "shape", cfg.Blur.Shape, "selection shape: rectangle or circle")
	fs.IntVar(&b.radius, "radius", cfg.Blur.Radius, fmt.Sprintf("blur radius in pixels (%d-%d)", session.MinBlurRadius, session.MaxBlurRadius))
	fs.StringVar(&b.backend, "backend", cfg.Blur.Backend, "blur backend: gaussian or box")
	fs.StringVar(&b.format, "format", cfg.Blur.Format, "output format: png, tiff, bmp or jpeg")
}

// options converts the settings into session options. preview is passed
// separately since only the window exposes it as a flag.
func (b *blurSettings) options(r *root, preview bool) ([]session.Option, export.Format, error) {
	kind, err := selection.ParseKind(b.shape)
	if err != nil {
		return nil, 0, err
	}
	blurrer, err := render.ParseBackend(b.backend)
	if err != nil {
		return nil, 0, err
	}
	format, err := export.ParseFormat(b.format)
	if err != nil {
		return nil, 0, err
	}
	cfg := r.cfg()
	var th *theme.Theme
	if r != nil {
		th = r.activeTheme
	}
	opts := []session.Option{
		session.WithKind(kind),
		session.WithBlurRadius(b.radius),
		session.WithPreview(preview),
		session.WithBlurrer(blurrer),
		session.WithOverlayStyle(appstate.OverlayStyle(th, cfg.Display.HandleSize)),
	}
	if cfg.Display.MaxWidth > 0 {
		opts = append(opts, session.WithMaxDisplayWidth(float64(cfg.Display.MaxWidth)))
	}
	opts = append(opts, session.WithContainerPadding(float64(cfg.Display.Padding)))
	return opts, format, nil
}
