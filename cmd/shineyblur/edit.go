package main

import (
	"flag"

	"github.com/example/shineyblur/internal/appstate"
	"github.com/example/shineyblur/internal/imagesrc"
	"github.com/example/shineyblur/internal/session"
)

// runWindow is replaced in tests so no display is needed.
var runWindow = func(st *appstate.AppState) { st.Run() }

// editCmd opens the blur window.
type editCmd struct {
	source    sourceFlags
	settings  blurSettings
	noPreview bool
	outputDir string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *editCmd) Program() string {
	return e.root.Program() + " edit"
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	e.source.register(fs)
	e.settings.register(fs, r)
	fs.BoolVar(&e.noPreview, "no-preview", !r.cfg().Blur.Preview, "start with the live blur preview disabled")
	fs.StringVar(&e.outputDir, "output-dir", r.cfg().SaveDir, "directory ctrl+s saves into")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		if e.source.count() > 0 || fs.NArg() > 1 {
			return nil, &UsageError{of: e}
		}
		e.source.file = fs.Arg(0)
	}
	if e.source.count() > 1 {
		return nil, errManySources
	}
	return e, nil
}

func (e *editCmd) Run() error {
	fallback := e.cfg().DefaultURL
	if fallback == "" {
		fallback = imagesrc.DefaultURL
	}
	source, load, err := e.source.resolve(fallback)
	if err != nil {
		return err
	}
	opts, format, err := e.settings.options(e.root, !e.noPreview)
	if err != nil {
		return err
	}
	cfg := e.cfg()
	st := appstate.New(
		appstate.WithSession(session.New(opts...)),
		appstate.WithTheme(e.activeTheme),
		appstate.WithNotifier(e.notifier),
		appstate.WithOutputDir(e.outputDir),
		appstate.WithFormat(format),
		appstate.WithPadding(cfg.Display.Padding),
		appstate.WithInitialLoad(source, load),
	)
	runWindow(st)
	return nil
}
