package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/shineyblur/internal/export"
	"github.com/example/shineyblur/internal/selection"
	"github.com/example/shineyblur/internal/session"
)

// blurCmd applies the blur without a window.
type blurCmd struct {
	source      sourceFlags
	settings    blurSettings
	rect        string
	circle      string
	output      string
	outputDir   string
	stdout      bool
	toClipboard bool

	shape      selection.Shape
	formatSet  bool
	clipboards export.Sink
	*root
	fs *flag.FlagSet
}

func (b *blurCmd) FlagSet() *flag.FlagSet {
	return b.fs
}

func (b *blurCmd) Program() string {
	return b.root.Program() + " blur"
}

func parseBlurCmd(args []string, r *root) (*blurCmd, error) {
	fs := flag.NewFlagSet("blur", flag.ContinueOnError)
	b := &blurCmd{root: r, fs: fs}
	fs.Usage = usageFunc(b)
	b.source.register(fs)
	b.settings.register(fs, r)
	fs.StringVar(&b.rect, "rect", "", "rectangle selection x,y,w,h in image pixels")
	fs.StringVar(&b.circle, "circle", "", "circle selection x,y,r; x,y is the top left of its bounding box")
	fs.StringVar(&b.output, "output", "", "write the result to this file path")
	fs.StringVar(&b.outputDir, "output-dir", r.cfg().SaveDir, "write blurred-image-<ms>.<ext> into this directory")
	fs.BoolVar(&b.stdout, "stdout", false, "write the encoded image to stdout")
	fs.BoolVar(&b.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&b.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	shapeSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			b.formatSet = true
		case "shape":
			shapeSet = true
		}
	})

	if fs.NArg() > 0 {
		if b.source.count() > 0 || fs.NArg() > 1 {
			return nil, &UsageError{of: b}
		}
		b.source.file = fs.Arg(0)
	}
	switch b.source.count() {
	case 0:
		return nil, &UsageError{of: b}
	case 1:
	default:
		return nil, errManySources
	}

	outputs := 0
	for _, set := range []bool{b.output != "", b.stdout, b.toClipboard} {
		if set {
			outputs++
		}
	}
	if outputs > 1 {
		return nil, errors.New("only one of -output, -stdout or -to-clipboard may be given")
	}

	if b.rect != "" && b.circle != "" {
		return nil, errors.New("-rect cannot be used with -circle")
	}
	if shapeSet {
		kind, err := selection.ParseKind(b.settings.shape)
		if err != nil {
			return nil, err
		}
		switch {
		case b.rect != "" && kind != selection.KindRectangle:
			return nil, fmt.Errorf("-rect cannot be used with -shape %s", kind)
		case b.circle != "" && kind != selection.KindCircle:
			return nil, fmt.Errorf("-circle cannot be used with -shape %s", kind)
		}
	}
	switch {
	case b.rect != "":
		v, err := parseFloats(b.rect, 4)
		if err != nil {
			return nil, fmt.Errorf("invalid -rect: %w", err)
		}
		b.shape = selection.Rectangle{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	case b.circle != "":
		v, err := parseFloats(b.circle, 3)
		if err != nil {
			return nil, fmt.Errorf("invalid -circle: %w", err)
		}
		b.shape = selection.Circle{X: v[0], Y: v[1], Radius: v[2]}
	}

	if b.output != "" && !b.formatSet {
		if f, err := export.ParseFormat(filepath.Ext(b.output)); err == nil {
			b.settings.format = f.String()
		}
	}
	return b, nil
}

// parseFloats reads exactly n comma separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (b *blurCmd) sink() export.Sink {
	switch {
	case b.stdout:
		return export.WriterSink{W: b.out()}
	case b.toClipboard:
		if b.clipboards != nil {
			return b.clipboards
		}
		return export.ClipboardSink{}
	case b.output != "":
		return export.FileSink{Path: b.output}
	}
	return export.FileSink{Dir: b.outputDir}
}

func (b *blurCmd) Run() error {
	source, load, err := b.source.resolve("")
	if err != nil {
		return err
	}
	opts, format, err := b.settings.options(b.root, true)
	if err != nil {
		return err
	}
	img, err := load()
	if err != nil {
		return fmt.Errorf("blur %s: %w", source, err)
	}
	b.notifier.Load(source, img)

	sess := session.New(opts...)
	sess.Install(img)
	if b.shape != nil {
		sess.SetShape(b.shape)
	}

	a, err := sess.Export(time.Now(), format)
	if err != nil {
		return fmt.Errorf("blur %s: %w", source, err)
	}
	where, err := b.sink().Deliver(context.Background(), a)
	if err != nil {
		return fmt.Errorf("blur %s: %w", source, err)
	}
	switch {
	case b.stdout:
	case b.toClipboard:
		fmt.Fprintln(b.errOut(), "copied blurred image to clipboard")
		b.notifier.Copy("image")
	default:
		fmt.Fprintf(b.errOut(), "saved %s\n", where)
		b.notifier.Save(where)
	}
	fmt.Fprintln(b.errOut(), sess.Status())
	return nil
}
