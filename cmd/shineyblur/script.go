package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/shineyblur/internal/export"
	"github.com/example/shineyblur/internal/imagesrc"
	"github.com/example/shineyblur/internal/selection"
	"github.com/example/shineyblur/internal/session"
)

// scriptCmd drives a session from text commands, one per line.
type scriptCmd struct {
	file      string
	keepGoing bool
	settings  blurSettings

	sess *session.Session
	now  func() time.Time
	*root
	fs *flag.FlagSet
}

func (s *scriptCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *scriptCmd) Program() string {
	return s.root.Program() + " script"
}

func parseScriptCmd(args []string, r *root) (*scriptCmd, error) {
	fs := flag.NewFlagSet("script", flag.ContinueOnError)
	s := &scriptCmd{root: r, fs: fs, now: time.Now}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.file, "file", "", "read commands from this file instead of stdin")
	fs.BoolVar(&s.keepGoing, "keep-going", false, "report failing commands and continue")
	s.settings.register(fs, r)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *scriptCmd) Run() error {
	opts, _, err := s.settings.options(s.root, s.cfg().Blur.Preview)
	if err != nil {
		return err
	}
	s.sess = session.New(opts...)

	in := s.in()
	if s.file != "" {
		f, err := os.Open(s.file)
		if err != nil {
			return fmt.Errorf("script: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Printf("error closing %q: %v", s.file, cerr)
			}
		}()
		in = f
	}
	return s.run(in)
}

func (s *scriptCmd) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		done, err := s.executeLine(text)
		if err != nil {
			if !s.keepGoing {
				return fmt.Errorf("line %d: %w", line, err)
			}
			fmt.Fprintf(s.errOut(), "line %d: %v\n", line, err)
		}
		if done {
			return nil
		}
	}
	return scanner.Err()
}

// executeLine runs one command. It reports true when the script should stop.
func (s *scriptCmd) executeLine(text string) (bool, error) {
	args := strings.Fields(text)
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "load":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: load PATH")
		}
		path := args[0]
		return false, s.load(path, func() (*image.RGBA, error) { return loadFileFn(path) })
	case "url":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: url URL")
		}
		url := args[0]
		return false, s.load(url, func() (*image.RGBA, error) { return loadURLFn(url) })
	case "shape":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: shape rectangle|circle")
		}
		k, err := selection.ParseKind(args[0])
		if err != nil {
			return false, err
		}
		s.sess.SetKind(k)
	case "radius":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: radius N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid radius %q", args[0])
		}
		s.sess.SetBlurRadius(n)
	case "preview":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: preview on|off")
		}
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			s.sess.SetPreview(true)
		case "off", "false", "0":
			s.sess.SetPreview(false)
		default:
			return false, fmt.Errorf("usage: preview on|off")
		}
	case "container":
		v, err := floatArgs(args, 1, "container W")
		if err != nil {
			return false, err
		}
		s.sess.SetContainerWidth(v[0])
	case "origin":
		v, err := floatArgs(args, 2, "origin X Y")
		if err != nil {
			return false, err
		}
		s.sess.SetOrigin(image.Pt(int(v[0]), int(v[1])))
	case "down", "move":
		v, err := floatArgs(args, 2, cmd+" X Y")
		if err != nil {
			return false, err
		}
		if cmd == "down" {
			s.sess.PointerDown(v[0], v[1])
		} else {
			s.sess.PointerMove(v[0], v[1])
		}
	case "up":
		x, y, err := s.optionalPoint(args, "up [X Y]")
		if err != nil {
			return false, err
		}
		s.sess.PointerUp(x, y)
	case "leave":
		x, y, err := s.optionalPoint(args, "leave [X Y]")
		if err != nil {
			return false, err
		}
		s.sess.PointerLeave(x, y)
	case "reset":
		s.sess.ResetSelection()
	case "status":
		fmt.Fprintln(s.out(), s.sess.Status())
	case "cursor":
		fmt.Fprintln(s.out(), s.sess.Cursor())
	case "export":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: export PATH")
		}
		return false, s.export(args[0])
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

// load runs fn through the same ticketing the window uses.
func (s *scriptCmd) load(source string, fn imagesrc.LoadFunc) error {
	t := s.sess.BeginLoad()
	img, err := fn()
	if _, err := s.sess.CompleteLoad(t, img, err); err != nil {
		return err
	}
	s.notifier.Load(source, img)
	return nil
}

func (s *scriptCmd) export(path string) error {
	format, err := export.ParseFormat(filepath.Ext(path))
	if err != nil {
		format, err = export.ParseFormat(s.settings.format)
		if err != nil {
			return err
		}
	}
	a, err := s.sess.Export(s.now(), format)
	if err != nil {
		return err
	}
	if a == nil {
		return export.ErrNoBitmap
	}
	where, err := export.FileSink{Path: path}.Deliver(context.Background(), a)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.errOut(), "saved %s\n", where)
	s.notifier.Save(where)
	return nil
}

// optionalPoint returns the given point, or the surface origin when none is
// given.
func (s *scriptCmd) optionalPoint(args []string, usage string) (float64, float64, error) {
	if len(args) == 0 {
		o := s.sess.Origin()
		return float64(o.X), float64(o.Y), nil
	}
	v, err := floatArgs(args, 2, usage)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}

func floatArgs(args []string, n int, usage string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
