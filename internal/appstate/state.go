// Package appstate runs the interactive blur window on top of a session.
package appstate

import (
	"context"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/shineyblur/internal/export"
	"github.com/example/shineyblur/internal/imagesrc"
	"github.com/example/shineyblur/internal/notify"
	"github.com/example/shineyblur/internal/session"
	"github.com/example/shineyblur/internal/theme"
	"github.com/example/shineyblur/internal/viewport"
)

const (
	defaultWindowWidth  = viewport.DefaultMaxWidth + viewport.DefaultPadding
	defaultWindowHeight = 600
)

// AppState holds application configuration for the UI.
type AppState struct {
	Session   *session.Session
	Theme     *theme.Theme
	Notifier  *notify.Notifier
	OutputDir string
	Format    export.Format
	Padding   int
	Title     string

	initialSource string
	initialLoad   imagesrc.LoadFunc

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the session edited by the window.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the notifier used for load, save and copy events.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOutputDir sets the directory ctrl+s saves into.
func WithOutputDir(dir string) Option { return func(a *AppState) { a.OutputDir = dir } }

// WithFormat sets the encoding used for saves and copies.
func WithFormat(f export.Format) Option { return func(a *AppState) { a.Format = f } }

// WithPadding sets the horizontal padding around the surface. It should
// match the session's container padding.
func WithPadding(p int) Option { return func(a *AppState) { a.Padding = p } }

// WithInitialLoad starts loading an image as soon as the window opens.
func WithInitialLoad(source string, load imagesrc.LoadFunc) Option {
	return func(a *AppState) {
		a.initialSource = source
		a.initialLoad = load
	}
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Padding: viewport.DefaultPadding,
		Title:   "ShineyBlur",
	}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		a.Session = session.New(session.WithContainerPadding(float64(a.Padding)))
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	width, height := defaultWindowWidth, defaultWindowHeight
	if size := a.Session.BitmapSize(); size.X > 0 {
		width = min(size.X, viewport.DefaultMaxWidth) + a.Padding
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	c := newController(a)
	c.resize(width, height)
	requester := &imagesrc.Requester{Post: func(r imagesrc.Result) { w.Send(loadedEvent{r}) }}
	c.load = requester.Run
	if a.initialLoad != nil {
		c.startLoad(a.initialSource, a.initialLoad)
	}

	// stopped before the deferred Release so no frame touches a released window
	painter := newPainter(func(ctx context.Context, st paintState) { drawFrame(ctx, s, w, st) })
	defer painter.stop()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case loadedEvent:
			c.applyLoad(e.Result)
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				painter.interrupt()
				return
			}
		case size.Event:
			c.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			painter.submit(c.paintState())
		case mouse.Event:
			if c.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if c.handleKey(e) {
				if c.quit {
					painter.interrupt()
					return
				}
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}
