package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shineyblur/internal/capture"
	"github.com/example/shineyblur/internal/export"
	"github.com/example/shineyblur/internal/imagesrc"
	"github.com/example/shineyblur/internal/notify"
	"github.com/example/shineyblur/internal/selection"
	"github.com/example/shineyblur/internal/session"
	"github.com/example/shineyblur/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ctrl matches a control chord by rune or by key code, since drivers differ
// in which one they fill in while control is held.
func ctrl(r rune, c key.Code) shortcutList {
	return shortcutList{{Rune: r, Modifiers: key.ModControl}, {Code: c, Modifiers: key.ModControl}}
}

// loadedEvent carries a finished imagesrc load back to the event loop.
type loadedEvent struct {
	imagesrc.Result
}

// Seams for tests.
var (
	pasteImage    = imagesrc.LoadFromClipboard
	captureScreen = imagesrc.LoadFromScreen
)

// controller applies input to a session. It owns no window so the event
// loop can stay a thin adapter.
type controller struct {
	sess     *session.Session
	theme    *theme.Theme
	notifier *notify.Notifier
	format   export.Format
	padding  int

	saveSink export.Sink
	copySink export.Sink
	load     func(t imagesrc.Ticket, source string, fn imagesrc.LoadFunc)
	now      func() time.Time

	width, height int
	message       string
	messageUntil  time.Time
	quit          bool

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
}

func newController(a *AppState) *controller {
	c := &controller{
		sess:     a.Session,
		theme:    a.Theme,
		notifier: a.Notifier,
		format:   a.Format,
		padding:  a.Padding,
		saveSink: export.FileSink{Dir: a.OutputDir},
		copySink: export.ClipboardSink{},
		now:      time.Now,
	}
	if c.sess == nil {
		c.sess = session.New()
	}
	if c.theme == nil {
		c.theme = theme.Default()
	}
	c.registerActions()
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	for _, sc := range keys.KeyboardShortcuts() {
		c.keyboardAction[sc] = name
	}
}

func (c *controller) registerActions() {
	c.actions = map[string]func(){}
	c.keyboardAction = map[KeyShortcut]string{}

	c.register("rectangle", shortcutList{{Rune: 'r'}}, func() { c.setKind(selection.KindRectangle) })
	c.register("circle", shortcutList{{Rune: 'o'}}, func() { c.setKind(selection.KindCircle) })
	c.register("toggle", shortcutList{{Code: key.CodeTab}}, func() { c.setKind(c.sess.ToggleKind()) })
	c.register("preview", shortcutList{{Rune: 'p'}}, func() {
		if c.sess.TogglePreview() {
			c.say("preview on")
		} else {
			c.say("preview off")
		}
	})
	c.register("stronger", shortcutList{{Rune: '+'}, {Rune: '='}, {Rune: ']'}}, func() { c.adjustRadius(1) })
	c.register("weaker", shortcutList{{Rune: '-'}, {Rune: '['}}, func() { c.adjustRadius(-1) })
	c.register("save", ctrl('s', key.CodeS), c.save)
	c.register("copy", ctrl('c', key.CodeC), c.copy)
	c.register("paste", ctrl('v', key.CodeV), func() {
		c.startLoad("clipboard", pasteImage)
	})
	c.register("capture", ctrl('n', key.CodeN), func() {
		c.startLoad("screen", func() (*image.RGBA, error) { return captureScreen(capture.Options{}) })
	})
	c.register("reset", ctrl('r', key.CodeR), func() {
		c.sess.ResetSelection()
		c.say("selection reset")
	})
	c.register("quit", shortcutList{{Rune: 'q'}, {Code: key.CodeEscape}}, func() { c.quit = true })
}

func (c *controller) say(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageTime)
	log.Print(msg)
}

func (c *controller) setKind(k selection.Kind) {
	c.sess.SetKind(k)
	c.say(fmt.Sprintf("%s selection", k))
}

func (c *controller) adjustRadius(delta int) {
	r := c.sess.SetBlurRadius(c.sess.BlurRadius() + delta)
	c.say(fmt.Sprintf("blur radius %dpx", r))
}

// startLoad reserves a ticket and hands the load to the loader. The result
// arrives later as a loadedEvent.
func (c *controller) startLoad(source string, fn imagesrc.LoadFunc) {
	t := c.sess.BeginLoad()
	if c.load == nil {
		img, err := fn()
		c.applyLoad(imagesrc.Result{Ticket: t, Source: source, Bitmap: img, Err: err})
		return
	}
	c.say(fmt.Sprintf("loading %s", source))
	c.load(t, source, fn)
}

func (c *controller) applyLoad(r imagesrc.Result) {
	installed, err := c.sess.CompleteLoad(r.Ticket, r.Bitmap, r.Err)
	if err != nil {
		log.Printf("load %s: %v", r.Source, err)
		c.say(fmt.Sprintf("could not load %s", r.Source))
		return
	}
	if !installed {
		return
	}
	c.layout()
	size := c.sess.BitmapSize()
	c.say(fmt.Sprintf("loaded %d × %d image", size.X, size.Y))
	c.notifier.Load(r.Source, r.Bitmap)
}

func (c *controller) export() *export.Artifact {
	if !c.sess.CanExport() {
		c.say("load an image first")
		return nil
	}
	a, err := c.sess.Export(c.now(), c.format)
	if err != nil {
		log.Printf("export: %v", err)
		c.say("export failed")
		return nil
	}
	return a
}

func (c *controller) save() {
	a := c.export()
	if a == nil {
		return
	}
	where, err := c.saveSink.Deliver(context.Background(), a)
	if err != nil {
		log.Printf("save: %v", err)
		c.say("save failed")
		return
	}
	c.say(fmt.Sprintf("saved %s", where))
	c.notifier.Save(where)
}

func (c *controller) copy() {
	a := c.export()
	if a == nil {
		return
	}
	if _, err := c.copySink.Deliver(context.Background(), a); err != nil {
		log.Printf("copy: %v", err)
		c.say("copy failed")
		return
	}
	c.say("image copied to clipboard")
	c.notifier.Copy("image")
}

// resize records the window size and lays the surface out again.
func (c *controller) resize(width, height int) {
	c.width, c.height = width, height
	c.layout()
}

// layout centres the surface horizontally inside the padded canvas area.
func (c *controller) layout() {
	c.sess.SetHostWidth(float64(c.width))
	half := c.padding / 2
	dr := c.sess.Mapper().DisplayRect(c.sess.BitmapSize())
	x := max(half, (c.width-dr.Dx())/2)
	c.sess.SetOrigin(image.Pt(x, half))
}

func (c *controller) canvas() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height-statusHeight)
}

// handleKey runs the action bound to e. It reports whether anything changed.
func (c *controller) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	mods := e.Modifiers &^ key.ModShift
	lookups := []KeyShortcut{
		{Rune: unicode.ToLower(e.Rune), Modifiers: mods},
		{Code: e.Code, Modifiers: mods},
	}
	for _, ks := range lookups {
		if action, ok := c.keyboardAction[ks]; ok {
			c.actions[action]()
			return true
		}
	}
	return false
}

// handleMouse routes pointer input to the session. Movement outside the
// canvas ends any gesture.
func (c *controller) handleMouse(e mouse.Event) bool {
	x, y := float64(e.X), float64(e.Y)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if c.message != "" && c.now().Before(c.messageUntil) {
			c.messageUntil = time.Time{}
		}
		c.sess.PointerDown(x, y)
		return true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		c.sess.PointerUp(x, y)
		return true
	case mouse.DirStep:
		switch e.Button {
		case mouse.ButtonWheelUp:
			c.adjustRadius(1)
			return true
		case mouse.ButtonWheelDown:
			c.adjustRadius(-1)
			return true
		}
		return false
	}
	before := c.sess.Cursor()
	pt := image.Pt(int(x), int(y))
	var changed bool
	if !pt.In(c.canvas()) || !pt.In(c.sess.DisplayRect().Inset(-1)) {
		_, changed = c.sess.PointerLeave(x, y)
	} else {
		_, changed = c.sess.PointerMove(x, y)
	}
	return changed || c.sess.Cursor() != before
}

func (c *controller) paintState() paintState {
	st := paintState{
		width:        c.width,
		height:       c.height,
		theme:        c.theme,
		status:       c.sess.Status(),
		canExport:    c.sess.CanExport(),
		message:      c.message,
		messageUntil: c.messageUntil,
	}
	if surface := c.sess.Surface(); surface != nil {
		st.surface = surface
		st.displayRect = c.sess.DisplayRect()
	}
	preview := "off"
	if c.sess.Preview() {
		preview = "on"
	}
	st.detail = fmt.Sprintf("%s · radius %d · preview %s · %s", c.sess.Kind(), c.sess.BlurRadius(), preview, c.sess.Cursor())
	return st
}
