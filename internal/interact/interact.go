// Package interact implements the pointer gesture state machine that moves
// and resizes a selection.
package interact

import (
	"fmt"
	"image"

	"github.com/example/shineyblur/internal/selection"
)

// State is the current gesture phase.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Cursor is the pointer affordance to show for the current position.
type Cursor int

const (
	CursorCrosshair Cursor = iota
	CursorMove
	CursorResizeNWSE
	CursorResizeNESW
	CursorResizeEW
)

func (c Cursor) String() string {
	switch c {
	case CursorMove:
		return "move"
	case CursorResizeNWSE:
		return "nw-resize"
	case CursorResizeNESW:
		return "ne-resize"
	case CursorResizeEW:
		return "e-resize"
	default:
		return "crosshair"
	}
}

// CursorFor maps a handle to its resize cursor.
func CursorFor(h selection.Handle) Cursor {
	switch h {
	case selection.HandleTopLeft, selection.HandleBottomRight:
		return CursorResizeNWSE
	case selection.HandleTopRight, selection.HandleBottomLeft:
		return CursorResizeNESW
	case selection.HandleCircle:
		return CursorResizeEW
	}
	return CursorCrosshair
}

// EventKind enumerates pointer events.
type EventKind int

const (
	Down EventKind = iota
	Move
	Up
	Leave
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Leave:
		return "leave"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a pointer event already converted to image pixels.
type Event struct {
	Kind  EventKind
	Point selection.Point
}

// Gesture is the interaction state. Grab is only meaningful while Dragging
// and Handle only while Resizing.
type Gesture struct {
	State  State
	Grab   selection.Point
	Handle selection.Handle
}

// Result is the outcome of a single transition.
type Result struct {
	Gesture Gesture
	Shape   selection.Shape
	Cursor  Cursor
	// Changed reports whether Shape differs from the input.
	Changed bool
}

// Step applies ev to the gesture and shape. tolerance is the handle hit
// radius in image pixels.
func Step(g Gesture, s selection.Shape, ev Event, size image.Point, tolerance float64) Result {
	res := Result{Gesture: g, Shape: s}
	switch ev.Kind {
	case Down:
		if h := s.HitTest(ev.Point, tolerance); h != selection.HandleNone {
			res.Gesture = Gesture{State: Resizing, Handle: h}
			res.Cursor = CursorFor(h)
			return res
		}
		if s.Contains(ev.Point) {
			res.Gesture = Gesture{State: Dragging, Grab: ev.Point.Sub(s.Origin())}
			res.Cursor = CursorMove
			return res
		}
		res.Gesture = Gesture{}
		res.Cursor = CursorCrosshair
	case Move:
		switch g.State {
		case Dragging:
			res.Shape = s.MoveTo(ev.Point.Sub(g.Grab), size)
			res.Cursor = CursorMove
		case Resizing:
			res.Shape = s.Resize(g.Handle, ev.Point, size)
			res.Cursor = CursorFor(g.Handle)
		default:
			res.Cursor = Hover(s, ev.Point, tolerance)
		}
		res.Changed = res.Shape != s
	case Up, Leave:
		res.Gesture = Gesture{}
		res.Cursor = Hover(s, ev.Point, tolerance)
		if ev.Kind == Leave {
			res.Cursor = CursorCrosshair
		}
	}
	return res
}

// Hover returns the cursor for an idle pointer at p.
func Hover(s selection.Shape, p selection.Point, tolerance float64) Cursor {
	if h := s.HitTest(p, tolerance); h != selection.HandleNone {
		return CursorFor(h)
	}
	if s.Contains(p) {
		return CursorMove
	}
	return CursorCrosshair
}

// Machine keeps the gesture between events.
type Machine struct {
	Gesture Gesture
}

// Handle feeds ev through Step and remembers the resulting gesture.
func (m *Machine) Handle(s selection.Shape, ev Event, size image.Point, tolerance float64) Result {
	res := Step(m.Gesture, s, ev, size, tolerance)
	m.Gesture = res.Gesture
	return res
}

// Active reports whether a drag or resize is in progress.
func (m *Machine) Active() bool { return m.Gesture.State != Idle }

// Reset drops any gesture in progress.
func (m *Machine) Reset() { m.Gesture = Gesture{} }
