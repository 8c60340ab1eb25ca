package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const eventQueueCapacity = 256

type EventType uint8

const (
	EventKey EventType = iota
	EventMouseButton
	EventCursorMove
	EventScroll
	EventResize
)

// Event is one windowing occurrence captured by a GLFW callback and
// dispatched during PumpMessages.
type Event struct {
	Type EventType

	Key    glfw.Key
	Button glfw.MouseButton
	Action glfw.Action

	X, Y          float64
	ScrollY       float64
	Width, Height int
}

// InputState is the per-frame snapshot the application reads. Deltas
// reset at the start of every pump.
type InputState struct {
	MouseX, MouseY float64
	DeltaX, DeltaY float64
	ScrollY        float64

	leftDown  bool
	rightDown bool
	keysDown  map[glfw.Key]bool

	havePointer bool
}

func (in *InputState) beginFrame() {
	in.DeltaX = 0
	in.DeltaY = 0
	in.ScrollY = 0
}

func (in *InputState) apply(ev Event) {
	switch ev.Type {
	case EventKey:
		if in.keysDown == nil {
			in.keysDown = make(map[glfw.Key]bool)
		}
		switch ev.Action {
		case glfw.Press:
			in.keysDown[ev.Key] = true
		case glfw.Release:
			delete(in.keysDown, ev.Key)
		}
	case EventMouseButton:
		down := ev.Action == glfw.Press
		switch ev.Button {
		case glfw.MouseButtonLeft:
			in.leftDown = down
		case glfw.MouseButtonRight:
			in.rightDown = down
		}
	case EventCursorMove:
		if in.havePointer {
			in.DeltaX += ev.X - in.MouseX
			in.DeltaY += ev.Y - in.MouseY
		}
		in.MouseX = ev.X
		in.MouseY = ev.Y
		in.havePointer = true
	case EventScroll:
		in.ScrollY += ev.ScrollY
	}
}

func (in *InputState) MouseLeftDown() bool {
	return in.leftDown
}

func (in *InputState) MouseRightDown() bool {
	return in.rightDown
}

func (in *InputState) KeyDown(key glfw.Key) bool {
	return in.keysDown[key]
}

func (w *Window) installCallbacks() {
	w.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.events.Enqueue(Event{Type: EventKey, Key: key, Action: action})
	})
	w.handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		w.events.Enqueue(Event{Type: EventMouseButton, Button: button, Action: action})
	})
	w.handle.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.events.Enqueue(Event{Type: EventCursorMove, X: xpos, Y: ypos})
	})
	w.handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.events.Enqueue(Event{Type: EventScroll, ScrollY: yoff})
	})
	w.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.events.Enqueue(Event{Type: EventResize, Width: width, Height: height})
	})
}
