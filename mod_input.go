package greetcard

import (
	"math"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	KeyM
	keyCount
)

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	mouseButtonCount
)

// clickSlop is how far, in pixels, the cursor may travel between press and
// release for the pair to still count as a click rather than a drag.
const clickSlop = 4.0

type inputEventKind int

const (
	eventKey inputEventKind = iota
	eventMouseButton
	eventCursor
	eventScroll
	eventResize
)

type inputEvent struct {
	kind   inputEventKind
	key    Key
	button MouseButton
	down   bool
	repeat bool
	x, y   float64
}

// Input is rebuilt every frame from the events queued since the previous
// frame. Platform callbacks and tests feed it through the Push* methods.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
	// KeyDowns counts key-down events this frame, auto-repeat included.
	KeyDowns [keyCount]int

	MousePressed      [mouseButtonCount]bool
	MouseJustPressed  [mouseButtonCount]bool
	MouseJustReleased [mouseButtonCount]bool
	Clicked           [mouseButtonCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64

	WindowWidth, WindowHeight int

	// PointerCaptured is set while a press that began on an overlay control
	// is held, so the press does not also drag the camera.
	PointerCaptured bool

	pressX, pressY [mouseButtonCount]float64
	events         []inputEvent
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func (in *Input) PushKey(key Key, down, repeat bool) {
	in.events = append(in.events, inputEvent{kind: eventKey, key: key, down: down, repeat: repeat})
}

func (in *Input) PushMouseButton(button MouseButton, down bool) {
	in.events = append(in.events, inputEvent{kind: eventMouseButton, button: button, down: down})
}

func (in *Input) PushCursor(x, y float64) {
	in.events = append(in.events, inputEvent{kind: eventCursor, x: x, y: y})
}

func (in *Input) PushScroll(dy float64) {
	in.events = append(in.events, inputEvent{kind: eventScroll, y: dy})
}

func (in *Input) PushResize(width, height int) {
	in.events = append(in.events, inputEvent{kind: eventResize, x: float64(width), y: float64(height)})
}

func inputSystem(input *Input) {
	input.beginFrame()
	for _, ev := range input.events {
		input.apply(ev)
	}
	input.events = input.events[:0]
}

func (in *Input) beginFrame() {
	in.JustPressed = [keyCount]bool{}
	in.JustReleased = [keyCount]bool{}
	in.KeyDowns = [keyCount]int{}
	in.MouseJustPressed = [mouseButtonCount]bool{}
	in.MouseJustReleased = [mouseButtonCount]bool{}
	in.Clicked = [mouseButtonCount]bool{}
	in.MouseDeltaX, in.MouseDeltaY = 0, 0
	in.ScrollY = 0
}

func (in *Input) apply(ev inputEvent) {
	switch ev.kind {
	case eventKey:
		if ev.key <= KeyUnknown || ev.key >= keyCount {
			return
		}
		if ev.down {
			in.KeyDowns[ev.key]++
			if !in.Pressed[ev.key] && !ev.repeat {
				in.JustPressed[ev.key] = true
			}
			in.Pressed[ev.key] = true
		} else {
			if in.Pressed[ev.key] {
				in.JustReleased[ev.key] = true
			}
			in.Pressed[ev.key] = false
		}
	case eventMouseButton:
		b := ev.button
		if b < 0 || b >= mouseButtonCount {
			return
		}
		if ev.down {
			if !in.MousePressed[b] {
				in.MouseJustPressed[b] = true
				in.pressX[b], in.pressY[b] = in.MouseX, in.MouseY
			}
			in.MousePressed[b] = true
		} else {
			if in.MousePressed[b] {
				in.MouseJustReleased[b] = true
				if math.Hypot(in.MouseX-in.pressX[b], in.MouseY-in.pressY[b]) <= clickSlop {
					in.Clicked[b] = true
				}
			}
			in.MousePressed[b] = false
			if b == MouseButtonLeft {
				in.PointerCaptured = false
			}
		}
	case eventCursor:
		in.MouseDeltaX += ev.x - in.MouseX
		in.MouseDeltaY += ev.y - in.MouseY
		in.MouseX, in.MouseY = ev.x, ev.y
	case eventScroll:
		in.ScrollY += ev.y
	case eventResize:
		in.WindowWidth, in.WindowHeight = int(ev.x), int(ev.y)
	}
}

// PressedAt reports where the given button went down most recently.
func (in *Input) PressedAt(b MouseButton) (float64, float64) {
	return in.pressX[b], in.pressY[b]
}
