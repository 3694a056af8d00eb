package greetcard

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule opens the shared GLFW window and forwards its
// keyboard, mouse, scroll and resize events into the Input resource.
// InputModule must be installed first. Install is a no-op when a
// WindowState already exists.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow fills zero fields with 1280x720 and the card title.
func NewPlatformWindow(width, height int, title string) PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = DefaultConfig().Window.Title
	}
	return PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

var glfwKeys = map[glfw.Key]Key{
	glfw.KeyUp:     KeyUp,
	glfw.KeyDown:   KeyDown,
	glfw.KeyLeft:   KeyLeft,
	glfw.KeyRight:  KeyRight,
	glfw.KeySpace:  KeySpace,
	glfw.KeyEscape: KeyEscape,
	glfw.KeyM:      KeyM,
}

var glfwButtons = map[glfw.MouseButton]MouseButton{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if Resource[WindowState](app) != nil {
		return
	}
	input := Resource[Input](app)
	if input == nil {
		panic(fmt.Sprintf("PlatformWindowModule requires %T; install InputModule first", Input{}))
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	attachInput(ws, input)
	cmd.AddResources(ws)

	app.OnShutdown(func() {
		win := ws.windowGlfw
		win.SetKeyCallback(nil)
		win.SetMouseButtonCallback(nil)
		win.SetCursorPosCallback(nil)
		win.SetScrollCallback(nil)
		win.SetFramebufferSizeCallback(nil)
		win.Destroy()
		glfw.Terminate()
	})

	// Events are polled in Prelude so inputSystem sees them the same frame.
	app.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude),
	)
}

// attachInput wires GLFW callbacks to the Input queue. Cursor positions are
// scaled to framebuffer pixels, the space the overlay is drawn in.
func attachInput(ws *WindowState, input *Input) {
	win := ws.windowGlfw

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
		k, ok := glfwKeys[key]
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			input.PushKey(k, true, false)
		case glfw.Repeat:
			input.PushKey(k, true, true)
		case glfw.Release:
			input.PushKey(k, false, false)
		}
	})
	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if b, ok := glfwButtons[button]; ok {
			input.PushMouseButton(b, action == glfw.Press)
		}
	})
	win.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		sx, sy := ws.contentScale()
		input.PushCursor(xpos*sx, ypos*sy)
	})
	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		input.PushScroll(yoff)
	})
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		ws.WindowWidth, ws.WindowHeight = width, height
		input.PushResize(width, height)
	})

	ws.WindowWidth, ws.WindowHeight = win.GetFramebufferSize()
	input.PushResize(ws.WindowWidth, ws.WindowHeight)
}

func windowEventsSystem(cmd *Commands, ws *WindowState) {
	glfw.PollEvents()
	if ws.windowGlfw.ShouldClose() {
		cmd.Exit()
	}
}
