package greetcard

// RendererName identifies a renderer backend. Names double as RendererTag
// values.
type RendererName string

const (
	RendererWGPU    RendererName = "wgpu"
	RendererCapture RendererName = "capture"
)

// ensureWindowResource installs a PlatformWindowModule unless a WindowState
// already exists.
func ensureWindowResource(app *App, width, height int, title string) *WindowState {
	if ws := Resource[WindowState](app); ws != nil {
		return ws
	}
	app.UseModules(NewPlatformWindow(width, height, title))
	ws := Resource[WindowState](app)
	app.Logger().Infof("Created shared window (%dx%d) '%s'", ws.WindowWidth, ws.WindowHeight, ws.windowTitle)
	return ws
}

// UseRenderer installs exactly one renderer.
// Usage:
//
//	app.UseRenderer(RendererCapture, &CaptureRenderer{})
func (app *App) UseRenderer(name RendererName, r Renderer) *App {
	app.Logger().Infof("Renderer selected: %s", name)
	return app.UseModules(RenderModule{Name: name, Renderer: r})
}

// UseWGPU opens the shared window if needed and draws into it with WebGPU.
func (app *App) UseWGPU(width, height int, title string) *App {
	ws := ensureWindowResource(app, width, height, title)
	r, err := NewWGPURenderer(ws, app.Logger())
	if err != nil {
		panic(err)
	}
	return app.UseRenderer(RendererWGPU, r)
}

// UseCapture installs an in-memory renderer and returns it so callers can
// inspect the frames it receives.
func (app *App) UseCapture() *CaptureRenderer {
	r := &CaptureRenderer{}
	app.UseRenderer(RendererCapture, r)
	return r
}
