package greetcard

import (
	"fmt"
)

// RendererTag records which renderer owns the frame. An App draws through
// exactly one renderer.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics when a different renderer is already
// installed. It reports false when name itself is already installed.
func ensureSingleRenderer(app *App, name string) bool {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag := Resource[RendererTag](app); tag != nil {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		return false
	}
	app.addResources(&RendererTag{Name: name})
	return true
}
