package greetcard

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the collected modules in order and returns the App.
func (b *AppBuilder) Build() *App {
	return b.app.UseModules(b.modules...)
}
