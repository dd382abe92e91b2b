package backdrop

import (
	"fmt"
)

// RendererTag marks that a renderer owns the window surface.
// A page has a single animated backdrop.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics when a different renderer is already installed.
func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag := Resource[RendererTag](app); tag != nil {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		panic(fmt.Sprintf("Renderer %s installed twice", name))
	}
	app.addResources(&RendererTag{Name: name})
}
