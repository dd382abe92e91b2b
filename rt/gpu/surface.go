package gpu

import (
	"github.com/gekko3d/backdrop/rt/scene"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var _ scene.Pipeline = (*ParticlePass)(nil)

// WindowSurface hands a glfw window to the scene as a drawing surface.
type WindowSurface struct {
	Window *glfw.Window
}

func (w WindowSurface) Acquire(size scene.Size) (scene.Pipeline, error) {
	pass, err := Open(w.Window, size.Width, size.Height)
	if err != nil {
		return nil, err
	}
	return pass, nil
}
