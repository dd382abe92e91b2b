package backdrop

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is the shared GLFW window resource.
type Window struct {
	Glfw   *glfw.Window
	Width  int
	Height int
	Title  string
}

// PlatformWindowModule opens the window and feeds glfw events into Input.
// Install is idempotent: an existing Window resource is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Backdrop"
	}
	return &PlatformWindowModule{Width: width, Height: height, Title: title}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if Resource[Window](app) != nil {
		// single window per app
		return
	}
	win, err := createWindow(m.Width, m.Height, m.Title)
	if err != nil {
		panic(err)
	}
	app.addResources(win)
	if Resource[Input](app) == nil {
		InputModule{Width: m.Width, Height: m.Height}.Install(app, cmd)
	}
	input := Resource[Input](app)
	input.Resize(m.Width, m.Height)
	bindWindowCallbacks(win, input)

	app.UseSystem(
		System(pollWindowSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(func(w *Window) {
			w.Glfw.Destroy()
			glfw.Terminate()
		}).
			InStage(PostRender).
			InState(OnEnter(StateUnmounted)),
	)
}

func createWindow(width, height int, title string) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw window: %w", err)
	}
	return &Window{Glfw: win, Width: width, Height: height, Title: title}, nil
}

func bindWindowCallbacks(w *Window, input *Input) {
	w.Glfw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		input.MoveCursor(x, y)
	})
	w.Glfw.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		// wheel up is positive, document scroll grows downward
		input.ScrollBy(-yoff * input.ScrollSpeed)
	})
	w.Glfw.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width, w.Height = width, height
		input.Resize(width, height)
	})
	w.Glfw.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		page := float64(input.WindowHeight) * 0.9
		switch key {
		case glfw.KeyEscape:
			input.RequestClose()
		case glfw.KeyDown:
			input.ScrollBy(input.ScrollSpeed)
		case glfw.KeyUp:
			input.ScrollBy(-input.ScrollSpeed)
		case glfw.KeyPageDown, glfw.KeySpace:
			input.ScrollBy(page)
		case glfw.KeyPageUp:
			input.ScrollBy(-page)
		case glfw.KeyHome:
			input.ScrollTo(0)
		case glfw.KeyEnd:
			input.ScrollTo(input.MaxScroll)
		}
	})
}

func pollWindowSystem(w *Window, input *Input) {
	glfw.PollEvents()
	if w.Glfw.ShouldClose() {
		input.RequestClose()
	}
}
