package backdrop

// Input is the page's pointer, scroll and viewport state for the current
// frame. The window module writes it; the scroll and backdrop modules read it.
type Input struct {
	MouseX, MouseY float64

	ScrollY   float64
	MaxScroll float64 // zero leaves scrolling unbounded
	// ScrollSpeed is px per wheel notch or arrow key press.
	ScrollSpeed float64

	WindowWidth, WindowHeight int

	// per-frame edges, cleared after PostRender
	Scrolled       bool
	Resized        bool
	PointerMoved   bool
	CloseRequested bool
}

const DefaultScrollSpeed = 80

func (in *Input) MoveCursor(x, y float64) {
	in.MouseX, in.MouseY = x, y
	in.PointerMoved = true
}

// ScrollTo sets the document scroll offset, clamped to [0, MaxScroll].
func (in *Input) ScrollTo(y float64) {
	y = max(y, 0)
	if in.MaxScroll > 0 {
		y = min(y, in.MaxScroll)
	}
	if y == in.ScrollY {
		return
	}
	in.ScrollY = y
	in.Scrolled = true
}

func (in *Input) ScrollBy(dy float64) { in.ScrollTo(in.ScrollY + dy) }

func (in *Input) Resize(width, height int) {
	if width == in.WindowWidth && height == in.WindowHeight {
		return
	}
	in.WindowWidth, in.WindowHeight = width, height
	in.Resized = true
}

func (in *Input) RequestClose() { in.CloseRequested = true }

func (in *Input) endFrame() {
	in.Scrolled = false
	in.Resized = false
	in.PointerMoved = false
}

// InputModule provides the Input resource. Pair it with PlatformWindowModule
// for a real window, or drive it directly in headless runs.
type InputModule struct {
	Width, Height int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{
		WindowWidth:  mod.Width,
		WindowHeight: mod.Height,
		ScrollSpeed:  DefaultScrollSpeed,
	})
	app.UseSystem(
		System(func(input *Input) { input.endFrame() }).
			InStage(PostRender).
			RunAlways(),
	)
}
