package backdrop

import (
	"fmt"
	"image"
	"math/rand"
	"os"
	"time"

	"github.com/gekko3d/backdrop/decor"
	"github.com/gekko3d/backdrop/poster"
	"github.com/gekko3d/backdrop/rt/gpu"
	"github.com/gekko3d/backdrop/rt/scene"
)

// Backdrop is the animated particle background of the page. When the scene
// cannot run, Poster holds the static fallback instead.
type Backdrop struct {
	Scene  *scene.Scene
	Frames *scene.FrameQueue
	// Err is a *scene.SurfaceUnavailableError, a *scene.RenderDegradedError
	// or a configuration error.
	Err    error
	Poster *image.RGBA

	// Listening is set while resize and pointer input reach the scene.
	Listening bool
}

// Fallback reports whether the page shows the static poster.
func (b *Backdrop) Fallback() bool { return b.Poster != nil }

type BackdropModule struct {
	Particles ParticlesConfig
	Scene     SceneConfig
	// Surface overrides the window surface, for headless runs.
	Surface scene.Surface
	// PosterPath, when set, receives the fallback poster as PNG.
	PosterPath string
}

func (mod BackdropModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, "particles")
	b := &Backdrop{Frames: scene.NewFrameQueue()}
	cmd.AddResources(b)
	log := app.subLogger("backdrop")

	fallback := func(input *Input, err error) {
		b.Err = err
		var layout *decor.Layout
		if d := Resource[Decor](app); d != nil {
			layout = d.Layout
		}
		b.Poster = poster.Render(layout, input.WindowWidth, input.WindowHeight)
		log.Warnf("static fallback: %v", err)
		if mod.PosterPath != "" {
			if err := writePoster(mod.PosterPath, b.Poster); err != nil {
				log.Errorf("%v", err)
			}
		}
	}

	app.UseSystem(
		System(func(input *Input) {
			surface := mod.Surface
			if surface == nil {
				if w := Resource[Window](app); w != nil {
					surface = gpu.WindowSurface{Window: w.Glfw}
				}
			}
			fieldCfg, err := mod.Particles.Field()
			if err != nil {
				fallback(input, err)
				return
			}
			seed := mod.Particles.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			s, err := scene.New(surface, scene.Size{Width: input.WindowWidth, Height: input.WindowHeight},
				scene.WithField(fieldCfg),
				scene.WithRand(rand.New(rand.NewSource(seed))),
				scene.WithFrames(b.Frames),
				scene.WithTimeStep(mod.Scene.TimeStep),
				scene.WithMaxConsecutiveFailures(mod.Scene.MaxConsecutiveFailures),
				scene.WithLogger(app.subLogger("scene")),
				scene.WithOnDegraded(func(err error) { fallback(input, err) }),
				scene.WithOnTeardown(func() {
					b.Listening = false
					log.Debugf("input listeners detached")
				}),
			)
			if err != nil {
				fallback(input, err)
				return
			}
			b.Scene = s
			b.Listening = true
		}).
			InStage(Update).
			InState(OnEnter(StateMounted)),
	)

	app.UseSystem(
		System(func(input *Input) {
			if !b.Listening {
				return
			}
			if input.Resized {
				b.Scene.Resize(scene.Size{Width: input.WindowWidth, Height: input.WindowHeight})
			}
			if input.PointerMoved {
				b.Scene.SetPointer(scene.PointerFromCursor(input.MouseX, input.MouseY, input.WindowWidth, input.WindowHeight))
			}
			b.Frames.Drain()
		}).
			InStage(Render).
			InState(OnExecute(StateMounted)),
	)

	app.UseSystem(
		System(func(b *Backdrop) {
			if b.Scene != nil {
				b.Scene.Teardown()
			}
		}).
			InStage(Render).
			InState(OnExit(StateMounted)),
	)
}

func writePoster(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("poster: %w", err)
	}
	if err := poster.WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("poster: %w", err)
	}
	return f.Close()
}
