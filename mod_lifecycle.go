package backdrop

import (
	"time"
)

// Lifecycle tracks how long the page has spent loading.
type Lifecycle struct {
	Loading time.Duration
	Elapsed time.Duration
}

// LifecycleModule mounts the page once Loading has elapsed and unmounts it
// when the window asks to close. It needs TimeModule and InputModule.
type LifecycleModule struct {
	Loading time.Duration
}

func (mod LifecycleModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Lifecycle{Loading: mod.Loading})
	log := app.subLogger("lifecycle")

	app.UseSystem(
		System(func(t *Time, lc *Lifecycle, input *Input, cmd *Commands) {
			lc.Elapsed += t.Dt
			if lc.Elapsed >= lc.Loading && !input.CloseRequested {
				log.Infof("loaded in %v", lc.Elapsed)
				cmd.ChangeState(StateMounted)
			}
		}).
			InStage(PostRender).
			InState(OnExecute(StateLoading)),
	)
	app.UseSystem(
		System(func(input *Input, cmd *Commands) {
			if input.CloseRequested && cmd.State() != StateUnmounted {
				cmd.ChangeState(StateUnmounted)
			}
		}).
			InStage(PostRender).
			RunAlways(),
	)
}
