package backdrop

import (
	"math/rand"
	"time"

	"github.com/gekko3d/backdrop/decor"
)

// Decor holds the page decoration, composed once per mount.
type Decor struct {
	Layout *decor.Layout
	CSS    string
	Err    error
}

type DecorModule struct {
	Config decor.Config
	// Seed fixes the layout; zero seeds from the clock.
	Seed int64
}

func (mod DecorModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Decor{})
	log := app.subLogger("decor")

	app.UseSystem(
		System(func(d *Decor) {
			if d.Layout != nil {
				return
			}
			seed := mod.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			layout, err := decor.Compose(mod.Config, rand.New(rand.NewSource(seed)))
			if err != nil {
				d.Err = err
				log.Errorf("compose: %v", err)
				return
			}
			d.Layout = layout
			d.CSS = layout.CSS()
			log.Debugf("%d orbs, %d hero orbs, %d lines", len(layout.Orbs()), len(layout.HeroOrbs()), len(layout.Lines()))
		}).
			InStage(PreUpdate).
			InState(OnEnter(StateMounted)),
	)
}
