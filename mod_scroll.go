package backdrop

import (
	"github.com/gekko3d/backdrop/scroll"
)

// Page is the scroll-animated document: one Node per named element, the
// scheduler driving them, and the free-running intro and crossing tweens.
type Page struct {
	Scheduler *scroll.Scheduler
	Nodes     map[string]*scroll.Node
	Counters  map[string]*scroll.Counter
	Intro     map[string]*scroll.Timeline
	Height    float64

	order  []string
	tweens map[*scroll.Node]*scroll.Timeline
}

// Node returns the named element, or nil.
func (p *Page) Node(name string) *scroll.Node { return p.Nodes[name] }

// Tweens counts crossing tweens still playing.
func (p *Page) Tweens() int { return len(p.tweens) }

func (p *Page) node(name string, rect scroll.Rect) *scroll.Node {
	if n, ok := p.Nodes[name]; ok {
		return n
	}
	n := scroll.NewNode(name, rect.Top, rect.Height)
	p.Nodes[name] = n
	p.order = append(p.order, name)
	return n
}

// tween replaces whatever crossing tween n is running with a fresh one from
// its current values.
func (p *Page) tween(n *scroll.Node, t *compiledTween) {
	if prev, ok := p.tweens[n]; ok {
		prev.Kill()
	}
	tl := scroll.NewTimeline().To(n, t.to, t.dur, t.ease)
	tl.Play()
	if !tl.Playing() {
		delete(p.tweens, n)
		return
	}
	p.tweens[n] = tl
}

func (p *Page) advance(dt float64) {
	for _, tl := range p.Intro {
		tl.Advance(dt)
	}
	for n, tl := range p.tweens {
		if _, ok := n.Rect(); !ok {
			tl.Kill()
		}
		if !tl.Advance(dt) {
			delete(p.tweens, n)
		}
	}
}

func (p *Page) stop() {
	for _, tl := range p.Intro {
		tl.Kill()
	}
	for n, tl := range p.tweens {
		tl.Kill()
		delete(p.tweens, n)
	}
}

type ScrollModule struct {
	Page PageConfig
}

func (mod ScrollModule) Install(app *App, cmd *Commands) {
	page := &Page{}
	cmd.AddResources(page)
	log := app.subLogger("scroll")

	app.UseSystem(
		System(func(input *Input, page *Page) {
			page.Scheduler = scroll.New(
				scroll.WithLogger(log),
				scroll.WithViewport(float64(input.WindowHeight), input.ScrollY),
			)
			page.Nodes = map[string]*scroll.Node{}
			page.Counters = map[string]*scroll.Counter{}
			page.Intro = map[string]*scroll.Timeline{}
			page.tweens = map[*scroll.Node]*scroll.Timeline{}
			page.order = nil
			page.Height = 0

			for _, section := range mod.Page.Sections {
				if err := mountSection(page, section); err != nil {
					log.Errorf("section %q: %v", section.Name, err)
				}
				page.Height = max(page.Height, section.Top+section.Height)
			}
			for _, intro := range mod.Page.Intro {
				if err := mountIntro(page, intro); err != nil {
					log.Errorf("intro %q: %v", intro.Name, err)
				}
			}
			input.MaxScroll = max(page.Height-float64(input.WindowHeight), 0)
			log.Infof("%d triggers, %d intro timelines on %d elements", page.Scheduler.Len(), len(page.Intro), len(page.Nodes))
		}).
			InStage(Update).
			InState(OnEnter(StateMounted)),
	)

	app.UseSystem(
		System(func(input *Input, t *Time, page *Page) {
			if page.Scheduler == nil {
				return
			}
			if input.Resized {
				input.MaxScroll = max(page.Height-float64(input.WindowHeight), 0)
				page.Scheduler.OnResize(float64(input.WindowHeight))
			}
			if input.Scrolled {
				page.Scheduler.OnScroll(input.ScrollY)
			}
			page.Scheduler.Tick(t.Seconds())
			page.advance(t.Seconds())
		}).
			InStage(Update).
			InState(OnExecute(StateMounted)),
	)

	app.UseSystem(
		System(func(page *Page) {
			if page.Scheduler == nil {
				return
			}
			removed := 0
			for _, name := range page.order {
				removed += page.Scheduler.Unregister(page.Nodes[name])
			}
			page.Scheduler.Clear()
			page.stop()
			log.Debugf("unregistered %d triggers", removed)
		}).
			InStage(Update).
			InState(OnExit(StateMounted)),
	)
}

func mountIntro(page *Page, intro IntroConfig) error {
	eases, err := intro.compile()
	if err != nil {
		return err
	}
	tl := scroll.NewTimeline().Repeat(intro.Repeat).Yoyo(intro.Yoyo).StartDelay(intro.Delay)
	for i, st := range intro.Steps {
		target := intro.Name
		if st.Target != "" {
			target = st.Target
		}
		tl.FromTo(page.node(target, scroll.Rect{}), st.From, st.To, st.Duration, eases[i], scroll.At(st.At), scroll.Delay(st.Delay))
	}
	tl.Play()
	page.Intro[intro.Name] = tl
	return nil
}

func mountSection(page *Page, section SectionConfig) error {
	compiled, err := section.compile()
	if err != nil {
		return err
	}
	rect := scroll.Rect{Top: section.Top, Height: section.Height}
	el := page.node(section.Name, rect)

	var anim scroll.Animation
	if len(section.Steps) > 0 {
		tl := scroll.NewTimeline()
		for i, st := range section.Steps {
			target := el
			if st.Target != "" {
				target = page.node(st.Target, rect)
			}
			tl.FromTo(target, st.From, st.To, st.Duration, compiled.eases[i], scroll.At(st.At), scroll.Delay(st.Delay))
		}
		anim = tl
	}

	var callbacks scroll.Callbacks
	if len(section.Effects) > 0 {
		effects := section.Effects
		targets := make([]*scroll.Node, len(effects))
		for i, fx := range effects {
			targets[i] = el
			if fx.Target != "" {
				targets[i] = page.node(fx.Target, rect)
			}
		}
		callbacks.OnUpdate = func(_ *scroll.Trigger, p float64) {
			for i, fx := range effects {
				targets[i].SetProp(fx.Prop, fx.Base+fx.Delta*p)
			}
		}
	}
	crossing := func(t *compiledTween) func(*scroll.Trigger) {
		if t == nil {
			return nil
		}
		return func(*scroll.Trigger) { page.tween(el, t) }
	}
	callbacks.OnEnter = crossing(compiled.onEnter)
	callbacks.OnLeave = crossing(compiled.onLeave)
	callbacks.OnEnterBack = crossing(compiled.onEnterBack)
	callbacks.OnLeaveBack = crossing(compiled.onLeaveBack)

	if anim != nil || len(section.Effects) > 0 || !section.Crossings.empty() {
		if _, err := page.Scheduler.Register(el, compiled.bounds, anim, compiled.mode,
			scroll.WithName(section.Name),
			scroll.WithActions(compiled.actions),
			scroll.WithCallbacks(callbacks),
		); err != nil {
			return err
		}
	}

	for i, c := range section.Counters {
		n := page.node(c.Name, rect)
		counter := scroll.NewCounter(n, c.Target, c.Duration, compiled.counter[i])
		if _, err := page.Scheduler.Register(n, compiled.bounds, counter, scroll.Discrete,
			scroll.WithName(c.Name),
			scroll.WithActions(compiled.actions),
		); err != nil {
			return err
		}
		page.Counters[c.Name] = counter
	}
	return nil
}
