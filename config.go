package backdrop

import (
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/backdrop/decor"
	"github.com/gekko3d/backdrop/rt/field"
	"github.com/gekko3d/backdrop/rt/scene"
	"github.com/gekko3d/backdrop/scroll"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Debug     bool            `yaml:"debug"`
	Window    WindowConfig    `yaml:"window"`
	Loading   time.Duration   `yaml:"loading"`
	Particles ParticlesConfig `yaml:"particles"`
	Scene     SceneConfig     `yaml:"scene"`
	Decor     decor.Config    `yaml:"decor"`
	Page      PageConfig      `yaml:"page"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type ParticlesConfig struct {
	Count        int     `yaml:"count"`
	BoundsRadius float32 `yaml:"bounds_radius"`
	SizeMin      float32 `yaml:"size_min"`
	SizeMax      float32 `yaml:"size_max"`
	// ColorFrom and ColorTo replace the neon gradient when both are set.
	ColorFrom string `yaml:"color_from"`
	ColorTo   string `yaml:"color_to"`
	// Seed fixes the layout; zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type SceneConfig struct {
	TimeStep               float32 `yaml:"time_step"`
	MaxConsecutiveFailures int     `yaml:"max_consecutive_failures"`
}

type PageConfig struct {
	// Intro timelines play once the page mounts, independent of scrolling.
	Intro    []IntroConfig   `yaml:"intro"`
	Sections []SectionConfig `yaml:"sections"`
}

// IntroConfig is a mount-time timeline. Steps without a target animate the
// element called Name.
type IntroConfig struct {
	Name   string       `yaml:"name"`
	Delay  float64      `yaml:"delay"`
	Repeat int          `yaml:"repeat"` // -1 loops forever
	Yoyo   bool         `yaml:"yoyo"`
	Steps  []StepConfig `yaml:"steps"`
}

// SectionConfig is one scroll trigger and everything it animates.
type SectionConfig struct {
	Name    string  `yaml:"name"`
	Top     float64 `yaml:"top"`
	Height  float64 `yaml:"height"`
	Start   string  `yaml:"start"`
	End     string  `yaml:"end"`
	Actions string  `yaml:"actions"`
	// Mode is discrete, scrub or smooth.
	Mode     string          `yaml:"mode"`
	Steps    []StepConfig    `yaml:"steps"`
	Counters []CounterConfig `yaml:"counters"`
	Effects  []EffectConfig  `yaml:"effects"`
	// Crossings tween the section element on each boundary crossing.
	Crossings CrossingsConfig `yaml:"crossings"`
}

type CrossingsConfig struct {
	OnEnter     *TweenConfig `yaml:"on_enter"`
	OnLeave     *TweenConfig `yaml:"on_leave"`
	OnEnterBack *TweenConfig `yaml:"on_enter_back"`
	OnLeaveBack *TweenConfig `yaml:"on_leave_back"`
}

func (c CrossingsConfig) empty() bool {
	return c.OnEnter == nil && c.OnLeave == nil && c.OnEnterBack == nil && c.OnLeaveBack == nil
}

// TweenConfig is a one-off tween from the element's current values.
type TweenConfig struct {
	To       map[string]float64 `yaml:"to"`
	Duration float64            `yaml:"duration"`
	Ease     string             `yaml:"ease"`
}

// StepConfig is one tween. Target names a node; empty targets the section.
type StepConfig struct {
	Target   string             `yaml:"target"`
	From     map[string]float64 `yaml:"from"`
	To       map[string]float64 `yaml:"to"`
	Duration float64            `yaml:"duration"`
	Ease     string             `yaml:"ease"`
	At       float64            `yaml:"at"`
	Delay    float64            `yaml:"delay"`
}

type CounterConfig struct {
	Name     string  `yaml:"name"`
	Target   int     `yaml:"target"`
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
}

// EffectConfig sets Prop to Base + Delta*progress on every progress update.
type EffectConfig struct {
	Target string  `yaml:"target"`
	Prop   string  `yaml:"prop"`
	Base   float64 `yaml:"base"`
	Delta  float64 `yaml:"delta"`
}

func DefaultConfig() Config {
	f := field.DefaultConfig()
	return Config{
		Window:  WindowConfig{Width: 1280, Height: 720, Title: "Backdrop"},
		Loading: 3 * time.Second,
		Particles: ParticlesConfig{
			Count:        f.Count,
			BoundsRadius: f.BoundsRadius,
			SizeMin:      f.SizeMin,
			SizeMax:      f.SizeMax,
		},
		Scene: SceneConfig{
			TimeStep:               scene.DefaultTimeStep,
			MaxConsecutiveFailures: scene.DefaultMaxConsecutiveFailures,
		},
		Decor: decor.DefaultConfig(),
		Page:  defaultPage(),
	}
}

func defaultPage() PageConfig {
	sections := []SectionConfig{
		{
			Name: "hero", Top: 0, Height: 900,
			Start: "top center", End: "bottom center", Mode: "smooth",
			Effects: []EffectConfig{
				{Prop: scroll.PropScale, Base: 1, Delta: -0.1},
				{Prop: scroll.PropOpacity, Base: 1, Delta: -0.3},
			},
		},
		{
			Name: "features", Top: 900, Height: 1400,
			Start: "top 80%", End: "top 20%", Actions: "play none none reverse",
			Steps: []StepConfig{
				{Target: "features-title", From: map[string]float64{"y": 60, "opacity": 0}, To: map[string]float64{"y": 0, "opacity": 1}, Duration: 0.8, Ease: "power3.out"},
				{Target: "features-subtitle", From: map[string]float64{"y": 40, "opacity": 0}, To: map[string]float64{"y": 0, "opacity": 1}, Duration: 0.6, Ease: "power3.out", At: -0.4},
			},
		},
	}

	parallax := SectionConfig{
		Name: "features-parallax", Top: 900, Height: 1400,
		Start: "top bottom", End: "bottom top", Mode: "scrub",
	}
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("feature-card-%d", i)
		sections = append(sections, SectionConfig{
			Name: name, Top: 1300 + float64(i/2)*420, Height: 380,
			Start: "top 85%", End: "bottom 15%", Actions: "play none none reverse",
			Steps: []StepConfig{{
				From:     map[string]float64{"y": 80, "opacity": 0, "scale": 0.9, "rotationY": 10},
				To:       map[string]float64{"y": 0, "opacity": 1, "scale": 1, "rotationY": 0},
				Duration: 0.8, Ease: "power3.out", Delay: float64(i) * 0.1,
			}},
			Crossings: cardCrossings(),
		})
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		parallax.Effects = append(parallax.Effects,
			EffectConfig{Target: name, Prop: scroll.PropY, Delta: sign * 20},
			EffectConfig{Target: name, Prop: scroll.PropRotationX, Delta: sign * 2},
		)
	}
	sections = append(sections, parallax, SectionConfig{
		Name: "stats", Top: 2300, Height: 400,
		Start: "top 80%", End: "bottom 20%",
		Counters: []CounterConfig{
			{Name: "stat-projects", Target: 200, Duration: 2, Ease: "power2.out"},
			{Name: "stat-integrations", Target: 850, Duration: 2, Ease: "power2.out"},
			{Name: "stat-satisfaction", Target: 99, Duration: 2, Ease: "power2.out"},
			{Name: "stat-support", Target: 24, Duration: 2, Ease: "power2.out"},
		},
	})
	return PageConfig{Intro: heroIntro(), Sections: sections}
}

func heroIntro() []IntroConfig {
	hidden := map[string]float64{"y": 100, "opacity": 0}
	shown := map[string]float64{"y": 0, "opacity": 1}
	return []IntroConfig{
		{
			Name: "hero-intro", Delay: 0.5,
			Steps: []StepConfig{
				{Target: "hero-title", From: hidden, To: shown, Duration: 1.5, Ease: "power4.out"},
				{Target: "hero-subtitle", From: hidden, To: shown, Duration: 1.2, Ease: "power4.out", At: -0.8},
				{Target: "hero-button", From: hidden, To: shown, Duration: 1, Ease: "back.out(1.7)", At: -0.6},
			},
		},
		{
			// starts when the title has landed
			Name: "hero-title-morph", Delay: 2, Repeat: -1, Yoyo: true,
			Steps: []StepConfig{{Target: "hero-title", To: map[string]float64{"scale": 1.05}, Duration: 2, Ease: "power2.inOut"}},
		},
		{
			Name: "hero-float", Repeat: -1, Yoyo: true,
			Steps: []StepConfig{{Target: "hero", To: map[string]float64{"y": -20}, Duration: 3, Ease: "power2.inOut"}},
		},
	}
}

func cardCrossings() CrossingsConfig {
	pose := func(scale, rotationY, z, dur float64, ease string) *TweenConfig {
		return &TweenConfig{
			To:       map[string]float64{scroll.PropScale: scale, scroll.PropRotationY: rotationY, scroll.PropZ: z},
			Duration: dur, Ease: ease,
		}
	}
	front := pose(1, 0, 0, 0.8, "power3.out")
	return CrossingsConfig{
		OnEnter:     front,
		OnLeave:     pose(0.95, -5, -50, 0.6, "power2.inOut"),
		OnEnterBack: front,
		OnLeaveBack: pose(0.98, 3, -30, 0.6, "power2.inOut"),
	}
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Lists such as page.sections replace the defaults as a whole.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Loading < 0 {
		return fmt.Errorf("config: loading: must not be negative")
	}
	if _, err := c.Particles.Field(); err != nil {
		return fmt.Errorf("config: particles: %w", err)
	}
	if c.Scene.TimeStep <= 0 {
		return fmt.Errorf("config: scene.time_step: must be positive")
	}
	if err := c.Decor.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for i, in := range c.Page.Intro {
		if in.Name == "" {
			return fmt.Errorf("config: page.intro[%d]: missing name", i)
		}
		if _, err := in.compile(); err != nil {
			return fmt.Errorf("config: intro %q: %w", in.Name, err)
		}
	}
	seen := map[string]bool{}
	for i, s := range c.Page.Sections {
		if s.Name == "" {
			return fmt.Errorf("config: page.sections[%d]: missing name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("config: page.sections[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
		if _, err := s.compile(); err != nil {
			return fmt.Errorf("config: section %q: %w", s.Name, err)
		}
	}
	return nil
}

// Field converts the particle settings, validating them.
func (p ParticlesConfig) Field() (field.Config, error) {
	cfg := field.Config{
		Count:        p.Count,
		BoundsRadius: p.BoundsRadius,
		SizeMin:      p.SizeMin,
		SizeMax:      p.SizeMax,
		Gradient:     field.NeonGradient,
	}
	if p.ColorFrom != "" || p.ColorTo != "" {
		g, err := field.ParseGradient(p.ColorFrom, p.ColorTo)
		if err != nil {
			return field.Config{}, err
		}
		cfg.Gradient = g
	}
	if err := cfg.Validate(); err != nil {
		return field.Config{}, err
	}
	return cfg, nil
}

// compiledSection is a SectionConfig with every string parsed.
type compiledSection struct {
	bounds  scroll.Boundaries
	actions scroll.Actions
	mode    scroll.Mode
	eases   []scroll.Ease
	counter []scroll.Ease

	onEnter, onLeave, onEnterBack, onLeaveBack *compiledTween
}

type compiledTween struct {
	to   scroll.Props
	dur  float64
	ease scroll.Ease
}

func (t *TweenConfig) compile() (*compiledTween, error) {
	if t == nil {
		return nil, nil
	}
	if len(t.To) == 0 {
		return nil, fmt.Errorf("crossing tween without props")
	}
	if t.Duration < 0 {
		return nil, fmt.Errorf("crossing duration %v must not be negative", t.Duration)
	}
	e, err := scroll.ParseEase(t.Ease)
	if err != nil {
		return nil, err
	}
	return &compiledTween{to: scroll.Props(t.To), dur: t.Duration, ease: e}, nil
}

func (in IntroConfig) compile() ([]scroll.Ease, error) {
	if in.Delay < 0 {
		return nil, fmt.Errorf("delay %v must not be negative", in.Delay)
	}
	return compileSteps(in.Steps)
}

func compileSteps(steps []StepConfig) ([]scroll.Ease, error) {
	var eases []scroll.Ease
	for _, st := range steps {
		e, err := scroll.ParseEase(st.Ease)
		if err != nil {
			return nil, err
		}
		if st.Duration < 0 {
			return nil, fmt.Errorf("step duration %v must not be negative", st.Duration)
		}
		eases = append(eases, e)
	}
	return eases, nil
}

func (s SectionConfig) compile() (compiledSection, error) {
	var out compiledSection
	var err error

	start := s.Start
	if start == "" {
		start = "top bottom"
	}
	if out.bounds, err = scroll.ParseBoundaries(start, s.End); err != nil {
		return out, err
	}

	out.actions = scroll.DefaultActions
	if s.Actions != "" {
		if out.actions, err = scroll.ParseActions(s.Actions); err != nil {
			return out, err
		}
	}

	switch s.Mode {
	case "", "discrete":
		out.mode = scroll.Discrete
	case "scrub":
		out.mode = scroll.Scrub
	case "smooth":
		out.mode = scroll.SmoothScrub
	default:
		return out, fmt.Errorf("unknown mode %q", s.Mode)
	}

	if out.eases, err = compileSteps(s.Steps); err != nil {
		return out, err
	}
	for _, c := range s.Counters {
		e, err := scroll.ParseEase(c.Ease)
		if err != nil {
			return out, err
		}
		if c.Name == "" {
			return out, fmt.Errorf("counter without a name")
		}
		out.counter = append(out.counter, e)
	}
	for _, fx := range s.Effects {
		if fx.Prop == "" {
			return out, fmt.Errorf("effect without a prop")
		}
	}
	for _, c := range []struct {
		dst **compiledTween
		src *TweenConfig
	}{
		{&out.onEnter, s.Crossings.OnEnter},
		{&out.onLeave, s.Crossings.OnLeave},
		{&out.onEnterBack, s.Crossings.OnEnterBack},
		{&out.onLeaveBack, s.Crossings.OnLeaveBack},
	} {
		if *c.dst, err = c.src.compile(); err != nil {
			return out, err
		}
	}
	return out, nil
}
