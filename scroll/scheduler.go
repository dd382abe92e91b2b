package scroll

import (
	"github.com/charmbracelet/harmonica"
	"github.com/google/uuid"
)

// Direction is the sign of the last scroll movement.
type Direction int

const (
	Up   Direction = -1
	None Direction = 0
	Down Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "none"
}

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

type Option func(*Scheduler)

func WithLogger(l Logger) Option { return func(s *Scheduler) { s.log = l } }

// WithViewport sets the initial viewport height and scroll offset.
func WithViewport(height, scrollY float64) Option {
	return func(s *Scheduler) {
		s.viewport = height
		s.scrollY = scrollY
	}
}

// Scheduler owns every trigger of one page. All methods run on the UI thread.
type Scheduler struct {
	triggers  []*Trigger
	scrollY   float64
	viewport  float64
	direction Direction
	log       Logger

	evaluations int
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{log: nopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds anim to el. anim may be nil for callback-only triggers.
// The trigger is evaluated right away when the viewport is known.
func (s *Scheduler) Register(el Element, b Boundaries, anim Animation, mode Mode, opts ...TriggerOption) (*Trigger, error) {
	if el == nil {
		return nil, ErrNilElement
	}
	if b.End == (Boundary{}) {
		b.End = DefaultEnd
	}
	if anim != nil {
		if _, ok := anim.(*Counter); ok && mode != Discrete {
			return nil, ErrCounterScrub
		}
		if err := anim.claim(s); err != nil {
			return nil, err
		}
	}

	t := &Trigger{
		id:      uuid.NewString(),
		el:      el,
		bounds:  b,
		anim:    anim,
		mode:    mode,
		actions: DefaultActions,
		spring:  harmonica.NewSpring(harmonica.FPS(DefaultSpringFPS), DefaultSpringFrequency, DefaultSpringDamping),

		springStep: 1.0 / DefaultSpringFPS,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.measure()
	if t.detached {
		s.log.Warnf("scroll: trigger %q registered on a detached element", t.Name)
	}
	if anim != nil && !t.detached {
		anim.prime()
	}
	s.triggers = append(s.triggers, t)

	if s.viewport > 0 {
		s.evaluations++
		t.evaluate(s.scrollY, s.viewport)
	}
	return t, nil
}

// Unregister kills the animations of every trigger bound to el and removes
// them. It returns how many were removed. It may be called from a trigger
// callback; removed triggers are skipped for the rest of that dispatch.
func (s *Scheduler) Unregister(el Element) int {
	kept := make([]*Trigger, 0, len(s.triggers))
	removed := 0
	for _, t := range s.triggers {
		if t.el == el {
			t.remove()
			removed++
			continue
		}
		kept = append(kept, t)
	}
	// a fresh slice, so a dispatch ranging over the old one is undisturbed
	s.triggers = kept
	return removed
}

// OnScroll evaluates every trigger against the new scroll offset.
func (s *Scheduler) OnScroll(y float64) {
	switch {
	case y > s.scrollY:
		s.direction = Down
	case y < s.scrollY:
		s.direction = Up
	default:
		return
	}
	s.scrollY = y
	s.evaluateAll()
}

// OnResize re-measures every element and evaluates against the new viewport height.
func (s *Scheduler) OnResize(viewportHeight float64) {
	if viewportHeight <= 0 {
		return
	}
	s.viewport = viewportHeight
	s.Refresh()
}

// Refresh re-measures elements after a layout change.
func (s *Scheduler) Refresh() {
	for _, t := range s.triggers {
		t.measure()
	}
	s.evaluateAll()
}

func (s *Scheduler) evaluateAll() {
	if s.viewport <= 0 {
		return
	}
	for _, t := range s.triggers {
		if t.removed {
			continue
		}
		s.evaluations++
		t.evaluate(s.scrollY, s.viewport)
	}
}

// Tick advances playing animations by dt seconds and returns how many moved.
func (s *Scheduler) Tick(dt float64) int {
	moved := 0
	for _, t := range s.triggers {
		if t.tick(dt) {
			moved++
		}
	}
	return moved
}

// Clear kills and removes every trigger.
func (s *Scheduler) Clear() {
	for _, t := range s.triggers {
		t.remove()
	}
	s.triggers = nil
	s.log.Debugf("scroll: scheduler cleared")
}

func (s *Scheduler) Len() int { return len(s.triggers) }

func (s *Scheduler) Triggers() []*Trigger { return append([]*Trigger(nil), s.triggers...) }

func (s *Scheduler) Direction() Direction { return s.direction }

func (s *Scheduler) ScrollY() float64 { return s.scrollY }

// Evaluations counts trigger evaluations since the scheduler was created.
func (s *Scheduler) Evaluations() int { return s.evaluations }
