package scroll

import (
	"math"
	"strconv"

	"github.com/charmbracelet/harmonica"
)

// Mode selects how a trigger drives its animation.
type Mode int

const (
	// Discrete plays or reverses the animation at its own duration on crossings.
	Discrete Mode = iota
	// Scrub binds progress to the scroll position between the boundaries.
	Scrub
	// SmoothScrub lets progress follow the scroll position through a spring.
	SmoothScrub
)

func (m Mode) String() string {
	switch m {
	case Discrete:
		return "discrete"
	case Scrub:
		return "scrub"
	case SmoothScrub:
		return "smooth"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// TriggerState tracks where a trigger is relative to its band.
type TriggerState int

const (
	Idle TriggerState = iota
	Entering
	Entered
	Leaving
	Left
	EnteringBack
	LeavingBack
)

var triggerStateNames = [...]string{"Idle", "Entering", "Entered", "Leaving", "Left", "EnteringBack", "LeavingBack"}

func (s TriggerState) String() string {
	if s < 0 || int(s) >= len(triggerStateNames) {
		return "TriggerState(" + strconv.Itoa(int(s)) + ")"
	}
	return triggerStateNames[s]
}

type region int

const (
	regionBefore region = iota
	regionActive
	regionAfter
)

// Callbacks run on boundary crossings and progress changes.
type Callbacks struct {
	OnEnter     func(t *Trigger)
	OnLeave     func(t *Trigger)
	OnEnterBack func(t *Trigger)
	OnLeaveBack func(t *Trigger)
	OnUpdate    func(t *Trigger, progress float64)
}

// TriggerOption configures a trigger at registration.
type TriggerOption func(*Trigger)

func WithActions(a Actions) TriggerOption { return func(t *Trigger) { t.actions = a } }

func WithCallbacks(cb Callbacks) TriggerOption { return func(t *Trigger) { t.callbacks = cb } }

func WithName(name string) TriggerOption { return func(t *Trigger) { t.Name = name } }

// WithSpring tunes SmoothScrub. frequency is the spring's angular frequency,
// damping 1 is critically damped.
func WithSpring(fps int, frequency, damping float64) TriggerOption {
	return func(t *Trigger) {
		fps = max(fps, 1)
		t.spring = harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
		t.springStep = 1 / float64(fps)
	}
}

const (
	DefaultSpringFPS       = 60
	DefaultSpringFrequency = 6.0
	DefaultSpringDamping   = 1.0

	springEpsilon = 1e-4
	// maxSpringSteps bounds the catch-up work of one Tick after a stall.
	maxSpringSteps = 120
)

// Trigger binds an element's position in the viewport to an animation.
type Trigger struct {
	Name string

	id        string
	el        Element
	bounds    Boundaries
	anim      Animation
	mode      Mode
	actions   Actions
	callbacks Callbacks

	rect     Rect
	detached bool
	removed  bool

	state    TriggerState
	region   region
	progress float64
	updated  bool

	spring      harmonica.Spring
	springStep  float64
	springClock float64
	smoothed    float64
	velocity    float64
	settling    bool
}

func (t *Trigger) ID() string { return t.id }

func (t *Trigger) Element() Element { return t.el }

func (t *Trigger) Animation() Animation { return t.anim }

func (t *Trigger) Mode() Mode { return t.mode }

func (t *Trigger) State() TriggerState { return t.state }

// Progress is the scroll progress through the band, in [0,1].
func (t *Trigger) Progress() float64 { return t.progress }

// Smoothed is the spring-followed progress of a SmoothScrub trigger.
func (t *Trigger) Smoothed() float64 { return t.smoothed }

// Detached reports whether the element was gone at the last measurement.
func (t *Trigger) Detached() bool { return t.detached }

func (t *Trigger) measure() {
	r, ok := t.el.Rect()
	t.detached = !ok
	if ok {
		t.rect = r
	}
}

// evaluate compares the scroll position with the band and fires every
// crossing since the previous evaluation, in order.
func (t *Trigger) evaluate(scrollY, viewport float64) {
	if !t.live() {
		return
	}
	start := t.bounds.Start.scrollAt(t.rect, viewport)
	end := t.bounds.End.scrollAt(t.rect, viewport)
	if end < start {
		end = start
	}

	var next region
	switch {
	case scrollY < start:
		next = regionBefore
	case scrollY > end:
		next = regionAfter
	default:
		next = regionActive
	}

	progress := 0.0
	switch {
	case end > start:
		progress = clamp01((scrollY - start) / (end - start))
	case scrollY >= start:
		progress = 1
	}

	prev := t.region
	t.region = next
	switch {
	case prev < next:
		if prev == regionBefore {
			t.enter()
		}
		if next == regionAfter {
			t.leave()
		}
	case prev > next:
		if prev == regionAfter {
			t.enterBack()
		}
		if next == regionBefore {
			t.leaveBack()
		}
	}

	if t.removed {
		// unregistered by one of its own callbacks
		return
	}

	first := !t.updated
	changed := first || progress != t.progress
	t.progress = progress
	t.updated = true

	switch t.mode {
	case Scrub:
		if t.anim != nil {
			t.anim.SetProgress(progress)
		}
	case SmoothScrub:
		// the first evaluation lands on the scroll position, later ones are followed
		if first {
			t.smoothed, t.velocity = progress, 0
			if t.anim != nil {
				t.anim.SetProgress(progress)
			}
		} else if progress != t.smoothed || t.velocity != 0 {
			t.settling = true
		}
	}
	if changed && t.callbacks.OnUpdate != nil && (t.mode != SmoothScrub || first) {
		t.callbacks.OnUpdate(t, progress)
	}
}

// live reports whether the trigger may still write. A removed element is
// caught here, before the next re-measure.
func (t *Trigger) live() bool {
	if t.removed || t.detached {
		return false
	}
	if _, ok := t.el.Rect(); !ok {
		t.detached = true
		t.settling = false
		return false
	}
	return true
}

func (t *Trigger) enter() {
	if t.removed {
		return
	}
	t.state = Entering
	t.run(t.actions.OnEnter)
	if t.callbacks.OnEnter != nil {
		t.callbacks.OnEnter(t)
	}
	t.settle()
}

func (t *Trigger) leave() {
	if t.removed {
		return
	}
	t.state = Leaving
	t.run(t.actions.OnLeave)
	if t.callbacks.OnLeave != nil {
		t.callbacks.OnLeave(t)
	}
	t.settle()
}

func (t *Trigger) enterBack() {
	if t.removed {
		return
	}
	t.state = EnteringBack
	t.run(t.actions.OnEnterBack)
	if t.callbacks.OnEnterBack != nil {
		t.callbacks.OnEnterBack(t)
	}
	t.settle()
}

func (t *Trigger) leaveBack() {
	if t.removed {
		return
	}
	t.state = LeavingBack
	t.run(t.actions.OnLeaveBack)
	if t.callbacks.OnLeaveBack != nil {
		t.callbacks.OnLeaveBack(t)
	}
	t.settle()
}

func (t *Trigger) run(a Action) {
	if t.anim == nil || t.mode != Discrete {
		return
	}
	switch a {
	case ActionPlay:
		t.anim.Play()
	case ActionReverse:
		t.anim.Reverse()
	case ActionRestart:
		t.anim.Restart()
	case ActionReset:
		t.anim.Reset()
	case ActionComplete:
		t.anim.Complete()
	}
}

func (t *Trigger) remove() {
	t.removed = true
	t.settling = false
	if t.anim != nil {
		t.anim.Kill()
	}
}

// settle finishes a transitional state once the animation is at rest.
func (t *Trigger) settle() {
	if t.anim != nil && t.mode == Discrete && t.anim.Playing() {
		return
	}
	switch t.state {
	case Entering, EnteringBack:
		t.state = Entered
	case Leaving:
		t.state = Left
	case LeavingBack:
		t.state = Idle
	}
}

// tick advances discrete playback and smooth scrubbing by dt seconds.
func (t *Trigger) tick(dt float64) bool {
	if !t.live() {
		return false
	}
	switch t.mode {
	case Discrete:
		if t.anim == nil || !t.anim.Playing() {
			return false
		}
		t.anim.Advance(dt)
		t.settle()
		return true
	case SmoothScrub:
		if !t.settling {
			return false
		}
		before := t.smoothed
		t.stepSpring(dt)
		if t.smoothed != before {
			if t.anim != nil {
				t.anim.SetProgress(t.smoothed)
			}
			if t.callbacks.OnUpdate != nil {
				t.callbacks.OnUpdate(t, t.smoothed)
			}
		}
		return true
	}
	return false
}

// stepSpring runs the spring at its fixed rate for dt seconds of wall time.
func (t *Trigger) stepSpring(dt float64) {
	t.springClock += max(dt, 0)
	steps := int(t.springClock/t.springStep + 1e-9)
	if steps > maxSpringSteps {
		steps = maxSpringSteps
		t.springClock = 0
	} else {
		t.springClock = max(t.springClock-float64(steps)*t.springStep, 0)
	}
	for i := 0; i < steps && t.settling; i++ {
		t.smoothed, t.velocity = t.spring.Update(t.smoothed, t.velocity, t.progress)
		if math.Abs(t.smoothed-t.progress) < springEpsilon && math.Abs(t.velocity) < springEpsilon {
			t.smoothed, t.velocity = t.progress, 0
			t.settling = false
			t.springClock = 0
		}
	}
}
