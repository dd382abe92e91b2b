package scroll

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// State is a timeline's playback state.
type State int

const (
	NotStarted State = iota
	PlayingForward
	PlayingBackward
	CompletedForward
	CompletedBackward
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case PlayingForward:
		return "PlayingForward"
	case PlayingBackward:
		return "PlayingBackward"
	case CompletedForward:
		return "CompletedForward"
	case CompletedBackward:
		return "CompletedBackward"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Animation is what a trigger drives: a Timeline or a Counter.
type Animation interface {
	Play()
	Reverse()
	Restart()
	Reset()
	Complete()
	// Advance moves a playing animation by dt seconds and reports whether it is still playing.
	Advance(dt float64) bool
	SetProgress(p float64)
	Progress() float64
	State() State
	Playing() bool
	Kill()

	claim(owner *Scheduler) error
	// prime renders the start state when the animation is registered.
	prime()
}

// Props maps property names to values.
type Props map[string]float64

type propTrack struct {
	name     string
	from, to float64
	// lead tracks are the first in the timeline to touch their property,
	// so they also render before their step starts.
	lead bool
}

type step struct {
	el     Element
	start  float64
	dur    float64
	ease   Ease
	tracks []propTrack
	// custom replaces tracks; used by Counter.
	custom func(e float64, started bool)
}

func (st *step) render(playhead float64) {
	started := playhead >= st.start
	local := 0.0
	switch {
	case !started:
	case st.dur <= 0:
		local = 1
	default:
		local = clamp01((playhead - st.start) / st.dur)
	}
	e := st.ease(local)

	if st.custom != nil {
		st.custom(e, started)
		return
	}
	for _, tr := range st.tracks {
		if !started && !tr.lead {
			continue
		}
		st.el.SetProp(tr.name, tr.from+(tr.to-tr.from)*e)
	}
}

// StepOption positions a step within its timeline.
type StepOption func(*stepPlacement)

type stepPlacement struct {
	at    float64
	delay float64
}

// At offsets a step from the end of the previous one. Negative values overlap.
func At(offset float64) StepOption { return func(p *stepPlacement) { p.at = offset } }

func Delay(d float64) StepOption { return func(p *stepPlacement) { p.delay = d } }

// Timeline is an ordered set of property tweens. What it renders depends
// only on the playhead, so scrubbing to the same point always yields the
// same element state.
type Timeline struct {
	id    string
	steps []*step

	cursor   float64
	duration float64
	playhead float64
	rendered float64
	dirty    bool

	state  State
	dir    int
	killed bool
	owner  *Scheduler

	// repeat is the number of extra cycles, -1 for forever.
	repeat    int
	yoyo      bool
	iteration int
	delay     float64
	wait      float64
}

func NewTimeline() *Timeline {
	return &Timeline{id: uuid.NewString(), dirty: true}
}

func (tl *Timeline) ID() string { return tl.id }

// Repeat plays the timeline n more times after the first pass; -1 repeats forever.
func (tl *Timeline) Repeat(n int) *Timeline {
	tl.repeat = max(n, -1)
	return tl
}

// Yoyo makes every repeat run in the opposite direction of the previous pass.
func (tl *Timeline) Yoyo(on bool) *Timeline {
	tl.yoyo = on
	return tl
}

// StartDelay holds the first forward play for d seconds. Repeats do not wait again.
func (tl *Timeline) StartDelay(d float64) *Timeline {
	tl.delay = max(d, 0)
	tl.wait = tl.delay
	return tl
}

// To tweens el from its current values to props.
func (tl *Timeline) To(el Element, props Props, dur float64, ease Ease, opts ...StepOption) *Timeline {
	return tl.FromTo(el, nil, props, dur, ease, opts...)
}

// FromTo tweens el between explicit values. Properties missing from from are
// taken from an earlier step on the same element, or read from el.
func (tl *Timeline) FromTo(el Element, from, to Props, dur float64, ease Ease, opts ...StepOption) *Timeline {
	if el == nil {
		return tl
	}
	if ease == nil {
		ease = Power1Out
	}
	if dur < 0 {
		dur = 0
	}
	var pl stepPlacement
	for _, opt := range opts {
		opt(&pl)
	}

	st := &step{el: el, dur: dur, ease: ease}
	st.start = max(tl.cursor+pl.at+pl.delay, 0)

	names := make([]string, 0, len(to))
	for name := range to {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prev, seen := tl.lastTo(el, name)
		tr := propTrack{name: name, to: to[name], lead: !seen}
		switch v, ok := from[name]; {
		case ok:
			tr.from = v
		case seen:
			tr.from = prev
		default:
			tr.from = el.Prop(name)
		}
		st.tracks = append(st.tracks, tr)
	}
	tl.add(st)
	return tl
}

func (tl *Timeline) add(st *step) {
	tl.steps = append(tl.steps, st)
	tl.cursor = st.start + st.dur
	tl.duration = max(tl.duration, tl.cursor)
	tl.dirty = true
}

func (tl *Timeline) lastTo(el Element, name string) (float64, bool) {
	for i := len(tl.steps) - 1; i >= 0; i-- {
		st := tl.steps[i]
		if st.el != el {
			continue
		}
		for _, tr := range st.tracks {
			if tr.name == name {
				return tr.to, true
			}
		}
	}
	return 0, false
}

func (tl *Timeline) render() {
	if tl.killed || (!tl.dirty && tl.rendered == tl.playhead) {
		return
	}
	for _, st := range tl.steps {
		st.render(tl.playhead)
	}
	tl.rendered = tl.playhead
	tl.dirty = false
}

// Play continues forward from the current playhead.
func (tl *Timeline) Play() {
	if tl.killed {
		return
	}
	if tl.playhead >= tl.duration {
		tl.playhead = tl.duration
		tl.dir = 0
		tl.state = CompletedForward
		tl.render()
		return
	}
	tl.dir = 1
	tl.state = PlayingForward
	tl.render()
}

// Reverse plays backward from the current playhead.
func (tl *Timeline) Reverse() {
	if tl.killed {
		return
	}
	if tl.playhead <= 0 {
		tl.playhead = 0
		tl.dir = 0
		if tl.state != NotStarted {
			tl.state = CompletedBackward
		}
		tl.render()
		return
	}
	tl.dir = -1
	tl.state = PlayingBackward
}

func (tl *Timeline) Restart() {
	if tl.killed {
		return
	}
	tl.playhead = 0
	tl.iteration = 0
	tl.render()
	tl.Play()
}

// Reset rewinds to the start and pauses.
func (tl *Timeline) Reset() {
	if tl.killed {
		return
	}
	tl.playhead = 0
	tl.dir = 0
	tl.state = NotStarted
	tl.iteration = 0
	tl.wait = tl.delay
	tl.render()
}

// Complete jumps to the end.
func (tl *Timeline) Complete() {
	if tl.killed {
		return
	}
	tl.playhead = tl.duration
	tl.dir = 0
	tl.state = CompletedForward
	tl.render()
}

func (tl *Timeline) Advance(dt float64) bool {
	if tl.killed || tl.dir == 0 || dt <= 0 {
		return tl.Playing()
	}
	if tl.wait > 0 && tl.dir > 0 {
		if dt <= tl.wait {
			tl.wait -= dt
			tl.render()
			return true
		}
		dt -= tl.wait
		tl.wait = 0
	}

	for dt > 0 && tl.dir != 0 {
		if tl.dir > 0 {
			room := tl.duration - tl.playhead
			if dt < room {
				tl.playhead += dt
				break
			}
			tl.playhead = tl.duration
			dt -= room
			if !tl.cycle() {
				tl.dir = 0
				tl.state = CompletedForward
			}
		} else {
			room := tl.playhead
			if dt < room {
				tl.playhead -= dt
				break
			}
			tl.playhead = 0
			dt -= room
			if !tl.cycle() {
				tl.dir = 0
				tl.state = CompletedBackward
			}
		}
	}
	tl.render()
	return tl.Playing()
}

// cycle starts the next repeat at an end of the playhead range, if one is left.
func (tl *Timeline) cycle() bool {
	if tl.duration <= 0 || tl.repeat == 0 || (tl.repeat > 0 && tl.iteration >= tl.repeat) {
		return false
	}
	tl.iteration++
	switch {
	case tl.yoyo:
		tl.dir = -tl.dir
		tl.state = PlayingForward
		if tl.dir < 0 {
			tl.state = PlayingBackward
		}
	case tl.dir > 0:
		tl.playhead = 0
	default:
		tl.playhead = tl.duration
	}
	return true
}

// Iteration is the number of repeats started so far.
func (tl *Timeline) Iteration() int { return tl.iteration }

// SetProgress pauses and renders at p, clamped to [0,1].
func (tl *Timeline) SetProgress(p float64) {
	if tl.killed {
		return
	}
	p = clamp01(p)
	next := p * tl.duration
	switch {
	case p >= 1:
		tl.state = CompletedForward
	case p <= 0:
		if tl.state != NotStarted {
			tl.state = CompletedBackward
		}
	case next > tl.playhead:
		tl.state = PlayingForward
	case next < tl.playhead:
		tl.state = PlayingBackward
	}
	tl.playhead = next
	tl.dir = 0
	tl.render()
}

func (tl *Timeline) Progress() float64 {
	if tl.duration <= 0 {
		if tl.state == CompletedForward {
			return 1
		}
		return 0
	}
	return tl.playhead / tl.duration
}

func (tl *Timeline) Duration() float64 { return tl.duration }

func (tl *Timeline) Playhead() float64 { return tl.playhead }

func (tl *Timeline) State() State { return tl.state }

func (tl *Timeline) Playing() bool { return !tl.killed && tl.dir != 0 }

// Kill stops the timeline for good. Nothing is written afterwards.
func (tl *Timeline) Kill() {
	tl.killed = true
	tl.dir = 0
}

func (tl *Timeline) Killed() bool { return tl.killed }

func (tl *Timeline) claim(owner *Scheduler) error {
	if tl.owner != nil {
		return ErrTimelineOwned
	}
	tl.owner = owner
	return nil
}

func (tl *Timeline) prime() { tl.render() }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
