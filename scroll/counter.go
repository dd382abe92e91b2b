package scroll

import (
	"math"
	"strconv"
)

// Counter counts a text element up from 0 to a target integer once.
// After the first forward completion every further play, reverse or reset
// is ignored.
type Counter struct {
	*Timeline

	el     TextElement
	target int
	shown  int
	wrote  bool
	done   bool
	// Format renders the displayed value. Defaults to strconv.Itoa.
	Format func(int) string
}

func NewCounter(el TextElement, target int, dur float64, ease Ease) *Counter {
	if ease == nil {
		ease = Power2Out
	}
	c := &Counter{Timeline: NewTimeline(), el: el, target: target, Format: strconv.Itoa}
	if el == nil {
		return c
	}
	c.Timeline.add(&step{el: el, dur: max(dur, 0), ease: ease, custom: c.show})
	return c
}

func (c *Counter) show(e float64, _ bool) {
	v := int(math.Round(float64(c.target) * e))
	if c.wrote && v == c.shown {
		return
	}
	c.shown = v
	c.wrote = true
	c.el.SetText(c.Format(v))
}

// Value is the integer currently displayed.
func (c *Counter) Value() int { return c.shown }

func (c *Counter) Target() int { return c.target }

// Done reports whether the counter has completed once.
func (c *Counter) Done() bool { return c.done }

func (c *Counter) Play() {
	if c.done {
		return
	}
	c.Timeline.Play()
	c.settle()
}

func (c *Counter) Reverse() {
	if c.done {
		return
	}
	c.Timeline.Reverse()
}

func (c *Counter) Restart() {
	if c.done {
		return
	}
	c.Timeline.Restart()
	c.settle()
}

func (c *Counter) Reset() {
	if c.done {
		return
	}
	c.Timeline.Reset()
}

func (c *Counter) Complete() {
	if c.done {
		return
	}
	c.Timeline.Complete()
	c.settle()
}

func (c *Counter) Advance(dt float64) bool {
	playing := c.Timeline.Advance(dt)
	c.settle()
	return playing
}

func (c *Counter) SetProgress(p float64) {
	if c.done {
		return
	}
	c.Timeline.SetProgress(p)
	c.settle()
}

func (c *Counter) settle() {
	if c.Timeline.State() == CompletedForward {
		c.done = true
	}
}
