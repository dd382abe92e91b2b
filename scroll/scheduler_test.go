package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// section sits at 1000px with a 400px height in an 800px viewport.
func section(name string) *Node { return NewNode(name, 1000, 400) }

func mustBounds(t *testing.T, start, end string) Boundaries {
	t.Helper()
	b, err := ParseBoundaries(start, end)
	require.NoError(t, err)
	return b
}

func TestScheduler_ZeroTriggersNoWork(t *testing.T) {
	s := New()
	s.OnResize(800)
	s.OnScroll(120)
	s.OnScroll(30)
	assert.Equal(t, 0, s.Tick(1.0/60))
	s.Refresh()
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Evaluations())
}

func TestScheduler_ScrubHasNoHysteresis(t *testing.T) {
	n := section("parallax")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropYPercent: 0}, Props{PropYPercent: -50}, 1, Linear)
	_, err := s.Register(n, mustBounds(t, "top bottom", "bottom top"), tl, Scrub)
	require.NoError(t, err)

	s.OnScroll(500)
	at := n.Props()
	assert.InDelta(t, -12.5, at[PropYPercent], 1e-9)

	s.OnScroll(1300)
	s.OnScroll(900)
	s.OnScroll(500)
	assert.Equal(t, at, n.Props())

	s.OnScroll(50000)
	assert.InDelta(t, -50, n.Prop(PropYPercent), 1e-9)
	assert.Equal(t, 1.0, tl.Progress())
}

func TestScheduler_DiscreteReversalKeepsCurrentValue(t *testing.T) {
	n := section("card")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropOpacity: 0}, Props{PropOpacity: 1}, 1, Linear)
	tr, err := s.Register(n, mustBounds(t, "top 80%", "bottom 20%"), tl, Discrete)
	require.NoError(t, err)
	assert.Equal(t, 0.0, n.Prop(PropOpacity))
	assert.Equal(t, Idle, tr.State())

	s.OnScroll(400)
	assert.Equal(t, Entering, tr.State())
	s.Tick(0.5)
	assert.InDelta(t, 0.5, n.Prop(PropOpacity), 1e-9)

	s.OnScroll(100)
	assert.Equal(t, LeavingBack, tr.State())
	assert.InDelta(t, 0.5, n.Prop(PropOpacity), 1e-9)

	s.Tick(0.25)
	assert.InDelta(t, 0.25, n.Prop(PropOpacity), 1e-9)
	s.Tick(1)
	assert.Equal(t, 0.0, n.Prop(PropOpacity))
	assert.Equal(t, Idle, tr.State())
	assert.Equal(t, CompletedBackward, tl.State())
}

func TestScheduler_EnteringSettlesOnCompletion(t *testing.T) {
	n := section("card")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropY: 80}, Props{PropY: 0}, 0.5, Power3Out)
	tr, err := s.Register(n, mustBounds(t, "top 80%", "bottom 20%"), tl, Discrete)
	require.NoError(t, err)

	s.OnScroll(400)
	for i := 0; i < 60; i++ {
		s.Tick(1.0 / 60)
	}
	assert.Equal(t, Entered, tr.State())
	assert.Equal(t, 0.0, n.Prop(PropY))
}

func TestScheduler_CounterDoesNotReplay(t *testing.T) {
	n := section("stat")
	s := New(WithViewport(800, 0))
	c := NewCounter(n, 200, 2, Power2Out)
	_, err := s.Register(n, mustBounds(t, "top 85%", ""), c, Discrete)
	require.NoError(t, err)
	assert.Equal(t, "0", n.Text())

	s.OnScroll(400)
	for i := 0; i < 300; i++ {
		s.Tick(1.0 / 60)
	}
	require.True(t, c.Done())
	assert.Equal(t, "200", n.Text())
	writes := n.Writes()

	s.OnScroll(0)
	s.Tick(0.5)
	s.OnScroll(400)
	for i := 0; i < 300; i++ {
		s.Tick(1.0 / 60)
	}
	assert.Equal(t, writes, n.Writes())
	assert.Equal(t, "200", n.Text())
}

func TestScheduler_RegisterErrors(t *testing.T) {
	n := section("stat")
	s := New()

	_, err := s.Register(n, Boundaries{}, NewCounter(n, 10, 1, nil), Scrub)
	assert.ErrorIs(t, err, ErrCounterScrub)

	tl := NewTimeline().To(n, Props{PropX: 1}, 1, nil)
	_, err = s.Register(n, Boundaries{}, tl, Discrete)
	require.NoError(t, err)
	_, err = s.Register(n, Boundaries{}, tl, Discrete)
	assert.ErrorIs(t, err, ErrTimelineOwned)
	_, err = New().Register(n, Boundaries{}, tl, Scrub)
	assert.ErrorIs(t, err, ErrTimelineOwned)

	_, err = s.Register(nil, Boundaries{}, nil, Discrete)
	assert.ErrorIs(t, err, ErrNilElement)
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_EachCrossingFiresOnce(t *testing.T) {
	n := section("feature")
	s := New(WithViewport(800, 0))
	var events []string
	tr, err := s.Register(n, mustBounds(t, "top 80%", "bottom 20%"), nil, Discrete, WithCallbacks(Callbacks{
		OnEnter:     func(*Trigger) { events = append(events, "enter") },
		OnLeave:     func(*Trigger) { events = append(events, "leave") },
		OnEnterBack: func(*Trigger) { events = append(events, "enterBack") },
		OnLeaveBack: func(*Trigger) { events = append(events, "leaveBack") },
	}))
	require.NoError(t, err)

	s.OnScroll(400)
	s.OnScroll(410)
	s.OnScroll(405)
	s.OnScroll(420)
	assert.Equal(t, []string{"enter"}, events)
	assert.Equal(t, Entered, tr.State())

	s.OnScroll(5000)
	assert.Equal(t, []string{"enter", "leave"}, events)
	assert.Equal(t, Left, tr.State())
	assert.Equal(t, Down, s.Direction())

	s.OnScroll(0)
	assert.Equal(t, []string{"enter", "leave", "enterBack", "leaveBack"}, events)
	assert.Equal(t, Idle, tr.State())
	assert.Equal(t, Up, s.Direction())
}

func TestScheduler_OnUpdateReportsProgress(t *testing.T) {
	n := section("hero")
	s := New(WithViewport(800, 0))
	var got []float64
	_, err := s.Register(n, mustBounds(t, "top top", "bottom top"), nil, Scrub, WithCallbacks(Callbacks{
		OnUpdate: func(_ *Trigger, p float64) {
			n.SetProp(PropScale, 1-p*0.1)
			got = append(got, p)
		},
	}))
	require.NoError(t, err)

	s.OnScroll(1200)
	s.OnScroll(1600)
	require.Len(t, got, 3)
	assert.Equal(t, 0.0, got[0])
	assert.InDelta(t, 0.5, got[1], 1e-9)
	assert.Equal(t, 1.0, got[2])
	assert.InDelta(t, 0.9, n.Prop(PropScale), 1e-9)
}

func TestScheduler_DetachedElementIsNoop(t *testing.T) {
	n := section("gone")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropY: 0}, Props{PropY: 10}, 1, Linear)
	tr, err := s.Register(n, mustBounds(t, "top bottom", "bottom top"), tl, Scrub)
	require.NoError(t, err)

	// no re-measure happens between the removal and the next scroll
	n.Detach()
	writes := n.Writes()

	s.OnScroll(700)
	s.OnScroll(900)
	s.Tick(1)
	assert.Equal(t, writes, n.Writes())
	assert.True(t, tr.Detached())

	assert.Equal(t, 1, s.Unregister(n))
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_DetachDuringPlaybackStopsTick(t *testing.T) {
	n := section("card")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropX: 0}, Props{PropX: 100}, 1, Linear)
	tr, err := s.Register(n, mustBounds(t, "top 80%", ""), tl, Discrete)
	require.NoError(t, err)

	s.OnScroll(400)
	require.Equal(t, 1, s.Tick(0.2))
	writes := n.Writes()

	n.Detach()
	assert.Equal(t, 0, s.Tick(0.2))
	assert.Equal(t, writes, n.Writes())
	assert.True(t, tr.Detached())
}

func TestScheduler_UnregisterFromCallback(t *testing.T) {
	a, b, c := section("a"), section("b"), section("c")
	s := New(WithViewport(800, 0))
	bounds := mustBounds(t, "top 80%", "")

	_, err := s.Register(a, bounds, nil, Discrete, WithCallbacks(Callbacks{
		OnEnter: func(*Trigger) { s.Unregister(a) },
	}))
	require.NoError(t, err)
	_, err = s.Register(b, bounds, nil, Discrete, WithCallbacks(Callbacks{
		OnEnter: func(*Trigger) { s.Unregister(c) },
	}))
	require.NoError(t, err)
	entered := false
	_, err = s.Register(c, bounds, nil, Discrete, WithCallbacks(Callbacks{
		OnEnter: func(*Trigger) { entered = true },
	}))
	require.NoError(t, err)

	assert.NotPanics(t, func() { s.OnScroll(400) })
	assert.False(t, entered)
	require.Equal(t, 1, s.Len())
	assert.Same(t, b, s.Triggers()[0].Element())

	assert.NotPanics(t, func() {
		s.OnScroll(0)
		s.Tick(0.1)
	})
}

func TestScheduler_RegisterOnDetachedElement(t *testing.T) {
	n := section("gone")
	n.Detach()
	s := New(WithViewport(800, 400))
	tr, err := s.Register(n, Boundaries{}, NewTimeline().To(n, Props{PropX: 5}, 1, Linear), Scrub)
	require.NoError(t, err)
	assert.True(t, tr.Detached())
	assert.Equal(t, 0, n.Writes())
}

func TestScheduler_UnregisterCancelsInFlight(t *testing.T) {
	n := section("card")
	other := NewNode("other", 3000, 100)
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropX: 0}, Props{PropX: 100}, 1, Linear)
	_, err := s.Register(n, mustBounds(t, "top 80%", ""), tl, Discrete)
	require.NoError(t, err)
	_, err = s.Register(other, mustBounds(t, "top 80%", ""), nil, Discrete)
	require.NoError(t, err)

	s.OnScroll(400)
	s.Tick(0.2)
	writes := n.Writes()

	assert.Equal(t, 1, s.Unregister(n))
	assert.Equal(t, 0, s.Unregister(n))
	s.Tick(0.2)
	s.OnScroll(0)
	assert.Equal(t, writes, n.Writes())
	assert.True(t, tl.Killed())
	assert.Equal(t, 1, s.Len())
	assert.Same(t, other, s.Triggers()[0].Element())
}

func TestScheduler_SmoothScrubConverges(t *testing.T) {
	n := section("hero")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().FromTo(n, Props{PropOpacity: 1}, Props{PropOpacity: 0.7}, 1, Linear)
	_, err := s.Register(n, mustBounds(t, "top bottom", "bottom top"), tl, SmoothScrub)
	require.NoError(t, err)

	s.OnScroll(800)
	s.Tick(1.0 / 60)
	assert.Less(t, tl.Progress(), 0.5)

	for i := 0; i < 600; i++ {
		s.Tick(1.0 / 60)
	}
	assert.InDelta(t, 0.5, tl.Progress(), 1e-6)
	assert.InDelta(t, 0.85, n.Prop(PropOpacity), 1e-6)
	assert.Equal(t, 0, s.Tick(1.0/60))
}

func TestScheduler_SmoothScrubDrivesCallbacks(t *testing.T) {
	n := section("hero")
	s := New(WithViewport(800, 0))
	var got []float64
	tr, err := s.Register(n, mustBounds(t, "top bottom", "bottom top"), nil, SmoothScrub, WithCallbacks(Callbacks{
		OnUpdate: func(_ *Trigger, p float64) { got = append(got, p) },
	}))
	require.NoError(t, err)
	require.Equal(t, []float64{0}, got)

	s.OnScroll(1400)
	assert.Len(t, got, 1, "the raw progress is not delivered")
	assert.Equal(t, 1.0, tr.Progress())

	require.Equal(t, 1, s.Tick(1.0/60))
	require.Len(t, got, 2)
	assert.Greater(t, got[1], 0.0)
	assert.Less(t, got[1], 1.0)

	for i := 0; i < 1000; i++ {
		if s.Tick(1.0/60) == 0 {
			break
		}
	}
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
	}
	assert.Equal(t, 1.0, got[len(got)-1])
	assert.Equal(t, 1.0, tr.Smoothed())
	assert.Equal(t, 0, s.Tick(1.0/60))
}

func TestScheduler_SmoothScrubIndependentOfFrameRate(t *testing.T) {
	smoothed := func(dts ...float64) float64 {
		n := section("hero")
		s := New(WithViewport(800, 0))
		tr, err := s.Register(n, mustBounds(t, "top bottom", "bottom top"), nil, SmoothScrub)
		require.NoError(t, err)
		s.OnScroll(1400)
		for _, dt := range dts {
			s.Tick(dt)
		}
		return tr.Smoothed()
	}

	frame := 1.0 / 60
	slow := smoothed(0.1)
	fast := smoothed(frame, frame, frame, frame, frame, frame)
	assert.InDelta(t, fast, slow, 1e-12)
	assert.Greater(t, slow, smoothed(frame))
}

func TestScheduler_ClearKillsEverything(t *testing.T) {
	n := section("card")
	s := New(WithViewport(800, 0))
	tl := NewTimeline().To(n, Props{PropX: 1}, 1, Linear)
	_, err := s.Register(n, mustBounds(t, "top 80%", ""), tl, Discrete)
	require.NoError(t, err)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.True(t, tl.Killed())
}
