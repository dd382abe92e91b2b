package scene

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gekko3d/backdrop/rt/core"
	"github.com/gekko3d/backdrop/rt/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	uploads      int
	uploaded     *field.Buffer
	cameraWrites int
	frameWrites  int
	draws        int
	instances    uint32
	resizes      [][2]int
	released     int
	lastFrame    core.FrameUniforms
	lastCamera   core.CameraUniforms

	// drawErr, when set, is returned by Draw while failNext > 0.
	drawErr  error
	failNext int
	panicMsg string
}

func (p *fakePipeline) Upload(buf *field.Buffer) error {
	p.uploads++
	p.uploaded = buf
	return nil
}

func (p *fakePipeline) WriteCamera(u core.CameraUniforms) error {
	p.cameraWrites++
	p.lastCamera = u
	return nil
}

func (p *fakePipeline) WriteFrame(u core.FrameUniforms) error {
	p.frameWrites++
	p.lastFrame = u
	return nil
}

func (p *fakePipeline) Draw(instances uint32) error {
	if p.panicMsg != "" && p.failNext > 0 {
		p.failNext--
		panic(p.panicMsg)
	}
	if p.drawErr != nil && p.failNext > 0 {
		p.failNext--
		return p.drawErr
	}
	p.draws++
	p.instances = instances
	return nil
}

func (p *fakePipeline) Resize(width, height int) error {
	p.resizes = append(p.resizes, [2]int{width, height})
	return nil
}

func (p *fakePipeline) Release() { p.released++ }

// manualFrames keeps every requested callback so tests can fire stale ones.
type manualFrames struct {
	next      FrameID
	callbacks map[FrameID]func()
	cancelled map[FrameID]bool
	order     []FrameID
}

func newManualFrames() *manualFrames {
	return &manualFrames{callbacks: map[FrameID]func(){}, cancelled: map[FrameID]bool{}}
}

func (m *manualFrames) RequestFrame(cb func()) FrameID {
	m.next++
	m.callbacks[m.next] = cb
	m.order = append(m.order, m.next)
	return m.next
}

func (m *manualFrames) CancelFrame(id FrameID) { m.cancelled[id] = true }

func (m *manualFrames) fire(id FrameID) { m.callbacks[id]() }

func newTestScene(t *testing.T, p *fakePipeline, opts ...Option) (*Scene, *FrameQueue) {
	t.Helper()
	q := NewFrameQueue()
	base := []Option{
		WithFrames(q),
		WithRand(rand.New(rand.NewSource(1))),
		WithField(field.Config{Count: 2000, BoundsRadius: 12, SizeMin: 1.2, SizeMax: 3.7, Gradient: field.NeonGradient}),
	}
	s, err := New(SurfaceFunc(func(Size) (Pipeline, error) { return p, nil }), Size{Width: 1280, Height: 720}, append(base, opts...)...)
	require.NoError(t, err)
	return s, q
}

func TestScene_HundredFramesOneDrawEach(t *testing.T) {
	p := &fakePipeline{}
	s, q := newTestScene(t, p)
	s.SetPointer(0, 0)

	for i := 1; i <= 100; i++ {
		require.Equal(t, 1, q.Drain(), "frame %d", i)
		assert.Equal(t, i, p.draws)
		assert.Equal(t, i, p.frameWrites)
	}

	assert.Equal(t, 1, p.uploads)
	assert.Equal(t, uint32(2000), p.instances)
	assert.Equal(t, 100, s.Draws())
	assert.NoError(t, s.Err())
	assert.True(t, s.Alive())
	assert.InDelta(t, 1.0, s.Uniforms().Time, 1e-4)
}

func TestScene_TimeAdvancesByFixedStep(t *testing.T) {
	p := &fakePipeline{}
	s, q := newTestScene(t, p, WithTimeStep(0.5))

	q.Drain()
	q.Drain()
	q.Drain()

	assert.Equal(t, float32(1.5), s.Uniforms().Time)
	assert.Equal(t, float32(1.5), p.lastFrame.Time)
}

func TestScene_PointerLastWriteWins(t *testing.T) {
	p := &fakePipeline{}
	s, q := newTestScene(t, p)

	s.SetPointer(0.1, 0.2)
	s.SetPointer(-0.5, 0.75)
	q.Drain()
	assert.Equal(t, float32(-0.5), p.lastFrame.Pointer.X())
	assert.Equal(t, float32(0.75), p.lastFrame.Pointer.Y())

	s.SetPointer(3, -9)
	q.Drain()
	assert.Equal(t, float32(1), p.lastFrame.Pointer.X())
	assert.Equal(t, float32(-1), p.lastFrame.Pointer.Y())
}

func TestScene_TeardownIdempotent(t *testing.T) {
	p := &fakePipeline{}
	hooks := 0
	s, q := newTestScene(t, p, WithOnTeardown(func() { hooks++ }))
	q.Drain()

	s.Teardown()
	s.Teardown()

	assert.Equal(t, 1, p.released)
	assert.Equal(t, 1, hooks)
	assert.False(t, s.Alive())
	assert.Equal(t, 0, q.Len())

	q.Drain()
	assert.Equal(t, 1, p.draws)
}

func TestScene_StaleFrameCallbackAfterTeardown(t *testing.T) {
	p := &fakePipeline{}
	frames := newManualFrames()
	s, err := New(SurfaceFunc(func(Size) (Pipeline, error) { return p, nil }), Size{Width: 10, Height: 10},
		WithFrames(frames), WithRand(rand.New(rand.NewSource(2))))
	require.NoError(t, err)

	frames.fire(frames.order[0])
	require.Equal(t, 1, p.draws)
	second := frames.order[1]

	s.Teardown()
	assert.True(t, frames.cancelled[second])

	// The host fires the cancelled callback anyway.
	frames.fire(second)
	frames.fire(frames.order[0])
	assert.Equal(t, 1, p.draws)
	assert.Equal(t, 1, p.frameWrites)
}

func TestScene_ResizeKeepsBuffer(t *testing.T) {
	p := &fakePipeline{}
	s, q := newTestScene(t, p)
	before := s.Buffer()
	q.Drain()

	s.Resize(Size{Width: 800, Height: 800})
	s.Resize(Size{Width: 0, Height: 600})

	assert.Same(t, before, s.Buffer())
	assert.Same(t, before, p.uploaded)
	assert.Equal(t, 2000, s.Buffer().Len())
	assert.Equal(t, 1, p.uploads)
	assert.Equal(t, [][2]int{{800, 800}}, p.resizes)
	assert.Equal(t, 2, p.cameraWrites)
	cam := s.Camera()
	assert.InDelta(t, 1.0, cam.Aspect(), 1e-6)
}

func TestScene_TransientFailureSwallowed(t *testing.T) {
	p := &fakePipeline{drawErr: errors.New("device lost"), failNext: 2}
	s, q := newTestScene(t, p)

	q.Drain()
	q.Drain()
	q.Drain()

	assert.True(t, s.Alive())
	assert.NoError(t, s.Err())
	assert.Equal(t, 3, s.Frames())
	assert.Equal(t, 1, p.draws)
	assert.Equal(t, 1, q.Len())
}

func TestScene_DegradesAfterConsecutiveFailures(t *testing.T) {
	p := &fakePipeline{drawErr: errors.New("context lost"), failNext: 100}
	var surfaced error
	s, q := newTestScene(t, p, WithMaxConsecutiveFailures(3), WithOnDegraded(func(err error) { surfaced = err }))

	for i := 0; i < 10; i++ {
		q.Drain()
	}

	var degraded *RenderDegradedError
	require.True(t, errors.As(s.Err(), &degraded))
	assert.Equal(t, 3, degraded.Failures)
	assert.Same(t, s.Err(), surfaced)
	assert.False(t, s.Alive())
	assert.Equal(t, 1, p.released)
	assert.Equal(t, 3, s.Frames())
	assert.Equal(t, 0, q.Len())
}

func TestScene_PanicInFrameIsCaught(t *testing.T) {
	p := &fakePipeline{panicMsg: "wgpu: surface outdated", failNext: 1}
	s, q := newTestScene(t, p)

	assert.NotPanics(t, func() { q.Drain() })
	q.Drain()

	assert.True(t, s.Alive())
	assert.Equal(t, 1, p.draws)
}

func TestNew_SurfaceUnavailable(t *testing.T) {
	_, err := New(SurfaceFunc(func(Size) (Pipeline, error) { return nil, errors.New("no adapter") }), Size{Width: 1, Height: 1})
	var unavailable *SurfaceUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.EqualError(t, unavailable.Unwrap(), "no adapter")

	_, err = New(nil, Size{Width: 1, Height: 1})
	assert.True(t, errors.As(err, &unavailable))
}

func TestNew_ConfigurationError(t *testing.T) {
	acquired := false
	_, err := New(SurfaceFunc(func(Size) (Pipeline, error) { acquired = true; return &fakePipeline{}, nil }), Size{Width: 1, Height: 1},
		WithField(field.Config{Count: 0, BoundsRadius: 1, SizeMin: 1, SizeMax: 1, Gradient: field.NeonGradient}))

	var cfgErr *field.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.False(t, acquired)
}

func TestPointerFromCursor(t *testing.T) {
	x, y := PointerFromCursor(0, 0, 200, 100)
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(1), y)

	x, y = PointerFromCursor(100, 50, 200, 100)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y)
}

func TestFrameQueue_CancelDuringDrain(t *testing.T) {
	q := NewFrameQueue()
	ran := []int{}
	var second FrameID
	q.RequestFrame(func() { ran = append(ran, 1); q.CancelFrame(second) })
	second = q.RequestFrame(func() { ran = append(ran, 2) })
	q.RequestFrame(func() { ran = append(ran, 3); q.RequestFrame(func() { ran = append(ran, 4) }) })

	assert.Equal(t, 2, q.Drain())
	assert.Equal(t, []int{1, 3}, ran)
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []int{1, 3, 4}, ran)
}
