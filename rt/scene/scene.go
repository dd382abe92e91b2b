package scene

import (
	"errors"
	"math/rand"
	"time"

	"github.com/gekko3d/backdrop/rt/core"
	"github.com/gekko3d/backdrop/rt/field"
	"github.com/go-gl/mathgl/mgl32"
)

// Pipeline is the GPU side of the scene: one particle buffer, one program,
// one draw call per frame.
type Pipeline interface {
	Upload(buf *field.Buffer) error
	WriteCamera(u core.CameraUniforms) error
	WriteFrame(u core.FrameUniforms) error
	Draw(instances uint32) error
	Resize(width, height int) error
	Release()
}

// Surface hands out the pipeline bound to a drawing surface.
type Surface interface {
	Acquire(size Size) (Pipeline, error)
}

type SurfaceFunc func(size Size) (Pipeline, error)

func (f SurfaceFunc) Acquire(size Size) (Pipeline, error) { return f(size) }

type Size struct {
	Width  int
	Height int
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

const (
	DefaultTimeStep               float32 = 0.01
	DefaultMaxConsecutiveFailures         = 5
)

type options struct {
	field       field.Config
	rng         field.Source
	frames      FrameScheduler
	timeStep    float32
	maxFailures int
	log         Logger
	onDegraded  func(error)
	onTeardown  []func()
}

type Option func(*options)

func WithField(cfg field.Config) Option { return func(o *options) { o.field = cfg } }

func WithRand(src field.Source) Option { return func(o *options) { o.rng = src } }

// WithFrames sets the frame pacing primitive. Defaults to a private FrameQueue.
func WithFrames(f FrameScheduler) Option { return func(o *options) { o.frames = f } }

func WithTimeStep(step float32) Option { return func(o *options) { o.timeStep = step } }

func WithMaxConsecutiveFailures(n int) Option { return func(o *options) { o.maxFailures = n } }

func WithLogger(l Logger) Option { return func(o *options) { o.log = l } }

// WithOnDegraded is called once, after teardown, with a *RenderDegradedError.
func WithOnDegraded(fn func(error)) Option { return func(o *options) { o.onDegraded = fn } }

// WithOnTeardown registers a hook run by Teardown, typically detaching input listeners.
func WithOnTeardown(fn func()) Option {
	return func(o *options) { o.onTeardown = append(o.onTeardown, fn) }
}

// Scene owns the camera, particle buffer and GPU pipeline, and runs the frame loop.
type Scene struct {
	opts     options
	pipeline Pipeline
	buffer   *field.Buffer
	camera   *core.Camera
	frames   FrameScheduler

	uniforms core.FrameUniforms
	pointer  mgl32.Vec2

	pending  FrameID
	released bool
	err      error

	failures int
	ticks    int
	draws    int
}

// New builds the particle buffer, acquires the pipeline, uploads the buffer
// once and schedules the first frame.
func New(surface Surface, size Size, opts ...Option) (*Scene, error) {
	o := options{
		field:       field.DefaultConfig(),
		timeStep:    DefaultTimeStep,
		maxFailures: DefaultMaxConsecutiveFailures,
		log:         nopLogger{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.frames == nil {
		o.frames = NewFrameQueue()
	}
	if o.timeStep <= 0 {
		o.timeStep = DefaultTimeStep
	}
	if o.maxFailures <= 0 {
		o.maxFailures = DefaultMaxConsecutiveFailures
	}

	buf, err := field.Generate(o.field, o.rng)
	if err != nil {
		return nil, err
	}

	if surface == nil {
		return nil, &SurfaceUnavailableError{Err: errors.New("no surface")}
	}
	pipeline, err := surface.Acquire(size)
	if err != nil {
		return nil, &SurfaceUnavailableError{Err: err}
	}
	if pipeline == nil {
		return nil, &SurfaceUnavailableError{Err: errors.New("surface returned no pipeline")}
	}

	s := &Scene{
		opts:     o,
		pipeline: pipeline,
		buffer:   buf,
		camera:   core.NewCamera(size.Width, size.Height),
		frames:   o.frames,
	}

	if err := pipeline.Upload(buf); err != nil {
		pipeline.Release()
		return nil, &SurfaceUnavailableError{Err: err}
	}
	if err := pipeline.WriteCamera(s.camera.Uniforms()); err != nil {
		pipeline.Release()
		return nil, &SurfaceUnavailableError{Err: err}
	}

	o.log.Infof("scene: %d particles, viewport %dx%d", buf.Len(), size.Width, size.Height)
	s.schedule()
	return s, nil
}

func (s *Scene) schedule() {
	var id FrameID
	id = s.frames.RequestFrame(func() { s.tick(id) })
	s.pending = id
}

// tick runs one frame. id is the frame it was scheduled as; anything else is a stale callback.
func (s *Scene) tick(id FrameID) {
	if s.released || id != s.pending {
		return
	}
	s.pending = 0
	s.ticks++

	s.uniforms.Time += s.opts.timeStep
	s.uniforms.Pointer = s.pointer

	if err := s.drawFrame(); err != nil {
		s.failures++
		s.opts.log.Warnf("scene: frame %d skipped (%d/%d): %v", s.ticks, s.failures, s.opts.maxFailures, err)
		if s.failures >= s.opts.maxFailures {
			s.degrade(err)
			return
		}
	} else {
		s.failures = 0
	}

	s.schedule()
}

func (s *Scene) drawFrame() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errFramePanic{value: r}
		}
	}()

	if err := s.pipeline.WriteFrame(s.uniforms); err != nil {
		return err
	}
	if err := s.pipeline.Draw(uint32(s.buffer.Len())); err != nil {
		return err
	}
	s.draws++
	return nil
}

func (s *Scene) degrade(last error) {
	s.err = &RenderDegradedError{Failures: s.failures, Last: last}
	s.opts.log.Errorf("%v", s.err)
	s.Teardown()
	if s.opts.onDegraded != nil {
		s.opts.onDegraded(s.err)
	}
}

// SetPointer stores the normalized pointer position, clamped to [-1,1].
// The next frame picks up whatever was written last.
func (s *Scene) SetPointer(x, y float32) {
	s.pointer = mgl32.Vec2{
		mgl32.Clamp(x, -1, 1),
		mgl32.Clamp(y, -1, 1),
	}
}

// Resize updates camera and surface. The particle buffer is left alone.
func (s *Scene) Resize(size Size) {
	if s.released || size.Width <= 0 || size.Height <= 0 {
		return
	}
	s.camera.SetViewport(size.Width, size.Height)
	if err := s.pipeline.Resize(size.Width, size.Height); err != nil {
		s.opts.log.Warnf("scene: resize to %dx%d: %v", size.Width, size.Height, err)
		return
	}
	if err := s.pipeline.WriteCamera(s.camera.Uniforms()); err != nil {
		s.opts.log.Warnf("scene: camera update: %v", err)
	}
}

// Teardown cancels the pending frame and releases GPU resources. Calling it again is a no-op.
func (s *Scene) Teardown() {
	if s.released {
		return
	}
	s.released = true
	if s.pending != 0 {
		s.frames.CancelFrame(s.pending)
		s.pending = 0
	}
	s.pipeline.Release()
	for _, fn := range s.opts.onTeardown {
		fn()
	}
	s.opts.log.Debugf("scene: torn down after %d frames", s.ticks)
}

func (s *Scene) Alive() bool { return !s.released }

// Err returns the *RenderDegradedError once the loop has given up, nil otherwise.
func (s *Scene) Err() error { return s.err }

func (s *Scene) Buffer() *field.Buffer { return s.buffer }

func (s *Scene) Camera() core.Camera { return *s.camera }

func (s *Scene) Uniforms() core.FrameUniforms { return s.uniforms }

// Frames reports how many ticks ran, drawn or skipped.
func (s *Scene) Frames() int { return s.ticks }

func (s *Scene) Draws() int { return s.draws }

// PointerFromCursor normalizes a window cursor position to [-1,1], +Y up.
func PointerFromCursor(x, y float64, width, height int) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	nx := (x/float64(width) - 0.5) * 2
	ny := -(y/float64(height) - 0.5) * 2
	return float32(nx), float32(ny)
}
