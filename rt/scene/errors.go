package scene

import (
	"fmt"
)

// SurfaceUnavailableError is returned by New when the drawing surface cannot be acquired.
// Hosts fall back to a static page.
type SurfaceUnavailableError struct {
	Err error
}

func (e *SurfaceUnavailableError) Error() string {
	if e.Err == nil {
		return "scene: drawing surface unavailable"
	}
	return fmt.Sprintf("scene: drawing surface unavailable: %v", e.Err)
}

func (e *SurfaceUnavailableError) Unwrap() error { return e.Err }

// RenderDegradedError is surfaced after too many consecutive frame failures.
// The scene is torn down by the time hosts see it.
type RenderDegradedError struct {
	Failures int
	Last     error
}

func (e *RenderDegradedError) Error() string {
	return fmt.Sprintf("scene: rendering degraded after %d consecutive frame failures: %v", e.Failures, e.Last)
}

func (e *RenderDegradedError) Unwrap() error { return e.Last }

// errFramePanic wraps a panic raised by the GPU binding during a tick.
type errFramePanic struct {
	value any
}

func (e errFramePanic) Error() string {
	return fmt.Sprintf("scene: frame panicked: %v", e.value)
}
