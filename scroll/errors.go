package scroll

import "errors"

var (
	// ErrTimelineOwned is returned when an animation is registered with a second trigger.
	ErrTimelineOwned = errors.New("scroll: timeline already owned by a trigger")
	// ErrCounterScrub is returned when a Counter is registered in a scrub mode.
	ErrCounterScrub = errors.New("scroll: counters cannot be scrubbed")
	ErrNilElement   = errors.New("scroll: nil element")
)
