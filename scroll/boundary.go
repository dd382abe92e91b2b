package scroll

import (
	"fmt"
	"strconv"
	"strings"
)

// Boundary is the point where an element edge meets a viewport line.
// Edge is 0 at the element top and 1 at its bottom. Viewport is 0 at the
// top of the viewport and 1 at its bottom.
type Boundary struct {
	Edge     float64
	Viewport float64
}

// Boundaries delimit a trigger's active band. A zero End means "bottom top".
type Boundaries struct {
	Start Boundary
	End   Boundary
}

var DefaultEnd = Boundary{Edge: 1, Viewport: 0}

func (b Boundary) String() string {
	return formatPosition(b.Edge) + " " + formatPosition(b.Viewport)
}

// scrollAt is the scroll offset at which the boundary is met.
func (b Boundary) scrollAt(r Rect, viewport float64) float64 {
	return r.Top + b.Edge*r.Height - b.Viewport*viewport
}

// ParseBoundary reads "<element> <viewport>" pairs such as "top 80%",
// "bottom top" or "center 50%".
func ParseBoundary(s string) (Boundary, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Boundary{}, fmt.Errorf("scroll: boundary %q: want \"<element> <viewport>\"", s)
	}
	edge, err := parsePosition(fields[0])
	if err != nil {
		return Boundary{}, fmt.Errorf("scroll: boundary %q: %w", s, err)
	}
	vp, err := parsePosition(fields[1])
	if err != nil {
		return Boundary{}, fmt.Errorf("scroll: boundary %q: %w", s, err)
	}
	return Boundary{Edge: edge, Viewport: vp}, nil
}

// ParseBoundaries parses start and end. An empty end yields DefaultEnd.
func ParseBoundaries(start, end string) (Boundaries, error) {
	var b Boundaries
	var err error
	if b.Start, err = ParseBoundary(start); err != nil {
		return Boundaries{}, err
	}
	if strings.TrimSpace(end) == "" {
		b.End = DefaultEnd
		return b, nil
	}
	if b.End, err = ParseBoundary(end); err != nil {
		return Boundaries{}, err
	}
	return b, nil
}

func parsePosition(tok string) (float64, error) {
	switch strings.ToLower(tok) {
	case "top":
		return 0, nil
	case "center":
		return 0.5, nil
	case "bottom":
		return 1, nil
	}
	if !strings.HasSuffix(tok, "%") {
		return 0, fmt.Errorf("unknown position %q", tok)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("bad percentage %q", tok)
	}
	return v / 100, nil
}

func formatPosition(v float64) string {
	switch v {
	case 0:
		return "top"
	case 0.5:
		return "center"
	case 1:
		return "bottom"
	}
	return strconv.FormatFloat(v*100, 'f', -1, 64) + "%"
}

// Action is what a trigger does to its animation on a boundary crossing.
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionReverse
	ActionRestart
	ActionReset
	ActionComplete
)

var actionNames = [...]string{"none", "play", "reverse", "restart", "reset", "complete"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Action(" + strconv.Itoa(int(a)) + ")"
	}
	return actionNames[a]
}

func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if strings.EqualFold(s, name) {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("scroll: unknown action %q", s)
}

// Actions holds one Action per crossing, in onEnter onLeave onEnterBack onLeaveBack order.
type Actions struct {
	OnEnter     Action
	OnLeave     Action
	OnEnterBack Action
	OnLeaveBack Action
}

var DefaultActions = Actions{OnEnter: ActionPlay, OnLeaveBack: ActionReverse}

// ParseActions reads four space separated actions, e.g. "play none none reverse".
func ParseActions(s string) (Actions, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return Actions{}, fmt.Errorf("scroll: actions %q: want four fields", s)
	}
	var parsed [4]Action
	for i, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return Actions{}, err
		}
		parsed[i] = a
	}
	return Actions{OnEnter: parsed[0], OnLeave: parsed[1], OnEnterBack: parsed[2], OnLeaveBack: parsed[3]}, nil
}

func (a Actions) String() string {
	return strings.Join([]string{a.OnEnter.String(), a.OnLeave.String(), a.OnEnterBack.String(), a.OnLeaveBack.String()}, " ")
}
