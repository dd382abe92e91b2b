package scroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ease maps linear progress t in [0,1] to eased progress.
// Every curve returns 0 at t=0 and 1 at t=1.
type Ease func(t float64) float64

func Linear(t float64) float64 { return t }

// PowerIn is t^(n+1): power1 is quadratic, power4 quintic.
func PowerIn(n int) Ease {
	e := float64(n + 1)
	return func(t float64) float64 { return math.Pow(t, e) }
}

func PowerOut(n int) Ease {
	e := float64(n + 1)
	return func(t float64) float64 { return 1 - math.Pow(1-t, e) }
}

func PowerInOut(n int) Ease {
	e := float64(n + 1)
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2*t, e) / 2
		}
		return 1 - math.Pow(-2*t+2, e)/2
	}
}

// BackOut overshoots the target by an amount controlled by s before settling.
func BackOut(s float64) Ease {
	return func(t float64) float64 {
		u := t - 1
		return 1 + (s+1)*u*u*u + s*u*u
	}
}

func SineInOut(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

var (
	Power1Out   = PowerOut(1)
	Power2Out   = PowerOut(2)
	Power3Out   = PowerOut(3)
	Power4Out   = PowerOut(4)
	Power2InOut = PowerInOut(2)
)

// DefaultBackOvershoot matches back.out with no argument.
const DefaultBackOvershoot = 1.70158

// ParseEase reads ease names such as "power3.out", "back.out(1.7)",
// "sine.inOut" or "none". An empty name is Power1Out.
func ParseEase(name string) (Ease, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Power1Out, nil
	}
	switch strings.ToLower(name) {
	case "none", "linear":
		return Linear, nil
	case "sine.inout":
		return SineInOut, nil
	}

	base, arg, hasArg := strings.Cut(name, "(")
	if hasArg {
		if !strings.HasSuffix(arg, ")") {
			return nil, fmt.Errorf("scroll: ease %q: missing ')'", name)
		}
		arg = strings.TrimSuffix(arg, ")")
	}

	family, dir, ok := strings.Cut(strings.ToLower(base), ".")
	if !ok {
		dir = "out"
	}

	switch {
	case family == "back":
		s := DefaultBackOvershoot
		if hasArg && strings.TrimSpace(arg) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
			if err != nil {
				return nil, fmt.Errorf("scroll: ease %q: %w", name, err)
			}
			s = v
		}
		if dir != "out" {
			return nil, fmt.Errorf("scroll: ease %q: only back.out is supported", name)
		}
		return BackOut(s), nil
	case strings.HasPrefix(family, "power"):
		n, err := strconv.Atoi(strings.TrimPrefix(family, "power"))
		if err != nil || n < 0 || n > 4 {
			return nil, fmt.Errorf("scroll: unknown ease %q", name)
		}
		if n == 0 {
			return Linear, nil
		}
		switch dir {
		case "in":
			return PowerIn(n), nil
		case "out":
			return PowerOut(n), nil
		case "inout":
			return PowerInOut(n), nil
		}
	}
	return nil, fmt.Errorf("scroll: unknown ease %q", name)
}

// MustEase is ParseEase for names known at compile time.
func MustEase(name string) Ease {
	e, err := ParseEase(name)
	if err != nil {
		panic(err)
	}
	return e
}
