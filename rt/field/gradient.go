package field

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	css "github.com/mazznoer/csscolorparser"
)

// Gradient maps a blend factor t in [0,1] to an RGB color.
type Gradient func(t float32) mgl32.Vec3

// NeonGradient is the cyan to magenta palette used by the hero field.
func NeonGradient(t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		0.6 + 0.4*t,
		0.2 + 0.6*(1-t),
		0.8 + 0.2*t,
	}
}

func LerpGradient(from, to mgl32.Vec3) Gradient {
	return func(t float32) mgl32.Vec3 {
		return from.Add(to.Sub(from).Mul(t))
	}
}

// ParseGradient builds a two stop gradient from CSS color strings ("#00ffff", "magenta", "hsl(300,100%,50%)").
func ParseGradient(from, to string) (Gradient, error) {
	a, err := parseColor(from)
	if err != nil {
		return nil, err
	}
	b, err := parseColor(to)
	if err != nil {
		return nil, err
	}
	return LerpGradient(a, b), nil
}

func parseColor(s string) (mgl32.Vec3, error) {
	c, err := css.Parse(s)
	if err != nil {
		return mgl32.Vec3{}, &ConfigurationError{Field: "gradient", Reason: fmt.Sprintf("color %q: %v", s, err)}
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}
