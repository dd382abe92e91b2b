package decor

import (
	"fmt"
	"image/color"
)

type Orb struct {
	X, Y     float64 // % of the container
	Size     float64 // px
	Delay    float64 // s
	Duration float64 // s
	Opacity  float64
	Color    color.NRGBA
	// Wander holds the 25/50/75% keyframe offsets in px. Nil for shared keyframes.
	Wander [][2]float64
}

type Line struct {
	X1, Y1, X2, Y2 float64 // %
	Duration       float64
	Delay          float64
}

// Layout is a composed, immutable decoration. Accessors return copies.
type Layout struct {
	orbs       []Orb
	heroOrbs   []Orb
	lines      []Line
	scans      []ScanLine
	grid       GridConfig
	gridColor  color.NRGBA
	background []color.NRGBA
}

// Compose draws every random parameter once. The result never changes.
func Compose(cfg Config, rng Source) (*Layout, error) {
	if rng == nil {
		return nil, &ConfigError{Field: "rng", Reason: "nil random source"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Layout{
		scans: append([]ScanLine(nil), cfg.ScanLines...),
		grid:  cfg.Grid,
	}
	var err error
	if l.orbs, err = composeOrbs(cfg.Orbs, rng); err != nil {
		return nil, err
	}
	if l.heroOrbs, err = composeOrbs(cfg.HeroOrbs, rng); err != nil {
		return nil, err
	}

	l.lines = make([]Line, cfg.Lines.Count)
	for i := range l.lines {
		l.lines[i] = Line{
			X1:       rng.Float64() * 100,
			Y1:       rng.Float64() * 100,
			X2:       rng.Float64() * 100,
			Y2:       rng.Float64() * 100,
			Duration: cfg.Lines.DurationMin + rng.Float64()*cfg.Lines.DurationSpan,
			Delay:    rng.Float64() * cfg.Lines.DelayMax,
		}
	}

	if cfg.Grid.Spacing > 0 {
		l.gridColor, _ = ParseColor(cfg.Grid.Color)
	}
	for _, bg := range cfg.Background {
		c, _ := ParseColor(bg)
		l.background = append(l.background, c)
	}
	return l, nil
}

func composeOrbs(cfg OrbConfig, rng Source) ([]Orb, error) {
	palette := make([]color.NRGBA, 0, len(cfg.Palette))
	for _, p := range cfg.Palette {
		c, _ := ParseColor(p)
		palette = append(palette, c)
	}

	orbs := make([]Orb, cfg.Count)
	for i := range orbs {
		o := Orb{
			X:        rng.Float64() * 100,
			Y:        rng.Float64() * 100,
			Size:     cfg.SizeMin + rng.Float64()*cfg.SizeSpan,
			Delay:    rng.Float64() * cfg.DelayMax,
			Duration: cfg.DurationMin + rng.Float64()*cfg.DurationSpan,
			Opacity:  cfg.OpacityMin + rng.Float64()*cfg.OpacitySpan,
		}
		if len(palette) > 0 {
			o.Color = palette[min(int(rng.Float64()*float64(len(palette))), len(palette)-1)]
		} else {
			hue := cfg.HueMin + rng.Float64()*cfg.HueSpan
			c, err := ParseColor(fmt.Sprintf("hsl(%.2f, 70%%, 60%%)", hue))
			if err != nil {
				return nil, &ConfigError{Field: "hue", Reason: "unparsable hsl color", Err: err}
			}
			o.Color = c
		}
		if cfg.Wander > 0 {
			// 25% and 75% keyframes move less than the 50% one
			scales := [3]float64{2.0 / 3, 1, 2.0 / 3}
			o.Wander = make([][2]float64, len(scales))
			for k, s := range scales {
				o.Wander[k] = [2]float64{
					(rng.Float64()*2 - 1) * cfg.Wander * s,
					(rng.Float64()*2 - 1) * cfg.Wander * s,
				}
			}
		}
		orbs[i] = o
	}
	return orbs, nil
}

func (l *Layout) Orbs() []Orb { return cloneOrbs(l.orbs) }

func (l *Layout) HeroOrbs() []Orb { return cloneOrbs(l.heroOrbs) }

func (l *Layout) Lines() []Line { return append([]Line(nil), l.lines...) }

func (l *Layout) ScanLines() []ScanLine { return append([]ScanLine(nil), l.scans...) }

func (l *Layout) Grid() (GridConfig, color.NRGBA) { return l.grid, l.gridColor }

func (l *Layout) Background() []color.NRGBA { return append([]color.NRGBA(nil), l.background...) }

func cloneOrbs(in []Orb) []Orb {
	out := make([]Orb, len(in))
	for i, o := range in {
		if o.Wander != nil {
			o.Wander = append([][2]float64(nil), o.Wander...)
		}
		out[i] = o
	}
	return out
}
