package decor

import (
	"fmt"
	"image/color"

	css "github.com/mazznoer/csscolorparser"
)

// Source is a random source. *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// OrbConfig describes one family of floating glow orbs. Every span is
// added to its min: a value is min + rand*span.
type OrbConfig struct {
	Count        int     `yaml:"count"`
	SizeMin      float64 `yaml:"size_min"`
	SizeSpan     float64 `yaml:"size_span"`
	DelayMax     float64 `yaml:"delay_max"`
	DurationMin  float64 `yaml:"duration_min"`
	DurationSpan float64 `yaml:"duration_span"`
	OpacityMin   float64 `yaml:"opacity_min"`
	OpacitySpan  float64 `yaml:"opacity_span"`

	// Palette is picked from uniformly. When empty, colors are drawn as
	// hsl(HueMin + rand*HueSpan, 70%, 60%).
	Palette []string `yaml:"palette"`
	HueMin  float64  `yaml:"hue_min"`
	HueSpan float64  `yaml:"hue_span"`

	// Wander is the max per-orb keyframe offset in px. Zero shares one
	// keyframe set between all orbs of the family.
	Wander float64 `yaml:"wander"`
}

type LineConfig struct {
	Count        int     `yaml:"count"`
	DurationMin  float64 `yaml:"duration_min"`
	DurationSpan float64 `yaml:"duration_span"`
	DelayMax     float64 `yaml:"delay_max"`
}

type ScanLine struct {
	Top      float64 `yaml:"top"` // % of the viewport height
	Duration float64 `yaml:"duration"`
	Reverse  bool    `yaml:"reverse"`
	Color    string  `yaml:"color"`
}

type GridConfig struct {
	Spacing float64 `yaml:"spacing"` // px
	Color   string  `yaml:"color"`
}

// Config is the full decoration recipe for a page.
type Config struct {
	Orbs      OrbConfig  `yaml:"orbs"`
	HeroOrbs  OrbConfig  `yaml:"hero_orbs"`
	Lines     LineConfig `yaml:"lines"`
	ScanLines []ScanLine `yaml:"scan_lines"`
	Grid      GridConfig `yaml:"grid"`

	Background []string `yaml:"background"`
}

func DefaultConfig() Config {
	return Config{
		Orbs: OrbConfig{
			Count: 22, SizeMin: 80, SizeSpan: 220,
			DelayMax: 6, DurationMin: 10, DurationSpan: 12,
			OpacityMin: 0.08, OpacitySpan: 0.25,
			Palette: []string{"#00ffff", "#ff00ff"},
		},
		HeroOrbs: OrbConfig{
			Count: 15, SizeMin: 50, SizeSpan: 200,
			DelayMax: 5, DurationMin: 10, DurationSpan: 10,
			OpacityMin: 0.1, OpacitySpan: 0.3,
			HueMin: 180, HueSpan: 120,
			Wander: 30,
		},
		Lines: LineConfig{Count: 26, DurationMin: 3, DurationSpan: 4, DelayMax: 2},
		ScanLines: []ScanLine{
			{Top: 18, Duration: 9, Color: "#22d3ee"},
			{Top: 62, Duration: 11, Reverse: true, Color: "#e879f9"},
		},
		Grid:       GridConfig{Spacing: 60, Color: "rgba(0,255,255,0.07)"},
		Background: []string{"#05060b", "#060a16", "#00040f"},
	}
}

// ConfigError reports an invalid decoration setting.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decor: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("decor: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (c Config) Validate() error {
	if err := c.Orbs.validate("orbs"); err != nil {
		return err
	}
	if err := c.HeroOrbs.validate("hero_orbs"); err != nil {
		return err
	}
	if c.Lines.Count < 0 {
		return &ConfigError{Field: "lines.count", Reason: "must not be negative"}
	}
	if c.Lines.Count > 0 && (c.Lines.DurationMin <= 0 || c.Lines.DurationSpan < 0 || c.Lines.DelayMax < 0) {
		return &ConfigError{Field: "lines.duration", Reason: "must be positive"}
	}
	for i, s := range c.ScanLines {
		field := fmt.Sprintf("scan_lines[%d]", i)
		if s.Duration <= 0 {
			return &ConfigError{Field: field + ".duration", Reason: "must be positive"}
		}
		if _, err := ParseColor(s.Color); err != nil {
			return &ConfigError{Field: field + ".color", Reason: "unparsable color", Err: err}
		}
	}
	if c.Grid.Spacing < 0 {
		return &ConfigError{Field: "grid.spacing", Reason: "must not be negative"}
	}
	if c.Grid.Spacing > 0 {
		if _, err := ParseColor(c.Grid.Color); err != nil {
			return &ConfigError{Field: "grid.color", Reason: "unparsable color", Err: err}
		}
	}
	for i, bg := range c.Background {
		if _, err := ParseColor(bg); err != nil {
			return &ConfigError{Field: fmt.Sprintf("background[%d]", i), Reason: "unparsable color", Err: err}
		}
	}
	return nil
}

func (o OrbConfig) validate(prefix string) error {
	switch {
	case o.Count < 0:
		return &ConfigError{Field: prefix + ".count", Reason: "must not be negative"}
	case o.SizeMin < 0 || o.SizeSpan < 0:
		return &ConfigError{Field: prefix + ".size", Reason: "must not be negative"}
	case o.DelayMax < 0:
		return &ConfigError{Field: prefix + ".delay_max", Reason: "must not be negative"}
	case o.DurationSpan < 0 || (o.Count > 0 && o.DurationMin <= 0):
		return &ConfigError{Field: prefix + ".duration", Reason: "must be positive"}
	case o.OpacityMin < 0 || o.OpacitySpan < 0 || o.OpacityMin+o.OpacitySpan > 1:
		return &ConfigError{Field: prefix + ".opacity", Reason: "must stay within [0,1]"}
	case o.Wander < 0:
		return &ConfigError{Field: prefix + ".wander", Reason: "must not be negative"}
	}
	for i, p := range o.Palette {
		if _, err := ParseColor(p); err != nil {
			return &ConfigError{Field: fmt.Sprintf("%s.palette[%d]", prefix, i), Reason: "unparsable color", Err: err}
		}
	}
	return nil
}

// ParseColor parses any CSS color string.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := css.Parse(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{
		R: uint8(255*c.R + 0.5),
		G: uint8(255*c.G + 0.5),
		B: uint8(255*c.B + 0.5),
		A: uint8(255*c.A + 0.5),
	}, nil
}
