package decor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// CSS renders the layout as a self-contained stylesheet. Every animation is
// a CSS keyframe loop, so nothing needs to run per frame afterwards.
func (l *Layout) CSS() string {
	var b strings.Builder

	if len(l.background) > 0 {
		b.WriteString(".backdrop { background: linear-gradient(180deg")
		for i, c := range l.background {
			stop := 0.0
			if len(l.background) > 1 {
				stop = float64(i) / float64(len(l.background)-1) * 100
			}
			fmt.Fprintf(&b, ", %s %s%%", hex(c), num(stop))
		}
		b.WriteString("); }\n")
	}

	if l.grid.Spacing > 0 {
		c := rgba(l.gridColor)
		fmt.Fprintf(&b, ".backdrop-grid { background-image: linear-gradient(%s 1px, transparent 1px), linear-gradient(90deg, %s 1px, transparent 1px); background-size: %spx %spx; }\n",
			c, c, num(l.grid.Spacing), num(l.grid.Spacing))
	}

	for i, o := range l.orbs {
		writeOrb(&b, "orb", i, o, "global-float")
	}
	for i, o := range l.heroOrbs {
		name := "hero-float"
		if o.Wander != nil {
			name = "float-" + strconv.Itoa(i)
		}
		writeOrb(&b, "hero-orb", i, o, name)
	}
	for i, o := range l.heroOrbs {
		if o.Wander == nil {
			continue
		}
		fmt.Fprintf(&b, "@keyframes float-%d { 0%%, 100%% { transform: translate(-50%%, -50%%) translate(0px, 0px) rotate(0deg) scale(1); }", i)
		for k, stop := range []struct {
			pct, rot int
			scale    string
		}{{25, 90, "1.1"}, {50, 180, "0.9"}, {75, 270, "1.05"}} {
			w := o.Wander[k]
			fmt.Fprintf(&b, " %d%% { transform: translate(-50%%, -50%%) translate(%spx, %spx) rotate(%ddeg) scale(%s); }",
				stop.pct, num(w[0]), num(w[1]), stop.rot, stop.scale)
		}
		b.WriteString(" }\n")
	}

	for i, ln := range l.lines {
		fmt.Fprintf(&b, ".neural-%d { x1: %s%%; y1: %s%%; x2: %s%%; y2: %s%%; animation: global-neural %ss ease-in-out %ss infinite; }\n",
			i, num(ln.X1), num(ln.Y1), num(ln.X2), num(ln.Y2), num(ln.Duration), num(ln.Delay))
	}

	for i, s := range l.scans {
		dir := ""
		if s.Reverse {
			dir = " reverse"
		}
		c, _ := ParseColor(s.Color)
		fmt.Fprintf(&b, ".scan-%d { top: %s%%; background: linear-gradient(90deg, transparent, %s, transparent); animation: global-scan %ss linear infinite%s; }\n",
			i, num(s.Top), hex(c), num(s.Duration), dir)
	}

	b.WriteString(keyframes)
	return b.String()
}

func writeOrb(b *strings.Builder, class string, i int, o Orb, anim string) {
	c := hex(o.Color)
	fmt.Fprintf(b, ".%s-%d { left: %s%%; top: %s%%; width: %spx; height: %spx; opacity: %s; background: radial-gradient(circle at 30%% 30%%, %s55, %s22, transparent 70%%); animation: %s %ss ease-in-out %ss infinite; }\n",
		class, i, num(o.X), num(o.Y), num(o.Size), num(o.Size), num(o.Opacity), c, c, anim, num(o.Duration), num(o.Delay))
}

const keyframes = `@keyframes global-float { 0%, 100% { transform: translate(-50%, -50%) translate(0, 0) scale(1); } 25% { transform: translate(-50%, -50%) translate(-16px, 10px) scale(1.05); } 50% { transform: translate(-50%, -50%) translate(12px, -14px) scale(0.98); } 75% { transform: translate(-50%, -50%) translate(-8px, 12px) scale(1.03); } }
@keyframes hero-float { 0%, 100% { transform: translate(-50%, -50%) scale(1); } 50% { transform: translate(-50%, -50%) scale(1.1); } }
@keyframes global-neural { 0% { stroke-dashoffset: 800; opacity: 0; } 40% { opacity: 1; } 100% { stroke-dashoffset: 0; opacity: 0; } }
@keyframes global-scan { 0% { transform: translateY(-100vh); opacity: 0; } 10% { opacity: 1; } 90% { opacity: 1; } 100% { transform: translateY(100vh); opacity: 0; } }
`

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func rgba(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, num(float64(c.A)/255))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
