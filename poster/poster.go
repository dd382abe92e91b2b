// Package poster rasterizes a static frame of the backdrop, shown when the
// animated scene cannot run.
package poster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/gekko3d/backdrop/decor"
	"golang.org/x/image/vector"
)

const (
	diskSegments = 48
	// glow rings per orb, outermost first
	orbRings = 6
)

var fallbackBackground = []color.NRGBA{{R: 5, G: 6, B: 11, A: 255}, {R: 0, G: 4, B: 15, A: 255}}

// Render draws layout into a w×h image: background gradient, grid, neural
// lines, scan lines and orbs, in that order.
func Render(layout *decor.Layout, w, h int) *image.RGBA {
	w, h = max(w, 1), max(h, 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := fallbackBackground
	if layout != nil && len(layout.Background()) > 0 {
		bg = layout.Background()
	}
	fillGradient(img, bg)
	if layout == nil {
		return img
	}

	p := &painter{dst: img, w: float32(w), h: float32(h)}

	if grid, c := layout.Grid(); grid.Spacing > 0 {
		s := float32(grid.Spacing)
		for x := float32(0); x < p.w; x += s {
			p.rect(x, 0, 1, p.h, c)
		}
		for y := float32(0); y < p.h; y += s {
			p.rect(0, y, p.w, 1, c)
		}
	}

	for _, ln := range layout.Lines() {
		c := color.NRGBA{R: 0, G: 255, B: 255, A: 64}
		p.line(pct(ln.X1, p.w), pct(ln.Y1, p.h), pct(ln.X2, p.w), pct(ln.Y2, p.h), 1, c)
	}

	for _, s := range layout.ScanLines() {
		c, err := decor.ParseColor(s.Color)
		if err != nil {
			continue
		}
		c.A = 77
		p.rect(0, pct(s.Top, p.h), p.w, 2, c)
	}

	orbs := append(layout.Orbs(), layout.HeroOrbs()...)
	for _, o := range orbs {
		p.orb(pct(o.X, p.w), pct(o.Y, p.h), float32(o.Size)/2, o.Color, o.Opacity)
	}
	return img
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func pct(v float64, extent float32) float32 { return float32(v/100) * extent }

func fillGradient(img *image.RGBA, stops []color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := 0.0
		if b.Dy() > 1 {
			t = float64(y-b.Min.Y) / float64(b.Dy()-1)
		}
		c := sampleStops(stops, t)
		draw.Draw(img, image.Rect(b.Min.X, y, b.Max.X, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
}

func sampleStops(stops []color.NRGBA, t float64) color.NRGBA {
	if len(stops) == 1 {
		return stops[0]
	}
	seg := t * float64(len(stops)-1)
	i := min(int(seg), len(stops)-2)
	f := seg - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5) }
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

type painter struct {
	dst  *image.RGBA
	w, h float32
}

func (p *painter) fill(z *vector.Rasterizer, c color.NRGBA) {
	z.DrawOp = draw.Over
	z.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{})
}

func (p *painter) rect(x, y, w, h float32, c color.NRGBA) {
	z := vector.NewRasterizer(int(p.w), int(p.h))
	z.MoveTo(x, y)
	z.LineTo(x+w, y)
	z.LineTo(x+w, y+h)
	z.LineTo(x, y+h)
	z.ClosePath()
	p.fill(z, c)
}

func (p *painter) line(x1, y1, x2, y2, width float32, c color.NRGBA) {
	dx, dy := x2-x1, y2-y1
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z := vector.NewRasterizer(int(p.w), int(p.h))
	z.MoveTo(x1+nx, y1+ny)
	z.LineTo(x2+nx, y2+ny)
	z.LineTo(x2-nx, y2-ny)
	z.LineTo(x1-nx, y1-ny)
	z.ClosePath()
	p.fill(z, c)
}

// orb approximates the radial glow with stacked translucent disks.
func (p *painter) orb(cx, cy, r float32, c color.NRGBA, opacity float64) {
	for i := 0; i < orbRings; i++ {
		f := 1 - float32(i)/orbRings
		ring := c
		ring.A = uint8(math.Min(255, 255*opacity*0.35))
		p.disk(cx, cy, r*f*0.7, ring)
	}
}

func (p *painter) disk(cx, cy, r float32, c color.NRGBA) {
	if r <= 0 {
		return
	}
	z := vector.NewRasterizer(int(p.w), int(p.h))
	for i := 0; i <= diskSegments; i++ {
		a := 2 * math.Pi * float64(i) / diskSegments
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	p.fill(z, c)
}
