package poster

import (
	"bytes"
	"image/png"
	"math/rand"
	"testing"

	"github.com/gekko3d/backdrop/decor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DrawsBackgroundAndOrbs(t *testing.T) {
	cfg := decor.DefaultConfig()
	cfg.Orbs.Count = 1
	cfg.HeroOrbs.Count = 0
	cfg.Lines.Count = 0
	cfg.ScanLines = nil
	cfg.Grid.Spacing = 0
	cfg.Orbs.SizeMin, cfg.Orbs.SizeSpan = 200, 0
	cfg.Orbs.OpacityMin, cfg.Orbs.OpacitySpan = 0.9, 0
	layout, err := decor.Compose(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	img := Render(layout, 320, 200)
	require.Equal(t, 320, img.Bounds().Dx())

	cfg.Orbs.Count = 0
	empty, err := decor.Compose(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	plain := Render(empty, 320, 200)

	orb := layout.Orbs()[0]
	cx, cy := int(orb.X/100*320), int(orb.Y/100*200)
	lit := img.RGBAAt(cx, cy)
	unlit := plain.RGBAAt(cx, cy)
	assert.Greater(t, int(lit.B), int(unlit.B), "orb should brighten the background")
	assert.Equal(t, uint8(255), unlit.A)
}

func TestRender_NilLayoutIsPlainGradient(t *testing.T) {
	img := Render(nil, 4, 10)
	top := img.RGBAAt(0, 0)
	bottom := img.RGBAAt(0, 9)
	assert.Equal(t, uint8(5), top.R)
	assert.Equal(t, uint8(15), bottom.B)
}

func TestWritePNG(t *testing.T) {
	layout, err := decor.Compose(decor.DefaultConfig(), rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, Render(layout, 64, 48)))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}
