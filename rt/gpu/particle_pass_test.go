package gpu

import (
	"testing"

	"github.com/gekko3d/backdrop/rt/core"
	"github.com/gekko3d/backdrop/rt/scene"
	"github.com/stretchr/testify/assert"
)

func TestOpen_NilWindow(t *testing.T) {
	p, err := Open(nil, 640, 480)
	assert.Nil(t, p)
	assert.Error(t, err)
}

func TestWindowSurface_NilWindowIsUnavailable(t *testing.T) {
	_, err := scene.New(WindowSurface{}, scene.Size{Width: 640, Height: 480})
	var unavailable *scene.SurfaceUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestParticlePass_ReleasedRejectsWork(t *testing.T) {
	p := &ParticlePass{}
	p.Release()
	p.Release()

	assert.ErrorIs(t, p.Draw(10), ErrReleased)
	assert.ErrorIs(t, p.WriteFrame(core.FrameUniforms{}), ErrReleased)
	assert.ErrorIs(t, p.WriteCamera(core.CameraUniforms{}), ErrReleased)
	assert.ErrorIs(t, p.Resize(10, 10), ErrReleased)
	assert.ErrorIs(t, p.Upload(nil), ErrReleased)
}
