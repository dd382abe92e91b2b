package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the fixed perspective camera looking down -Z at the particle field.
type Camera struct {
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	FovDegrees float32
	Near       float32
	Far        float32
	Width      int
	Height     int
	PixelRatio float32
	// PointScale is the numerator of the perspective point size: size * PointScale / depth.
	PointScale float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Position:   mgl32.Vec3{0, 0, 6},
		Target:     mgl32.Vec3{0, 0, 0},
		FovDegrees: 75,
		Near:       0.1,
		Far:        1000,
		Width:      width,
		Height:     height,
		PixelRatio: 1,
		PointScale: 300,
	}
}

func (c *Camera) Aspect() float32 {
	if c.Height <= 0 {
		return 1
	}
	aspect := float32(c.Width) / float32(c.Height)
	if aspect == 0 {
		aspect = 1
	}
	return aspect
}

func (c *Camera) SetViewport(width, height int) {
	c.Width = width
	c.Height = height
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), c.Aspect(), c.Near, c.Far)
}

func (c *Camera) Uniforms() CameraUniforms {
	return CameraUniforms{
		View: c.GetViewMatrix(),
		Proj: c.GetProjectionMatrix(),
		Viewport: mgl32.Vec4{
			float32(c.Width),
			float32(c.Height),
			c.PixelRatio,
			c.PointScale,
		},
	}
}
