package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// CameraUniformSize is sizeof(Camera) in particles.wgsl.
	CameraUniformSize = 144
	// FrameUniformSize is sizeof(Frame) in particles.wgsl.
	FrameUniformSize = 16
)

type CameraUniforms struct {
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	Viewport mgl32.Vec4
}

// Bytes encodes the struct
//
//	struct Camera {
//	  view: mat4x4<f32>;     -- 0
//	  proj: mat4x4<f32>;     -- 64
//	  viewport: vec4<f32>;   -- 128
//	} -> 144 bytes
func (u CameraUniforms) Bytes() []byte {
	buf := make([]byte, CameraUniformSize)

	writeMat := func(offset int, mat mgl32.Mat4) {
		for i, v := range mat {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}

	writeMat(0, u.View)
	writeMat(64, u.Proj)
	for i, v := range u.Viewport {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(v))
	}
	return buf
}

// FrameUniforms is the only state the host writes every frame.
type FrameUniforms struct {
	Time    float32
	Pointer mgl32.Vec2
}

// Bytes encodes the struct
//
//	struct Frame {
//	  time: f32;           -- 0
//	  _pad: f32;           -- 4
//	  pointer: vec2<f32>;  -- 8
//	} -> 16 bytes
func (u FrameUniforms) Bytes() []byte {
	var buf [FrameUniformSize]byte
	u.Put(buf[:])
	return buf[:]
}

// Put writes the encoding into dst, which must hold FrameUniformSize bytes.
func (u FrameUniforms) Put(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(u.Time))
	binary.LittleEndian.PutUint32(dst[4:], 0)
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(u.Pointer.X()))
	binary.LittleEndian.PutUint32(dst[12:], math.Float32bits(u.Pointer.Y()))
}
