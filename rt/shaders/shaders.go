package shaders

import (
	_ "embed"
)

//go:embed particles.wgsl
var ParticlesWGSL string

// Entry points in ParticlesWGSL.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// QuadVertices is the vertex count of the per-particle quad.
const QuadVertices = 6

// MaxPointSize is the largest sprite edge in pixels, matching MAX_POINT_SIZE in particles.wgsl.
const MaxPointSize = 64
