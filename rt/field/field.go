package field

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle matches the instance layout in particles.wgsl
// struct Particle { vec3 pos; float size; vec3 color; float _pad; }
type Particle struct {
	Position mgl32.Vec3
	Size     float32
	Color    mgl32.Vec3
	_        float32
}

// ParticleStride is the byte stride of one Particle in the instance buffer.
const ParticleStride = uint64(unsafe.Sizeof(Particle{}))

// Source is the random source Generate draws from. *math/rand.Rand satisfies it.
type Source interface {
	Float32() float32
}

type Config struct {
	Count        int
	BoundsRadius float32
	SizeMin      float32
	SizeMax      float32
	Gradient     Gradient
}

// DefaultConfig is the hero field: 2000 particles in a 24 unit cube.
func DefaultConfig() Config {
	return Config{
		Count:        2000,
		BoundsRadius: 12,
		SizeMin:      1.2,
		SizeMax:      3.7,
		Gradient:     NeonGradient,
	}
}

// ConfigurationError reports an invalid generation parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("field: invalid %s: %s", e.Field, e.Reason)
}

func (c Config) Validate() error {
	if c.Count <= 0 {
		return &ConfigurationError{Field: "count", Reason: fmt.Sprintf("must be > 0, got %d", c.Count)}
	}
	if c.BoundsRadius <= 0 {
		return &ConfigurationError{Field: "bounds radius", Reason: fmt.Sprintf("must be > 0, got %g", c.BoundsRadius)}
	}
	if c.SizeMin > c.SizeMax {
		return &ConfigurationError{Field: "size range", Reason: fmt.Sprintf("min %g > max %g", c.SizeMin, c.SizeMax)}
	}
	if c.SizeMin < 0 {
		return &ConfigurationError{Field: "size range", Reason: fmt.Sprintf("min %g < 0", c.SizeMin)}
	}
	if c.Gradient == nil {
		return &ConfigurationError{Field: "gradient", Reason: "nil"}
	}
	return nil
}

// Buffer is the static per-particle data uploaded once to the GPU.
// Its length never changes after Generate returns.
type Buffer struct {
	particles []Particle
	radius    float32
}

func (b *Buffer) Len() int { return len(b.particles) }

func (b *Buffer) At(i int) Particle { return b.particles[i] }

func (b *Buffer) BoundsRadius() float32 { return b.radius }

// Bytes aliases the particle memory for upload. Callers must not write to it.
func (b *Buffer) Bytes() []byte {
	if len(b.particles) == 0 {
		return nil
	}
	size := uint64(len(b.particles)) * ParticleStride
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.particles[0])), size)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// Generate fills a cube of half-extent cfg.BoundsRadius with cfg.Count particles.
// The result depends only on cfg and the values drawn from rng.
func Generate(cfg Config, rng Source) (*Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, &ConfigurationError{Field: "random source", Reason: "nil"}
	}

	r := cfg.BoundsRadius
	particles := make([]Particle, cfg.Count)
	for i := range particles {
		p := &particles[i]
		p.Position = mgl32.Vec3{
			lerp(-r, r, rng.Float32()),
			lerp(-r, r, rng.Float32()),
			lerp(-r, r, rng.Float32()),
		}
		p.Color = cfg.Gradient(rng.Float32())
		p.Size = lerp(cfg.SizeMin, cfg.SizeMax, rng.Float32())
	}

	return &Buffer{particles: particles, radius: r}, nil
}
