package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSampleDiskStaysInsideRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := mgl32.Vec4{0.2, 0.3, 0.4, 1}

	for _, radius := range []float32{1, 5, 500} {
		for i := 0; i < 5000; i++ {
			p := SampleDisk(rng, radius, base)
			dist := math.Hypot(float64(p.Position.X()), float64(p.Position.Z()))
			if dist > float64(radius)*(1+1e-5) {
				t.Fatalf("radius %v: placement %d at distance %v", radius, i, dist)
			}
			assert.Equal(t, float32(GroundLevel), p.Position.Y())
		}
	}
}

func TestSampleDiskIsAreaUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 10000
	const radius = 10

	inner := 0
	for i := 0; i < n; i++ {
		p := SampleDisk(rng, radius, mgl32.Vec4{})
		if math.Hypot(float64(p.Position.X()), float64(p.Position.Z())) < radius/2 {
			inner++
		}
	}

	// Area-uniform sampling puts a quarter of the points inside R/2; linear
	// sampling would put half of them there.
	frac := float64(inner) / n
	assert.InDelta(t, 0.25, frac, 0.02)
}

func TestSampleDiskSizeAndColor(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := mgl32.Vec4{0.5, 0.25, 0.9, 1}

	for i := 0; i < 5000; i++ {
		p := SampleDisk(rng, 3, base)
		if p.Size < MinBladeSize || p.Size >= MinBladeSize+1 {
			t.Fatalf("size %v outside [0.4, 1.4)", p.Size)
		}
		assert.Equal(t, mgl32.Vec3{1.5, 1.25, 0}, p.ColorBase)
	}
}
