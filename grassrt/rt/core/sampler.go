package core

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Ground level of every placement and the minimum blade size.
const (
	GroundLevel  = 0.0
	MinBladeSize = 0.4
)

// PlacementRecord is the CPU-side description of one blade.
type PlacementRecord struct {
	Position  mgl32.Vec3
	Size      float32
	ColorBase mgl32.Vec3
}

// SampleDisk places one blade uniformly by area inside a disk of the given radius.
// The color is the field base color pushed up by (1,1,0) with blue dropped; the
// shader relies on the over-bright tint.
func SampleDisk(rng *rand.Rand, radius float32, baseColor mgl32.Vec4) PlacementRecord {
	u := rng.Float32()
	theta := rng.Float32() * 2 * math.Pi
	r := radius * float32(math.Sqrt(float64(u)))

	return PlacementRecord{
		Position: mgl32.Vec3{
			r * float32(math.Cos(float64(theta))),
			GroundLevel,
			r * float32(math.Sin(float64(theta))),
		},
		Size: rng.Float32() + MinBladeSize,
		ColorBase: mgl32.Vec3{
			baseColor.X() + 1,
			baseColor.Y() + 1,
			0,
		},
	}
}
