package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Phase bounds at which the oscillator reverses.
const (
	WindPhaseUpper = 0.9
	WindPhaseLower = -0.9
)

// WindSign is the direction the phase currently travels in.
type WindSign int

const (
	Falling WindSign = iota
	Rising
)

func (s WindSign) String() string {
	switch s {
	case Falling:
		return "falling"
	case Rising:
		return "rising"
	}
	return fmt.Sprintf("WindSign(%d)", int(s))
}

// WindOscillator drives the ping-pong phase consumed by the grass vertex stage.
// Direction and Strength are passed through to the wind block unchecked.
type WindOscillator struct {
	Direction mgl32.Vec3
	Strength  float32
	Phase     float32
	Sign      WindSign
}

func NewWindOscillator() *WindOscillator {
	return &WindOscillator{
		Direction: mgl32.Vec3{1, 0, 0},
		Strength:  1,
		Phase:     1,
		Sign:      Falling,
	}
}

// Tick advances the phase by increment and flips direction past ±0.9.
func (w *WindOscillator) Tick(increment float32) {
	switch w.Sign {
	case Falling:
		w.Phase -= increment
		if w.Phase < WindPhaseLower {
			w.Sign = Rising
		}
	default:
		w.Phase += increment
		if w.Phase > WindPhaseUpper {
			w.Sign = Falling
		}
	}
}

// Uniform snapshots the oscillator into the wind block layout.
func (w *WindOscillator) Uniform() WindUniform {
	return WindUniform{
		Direction: w.Direction,
		Strength:  w.Strength,
		Phase:     w.Phase,
	}
}
