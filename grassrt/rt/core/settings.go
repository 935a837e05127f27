package core

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Limits of the configuration surface.
const (
	MaxWindStrength = 50
	MinCircleRadius = 1
	MaxCircleRadius = 500
)

// Settings are the user-adjustable knobs of the grass field.
type Settings struct {
	WindDirection mgl32.Vec3 `yaml:"wind_direction" json:"windDirection"`
	WindStrength  float32    `yaml:"wind_strength" json:"windStrength"`
	WindSpeed     float32    `yaml:"wind_speed" json:"windSpeed"`
	GrassCount    int        `yaml:"grass_count" json:"grassCount"`
	CircleRadius  float32    `yaml:"circle_radius" json:"circleRadius"`
}

func DefaultSettings() Settings {
	return Settings{
		WindDirection: mgl32.Vec3{1, 0, 0},
		WindStrength:  1,
		WindSpeed:     0.001,
		GrassCount:    MaxInstances,
		CircleRadius:  5,
	}
}

// Validate rejects values outside the ranges the UI exposes. Nothing is clamped.
func (s Settings) Validate() error {
	for i, c := range s.WindDirection {
		if !(c >= -1 && c <= 1) {
			return fmt.Errorf("%w: wind direction[%d] = %v not in [-1, 1]", ErrInvalidParameter, i, c)
		}
	}
	if !(s.WindStrength >= 0 && s.WindStrength <= MaxWindStrength) {
		return fmt.Errorf("%w: wind strength %v not in [0, %d]", ErrInvalidParameter, s.WindStrength, MaxWindStrength)
	}
	if !(s.WindSpeed > 0 && s.WindSpeed <= 1) {
		return fmt.Errorf("%w: wind speed %v not in (0, 1]", ErrInvalidParameter, s.WindSpeed)
	}
	if s.GrassCount < 1 || s.GrassCount > MaxInstances {
		return fmt.Errorf("%w: grass count %d not in [1, %d]", ErrInvalidParameter, s.GrassCount, MaxInstances)
	}
	if !(s.CircleRadius >= MinCircleRadius && s.CircleRadius <= MaxCircleRadius) {
		return fmt.Errorf("%w: circle radius %v not in [%d, %d]", ErrInvalidParameter, s.CircleRadius, MinCircleRadius, MaxCircleRadius)
	}
	return nil
}

// ApplyWind copies the wind knobs into the oscillator verbatim.
func (s Settings) ApplyWind(w *WindOscillator) {
	w.Direction = s.WindDirection
	w.Strength = s.WindStrength
}

// SettingsStage is the staging copy written by configuration surfaces, which may
// live on other goroutines, and drained by the frame loop between frames.
type SettingsStage struct {
	mu         sync.Mutex
	settings   Settings
	changed    bool
	regenerate bool
}

func NewSettingsStage(initial Settings) *SettingsStage {
	return &SettingsStage{settings: initial}
}

// Stage validates s and makes it the pending configuration.
func (st *SettingsStage) Stage(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	st.mu.Lock()
	st.settings = s
	st.changed = true
	st.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the staged settings and stages the result if
// it validates. The read, edit and write happen under one lock, so concurrent
// edits never drop each other. fn must not call back into st.
func (st *SettingsStage) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.settings
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	st.settings = next
	st.changed = true
	return nil
}

// RequestRegenerate asks the frame loop to rebuild the field with the staged count and radius.
func (st *SettingsStage) RequestRegenerate() {
	st.mu.Lock()
	st.regenerate = true
	st.mu.Unlock()
}

// Snapshot returns the staged settings without consuming them.
func (st *SettingsStage) Snapshot() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings
}

// Take returns the staged settings and clears the pending flags.
func (st *SettingsStage) Take() (s Settings, changed, regenerate bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, changed, regenerate = st.settings, st.changed, st.regenerate
	st.changed = false
	st.regenerate = false
	return s, changed, regenerate
}
