package app

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gekko3d/meadow/grassrt/rt/core"
	"github.com/gekko3d/meadow/grassrt/rt/gpu"
)

// Field holds the CPU side of the grass: population, wind, camera and the
// instance stream feeding the GPU. Step runs on the frame thread only.
type Field struct {
	Instances *core.InstanceField
	Wind      *core.WindOscillator
	Camera    *core.CameraState
	Stage     *core.SettingsStage
	Streaming *gpu.StreamingBufferManager

	// Settings is the configuration currently in effect.
	Settings core.Settings
	// Time is the shader clock.
	Time float32
	// Billboard enables the per-frame orientation pass.
	Billboard bool

	Logger   core.Logger
	Profiler *Profiler
}

// NewField seeds the population from the staged settings and allocates its
// instance buffer. Later changes arrive through the same stage.
func NewField(device gpu.Device, stage *core.SettingsStage, rng *rand.Rand, logger core.Logger) (*Field, error) {
	settings := stage.Snapshot()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}

	instances, err := core.NewInstanceField(settings.GrassCount, settings.CircleRadius, rng)
	if err != nil {
		return nil, err
	}

	streaming := gpu.NewStreamingBufferManager(device, logger)
	if err := streaming.Create(instances.Count()); err != nil {
		return nil, err
	}

	wind := core.NewWindOscillator()
	settings.ApplyWind(wind)

	return &Field{
		Instances: instances,
		Wind:      wind,
		Camera:    core.NewCameraState(),
		Stage:     stage,
		Streaming: streaming,
		Settings:  settings,
		Billboard: true,
		Logger:    logger,
		Profiler:  NewProfiler(),
	}, nil
}

// Step advances one frame: staged settings, wind, clock, orientation, upload.
// A transient upload failure skips this frame's upload and is not an error.
func (f *Field) Step() error {
	f.Profiler.BeginScope("settings")
	err := f.applyStaged()
	f.Profiler.EndScope("settings")
	if err != nil {
		return err
	}

	f.Wind.Tick(f.Settings.WindSpeed)
	f.Time += core.FrameTimeStep

	if f.Billboard {
		f.Profiler.BeginScope("billboard")
		core.RecomputeBillboards(f.Instances, f.Camera)
		f.Profiler.EndScope("billboard")
	}

	f.Profiler.BeginScope("upload")
	err = f.Streaming.Upload(f.Instances)
	f.Profiler.EndScope("upload")

	f.Profiler.SetCount("instances", f.Instances.Count())
	f.Profiler.SetCount("uploads", f.Streaming.Stats().Uploads)

	if errors.Is(err, core.ErrTransientMapFailure) {
		f.Profiler.AddCount("skipped", 1)
		return nil
	}
	return err
}

func (f *Field) applyStaged() error {
	s, changed, regenerate := f.Stage.Take()
	if changed {
		s.ApplyWind(f.Wind)
		f.Settings = s
	}
	if !regenerate {
		return nil
	}
	return f.Regenerate(f.Settings.GrassCount, f.Settings.CircleRadius)
}

// Regenerate rebuilds the population and resizes the instance buffer to match.
func (f *Field) Regenerate(count int, radius float32) error {
	f.Profiler.BeginScope("regen")
	defer f.Profiler.EndScope("regen")

	if err := f.Instances.Regenerate(count, radius, f.Streaming.Resize); err != nil {
		return fmt.Errorf("regenerate %d blades: %w", count, err)
	}
	f.Logger.Infof("grass regenerated: %d blades, radius %.1f, field %s", count, radius, f.Instances.Version)
	return nil
}

// Uniforms builds the three blocks for the grass draw and the floor draw.
func (f *Field) Uniforms(aspect float32) (frame core.FrameUniform, floor core.DrawUniform, wind core.WindUniform) {
	proj := f.Camera.GetProjectionMatrix(aspect)
	view := f.Camera.GetViewMatrix()
	frame = core.FrameUniform{Projection: proj, View: view, Time: f.Time}
	floor = core.DrawUniform{MVP: proj.Mul4(view).Mul4(core.FloorModel())}
	return frame, floor, f.Wind.Uniform()
}

// Status is the one-line summary shown in the debug overlay.
func (f *Field) Status() string {
	return fmt.Sprintf("blades %d  radius %.1f  billboard %v  field %s",
		f.Instances.Count(), f.Instances.Radius(), f.Billboard, f.Instances.Version.String()[:8])
}

func (f *Field) Release() {
	f.Streaming.Release()
}
