package core

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// MaxInstances bounds the population of a field.
const MaxInstances = 50000

// FieldState gates per-frame work while a field is being rebuilt.
type FieldState int

const (
	FieldIdle FieldState = iota
	FieldRegenerating
)

func (s FieldState) String() string {
	switch s {
	case FieldIdle:
		return "idle"
	case FieldRegenerating:
		return "regenerating"
	}
	return fmt.Sprintf("FieldState(%d)", int(s))
}

// InstanceField owns the placement records and the GPU-ready records of every blade.
type InstanceField struct {
	Version uuid.UUID

	count     int
	radius    float32
	baseColor mgl32.Vec4
	state     FieldState

	placements []PlacementRecord
	gpuRecords []InstanceGPURecord

	rng *rand.Rand
}

// ValidateFieldParams reports ErrInvalidParameter for an out-of-range count or radius.
func ValidateFieldParams(count int, radius float32) error {
	if count < 1 || count > MaxInstances {
		return fmt.Errorf("%w: count %d not in [1, %d]", ErrInvalidParameter, count, MaxInstances)
	}
	if !(radius > 0) || math.IsInf(float64(radius), 1) {
		return fmt.Errorf("%w: radius %v must be positive and finite", ErrInvalidParameter, radius)
	}
	return nil
}

// NewInstanceField picks a random base color and generates count blades within radius.
func NewInstanceField(count int, radius float32, rng *rand.Rand) (*InstanceField, error) {
	if err := ValidateFieldParams(count, radius); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	f := &InstanceField{
		rng: rng,
		baseColor: mgl32.Vec4{
			rng.Float32(),
			rng.Float32(),
			rng.Float32(),
			1,
		},
	}
	f.populate(count, radius)
	return f, nil
}

// RebuildHook runs after the new population exists but before updates are
// re-enabled, e.g. to resize the GPU buffer to the new count.
type RebuildHook func(count int) error

// Regenerate replaces every record with a freshly sampled population.
// Invalid parameters leave the field untouched. The field stays in
// FieldRegenerating until every hook has returned; the first hook error is
// returned after the field is back to FieldIdle.
func (f *InstanceField) Regenerate(count int, radius float32, hooks ...RebuildHook) error {
	if err := ValidateFieldParams(count, radius); err != nil {
		return err
	}
	f.state = FieldRegenerating
	defer func() { f.state = FieldIdle }()

	f.populate(count, radius)
	for _, hook := range hooks {
		if err := hook(count); err != nil {
			return err
		}
	}
	return nil
}

func (f *InstanceField) populate(count int, radius float32) {
	// Drop the old arrays before allocating the new population.
	f.placements = nil
	f.gpuRecords = nil

	placements := make([]PlacementRecord, count)
	records := make([]InstanceGPURecord, count)
	for i := range placements {
		p := SampleDisk(f.rng, radius, f.baseColor)
		placements[i] = p
		records[i] = InstanceGPURecord{
			Model: mgl32.Ident4(),
			Color: p.ColorBase.Vec4(1),
		}
	}

	f.placements = placements
	f.gpuRecords = records
	f.count = count
	f.radius = radius
	f.Version = uuid.New()
}

func (f *InstanceField) Count() int                      { return f.count }
func (f *InstanceField) Radius() float32                 { return f.radius }
func (f *InstanceField) BaseColor() mgl32.Vec4           { return f.baseColor }
func (f *InstanceField) State() FieldState               { return f.state }
func (f *InstanceField) CanUpdate() bool                 { return f.state == FieldIdle }
func (f *InstanceField) Placement(i int) PlacementRecord { return f.placements[i] }

// Placements returns a copy of the placement records.
func (f *InstanceField) Placements() []PlacementRecord {
	out := make([]PlacementRecord, len(f.placements))
	copy(out, f.placements)
	return out
}

// GPURecords exposes the GPU-ready records. The slice is owned by the field and
// is only valid until the next Regenerate.
func (f *InstanceField) GPURecords() []InstanceGPURecord {
	return f.gpuRecords
}

// setModel is the only write path into the GPU records.
func (f *InstanceField) setModel(i int, m mgl32.Mat4) {
	f.gpuRecords[i].Model = m
}
