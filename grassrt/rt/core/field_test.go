package core

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstanceFieldValidates(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		radius float32
	}{
		{"zero count", 0, 5},
		{"negative count", -3, 5},
		{"too many", MaxInstances + 1, 5},
		{"zero radius", 10, 0},
		{"negative radius", 10, -1},
		{"nan radius", 10, float32(math.NaN())},
		{"inf radius", 10, float32(math.Inf(1))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewInstanceField(tc.count, tc.radius, rand.New(rand.NewSource(1)))
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestNewInstanceFieldSeedsRecords(t *testing.T) {
	f, err := NewInstanceField(500, 5, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Equal(t, 500, f.Count())
	assert.Len(t, f.Placements(), 500)
	assert.Len(t, f.GPURecords(), 500)
	assert.Equal(t, float32(1), f.BaseColor().W())
	assert.Equal(t, FieldIdle, f.State())

	for i, rec := range f.GPURecords() {
		assert.Equal(t, mgl32.Ident4(), rec.Model)
		assert.Equal(t, f.Placement(i).ColorBase.Vec4(1), rec.Color)
	}
}

func TestRegenerateReplacesField(t *testing.T) {
	f, err := NewInstanceField(500, 5, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	oldVersion := f.Version
	oldBase := f.BaseColor()

	require.NoError(t, f.Regenerate(100, 10))

	assert.Equal(t, 100, f.Count())
	assert.Equal(t, float32(10), f.Radius())
	assert.Len(t, f.Placements(), 100)
	assert.Len(t, f.GPURecords(), 100)
	assert.NotEqual(t, oldVersion, f.Version)
	assert.Equal(t, oldBase, f.BaseColor())
	assert.True(t, f.CanUpdate())

	for _, p := range f.Placements() {
		dist := math.Hypot(float64(p.Position.X()), float64(p.Position.Z()))
		assert.LessOrEqual(t, dist, 10*(1+1e-5))
	}
}

func TestRegenerateRejectsBadParamsWithoutMutation(t *testing.T) {
	f, err := NewInstanceField(50, 5, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	before := f.Placements()
	version := f.Version

	err = f.Regenerate(0, 5)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	err = f.Regenerate(10, -2)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	assert.Equal(t, 50, f.Count())
	assert.Equal(t, before, f.Placements())
	assert.Equal(t, version, f.Version)
	assert.Equal(t, FieldIdle, f.State())
}

func TestRegenerateHooksRunWhileGated(t *testing.T) {
	f, err := NewInstanceField(10, 5, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	var seen []int
	hook := func(count int) error {
		assert.Equal(t, FieldRegenerating, f.State())
		assert.False(t, f.CanUpdate())
		assert.Len(t, f.GPURecords(), count)
		seen = append(seen, count)
		return nil
	}
	require.NoError(t, f.Regenerate(20, 5, hook, hook))
	assert.Equal(t, []int{20, 20}, seen)
	assert.Equal(t, FieldIdle, f.State())

	boom := errors.New("boom")
	err = f.Regenerate(30, 5, func(int) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, FieldIdle, f.State())
	assert.Equal(t, 30, f.Count())
}

func TestPlacementsIsACopy(t *testing.T) {
	f, err := NewInstanceField(3, 5, rand.New(rand.NewSource(13)))
	require.NoError(t, err)

	ps := f.Placements()
	ps[0].Size = 99
	assert.NotEqual(t, float32(99), f.Placement(0).Size)
}
