package meadow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputEdges(t *testing.T) {
	var in Input

	in.set(KeyR, true)
	assert.True(t, in.Pressed[KeyR])
	assert.True(t, in.JustPressed[KeyR])

	in.set(KeyR, true)
	assert.True(t, in.Pressed[KeyR])
	assert.False(t, in.JustPressed[KeyR], "held keys fire once")

	in.set(KeyR, false)
	assert.False(t, in.Pressed[KeyR])
	assert.True(t, in.JustReleased[KeyR])

	in.set(KeyR, false)
	assert.False(t, in.JustReleased[KeyR])
}

func TestInputMouseDelta(t *testing.T) {
	var in Input

	in.moveMouse(100, 50)
	assert.Zero(t, in.MouseDeltaX, "first sample has no delta")
	assert.Zero(t, in.MouseDeltaY)

	in.moveMouse(110, 45)
	assert.Equal(t, 10.0, in.MouseDeltaX)
	assert.Equal(t, -5.0, in.MouseDeltaY)
}

func TestInputKeysMapped(t *testing.T) {
	for key := 0; key < inputCount; key++ {
		_, isKey := keyToGlfw[key]
		_, isButton := buttonToGlfw[key]
		assert.True(t, isKey != isButton, "input %d must map to exactly one glfw code", key)
	}
}

func TestGrassActionKeysMapped(t *testing.T) {
	for _, key := range grassActionKeys {
		_, ok := keyToGlfw[key]
		assert.True(t, ok, "action key %d has no glfw code", key)
	}
}
