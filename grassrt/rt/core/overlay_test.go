package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayFontAtlas(t *testing.T) {
	f, err := NewOverlayFont(14)
	require.NoError(t, err)

	for _, r := range "Az09:" {
		g, ok := f.glyphs[r]
		require.True(t, ok, "missing %q", r)
		assert.Greater(t, g.adv, float32(0))
		assert.Greater(t, g.size[0], float32(0))
	}
	assert.Greater(t, f.LineHeight(), float32(0))
}

func TestOverlayBuildVertices(t *testing.T) {
	f, err := NewOverlayFont(14)
	require.NoError(t, err)
	white := [4]float32{1, 1, 1, 1}

	verts := f.Build([]OverlayLine{{Text: "a b\nc", X: 10, Y: 10, Color: white}}, 800, 600)
	// Space and newline produce no quads.
	require.Len(t, verts, 3*6)
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[0], float32(1))
		assert.GreaterOrEqual(t, v.Pos[1], float32(-1))
		assert.LessOrEqual(t, v.Pos[1], float32(1))
		assert.Equal(t, white, v.Color)
	}

	// The second line starts lower on screen than the first.
	assert.Less(t, verts[12].Pos[1], verts[0].Pos[1])

	assert.Nil(t, f.Build([]OverlayLine{{Text: "x"}}, 0, 600))
}
