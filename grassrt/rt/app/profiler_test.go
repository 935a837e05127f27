package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerScopes(t *testing.T) {
	p := NewProfiler()
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }

	p.BeginScope("upload")
	clock = clock.Add(1500 * time.Microsecond)
	p.EndScope("upload")

	p.BeginScope("render")
	clock = clock.Add(2 * time.Millisecond)
	p.EndScope("render")

	p.BeginScope("upload")
	clock = clock.Add(time.Millisecond)
	p.EndScope("upload")

	assert.Equal(t, []string{"upload", "render"}, p.Order)
	assert.Equal(t, time.Millisecond, p.Scopes["upload"])
	assert.Equal(t, 2*time.Millisecond, p.Scopes["render"])

	// Ending a scope that never started is ignored.
	p.EndScope("missing")
	assert.NotContains(t, p.Scopes, "missing")
}

func TestProfilerStats(t *testing.T) {
	p := NewProfiler()
	p.SetCount("instances", 50000)
	p.AddCount("skipped", 1)
	p.AddCount("skipped", 2)
	p.BeginScope("tick")
	p.EndScope("tick")

	out := p.Stats()
	assert.Contains(t, out, "tick")
	assert.Contains(t, out, "skipped    3")
	assert.Less(t, strings.Index(out, "instances"), strings.Index(out, "skipped"))
}
