package meadow

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("grass", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("blades %d", 50000)
	l.Warnf("slow frame")
	l.Errorf("lost device")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[grass] INFO: blades 50000")
	assert.Contains(t, errOut.String(), "[grass] WARN: slow frame")
	assert.Contains(t, errOut.String(), "[grass] ERROR: lost device")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "DEBUG: shown 2")
}

func TestDefaultLoggerWithoutPrefix(t *testing.T) {
	var out bytes.Buffer
	NewWriterLogger("", false, &out, &out).Infof("ready")
	assert.Contains(t, out.String(), " INFO: ready")
	assert.NotContains(t, out.String(), "[")
}

func TestAppLogger(t *testing.T) {
	var nilApp *App
	assert.NotNil(t, nilApp.Logger())
	assert.False(t, NewAppBuilder().Build().Logger().DebugEnabled())

	app := NewAppBuilder().UseModule(LoggingModule{Prefix: "meadow", Debug: true}).Build()
	assert.True(t, app.Logger().DebugEnabled())

	// The runtime packages accept the engine logger.
	var _ core.Logger = app.Logger()
}
