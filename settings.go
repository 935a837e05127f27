package meadow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

// LoadSettingsFile reads a YAML settings file on top of the defaults. Keys
// missing from the file keep their default; unknown keys are an error.
func LoadSettingsFile(path string) (core.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}

func ParseSettings(data []byte) (core.Settings, error) {
	s := core.DefaultSettings()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return core.Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}

func SaveSettingsFile(path string, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SettingsModule stages the grass settings for the other modules. With no
// Path the defaults are used.
type SettingsModule struct {
	Path string
}

func (m SettingsModule) Install(app *App, cmd *Commands) {
	s := core.DefaultSettings()
	if m.Path != "" {
		var err error
		s, err = LoadSettingsFile(m.Path)
		if err != nil {
			panic(err)
		}
		app.Logger().Infof("settings loaded from %s", m.Path)
	}
	cmd.AddResources(core.NewSettingsStage(s))
}
