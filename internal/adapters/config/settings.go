// Package config implements ports.SettingsLoader: reading the ambient kiln.yaml file
// this core keeps in scope even though the task-definition DSL itself is out of
// scope. It is grounded on the teacher's gopkg.in/yaml.v3-based loader, stripped down
// from parsing a full task graph to parsing the handful of run-wide knobs a Settings
// value carries.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"go.trai.ch/zerr"

	"go.kiln.dev/kiln/internal/core/ports"
)

const (
	defaultWorkers   = 4
	defaultCacheRoot = "out"
)

// fileDTO mirrors the on-disk shape of kiln.yaml.
type fileDTO struct {
	Workers            int    `yaml:"workers"`
	ClassLoaderVersion string `yaml:"classLoaderVersion"`
	CacheRoot          string `yaml:"cacheRoot"`
	Colored            bool   `yaml:"colored"`
	FailFast           bool   `yaml:"failFast"`
}

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader over a YAML file on disk.
type Loader struct{}

// NewLoader constructs a Loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads path and returns the Settings it describes. A missing file resolves to
// the documented defaults rather than an error, since a run with no kiln.yaml at all is
// a normal, supported case.
func (Loader) Load(path string) (ports.Settings, error) {
	defaults := ports.Settings{
		Workers:            defaultWorkers,
		ClassLoaderVersion: "dev",
		CacheRoot:          defaultCacheRoot,
		Colored:            true,
		FailFast:           false,
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied, not user input
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return ports.Settings{}, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}

	var dto fileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return ports.Settings{}, zerr.With(zerr.Wrap(err, "failed to parse settings file"), "path", path)
	}

	settings := defaults
	if dto.Workers > 0 {
		settings.Workers = dto.Workers
	}
	if dto.ClassLoaderVersion != "" {
		settings.ClassLoaderVersion = dto.ClassLoaderVersion
	}
	if dto.CacheRoot != "" {
		settings.CacheRoot = dto.CacheRoot
	}
	settings.Colored = dto.Colored
	settings.FailFast = dto.FailFast

	return settings, nil
}
