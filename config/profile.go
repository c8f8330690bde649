// Package config loads the YAML receiver profile and favorites list
// supplementing spec.md's CLI surface (SPEC_FULL.md §10.3): a driver name
// and device arguments, one gain setting (-1 for auto-gain), a log level,
// and a named list of favorite frequencies. cmd/fmscan does not read it.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Favorite is one named, preset frequency.
type Favorite struct {
	Name      string  `yaml:"name"`
	Frequency float64 `yaml:"frequency"`
}

// Profile is the on-disk receiver configuration.
type Profile struct {
	Driver     string     `yaml:"driver"`
	DeviceArgs string     `yaml:"device_args,omitempty"`
	Gain       float64    `yaml:"gain"` // -1 for auto-gain, matching st->gain's sentinel
	LogLevel   string     `yaml:"log_level,omitempty"`
	Favorites  []Favorite `yaml:"favorites,omitempty"`
}

// Default returns a Profile matching nrsc5_init's defaults: auto-gain on
// (gain unset).
func Default() Profile {
	return Profile{Gain: -1, LogLevel: "info"}
}

// Load reads and parses a YAML profile from path.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Save writes p as YAML to path.
func Save(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
