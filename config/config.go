// Package config loads the optional bridge configuration file. Flags
// override anything set here.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Backend selects which actuator the bridge drives.
const (
	BackendMIDI = "midi"
	BackendKeys = "keys"
)

// KeyBinding overrides one transport action's keystroke.
type KeyBinding struct {
	Key     string `json:"key"`
	Command bool   `json:"command,omitempty"`
}

// Config is the on-disk configuration structure.
type Config struct {
	Port          int                   `json:"port,omitempty"`
	MIDIOutput    string                `json:"midiOutput,omitempty"`
	Backend       string                `json:"backend,omitempty"`
	App           string                `json:"app,omitempty"`
	SliderChannel int                   `json:"sliderChannel,omitempty"`
	ClampValues   bool                  `json:"clampValues,omitempty"`
	TransportKeys map[string]KeyBinding `json:"transportKeys,omitempty"`
}

// Default returns a config with the stock settings: OSC on port 9000,
// MIDI backend, auto-detected output, Logic Pro as the keystroke target.
func Default() *Config {
	return &Config{
		Port:    9000,
		Backend: BackendMIDI,
		App:     "Logic Pro",
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "logicpro-midi-controller"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default location, returning defaults if
// the file does not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates a config file. A missing file yields the
// defaults; a file that fails schema validation is an error, not a silent
// fallback.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse validates raw JSON against the config schema and unmarshals it
// over the defaults.
func Parse(data []byte) (*Config, error) {
	var doc any
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the default location, creating the directory
// if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
