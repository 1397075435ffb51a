package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// PatchConfig locates the exported patch resources
type PatchConfig struct {
	ExportURL       string `json:"exportURL"`
	DependenciesURL string `json:"dependenciesURL"`
	ExportDir       string `json:"exportDir"`
}

// RuntimeConfig locates the device runtime script
type RuntimeConfig struct {
	BaseURL string `json:"baseURL"`
}

// ControlsConfig describes which controls get generated
type ControlsConfig struct {
	SliderParams   []string `json:"sliderParams,omitempty"`
	SampleColumns  []string `json:"sampleColumns,omitempty"`
	SampleSlots    int      `json:"sampleSlots,omitempty"`
	KeyboardNotes  []int    `json:"keyboardNotes,omitempty"`
	Velocity       uint8    `json:"velocity,omitempty"`
	NoteDurationMs float64  `json:"noteDurationMs,omitempty"`
	MIDIChannel    uint8    `json:"midiChannel,omitempty"`
	MIDIPort       int      `json:"midiPort,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LoadingTitle string `json:"loadingTitle,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Patch    PatchConfig    `json:"patch"`
	Runtime  RuntimeConfig  `json:"runtime"`
	Controls ControlsConfig `json:"controls"`
	UI       UIConfig       `json:"ui,omitempty"`
}

// SampleGroup names the two parameters driving one checkbox column
type SampleGroup struct {
	Column string
	Play   string
	Stop   string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Patch: PatchConfig{
			ExportURL:       "export/patch.export.json",
			DependenciesURL: "export/dependencies.json",
			ExportDir:       "export",
		},
		Runtime: RuntimeConfig{
			BaseURL: "https://c74-public.nyc3.digitaloceanspaces.com/rnbo/",
		},
		Controls: ControlsConfig{
			SliderParams:   []string{"FX_1_Clean", "FX_2_Space", "FX_3_Dirt", "FX_4_Glitch"},
			SampleColumns:  []string{"a", "b", "c", "d", "e", "f", "g", "h"},
			SampleSlots:    8,
			KeyboardNotes:  []int{49, 52, 56, 63},
			Velocity:       100,
			NoteDurationMs: 250,
		},
		UI: UIConfig{
			LoadingTitle: "Loading. Please wait.",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-rnbo"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Parse decodes data over the defaults, so absent fields keep their default
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// ExpandPath resolves a leading ~ in a path given on the command line
func ExpandPath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return p, nil
}

// LoadFile reads the config at path, or returns defaults if it does not exist
func LoadFile(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SampleGroups expands the configured columns into explicit parameter names
func (c *Config) SampleGroups() []SampleGroup {
	groups := make([]SampleGroup, 0, len(c.Controls.SampleColumns))
	for _, col := range c.Controls.SampleColumns {
		groups = append(groups, SampleGroup{
			Column: col,
			Play:   "playsmp" + col,
			Stop:   "stopsmp" + col,
		})
	}
	return groups
}

// AllowsSlider reports whether a parameter gets a slider
func (c *Config) AllowsSlider(name string) bool {
	for _, p := range c.Controls.SliderParams {
		if p == name {
			return true
		}
	}
	return false
}
