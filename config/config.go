package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// KeyLayout binds the instrument's three octave rows to keyboard keys,
// ordered by scale degree 1-7.
type KeyLayout struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
	Low    []string `json:"low"`
}

// Hotkeys are the transport bindings, named in bubbletea key syntax.
type Hotkeys struct {
	PlayPause string `json:"playPause"`
	Stop      string `json:"stop"`
}

// Config is the persisted application configuration. The playback
// engine takes a snapshot per session and never sees later edits.
type Config struct {
	// ReferenceNote is the MIDI pitch of Medium octave, degree 1.
	ReferenceNote uint8 `json:"referenceNote"`

	// TempoFactor scales playback speed; 1.0 is as written.
	TempoFactor float64 `json:"tempoFactor"`

	// Transpose in semitones, -24..24.
	Transpose int `json:"transpose"`

	// MaxPolyphony is how many notes may sound at once, 1..3.
	MaxPolyphony int `json:"maxPolyphony"`

	// StartDelayMs delays the first keystroke after play is pressed.
	StartDelayMs uint64 `json:"startDelayMs"`

	KeyLayout KeyLayout `json:"keyLayout"`
	Hotkeys   Hotkeys   `json:"hotkeys"`
}

// Default returns the stock configuration: C4 reference, two-note
// polyphony, QWERTY rows.
func Default() *Config {
	return &Config{
		ReferenceNote: 60,
		TempoFactor:   1.0,
		Transpose:     0,
		MaxPolyphony:  2,
		StartDelayMs:  500,
		KeyLayout: KeyLayout{
			High:   []string{"Q", "W", "E", "R", "T", "Y", "U"},
			Medium: []string{"A", "S", "D", "F", "G", "H", "J"},
			Low:    []string{"Z", "X", "C", "V", "B", "N", "M"},
		},
		Hotkeys: Hotkeys{
			PlayPause: "f7",
			Stop:      "f8",
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midiplay"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Out-of-range values are clamped.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return ReadFile(path)
}

// ReadFile reads a config from an explicit path, defaulting when the
// file does not exist.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.WriteFile(path)
}

// WriteFile writes the config to an explicit path.
func (c *Config) WriteFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize clamps out-of-range values and backfills anything a
// hand-edited file left empty.
func (c *Config) Normalize() {
	def := Default()

	if c.ReferenceNote == 0 {
		c.ReferenceNote = def.ReferenceNote
	}
	if c.TempoFactor <= 0 {
		c.TempoFactor = def.TempoFactor
	}
	c.Transpose = clamp(c.Transpose, -24, 24)
	if c.MaxPolyphony == 0 {
		c.MaxPolyphony = def.MaxPolyphony
	}
	c.MaxPolyphony = clamp(c.MaxPolyphony, 1, 3)

	if len(c.KeyLayout.High) == 0 {
		c.KeyLayout.High = def.KeyLayout.High
	}
	if len(c.KeyLayout.Medium) == 0 {
		c.KeyLayout.Medium = def.KeyLayout.Medium
	}
	if len(c.KeyLayout.Low) == 0 {
		c.KeyLayout.Low = def.KeyLayout.Low
	}
	if c.Hotkeys.PlayPause == "" {
		c.Hotkeys.PlayPause = def.Hotkeys.PlayPause
	}
	if c.Hotkeys.Stop == "" {
		c.Hotkeys.Stop = def.Hotkeys.Stop
	}
}

// Clone deep-copies the config so a playback session holds an immutable
// snapshot.
func (c *Config) Clone() *Config {
	out := *c
	out.KeyLayout.High = append([]string(nil), c.KeyLayout.High...)
	out.KeyLayout.Medium = append([]string(nil), c.KeyLayout.Medium...)
	out.KeyLayout.Low = append([]string(nil), c.KeyLayout.Low...)
	return &out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
