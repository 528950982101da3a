package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configurable recorder settings.
type Config struct {
	RecordingsDir      string   `json:"recordings_dir"`
	DebounceInterval   Duration `json:"debounce_interval"`
	MaxSteps           int      `json:"max_steps"`
	AutosaveInterval   Duration `json:"autosave_interval"`
	AutosaveEvery      int      `json:"autosave_every"`
	CaptureScreenshots *bool    `json:"capture_screenshots,omitempty"`
	CaptureClipboard   *bool    `json:"capture_clipboard,omitempty"`
	CaptureKeystrokes  *bool    `json:"capture_keystrokes,omitempty"`
	CaptureScroll      *bool    `json:"capture_scroll,omitempty"`
	LogLevel           string   `json:"log_level"`
	LogFormat          string   `json:"log_format"` // "console" | "json"
	// CaptureHelper is the argv of the external capture helper whose stdout
	// carries JSON Lines events. Empty means events are read from stdin.
	CaptureHelper []string `json:"capture_helper,omitempty"`
}

// Duration is a time.Duration that reads and writes as a Go duration string
// such as "300ms" or "30s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"300ms\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		RecordingsDir:      "recordings",
		DebounceInterval:   Duration(300 * time.Millisecond),
		MaxSteps:           1000,
		AutosaveInterval:   Duration(30 * time.Second),
		AutosaveEvery:      5,
		CaptureScreenshots: Bool(true),
		CaptureClipboard:   Bool(true),
		CaptureKeystrokes:  Bool(true),
		CaptureScroll:      Bool(true),
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Enabled dereferences a tri-state flag; nil counts as enabled.
func Enabled(p *bool) bool { return p == nil || *p }

// LoadGlobal reads ~/.config/stepsrec/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "stepsrec", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .stepsrecconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".stepsrecconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

func apply(dst *Config, src *Config) {
	if src == nil {
		return
	}
	if src.RecordingsDir != "" {
		dst.RecordingsDir = src.RecordingsDir
	}
	if src.DebounceInterval > 0 {
		dst.DebounceInterval = src.DebounceInterval
	}
	if src.MaxSteps > 0 {
		dst.MaxSteps = src.MaxSteps
	}
	if src.AutosaveInterval > 0 {
		dst.AutosaveInterval = src.AutosaveInterval
	}
	if src.AutosaveEvery > 0 {
		dst.AutosaveEvery = src.AutosaveEvery
	}
	if src.CaptureScreenshots != nil {
		dst.CaptureScreenshots = src.CaptureScreenshots
	}
	if src.CaptureClipboard != nil {
		dst.CaptureClipboard = src.CaptureClipboard
	}
	if src.CaptureKeystrokes != nil {
		dst.CaptureKeystrokes = src.CaptureKeystrokes
	}
	if src.CaptureScroll != nil {
		dst.CaptureScroll = src.CaptureScroll
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if len(src.CaptureHelper) > 0 {
		dst.CaptureHelper = src.CaptureHelper
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
