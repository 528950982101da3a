// Package control manages a recorder running in the background: which
// session it records, its process id, and starting or stopping it.
package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrNotRecording is returned when no live recorder is registered.
	ErrNotRecording = errors.New("no active recording")
	// ErrAlreadyRecording is returned when a live recorder is already registered.
	ErrAlreadyRecording = errors.New("a recording is already in progress")
)

// State describes the registered background recorder.
type State struct {
	Name      string    `json:"name"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// StateStore persists the active recorder State.
type StateStore struct {
	path string // full path to active.json
}

// NewStateStore returns a StateStore backed by the XDG data directory.
// Path: $XDG_DATA_HOME/stepsrec/active.json or ~/.local/share/stepsrec/active.json
func NewStateStore() (*StateStore, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &StateStore{path: filepath.Join(dir, "active.json")}, nil
}

// DataDir returns the stepsrec-specific XDG data directory.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "stepsrec"), nil
}

// Path returns the state file location.
func (s *StateStore) Path() string { return s.path }

// Save writes st atomically via a temp file + os.Rename.
func (s *StateStore) Save(st *State) (err error) {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to persist recorder state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "active-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist recorder state: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist recorder state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist recorder state: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to persist recorder state: %w", err)
	}
	return nil
}

// Load reads the state file. Returns ErrNotRecording if it does not exist.
func (s *StateStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotRecording
		}
		return nil, fmt.Errorf("failed to read recorder state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse recorder state: %w", err)
	}
	return &st, nil
}

// Delete removes the state file. A missing file is not an error.
func (s *StateStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete recorder state: %w", err)
	}
	return nil
}

// SanitizeName maps a user-supplied session name to a filesystem-safe one:
// letters, digits, '-' and '_' are kept, everything else becomes '_'.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
}
