package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a session directory or its steps file is missing.
var ErrNotFound = errors.New("session not found")

// ErrStepNotFound is returned when a step number does not exist in a session.
var ErrStepNotFound = errors.New("step not found")

// ErrInvalidName is returned for a session name that is not a single safe
// directory name.
var ErrInvalidName = errors.New("invalid session name")

const (
	// StepsFile is the session file inside a session directory.
	StepsFile = "steps.json"
	// ReportFile is the plain-text report inside a session directory.
	ReportFile = "report.txt"
	// ScreenshotsDir holds the PNGs of a session, relative to its directory.
	ScreenshotsDir = "screenshots"
)

// Store persists sessions under a recordings root, one directory per session.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir. The directory is created on demand.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the recordings directory.
func (st *Store) Root() string { return st.root }

// Dir returns the directory of the named session.
func (st *Store) Dir(name string) string {
	return filepath.Join(st.root, name)
}

// Path returns the steps file of the named session.
func (st *Store) Path(name string) string {
	return filepath.Join(st.root, name, StepsFile)
}

// ValidateName accepts only non-empty names made of ASCII letters, digits,
// '-' and '_', so a name always stays one level below the recordings root.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// sessionDir validates name and returns its directory.
func (st *Store) sessionDir(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return st.Dir(name), nil
}

// Create allocates the session directory and its screenshots subdirectory.
func (st *Store) Create(name string) (string, error) {
	dir, err := st.sessionDir(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, ScreenshotsDir), 0o755); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}
	return dir, nil
}

// Save marshals s to indented JSON and writes it atomically via a temp file
// and os.Rename, so readers never observe a partial file.
func (st *Store) Save(s *Session) error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return writeAtomic(st.Path(s.Name), data)
}

// writeAtomic writes data to path through a temp file in the same directory.
func writeAtomic(path string, data []byte) (err error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tmp, err := os.CreateTemp(filepath.Dir(path), base+"-*"+filepath.Ext(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Load reads the named session. Returns ErrNotFound if it has no steps file.
func (st *Store) Load(name string) (*Session, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(st.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", name, err)
	}
	if s.Name == "" {
		s.Name = name
	}
	return &s, nil
}

// List returns the names of all sessions that have a steps file, sorted.
func (st *Store) List() ([]string, error) {
	entries, err := os.ReadDir(st.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || ValidateName(e.Name()) != nil {
			continue
		}
		if _, err := os.Stat(st.Path(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// WriteReport writes the report file of the named session.
func (st *Store) WriteReport(name string, data []byte) error {
	dir, err := st.sessionDir(name)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ReportFile), data, 0o644)
}
