package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DeleteStep removes step n from the named session together with its
// screenshot. Remaining steps keep their numbers.
func (st *Store) DeleteStep(name string, n int) error {
	s, err := st.Load(name)
	if err != nil {
		return err
	}
	idx := indexOf(s.Steps, n)
	if idx < 0 {
		return fmt.Errorf("%w: %s #%d", ErrStepNotFound, name, n)
	}

	if shot := s.Steps[idx].Screenshot; shot != "" {
		p := filepath.Join(st.Dir(name), filepath.FromSlash(shot))
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing screenshot: %w", err)
		}
	}

	s.Steps = append(s.Steps[:idx], s.Steps[idx+1:]...)
	s.TotalSteps = len(s.Steps)
	return st.Save(s)
}

// DescribeStep sets details.description on step n.
func (st *Store) DescribeStep(name string, n int, description string) error {
	s, err := st.Load(name)
	if err != nil {
		return err
	}
	idx := indexOf(s.Steps, n)
	if idx < 0 {
		return fmt.Errorf("%w: %s #%d", ErrStepNotFound, name, n)
	}
	if s.Steps[idx].Details == nil {
		s.Steps[idx].Details = map[string]any{}
	}
	s.Steps[idx].Details["description"] = description
	return st.Save(s)
}

// SetPreamble replaces the free-text preamble of the named session.
func (st *Store) SetPreamble(name, preamble string) error {
	s, err := st.Load(name)
	if err != nil {
		return err
	}
	s.Preamble = preamble
	return st.Save(s)
}

// Delete removes the whole session directory.
func (st *Store) Delete(name string) error {
	dir, err := st.sessionDir(name)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func indexOf(steps []Step, n int) int {
	for i, s := range steps {
		if s.Number == n {
			return i
		}
	}
	return -1
}
