package session

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the freshly loaded session every time the named
// session's steps file is rewritten, until ctx is cancelled. The session
// directory is watched rather than the file because saves replace the file
// through a rename.
func (st *Store) Watch(ctx context.Context, name string, onChange func(*Session)) error {
	dir, err := st.sessionDir(name)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(st.Path(name))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s, err := st.Load(name)
			if err != nil {
				continue // mid-rewrite or removed; next event will catch up
			}
			onChange(s)

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
