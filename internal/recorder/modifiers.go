package recorder

import (
	"sort"
	"sync"
)

// Modifier names as they appear in step details and key combos.
const (
	ModShift = "shift"
	ModCtrl  = "ctrl"
	ModAlt   = "alt"
	ModCmd   = "cmd"
)

// modifierKeys maps macOS virtual key codes to modifier names.
var modifierKeys = map[int]string{
	56: ModShift,
	59: ModCtrl,
	58: ModAlt,
	55: ModCmd,
}

// IsModifierKey reports whether keycode is a tracked modifier key.
func IsModifierKey(keycode int) bool {
	_, ok := modifierKeys[keycode]
	return ok
}

// ModifierTracker holds the set of currently pressed modifiers. Providers
// report a single "flags changed" notification per press and per release,
// so each notification flips membership. There is no expiry: a missed
// release leaves the modifier held until the next notification for it.
type ModifierTracker struct {
	mu      sync.Mutex
	pressed map[string]bool
}

// NewModifierTracker returns an empty tracker.
func NewModifierTracker() *ModifierTracker {
	return &ModifierTracker{pressed: make(map[string]bool)}
}

// Toggle flips the modifier for keycode. It reports false for key codes that
// are not modifiers, which leave the set untouched.
func (m *ModifierTracker) Toggle(keycode int) bool {
	name, ok := modifierKeys[keycode]
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pressed[name] {
		delete(m.pressed, name)
	} else {
		m.pressed[name] = true
	}
	return true
}

// Snapshot returns the pressed modifiers sorted by name.
func (m *ModifierTracker) Snapshot() Modifiers {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(Modifiers, 0, len(m.pressed))
	for name := range m.pressed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Modifiers is a sorted, read-only modifier snapshot.
type Modifiers []string

// Only reports whether the snapshot is exactly {name}.
func (m Modifiers) Only(name string) bool {
	return len(m) == 1 && m[0] == name
}

// Empty reports whether no modifier is held.
func (m Modifiers) Empty() bool { return len(m) == 0 }
