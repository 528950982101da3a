// Package input defines the raw event stream the recorder consumes and the
// capture provider that supplies it.
package input

import (
	"time"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// Kind is the low-level event type reported by the capture provider.
type Kind string

const (
	KindMouseDown      Kind = "mouse_down"
	KindRightMouseDown Kind = "right_mouse_down"
	KindOtherMouseDown Kind = "other_mouse_down"
	KindKeyDown        Kind = "key_down"
	KindFlagsChanged   Kind = "flags_changed"
	KindScroll         Kind = "scroll"
	KindAppActivated   Kind = "app_activated"
	KindSystem         Kind = "system"
)

// Known reports whether k is a kind the recorder subscribes to.
func (k Kind) Known() bool {
	switch k {
	case KindMouseDown, KindRightMouseDown, KindOtherMouseDown,
		KindKeyDown, KindFlagsChanged, KindScroll,
		KindAppActivated, KindSystem:
		return true
	}
	return false
}

// Event is one raw input notification.
type Event struct {
	Kind Kind      `json:"kind"`
	Time time.Time `json:"time,omitempty"`

	// Mouse and scroll location in screen coordinates.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// Keyboard: virtual key code and, when the platform could translate it,
	// the printable string.
	KeyCode int    `json:"keycode,omitempty"`
	Chars   string `json:"chars,omitempty"`

	DeltaY float64 `json:"delta_y,omitempty"`

	// App is the frontmost application at the time of the event, if the
	// provider knows it.
	App *session.Application `json:"app,omitempty"`

	// Clipboard is the clipboard text in effect at this event. A stream
	// provider fills it from the last reported value when the line omits it.
	Clipboard *string `json:"clipboard,omitempty"`

	// Name is the notification name of a system event.
	Name string         `json:"event,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Location returns the event position rounded to whole pixels.
func (e Event) Location() session.Position {
	return session.Position{X: int(e.X), Y: int(e.Y)}
}
