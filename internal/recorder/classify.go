package recorder

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fakeyudi/stepsrec/internal/input"
	"github.com/fakeyudi/stepsrec/internal/session"
)

const (
	// scrollNoise is the smallest vertical delta recorded as a scroll.
	scrollNoise = 0.5
	// clipboardPreview is how many characters of copied text are kept.
	clipboardPreview = 100
	// clipboardRetryDelay is the pause before the single clipboard re-read.
	clipboardRetryDelay = 50 * time.Millisecond
)

// keyNames names the non-printing keys by macOS virtual key code.
var keyNames = map[int]string{
	36: "Enter", 48: "Tab", 49: "Space", 51: "Delete",
	53: "Escape", 76: "Enter", 96: "F5", 97: "F6",
	98: "F7", 99: "F3", 100: "F8", 101: "F9",
	109: "F10", 103: "F11", 111: "F12", 105: "F4",
	107: "F2", 113: "F1", 118: "F4", 120: "F2",
	122: "F1", 114: "Help", 115: "Home",
	116: "PageUp", 117: "ForwardDelete", 119: "End", 121: "PageDown",
	123: "Left", 124: "Right", 125: "Down", 126: "Up",
}

// KeyName resolves the display string for a key press: the provider's
// translated text when it is printable, else the static table, else Key_<code>.
func KeyName(keycode int, chars string) string {
	if chars != "" && printable(chars) {
		return chars
	}
	if name, ok := keyNames[keycode]; ok {
		return name
	}
	return fmt.Sprintf("Key_%d", keycode)
}

func printable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// Action is a classified event, ready to be assembled into a step.
type Action struct {
	Type     session.ActionType
	Position *session.Position
	Details  map[string]any
}

// Classifier maps raw events plus the current modifiers to actions.
type Classifier struct {
	CaptureKeystrokes bool
	CaptureScroll     bool
	CaptureClipboard  bool

	// Clipboard reads the current clipboard text.
	Clipboard func() (string, error)
	// Sleep pauses before the clipboard retry.
	Sleep func(time.Duration)

	lastApp string
}

// Classify returns the action for ev, or false when the event produces no
// step. Flags-changed and system events are handled by the recorder and never
// reach here.
func (c *Classifier) Classify(ev input.Event, mods Modifiers) (Action, bool) {
	switch ev.Kind {
	case input.KindMouseDown:
		return c.click(ev, session.ActionClick, "left", mods), true
	case input.KindRightMouseDown:
		return c.click(ev, session.ActionRightClick, "right", mods), true
	case input.KindOtherMouseDown:
		return c.click(ev, session.ActionMiddleClick, "middle", mods), true
	case input.KindKeyDown:
		return c.key(ev, mods)
	case input.KindScroll:
		return c.scroll(ev)
	case input.KindAppActivated:
		return c.appSwitch(ev)
	case input.KindFlagsChanged, input.KindSystem:
		return Action{}, false
	}
	return Action{}, false
}

func (c *Classifier) click(ev input.Event, t session.ActionType, button string, mods Modifiers) Action {
	pos := ev.Location()
	return Action{
		Type:     t,
		Position: &pos,
		Details: map[string]any{
			"mouse_button": button,
			"modifiers":    []string(mods),
		},
	}
}

func (c *Classifier) key(ev input.Event, mods Modifiers) (Action, bool) {
	if !c.CaptureKeystrokes || IsModifierKey(ev.KeyCode) {
		return Action{}, false
	}
	key := KeyName(ev.KeyCode, ev.Chars)

	if c.CaptureClipboard && mods.Only(ModCmd) {
		switch strings.ToLower(key) {
		case "c":
			return c.copy(ev)
		case "v":
			return Action{Type: session.ActionPaste, Details: map[string]any{}}, true
		}
	}

	t := session.ActionKeyPress
	combo := key
	if !mods.Empty() {
		t = session.ActionKeyCombo
		combo = strings.Join(mods, "+") + "+" + key
	}
	return Action{
		Type: t,
		Details: map[string]any{
			"key":       combo,
			"keycode":   ev.KeyCode,
			"modifiers": []string(mods),
		},
	}, true
}

// copy reads the clipboard, retrying once after a short delay when the first
// read fails or comes back empty. No text means no step. A clipboard snapshot
// carried by ev is used for both reads in place of a live query.
func (c *Classifier) copy(ev input.Event) (Action, bool) {
	read := c.Clipboard
	if ev.Clipboard != nil {
		text := *ev.Clipboard
		read = func() (string, error) { return text, nil }
	}
	if read == nil {
		return Action{}, false
	}
	content, err := read()
	if err != nil || content == "" {
		sleep := c.Sleep
		if sleep == nil {
			sleep = time.Sleep
		}
		sleep(clipboardRetryDelay)
		content, err = read()
	}
	if err != nil || content == "" {
		return Action{}, false
	}
	return Action{
		Type: session.ActionCopy,
		Details: map[string]any{
			"content_preview": truncateRunes(content, clipboardPreview),
			"content_length":  utf8.RuneCountInString(content),
		},
	}, true
}

func (c *Classifier) scroll(ev input.Event) (Action, bool) {
	if !c.CaptureScroll || math.Abs(ev.DeltaY) < scrollNoise {
		return Action{}, false
	}
	direction := "down"
	if ev.DeltaY > 0 {
		direction = "up"
	}
	pos := ev.Location()
	return Action{
		Type:     session.ActionScroll,
		Position: &pos,
		Details: map[string]any{
			"delta_y":   ev.DeltaY,
			"direction": direction,
		},
	}, true
}

func (c *Classifier) appSwitch(ev input.Event) (Action, bool) {
	if ev.App == nil || ev.App.Name == "" || ev.App.Name == c.lastApp {
		return Action{}, false
	}
	from := c.lastApp
	c.lastApp = ev.App.Name
	details := map[string]any{"to": ev.App.Name}
	if from != "" {
		details["from"] = from
	}
	return Action{Type: session.ActionAppSwitch, Details: details}, true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
