package recorder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fakeyudi/stepsrec/internal/input"
	"github.com/fakeyudi/stepsrec/internal/session"
)

func fullClassifier() *Classifier {
	return &Classifier{
		CaptureKeystrokes: true,
		CaptureScroll:     true,
		CaptureClipboard:  true,
		Sleep:             func(time.Duration) {},
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		code  int
		chars string
		want  string
	}{
		{0, "a", "a"},
		{36, "\r", "Enter"},
		{48, "\t", "Tab"},
		{53, "\x1b", "Escape"},
		{123, "", "Left"},
		{126, "", "Up"},
		{122, "", "F1"},
		{113, "", "F1"},
		{107, "", "F2"},
		{105, "", "F4"},
		{118, "", "F4"},
		{111, "", "F12"},
		{117, "", "ForwardDelete"},
		{49, " ", " "},
		{200, "", "Key_200"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyName(tt.code, tt.chars), "code %d chars %q", tt.code, tt.chars)
	}
}

// Feature: stepsrec, Property: modifier toggles are involutive
func TestModifierTogglesProperty(t *testing.T) {
	codes := []int{55, 56, 58, 59, 0, 12}
	rapid.Check(t, func(t *rapid.T) {
		m := NewModifierTracker()
		for _, c := range rapid.SliceOfN(rapid.SampledFrom(codes), 0, 6).Draw(t, "setup") {
			m.Toggle(c)
		}
		before := m.Snapshot()

		seq := rapid.SliceOf(rapid.SampledFrom(codes)).Draw(t, "seq")
		for _, c := range seq {
			m.Toggle(c)
		}
		for _, c := range seq {
			m.Toggle(c)
		}

		after := m.Snapshot()
		if len(before) != len(after) {
			t.Fatalf("modifiers %v became %v", before, after)
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("modifiers %v became %v", before, after)
			}
		}
	})
}

func TestModifierTrackerIgnoresOtherKeys(t *testing.T) {
	m := NewModifierTracker()
	assert.False(t, m.Toggle(0))
	assert.True(t, m.Toggle(56))
	assert.True(t, m.Toggle(55))
	assert.Equal(t, Modifiers{"cmd", "shift"}, m.Snapshot())
	assert.False(t, m.Snapshot().Only(ModCmd))
	m.Toggle(56)
	assert.True(t, m.Snapshot().Only(ModCmd))
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(300 * time.Millisecond)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, d.Accept(t0), "first event is always accepted")
	assert.False(t, d.Accept(t0.Add(299*time.Millisecond)))
	// The rejected event does not move the window.
	assert.True(t, d.Accept(t0.Add(300*time.Millisecond)))
	assert.False(t, d.Accept(t0.Add(500*time.Millisecond)))
	assert.True(t, d.Accept(t0.Add(700*time.Millisecond)))
}

func TestDebouncerZeroInterval(t *testing.T) {
	d := NewDebouncer(0)
	t0 := time.Now()
	assert.True(t, d.Accept(t0))
	assert.True(t, d.Accept(t0))
}

func TestClassifyClicks(t *testing.T) {
	c := fullClassifier()
	a, ok := c.Classify(input.Event{Kind: input.KindOtherMouseDown, X: 12.9, Y: 3.2}, Modifiers{"alt"})
	require.True(t, ok)
	assert.Equal(t, session.ActionMiddleClick, a.Type)
	assert.Equal(t, &session.Position{X: 12, Y: 3}, a.Position)
	assert.Equal(t, "middle", a.Details["mouse_button"])
	assert.Equal(t, []string{"alt"}, a.Details["modifiers"])
}

func TestClassifyKeys(t *testing.T) {
	c := fullClassifier()

	a, ok := c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 0, Chars: "a"}, nil)
	require.True(t, ok)
	assert.Equal(t, session.ActionKeyPress, a.Type)
	assert.Equal(t, "a", a.Details["key"])

	a, ok = c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 0, Chars: "A"}, Modifiers{"cmd", "shift"})
	require.True(t, ok)
	assert.Equal(t, session.ActionKeyCombo, a.Type)
	assert.Equal(t, "cmd+shift+A", a.Details["key"])

	_, ok = c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 55}, nil)
	assert.False(t, ok, "modifier keys never become key presses")

	c.CaptureKeystrokes = false
	_, ok = c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 0, Chars: "a"}, nil)
	assert.False(t, ok)
}

func TestClassifyPaste(t *testing.T) {
	c := fullClassifier()
	a, ok := c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 9, Chars: "v"}, Modifiers{ModCmd})
	require.True(t, ok)
	assert.Equal(t, session.ActionPaste, a.Type)
	assert.Empty(t, a.Details)
}

func TestClassifyCopyRetriesOnce(t *testing.T) {
	reads := 0
	slept := time.Duration(0)
	c := fullClassifier()
	c.Sleep = func(d time.Duration) { slept += d }
	c.Clipboard = func() (string, error) {
		reads++
		if reads == 1 {
			return "", errors.New("pasteboard busy")
		}
		return "hello", nil
	}

	a, ok := c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 8, Chars: "c"}, Modifiers{ModCmd})
	require.True(t, ok)
	assert.Equal(t, session.ActionCopy, a.Type)
	assert.Equal(t, "hello", a.Details["content_preview"])
	assert.Equal(t, 5, a.Details["content_length"])
	assert.Equal(t, 2, reads)
	assert.Equal(t, clipboardRetryDelay, slept)
}

func TestClassifyCopyUsesEventClipboard(t *testing.T) {
	c := fullClassifier()
	c.Clipboard = func() (string, error) { return "later text", nil }

	text := "copied"
	a, ok := c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 8, Chars: "c", Clipboard: &text}, Modifiers{ModCmd})
	require.True(t, ok)
	assert.Equal(t, "copied", a.Details["content_preview"])
	assert.Equal(t, 6, a.Details["content_length"])

	empty := ""
	_, ok = c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 8, Chars: "c", Clipboard: &empty}, Modifiers{ModCmd})
	assert.False(t, ok, "an empty snapshot is not replaced by a live read")
}

func TestClassifyCopyWithEmptyClipboardIsDropped(t *testing.T) {
	reads := 0
	c := fullClassifier()
	c.Clipboard = func() (string, error) { reads++; return "", nil }

	_, ok := c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 8, Chars: "c"}, Modifiers{ModCmd})
	assert.False(t, ok)
	assert.Equal(t, 2, reads)
}

func TestClassifyCopyDisabledFallsBackToCombo(t *testing.T) {
	c := fullClassifier()
	c.CaptureClipboard = false
	a, ok := c.Classify(input.Event{Kind: input.KindKeyDown, KeyCode: 8, Chars: "c"}, Modifiers{ModCmd})
	require.True(t, ok)
	assert.Equal(t, session.ActionKeyCombo, a.Type)
	assert.Equal(t, "cmd+c", a.Details["key"])
}

func TestClassifyScroll(t *testing.T) {
	c := fullClassifier()

	_, ok := c.Classify(input.Event{Kind: input.KindScroll, DeltaY: 0.49}, nil)
	assert.False(t, ok, "sub-threshold scroll is noise")
	_, ok = c.Classify(input.Event{Kind: input.KindScroll, DeltaY: -0.2}, nil)
	assert.False(t, ok)

	a, ok := c.Classify(input.Event{Kind: input.KindScroll, DeltaY: 0.5, X: 4, Y: 5}, nil)
	require.True(t, ok)
	assert.Equal(t, "up", a.Details["direction"])

	a, ok = c.Classify(input.Event{Kind: input.KindScroll, DeltaY: -3}, nil)
	require.True(t, ok)
	assert.Equal(t, "down", a.Details["direction"])
	assert.Equal(t, -3.0, a.Details["delta_y"])

	c.CaptureScroll = false
	_, ok = c.Classify(input.Event{Kind: input.KindScroll, DeltaY: -3}, nil)
	assert.False(t, ok)
}

func TestClassifyAppSwitch(t *testing.T) {
	c := fullClassifier()
	activate := func(name string) (Action, bool) {
		return c.Classify(input.Event{Kind: input.KindAppActivated, App: &session.Application{Name: name}}, nil)
	}

	a, ok := activate("Finder")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"to": "Finder"}, a.Details)

	_, ok = activate("Finder")
	assert.False(t, ok, "re-activating the same app is not a switch")

	a, ok = activate("Mail")
	require.True(t, ok)
	assert.Equal(t, session.ActionAppSwitch, a.Type)
	assert.Equal(t, map[string]any{"to": "Mail", "from": "Finder"}, a.Details)
}

func TestScreenshotName(t *testing.T) {
	assert.Equal(t, "screenshot_0007.png", ScreenshotName(7))
	assert.Equal(t, "screenshot_12345.png", ScreenshotName(12345))
}
