package report_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fakeyudi/stepsrec/internal/report"
	"github.com/fakeyudi/stepsrec/internal/session"
)

func step(n int, action session.ActionType, app string) session.Step {
	s := session.Step{Number: n, Timestamp: time.Unix(int64(n), 0).UTC(), Action: action, Details: map[string]any{}}
	if app != "" {
		s.Application = &session.Application{Name: app}
	}
	return s
}

func TestSummarizeCountsAndOrdering(t *testing.T) {
	steps := []session.Step{
		step(1, session.ActionSystem, ""),
		step(2, session.ActionScroll, "Safari"),
		step(3, session.ActionClick, "Finder"),
		step(4, session.ActionClick, "Safari"),
		step(5, session.ActionKeyPress, "Finder"),
		step(6, session.ActionKeyPress, "Mail"),
		step(7, session.ActionSystem, ""),
	}

	s := report.Summarize("demo", "/tmp/demo", steps)

	assert.Equal(t, 7, s.TotalSteps)
	assert.Equal(t, []report.Count{
		{Name: "click", Count: 2},
		{Name: "key_press", Count: 2},
		{Name: "scroll", Count: 1},
		{Name: "system", Count: 2},
	}, s.Actions)
	// Safari and Finder tie at 2; Safari was seen first.
	assert.Equal(t, []report.Count{
		{Name: "Safari", Count: 2},
		{Name: "Finder", Count: 2},
		{Name: "Mail", Count: 1},
	}, s.Apps)
}

func TestSummarizeKeepsTopFiveApps(t *testing.T) {
	var steps []session.Step
	n := 1
	for i := 0; i < 7; i++ {
		for j := 0; j <= i; j++ {
			steps = append(steps, step(n, session.ActionClick, fmt.Sprintf("App%d", i)))
			n++
		}
	}
	s := report.Summarize("demo", "", steps)
	require.Len(t, s.Apps, 5)
	assert.Equal(t, "App6", s.Apps[0].Name)
	assert.Equal(t, "App2", s.Apps[4].Name)
}

func TestTextRendererLayout(t *testing.T) {
	steps := []session.Step{
		step(1, session.ActionRightClick, "A very long application name that overflows"),
		step(2, session.ActionKeyCombo, ""),
	}
	s := report.Summarize("demo", "recordings/demo", steps)
	out, err := (&report.TextRenderer{}).Render(&s)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, strings.Repeat("=", 50)+"\nSTEPS RECORDER - SESSION REPORT\n"))
	assert.Contains(t, text, "Total Steps: 2\n")
	assert.Contains(t, text, "Key Combo            1\n")
	assert.Contains(t, text, "Right Click          1\n")
	assert.Contains(t, text, "A very long application n 1\n")
	assert.Contains(t, text, "Data saved in: recordings/demo\n")
	assert.Less(t, strings.Index(text, "Key Combo"), strings.Index(text, "Right Click"))
}

func TestTextRendererOmitsAppsWhenNone(t *testing.T) {
	s := report.Summarize("demo", "", []session.Step{step(1, session.ActionSystem, "")})
	out, err := (&report.TextRenderer{}).Render(&s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Application Usage")
}

// Feature: stepsrec, Property: report regeneration is byte-identical
func TestReportIsDeterministic(t *testing.T) {
	apps := []string{"", "Finder", "Safari", "Mail", "Terminal", "Notes", "Xcode"}
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		steps := make([]session.Step, n)
		for i := range steps {
			steps[i] = step(i+1,
				rapid.SampledFrom(session.ActionTypes).Draw(t, "action"),
				rapid.SampledFrom(apps).Draw(t, "app"))
		}

		var r report.TextRenderer
		s1 := report.Summarize("demo", "dir", steps)
		s2 := report.Summarize("demo", "dir", steps)
		a, err := r.Render(&s1)
		if err != nil {
			t.Fatal(err)
		}
		b, err := r.Render(&s2)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("reports differ:\n%s\n---\n%s", a, b)
		}
	})
}

func TestActionLabel(t *testing.T) {
	assert.Equal(t, "Middle Click", report.ActionLabel("middle_click"))
	assert.Equal(t, "Copy", report.ActionLabel("copy"))
}

func TestDescribe(t *testing.T) {
	click := step(2, session.ActionRightClick, "Finder")
	click.Position = &session.Position{X: 120, Y: 44}
	assert.Equal(t, "Right Click at (120, 44)", report.Describe(click))

	combo := step(3, session.ActionKeyCombo, "")
	combo.Details["key"] = "cmd+shift+t"
	assert.Equal(t, "Key Combo cmd+shift+t", report.Describe(combo))

	sys := step(1, session.ActionSystem, "")
	sys.Details["event"] = "recorder_started"
	assert.Equal(t, "System: recorder_started", report.Describe(sys))

	assert.Equal(t, "Paste", report.Describe(step(4, session.ActionPaste, "")))

	combo.Details["description"] = "Open a new tab"
	assert.Equal(t, "Open a new tab", report.Describe(combo))
}
