package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Renderer serializes a Summary to bytes.
type Renderer interface {
	Render(s *Summary) ([]byte, error)
}

// JSONRenderer renders a Summary as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// TextRenderer renders the plain-text report written next to the session file.
type TextRenderer struct{}

func (r *TextRenderer) Render(s *Summary) ([]byte, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", 50)

	sb.WriteString(rule + "\n")
	sb.WriteString("STEPS RECORDER - SESSION REPORT\n")
	sb.WriteString(rule + "\n\n")

	fmt.Fprintf(&sb, "Session: %s\n", s.Session)
	fmt.Fprintf(&sb, "Total Steps: %d\n\n", s.TotalSteps)

	sb.WriteString("Action Summary:\n")
	sb.WriteString(strings.Repeat("-", 30) + "\n")
	for _, c := range s.Actions {
		fmt.Fprintf(&sb, "%-20s %d\n", ActionLabel(c.Name), c.Count)
	}

	if len(s.Apps) > 0 {
		sb.WriteString("\nApplication Usage:\n")
		sb.WriteString(strings.Repeat("-", 30) + "\n")
		for _, c := range s.Apps {
			fmt.Fprintf(&sb, "%-25s %d\n", clip(c.Name, 25), c.Count)
		}
	}

	if s.Dir != "" {
		fmt.Fprintf(&sb, "\nData saved in: %s\n", s.Dir)
	}
	return []byte(sb.String()), nil
}

// ActionLabel turns an action name such as "right_click" into "Right Click".
func ActionLabel(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
