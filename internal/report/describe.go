package report

import (
	"fmt"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// Describe returns a short human-readable line for a step, e.g.
// "Click at (120, 44)" or "Key Combo cmd+shift+t". A user-supplied
// description, when present, replaces the generated text.
func Describe(st session.Step) string {
	if d := st.DetailString("description"); d != "" {
		return d
	}
	label := ActionLabel(string(st.Action))

	switch st.Action {
	case session.ActionClick, session.ActionRightClick, session.ActionMiddleClick:
		if st.Position != nil {
			return fmt.Sprintf("%s at (%d, %d)", label, st.Position.X, st.Position.Y)
		}
	case session.ActionKeyPress, session.ActionKeyCombo:
		return label + " " + st.DetailString("key")
	case session.ActionScroll:
		return label + " " + st.DetailString("direction")
	case session.ActionCopy:
		if n, ok := st.Details["content_length"]; ok {
			return fmt.Sprintf("%s (%v chars)", label, n)
		}
	case session.ActionPaste:
	case session.ActionAppSwitch:
		return label + " to " + st.DetailString("to")
	case session.ActionSystem:
		return label + ": " + st.DetailString("event")
	}
	return label
}
