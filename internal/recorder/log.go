package recorder

import (
	"github.com/rs/zerolog"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// logStep writes the one-line console trace of a recorded step.
func logStep(log zerolog.Logger, st session.Step) {
	e := log.Info().Int("step", st.Number).Str("action", string(st.Action))
	if st.Application != nil {
		e = e.Str("app", st.Application.Name)
	}

	switch st.Action {
	case session.ActionClick, session.ActionRightClick, session.ActionMiddleClick:
		if st.Position != nil {
			e = e.Int("x", st.Position.X).Int("y", st.Position.Y)
		}
	case session.ActionKeyPress, session.ActionKeyCombo:
		e = e.Str("key", st.DetailString("key"))
	case session.ActionScroll:
		e = e.Str("direction", st.DetailString("direction"))
	case session.ActionCopy:
		e = e.Interface("length", st.Details["content_length"])
	case session.ActionPaste:
	case session.ActionAppSwitch:
		e = e.Str("to", st.DetailString("to"))
	case session.ActionSystem:
		e = e.Str("event", st.DetailString("event"))
	}

	if st.Screenshot != "" {
		e = e.Str("screenshot", st.Screenshot)
	}
	e.Msg("step recorded")
}
