package session

import "time"

// ActionType classifies a recorded step. The set is closed; consumers switch
// over every value.
type ActionType string

const (
	ActionClick       ActionType = "click"
	ActionRightClick  ActionType = "right_click"
	ActionMiddleClick ActionType = "middle_click"
	ActionKeyPress    ActionType = "key_press"
	ActionKeyCombo    ActionType = "key_combo"
	ActionScroll      ActionType = "scroll"
	ActionCopy        ActionType = "copy"
	ActionPaste       ActionType = "paste"
	ActionAppSwitch   ActionType = "app_switch"
	ActionSystem      ActionType = "system"
)

// ActionTypes lists every action type in declaration order.
var ActionTypes = []ActionType{
	ActionClick, ActionRightClick, ActionMiddleClick,
	ActionKeyPress, ActionKeyCombo, ActionScroll,
	ActionCopy, ActionPaste, ActionAppSwitch, ActionSystem,
}

// Valid reports whether a is one of the known action types.
func (a ActionType) Valid() bool {
	switch a {
	case ActionClick, ActionRightClick, ActionMiddleClick,
		ActionKeyPress, ActionKeyCombo, ActionScroll,
		ActionCopy, ActionPaste, ActionAppSwitch, ActionSystem:
		return true
	}
	return false
}

// Screenshotted reports whether steps of this type carry a screen position and
// therefore get a screenshot.
func (a ActionType) Screenshotted() bool {
	switch a {
	case ActionClick, ActionRightClick, ActionMiddleClick, ActionScroll:
		return true
	case ActionKeyPress, ActionKeyCombo, ActionCopy, ActionPaste, ActionAppSwitch, ActionSystem:
		return false
	}
	return false
}

// Session is the on-disk record of one recording run.
type Session struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"session"`
	StartTime  *time.Time `json:"start_time"`
	TotalSteps int        `json:"total_steps"`
	Preamble   string     `json:"preamble,omitempty"`
	Steps      []Step     `json:"steps"`
}

// Step is one classified user action. Steps are never modified by the
// recorder once appended.
type Step struct {
	Number      int            `json:"step_number"`
	Timestamp   time.Time      `json:"timestamp"`
	Action      ActionType     `json:"action_type"`
	Position    *Position      `json:"position"`
	Application *Application   `json:"application"`
	Screenshot  string         `json:"screenshot,omitempty"`
	Details     map[string]any `json:"details"`
}

// Position is a point in screen coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Application describes the frontmost application when a step was taken.
type Application struct {
	Name     string `json:"name"`
	BundleID string `json:"bundle_id,omitempty"`
	PID      int    `json:"pid,omitempty"`
}

// UnknownApplication is attached when the frontmost application cannot be
// resolved.
var UnknownApplication = Application{Name: "Unknown"}

// New builds the session document for the given steps. StartTime is the
// first step's timestamp, or nil when there are no steps.
func New(id, name, preamble string, steps []Step) *Session {
	s := &Session{
		ID:         id,
		Name:       name,
		TotalSteps: len(steps),
		Preamble:   preamble,
		Steps:      steps,
	}
	if s.Steps == nil {
		s.Steps = []Step{}
	}
	if len(steps) > 0 {
		t := steps[0].Timestamp
		s.StartTime = &t
	}
	return s
}

// DetailString returns details[key] as a string, or "" if absent.
func (s Step) DetailString(key string) string {
	if v, ok := s.Details[key].(string); ok {
		return v
	}
	return ""
}
