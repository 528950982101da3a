package input

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// ErrCaptureUnavailable indicates no event source could be opened, usually
// because the host has not granted input-monitoring permission.
var ErrCaptureUnavailable = errors.New("input capture unavailable")

// PermissionGuidance is printed alongside ErrCaptureUnavailable.
const PermissionGuidance = `Grant the capture helper Accessibility and Screen Recording access:
  System Settings > Privacy & Security > Accessibility
  System Settings > Privacy & Security > Screen Recording
then restart the recorder.`

// Provider supplies raw events, screen images, clipboard text and the
// frontmost application.
type Provider interface {
	// Events opens the event stream. The channel is closed when the source
	// ends; after ctx is cancelled no further events are delivered, though
	// closing may wait for a blocked read. An error means capture cannot
	// start at all.
	Events(ctx context.Context) (<-chan Event, error)
	// Screenshot grabs the whole screen.
	Screenshot(ctx context.Context) (image.Image, error)
	// FrontmostApp reports the focused application.
	FrontmostApp() (session.Application, error)
	// Clipboard returns the current clipboard text.
	Clipboard() (string, error)
}

// Grabber produces a screen image on demand.
type Grabber interface {
	Grab(ctx context.Context) (image.Image, error)
}

// GrabberFunc adapts a function literal to the Grabber interface.
type GrabberFunc func(ctx context.Context) (image.Image, error)

// Grab calls the underlying function.
func (f GrabberFunc) Grab(ctx context.Context) (image.Image, error) {
	return f(ctx)
}

type unavailableError struct {
	message string
}

func (e *unavailableError) Error() string { return e.message }

func (e *unavailableError) Is(target error) bool { return target == ErrCaptureUnavailable }

func newUnavailableError(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		trimmed = ErrCaptureUnavailable.Error()
	}
	return &unavailableError{message: trimmed}
}
