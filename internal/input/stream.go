package input

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// ErrNoImage is returned by Screenshot when no grabber is configured.
var ErrNoImage = errors.New("no screen image available")

// StreamOptions configure a StreamProvider.
type StreamOptions struct {
	// Grabber produces screenshots. Nil disables screenshots.
	Grabber Grabber
	// Clock stamps events that arrive without a time.
	Clock func() time.Time
	// Buffer is the event channel capacity.
	Buffer int
}

// StreamProvider reads raw events as JSON Lines, one Event per line, from an
// external capture helper. It remembers the last application and clipboard
// text it saw so the recorder can query them.
type StreamProvider struct {
	r       io.Reader
	grabber Grabber
	clock   func() time.Time
	buffer  int

	mu        sync.Mutex
	app       *session.Application
	clipboard *string
	skipped   int
	opened    bool
}

// NewStreamProvider returns a provider reading from r.
func NewStreamProvider(r io.Reader, opts StreamOptions) *StreamProvider {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = 64
	}
	return &StreamProvider{r: r, grabber: opts.Grabber, clock: clock, buffer: buffer}
}

// Events starts decoding the stream. It may be called once. The channel closes
// at EOF. Cancelling ctx stops delivery, but a read already blocked on the
// reader only returns with the next line or EOF, so callers close the
// underlying source to release it.
func (p *StreamProvider) Events(ctx context.Context) (<-chan Event, error) {
	if p.r == nil {
		return nil, newUnavailableError("no event source configured")
	}
	p.mu.Lock()
	if p.opened {
		p.mu.Unlock()
		return nil, errors.New("event stream already open")
	}
	p.opened = true
	p.mu.Unlock()

	ch := make(chan Event, p.buffer)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(p.r)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(line), &ev); err != nil {
				p.mu.Lock()
				p.skipped++
				p.mu.Unlock()
				continue
			}
			if ev.Time.IsZero() {
				ev.Time = p.clock()
			}
			p.observe(&ev)

			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// observe records app and clipboard state carried by ev and fills in the
// last known values when ev carries none, so every event holds the state in
// effect when it was reported.
func (p *StreamProvider) observe(ev *Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.App != nil {
		app := *ev.App
		p.app = &app
	} else if p.app != nil {
		app := *p.app
		ev.App = &app
	}
	if ev.Clipboard != nil {
		text := *ev.Clipboard
		p.clipboard = &text
	} else if p.clipboard != nil {
		text := *p.clipboard
		ev.Clipboard = &text
	}
}

// Screenshot delegates to the configured grabber.
func (p *StreamProvider) Screenshot(ctx context.Context) (image.Image, error) {
	if p.grabber == nil {
		return nil, ErrNoImage
	}
	return p.grabber.Grab(ctx)
}

// FrontmostApp returns the most recently reported application.
func (p *StreamProvider) FrontmostApp() (session.Application, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.app == nil {
		return session.Application{}, errors.New("frontmost application not reported")
	}
	return *p.app, nil
}

// Clipboard returns the most recently decoded clipboard text. Decoding runs
// ahead of the consumer, so per-event state should be read from
// Event.Clipboard instead.
func (p *StreamProvider) Clipboard() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clipboard == nil {
		return "", nil
	}
	return *p.clipboard, nil
}

// Skipped returns how many malformed lines were ignored.
func (p *StreamProvider) Skipped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipped
}
