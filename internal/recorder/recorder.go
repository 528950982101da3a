// Package recorder turns a raw input event stream into a numbered,
// persisted sequence of session steps.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fakeyudi/stepsrec/internal/input"
	"github.com/fakeyudi/stepsrec/internal/report"
	"github.com/fakeyudi/stepsrec/internal/session"
)

// State is the lifecycle state of a Recorder.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Why a session stopped.
const (
	ReasonInterrupt    = "interrupt"
	ReasonMaxSteps     = "max_steps"
	ReasonSourceClosed = "source_closed"
	ReasonRequested    = "requested"
)

// System step events emitted by the recorder itself.
const (
	EventStarted = "recorder_started"
	EventStopped = "recorder_stopped"
)

// Options configure a Recorder.
type Options struct {
	ID       string
	Name     string
	Store    *session.Store
	Provider input.Provider
	Logger   zerolog.Logger
	// Clock stamps steps. Defaults to time.Now.
	Clock func() time.Time
	// Sleep is used for the clipboard retry. Defaults to time.Sleep.
	Sleep func(time.Duration)

	DebounceInterval time.Duration
	AutosaveInterval time.Duration
	AutosaveEvery    int
	// MaxSteps caps the session length; zero or less means unlimited.
	MaxSteps int

	CaptureScreenshots bool
	CaptureClipboard   bool
	CaptureKeystrokes  bool
	CaptureScroll      bool
}

// Result describes a finished session.
type Result struct {
	Name       string
	Dir        string
	TotalSteps int
	Reason     string
	ReportPath string
}

// Recorder is the session lifecycle controller: idle -> running -> stopping
// -> stopped, with no way back.
type Recorder struct {
	opts  Options
	log   zerolog.Logger
	clock func() time.Time

	mods       *ModifierTracker
	classifier *Classifier
	debounce   *Debouncer
	persist    *Persister
	shots      *Correlator

	mu     sync.Mutex
	state  State
	reason string
	cancel context.CancelFunc
}

// New validates opts and builds an idle recorder.
func New(opts Options) (*Recorder, error) {
	if err := session.ValidateName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("capture provider is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	log := opts.Logger.With().Str("session", opts.Name).Logger()

	r := &Recorder{
		opts:     opts,
		log:      log,
		clock:    clock,
		mods:     NewModifierTracker(),
		debounce: NewDebouncer(opts.DebounceInterval),
		persist:  NewPersister(opts.Store, opts.ID, opts.Name, opts.AutosaveEvery, log),
		shots:    NewCorrelator(opts.Provider, opts.Store.Dir(opts.Name), log),
	}
	r.classifier = &Classifier{
		CaptureKeystrokes: opts.CaptureKeystrokes,
		CaptureScroll:     opts.CaptureScroll,
		CaptureClipboard:  opts.CaptureClipboard,
		Clipboard:         opts.Provider.Clipboard,
		Sleep:             opts.Sleep,
	}
	return r, nil
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Steps returns a copy of the steps recorded so far.
func (r *Recorder) Steps() []session.Step {
	return r.persist.Snapshot()
}

// Stop asks a running recorder to wind down. It returns true only for the
// call that moved the recorder into stopping; later calls are no-ops. Safe
// to call from any goroutine, including the event path.
func (r *Recorder) Stop(reason string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return false
	}
	r.state = StateStopping
	r.reason = reason
	if r.cancel != nil {
		r.cancel()
	}
	return true
}

// Run records until ctx is cancelled, Stop is called, the step limit is hit
// or the event source ends, then writes the final session file and report.
// It returns an error only when capture cannot start.
func (r *Recorder) Run(ctx context.Context) (Result, error) {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return Result{}, fmt.Errorf("recorder already %s", r.state)
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	dir, err := r.opts.Store.Create(r.opts.Name)
	if err != nil {
		r.setState(StateStopped)
		return Result{}, err
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return r.persist.Autosave(gctx, r.opts.AutosaveInterval)
	})

	events, err := r.opts.Provider.Events(runCtx)
	if err != nil {
		cancel()
		_ = g.Wait()
		r.setState(StateStopped)
		return Result{}, fmt.Errorf("opening event source: %w", err)
	}

	r.setState(StateRunning)
	r.log.Info().Str("dir", dir).Msg("recording started")
	r.recordSystem(EventStarted, nil)

	reason := r.loop(runCtx, events)
	if r.Stop(reason) {
		r.log.Info().Str("reason", reason).Msg("stopping recorder")
	}
	cancel()
	_ = g.Wait()

	return r.finish(dir), nil
}

func (r *Recorder) loop(ctx context.Context, events <-chan input.Event) string {
	for {
		select {
		case <-ctx.Done():
			return ReasonInterrupt
		case ev, ok := <-events:
			if !ok {
				return ReasonSourceClosed
			}
			if ctx.Err() != nil {
				return ReasonInterrupt
			}
			r.handle(ctx, ev)
		}
	}
}

// handle runs all per-event work synchronously.
func (r *Recorder) handle(ctx context.Context, ev input.Event) {
	if r.State() != StateRunning || !ev.Kind.Known() {
		return
	}
	if ev.Kind == input.KindSystem {
		if r.reserve() {
			r.recordSystem(ev.Name, ev.Data)
		}
		return
	}

	t := ev.Time
	if t.IsZero() {
		t = r.clock()
	}
	if !r.debounce.Accept(t) {
		return
	}

	if ev.Kind == input.KindFlagsChanged {
		r.mods.Toggle(ev.KeyCode)
		return
	}

	action, ok := r.classifier.Classify(ev, r.mods.Snapshot())
	if !ok {
		return
	}
	r.record(ctx, ev, action)
}

// record assembles and appends one step, taking its screenshot first.
func (r *Recorder) record(ctx context.Context, ev input.Event, action Action) {
	if !r.reserve() {
		return
	}

	n := r.persist.Next()
	var shot string
	if r.opts.CaptureScreenshots && action.Type.Screenshotted() {
		shot = r.shots.Capture(ctx, n)
	}

	app := r.application(ev)
	st := session.Step{
		Number:      n,
		Timestamp:   r.clock(),
		Action:      action.Type,
		Position:    action.Position,
		Application: &app,
		Screenshot:  shot,
		Details:     action.Details,
	}
	r.append(st)
}

// reserve reports whether the session has room for another step. At the
// limit it requests an orderly stop instead.
func (r *Recorder) reserve() bool {
	if r.opts.MaxSteps <= 0 || r.persist.Len() < r.opts.MaxSteps {
		return true
	}
	r.log.Warn().Int("max_steps", r.opts.MaxSteps).Msg("max steps reached")
	r.Stop(ReasonMaxSteps)
	return false
}

// recordSystem appends a system step. System steps carry no position or
// application and are not subject to the debounce.
func (r *Recorder) recordSystem(event string, data map[string]any) {
	details := map[string]any{"event": event}
	for k, v := range data {
		if k != "event" {
			details[k] = v
		}
	}
	r.append(session.Step{
		Number:    r.persist.Next(),
		Timestamp: r.clock(),
		Action:    session.ActionSystem,
		Details:   details,
	})
}

func (r *Recorder) append(st session.Step) {
	r.persist.Append(st)
	logStep(r.log, st)
}

func (r *Recorder) application(ev input.Event) session.Application {
	if ev.App != nil && ev.App.Name != "" {
		return *ev.App
	}
	app, err := r.opts.Provider.FrontmostApp()
	if err != nil || app.Name == "" {
		return session.UnknownApplication
	}
	return app
}

// finish emits the terminal step, performs the final flush and writes the
// report.
func (r *Recorder) finish(dir string) Result {
	total := r.persist.Len()
	r.recordSystem(EventStopped, map[string]any{"total_steps": total})

	if err := r.persist.Flush(); err != nil {
		r.log.Error().Err(err).Msg("final save failed")
	}

	steps := r.persist.Snapshot()
	res := Result{
		Name:       r.opts.Name,
		Dir:        dir,
		TotalSteps: len(steps),
		Reason:     r.stopReason(),
	}

	summary := report.Summarize(r.opts.Name, dir, steps)
	data, err := (&report.TextRenderer{}).Render(&summary)
	if err == nil {
		err = r.opts.Store.WriteReport(r.opts.Name, data)
	}
	if err != nil {
		r.log.Error().Err(err).Msg("report not written")
	} else {
		res.ReportPath = filepath.Join(dir, session.ReportFile)
	}

	r.setState(StateStopped)
	r.log.Info().Int("steps", res.TotalSteps).Str("reason", res.Reason).Msg("recording complete")
	return res
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Recorder) stopReason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}
