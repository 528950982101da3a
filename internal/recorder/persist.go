package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// Persister owns the in-memory step list of the active session and writes it
// to the session file. Appends come from the event goroutine; the autosave
// goroutine only reads.
type Persister struct {
	store *session.Store
	id    string
	name  string
	every int
	log   zerolog.Logger

	mu    sync.Mutex
	steps []session.Step
	next  int

	// saveMu serializes full-session writes so the final flush waits for an
	// in-flight autosave.
	saveMu sync.Mutex
	saves  int
}

// NewPersister returns an empty persister for the named session. A full
// write happens after every `every` appended steps; zero disables that.
func NewPersister(store *session.Store, id, name string, every int, log zerolog.Logger) *Persister {
	return &Persister{
		store: store,
		id:    id,
		name:  name,
		every: every,
		log:   log,
		steps: []session.Step{},
		next:  1,
	}
}

// Next returns the number the next appended step will get.
func (p *Persister) Next() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Len returns the number of steps held.
func (p *Persister) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.steps)
}

// Append adds s and advances the counter past its number. Every `every`
// steps the session is written synchronously.
func (p *Persister) Append(s session.Step) {
	p.mu.Lock()
	p.steps = append(p.steps, s)
	if s.Number >= p.next {
		p.next = s.Number + 1
	}
	due := p.every > 0 && len(p.steps)%p.every == 0
	p.mu.Unlock()

	if due {
		_ = p.Flush()
	}
}

// Snapshot returns a copy of the step list.
func (p *Persister) Snapshot() []session.Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]session.Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Saves returns how many successful writes have happened.
func (p *Persister) Saves() int {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	return p.saves
}

// Flush writes the whole session, overwriting the previous file. Errors are
// logged and returned; the caller decides whether they matter.
func (p *Persister) Flush() error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	steps := p.Snapshot()
	if err := p.store.Save(session.New(p.id, p.name, "", steps)); err != nil {
		p.log.Error().Err(err).Int("steps", len(steps)).Msg("save failed, retrying on next autosave")
		return err
	}
	p.saves++
	p.log.Debug().Int("steps", len(steps)).Msg("session saved")
	return nil
}

// Autosave flushes every interval until ctx is done. Empty sessions are not
// written. A failed write is simply retried on the next tick.
func (p *Persister) Autosave(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if p.Len() > 0 {
				_ = p.Flush()
			}
		}
	}
}
