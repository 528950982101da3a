package control

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Defaults for stopping a background recorder.
const (
	DefaultStopTimeout  = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Controller starts, stops and inspects the background recorder.
type Controller struct {
	States *StateStore

	// Launch starts a detached recorder for the named session and returns
	// its pid.
	Launch func(name string) (int, error)
	// Alive reports whether pid is still running.
	Alive func(pid int) bool
	// Interrupt asks pid to finish its session; Terminate forces it.
	Interrupt func(pid int) error
	Terminate func(pid int) error

	StopTimeout  time.Duration
	PollInterval time.Duration
	Now          func() time.Time
}

// New returns a Controller that launches `exe record --name <name> <extra...>`
// and signals real processes. Output of the child goes to logPath.
func New(states *StateStore, logPath, exe string, extra ...string) *Controller {
	return &Controller{
		States: states,
		Launch: func(name string) (int, error) {
			argv := append([]string{"record", "--name", name}, extra...)
			return launch(exe, argv, logPath)
		},
		Alive:        processAlive,
		Interrupt:    interruptProcess,
		Terminate:    terminateProcess,
		StopTimeout:  DefaultStopTimeout,
		PollInterval: DefaultPollInterval,
		Now:          time.Now,
	}
}

// Status returns the live recorder state. Stale state left by a recorder that
// died without cleaning up is removed and reported as ErrNotRecording.
func (c *Controller) Status() (*State, error) {
	st, err := c.States.Load()
	if err != nil {
		return nil, err
	}
	if !c.Alive(st.PID) {
		if err := c.States.Delete(); err != nil {
			return nil, err
		}
		return nil, ErrNotRecording
	}
	return st, nil
}

// Start sanitizes name and launches a recorder for it unless one is running.
func (c *Controller) Start(name string) (*State, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return nil, errors.New("session name must not be empty")
	}

	if st, err := c.Status(); err == nil {
		return nil, fmt.Errorf("%w: %q (pid %d)", ErrAlreadyRecording, st.Name, st.PID)
	} else if !errors.Is(err, ErrNotRecording) {
		return nil, err
	}

	pid, err := c.Launch(safe)
	if err != nil {
		return nil, fmt.Errorf("launching recorder: %w", err)
	}
	st := &State{Name: safe, PID: pid, StartedAt: c.Now()}
	if err := c.States.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Stop interrupts the running recorder so it finalizes its session, waits up
// to StopTimeout for it to exit, then terminates it.
func (c *Controller) Stop() (*State, error) {
	st, err := c.Status()
	if err != nil {
		return nil, err
	}

	if err := c.Interrupt(st.PID); err != nil && c.Alive(st.PID) {
		return nil, fmt.Errorf("interrupting recorder (pid %d): %w", st.PID, err)
	}
	if !c.waitExit(st.PID, c.StopTimeout) {
		if err := c.Terminate(st.PID); err != nil && c.Alive(st.PID) {
			return nil, fmt.Errorf("terminating recorder (pid %d): %w", st.PID, err)
		}
	}

	if err := c.States.Delete(); err != nil {
		return nil, err
	}
	return st, nil
}

// Claim registers the current process as the recorder for name. It fails with
// ErrAlreadyRecording when a different live process holds the state. The
// returned release removes the state if this process still owns it.
func (c *Controller) Claim(name string) (release func(), err error) {
	self := os.Getpid()
	st, err := c.Status()
	switch {
	case err == nil && st.PID != self:
		return nil, fmt.Errorf("%w: %q (pid %d)", ErrAlreadyRecording, st.Name, st.PID)
	case err != nil && !errors.Is(err, ErrNotRecording):
		return nil, err
	}

	if st == nil {
		st = &State{Name: name, PID: self, StartedAt: c.Now()}
		if err := c.States.Save(st); err != nil {
			return nil, err
		}
	}
	return func() {
		cur, err := c.States.Load()
		if err == nil && cur.PID == self {
			_ = c.States.Delete()
		}
	}, nil
}

func (c *Controller) waitExit(pid int, timeout time.Duration) bool {
	poll := c.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		if !c.Alive(pid) {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(poll)
	}
}

func launch(exe string, argv []string, logPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return 0, err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, err
	}
	defer logFile.Close()

	cmd := exec.Command(exe, argv...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return 0, err
	}
	return pid, nil
}
