package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Source is an opened raw event byte stream.
type Source struct {
	io.Reader
	close func() error
}

// Close releases the source.
func (s *Source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenFile opens a JSON Lines event file, or stdin when path is "-".
func OpenFile(path string) (*Source, error) {
	if path == "-" {
		return &Source{Reader: os.Stdin}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newUnavailableError(fmt.Sprintf("event file %s does not exist", path))
		}
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return &Source{Reader: f, close: f.Close}, nil
}

// StartHelper launches an external capture helper and streams its stdout.
// The helper's stderr passes through so it can print permission prompts.
func StartHelper(ctx context.Context, argv []string) (*Source, error) {
	if len(argv) == 0 {
		return nil, newUnavailableError("empty capture helper command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture helper stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, newUnavailableError(fmt.Sprintf("starting capture helper %s: %v", argv[0], err))
	}
	return &Source{
		Reader: stdout,
		close: func() error {
			if cmd.Process != nil {
				_ = cmd.Process.Signal(os.Interrupt)
			}
			err := cmd.Wait()
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return nil
			}
			return err
		},
	}, nil
}
