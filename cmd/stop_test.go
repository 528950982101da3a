package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/fakeyudi/stepsrec/internal/control"
)

// TestStopNotRecordingError verifies that "stop" with no recorder fails.
func TestStopNotRecordingError(t *testing.T) {
	dir := isolate(t)

	out, err := executeCommand(rootCmd, "stop", "--recordings-dir", dir)
	if err == nil {
		t.Fatal("expected an error from stop with no recorder, got nil")
	}
	combined := out + err.Error()
	if !strings.Contains(combined, "not recording") {
		t.Errorf("expected error to contain %q, got: %q", "not recording", combined)
	}
}

// TestStopClearsStaleState verifies that a dead recorder's state is dropped.
func TestStopClearsStaleState(t *testing.T) {
	dir := isolate(t)
	states, err := control.NewStateStore()
	if err != nil {
		t.Fatal(err)
	}
	if err := states.Save(&control.State{Name: "ghost", PID: 999_999_999}); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(rootCmd, "stop", "--recordings-dir", dir); err == nil {
		t.Fatal("expected stop to report not recording for a dead pid")
	}
	if _, err := states.Load(); !errors.Is(err, control.ErrNotRecording) {
		t.Errorf("stale state not cleared: %v", err)
	}
}
