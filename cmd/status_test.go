package cmd

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestStatusNotRecording(t *testing.T) {
	dir := isolate(t)
	out, err := executeCommand(rootCmd, "status", "--recordings-dir", dir)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "not recording") {
		t.Errorf("expected %q, got:\n%s", "not recording", out)
	}
}

// Feature: stepsrec, Property: status reports the saved step count
func TestStatusCountsAccuracy(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")

		dir := isolate(t)
		registerRecorder(t, "live")
		seedSession(t, dir, "live", n)

		out, err := executeCommand(rootCmd, "status", "--recordings-dir", dir)
		if err != nil {
			rt.Fatalf("status command error: %v", err)
		}
		for _, want := range []string{"Recording: live", fmt.Sprintf("Saved steps: %d", n)} {
			if !strings.Contains(out, want) {
				rt.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})
}
