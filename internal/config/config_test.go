package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Feature: stepsrec, Property: config merge precedence
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasRecordingsDir") {
			cfg.RecordingsDir = nonEmptyString.Draw(t, "recordingsDir")
		}
		if rapid.Bool().Draw(t, "hasLogLevel") {
			cfg.LogLevel = nonEmptyString.Draw(t, "logLevel")
		}
		if rapid.Bool().Draw(t, "hasMaxSteps") {
			cfg.MaxSteps = rapid.IntRange(1, 5000).Draw(t, "maxSteps")
		}
		if rapid.Bool().Draw(t, "hasScreenshots") {
			cfg.CaptureScreenshots = Bool(rapid.Bool().Draw(t, "screenshots"))
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "RecordingsDir",
			global.RecordingsDir, project.RecordingsDir, defaults.RecordingsDir,
			merged.RecordingsDir)
		checkStringField(t, "LogLevel",
			global.LogLevel, project.LogLevel, defaults.LogLevel,
			merged.LogLevel)

		switch {
		case project.MaxSteps > 0:
			if merged.MaxSteps != project.MaxSteps {
				t.Fatalf("MaxSteps: expected project %d, got %d", project.MaxSteps, merged.MaxSteps)
			}
		case global.MaxSteps > 0:
			if merged.MaxSteps != global.MaxSteps {
				t.Fatalf("MaxSteps: expected global %d, got %d", global.MaxSteps, merged.MaxSteps)
			}
		default:
			if merged.MaxSteps != defaults.MaxSteps {
				t.Fatalf("MaxSteps: expected default %d, got %d", defaults.MaxSteps, merged.MaxSteps)
			}
		}

		want := true
		if global.CaptureScreenshots != nil {
			want = *global.CaptureScreenshots
		}
		if project.CaptureScreenshots != nil {
			want = *project.CaptureScreenshots
		}
		if got := Enabled(merged.CaptureScreenshots); got != want {
			t.Fatalf("CaptureScreenshots: expected %v, got %v", want, got)
		}
	})
}

// checkStringField asserts the merge precedence rule for a single string field.
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set: expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set: expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set: expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.DebounceInterval.Std() != 300*time.Millisecond {
		t.Errorf("DebounceInterval: want 300ms, got %v", d.DebounceInterval.Std())
	}
	if d.AutosaveInterval.Std() != 30*time.Second {
		t.Errorf("AutosaveInterval: want 30s, got %v", d.AutosaveInterval.Std())
	}
	if d.AutosaveEvery != 5 {
		t.Errorf("AutosaveEvery: want 5, got %d", d.AutosaveEvery)
	}
	if d.MaxSteps != 1000 {
		t.Errorf("MaxSteps: want 1000, got %d", d.MaxSteps)
	}
	if !Enabled(d.CaptureClipboard) || !Enabled(d.CaptureScreenshots) {
		t.Error("capture flags should default to enabled")
	}
}

func TestDurationJSON(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"debounce_interval":"150ms","capture_scroll":false}`), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.DebounceInterval.Std() != 150*time.Millisecond {
		t.Errorf("DebounceInterval = %v", cfg.DebounceInterval.Std())
	}
	if Enabled(cfg.CaptureScroll) {
		t.Error("capture_scroll=false should disable scroll capture")
	}
	merged := Merge(nil, &cfg)
	if Enabled(merged.CaptureScroll) {
		t.Error("explicit false must survive Merge")
	}

	if err := json.Unmarshal([]byte(`{"debounce_interval":300}`), &cfg); err == nil {
		t.Error("expected error for numeric duration")
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if cfg.RecordingsDir != Defaults().RecordingsDir {
		t.Errorf("RecordingsDir: want %q, got %q", Defaults().RecordingsDir, cfg.RecordingsDir)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "stepsrec")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestCaptureHelperMerge(t *testing.T) {
	global := &Config{CaptureHelper: []string{"capture-helper", "--fps", "2"}}
	if got := Merge(global, &Config{}).CaptureHelper; len(got) != 3 || got[0] != "capture-helper" {
		t.Errorf("global helper lost: %v", got)
	}
	project := &Config{CaptureHelper: []string{"other-helper"}}
	if got := Merge(global, project).CaptureHelper; len(got) != 1 || got[0] != "other-helper" {
		t.Errorf("project helper should win: %v", got)
	}
	if got := Merge(nil, nil).CaptureHelper; got != nil {
		t.Errorf("default helper should be empty, got %v", got)
	}
}
