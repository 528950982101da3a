package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/config"
	"github.com/fakeyudi/stepsrec/internal/control"
	"github.com/fakeyudi/stepsrec/internal/logging"
	"github.com/fakeyudi/stepsrec/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is built from cfg in PersistentPreRunE.
var logger = zerolog.Nop()

var (
	flagRecordingsDir string
	flagLogLevel      string
)

var rootCmd = &cobra.Command{
	Use:          "stepsrec",
	Short:        "Record interactive sessions as numbered steps with screenshots",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		if flagRecordingsDir != "" {
			cfg.RecordingsDir = flagRecordingsDir
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}

		logger, err = logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			Output: cmd.ErrOrStderr(),
		})
		return err
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// sessionStore returns the store over the configured recordings directory.
func sessionStore() *session.Store {
	return session.NewStore(cfg.RecordingsDir)
}

// newController builds the background recorder controller. The launched
// recorder inherits the recordings directory and log level chosen here.
func newController() (*control.Controller, error) {
	states, err := control.NewStateStore()
	if err != nil {
		return nil, err
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating stepsrec executable: %w", err)
	}
	dir, err := filepath.Abs(cfg.RecordingsDir)
	if err != nil {
		return nil, err
	}
	logPath := filepath.Join(filepath.Dir(states.Path()), "recorder.log")
	return control.New(states, logPath, exe,
		"--recordings-dir", dir,
		"--log-level", cfg.LogLevel,
	), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRecordingsDir, "recordings-dir", "", "directory holding recorded sessions (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}
