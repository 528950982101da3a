package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/config"
	"github.com/fakeyudi/stepsrec/internal/control"
	"github.com/fakeyudi/stepsrec/internal/input"
	"github.com/fakeyudi/stepsrec/internal/recorder"
)

var (
	recordName          string
	recordEvents        string
	recordHelper        string
	recordMaxSteps      int
	recordDebounce      time.Duration
	recordNoScreenshots bool
	recordNoClipboard   bool
	recordNoKeystrokes  bool
	recordNoScroll      bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a session in the foreground until interrupted",
	Long: `Record reads raw input events from the capture helper (or --events) and
writes numbered steps, screenshots and a report under the recordings directory.
Press Ctrl-C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := control.SanitizeName(recordName)
		if name == "" {
			name = time.Now().Format("Session_2006-01-02_15-04-05")
		}

		store := sessionStore()
		if _, err := store.Load(name); err == nil {
			return fmt.Errorf("session %q already exists in %s", name, store.Root())
		}

		ctl, err := newController()
		if err != nil {
			return err
		}
		release, err := ctl.Claim(name)
		if err != nil {
			return err
		}
		defer release()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, err := openEventSource(ctx)
		if err != nil {
			return captureError(cmd, err)
		}
		defer src.Close()

		provider := input.NewStreamProvider(src, input.StreamOptions{
			Grabber: &input.SyntheticGrabber{},
		})

		rec, err := recorder.New(recorderOptions(cmd, name, provider))
		if err != nil {
			return err
		}
		res, err := rec.Run(ctx)
		if err != nil {
			return captureError(cmd, err)
		}
		if n := provider.Skipped(); n > 0 {
			logger.Warn().Int("lines", n).Msg("skipped malformed event lines")
		}

		cmd.Printf("Recording complete: %d steps (%s)\n", res.TotalSteps, res.Reason)
		cmd.Printf("Data saved in: %s\n", res.Dir)
		return nil
	},
}

// openEventSource picks the raw event stream: --events, then --helper, then
// the configured capture helper, then stdin.
func openEventSource(ctx context.Context) (*input.Source, error) {
	switch {
	case recordEvents != "":
		return input.OpenFile(recordEvents)
	case strings.TrimSpace(recordHelper) != "":
		return input.StartHelper(ctx, strings.Fields(recordHelper))
	case len(cfg.CaptureHelper) > 0:
		return input.StartHelper(ctx, cfg.CaptureHelper)
	default:
		return input.OpenFile("-")
	}
}

func recorderOptions(cmd *cobra.Command, name string, p input.Provider) recorder.Options {
	opts := recorder.Options{
		ID:                 uuid.New().String(),
		Name:               name,
		Store:              sessionStore(),
		Provider:           p,
		Logger:             logger,
		DebounceInterval:   cfg.DebounceInterval.Std(),
		AutosaveInterval:   cfg.AutosaveInterval.Std(),
		AutosaveEvery:      cfg.AutosaveEvery,
		MaxSteps:           cfg.MaxSteps,
		CaptureScreenshots: config.Enabled(cfg.CaptureScreenshots) && !recordNoScreenshots,
		CaptureClipboard:   config.Enabled(cfg.CaptureClipboard) && !recordNoClipboard,
		CaptureKeystrokes:  config.Enabled(cfg.CaptureKeystrokes) && !recordNoKeystrokes,
		CaptureScroll:      config.Enabled(cfg.CaptureScroll) && !recordNoScroll,
	}
	if cmd.Flags().Changed("max-steps") {
		opts.MaxSteps = recordMaxSteps
	}
	if cmd.Flags().Changed("debounce") {
		opts.DebounceInterval = recordDebounce
	}
	return opts
}

// captureError adds permission guidance to capture failures.
func captureError(cmd *cobra.Command, err error) error {
	if errors.Is(err, input.ErrCaptureUnavailable) {
		fmt.Fprintln(cmd.ErrOrStderr(), input.PermissionGuidance)
	}
	return err
}

func init() {
	recordCmd.Flags().StringVarP(&recordName, "name", "n", "", "session name, used as the folder name (default Session_<timestamp>)")
	recordCmd.Flags().StringVar(&recordEvents, "events", "", "read JSON Lines events from this file ('-' for stdin)")
	recordCmd.Flags().StringVar(&recordHelper, "helper", "", "capture helper command whose stdout streams events (overrides config)")
	recordCmd.Flags().IntVar(&recordMaxSteps, "max-steps", 0, "stop after this many steps, 0 for no limit (overrides config)")
	recordCmd.Flags().DurationVar(&recordDebounce, "debounce", 0, "minimum spacing between accepted events (overrides config)")
	recordCmd.Flags().BoolVar(&recordNoScreenshots, "no-screenshots", false, "do not capture screenshots")
	recordCmd.Flags().BoolVar(&recordNoClipboard, "no-clipboard", false, "record cmd+c/cmd+v as plain key combos")
	recordCmd.Flags().BoolVar(&recordNoKeystrokes, "no-keystrokes", false, "do not record key presses")
	recordCmd.Flags().BoolVar(&recordNoScroll, "no-scroll", false, "do not record scrolling")
	rootCmd.AddCommand(recordCmd)
}
