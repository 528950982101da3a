package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/control"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a background recording is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := newController()
		if err != nil {
			return err
		}

		st, err := ctl.Status()
		if err != nil {
			if errors.Is(err, control.ErrNotRecording) {
				cmd.Println("not recording")
				return nil
			}
			return err
		}

		cmd.Printf("Recording: %s\n", st.Name)
		cmd.Printf("PID: %d\n", st.PID)
		cmd.Printf("Started: %s\n", st.StartedAt.Format(time.RFC3339))
		cmd.Printf("Duration: %s\n", time.Since(st.StartedAt).Round(time.Second).String())
		// The file lags the live recorder by up to one autosave.
		if s, err := sessionStore().Load(st.Name); err == nil {
			cmd.Printf("Saved steps: %d\n", s.TotalSteps)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
