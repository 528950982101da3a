package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/control"
	"github.com/fakeyudi/stepsrec/internal/session"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background recording and finalize its session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := newController()
		if err != nil {
			return err
		}
		st, err := ctl.Stop()
		if err != nil {
			if errors.Is(err, control.ErrNotRecording) {
				return errors.New("not recording")
			}
			return err
		}

		cmd.Printf("Recording stopped: %s\n", st.Name)
		store := sessionStore()
		if s, err := store.Load(st.Name); err == nil {
			cmd.Printf("Total steps: %d\n", s.TotalSteps)
		}
		report := filepath.Join(store.Dir(st.Name), session.ReportFile)
		if _, err := os.Stat(report); err == nil {
			cmd.Printf("Report: %s\n", report)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
