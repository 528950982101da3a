package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start recording a session in the background",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := newController()
		if err != nil {
			return err
		}
		st, err := ctl.Start(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Recording started: %s (pid %d, %s)\n", st.Name, st.PID, st.StartedAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
