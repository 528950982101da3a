package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/control"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Delete a recorded session and its screenshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := refuseIfRecording(name); err != nil {
			return err
		}
		if err := sessionStore().Delete(name); err != nil {
			return err
		}
		cmd.Printf("Deleted %s.\n", name)
		return nil
	},
}

// refuseIfRecording fails when name is the session owned by the live recorder.
func refuseIfRecording(name string) error {
	ctl, err := newController()
	if err != nil {
		return err
	}
	if st, err := ctl.Status(); err == nil && st.Name == name {
		return fmt.Errorf("session %q is being recorded; stop it first", name)
	} else if err != nil && !errors.Is(err, control.ErrNotRecording) {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
