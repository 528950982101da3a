package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var preambleCmd = &cobra.Command{
	Use:   "preamble <session> <text>",
	Short: "Set the introduction shown before a session's steps",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := refuseIfRecording(args[0]); err != nil {
			return err
		}
		if err := sessionStore().SetPreamble(args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		cmd.Printf("Preamble updated for %s.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preambleCmd)
}
