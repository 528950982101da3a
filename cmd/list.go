package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := sessionStore()
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			cmd.Printf("no sessions in %s\n", store.Root())
			return nil
		}

		cmd.Printf("%-32s %-10s %6s %11s\n", "SESSION", "DATE", "STEPS", "SCREENSHOTS")
		for _, name := range names {
			s, err := store.Load(name)
			if err != nil {
				logger.Warn().Err(err).Str("session", name).Msg("skipping unreadable session")
				continue
			}
			date := ""
			if s.StartTime != nil {
				date = s.StartTime.Format("2006-01-02")
			}
			shots := 0
			for _, st := range s.Steps {
				if st.Screenshot != "" {
					shots++
				}
			}
			cmd.Printf("%-32s %-10s %6d %11d\n", name, date, s.TotalSteps, shots)
		}
		return nil
	},
}

// sessionTitle turns a session folder name into a display title.
func sessionTitle(name string) string {
	return report.ActionLabel(strings.ReplaceAll(name, "-", "_"))
}

func init() {
	rootCmd.AddCommand(listCmd)
}
