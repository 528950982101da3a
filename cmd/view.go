package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/report"
	"github.com/fakeyudi/stepsrec/internal/session"
	"github.com/fakeyudi/stepsrec/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <session>",
	Short: "Browse a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := sessionStore()
		s, err := store.Load(args[0])
		if err != nil {
			return err
		}

		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			printSession(cmd.OutOrStdout(), s, store.Dir(args[0]))
			return nil
		}
		return tui.Run(s, store.Dir(args[0]))
	},
}

// printSession writes a plain-text rendering of s.
func printSession(w io.Writer, s *session.Session, dir string) {
	fmt.Fprintf(w, "## %s\n", sessionTitle(s.Name))
	if s.StartTime != nil {
		fmt.Fprintf(w, "  Started:   %s\n", s.StartTime.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(w, "  Steps:     %d\n", s.TotalSteps)
	fmt.Fprintf(w, "  Directory: %s\n", dir)
	fmt.Fprintln(w)

	if s.Preamble != "" {
		fmt.Fprintln(w, "## Preamble")
		fmt.Fprintln(w, indent(s.Preamble, "  "))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Steps")
	if len(s.Steps) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, st := range s.Steps {
		fmt.Fprintln(w, stepLine(st))
		if st.Screenshot != "" {
			fmt.Fprintf(w, "        %s\n", st.Screenshot)
		}
	}
}

// stepLine formats one step as "  12. 15:04:05  Click at (1, 2)  [Finder]".
func stepLine(st session.Step) string {
	line := fmt.Sprintf("  %3d. %s  %s", st.Number, st.Timestamp.Format("15:04:05"), report.Describe(st))
	if st.Application != nil && st.Application.Name != "" {
		line += "  [" + st.Application.Name + "]"
	}
	return line
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
