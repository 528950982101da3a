package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/recorder"
	"github.com/fakeyudi/stepsrec/internal/session"
)

var tailCmd = &cobra.Command{
	Use:   "tail <session>",
	Short: "Follow a session as the recorder saves new steps",
	Long: `Tail prints the steps already saved, then prints new ones each time the
recorder writes the session file. It exits when the recording stops or on Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		store := sessionStore()
		if err := session.ValidateName(name); err != nil {
			return err
		}
		if info, err := os.Stat(store.Dir(name)); err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", session.ErrNotFound, name)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		last := 0
		show := func(s *session.Session) {
			for _, st := range s.Steps {
				if st.Number <= last {
					continue
				}
				cmd.Println(stepLine(st))
				last = st.Number
				if st.Action == session.ActionSystem && st.DetailString("event") == recorder.EventStopped {
					cancel()
				}
			}
		}

		if s, err := store.Load(name); err == nil {
			show(s)
		}
		if ctx.Err() != nil {
			return nil
		}
		return store.Watch(ctx, name, show)
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
}
