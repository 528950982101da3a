package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/stepsrec/internal/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report <session>",
	Short: "Regenerate a session's report from its saved steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		store := sessionStore()
		s, err := store.Load(name)
		if err != nil {
			return err
		}
		summary := report.Summarize(s.Name, store.Dir(name), s.Steps)

		var renderer report.Renderer
		switch reportFormat {
		case "", "text":
			renderer = &report.TextRenderer{}
		case "json":
			renderer = &report.JSONRenderer{}
		default:
			return fmt.Errorf("unsupported format %q (want text or json)", reportFormat)
		}

		data, err := renderer.Render(&summary)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if _, ok := renderer.(*report.TextRenderer); ok {
			if err := store.WriteReport(name, data); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(reportCmd)
}
