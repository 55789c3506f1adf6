package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResumeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Find where a respondent should continue",
		Long: `Replays the recorded answers from the first relevant question and prints the
path taken followed by the first unanswered question ("complete" if none).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.engine(nil)
			if err != nil {
				return err
			}
			answers, profile, err := opts.state()
			if err != nil {
				return err
			}

			trace, err := eng.Trace(answers, profile)
			if err != nil {
				return err
			}
			current, err := eng.Resume(answers, profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(trace) > 0 {
				fmt.Fprintf(out, "path: %s\n", strings.Join(trace, " -> "))
			}
			if current == "" {
				fmt.Fprintln(out, "complete")
			} else {
				fmt.Fprintf(out, "resume at: %s\n", current)
			}
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}
}
