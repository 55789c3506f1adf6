package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newProgressCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Report completion over the currently relevant questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.engine(nil)
			if err != nil {
				return err
			}
			answers, profile, err := opts.state()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan, color.Bold)

			percent := eng.Progress(answers, profile)
			cyan.Fprintf(out, "%d%%", percent)
			fmt.Fprintf(out, " complete, %d remaining\n", eng.Remaining(answers, profile))

			if id := eng.NextPriority(answers, profile); id != "" {
				fmt.Fprintf(out, "highest priority: %s\n", id)
			}
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}
}
