package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNextCommand(opts *globalOptions) *cobra.Command {
	var rawAnswer string

	cmd := &cobra.Command{
		Use:   "next <question-id>",
		Short: "Resolve the question that follows an answer",
		Long: `Records --answer for the given question on top of the recorded answers and
prints the id of the next question, or "complete" when the questionnaire is done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.engine(nil)
			if err != nil {
				return err
			}
			answers, profile, err := opts.state()
			if err != nil {
				return err
			}

			current := args[0]
			answer, err := parseValue(rawAnswer)
			if err != nil {
				return fmt.Errorf("answer: %w", err)
			}
			if cmd.Flags().Changed("answer") {
				answers = answers.With(current, answer)
			} else {
				answer = answers[current]
			}

			next, err := eng.ResolveNext(current, answer, answers, profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if next == "" {
				fmt.Fprintln(out, "complete")
			} else {
				fmt.Fprintln(out, next)
			}
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&rawAnswer, "answer", "a", "", "Answer to the question, parsed as YAML (defaults to the recorded answer)")
	return cmd
}
