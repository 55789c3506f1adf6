package main

import (
	"fmt"

	"github.com/aretw0/quizpath/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCommand(opts *globalOptions) *cobra.Command {
	var overlay bool

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Export the questionnaire as a Mermaid diagram",
		Long: `Outputs a Mermaid flowchart (graph TD) of the question set.
With --overlay, the recorded answers (--answers/--set) are used to highlight the
path taken, the current question and questions that no longer apply.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.engine(args)
			if err != nil {
				return err
			}

			var ov *graph.GraphOverlay
			if overlay {
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

				relevant := make(map[string]bool)
				for _, id := range eng.Relevant(answers, profile) {
					relevant[id] = true
				}
				ov = &graph.GraphOverlay{CurrentNode: current}
				for _, id := range trace {
					if id != current {
						ov.VisitedNodes = append(ov.VisitedNodes, id)
					}
				}
				for _, id := range eng.QuestionSet().IDs() {
					if !relevant[id] {
						ov.IrrelevantNodes = append(ov.IrrelevantNodes, id)
					}
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.QuestionSet().Questions(), ov))
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&overlay, "overlay", false, "Highlight the path described by the recorded answers")
	return cmd
}
