package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/aretw0/quizpath"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check the question set for consistency",
		Long: `Loads the question set and reports every problem at once:
  - Duplicate or empty question ids
  - Branch or default targets that name no question
  - Condition and relevance syntax errors
  - Relevance expressions that depend on each other in a cycle

With --watch (directories only) the set is re-validated on every change.

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runValidateWatch(cmd.Context(), opts, args, cmd.OutOrStdout())
			}
			return runValidate(opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate when files in the directory change")
	return cmd
}

func runValidate(opts *globalOptions, args []string, out io.Writer, extra ...quizpath.Option) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	eng, err := opts.engine(args, extra...)
	if err != nil {
		problems := domain.ValidationErrors(err)
		if len(problems) == 0 {
			return err
		}
		red.Fprintf(out, "✗ %d problem(s) found\n", len(problems))
		for _, p := range problems {
			fmt.Fprintf(out, "  - %v\n", p)
		}
		return errors.New("validation failed")
	}

	green.Fprintf(out, "✓ %d questions valid\n", eng.QuestionSet().Len())
	return opts.writeMetrics(out)
}

// runValidateWatch keeps one loader for the whole session so every
// re-validation reads through the same watched repository.
func runValidateWatch(ctx context.Context, opts *globalOptions, args []string, out io.Writer) error {
	loader, err := quizpath.NewLoader(opts.sourceFrom(args))
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	changes, err := quizpath.Watch(ctx, loader)
	if err != nil {
		return fmt.Errorf("--watch needs a directory: %w", err)
	}

	_ = runValidate(opts, args, out, quizpath.WithLoader(loader))
	yellow := color.New(color.FgYellow)
	for id := range changes {
		yellow.Fprintf(out, "↻ %s changed\n", id)
		_ = runValidate(opts, args, out, quizpath.WithLoader(loader))
	}
	return nil
}
