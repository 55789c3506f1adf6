package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/quizpath"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of quizpath",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quizpath version %s\n", strings.TrimSpace(quizpath.Version))
		},
	}
}
