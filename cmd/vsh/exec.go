package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExecCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- <command line>",
		Short: "Run one command line and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := e.interpreter().Execute(strings.Join(args, " "))
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(out, "\n"))
			}
			return nil
		},
	}
}
