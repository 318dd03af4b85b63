package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile every template and report syntax errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := a.engine(nil)
			if err := e.Load(); err != nil {
				return err
			}
			names := slices.Sorted(maps.Keys(e.GetDebugTemplates()))
			for _, name := range names {
				a.logger.Debug("template ok", "template", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d templates ok\n", len(names))
			return nil
		},
	}
}
