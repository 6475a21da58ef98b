package main

import (
	"faraid/internal/report"

	"github.com/spf13/cobra"
)

func newHeirsCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "heirs",
		Short: "List the heir kinds accepted by --heir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, opts, err := out.resolve()
			if err != nil {
				return err
			}
			return report.Heirs(cmd.OutOrStdout(), format, opts)
		},
	}
	out.register(cmd)
	return cmd
}

func newMadhabsCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "madhabs",
		Short: "List the madhabs and their rule toggles",
		Long:  "Lists each school with the toggles in effect, including overrides from the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, opts, err := out.resolve()
			if err != nil {
				return err
			}
			return report.Madhabs(cmd.OutOrStdout(), eng.Catalog().List(), format, opts)
		},
	}
	out.register(cmd)
	return cmd
}
