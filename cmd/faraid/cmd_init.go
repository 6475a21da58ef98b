package main

import (
	"fmt"
	"os"

	"faraid/internal/config"
	"faraid/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Writes the default configuration to --config, or to faraid.yaml in the
working directory. An existing file is left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfgFile); err == nil && !force {
				return fmt.Errorf("config %s already exists (use --force to overwrite)", cfgFile)
			}
			if err := config.DefaultConfig().Save(cfgFile); err != nil {
				return err
			}
			logging.Get(logging.CategoryConfig).Info("config written", zap.String("path", cfgFile))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
