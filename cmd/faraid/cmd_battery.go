package main

import (
	"fmt"

	"faraid/internal/logging"
	"faraid/internal/regression"
	"faraid/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBatteryCmd() *cobra.Command {
	var (
		out        outputFlags
		categories []string
		list       bool
	)
	cmd := &cobra.Command{
		Use:   "battery [file]",
		Short: "Run the scenario battery",
		Long: `Runs every scenario in a battery file (the built-in classical battery
when no file is given) under each of its madhabs and reports the failures.
Exits non-zero when any scenario fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   *regression.Battery
				err error
			)
			if len(args) == 1 {
				b, err = regression.LoadBattery(args[0])
			} else {
				b, err = regression.DefaultBattery()
			}
			if err != nil {
				return err
			}

			if list {
				for _, c := range b.Categories() {
					fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			}

			b = b.Filter(categories...)
			if len(b.Scenarios) == 0 {
				return fmt.Errorf("no scenarios match categories %v", categories)
			}

			format, opts, err := out.resolve()
			if err != nil {
				return err
			}
			rep, err := regression.RunBattery(cmd.Context(), b, eng)
			if err != nil {
				return err
			}
			logging.Get(logging.CategoryCLI).Debug("battery",
				zap.String("run_id", rep.RunID),
				zap.Int("passed", rep.Passed),
				zap.Int("failed", rep.Failed))

			if err := report.Battery(cmd.OutOrStdout(), rep, format, opts); err != nil {
				return err
			}
			if !rep.OK() {
				return fmt.Errorf("%d scenario(s) failed", rep.Failed)
			}
			return nil
		},
	}
	out.register(cmd)
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Only run these categories")
	cmd.Flags().BoolVar(&list, "list", false, "List the battery's categories and exit")
	return cmd
}
