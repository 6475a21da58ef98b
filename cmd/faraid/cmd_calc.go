package main

import (
	"faraid/internal/compare"
	"faraid/internal/logging"
	"faraid/internal/madhab"
	"faraid/internal/report"
	"faraid/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCalcCmd() *cobra.Command {
	var (
		in     estateFlags
		out    outputFlags
		school string
		trace  bool
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Divide an estate under one madhab",
		Long: `Computes each heir's share, the amount it comes to, who was excluded
and why, and which special cases applied.

Example:
  faraid calc --madhab hanafi --total 120000 --heir husband --heir full_sister=2 --heir mother`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileMadhab, estate, heirs, err := in.request()
			if err != nil {
				return err
			}
			format, opts, err := out.resolve()
			if err != nil {
				return err
			}
			opts.Trace = trace

			md := pickMadhab(school, fileMadhab)
			log := logging.Get(logging.CategoryCLI)
			log.Debug("calc", zap.String("madhab", md), zap.String("net", estate.Net().String()), zap.Int("heads", heirs.Total()))

			res, err := eng.Calculate(types.Request{Madhab: md, Estate: estate, Heirs: heirs})
			if err != nil {
				return err
			}
			return report.Result(cmd.OutOrStdout(), res, format, opts)
		},
	}
	in.register(cmd)
	out.register(cmd)
	cmd.Flags().StringVarP(&school, "madhab", "m", "", "Madhab: shafii, hanafi, maliki, hanbali (default from config)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Show the calculation steps")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		in      estateFlags
		out     outputFlags
		schools []string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Divide an estate under every madhab side by side",
		Long: `Runs the same estate under each madhab concurrently and reports where
the schools disagree.

Example:
  faraid compare --total 1000 --heir grandfather --heir full_brother`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, estate, heirs, err := in.request()
			if err != nil {
				return err
			}
			format, opts, err := out.resolve()
			if err != nil {
				return err
			}

			ids := make([]madhab.ID, 0, len(schools))
			for _, s := range schools {
				id, err := madhab.ParseID(s)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			cmp, err := compare.Run(cmd.Context(), eng, estate, heirs, ids...)
			if err != nil {
				return err
			}
			logging.Get(logging.CategoryCLI).Debug("compare",
				zap.String("id", cmp.ID),
				zap.Bool("agree", cmp.Agree()),
				zap.Duration("duration", cmp.Duration))
			return report.Comparison(cmd.OutOrStdout(), cmp, format, opts)
		},
	}
	in.register(cmd)
	out.register(cmd)
	cmd.Flags().StringSliceVarP(&schools, "madhab", "m", nil, "Restrict to these madhabs (default: all four)")
	return cmd
}

// pickMadhab prefers the flag, then the input file, then the config.
func pickMadhab(flag, file string) string {
	switch {
	case flag != "":
		return flag
	case file != "":
		return file
	case cfg != nil:
		return cfg.DefaultMadhab
	}
	return string(madhab.Shafii)
}
