// Command faraid divides an estate among Islamic heirs under the four Sunni
// schools.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"faraid/internal/config"
	"faraid/internal/engine"
	"faraid/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	noColor    bool

	// Logger
	logger *zap.Logger

	// Loaded in PersistentPreRunE
	cfg     *config.Config
	cfgFile string
	eng *engine.Engine
)

// newRootCmd builds the command tree. Tests build a fresh tree per run so no
// flag state leaks between them.
func newRootCmd() *cobra.Command {
	verbose, configPath, noColor = false, "", false

	root := &cobra.Command{
		Use:   "faraid",
		Short: "Islamic inheritance calculator",
		Long: `faraid divides an estate among the heirs of the deceased.

Deductions (funeral, debts, bequest) come off the gross estate first. The
net estate is then divided under the rules of the Shafi'i, Hanafi, Maliki or
Hanbali school: exclusion, fixed shares, proportional increase, residue,
return and distant kin.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
			logging.CloseAll()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest faraid.yaml)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newCalcCmd(),
		newCompareCmd(),
		newBatteryCmd(),
		newHeirsCmd(),
		newMadhabsCmd(),
		newInitCmd(),
	)
	return root
}

// setup initializes the logger, loads the config and builds the engine.
func setup(cmd *cobra.Command, args []string) error {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	path := configPath
	if path == "" {
		if path, err = config.FindConfig(); err != nil {
			return fmt.Errorf("failed to locate config: %w", err)
		}
	}
	cfgFile = path
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	if verbose {
		cfg.Logging.DebugMode = true
	}
	if err := logging.Initialize(cfg.Logging.Options()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Get(logging.CategoryConfig).Debug("config loaded",
		zap.String("path", path),
		zap.String("default_madhab", cfg.DefaultMadhab),
		zap.Int32("places", cfg.Currency.Places))

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	engineLog := logger.Named("engine")
	if logging.IsCategoryEnabled(logging.CategoryEngine) {
		engineLog = logging.Get(logging.CategoryEngine)
	}
	eng = engine.New(
		engine.WithCatalog(catalog),
		engine.WithCurrencyPlaces(cfg.Currency.Places),
		engine.WithLogger(engineLog),
	)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
