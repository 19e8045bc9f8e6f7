package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vsinha/bomview/pkg/infrastructure/config"
	"github.com/vsinha/bomview/pkg/infrastructure/logger"
	"github.com/vsinha/bomview/pkg/interfaces/cli/commands"
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"addr":       "http.addr",
	"data-dir":   "data.dir",
	"metrics":    "metrics.enabled",
	"precision":  "output.precision",
	"max-depth":  "limits.max_depth",
	"max-nodes":  "limits.max_nodes",
}

type app struct {
	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "bomview",
		Short: "Flatten, roll up and cost manufacturing method trees",
		Long: `bomview turns nested method trees (bills of materials with make methods)
into flat, indented BOM views with outline ids, rolled-up quantities and
operation durations projected at several build volumes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console, json")

	rootCmd.AddCommand(newServeCmd(a), newExplodeCmd(a), newGenerateCmd())
	return rootCmd
}

// setup loads configuration with flags taking precedence and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	v := viper.New()
	config.SetDefaults(v)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.LoadWith(v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the BOM API over HTTP",
		Long: `Loads method trees from <data-dir>/methods and operations from
<data-dir>/operations, then serves:

  POST /api/v1/bom                 explode a posted tree
  GET  /api/v1/items               list stored items
  GET  /api/v1/items/:id/bom       explode a stored tree
  GET  /api/v1/events              explosion event log
  GET  /health, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.NewServeCommand(a.cfg, a.logger).Execute(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("data-dir", "", "Directory with methods/ and operations/ subdirectories")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	cmd.Flags().Int("max-depth", 64, "Maximum tree depth")
	cmd.Flags().Int("max-nodes", 50000, "Maximum nodes per tree")
	cmd.Flags().Int32("precision", 4, "Decimal places in responses")
	return cmd
}

func newExplodeCmd(a *app) *cobra.Command {
	var opts commands.ExplodeConfig

	cmd := &cobra.Command{
		Use:   "explode FILE...",
		Short: "Explode one or more method tree files",
		Long: `Explodes tree files (.json, .yaml, .yml, .csv, .xlsx) concurrently and
prints or writes the flattened BOM of each.

Example:
  bomview explode bracket.yaml --operations ops.csv --quantities 1,10,100
  bomview explode a.json b.json --format xlsx --output ./out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			opts.Precision = a.cfg.Output.Precision
			opts.MaxDepth = a.cfg.Limits.MaxDepth
			opts.MaxNodes = a.cfg.Limits.MaxNodes
			return commands.NewExplodeCommand(opts, a.logger).Execute(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text, json, csv, xlsx")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory (required for xlsx)")
	cmd.Flags().StringVar(&opts.OperationsFile, "operations", "", "Operations file (.csv, .json, .yaml)")
	cmd.Flags().BoolVar(&opts.IncludeOperations, "with-operations", false, "Attach operations to make lines")
	cmd.Flags().Float64SliceVar(&opts.Quantities, "quantities", nil, "Build quantities to project durations at, e.g. 1,10,100")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Files exploded in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().Int("max-depth", 64, "Maximum tree depth")
	cmd.Flags().Int("max-nodes", 50000, "Maximum nodes per tree")
	cmd.Flags().Int32("precision", 4, "Decimal places in output")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var opts commands.GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic data directory",
		Long: `Writes synthetic method trees to <output>/methods and their operations to
<output>/operations, ready for "bomview serve --data-dir".

Example:
  bomview generate --roots 5 --items 2000 --depth 8 --output ./data --seed 12345`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.NewGenerateCommand(opts).Execute(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Roots, "roots", 1, "Number of top-level assemblies")
	cmd.Flags().IntVar(&opts.Items, "items", 100, "Approximate nodes per assembly")
	cmd.Flags().IntVar(&opts.MaxDepth, "depth", 5, "Maximum depth of each tree")
	cmd.Flags().IntVar(&opts.Breadth, "breadth", 6, "Maximum children per subassembly")
	cmd.Flags().StringVar(&opts.Format, "format", "yaml", "File format: yaml, json, csv")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output data directory")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (default: time based)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose output")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
