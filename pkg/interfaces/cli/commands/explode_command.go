package commands

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bomview/pkg/application/dto"
	"github.com/vsinha/bomview/pkg/application/services"
	domainservices "github.com/vsinha/bomview/pkg/domain/services"
	"github.com/vsinha/bomview/pkg/infrastructure/events"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/file"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bomview/pkg/interfaces/cli/output"
)

// ExplodeConfig holds configuration for the explode command
type ExplodeConfig struct {
	Files             []string
	OperationsFile    string
	IncludeOperations bool
	Quantities        []float64
	Format            string
	OutputDir         string
	Precision         int32
	MaxDepth          int
	MaxNodes          int
	Concurrency       int
	Verbose           bool
}

// ExplodeCommand explodes tree files and renders the results
type ExplodeCommand struct {
	config ExplodeConfig
	logger *zap.Logger
}

// NewExplodeCommand creates a new explode command with the given configuration
func NewExplodeCommand(config ExplodeConfig, logger *zap.Logger) *ExplodeCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExplodeCommand{
		config: config,
		logger: logger,
	}
}

// Execute loads and explodes every file concurrently, then writes the results
// to w in the order the files were given.
func (c *ExplodeCommand) Execute(ctx context.Context, w io.Writer) error {
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	loader := file.NewLoader()
	opRepo := memory.NewOperationRepository(0)
	if c.config.OperationsFile != "" {
		ops, err := loader.LoadOperations(c.config.OperationsFile)
		if err != nil {
			return fmt.Errorf("error loading operations: %w", err)
		}
		if err := opRepo.LoadOperations(ops); err != nil {
			return fmt.Errorf("failed to load operations into repository: %w", err)
		}
		c.logger.Debug("loaded operations", zap.String("file", c.config.OperationsFile), zap.Int("count", len(ops)))
	}

	store := events.NewInMemoryEventStore(len(c.config.Files), c.logger)
	service := services.NewBOMService(
		nil,
		opRepo,
		domainservices.NewTreeValidator(c.config.MaxDepth, c.config.MaxNodes),
		c.logger,
	).WithEvents(store)

	opts := services.ExplodeOptions{
		IncludeOperations: c.config.IncludeOperations || c.config.OperationsFile != "",
		Quantities:        c.config.Quantities,
		Source:            events.SourceFile,
	}

	start := time.Now()
	results := make([]*dto.BOMResult, len(c.config.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())
	for i, filename := range c.config.Files {
		i, filename := i, filename
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			root, err := loader.LoadMethodTree(filename)
			if err != nil {
				return fmt.Errorf("error loading %s: %w", filename, err)
			}
			result, err := service.Explode(gctx, root, opts)
			if err != nil {
				return fmt.Errorf("error exploding %s: %w", filename, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if c.config.Verbose {
		c.printStats(w, store, elapsed)
	}

	names := outputNames(c.config.Files)
	for i, result := range results {
		err := output.Generate(w, names[i], result, output.Config{
			Format:        c.config.Format,
			OutputDir:     c.config.OutputDir,
			Precision:     c.config.Precision,
			Verbose:       c.config.Verbose,
			ExplosionTime: elapsed,
		})
		if err != nil {
			return fmt.Errorf("failed to write output for %s: %w", c.config.Files[i], err)
		}
	}

	return nil
}

func (c *ExplodeCommand) validateInputs() error {
	if len(c.config.Files) == 0 {
		return fmt.Errorf("at least one BOM file is required")
	}
	if !output.ValidFormat(c.config.Format) {
		return fmt.Errorf("unsupported output format %q (expected one of %v)", c.config.Format, output.Formats)
	}
	if c.config.Format == "xlsx" && c.config.OutputDir == "" {
		return fmt.Errorf("--output is required for xlsx format")
	}
	return nil
}

func (c *ExplodeCommand) concurrency() int {
	if c.config.Concurrency > 0 {
		return c.config.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (c *ExplodeCommand) printStats(w io.Writer, store events.EventStore, elapsed time.Duration) {
	evts, err := store.ReadAllEvents(0)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "🔍 Exploded %d file(s) in %v\n", len(evts), elapsed)
	for _, e := range evts {
		if data, ok := e.Data().(events.BOMExploded); ok {
			fmt.Fprintf(w, "  %s: %d lines, max level %d, %d operations\n",
				data.RootItemID, data.Lines, data.MaxLevel, data.Operations)
		}
	}
	fmt.Fprintln(w)
}

// outputNames derives one file name per input, suffixing repeated base names
func outputNames(files []string) []string {
	names := make([]string, len(files))
	seen := make(map[string]int, len(files))
	for i, f := range files {
		base := output.BaseName(f)
		seen[base]++
		if n := seen[base]; n > 1 {
			base = fmt.Sprintf("%s_%d", base, n)
		}
		names[i] = base
	}
	return names
}
