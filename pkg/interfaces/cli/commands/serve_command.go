package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bomview/pkg/application/services"
	domainservices "github.com/vsinha/bomview/pkg/domain/services"
	"github.com/vsinha/bomview/pkg/infrastructure/config"
	"github.com/vsinha/bomview/pkg/infrastructure/events"
	"github.com/vsinha/bomview/pkg/infrastructure/metrics"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/file"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/memory"
	bomhttp "github.com/vsinha/bomview/pkg/interfaces/http"
)

const shutdownTimeout = 10 * time.Second

// ServeCommand runs the HTTP API
type ServeCommand struct {
	config config.Config
	logger *zap.Logger
}

// NewServeCommand creates a new serve command
func NewServeCommand(cfg config.Config, logger *zap.Logger) *ServeCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServeCommand{
		config: cfg,
		logger: logger,
	}
}

// Build wires repositories, services and the server without starting it
func (c *ServeCommand) Build(ctx context.Context) (*bomhttp.Server, error) {
	methodRepo := memory.NewMethodRepository(0)
	opRepo := memory.NewOperationRepository(0)

	if dir := c.config.Data.Dir; dir != "" {
		stats, err := file.NewLoader().LoadDir(ctx, dir, methodRepo, opRepo)
		if err != nil {
			return nil, fmt.Errorf("failed to load data directory %s: %w", dir, err)
		}
		c.logger.Info("loaded data directory",
			zap.String("dir", dir),
			zap.Int("trees", stats.Trees),
			zap.Int("operations", stats.Operations),
		)
	}

	store := events.NewInMemoryEventStore(events.DefaultRetention, c.logger)
	service := services.NewBOMService(
		methodRepo,
		opRepo,
		domainservices.NewTreeValidator(c.config.Limits.MaxDepth, c.config.Limits.MaxNodes),
		c.logger,
	).WithEvents(store)

	opts := bomhttp.Options{
		Addr:      c.config.HTTP.Addr,
		Precision: c.config.Output.Precision,
		Events:    store,
		Logger:    c.logger,
	}
	if c.config.Metrics.Enabled {
		recorder := metrics.NewRecorder()
		if err := store.Subscribe(recorder.EventTypes(), recorder); err != nil {
			return nil, fmt.Errorf("failed to subscribe metrics recorder: %w", err)
		}
		opts.Metrics = recorder.Registry()
	}

	return bomhttp.NewServer(service, opts), nil
}

// Execute serves until ctx is cancelled, then shuts down gracefully
func (c *ServeCommand) Execute(ctx context.Context) error {
	server, err := c.Build(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
