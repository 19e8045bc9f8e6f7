package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/bomview/pkg/application/dto"
	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/repositories"
	domainservices "github.com/vsinha/bomview/pkg/domain/services"
	"github.com/vsinha/bomview/pkg/infrastructure/events"
)

// ErrInvalidOptions is wrapped when explode options are malformed
var ErrInvalidOptions = errors.New("invalid explode options")

// Volume multipliers used for the fixed duration bands of each operation
var durationBands = [3]float64{1, 100, 1000}

// ExplodeOptions controls what an explosion includes
type ExplodeOptions struct {
	// IncludeOperations attaches projected operation rows to every line
	// whose node has a make method.
	IncludeOperations bool
	// Quantities are root build quantities (e.g. the quantities of a quote
	// line) at which every operation is additionally projected.
	Quantities []float64
	// Source labels the explosion in published events (events.SourceAPI,
	// events.SourceFile, ...).
	Source string
}

// Validate checks the requested quantities
func (o ExplodeOptions) Validate() error {
	for _, q := range o.Quantities {
		if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
			return fmt.Errorf("%w: quantities must be positive and finite, got %v", ErrInvalidOptions, q)
		}
	}
	return nil
}

// IsValidationError reports whether err was caused by malformed input rather
// than by a failing collaborator.
func IsValidationError(err error) bool {
	return errors.Is(err, entities.ErrInvalidNode) ||
		errors.Is(err, entities.ErrInvalidOperation) ||
		errors.Is(err, domainservices.ErrTreeTooDeep) ||
		errors.Is(err, domainservices.ErrTreeTooLarge) ||
		errors.Is(err, domainservices.ErrCycle) ||
		errors.Is(err, ErrInvalidOptions)
}

// BOMService turns method trees into flat, rolled-up BOM views
type BOMService struct {
	methodRepo repositories.MethodRepository
	opRepo     repositories.OperationRepository
	validator  *domainservices.TreeValidator
	events     events.EventPublisher
	logger     *zap.Logger
}

// NewBOMService creates a new BOM service. methodRepo and opRepo may be nil
// when the caller only explodes trees it supplies without operations.
func NewBOMService(
	methodRepo repositories.MethodRepository,
	opRepo repositories.OperationRepository,
	validator *domainservices.TreeValidator,
	logger *zap.Logger,
) *BOMService {
	if validator == nil {
		validator = domainservices.NewTreeValidator(0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BOMService{
		methodRepo: methodRepo,
		opRepo:     opRepo,
		validator:  validator,
		logger:     logger,
	}
}

// WithEvents publishes a BOMExploded or BOMExplosionFailed event for every
// explosion to publisher.
func (s *BOMService) WithEvents(publisher events.EventPublisher) *BOMService {
	s.events = publisher
	return s
}

// ExplodeItem loads the method tree of itemID and explodes it
func (s *BOMService) ExplodeItem(ctx context.Context, itemID string, opts ExplodeOptions) (*dto.BOMResult, error) {
	if opts.Source == "" {
		opts.Source = events.SourceRepository
	}
	if s.methodRepo == nil {
		return nil, fmt.Errorf("no method repository configured")
	}

	start := time.Now()
	root, err := s.methodRepo.GetMethodTree(ctx, itemID)
	if err != nil {
		err = fmt.Errorf("failed to load method tree for %s: %w", itemID, err)
		s.publishFailure(itemID, opts.Source, err, time.Since(start))
		return nil, err
	}

	return s.Explode(ctx, root, opts)
}

// ListItems returns the root items known to the method repository
func (s *BOMService) ListItems(ctx context.Context) ([]string, error) {
	if s.methodRepo == nil {
		return []string{}, nil
	}
	return s.methodRepo.ListItemIDs(ctx)
}

// Explode validates, flattens and rolls up a method tree. A nil root yields an
// empty result.
func (s *BOMService) Explode(ctx context.Context, root *entities.MethodNode, opts ExplodeOptions) (*dto.BOMResult, error) {
	if opts.Source == "" {
		opts.Source = events.SourceUnknown
	}
	start := time.Now()

	result, err := s.explode(ctx, root, opts)
	elapsed := time.Since(start)
	if err != nil {
		rootID := ""
		if root != nil {
			rootID = root.ItemID
		}
		s.publishFailure(rootID, opts.Source, err, elapsed)
		return nil, err
	}

	s.logger.Debug("exploded method tree",
		zap.String("root", result.Summary.RootItemID),
		zap.String("source", opts.Source),
		zap.Int("lines", result.Summary.Lines),
		zap.Int("max_level", result.Summary.MaxLevel),
		zap.Bool("operations", opts.IncludeOperations),
		zap.Duration("elapsed", elapsed),
	)
	s.publish(events.NewBOMExplodedEvent(events.BOMExploded{
		RootItemID: result.Summary.RootItemID,
		Source:     opts.Source,
		Lines:      result.Summary.Lines,
		MaxLevel:   result.Summary.MaxLevel,
		Operations: result.Summary.Operations,
		Elapsed:    elapsed,
	}))

	return result, nil
}

func (s *BOMService) explode(ctx context.Context, root *entities.MethodNode, opts ExplodeOptions) (*dto.BOMResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateTree(root); err != nil {
		return nil, err
	}

	items := domainservices.Flatten(root)
	ids := domainservices.GenerateBomIDs(items)
	totals := domainservices.RollupQuantities(items)

	result := &dto.BOMResult{
		Lines: make([]dto.BomLineView, 0, len(items)),
	}
	if root != nil {
		result.Summary.RootItemID = root.ItemID
	}
	if len(opts.Quantities) > 0 {
		result.Summary.Durations = make([]dto.DurationAtVolume, len(opts.Quantities))
		for i, q := range opts.Quantities {
			result.Summary.Durations[i].Quantity = q
		}
	}

	// operations are fetched once per make method for this call only
	operationsByMethod := make(map[string][]entities.OperationRecord)

	for i, item := range items {
		node := item.Node
		line := dto.BomLineView{
			ID:          ids[i],
			ItemID:      node.ItemReadableID,
			Description: optional(node.Description),
			Quantity:    node.Quantity,
			Total:       totals[i],
			UnitCost:    node.UnitCost,
			TotalCost:   domainservices.ExtendedCost(node.UnitCost, totals[i]),
			UOM:         optional(node.UnitOfMeasure),
			MethodType:  node.MethodType.String(),
			ItemType:    node.ItemType.String(),
			Level:       item.Level,
			Version:     optional(node.Version),
		}
		if line.ItemID == "" {
			line.ItemID = node.ItemID
		}

		if opts.IncludeOperations && node.MakeMethodID != "" {
			ops, err := s.operationsFor(ctx, node.MakeMethodID, operationsByMethod)
			if err != nil {
				return nil, err
			}
			line.Operations = projectOperations(ops, totals[i], opts.Quantities)
			addToSummary(&result.Summary, line.Operations)
		}
		if err := checkLine(line); err != nil {
			return nil, err
		}

		if !item.HasChildren() {
			result.Summary.MaterialCost += line.TotalCost
		}
		if item.Level > result.Summary.MaxLevel {
			result.Summary.MaxLevel = item.Level
		}
		result.Lines = append(result.Lines, line)
	}
	result.Summary.Lines = len(result.Lines)

	if err := checkSummary(result.Summary); err != nil {
		return nil, err
	}
	return result, nil
}

// checkLine rejects lines whose rolled-up values overflowed float64
func checkLine(line dto.BomLineView) error {
	values := []float64{line.Total, line.TotalCost}
	for _, op := range line.Operations {
		values = append(values, op.TotalDurationX1, op.TotalDurationX100, op.TotalDurationX1000)
		for _, d := range op.Durations {
			values = append(values, d.Evaluated, d.Total)
		}
	}
	if !allFinite(values...) {
		return fmt.Errorf("%w: %s (line %s): rolled-up quantity, cost or duration is not finite",
			entities.ErrInvalidNode, line.ItemID, line.ID)
	}
	return nil
}

func checkSummary(summary dto.BOMSummary) error {
	values := []float64{summary.MaterialCost, summary.TotalDurationX1, summary.TotalDurationX100, summary.TotalDurationX1000}
	for _, d := range summary.Durations {
		values = append(values, d.Total)
	}
	if !allFinite(values...) {
		return fmt.Errorf("%w: %s: summary cost or duration is not finite", entities.ErrInvalidNode, summary.RootItemID)
	}
	return nil
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *BOMService) publishFailure(rootID, source string, err error, elapsed time.Duration) {
	s.publish(events.NewBOMExplosionFailedEvent(events.BOMExplosionFailed{
		RootItemID: rootID,
		Source:     source,
		Invalid:    IsValidationError(err),
		Error:      err.Error(),
		Elapsed:    elapsed,
	}))
}

func (s *BOMService) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event", event.Type()), zap.Error(err))
	}
}

func (s *BOMService) operationsFor(
	ctx context.Context,
	makeMethodID string,
	cache map[string][]entities.OperationRecord,
) ([]entities.OperationRecord, error) {
	if ops, ok := cache[makeMethodID]; ok {
		return ops, nil
	}
	if s.opRepo == nil {
		return nil, fmt.Errorf("operations requested but no operation repository configured")
	}

	ops, err := s.opRepo.GetOperations(ctx, makeMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load operations for make method %s: %w", makeMethodID, err)
	}
	if err := s.validator.ValidateOperations(ops); err != nil {
		return nil, err
	}

	cache[makeMethodID] = ops
	return ops, nil
}

func projectOperations(ops []entities.OperationRecord, total float64, quantities []float64) []dto.OperationView {
	views := make([]dto.OperationView, 0, len(ops))
	for _, op := range ops {
		view := dto.OperationView{
			Description:        op.Description,
			Process:            op.Process,
			WorkCenter:         optional(op.WorkCenter),
			OperationType:      op.OperationType.String(),
			SetupTime:          op.SetupTime,
			SetupUnit:          op.SetupUnit.String(),
			LaborTime:          op.LaborTime,
			LaborUnit:          op.LaborUnit.String(),
			MachineTime:        op.MachineTime,
			MachineUnit:        op.MachineUnit.String(),
			TotalDurationX1:    domainservices.ProjectDurations(op, total*durationBands[0]).Total,
			TotalDurationX100:  domainservices.ProjectDurations(op, total*durationBands[1]).Total,
			TotalDurationX1000: domainservices.ProjectDurations(op, total*durationBands[2]).Total,
		}

		if len(quantities) > 0 {
			view.Durations = make([]dto.DurationAtVolume, 0, len(quantities))
			for _, q := range quantities {
				d := domainservices.ProjectDurations(op, total*q)
				view.Durations = append(view.Durations, dto.DurationAtVolume{
					Quantity:  q,
					Evaluated: d.Quantity,
					Setup:     d.Setup,
					Labor:     d.Labor,
					Machine:   d.Machine,
					Total:     d.Total,
				})
			}
		}
		views = append(views, view)
	}
	return views
}

func addToSummary(summary *dto.BOMSummary, ops []dto.OperationView) {
	for _, op := range ops {
		summary.Operations++
		summary.TotalDurationX1 += op.TotalDurationX1
		summary.TotalDurationX100 += op.TotalDurationX100
		summary.TotalDurationX1000 += op.TotalDurationX1000
		for i := range op.Durations {
			if i >= len(summary.Durations) {
				break
			}
			summary.Durations[i].Setup += op.Durations[i].Setup
			summary.Durations[i].Labor += op.Durations[i].Labor
			summary.Durations[i].Machine += op.Durations[i].Machine
			summary.Durations[i].Total += op.Durations[i].Total
		}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
