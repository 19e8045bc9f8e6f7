package repositories

import (
	"context"

	"github.com/vsinha/bomview/pkg/domain/entities"
)

// OperationRepository provides the routing operations of make methods
type OperationRepository interface {
	// GetOperations returns the operations of a make method ordered by
	// sequence. An unknown make method yields an empty slice, not an error.
	GetOperations(ctx context.Context, makeMethodID string) ([]entities.OperationRecord, error)
	LoadOperations(ops []entities.OperationRecord) error
}
