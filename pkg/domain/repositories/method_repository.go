package repositories

import (
	"context"

	"github.com/vsinha/bomview/pkg/domain/entities"
)

// MethodRepository provides access to method trees keyed by root item
type MethodRepository interface {
	// GetMethodTree returns the tree rooted at itemID. Implementations return
	// a tree the caller may read but must not modify.
	GetMethodTree(ctx context.Context, itemID string) (*entities.MethodNode, error)
	ListItemIDs(ctx context.Context) ([]string, error)
	SaveMethodTree(ctx context.Context, root *entities.MethodNode) error
}
