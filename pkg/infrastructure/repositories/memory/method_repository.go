package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/repositories"
)

// MethodRepository provides in-memory method tree storage keyed by root item id
type MethodRepository struct {
	mu      sync.RWMutex
	trees   map[string]*entities.MethodNode
	itemIDs []string
}

// NewMethodRepository creates a new in-memory method repository
func NewMethodRepository(expectedTrees int) *MethodRepository {
	return &MethodRepository{
		trees:   make(map[string]*entities.MethodNode, expectedTrees),
		itemIDs: make([]string, 0, expectedTrees),
	}
}

// Verify interface compliance
var _ repositories.MethodRepository = (*MethodRepository)(nil)

// LoadMethodTrees loads several trees into the repository
func (r *MethodRepository) LoadMethodTrees(roots []*entities.MethodNode) error {
	for _, root := range roots {
		if err := r.SaveMethodTree(context.Background(), root); err != nil {
			return err
		}
	}
	return nil
}

// SaveMethodTree stores a copy of the tree under its root item id, replacing
// any tree previously stored for that item.
func (r *MethodRepository) SaveMethodTree(_ context.Context, root *entities.MethodNode) error {
	if root == nil {
		return fmt.Errorf("cannot save nil method tree")
	}
	if root.ItemID == "" {
		return fmt.Errorf("method tree root must have an item id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.trees[root.ItemID]; !exists {
		r.itemIDs = append(r.itemIDs, root.ItemID)
	}
	r.trees[root.ItemID] = cloneTree(root)
	return nil
}

// GetMethodTree returns the tree rooted at itemID
func (r *MethodRepository) GetMethodTree(_ context.Context, itemID string) (*entities.MethodNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root, exists := r.trees[itemID]
	if !exists {
		return nil, fmt.Errorf("method tree for item %s: %w", itemID, repositories.ErrNotFound)
	}
	return root, nil
}

// ListItemIDs returns root item ids in insertion order
func (r *MethodRepository) ListItemIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.itemIDs))
	copy(ids, r.itemIDs)
	return ids, nil
}

func cloneTree(node *entities.MethodNode) *entities.MethodNode {
	if node == nil {
		return nil
	}
	clone := *node
	if len(node.Children) > 0 {
		clone.Children = make([]*entities.MethodNode, 0, len(node.Children))
		for _, child := range node.Children {
			clone.Children = append(clone.Children, cloneTree(child))
		}
	}
	return &clone
}
