package services

import (
	"fmt"

	"github.com/vsinha/bomview/pkg/domain/entities"
)

// Unflatten rebuilds a tree from a pre-order list in which only levels are
// meaningful, as found in indented BOM files. The nodes in items are linked
// in place; their existing children are replaced. An empty list yields nil.
func Unflatten(items []entities.FlatTreeItem) (*entities.MethodNode, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if items[0].Level != 0 {
		return nil, fmt.Errorf("%w: first row must be at level 0, got %d", entities.ErrInvalidNode, items[0].Level)
	}

	// stack[l] is the most recent node at level l
	stack := make([]*entities.MethodNode, 0, 8)
	for i, item := range items {
		if item.Node == nil {
			return nil, fmt.Errorf("%w: row %d has no node", entities.ErrInvalidNode, i+1)
		}
		item.Node.Children = nil

		switch {
		case item.Level == 0 && i > 0:
			return nil, fmt.Errorf("%w: row %d starts a second root %s", entities.ErrInvalidNode, i+1, item.Node.Label())
		case item.Level < 0 || item.Level > len(stack):
			return nil, fmt.Errorf("%w: row %d jumps from level %d to %d", entities.ErrInvalidNode, i+1, len(stack)-1, item.Level)
		}

		stack = stack[:item.Level]
		if item.Level > 0 {
			parent := stack[item.Level-1]
			parent.Children = append(parent.Children, item.Node)
		}
		stack = append(stack, item.Node)
	}

	return stack[0], nil
}
