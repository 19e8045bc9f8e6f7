package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/bomview/pkg/domain/entities"
)

const (
	DefaultMaxDepth = 64
	DefaultMaxNodes = 50000
)

var (
	ErrTreeTooDeep  = errors.New("method tree too deep")
	ErrTreeTooLarge = errors.New("method tree too large")
	ErrCycle        = errors.New("method tree cycle detected")
)

// TreeValidator checks a method tree before it is flattened
type TreeValidator struct {
	MaxDepth int
	MaxNodes int
}

// NewTreeValidator creates a validator with the given bounds; non-positive
// bounds fall back to the defaults.
func NewTreeValidator(maxDepth, maxNodes int) *TreeValidator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &TreeValidator{MaxDepth: maxDepth, MaxNodes: maxNodes}
}

// ValidateTree walks the tree and returns the first problem found. A nil
// root is valid. Errors name the path to the offending node.
func (v *TreeValidator) ValidateTree(root *entities.MethodNode) error {
	count := 0
	return Walk(root, TreeVisitorFunc(func(nodeCtx NodeContext) (bool, error) {
		node := nodeCtx.Node
		count++

		if count > v.MaxNodes {
			return false, fmt.Errorf("%w: more than %d nodes", ErrTreeTooLarge, v.MaxNodes)
		}
		if nodeCtx.Level > v.MaxDepth {
			return false, fmt.Errorf("%w: %s is at level %d, limit is %d",
				ErrTreeTooDeep, pathString(nodeCtx.Ancestors, node), nodeCtx.Level, v.MaxDepth)
		}
		for _, ancestor := range nodeCtx.Ancestors {
			if ancestor == node {
				return false, fmt.Errorf("%w: %s", ErrCycle, pathString(nodeCtx.Ancestors, node))
			}
		}
		if err := node.Validate(); err != nil {
			return false, fmt.Errorf("%s: %w", pathString(nodeCtx.Ancestors, node), err)
		}
		for i, child := range node.Children {
			if child == nil {
				return false, fmt.Errorf("%s: %w: null child at position %d",
					pathString(nodeCtx.Ancestors, node), entities.ErrInvalidNode, i+1)
			}
		}
		return true, nil
	}))
}

// ValidateOperations validates every operation and returns the first error
func (v *TreeValidator) ValidateOperations(ops []entities.OperationRecord) error {
	for i := range ops {
		if err := ops[i].Validate(); err != nil {
			return fmt.Errorf("operation %d of make method %s: %w", ops[i].Order, ops[i].MakeMethodID, err)
		}
	}
	return nil
}

func pathString(ancestors []*entities.MethodNode, node *entities.MethodNode) string {
	parts := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		parts = append(parts, a.Label())
	}
	parts = append(parts, node.Label())
	return strings.Join(parts, " > ")
}
