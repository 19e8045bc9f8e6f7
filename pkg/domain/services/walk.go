package services

import (
	"github.com/vsinha/bomview/pkg/domain/entities"
)

// NodeContext describes a node during a tree walk
type NodeContext struct {
	Node  *entities.MethodNode
	Level int
	// Ancestors from the root down to the immediate parent. The slice is
	// reused by the walker and must be copied if retained.
	Ancestors []*entities.MethodNode
}

// TreeVisitor receives every node of a method tree in pre-order
type TreeVisitor interface {
	// VisitNode returns false to skip the node's children
	VisitNode(nodeCtx NodeContext) (bool, error)
}

// TreeVisitorFunc adapts a plain function to TreeVisitor
type TreeVisitorFunc func(nodeCtx NodeContext) (bool, error)

// VisitNode calls f
func (f TreeVisitorFunc) VisitNode(nodeCtx NodeContext) (bool, error) {
	return f(nodeCtx)
}

// Walk visits root and its descendants depth first, parents before children,
// siblings in source order. A nil root is not visited.
func Walk(root *entities.MethodNode, visitor TreeVisitor) error {
	if root == nil {
		return nil
	}
	return walk(root, 0, make([]*entities.MethodNode, 0, 8), visitor)
}

func walk(node *entities.MethodNode, level int, ancestors []*entities.MethodNode, visitor TreeVisitor) error {
	descend, err := visitor.VisitNode(NodeContext{Node: node, Level: level, Ancestors: ancestors})
	if err != nil {
		return err
	}
	if !descend {
		return nil
	}

	ancestors = append(ancestors, node)
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if err := walk(child, level+1, ancestors, visitor); err != nil {
			return err
		}
	}
	return nil
}
