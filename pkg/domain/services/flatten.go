package services

import (
	"github.com/vsinha/bomview/pkg/domain/entities"
)

// Flatten turns a method tree into its pre-order list. Every occurrence of a
// node yields its own item, so repeated item ids are kept. A nil root yields an
// empty slice. The input tree is not modified.
func Flatten(root *entities.MethodNode) []entities.FlatTreeItem {
	items := make([]entities.FlatTreeItem, 0, countNodes(root))

	// lastAtLevel[l] is the index of the most recent item emitted at level l,
	// which in pre-order is the parent of any item emitted at level l+1.
	var lastAtLevel []int

	_ = Walk(root, TreeVisitorFunc(func(nodeCtx NodeContext) (bool, error) {
		parent := -1
		if nodeCtx.Level > 0 {
			parent = lastAtLevel[nodeCtx.Level-1]
		}

		index := len(items)
		items = append(items, entities.FlatTreeItem{
			Node:        nodeCtx.Node,
			Index:       index,
			Level:       nodeCtx.Level,
			ParentIndex: parent,
		})

		if nodeCtx.Level < len(lastAtLevel) {
			lastAtLevel[nodeCtx.Level] = index
			lastAtLevel = lastAtLevel[:nodeCtx.Level+1]
		} else {
			lastAtLevel = append(lastAtLevel, index)
		}
		return true, nil
	}))

	return items
}

func countNodes(root *entities.MethodNode) int {
	n := 0
	_ = Walk(root, TreeVisitorFunc(func(NodeContext) (bool, error) {
		n++
		return true, nil
	}))
	return n
}
