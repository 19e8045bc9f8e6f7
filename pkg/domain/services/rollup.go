package services

import (
	"github.com/vsinha/bomview/pkg/domain/entities"
)

// CalculateTotalQuantity returns the quantity of items[index] needed for one
// unit of the root: the product of per-parent quantities along the root path.
// Ancestors are found by scanning backwards for the nearest preceding item at
// each shallower level, so only the levels of the list are relied upon.
func CalculateTotalQuantity(index int, items []entities.FlatTreeItem) float64 {
	if index < 0 || index >= len(items) {
		return 0
	}

	node := items[index]
	path := make([]float64, 0, node.Level+1)
	path = append(path, node.Node.Quantity)
	want := node.Level - 1

	for i := index - 1; i >= 0 && want >= 0; i-- {
		if items[i].Level == want {
			path = append(path, items[i].Node.Quantity)
			want--
		}
	}

	// multiply root first so the result matches RollupQuantities bit for bit
	total := path[len(path)-1]
	for i := len(path) - 2; i >= 0; i-- {
		total *= path[i]
	}
	return total
}

// RollupQuantities computes CalculateTotalQuantity for every item in one pass
// using the parent links recorded by Flatten.
func RollupQuantities(items []entities.FlatTreeItem) []float64 {
	totals := make([]float64, len(items))
	for i, item := range items {
		if item.ParentIndex < 0 || item.ParentIndex >= i {
			totals[i] = item.Node.Quantity
			continue
		}
		totals[i] = totals[item.ParentIndex] * item.Node.Quantity
	}
	return totals
}
