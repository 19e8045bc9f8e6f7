package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomview/pkg/domain/entities"
	testhelpers "github.com/vsinha/bomview/pkg/infrastructure/testing"
)

func TestCalculateTotalQuantity_SimpleTree(t *testing.T) {
	items := Flatten(testhelpers.BuildSimpleTree())

	expected := map[string]float64{"A": 1, "B": 2, "D": 8, "C": 3}
	for i, item := range items {
		assert.Equal(t, expected[item.Node.ItemID], CalculateTotalQuantity(i, items), item.Node.ItemID)
	}
}

func TestCalculateTotalQuantity_RootUsesOwnQuantity(t *testing.T) {
	items := Flatten(&entities.MethodNode{ItemID: "R", Quantity: 5})
	assert.Equal(t, 5.0, CalculateTotalQuantity(0, items))
}

func TestCalculateTotalQuantity_OutOfRange(t *testing.T) {
	items := Flatten(testhelpers.BuildSimpleTree())
	assert.Equal(t, 0.0, CalculateTotalQuantity(-1, items))
	assert.Equal(t, 0.0, CalculateTotalQuantity(len(items), items))
}

func TestCalculateTotalQuantity_RepeatedItemsDifferByPath(t *testing.T) {
	items := Flatten(testhelpers.BuildBracketAssembly())

	var screwTotals []float64
	for i, item := range items {
		if item.Node.ItemID == "item-screw" {
			screwTotals = append(screwTotals, CalculateTotalQuantity(i, items))
		}
	}
	assert.Equal(t, []float64{4, 6}, screwTotals)
}

func TestRollupQuantities_MatchesBackwardScan(t *testing.T) {
	for _, root := range []*entities.MethodNode{
		testhelpers.BuildSimpleTree(),
		testhelpers.BuildBracketAssembly(),
	} {
		items := Flatten(root)
		totals := RollupQuantities(items)
		require.Len(t, totals, len(items))
		for i := range items {
			assert.Equal(t, CalculateTotalQuantity(i, items), totals[i], "index %d", i)
		}
	}
}

func TestRollupQuantities_FractionalQuantities(t *testing.T) {
	items := Flatten(testhelpers.BuildBracketAssembly())
	totals := RollupQuantities(items)

	// sheet is 0.25 per bracket, 2 brackets per mount
	assert.InDelta(t, 0.5, totals[2], 1e-12)
}

func TestRollupQuantities_Empty(t *testing.T) {
	assert.Empty(t, RollupQuantities(nil))
}

func TestCalculateTotalQuantity_Idempotent(t *testing.T) {
	items := Flatten(testhelpers.BuildSimpleTree())
	first := CalculateTotalQuantity(2, items)
	second := CalculateTotalQuantity(2, items)
	assert.Equal(t, first, second)
	assert.Equal(t, 4.0, items[2].Node.Quantity)
}
