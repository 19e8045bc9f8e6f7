package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomview/pkg/domain/entities"
	testhelpers "github.com/vsinha/bomview/pkg/infrastructure/testing"
)

func leveled(pairs ...any) []entities.FlatTreeItem {
	var items []entities.FlatTreeItem
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, entities.FlatTreeItem{
			Node:  &entities.MethodNode{ItemID: pairs[i].(string), Quantity: 1, MethodType: entities.MethodTypeBuy},
			Level: pairs[i+1].(int),
		})
	}
	return items
}

func TestUnflatten_InverseOfFlatten(t *testing.T) {
	rebuilt, err := Unflatten(leveled("A", 0, "B", 1, "D", 2, "C", 1))
	require.NoError(t, err)

	items := Flatten(rebuilt)
	assert.Equal(t, []string{"A", "B", "D", "C"}, itemIDs(items))
	assert.Equal(t, []int{0, 1, 2, 1}, levels(items))
}

func TestUnflatten_RoundTripsFixture(t *testing.T) {
	original := testhelpers.BuildBracketAssembly()

	// flatten a copy so the fixture's own child slices stay intact
	rebuilt, err := Unflatten(Flatten(testhelpers.BuildBracketAssembly()))
	require.NoError(t, err)
	assert.Equal(t, original, rebuilt)
}

func TestUnflatten_Empty(t *testing.T) {
	root, err := Unflatten(nil)
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestUnflatten_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		items []entities.FlatTreeItem
	}{
		{"first row not root", leveled("A", 1)},
		{"level jump", leveled("A", 0, "B", 2)},
		{"second root", leveled("A", 0, "B", 1, "C", 0)},
		{"negative level", leveled("A", 0, "B", -1)},
		{"missing node", []entities.FlatTreeItem{{Level: 0}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unflatten(tc.items)
			require.Error(t, err)
			assert.True(t, errors.Is(err, entities.ErrInvalidNode))
		})
	}
}
