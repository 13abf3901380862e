package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateSelection_ChildSelectsParent(t *testing.T) {
	forest := []TreeNode{
		{Label: "Food", Children: []TreeNode{
			{Label: "Pizza", Selected: true},
			{Label: "Cake"},
		}},
		{Label: "Drinks", Children: []TreeNode{
			{Label: "Juice"},
		}},
	}

	PropagateSelection(forest)

	assert.True(t, forest[0].Selected)
	assert.False(t, forest[1].Selected)
}

func TestPropagateSelection_ReachesThroughGrandchildren(t *testing.T) {
	forest := []TreeNode{
		{Label: "Entertainment", Children: []TreeNode{
			{Label: "Music", Children: []TreeNode{
				{Label: "DJ", Selected: true},
			}},
		}},
	}

	PropagateSelection(forest)

	assert.True(t, forest[0].Selected)
	assert.True(t, forest[0].Children[0].Selected)
}

func TestNormalizePeopleRoots_FillsMissingAndReorders(t *testing.T) {
	generated := []TreeNode{
		{Label: "Drinks", Children: []TreeNode{{Label: "Juice"}}},
		{Label: "Decorations", Children: []TreeNode{{Label: "Balloons"}}},
		{Label: "Food", Children: []TreeNode{{Label: "Pizza"}}},
	}

	roots := NormalizePeopleRoots(generated)

	require.Len(t, roots, 4)
	assert.Equal(t, []string{"Food", "Drinks", "Entertainment", "Accommodation"}, rootLabels(roots))
	assert.Len(t, roots[0].Children, 1)
	assert.Len(t, roots[1].Children, 1)
	assert.Empty(t, roots[2].Children)
	assert.NotEmpty(t, roots[2].Emoji)
}

func TestCapPlaceRoots(t *testing.T) {
	generated := make([]TreeNode, 9)
	for i := range generated {
		generated[i].Label = string(rune('A' + i))
	}

	capped := CapPlaceRoots(generated)
	require.Len(t, capped, MaxPlaceRoots)
	assert.Equal(t, "A", capped[0].Label)

	short := CapPlaceRoots(generated[:2])
	assert.Len(t, short, 2)
}

func TestPruneSelected_KeepsOnlySelectedBranches(t *testing.T) {
	forest := []TreeNode{
		{Label: "Food", Selected: true, Children: []TreeNode{
			{Label: "Pizza", Selected: true},
			{Label: "Cake"},
		}},
		{Label: "Drinks"},
		{Label: "Venue", Children: []TreeNode{
			{Label: "Garden", Selected: true},
		}},
	}

	pruned := PruneSelected(forest)

	require.Len(t, pruned, 2)
	assert.Equal(t, "Food", pruned[0].Label)
	require.Len(t, pruned[0].Children, 1)
	assert.Equal(t, "Pizza", pruned[0].Children[0].Label)

	// An unselected parent with a selected child survives and is
	// marked selected in the pruned copy.
	assert.Equal(t, "Venue", pruned[1].Label)
	assert.True(t, pruned[1].Selected)
}

func rootLabels(nodes []TreeNode) []string {
	labels := make([]string, 0, len(nodes))
	for _, node := range nodes {
		labels = append(labels, node.Label)
	}
	return labels
}
