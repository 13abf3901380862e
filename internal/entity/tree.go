package entity

// TreeNode is one node of the people or place taxonomy forest.
type TreeNode struct {
	Emoji    string     `json:"emoji"`
	Label    string     `json:"label"`
	Selected bool       `json:"selected"`
	Children []TreeNode `json:"children"`
}

// PeopleRootLabels is the fixed set of top-level people-tree
// categories. Tree generation may return fewer or differently ordered
// roots; NormalizePeopleRoots folds whatever came back under these.
var PeopleRootLabels = []string{"Food", "Drinks", "Entertainment", "Accommodation"}

var peopleRootEmojis = map[string]string{
	"Food":          "🍽️",
	"Drinks":        "🥤",
	"Entertainment": "🎉",
	"Accommodation": "🏨",
}

// MaxPlaceRoots caps the open-ended place-tree top level.
const MaxPlaceRoots = 6

// PropagateSelection marks a parent selected when any child is
// selected. Selection is maintained by explicit propagation after
// every mutation, never implicitly.
func PropagateSelection(nodes []TreeNode) {
	for i := range nodes {
		if len(nodes[i].Children) == 0 {
			continue
		}
		PropagateSelection(nodes[i].Children)
		for _, child := range nodes[i].Children {
			if child.Selected {
				nodes[i].Selected = true
				break
			}
		}
	}
}

// NormalizePeopleRoots reorders generated roots into the fixed
// four-category set, creating empty roots for categories the generator
// missed. Children of unrecognized roots are discarded.
func NormalizePeopleRoots(generated []TreeNode) []TreeNode {
	byLabel := map[string]TreeNode{}
	for _, node := range generated {
		byLabel[node.Label] = node
	}

	roots := make([]TreeNode, 0, len(PeopleRootLabels))
	for _, label := range PeopleRootLabels {
		if node, ok := byLabel[label]; ok {
			roots = append(roots, node)
			continue
		}
		roots = append(roots, TreeNode{Emoji: peopleRootEmojis[label], Label: label})
	}
	return roots
}

// CapPlaceRoots trims the place forest to MaxPlaceRoots top-level
// nodes, preserving generation order.
func CapPlaceRoots(generated []TreeNode) []TreeNode {
	if len(generated) <= MaxPlaceRoots {
		return generated
	}
	return generated[:MaxPlaceRoots]
}

// PruneSelected returns only selected nodes and their selected
// descendants; used when a tree is summarized for list generation.
func PruneSelected(nodes []TreeNode) []TreeNode {
	var pruned []TreeNode
	for _, node := range nodes {
		children := PruneSelected(node.Children)
		if node.Selected || len(children) > 0 {
			pruned = append(pruned, TreeNode{
				Emoji:    node.Emoji,
				Label:    node.Label,
				Selected: true,
				Children: children,
			})
		}
	}
	return pruned
}
