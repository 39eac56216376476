package chord

import (
	"cmp"
	"slices"
)

// Compare orders two leaves. Only leaves are compared; any pair involving
// an internal node is neutral. The branch is chosen by a's category: the
// reference category sorts ascending by partner category and own key,
// every other category descending by partner category and partner key.
// Keys are compared as concatenated strings.
func (o Options) Compare(a, b *HierarchyNode) int {
	if !a.IsLeaf() || !b.IsLeaf() {
		return 0
	}
	if a.Category == o.ReferenceCategory {
		return cmp.Compare(a.OtherCategory+a.Key, b.OtherCategory+b.Key)
	}
	return cmp.Compare(b.OtherCategory+b.OtherKey, a.OtherCategory+a.OtherKey)
}

// order sorts every maximal run of leaf siblings in the tree. Internal
// nodes keep their input order and split runs.
func order(root *HierarchyNode, opts Options) {
	root.eachBefore(func(n *HierarchyNode) {
		start := -1
		for i := 0; i <= len(n.Children); i++ {
			leaf := i < len(n.Children) && n.Children[i].IsLeaf()
			switch {
			case leaf && start < 0:
				start = i
			case !leaf && start >= 0:
				slices.SortStableFunc(n.Children[start:i], opts.Compare)
				start = -1
			}
		}
	})
}
