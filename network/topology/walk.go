package topology

import (
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
)

// selectChildren appends to selected the nearest reachable descendants of the
// tree position at parentDistance. A reachable child is selected and its subtree
// is left to it; an unreachable child is skipped over by searching its own
// subtree instead. Siblings are visited in order, depth first.
//
// The recursion depth is bounded by log_width(nodeNum).
func (m *membership) selectChildren(selected flow.IdentifierList, peers flow.IdentifierSet, width int, parentDistance int, virtualRoot int) flow.IdentifierList {
	for i := 1; i <= width; i++ {
		childDistance := parentDistance*width + i
		if childDistance > m.endIndex {
			break
		}

		child := m.members[m.absoluteIndex(childDistance, virtualRoot)]
		if peers.Contains(child) {
			selected = append(selected, child)
		} else if childDistance < m.endIndex {
			selected = m.selectChildren(selected, peers, width, childDistance, virtualRoot)
		}

		// the last position of the tree, no further siblings
		if childDistance == m.endIndex {
			break
		}
	}
	return selected
}

// selectParents walks from the tree position at childDistance up to the root and
// returns the reachable ancestors, nearest first. Unless selectAll is set, the
// walk stops at the nearest reachable ancestor. The root has no ancestors.
func (m *membership) selectParents(peers flow.IdentifierSet, width int, childDistance int, virtualRoot int, selectAll bool) flow.IdentifierList {
	parentDistance := (childDistance - 1) / width
	if parentDistance == childDistance {
		return nil
	}

	var selected flow.IdentifierList
	for {
		parent := m.members[m.absoluteIndex(parentDistance, virtualRoot)]
		if peers.Contains(parent) {
			selected = append(selected, parent)
			if !selectAll {
				return selected
			}
		}

		if parentDistance <= 0 {
			return selected
		}
		parentDistance = (parentDistance - 1) / width
	}
}
