package topology

import (
	"github.com/stretchr/testify/require"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/rand"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/unittest"
)

// indexedIdentifiers returns n distinct identifiers derived from their position,
// so that property test failures are reproducible.
func indexedIdentifiers(n int) flow.IdentifierList {
	ids := make(flow.IdentifierList, n)
	for i := range ids {
		ids[i][0] = 0xfb
		ids[i][1] = byte(i)
		ids[i][2] = byte(i >> 8)
	}
	return ids
}

// treeFixture returns a tree topology of the member at selfIndex, with the given membership installed.
func treeFixture(t require.TestingT, members flow.IdentifierList, selfIndex int, width uint) *TreeTopology {
	tree, err := NewTreeTopology(unittest.Logger(), members[selfIndex], width, WithAnchorSource(rand.NewSeeded(1)))
	require.NoError(t, err)
	tree.UpdateMembership(members)
	return tree
}

// outsiderTreeFixture returns a tree topology of a node that is not part of the membership.
func outsiderTreeFixture(t require.TestingT, members flow.IdentifierList, width uint) *TreeTopology {
	tree, err := NewTreeTopology(unittest.Logger(), unittest.IdentifierFixture(), width, WithAnchorSource(rand.NewSeeded(1)))
	require.NoError(t, err)
	tree.UpdateMembership(members)
	return tree
}

// requireIndices asserts that selected resolves to exactly the given membership positions, in order.
func requireIndices(t require.TestingT, members flow.IdentifierList, selected flow.IdentifierList, expected ...int) {
	if len(expected) == 0 {
		require.Empty(t, selected)
		return
	}
	require.Equal(t, expected, unittest.IndicesOf(members, selected))
}
