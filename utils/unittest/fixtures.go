package unittest

import (
	crand "crypto/rand"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
)

func IdentifierFixture() flow.Identifier {
	var id flow.Identifier
	_, _ = crand.Read(id[:])
	return id
}

func IdentifierListFixture(n int) flow.IdentifierList {
	list := make(flow.IdentifierList, n)
	for i := 0; i < n; i++ {
		list[i] = IdentifierFixture()
	}
	return list
}

// PeerSetFixture returns a peer snapshot containing the members at the given
// positions of the list.
func PeerSetFixture(members flow.IdentifierList, indices ...int) flow.IdentifierSet {
	peers := make(flow.IdentifierSet, len(indices))
	for _, i := range indices {
		peers.Add(members[i])
	}
	return peers
}

// PeerSetExcept returns a peer snapshot containing every member of the list
// except the ones at the given positions.
func PeerSetExcept(members flow.IdentifierList, excluded ...int) flow.IdentifierSet {
	peers := flow.NewIdentifierSet(members...)
	for _, i := range excluded {
		peers.Remove(members[i])
	}
	return peers
}

// IndicesOf maps every identifier of ids to its position in members, -1 if absent.
func IndicesOf(members flow.IdentifierList, ids flow.IdentifierList) []int {
	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		indices = append(indices, members.Lookup(id))
	}
	return indices
}
