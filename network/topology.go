package network

import (
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
)

// Topology decides which of the currently reachable peers a node exchanges a
// broadcast message with. It performs no I/O: callers supply the membership
// roster and, per decision, a snapshot of reachable peers, and transmit to the
// returned identifiers themselves.
//
// Implementations must be safe for concurrent use. None of the selection
// methods fail: an empty membership, an empty peer snapshot or an unknown
// originator all yield an empty list.
type Topology interface {
	// UpdateMembership replaces the ordered membership roster. The position of an
	// identifier in the list is its canonical position in the topology. Calling it
	// with a list identical to the current one is a no-op.
	UpdateMembership(members flow.IdentifierList)

	// Rank returns the position of the local node in the membership. A node outside
	// the membership gets a random position on every call, which it can use as an
	// anchor into the topology for content it produced itself.
	Rank() int

	// SelectNodes returns the peers the local node forwards a broadcast to, for the
	// broadcast round rooted at virtualRoot. A node outside the membership only
	// selects peers when it is the originator of the broadcast.
	SelectNodes(peers flow.IdentifierSet, virtualRoot int, isOriginator bool) flow.IdentifierList

	// SelectNodesByIdentity is SelectNodes with the root given as the identity of
	// the originator of the broadcast.
	SelectNodesByIdentity(peers flow.IdentifierSet, originID flow.Identifier, isOriginator bool) flow.IdentifierList

	// SelectParent returns the upstream peers of the local node for the round rooted
	// at virtualRoot: the nearest reachable ancestor, or every reachable ancestor up
	// to the root when selectAll is set.
	SelectParent(peers flow.IdentifierSet, virtualRoot int, selectAll bool) flow.IdentifierList

	// SelectParentByIdentity is SelectParent (nearest ancestor only) with the root
	// given as the identity of the originator of the broadcast.
	SelectParentByIdentity(peers flow.IdentifierSet, originID flow.Identifier) flow.IdentifierList
}
