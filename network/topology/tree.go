package topology

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module/metrics"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/logging"
)

// TreeTopology arranges the membership as a complete k-ary tree, so that a
// broadcast reaches every member in O(log_k N) hops. The root of the tree is
// chosen per broadcast round (the virtual root, e.g. the originator of a block or
// a position rotated with the block height), which makes every member play a
// different tree position from round to round and spreads the forwarding load.
//
// Unreachable members are hopped over: a node forwards to the nearest reachable
// descendants of an unreachable child, and reports to the nearest reachable ancestor.
type TreeTopology struct {
	*tracker
	width int
}

var _ network.Topology = (*TreeTopology)(nil)

// NewTreeTopology returns a tree topology for the local node with the given
// branching factor. The membership is empty until UpdateMembership is called.
func NewTreeTopology(log zerolog.Logger, me flow.Identifier, width uint, opts ...Option) (*TreeTopology, error) {
	if width < 2 {
		return nil, fmt.Errorf("tree width must be at least 2, got %d", width)
	}

	log = log.With().
		Str("component", "tree_topology").
		Uint("width", width).
		Logger()

	return &TreeTopology{
		tracker: newTracker(log, me, opts...),
		width:   int(width),
	}, nil
}

// Width returns the branching factor of the tree.
func (t *TreeTopology) Width() int {
	return t.width
}

// SelectNodes returns the peers the local node forwards a broadcast to, for the
// round rooted at virtualRoot. A member forwards to its nearest reachable
// descendants in the tree. A node outside the membership forwards only when it is
// the originator: to the root itself if reachable, otherwise to the nearest
// reachable descendants of the tree position at distance virtualRoot.
func (t *TreeTopology) SelectNodes(peers flow.IdentifierSet, virtualRoot int, isOriginator bool) flow.IdentifierList {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.selectNodes(peers, virtualRoot, isOriginator)
}

// SelectNodesByIdentity is SelectNodes rooted at the position of originID. An
// originator outside the membership yields no peers.
func (t *TreeTopology) SelectNodesByIdentity(peers flow.IdentifierSet, originID flow.Identifier, isOriginator bool) flow.IdentifierList {
	t.mu.RLock()
	defer t.mu.RUnlock()

	root := t.rankOf(originID)
	if root < 0 {
		t.log.Debug().
			Hex("origin_id", logging.ID(originID)).
			Msg("originator is not a member, no peers selected")
		t.metrics.OnChildrenSelected(metrics.TopologyTree, 0)
		return nil
	}
	return t.selectNodes(peers, root, isOriginator)
}

// SelectParent returns the nearest reachable ancestor of the local node for the
// round rooted at virtualRoot, or every reachable ancestor up to the root when
// selectAll is set. The root and nodes outside the membership have no parent.
func (t *TreeTopology) SelectParent(peers flow.IdentifierSet, virtualRoot int, selectAll bool) flow.IdentifierList {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.selectParent(peers, virtualRoot, selectAll)
}

// SelectParentByIdentity is SelectParent rooted at the position of originID,
// selecting the nearest reachable ancestor only.
func (t *TreeTopology) SelectParentByIdentity(peers flow.IdentifierSet, originID flow.Identifier) flow.IdentifierList {
	t.mu.RLock()
	defer t.mu.RUnlock()

	root := t.rankOf(originID)
	if root < 0 {
		t.metrics.OnParentsSelected(metrics.TopologyTree, 0)
		return nil
	}
	return t.selectParent(peers, root, false)
}

// selectNodes must be called with the read lock held.
func (t *TreeTopology) selectNodes(peers flow.IdentifierSet, virtualRoot int, isOriginator bool) flow.IdentifierList {
	state := &t.state
	var selected flow.IdentifierList

	switch {
	case state.nodeNum == 0:
	case state.isMember():
		distance := state.distanceFromRoot(virtualRoot)
		selected = state.selectChildren(nil, peers, t.width, distance, virtualRoot)
	case isOriginator:
		// the originator is outside the tree, it hands the message to the root, or
		// searches the subtree at distance virtualRoot for reachable descendants
		root := state.normalizeRoot(virtualRoot)
		if peers.Contains(state.members[root]) {
			selected = flow.IdentifierList{state.members[root]}
		} else {
			selected = state.selectChildren(nil, peers, t.width, root, virtualRoot)
		}
	}

	t.metrics.OnChildrenSelected(metrics.TopologyTree, len(selected))
	if e := t.log.Trace(); e.Enabled() {
		e.Int("virtual_root", virtualRoot).
			Int("index", state.consIndex).
			Bool("is_originator", isOriginator).
			Int("peers", len(peers)).
			Strs("selected", logging.IDs(selected)).
			Msg("children selected")
	}
	return selected
}

// selectParent must be called with the read lock held.
func (t *TreeTopology) selectParent(peers flow.IdentifierSet, virtualRoot int, selectAll bool) flow.IdentifierList {
	state := &t.state
	var selected flow.IdentifierList

	if state.nodeNum > 0 && state.isMember() {
		distance := state.distanceFromRoot(virtualRoot)
		selected = state.selectParents(peers, t.width, distance, virtualRoot, selectAll)
	}

	t.metrics.OnParentsSelected(metrics.TopologyTree, len(selected))
	if e := t.log.Trace(); e.Enabled() {
		e.Int("virtual_root", virtualRoot).
			Int("index", state.consIndex).
			Bool("select_all", selectAll).
			Int("peers", len(peers)).
			Strs("selected", logging.IDs(selected)).
			Msg("parents selected")
	}
	return selected
}
