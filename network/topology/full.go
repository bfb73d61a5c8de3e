package topology

import (
	"github.com/rs/zerolog"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module/metrics"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/logging"
)

// FullTopology forwards every broadcast to all reachable members, i.e. a star
// rooted at every sender. It is used when tree broadcast is disabled.
type FullTopology struct {
	*tracker
}

var _ network.Topology = (*FullTopology)(nil)

func NewFullTopology(log zerolog.Logger, me flow.Identifier, opts ...Option) *FullTopology {
	log = log.With().Str("component", "full_topology").Logger()
	return &FullTopology{
		tracker: newTracker(log, me, opts...),
	}
}

// SelectNodes returns every reachable member except the local node. A node
// outside the membership only selects peers when it is the originator.
func (f *FullTopology) SelectNodes(peers flow.IdentifierSet, _ int, isOriginator bool) flow.IdentifierList {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.selectNodes(peers, isOriginator)
}

func (f *FullTopology) SelectNodesByIdentity(peers flow.IdentifierSet, originID flow.Identifier, isOriginator bool) flow.IdentifierList {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.rankOf(originID) < 0 {
		f.metrics.OnChildrenSelected(metrics.TopologyFull, 0)
		return nil
	}
	return f.selectNodes(peers, isOriginator)
}

// SelectParent returns the member at the virtual root if it is reachable. In a
// star every node hears from the root directly, so selectAll has no effect.
func (f *FullTopology) SelectParent(peers flow.IdentifierSet, virtualRoot int, _ bool) flow.IdentifierList {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.selectParent(peers, virtualRoot)
}

func (f *FullTopology) SelectParentByIdentity(peers flow.IdentifierSet, originID flow.Identifier) flow.IdentifierList {
	f.mu.RLock()
	defer f.mu.RUnlock()

	root := f.rankOf(originID)
	if root < 0 {
		f.metrics.OnParentsSelected(metrics.TopologyFull, 0)
		return nil
	}
	return f.selectParent(peers, root)
}

func (f *FullTopology) selectNodes(peers flow.IdentifierSet, isOriginator bool) flow.IdentifierList {
	var selected flow.IdentifierList
	if f.state.isMember() || isOriginator {
		selected = f.state.members.Filter(func(id flow.Identifier) bool {
			return id != f.me && peers.Contains(id)
		})
	}

	f.metrics.OnChildrenSelected(metrics.TopologyFull, len(selected))
	if e := f.log.Trace(); e.Enabled() {
		e.Bool("is_originator", isOriginator).
			Int("peers", len(peers)).
			Strs("selected", logging.IDs(selected)).
			Msg("children selected")
	}
	return selected
}

func (f *FullTopology) selectParent(peers flow.IdentifierSet, virtualRoot int) flow.IdentifierList {
	var selected flow.IdentifierList
	if f.state.nodeNum > 0 && f.state.isMember() {
		root := f.state.normalizeRoot(virtualRoot)
		if root != f.state.consIndex && peers.Contains(f.state.members[root]) {
			selected = flow.IdentifierList{f.state.members[root]}
		}
	}

	f.metrics.OnParentsSelected(metrics.TopologyFull, len(selected))
	return selected
}
