package topology

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module/metrics"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/logging"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/rand"
)

// NotMember is the rank of a node that is not part of the membership.
const NotMember = -1

// membership is an immutable snapshot of the ordered membership list together
// with the values derived from it. It is replaced as a whole on every update.
type membership struct {
	members    flow.IdentifierList
	nodeNum    int
	consIndex  int // position of the local node in members, or NotMember
	startIndex int
	endIndex   int
}

func newMembership(me flow.Identifier, members flow.IdentifierList) membership {
	nodeNum := len(members)
	return membership{
		members:    members.Copy(),
		nodeNum:    nodeNum,
		consIndex:  members.Lookup(me),
		startIndex: 0,
		endIndex:   nodeNum - 1,
	}
}

func (m *membership) isMember() bool {
	return m.consIndex >= 0
}

// Option configures a topology.
type Option func(*tracker)

// WithMetrics sets the metrics collector of the topology.
func WithMetrics(collector module.TopologyMetrics) Option {
	return func(t *tracker) {
		t.metrics = collector
	}
}

// WithAnchorSource sets the randomness used by Rank for nodes outside the membership.
func WithAnchorSource(src rand.Source) Option {
	return func(t *tracker) {
		t.anchors = src
	}
}

// tracker holds the membership of a topology behind a single lock. Writers
// replace the whole snapshot under the write lock; readers hold the read lock
// for the full duration of a routing decision, so every decision is made
// against exactly one membership snapshot.
//
// The membership is expected to be free of duplicates and in the canonical
// order agreed on by the consensus participants. Neither is checked.
type tracker struct {
	log     zerolog.Logger
	metrics module.TopologyMetrics
	me      flow.Identifier
	anchors rand.Source

	mu    sync.RWMutex
	state membership
}

func newTracker(log zerolog.Logger, me flow.Identifier, opts ...Option) *tracker {
	t := &tracker{
		log:     log,
		metrics: metrics.NewNoopCollector(),
		me:      me,
		anchors: rand.NewTimeSeeded(),
		state:   newMembership(me, nil),
	}
	for _, apply := range opts {
		apply(t)
	}
	return t
}

// UpdateMembership replaces the membership list. A list identical to the current
// one (same length, order and content) leaves the topology untouched.
func (t *tracker) UpdateMembership(members flow.IdentifierList) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.members.Equal(members) {
		t.log.Trace().
			Int("size", len(members)).
			Msg("membership unchanged, skipping update")
		return
	}

	t.state = newMembership(t.me, members)

	t.metrics.OnMembershipUpdated(t.state.nodeNum, t.state.isMember())
	t.log.Info().
		Int("size", t.state.nodeNum).
		Int("index", t.state.consIndex).
		Bool("is_member", t.state.isMember()).
		Hex("fingerprint", logging.ID(t.state.members.Fingerprint())).
		Msg("membership updated")
}

// Rank returns the position of the local node in the membership. A node outside
// the membership gets a fresh uniformly random position in [0, size) on every
// call, so that it can still pick an entry point into the topology. With an empty
// membership it returns NotMember.
func (t *tracker) Rank() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.state.nodeNum == 0 {
		return NotMember
	}
	if t.state.isMember() {
		return t.state.consIndex
	}

	anchor, err := t.anchors.Uintn(uint(t.state.nodeNum))
	if err != nil {
		// only fails for an empty range, which is excluded above
		t.log.Error().Err(err).Msg("could not pick anchor position")
		return 0
	}
	return int(anchor)
}

// Index returns the position of the local node in the membership, or NotMember.
func (t *tracker) Index() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.consIndex
}

// IsMember returns whether the local node is part of the membership.
func (t *tracker) IsMember() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.isMember()
}

// Size returns the number of nodes in the membership.
func (t *tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.nodeNum
}

// Members returns a copy of the membership list.
func (t *tracker) Members() flow.IdentifierList {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.members.Copy()
}

// Me returns the identifier of the local node.
func (t *tracker) Me() flow.Identifier {
	return t.me
}

// rankOf returns the position of the given node in the membership, or -1.
// Must be called with the lock held.
func (t *tracker) rankOf(id flow.Identifier) int {
	return t.state.members.Lookup(id)
}
