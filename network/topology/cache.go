package topology

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module/metrics"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/logging"
)

type queryKind uint8

const (
	queryNodes queryKind = iota
	queryNodesByIdentity
	queryParent
	queryParentByIdentity
)

// fanoutKey identifies a topology decision. Decisions are deterministic given the
// membership (captured by epoch), the query arguments and the peer snapshot
// (captured by its fingerprint).
type fanoutKey struct {
	kind   queryKind
	epoch  uint64
	root   int
	origin flow.Identifier
	flag   bool
	peers  flow.Identifier
}

// Cache memoises the most recent decisions of an underlying topology.
// It implements the same interface as a normal topology, so can easily replace any topology implementation.
// As long as the membership and the peer snapshot are the same, a cached decision is returned without
// invoking the underlying topology. Replacing the membership with a different list invalidates the cache.
//
// Cache is safe for concurrent use. Returned lists are copies and may be modified by the caller.
type Cache struct {
	log     zerolog.Logger
	top     network.Topology
	metrics module.TopologyMetrics

	mu          sync.Mutex      // serializes membership updates
	fingerprint flow.Identifier // fingerprint of the membership the cached decisions were made for
	epoch       *atomic.Uint64  // incremented after every effective membership change
	fanouts     *lru.Cache[fanoutKey, flow.IdentifierList]
}

var _ network.Topology = (*Cache)(nil)

// NewCache creates and returns a topology Cache holding up to size decisions of the given topology.
func NewCache(log zerolog.Logger, top network.Topology, size uint32, collector module.TopologyMetrics) (*Cache, error) {
	fanouts, err := lru.New[fanoutKey, flow.IdentifierList](int(size))
	if err != nil {
		return nil, fmt.Errorf("could not create fanout cache: %w", err)
	}
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}

	return &Cache{
		log:     log.With().Str("component", "topology_cache").Logger(),
		top:     top,
		metrics: collector,
		epoch:   atomic.NewUint64(0),
		fanouts: fanouts,
	}, nil
}

// UpdateMembership forwards the membership to the underlying topology and
// invalidates the cache if the membership changed.
func (c *Cache) UpdateMembership(members flow.IdentifierList) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fingerprint := members.Fingerprint()
	c.top.UpdateMembership(members)
	if fingerprint == c.fingerprint {
		return
	}

	// the epoch moves only after the underlying topology is updated, so a decision
	// made against the old membership can never be stored under the new epoch.
	c.fingerprint = fingerprint
	c.epoch.Inc()
	c.fanouts.Purge()

	c.log.Debug().
		Hex("fingerprint", logging.ID(fingerprint)).
		Uint64("epoch", c.epoch.Load()).
		Msg("topology cache invalidated")
}

// Rank is not cached, as it is randomized for nodes outside the membership.
func (c *Cache) Rank() int {
	return c.top.Rank()
}

func (c *Cache) SelectNodes(peers flow.IdentifierSet, virtualRoot int, isOriginator bool) flow.IdentifierList {
	key := fanoutKey{kind: queryNodes, root: virtualRoot, flag: isOriginator}
	return c.lookup(key, peers, func() flow.IdentifierList {
		return c.top.SelectNodes(peers, virtualRoot, isOriginator)
	})
}

func (c *Cache) SelectNodesByIdentity(peers flow.IdentifierSet, originID flow.Identifier, isOriginator bool) flow.IdentifierList {
	key := fanoutKey{kind: queryNodesByIdentity, origin: originID, flag: isOriginator}
	return c.lookup(key, peers, func() flow.IdentifierList {
		return c.top.SelectNodesByIdentity(peers, originID, isOriginator)
	})
}

func (c *Cache) SelectParent(peers flow.IdentifierSet, virtualRoot int, selectAll bool) flow.IdentifierList {
	key := fanoutKey{kind: queryParent, root: virtualRoot, flag: selectAll}
	return c.lookup(key, peers, func() flow.IdentifierList {
		return c.top.SelectParent(peers, virtualRoot, selectAll)
	})
}

func (c *Cache) SelectParentByIdentity(peers flow.IdentifierSet, originID flow.Identifier) flow.IdentifierList {
	key := fanoutKey{kind: queryParentByIdentity, origin: originID}
	return c.lookup(key, peers, func() flow.IdentifierList {
		return c.top.SelectParentByIdentity(peers, originID)
	})
}

// Len returns the number of cached decisions.
func (c *Cache) Len() int {
	return c.fanouts.Len()
}

func (c *Cache) lookup(key fanoutKey, peers flow.IdentifierSet, compute func() flow.IdentifierList) flow.IdentifierList {
	key.epoch = c.epoch.Load()
	key.peers = peers.Fingerprint()

	if cached, ok := c.fanouts.Get(key); ok {
		c.metrics.OnFanoutCacheHit()
		return cached.Copy()
	}

	c.metrics.OnFanoutCacheMiss()
	selected := compute()
	c.fanouts.Add(key, selected.Copy())

	c.log.Trace().
		Uint64("epoch", key.epoch).
		Hex("peers_fingerprint", logging.ID(key.peers)).
		Int("selected", len(selected)).
		Msg("topology cache populated")

	return selected
}
