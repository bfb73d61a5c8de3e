package module

// TopologyMetrics encapsulates the metrics collectors of the broadcast topology
// of the networking layer.
type TopologyMetrics interface {
	// OnMembershipUpdated tracks a replacement of the membership list, with the new
	// group size and whether the local node is part of the new membership.
	OnMembershipUpdated(size int, isMember bool)

	// OnChildrenSelected tracks a downstream fanout decision and the number of selected peers.
	OnChildrenSelected(topology string, fanout int)

	// OnParentsSelected tracks an upstream selection decision and the number of selected peers.
	OnParentsSelected(topology string, selected int)

	// OnFanoutCacheHit tracks a topology query answered from the fanout cache.
	OnFanoutCacheHit()

	// OnFanoutCacheMiss tracks a topology query that had to be computed.
	OnFanoutCacheMiss()
}
