package topology

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module/metrics"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network/netconf"
)

// New builds the broadcast topology of the local node as configured: a tree
// topology, or a full topology when tree broadcast is disabled, wrapped in a
// fanout cache unless caching is disabled.
func New(log zerolog.Logger, me flow.Identifier, config *netconf.Config, collector module.TopologyMetrics) (network.Topology, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}

	var top network.Topology
	if config.TreeBroadcastEnabled {
		tree, err := NewTreeTopology(log, me, config.TreeWidth, WithMetrics(collector))
		if err != nil {
			return nil, fmt.Errorf("could not create tree topology: %w", err)
		}
		top = tree
	} else {
		top = NewFullTopology(log, me, WithMetrics(collector))
	}

	if config.FanoutCacheSize == 0 {
		return top, nil
	}

	cache, err := NewCache(log, top, config.FanoutCacheSize, collector)
	if err != nil {
		return nil, fmt.Errorf("could not create topology cache: %w", err)
	}
	return cache, nil
}
