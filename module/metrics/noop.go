package metrics

import (
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
)

type NoopCollector struct{}

var _ module.TopologyMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OnMembershipUpdated(size int, isMember bool)     {}
func (nc *NoopCollector) OnChildrenSelected(topology string, fanout int)  {}
func (nc *NoopCollector) OnParentsSelected(topology string, selected int) {}
func (nc *NoopCollector) OnFanoutCacheHit()                               {}
func (nc *NoopCollector) OnFanoutCacheMiss()                              {}
