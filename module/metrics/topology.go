package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
)

// TopologyCollector tracks the decisions of the broadcast topology.
type TopologyCollector struct {
	groupSize         prometheus.Gauge
	isMember          prometheus.Gauge
	membershipUpdates prometheus.Counter

	childrenFanout  *prometheus.HistogramVec
	parentsSelected *prometheus.HistogramVec
	emptyFanouts    *prometheus.CounterVec

	cacheLookups *prometheus.CounterVec
}

var _ module.TopologyMetrics = (*TopologyCollector)(nil)

// NewTopologyCollector creates the collector and registers its metrics on the given registerer.
func NewTopologyCollector(registrar prometheus.Registerer) *TopologyCollector {
	tc := &TopologyCollector{
		groupSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "group_size",
			Help:      "number of nodes in the current broadcast membership",
		}),
		isMember: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "is_member",
			Help:      "1 if the local node is part of the current broadcast membership, 0 otherwise",
		}),
		membershipUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "membership_updates_total",
			Help:      "number of times the broadcast membership has been replaced",
		}),
		childrenFanout: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "children_fanout",
			Help:      "number of peers selected for downstream forwarding",
			Buckets:   []float64{0, 1, 2, 3, 4, 8, 16, 32, 64},
		}, []string{LabelTopology}),
		parentsSelected: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "parents_selected",
			Help:      "number of peers selected for upstream reporting",
			Buckets:   []float64{0, 1, 2, 4, 8, 16},
		}, []string{LabelTopology}),
		emptyFanouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "empty_fanouts_total",
			Help:      "number of downstream selections that yielded no peers",
		}, []string{LabelTopology}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceNetwork,
			Subsystem: subsystemTopology,
			Name:      "fanout_cache_lookups_total",
			Help:      "number of fanout cache lookups by result",
		}, []string{LabelResult}),
	}

	registrar.MustRegister(
		tc.groupSize,
		tc.isMember,
		tc.membershipUpdates,
		tc.childrenFanout,
		tc.parentsSelected,
		tc.emptyFanouts,
		tc.cacheLookups,
	)

	return tc
}

func (tc *TopologyCollector) OnMembershipUpdated(size int, isMember bool) {
	tc.membershipUpdates.Inc()
	tc.groupSize.Set(float64(size))
	if isMember {
		tc.isMember.Set(1)
	} else {
		tc.isMember.Set(0)
	}
}

func (tc *TopologyCollector) OnChildrenSelected(topology string, fanout int) {
	tc.childrenFanout.WithLabelValues(topology).Observe(float64(fanout))
	if fanout == 0 {
		tc.emptyFanouts.WithLabelValues(topology).Inc()
	}
}

func (tc *TopologyCollector) OnParentsSelected(topology string, selected int) {
	tc.parentsSelected.WithLabelValues(topology).Observe(float64(selected))
}

func (tc *TopologyCollector) OnFanoutCacheHit() {
	tc.cacheLookups.WithLabelValues(ResultHit).Inc()
}

func (tc *TopologyCollector) OnFanoutCacheMiss() {
	tc.cacheLookups.WithLabelValues(ResultMiss).Inc()
}
