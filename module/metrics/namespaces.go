package metrics

// Prometheus metric namespaces
const (
	namespaceNetwork = "network"
)

// Network subsystems
const (
	subsystemTopology = "topology"
)
