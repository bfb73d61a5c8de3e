package metrics

const (
	LabelTopology = "topology"
	LabelResult   = "result"
)

const (
	TopologyTree = "tree"
	TopologyFull = "full"
)

const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)
