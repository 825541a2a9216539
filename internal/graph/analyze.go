package graph

import (
	"sort"

	"thinkgraph/internal/db"
)

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 5,
		TopN:         50,
	}
}

// EdgeTypeCount is one row of the edge type histogram
type EdgeTypeCount struct {
	EdgeType db.EdgeType `json:"edgeType"`
	Count    int         `json:"count"`
}

// Report is the full analysis of one session graph
type Report struct {
	NodeCount          int             `json:"nodeCount"`
	EdgeCount          int             `json:"edgeCount"`
	NodeTypes          map[string]int  `json:"nodeTypes"`
	Roots              []string        `json:"roots"`
	OrphanedForks      []string        `json:"orphanedForks"`
	MaxChainDepth      int             `json:"maxChainDepth"`
	AverageConfidence  *float64        `json:"averageConfidence"`
	DecisionPointCount int             `json:"decisionPointCount"`
	DecisionsPerNode   float64         `json:"decisionsPerNode"`
	EdgeTypes          []EdgeTypeCount `json:"edgeTypes"`
	Topology           *TopologyReport `json:"topology"`
	Bridges            *BridgeReport   `json:"bridges"`
}

// Analyze runs every analysis over snap.
//
// Roots are nodes with no incoming influences edge. An orphaned fork is a
// fork_branch node with no incoming edge of any type: a branch that lost
// its link to the reasoning it forked from.
func Analyze(snap *GraphSnapshot, config *AnalyzerConfig) *Report {
	if config == nil {
		config = DefaultConfig()
	}
	ids := snap.NodeIDs()
	influenced := make(map[string]bool)
	for _, e := range snap.EdgesOfType(db.EdgeInfluences) {
		influenced[e.Target] = true
	}

	report := &Report{
		NodeCount:     len(snap.Nodes),
		EdgeCount:     len(snap.Edges),
		NodeTypes:     make(map[string]int),
		Roots:         []string{},
		OrphanedForks: []string{},
		EdgeTypes:     edgeTypeHistogram(snap),
		Topology:      ComputeTopology(snap, config.HubThreshold, config.TopN),
		Bridges:       ComputeBridges(snap),
	}

	var confSum float64
	var confN int
	for _, id := range ids {
		n := snap.Nodes[id]
		report.NodeTypes[string(n.NodeType)]++
		report.DecisionPointCount += n.DecisionCount
		if n.Confidence != nil {
			confSum += *n.Confidence
			confN++
		}
		if !influenced[id] {
			report.Roots = append(report.Roots, id)
		}
		if n.NodeType == db.NodeForkBranch && len(snap.InAdj[id]) == 0 {
			report.OrphanedForks = append(report.OrphanedForks, id)
		}
	}
	if confN > 0 {
		avg := confSum / float64(confN)
		report.AverageConfidence = &avg
	}
	if len(ids) > 0 {
		report.DecisionsPerNode = float64(report.DecisionPointCount) / float64(len(ids))
	}
	report.MaxChainDepth = MaxChainDepth(snap)
	return report
}

// MaxChainDepth returns the number of nodes on the longest path of
// influences edges. Nodes on or downstream of an influences cycle are not
// counted.
func MaxChainDepth(snap *GraphSnapshot) int {
	out := make(map[string][]string)
	indegree := make(map[string]int, len(snap.Nodes))
	for _, e := range snap.EdgesOfType(db.EdgeInfluences) {
		if e.Source == e.Target {
			continue
		}
		out[e.Source] = append(out[e.Source], e.Target)
		indegree[e.Target]++
	}

	depth := make(map[string]int, len(snap.Nodes))
	var queue []string
	for _, id := range snap.NodeIDs() {
		if indegree[id] == 0 {
			queue = append(queue, id)
			depth[id] = 1
		}
	}

	best := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		best = max(best, depth[id])
		for _, next := range out[id] {
			depth[next] = max(depth[next], depth[id]+1)
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return best
}

func edgeTypeHistogram(snap *GraphSnapshot) []EdgeTypeCount {
	counts := make(map[db.EdgeType]int)
	for _, e := range snap.Edges {
		counts[e.EdgeType]++
	}
	out := make([]EdgeTypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, EdgeTypeCount{EdgeType: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EdgeType < out[j].EdgeType
	})
	return out
}
