package graph

import "thinkgraph/internal/db"

// PivotNode is a node whose removal splits the reasoning graph
type PivotNode struct {
	ID       string      `json:"id"`
	NodeType db.NodeType `json:"nodeType"`
	Degree   int         `json:"degree"`
}

// BridgeEdge is an edge whose removal splits the reasoning graph
type BridgeEdge struct {
	SourceID string      `json:"sourceId"`
	TargetID string      `json:"targetId"`
	EdgeType db.EdgeType `json:"edgeType"`
}

// BridgeReport lists the single points of failure in a session graph
type BridgeReport struct {
	Pivots  []PivotNode  `json:"pivots"`
	Bridges []BridgeEdge `json:"bridges"`
}

// ComputeBridges finds articulation points and bridge edges with an
// iterative Tarjan walk over the undirected graph. Parallel edges between
// the same pair share one adjacency entry, and a pair joined more than once
// is never a bridge.
func ComputeBridges(snap *GraphSnapshot) *BridgeReport {
	report := &BridgeReport{Pivots: []PivotNode{}, Bridges: []BridgeEdge{}}
	if len(snap.Nodes) == 0 {
		return report
	}

	ids := snap.NodeIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	type pair struct{ u, v int }
	adj := make([][]int, len(ids))
	multiplicity := make(map[pair]int)
	first := make(map[pair]EdgeInfo)
	for _, e := range snap.Edges {
		u, v := index[e.Source], index[e.Target]
		if u == v {
			continue
		}
		key := pair{min(u, v), max(u, v)}
		if multiplicity[key] == 0 {
			adj[u] = append(adj[u], v)
			adj[v] = append(adj[v], u)
			first[key] = e
		}
		multiplicity[key]++
	}

	disc := make([]int, len(ids))
	low := make([]int, len(ids))
	pivot := make([]bool, len(ids))
	var bridges []pair
	clock := 0

	type frame struct{ node, parent, next int }

	for root := range ids {
		if disc[root] != 0 {
			continue
		}
		clock++
		disc[root], low[root] = clock, clock
		stack := []frame{{node: root, parent: -1}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(adj[top.node]) {
				child := adj[top.node][top.next]
				top.next++
				switch {
				case child == top.parent:
				case disc[child] != 0:
					low[top.node] = min(low[top.node], disc[child])
				default:
					clock++
					disc[child], low[child] = clock, clock
					if top.node == root {
						rootChildren++
					}
					stack = append(stack, frame{node: child, parent: top.node})
				}
				continue
			}

			done := top.node
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			up := stack[len(stack)-1].node
			low[up] = min(low[up], low[done])
			if low[done] > disc[up] {
				key := pair{min(up, done), max(up, done)}
				if multiplicity[key] == 1 {
					bridges = append(bridges, pair{up, done})
				}
			}
			if up != root && low[done] >= disc[up] {
				pivot[up] = true
			}
		}
		if rootChildren >= 2 {
			pivot[root] = true
		}
	}

	for i, id := range ids {
		if pivot[i] {
			report.Pivots = append(report.Pivots, PivotNode{
				ID:       id,
				NodeType: snap.Nodes[id].NodeType,
				Degree:   len(adj[i]),
			})
		}
	}
	for _, b := range bridges {
		e := first[pair{min(b.u, b.v), max(b.u, b.v)}]
		report.Bridges = append(report.Bridges, BridgeEdge{
			SourceID: e.Source,
			TargetID: e.Target,
			EdgeType: e.EdgeType,
		})
	}
	return report
}
