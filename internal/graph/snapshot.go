// Package graph analyzes the shape of one session's reasoning graph over an
// in-memory snapshot.
package graph

import (
	"sort"

	"thinkgraph/internal/db"
)

// NodeInfo is a lightweight node representation decoupled from row types
type NodeInfo struct {
	ID            string
	NodeType      db.NodeType
	ParentID      *string
	Confidence    *float64
	DecisionCount int
	CreatedAt     int64
}

// EdgeInfo is a lightweight edge representation
type EdgeInfo struct {
	ID        string
	Source    string
	Target    string
	EdgeType  db.EdgeType
	Weight    float64
	CreatedAt int64
}

// GraphSnapshot holds a graph with precomputed adjacency lists. Edges with
// an endpoint outside the node set are dropped.
type GraphSnapshot struct {
	Nodes  map[string]*NodeInfo
	Edges  []EdgeInfo
	Adj    map[string][]string // undirected
	OutAdj map[string][]string // directed: source -> targets
	InAdj  map[string][]string // directed: target -> sources
}

// NewSnapshot builds a GraphSnapshot from raw nodes and edges
func NewSnapshot(nodes []*NodeInfo, edges []EdgeInfo) *GraphSnapshot {
	snap := &GraphSnapshot{
		Nodes:  make(map[string]*NodeInfo, len(nodes)),
		Edges:  make([]EdgeInfo, 0, len(edges)),
		Adj:    make(map[string][]string, len(nodes)),
		OutAdj: make(map[string][]string, len(nodes)),
		InAdj:  make(map[string][]string, len(nodes)),
	}
	for _, n := range nodes {
		snap.Nodes[n.ID] = n
		snap.Adj[n.ID] = nil
		snap.OutAdj[n.ID] = nil
		snap.InAdj[n.ID] = nil
	}

	for _, e := range edges {
		if !snap.Has(e.Source) || !snap.Has(e.Target) {
			continue
		}
		snap.Edges = append(snap.Edges, e)
		snap.Adj[e.Source] = append(snap.Adj[e.Source], e.Target)
		snap.Adj[e.Target] = append(snap.Adj[e.Target], e.Source)
		snap.OutAdj[e.Source] = append(snap.OutAdj[e.Source], e.Target)
		snap.InAdj[e.Target] = append(snap.InAdj[e.Target], e.Source)
	}
	return snap
}

// Has reports whether id is a node of the snapshot.
func (s *GraphSnapshot) Has(id string) bool {
	_, ok := s.Nodes[id]
	return ok
}

// NodeIDs returns a sorted list of all node IDs (for deterministic output)
func (s *GraphSnapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgesOfType returns the edges with type t in snapshot order.
func (s *GraphSnapshot) EdgesOfType(t db.EdgeType) []EdgeInfo {
	var out []EdgeInfo
	for _, e := range s.Edges {
		if e.EdgeType == t {
			out = append(out, e)
		}
	}
	return out
}
