package db

import (
	"context"
	"fmt"
)

// DefaultMaxDepth bounds a traversal when the caller leaves MaxDepth unset.
const DefaultMaxDepth = 3

// maxChainLength stops chain reconstruction on corrupt, very deep lineages.
const maxChainLength = 10000

// queueEntry is one frontier node of the breadth-first walk.
type queueEntry struct {
	nodeID string
	depth  int
}

// TraverseReasoningGraph walks the graph breadth-first from startID and
// returns every node reached, the start node first. Each node is visited once
// no matter how many edges lead to it, so cycles terminate. A missing start
// node yields an empty result.
func (d *DB) TraverseReasoningGraph(ctx context.Context, startID string, opts TraverseOptions) ([]TraversedNode, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	dir := opts.Direction
	if dir == "" {
		dir = DirectionOutgoing
	}

	// Build allow set for fast lookup
	var allowSet map[EdgeType]bool
	if len(opts.EdgeTypes) > 0 {
		allowSet = make(map[EdgeType]bool, len(opts.EdgeTypes))
		for _, t := range opts.EdgeTypes {
			allowSet[t] = true
		}
	}

	start, err := d.GetThinkingNode(ctx, startID)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return []TraversedNode{}, nil
	}

	results := []TraversedNode{{Node: *start, Depth: 0}}
	visited := map[string]bool{startID: true}
	queue := []queueEntry{{nodeID: startID, depth: 0}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue[0]
		queue = queue[1:]

		// Stop expanding if max depth reached
		if current.depth >= maxDepth {
			continue
		}

		edges, err := d.GetEdgesForNode(ctx, current.nodeID, dir)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", current.nodeID, err)
		}

		for _, edge := range edges {
			if allowSet != nil && !allowSet[edge.EdgeType] {
				continue
			}

			neighbor := edge.TargetID
			if edge.TargetID == current.nodeID {
				neighbor = edge.SourceID
			}
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true

			node, err := d.GetThinkingNode(ctx, neighbor)
			if err != nil {
				return nil, err
			}
			if node == nil {
				continue
			}

			edgeType, edgeID, via := edge.EdgeType, edge.ID, current.nodeID
			results = append(results, TraversedNode{
				Node:     *node,
				Depth:    current.depth + 1,
				EdgeType: &edgeType,
				EdgeID:   &edgeID,
				ViaID:    &via,
			})
			queue = append(queue, queueEntry{nodeID: neighbor, depth: current.depth + 1})
		}
	}

	return results, nil
}

// GetReasoningChain reconstructs the lineage of targetID by following
// incoming influences edges back to a root. Nodes are returned root first
// with ChainPosition counting from 0. When a node has several incoming
// influences edges, the one matching the parent recorded at creation wins;
// otherwise the earliest edge is used.
func (d *DB) GetReasoningChain(ctx context.Context, targetID string) ([]ChainNode, error) {
	var reversed []ThinkingNode
	seen := map[string]bool{}

	current := targetID
	for current != "" && !seen[current] && len(reversed) < maxChainLength {
		seen[current] = true

		node, err := d.GetThinkingNode(ctx, current)
		if err != nil {
			return nil, err
		}
		if node == nil {
			break
		}
		reversed = append(reversed, *node)

		parent, err := d.chainParent(ctx, node)
		if err != nil {
			return nil, err
		}
		current = parent
	}

	chain := make([]ChainNode, len(reversed))
	for i := range reversed {
		chain[i] = ChainNode{Node: reversed[len(reversed)-1-i], ChainPosition: i}
	}
	return chain, nil
}

// chainParent picks the upstream node of n along influences edges, or ""
// when n is a root.
func (d *DB) chainParent(ctx context.Context, n *ThinkingNode) (string, error) {
	edges, err := d.GetEdgesForNode(ctx, n.ID, DirectionIncoming)
	if err != nil {
		return "", fmt.Errorf("loading parents of %s: %w", n.ID, err)
	}

	var earliest *ReasoningEdge
	for i := range edges {
		e := &edges[i]
		if e.EdgeType != EdgeInfluences {
			continue
		}
		if n.ParentNodeID != nil && e.SourceID == *n.ParentNodeID {
			return e.SourceID, nil
		}
		if earliest == nil || e.CreatedAt < earliest.CreatedAt {
			earliest = e
		}
	}
	if earliest == nil {
		return "", nil
	}
	return earliest.SourceID, nil
}

// GetSessionReasoningContext returns compact summaries of the most recent
// limit nodes of a session, newest first, with decision point counts.
func (d *DB) GetSessionReasoningContext(ctx context.Context, sessionID string, limit int) ([]NodeSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+nodeColumnsAs+`,
		       (SELECT COUNT(*) FROM decision_points dp WHERE dp.thinking_node_id = n.id)
		FROM thinking_nodes n
		WHERE n.session_id = ?
		ORDER BY n.created_at DESC, n.rowid DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []NodeSummary{}
	for rows.Next() {
		var count int
		n, err := scanNode(rows, &count)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, NodeSummary{
			ID:                 n.ID,
			ParentNodeID:       n.ParentNodeID,
			NodeType:           n.NodeType,
			ConfidenceScore:    n.ConfidenceScore,
			MainConclusion:     n.StructuredReasoning.MainConclusion,
			Excerpt:            excerpt(n.Reasoning, summaryExcerptLength),
			StepCount:          len(n.StructuredReasoning.Steps),
			DecisionPointCount: count,
			CreatedAt:          n.CreatedAt,
		})
	}
	return summaries, rows.Err()
}

const summaryExcerptLength = 280

// excerpt returns at most n runes of s, marking truncation with "...".
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
