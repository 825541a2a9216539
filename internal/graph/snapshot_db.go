package graph

import (
	"context"
	"fmt"

	"thinkgraph/internal/db"
)

// Source is the read surface a snapshot is loaded from. *db.DB implements it.
type Source interface {
	GetSessionThinkingNodes(ctx context.Context, sessionID string, opts db.PageOptions) ([]db.ThinkingNode, error)
	GetSessionEdges(ctx context.Context, sessionID string) ([]db.ReasoningEdge, error)
	CountDecisionPoints(ctx context.Context, sessionID string) (map[string]int, error)
}

// Load builds a snapshot of every node and edge in a session.
func Load(ctx context.Context, src Source, sessionID string) (*GraphSnapshot, error) {
	dbNodes, err := src.GetSessionThinkingNodes(ctx, sessionID, db.PageOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading session nodes: %w", err)
	}
	dbEdges, err := src.GetSessionEdges(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session edges: %w", err)
	}
	counts, err := src.CountDecisionPoints(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("counting decision points: %w", err)
	}

	nodes := make([]*NodeInfo, 0, len(dbNodes))
	for _, n := range dbNodes {
		nodes = append(nodes, &NodeInfo{
			ID:            n.ID,
			NodeType:      n.NodeType,
			ParentID:      n.ParentNodeID,
			Confidence:    n.ConfidenceScore,
			DecisionCount: counts[n.ID],
			CreatedAt:     n.CreatedAt,
		})
	}

	edges := make([]EdgeInfo, 0, len(dbEdges))
	for _, e := range dbEdges {
		edges = append(edges, EdgeInfo{
			ID:        e.ID,
			Source:    e.SourceID,
			Target:    e.TargetID,
			EdgeType:  e.EdgeType,
			Weight:    e.Weight,
			CreatedAt: e.CreatedAt,
		})
	}

	return NewSnapshot(nodes, edges), nil
}
