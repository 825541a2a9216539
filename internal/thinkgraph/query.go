package thinkgraph

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"thinkgraph/internal/db"
	"thinkgraph/internal/graph"
	"thinkgraph/internal/logging"
)

// GetNode returns the node with id, or nil when it does not exist or id is
// not a well-formed node id.
func (e *Engine) GetNode(ctx context.Context, id string) (*db.ThinkingNode, error) {
	raw := id
	id, ok := CanonicalID(raw)
	if !ok {
		e.log.Debug(ctx, "node lookup with malformed id", zap.String("node_id", raw))
		return nil, nil
	}
	n, err := e.store.GetThinkingNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		e.log.Debug(ctx, "node not found", zap.String("node_id", id))
	}
	return n, nil
}

// GetDecisionPoints returns the decision points of a node in step order.
func (e *Engine) GetDecisionPoints(ctx context.Context, nodeID string) ([]db.DecisionPoint, error) {
	nodeID, ok := CanonicalID(nodeID)
	if !ok {
		return []db.DecisionPoint{}, nil
	}
	return e.store.GetDecisionPoints(ctx, nodeID)
}

// GetSessionNodes lists a session's nodes oldest first. A non-positive limit
// uses the configured default.
func (e *Engine) GetSessionNodes(ctx context.Context, sessionID string, opts db.PageOptions) ([]db.ThinkingNode, error) {
	if opts.Limit <= 0 {
		opts.Limit = e.cfg.Query.DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return e.store.GetSessionThinkingNodes(logging.WithSessionID(ctx, sessionID), sessionID, opts)
}

// GetLatestNode returns the newest node of a session, or nil.
func (e *Engine) GetLatestNode(ctx context.Context, sessionID string) (*db.ThinkingNode, error) {
	return e.store.GetLatestThinkingNode(logging.WithSessionID(ctx, sessionID), sessionID)
}

// Traverse walks the graph breadth-first from startID. MaxDepth is clamped
// to the configured bounds; unknown edge types and directions are rejected.
func (e *Engine) Traverse(ctx context.Context, startID string, opts db.TraverseOptions) ([]db.TraversedNode, error) {
	id, ok := CanonicalID(startID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, startID)
	}
	startID = id
	for _, t := range opts.EdgeTypes {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEdgeType, t)
		}
	}
	if !opts.Direction.Valid() {
		return nil, fmt.Errorf("unknown traversal direction %q", opts.Direction)
	}
	opts.MaxDepth = e.cfg.ClampDepth(opts.MaxDepth)
	return e.store.TraverseReasoningGraph(logging.WithNodeID(ctx, startID), startID, opts)
}

// GetReasoningChain returns the nodes from the session root to targetID.
func (e *Engine) GetReasoningChain(ctx context.Context, targetID string) ([]db.ChainNode, error) {
	id, ok := CanonicalID(targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, targetID)
	}
	targetID = id
	return e.store.GetReasoningChain(logging.WithNodeID(ctx, targetID), targetID)
}

// Search runs a ranked full-text query over reasoning text.
func (e *Engine) Search(ctx context.Context, query string, opts db.SearchOptions) ([]db.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []db.SearchResult{}, nil
	}
	if opts.Limit <= 0 {
		opts.Limit = e.cfg.Query.DefaultLimit
	}
	results, err := e.store.SearchReasoningNodes(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		e.log.Debug(ctx, "search returned no results", zap.String("query", query))
	}
	return results, nil
}

// GetSessionReasoningContext summarizes the newest nodes of a session. A
// non-positive limit uses the configured context limit.
func (e *Engine) GetSessionReasoningContext(ctx context.Context, sessionID string, limit int) ([]db.NodeSummary, error) {
	if limit <= 0 {
		limit = e.cfg.Context.Limit
	}
	return e.store.GetSessionReasoningContext(logging.WithSessionID(ctx, sessionID), sessionID, limit)
}

// AnalyzeSession loads a session's graph and reports its shape.
func (e *Engine) AnalyzeSession(ctx context.Context, sessionID string) (*graph.Report, error) {
	ctx = logging.WithSessionID(ctx, sessionID)
	snap, err := graph.Load(ctx, e.store, sessionID)
	if err != nil {
		return nil, err
	}
	return graph.Analyze(snap, graph.DefaultConfig()), nil
}
