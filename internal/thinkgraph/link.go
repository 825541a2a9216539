package thinkgraph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"thinkgraph/internal/db"
)

// MaxEdgeWeight is the largest weight LinkNodes accepts.
const MaxEdgeWeight = 10.0

// LinkInput describes an edge created by an explicit caller action.
type LinkInput struct {
	SourceID string
	TargetID string
	EdgeType db.EdgeType // empty means influences
	Weight   float64     // zero means db.DefaultEdgeWeight
	Metadata map[string]any
}

// LinkNodes validates in and creates one reasoning edge. Unlike the parent
// edge written by PersistThinkingNode, failures are returned to the caller.
func (e *Engine) LinkNodes(ctx context.Context, in LinkInput) (*db.ReasoningEdge, error) {
	source, ok := CanonicalID(in.SourceID)
	if !ok {
		return nil, fmt.Errorf("%w: source %q", ErrInvalidID, in.SourceID)
	}
	target, ok := CanonicalID(in.TargetID)
	if !ok {
		return nil, fmt.Errorf("%w: target %q", ErrInvalidID, in.TargetID)
	}
	in.SourceID, in.TargetID = source, target
	if in.EdgeType == "" {
		in.EdgeType = db.EdgeInfluences
	}
	if !in.EdgeType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEdgeType, in.EdgeType)
	}
	if in.Weight == 0 {
		in.Weight = db.DefaultEdgeWeight
	}
	if in.Weight < 0 || in.Weight > MaxEdgeWeight {
		return nil, fmt.Errorf("%w: %g not in (0, %g]", ErrInvalidWeight, in.Weight, MaxEdgeWeight)
	}

	edge, err := e.store.CreateReasoningEdge(ctx, db.EdgeInput{
		SourceID: in.SourceID,
		TargetID: in.TargetID,
		EdgeType: in.EdgeType,
		Weight:   in.Weight,
		Metadata: in.Metadata,
	})
	if err != nil {
		return nil, err
	}
	e.log.Info(ctx, "linked nodes",
		zap.String("edge_id", edge.ID),
		zap.String("edge_type", string(edge.EdgeType)),
		zap.String("source_id", edge.SourceID),
		zap.String("target_id", edge.TargetID),
	)
	return edge, nil
}
