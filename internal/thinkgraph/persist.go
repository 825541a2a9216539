package thinkgraph

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"thinkgraph/internal/db"
	"thinkgraph/internal/logging"
	"thinkgraph/internal/reasoning"
)

// Stage names the secondary write a PersistenceIssue came from.
type Stage string

const (
	StageDecisionPoint Stage = "decision_point"
	StageReasoningEdge Stage = "reasoning_edge"
)

// PersistOptions describes the node to create around a segment sequence.
type PersistOptions struct {
	SessionID    string
	ParentNodeID *string
	InputQuery   *string
	Response     *string
	NodeType     db.NodeType // empty means db.NodeThinking
	TokenUsage   *reasoning.TokenUsage
}

// PersistenceIssue is one failed secondary write.
type PersistenceIssue struct {
	Stage      Stage  `json:"stage"`
	Message    string `json:"message"`
	StepNumber *int   `json:"stepNumber,omitempty"`
}

// Result is the outcome of PersistThinkingNode. Degraded is true when any
// issue was recorded; the node is stored either way.
type Result struct {
	Node              *db.ThinkingNode   `json:"node"`
	DecisionPoints    []db.DecisionPoint `json:"decisionPoints"`
	LinkedToParent    bool               `json:"linkedToParent"`
	Degraded          bool               `json:"degraded"`
	PersistenceIssues []PersistenceIssue `json:"persistenceIssues"`
}

// PersistThinkingNode extracts reasoning from segments and writes the node,
// its decision points, and an influences edge from the parent.
//
// Only a failure to create the node is returned as an error (wrapping
// ErrNodeCreate). A malformed parent id is dropped. Payloads that fail
// validation are replaced by empty defaults. Decision point and edge
// failures are reported once in Result.PersistenceIssues and never retried.
func (e *Engine) PersistThinkingNode(ctx context.Context, segments []reasoning.Segment, opts PersistOptions) (*Result, error) {
	sessionID := strings.TrimSpace(opts.SessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: %w", ErrNodeCreate, ErrMissingSession)
	}
	ctx = logging.WithSessionID(ctx, sessionID)

	parentID := e.parentID(ctx, opts.ParentNodeID)
	nodeType := e.nodeType(ctx, opts.NodeType)

	thinking, redacted := countSegments(segments)
	e.log.Debug(ctx, "extracting reasoning",
		zap.Int("thinking_segments", thinking),
		zap.Int("redacted_segments", redacted),
	)
	extraction := e.extractor.ParseThinkingToNode(segments)

	node, err := e.store.CreateThinkingNode(ctx, db.NodeInput{
		SessionID:           sessionID,
		ParentNodeID:        parentID,
		Reasoning:           extraction.Reasoning,
		Response:            opts.Response,
		InputQuery:          opts.InputQuery,
		StructuredReasoning: e.structured(ctx, extraction.StructuredReasoning),
		ConfidenceScore:     extraction.ConfidenceScore,
		TokenUsage:          e.tokenUsage(ctx, opts.TokenUsage),
		NodeType:            nodeType,
	})
	if err != nil {
		e.log.Error(ctx, "thinking node write failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNodeCreate, err)
	}
	ctx = logging.WithNodeID(ctx, node.ID)

	res := &Result{
		Node:              node,
		DecisionPoints:    []db.DecisionPoint{},
		PersistenceIssues: []PersistenceIssue{},
	}

	drafts := e.validDrafts(ctx, extraction.DecisionPoints, res)
	if len(drafts) > 0 {
		points, err := e.store.CreateDecisionPoints(ctx, node.ID, drafts)
		if err != nil {
			e.addIssue(ctx, res, StageDecisionPoint, err.Error(), nil)
		} else {
			res.DecisionPoints = points
			e.metrics.DecisionPoints(len(points))
		}
	}

	if parentID != nil {
		_, err := e.store.CreateReasoningEdge(ctx, db.EdgeInput{
			SourceID: *parentID,
			TargetID: node.ID,
			EdgeType: db.EdgeInfluences,
			Weight:   db.DefaultEdgeWeight,
		})
		if err != nil {
			e.addIssue(ctx, res, StageReasoningEdge, err.Error(), nil)
		} else {
			res.LinkedToParent = true
		}
	}

	res.Degraded = len(res.PersistenceIssues) > 0
	e.metrics.NodePersisted(string(node.NodeType), node.ConfidenceScore)
	if res.Degraded {
		e.metrics.Degraded()
	}

	e.log.Info(ctx, "persisted thinking node",
		zap.String("node_type", string(node.NodeType)),
		zap.Int("decision_points", len(res.DecisionPoints)),
		zap.Bool("linked_to_parent", res.LinkedToParent),
		zap.Bool("degraded", res.Degraded),
	)
	return res, nil
}

func (e *Engine) parentID(ctx context.Context, raw *string) *string {
	if raw == nil {
		return nil
	}
	id := strings.TrimSpace(*raw)
	if id == "" {
		return nil
	}
	canonical, ok := CanonicalID(id)
	if !ok {
		e.log.Warn(ctx, "dropping malformed parent node id", zap.String("parent_node_id", id))
		return nil
	}
	return &canonical
}

func (e *Engine) nodeType(ctx context.Context, t db.NodeType) db.NodeType {
	if t == "" {
		return db.NodeThinking
	}
	if !t.Valid() {
		e.log.Warn(ctx, "unknown node type, storing as thinking", zap.String("node_type", string(t)))
		return db.NodeThinking
	}
	return t
}

func (e *Engine) structured(ctx context.Context, sr reasoning.StructuredReasoning) reasoning.StructuredReasoning {
	if err := e.validate.Struct(sr); err != nil {
		e.log.Warn(ctx, "structured reasoning failed validation, storing empty payload", zap.Error(err))
		return reasoning.EmptyStructuredReasoning()
	}
	return sr
}

func (e *Engine) tokenUsage(ctx context.Context, tu *reasoning.TokenUsage) *reasoning.TokenUsage {
	if tu == nil {
		return nil
	}
	if err := e.validate.Struct(tu); err != nil {
		e.log.Warn(ctx, "token usage failed validation, dropping it", zap.Error(err))
		return nil
	}
	return tu
}

// validDrafts filters out drafts that fail validation, recording one issue
// per dropped draft.
func (e *Engine) validDrafts(ctx context.Context, drafts []reasoning.DecisionPointDraft, res *Result) []reasoning.DecisionPointDraft {
	kept := make([]reasoning.DecisionPointDraft, 0, len(drafts))
	for _, d := range drafts {
		if err := e.validate.Struct(d); err != nil {
			step := d.StepNumber
			e.addIssue(ctx, res, StageDecisionPoint, fmt.Sprintf("invalid decision point: %v", err), &step)
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func (e *Engine) addIssue(ctx context.Context, res *Result, stage Stage, msg string, step *int) {
	fields := []zap.Field{zap.String("stage", string(stage)), zap.String("error", msg)}
	if step != nil {
		fields = append(fields, zap.Int("step_number", *step))
	}
	e.log.Warn(ctx, "secondary write failed", fields...)
	e.metrics.Issue(string(stage))
	res.PersistenceIssues = append(res.PersistenceIssues, PersistenceIssue{
		Stage:      stage,
		Message:    msg,
		StepNumber: step,
	})
}

func countSegments(segments []reasoning.Segment) (thinking, redacted int) {
	for _, s := range segments {
		switch s.Type {
		case reasoning.SegmentThinking:
			thinking++
		case reasoning.SegmentRedacted:
			redacted++
		}
	}
	return thinking, redacted
}
