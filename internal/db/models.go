package db

import "thinkgraph/internal/reasoning"

// NodeType distinguishes ordinary reasoning from other node kinds
type NodeType string

const (
	NodeThinking          NodeType = "thinking"
	NodeCompactionSummary NodeType = "compaction_summary"
	NodeForkBranch        NodeType = "fork_branch"
	NodeHumanAnnotation   NodeType = "human_annotation"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case NodeThinking, NodeCompactionSummary, NodeForkBranch, NodeHumanAnnotation:
		return true
	}
	return false
}

// EdgeType is the relation a reasoning edge expresses
type EdgeType string

const (
	EdgeInfluences  EdgeType = "influences"
	EdgeContradicts EdgeType = "contradicts"
	EdgeSupports    EdgeType = "supports"
	EdgeSupersedes  EdgeType = "supersedes"
	EdgeRefines     EdgeType = "refines"

	// multi-agent relations
	EdgeChallenges EdgeType = "challenges"
	EdgeVerifies   EdgeType = "verifies"
	EdgeMerges     EdgeType = "merges"
	EdgeObserves   EdgeType = "observes"
)

// EdgeTypes lists every known edge type.
func EdgeTypes() []EdgeType {
	return []EdgeType{
		EdgeInfluences, EdgeContradicts, EdgeSupports, EdgeSupersedes, EdgeRefines,
		EdgeChallenges, EdgeVerifies, EdgeMerges, EdgeObserves,
	}
}

// Valid reports whether t is a known edge type.
func (t EdgeType) Valid() bool {
	for _, known := range EdgeTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Direction selects which edges a traversal follows
type Direction string

const (
	DirectionOutgoing Direction = "outgoing" // source -> target
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// Valid reports whether d is a known direction. Empty is valid and means
// DirectionOutgoing.
func (d Direction) Valid() bool {
	switch d {
	case "", DirectionOutgoing, DirectionIncoming, DirectionBoth:
		return true
	}
	return false
}

// ThinkingNode represents a row in the thinking_nodes table
type ThinkingNode struct {
	ID                  string                        `json:"id"`
	SessionID           string                        `json:"sessionId"`
	ParentNodeID        *string                       `json:"parentNodeId"`
	Reasoning           string                        `json:"reasoning"`
	Response            *string                       `json:"response"`
	InputQuery          *string                       `json:"inputQuery"`
	StructuredReasoning reasoning.StructuredReasoning `json:"structuredReasoning"`
	ConfidenceScore     *float64                      `json:"confidenceScore"`
	TokenUsage          *reasoning.TokenUsage         `json:"tokenUsage"`
	NodeType            NodeType                      `json:"nodeType"`
	CreatedAt           int64                         `json:"createdAt"` // Unix millis
}

// DecisionPoint represents a row in the decision_points table
type DecisionPoint struct {
	ID               string                  `json:"id"`
	ThinkingNodeID   string                  `json:"thinkingNodeId"`
	StepNumber       int                     `json:"stepNumber"`
	Description      string                  `json:"description"`
	ChosenPath       string                  `json:"chosenPath"`
	Alternatives     []reasoning.Alternative `json:"alternatives"`
	Confidence       *float64                `json:"confidence"`
	ReasoningExcerpt string                  `json:"reasoningExcerpt"`
	CreatedAt        int64                   `json:"createdAt"` // Unix millis
}

// ReasoningEdge represents a row in the reasoning_edges table
type ReasoningEdge struct {
	ID        string         `json:"id"`
	SourceID  string         `json:"sourceId"`
	TargetID  string         `json:"targetId"`
	EdgeType  EdgeType       `json:"edgeType"`
	Weight    float64        `json:"weight"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt int64          `json:"createdAt"` // Unix millis
}

// NodeInput holds the fields for a new thinking node
type NodeInput struct {
	SessionID           string
	ParentNodeID        *string // stored only if the parent exists at write time
	Reasoning           string
	Response            *string
	InputQuery          *string
	StructuredReasoning reasoning.StructuredReasoning
	ConfidenceScore     *float64
	TokenUsage          *reasoning.TokenUsage
	NodeType            NodeType // empty means NodeThinking
}

// EdgeInput holds the fields for a new reasoning edge
type EdgeInput struct {
	SourceID string
	TargetID string
	EdgeType EdgeType
	Weight   float64 // zero means 1.0
	Metadata map[string]any
}

// PageOptions bounds a session listing. A non-positive Limit means no limit.
type PageOptions struct {
	Limit  int
	Offset int
}

// TraverseOptions configures a breadth-first walk
type TraverseOptions struct {
	MaxDepth  int
	EdgeTypes []EdgeType // allowlist; empty means all
	Direction Direction  // empty means DirectionOutgoing
}

// TraversedNode is a node reached by traversal. The start node has depth 0
// and no edge.
type TraversedNode struct {
	Node     ThinkingNode `json:"node"`
	Depth    int          `json:"depth"`
	EdgeType *EdgeType    `json:"edgeType"`
	EdgeID   *string      `json:"edgeId"`
	ViaID    *string      `json:"viaNodeId"`
}

// ChainNode is one node of a root-to-target reasoning chain
type ChainNode struct {
	Node          ThinkingNode `json:"node"`
	ChainPosition int          `json:"chainPosition"`
}

// SearchOptions scopes a full-text search
type SearchOptions struct {
	SessionID string // empty means all sessions
	Limit     int
}

// SearchResult is a ranked full-text hit. Rank starts at 1; Score is the raw
// bm25 value where lower is better.
type SearchResult struct {
	Node  ThinkingNode `json:"node"`
	Rank  int          `json:"rank"`
	Score float64      `json:"score"`
}

// NodeSummary is the compact per-node view used for session context
type NodeSummary struct {
	ID                 string   `json:"id"`
	ParentNodeID       *string  `json:"parentNodeId"`
	NodeType           NodeType `json:"nodeType"`
	ConfidenceScore    *float64 `json:"confidenceScore"`
	MainConclusion     *string  `json:"mainConclusion"`
	Excerpt            string   `json:"excerpt"`
	StepCount          int      `json:"stepCount"`
	DecisionPointCount int      `json:"decisionPointCount"`
	CreatedAt          int64    `json:"createdAt"`
}
