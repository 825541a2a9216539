// Package thinkgraph persists extracted reasoning as a graph and answers
// read queries over it.
//
// PersistThinkingNode treats the node write as the only hard requirement.
// Decision points and the parent edge are enrichment: when either fails the
// node is kept and the failure is reported on the Result.
package thinkgraph

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"thinkgraph/internal/config"
	"thinkgraph/internal/db"
	"thinkgraph/internal/extract"
	"thinkgraph/internal/logging"
	"thinkgraph/internal/metrics"
	"thinkgraph/internal/reasoning"
)

var (
	// ErrInvalidID reports a malformed node id on an explicit write or traversal.
	ErrInvalidID = errors.New("invalid node id")
	// ErrInvalidEdgeType reports an edge type outside the known set.
	ErrInvalidEdgeType = errors.New("invalid edge type")
	// ErrInvalidWeight reports an edge weight outside (0, MaxEdgeWeight].
	ErrInvalidWeight = errors.New("invalid edge weight")
	// ErrMissingSession reports a persist call without a session id.
	ErrMissingSession = errors.New("session id is required")
	// ErrNodeCreate wraps a failure of the primary node write.
	ErrNodeCreate = errors.New("creating thinking node")
)

// Store is the persistence boundary the engine drives. *db.DB implements it.
type Store interface {
	CreateThinkingNode(ctx context.Context, in db.NodeInput) (*db.ThinkingNode, error)
	CreateDecisionPoints(ctx context.Context, nodeID string, drafts []reasoning.DecisionPointDraft) ([]db.DecisionPoint, error)
	CreateReasoningEdge(ctx context.Context, in db.EdgeInput) (*db.ReasoningEdge, error)

	GetThinkingNode(ctx context.Context, id string) (*db.ThinkingNode, error)
	GetSessionThinkingNodes(ctx context.Context, sessionID string, opts db.PageOptions) ([]db.ThinkingNode, error)
	GetLatestThinkingNode(ctx context.Context, sessionID string) (*db.ThinkingNode, error)
	GetDecisionPoints(ctx context.Context, nodeID string) ([]db.DecisionPoint, error)
	CountDecisionPoints(ctx context.Context, sessionID string) (map[string]int, error)
	GetSessionEdges(ctx context.Context, sessionID string) ([]db.ReasoningEdge, error)

	TraverseReasoningGraph(ctx context.Context, startID string, opts db.TraverseOptions) ([]db.TraversedNode, error)
	GetReasoningChain(ctx context.Context, targetID string) ([]db.ChainNode, error)
	SearchReasoningNodes(ctx context.Context, query string, opts db.SearchOptions) ([]db.SearchResult, error)
	GetSessionReasoningContext(ctx context.Context, sessionID string, limit int) ([]db.NodeSummary, error)
}

var _ Store = (*db.DB)(nil)

// Engine ties the extractor to a Store. It is safe for concurrent use when
// the Store is.
type Engine struct {
	store     Store
	extractor *extract.Extractor
	log       *logging.Logger
	metrics   *metrics.Metrics
	cfg       *config.Config
	validate  *validator.Validate
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the collectors updated on persist. Nil disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithExtractor replaces the default extractor, e.g. one built over an
// extended pattern library.
func WithExtractor(x *extract.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithConfig sets query defaults and depth bounds.
func WithConfig(c *config.Config) Option {
	return func(e *Engine) { e.cfg = c }
}

// New builds an engine over store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		extractor: extract.New(nil),
		log:       logging.Nop(),
		cfg:       config.Default(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extractor returns the extractor the engine persists with.
func (e *Engine) Extractor() *extract.Extractor {
	return e.extractor
}

// ValidID reports whether id is a well-formed UUID in any spelling
// CanonicalID accepts.
func ValidID(id string) bool {
	_, ok := CanonicalID(id)
	return ok
}

// CanonicalID returns id in the lowercase dashed form node ids are stored
// in. Uppercase, braced, urn:uuid: and dashless spellings are accepted.
func CanonicalID(id string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return u.String(), true
}
