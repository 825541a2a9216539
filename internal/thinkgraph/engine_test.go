package thinkgraph

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"thinkgraph/internal/db"
	"thinkgraph/internal/logging"
	"thinkgraph/internal/metrics"
	"thinkgraph/internal/reasoning"
)

const iterationExample = "I could use recursion or iteration. I'll go with iteration because it avoids stack overflow. Therefore I will implement it with a loop."

// faultyStore wraps the SQLite store and fails selected writes.
type faultyStore struct {
	*db.DB
	nodeErr   error
	dpErr     error
	edgeErr   error
	edgeCalls atomic.Int32
}

func (f *faultyStore) CreateThinkingNode(ctx context.Context, in db.NodeInput) (*db.ThinkingNode, error) {
	if f.nodeErr != nil {
		return nil, f.nodeErr
	}
	return f.DB.CreateThinkingNode(ctx, in)
}

func (f *faultyStore) CreateDecisionPoints(ctx context.Context, nodeID string, drafts []reasoning.DecisionPointDraft) ([]db.DecisionPoint, error) {
	if f.dpErr != nil {
		return nil, f.dpErr
	}
	return f.DB.CreateDecisionPoints(ctx, nodeID, drafts)
}

func (f *faultyStore) CreateReasoningEdge(ctx context.Context, in db.EdgeInput) (*db.ReasoningEdge, error) {
	f.edgeCalls.Add(1)
	if f.edgeErr != nil {
		return nil, f.edgeErr
	}
	return f.DB.CreateReasoningEdge(ctx, in)
}

type fixture struct {
	store   *faultyStore
	engine  *Engine
	log     *logging.TestLogger
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	store := &faultyStore{DB: d}
	log := logging.NewTestLogger()
	m := metrics.New(prometheus.NewRegistry())
	return &fixture{
		store:   store,
		engine:  New(store, WithLogger(log.Logger), WithMetrics(m)),
		log:     log,
		metrics: m,
	}
}

func thinking(text string) []reasoning.Segment {
	return []reasoning.Segment{reasoning.Thinking(text)}
}

func persist(t *testing.T, f *fixture, opts PersistOptions) *Result {
	t.Helper()
	res, err := f.engine.PersistThinkingNode(context.Background(), thinking(iterationExample), opts)
	require.NoError(t, err)
	return res
}

func TestPersistThinkingNode_RootAndChild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	query := "how should I walk the tree?"

	root := persist(t, f, PersistOptions{SessionID: "s1", InputQuery: &query})
	assert.False(t, root.Degraded)
	assert.False(t, root.LinkedToParent)
	assert.Empty(t, root.PersistenceIssues)
	require.NotEmpty(t, root.DecisionPoints)
	assert.Equal(t, db.NodeThinking, root.Node.NodeType)
	assert.Equal(t, iterationExample, root.Node.Reasoning)
	require.NotNil(t, root.Node.InputQuery)
	assert.Equal(t, query, *root.Node.InputQuery)
	assert.NotNil(t, root.Node.ConfidenceScore)

	child := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID})
	assert.True(t, child.LinkedToParent)
	assert.False(t, child.Degraded)
	require.NotNil(t, child.Node.ParentNodeID)
	assert.Equal(t, root.Node.ID, *child.Node.ParentNodeID)

	edges, err := f.store.GetEdgesForNode(ctx, child.Node.ID, db.DirectionIncoming)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, db.EdgeInfluences, edges[0].EdgeType)
	assert.Equal(t, root.Node.ID, edges[0].SourceID)
	assert.Equal(t, 1.0, edges[0].Weight)

	stored, err := f.store.GetDecisionPoints(ctx, root.Node.ID)
	require.NoError(t, err)
	assert.Len(t, stored, len(root.DecisionPoints))

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.NodesPersisted.WithLabelValues("thinking")))
	assert.Equal(t, float64(len(root.DecisionPoints)+len(child.DecisionPoints)), testutil.ToFloat64(f.metrics.DecisionPointsPersisted))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.DegradedResults))

	f.log.AssertLogged(t, zapcore.InfoLevel, "persisted thinking node")
	f.log.AssertField(t, "persisted thinking node", "session.id", "s1")
	f.log.AssertField(t, "persisted thinking node", "node.id", child.Node.ID)
}

func TestPersistThinkingNode_MalformedParentDropped(t *testing.T) {
	f := newFixture(t)
	bad := "not-a-uuid"

	res := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &bad})
	assert.Nil(t, res.Node.ParentNodeID)
	assert.False(t, res.LinkedToParent)
	assert.False(t, res.Degraded)
	assert.Equal(t, int32(0), f.store.edgeCalls.Load())
	f.log.AssertLogged(t, zapcore.WarnLevel, "dropping malformed parent node id")
}

func TestPersistThinkingNode_BlankParentIsRoot(t *testing.T) {
	f := newFixture(t)
	blank := "  "

	res := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &blank})
	assert.Nil(t, res.Node.ParentNodeID)
	assert.Equal(t, int32(0), f.store.edgeCalls.Load())
	f.log.AssertNotLogged(t, zapcore.WarnLevel, "dropping malformed parent node id")
}

func TestPersistThinkingNode_MissingParentDegrades(t *testing.T) {
	f := newFixture(t)
	ghost := uuid.NewString()

	res := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &ghost})
	assert.True(t, res.Degraded)
	assert.False(t, res.LinkedToParent)
	assert.Nil(t, res.Node.ParentNodeID, "parent column must not dangle")
	require.Len(t, res.PersistenceIssues, 1)
	assert.Equal(t, StageReasoningEdge, res.PersistenceIssues[0].Stage)
	assert.Nil(t, res.PersistenceIssues[0].StepNumber)

	got, err := f.engine.GetNode(context.Background(), res.Node.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "node must survive a failed edge write")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PersistenceIssues.WithLabelValues("reasoning_edge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DegradedResults))
	f.log.AssertLogged(t, zapcore.WarnLevel, "secondary write failed")
}

func TestPersistThinkingNode_DecisionPointFailureDegrades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := persist(t, f, PersistOptions{SessionID: "s1"})

	f.store.dpErr = errors.New("disk full")
	res := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID})

	assert.True(t, res.Degraded)
	assert.True(t, res.LinkedToParent, "edge write still runs after a decision point failure")
	assert.Empty(t, res.DecisionPoints)
	require.Len(t, res.PersistenceIssues, 1)
	issue := res.PersistenceIssues[0]
	assert.Equal(t, StageDecisionPoint, issue.Stage)
	assert.Contains(t, issue.Message, "disk full")
	assert.Nil(t, issue.StepNumber)

	stored, err := f.store.GetDecisionPoints(ctx, res.Node.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PersistenceIssues.WithLabelValues("decision_point")))
}

func TestPersistThinkingNode_BothSecondaryWritesFail(t *testing.T) {
	f := newFixture(t)
	root := persist(t, f, PersistOptions{SessionID: "s1"})

	f.store.dpErr = errors.New("dp down")
	f.store.edgeErr = errors.New("edge down")
	res := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID})

	require.Len(t, res.PersistenceIssues, 2)
	assert.Equal(t, StageDecisionPoint, res.PersistenceIssues[0].Stage)
	assert.Equal(t, StageReasoningEdge, res.PersistenceIssues[1].Stage)
	assert.True(t, res.Degraded)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DegradedResults))
}

func TestPersistThinkingNode_NodeFailureIsHard(t *testing.T) {
	f := newFixture(t)
	f.store.nodeErr = errors.New("database is locked")

	res, err := f.engine.PersistThinkingNode(context.Background(), thinking(iterationExample), PersistOptions{SessionID: "s1"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNodeCreate)
	assert.Contains(t, err.Error(), "database is locked")
	f.log.AssertLogged(t, zapcore.ErrorLevel, "thinking node write failed")
}

func TestPersistThinkingNode_RequiresSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.PersistThinkingNode(context.Background(), thinking(iterationExample), PersistOptions{SessionID: " "})
	assert.ErrorIs(t, err, ErrNodeCreate)
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestPersistThinkingNode_RedactedNeverStoredOrLogged(t *testing.T) {
	f := newFixture(t)
	secret := "OPAQUE-REDACTED-PAYLOAD"
	segments := []reasoning.Segment{
		reasoning.Thinking("I could cache or recompute the value."),
		reasoning.Redacted(secret),
		reasoning.Thinking("I'll go with caching because the lookup is hot."),
	}

	res, err := f.engine.PersistThinkingNode(context.Background(), segments, PersistOptions{SessionID: "s1"})
	require.NoError(t, err)
	assert.NotContains(t, res.Node.Reasoning, secret)
	for _, dp := range res.DecisionPoints {
		assert.NotContains(t, dp.ReasoningExcerpt, secret)
	}
	f.log.AssertNotContains(t, secret)
	f.log.AssertField(t, "extracting reasoning", "redacted_segments", int64(1))
}

func TestPersistThinkingNode_RedactedOnly(t *testing.T) {
	f := newFixture(t)
	res, err := f.engine.PersistThinkingNode(context.Background(),
		[]reasoning.Segment{reasoning.Redacted("abc")}, PersistOptions{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Node.Reasoning)
	assert.Nil(t, res.Node.ConfidenceScore)
	assert.Empty(t, res.DecisionPoints)
	assert.False(t, res.Degraded)
}

func TestPersistThinkingNode_NodeTypeOverride(t *testing.T) {
	f := newFixture(t)
	res := persist(t, f, PersistOptions{SessionID: "s1", NodeType: db.NodeCompactionSummary})
	assert.Equal(t, db.NodeCompactionSummary, res.Node.NodeType)

	res = persist(t, f, PersistOptions{SessionID: "s1", NodeType: "bogus"})
	assert.Equal(t, db.NodeThinking, res.Node.NodeType)
	f.log.AssertLogged(t, zapcore.WarnLevel, "unknown node type")
}

func TestPersistThinkingNode_TokenUsage(t *testing.T) {
	f := newFixture(t)
	usage := &reasoning.TokenUsage{InputTokens: 120, OutputTokens: 40, ThinkingTokens: 300}
	res := persist(t, f, PersistOptions{SessionID: "s1", TokenUsage: usage})
	require.NotNil(t, res.Node.TokenUsage)
	assert.Equal(t, 300, res.Node.TokenUsage.ThinkingTokens)

	res = persist(t, f, PersistOptions{SessionID: "s1", TokenUsage: &reasoning.TokenUsage{InputTokens: -1}})
	assert.Nil(t, res.Node.TokenUsage)
	f.log.AssertLogged(t, zapcore.WarnLevel, "token usage failed validation")
}

func TestStructured_InvalidFallsBackToEmpty(t *testing.T) {
	f := newFixture(t)
	conclusion := "done"
	bad := reasoning.StructuredReasoning{
		Steps:             []reasoning.Step{{StepNumber: 0, Type: "musing", Content: ""}},
		MainConclusion:    &conclusion,
		ConfidenceFactors: []string{},
	}
	got := f.engine.structured(context.Background(), bad)
	assert.Equal(t, reasoning.EmptyStructuredReasoning(), got)
	f.log.AssertLogged(t, zapcore.WarnLevel, "structured reasoning failed validation")
}

func TestValidDrafts_RecordsStepNumber(t *testing.T) {
	f := newFixture(t)
	res := &Result{PersistenceIssues: []PersistenceIssue{}}
	drafts := []reasoning.DecisionPointDraft{
		{StepNumber: 1, Description: "pick", ChosenPath: "a"},
		{StepNumber: 2, Description: "", ChosenPath: "b"},
	}
	kept := f.engine.validDrafts(context.Background(), drafts, res)
	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].StepNumber)
	require.Len(t, res.PersistenceIssues, 1)
	require.NotNil(t, res.PersistenceIssues[0].StepNumber)
	assert.Equal(t, 2, *res.PersistenceIssues[0].StepNumber)
}

func TestPersistThinkingNode_ConcurrentSiblings(t *testing.T) {
	f := newFixture(t)
	root := persist(t, f, PersistOptions{SessionID: "s1"})

	const n = 4
	results := make(chan *Result, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			res, err := f.engine.PersistThinkingNode(context.Background(), thinking(iterationExample),
				PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID, NodeType: db.NodeForkBranch})
			results <- res
			errs <- err
		}()
	}
	ids := map[string]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
		res := <-results
		assert.True(t, res.LinkedToParent)
		ids[res.Node.ID] = true
	}
	assert.Len(t, ids, n)
}

func TestLinkNodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := persist(t, f, PersistOptions{SessionID: "s1"})
	b := persist(t, f, PersistOptions{SessionID: "s1"})

	edge, err := f.engine.LinkNodes(ctx, LinkInput{SourceID: a.Node.ID, TargetID: b.Node.ID})
	require.NoError(t, err)
	assert.Equal(t, db.EdgeInfluences, edge.EdgeType)
	assert.Equal(t, 1.0, edge.Weight)

	edge, err = f.engine.LinkNodes(ctx, LinkInput{
		SourceID: b.Node.ID, TargetID: a.Node.ID,
		EdgeType: db.EdgeChallenges, Weight: 2.5,
		Metadata: map[string]any{"agent": "critic"},
	})
	require.NoError(t, err)
	assert.Equal(t, db.EdgeChallenges, edge.EdgeType)
	assert.Equal(t, 2.5, edge.Weight)

	_, err = f.engine.LinkNodes(ctx, LinkInput{SourceID: a.Node.ID, TargetID: uuid.NewString()})
	assert.Error(t, err, "missing target fails in storage")
}

func TestLinkNodes_RejectsBeforeStorage(t *testing.T) {
	f := newFixture(t)
	good := uuid.NewString()
	tests := []struct {
		name string
		in   LinkInput
		want error
	}{
		{"bad source", LinkInput{SourceID: "x", TargetID: good}, ErrInvalidID},
		{"bad target", LinkInput{SourceID: good, TargetID: "123"}, ErrInvalidID},
		{"bad type", LinkInput{SourceID: good, TargetID: good, EdgeType: "likes"}, ErrInvalidEdgeType},
		{"negative weight", LinkInput{SourceID: good, TargetID: good, Weight: -1}, ErrInvalidWeight},
		{"heavy weight", LinkInput{SourceID: good, TargetID: good, Weight: 10.5}, ErrInvalidWeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.LinkNodes(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, int32(0), f.store.edgeCalls.Load())
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := persist(t, f, PersistOptions{SessionID: "s1"})
	mid := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID})
	leaf := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &mid.Node.ID})
	persist(t, f, PersistOptions{SessionID: "s2"})

	t.Run("get node", func(t *testing.T) {
		got, err := f.engine.GetNode(ctx, mid.Node.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, mid.Node.ID, got.ID)

		got, err = f.engine.GetNode(ctx, "garbage")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = f.engine.GetNode(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("session nodes", func(t *testing.T) {
		nodes, err := f.engine.GetSessionNodes(ctx, "s1", db.PageOptions{})
		require.NoError(t, err)
		require.Len(t, nodes, 3)
		assert.Equal(t, root.Node.ID, nodes[0].ID)

		nodes, err = f.engine.GetSessionNodes(ctx, "s1", db.PageOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, mid.Node.ID, nodes[0].ID)

		latest, err := f.engine.GetLatestNode(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, leaf.Node.ID, latest.ID)
	})

	t.Run("traverse", func(t *testing.T) {
		got, err := f.engine.Traverse(ctx, root.Node.ID, db.TraverseOptions{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 2, got[2].Depth)

		got, err = f.engine.Traverse(ctx, root.Node.ID, db.TraverseOptions{MaxDepth: 1})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		_, err = f.engine.Traverse(ctx, "nope", db.TraverseOptions{})
		assert.ErrorIs(t, err, ErrInvalidID)
		_, err = f.engine.Traverse(ctx, root.Node.ID, db.TraverseOptions{EdgeTypes: []db.EdgeType{"likes"}})
		assert.ErrorIs(t, err, ErrInvalidEdgeType)
		_, err = f.engine.Traverse(ctx, root.Node.ID, db.TraverseOptions{Direction: "sideways"})
		assert.Error(t, err)
	})

	t.Run("chain", func(t *testing.T) {
		chain, err := f.engine.GetReasoningChain(ctx, leaf.Node.ID)
		require.NoError(t, err)
		require.Len(t, chain, 3)
		assert.Equal(t, root.Node.ID, chain[0].Node.ID)
		assert.Equal(t, leaf.Node.ID, chain[2].Node.ID)

		_, err = f.engine.GetReasoningChain(ctx, "nope")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("search", func(t *testing.T) {
		got, err := f.engine.Search(ctx, "recursion", db.SearchOptions{SessionID: "s1"})
		require.NoError(t, err)
		assert.Len(t, got, 3)
		for _, r := range got {
			assert.Equal(t, "s1", r.Node.SessionID)
		}

		got, err = f.engine.Search(ctx, "   ", db.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("context", func(t *testing.T) {
		got, err := f.engine.GetSessionReasoningContext(ctx, "s1", 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, leaf.Node.ID, got[0].ID)
		assert.Equal(t, len(leaf.DecisionPoints), got[0].DecisionPointCount)
	})

	t.Run("decision points", func(t *testing.T) {
		got, err := f.engine.GetDecisionPoints(ctx, root.Node.ID)
		require.NoError(t, err)
		assert.Len(t, got, len(root.DecisionPoints))

		got, err = f.engine.GetDecisionPoints(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("analyze", func(t *testing.T) {
		r, err := f.engine.AnalyzeSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, r.NodeCount)
		assert.Equal(t, []string{root.Node.ID}, r.Roots)
		assert.Equal(t, 3, r.MaxChainDepth)
	})
}

func TestTraverse_DepthClamped(t *testing.T) {
	f := newFixture(t)
	prev := persist(t, f, PersistOptions{SessionID: "s1"})
	first := prev.Node.ID
	for i := 0; i < 12; i++ {
		prev = persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &prev.Node.ID})
	}

	got, err := f.engine.Traverse(context.Background(), first, db.TraverseOptions{MaxDepth: 50})
	require.NoError(t, err)
	assert.Len(t, got, f.engine.cfg.Query.MaxDepthLimit+1)
	for _, n := range got {
		assert.LessOrEqual(t, n.Depth, f.engine.cfg.Query.MaxDepthLimit)
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(uuid.NewString()))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("abc"))
	assert.False(t, ValidID(strings.Repeat("z", 36)))
}

func alternateSpellings(id string) map[string]string {
	return map[string]string{
		"uppercase": strings.ToUpper(id),
		"braced":    "{" + id + "}",
		"urn":       "urn:uuid:" + id,
		"dashless":  strings.ReplaceAll(id, "-", ""),
	}
}

func TestCanonicalID(t *testing.T) {
	id := uuid.NewString()
	for name, spelling := range alternateSpellings(id) {
		got, ok := CanonicalID(spelling)
		assert.True(t, ok, name)
		assert.Equal(t, id, got, name)
	}
	_, ok := CanonicalID("not-a-uuid")
	assert.False(t, ok)
}

func TestPersistThinkingNode_ParentSpellingsLink(t *testing.T) {
	f := newFixture(t)
	root := persist(t, f, PersistOptions{SessionID: "s1"})

	for name, spelling := range alternateSpellings(root.Node.ID) {
		t.Run(name, func(t *testing.T) {
			parent := spelling
			res := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &parent})
			assert.True(t, res.LinkedToParent)
			assert.False(t, res.Degraded)
			require.NotNil(t, res.Node.ParentNodeID)
			assert.Equal(t, root.Node.ID, *res.Node.ParentNodeID)
		})
	}
}

func TestQueries_AcceptAlternateSpellings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := persist(t, f, PersistOptions{SessionID: "s1"})
	child := persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID})
	upper := strings.ToUpper(root.Node.ID)

	got, err := f.engine.GetNode(ctx, upper)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, root.Node.ID, got.ID)

	points, err := f.engine.GetDecisionPoints(ctx, upper)
	require.NoError(t, err)
	assert.Len(t, points, len(root.DecisionPoints))

	reached, err := f.engine.Traverse(ctx, upper, db.TraverseOptions{})
	require.NoError(t, err)
	assert.Len(t, reached, 2)

	chain, err := f.engine.GetReasoningChain(ctx, strings.ToUpper(child.Node.ID))
	require.NoError(t, err)
	assert.Len(t, chain, 2)

	edge, err := f.engine.LinkNodes(ctx, LinkInput{
		SourceID: "{" + child.Node.ID + "}",
		TargetID: upper,
		EdgeType: db.EdgeSupports,
	})
	require.NoError(t, err)
	assert.Equal(t, child.Node.ID, edge.SourceID)
	assert.Equal(t, root.Node.ID, edge.TargetID)
}

func TestTraverse_EmptyEdgeTypesFollowsAll(t *testing.T) {
	f := newFixture(t)
	root := persist(t, f, PersistOptions{SessionID: "s1"})
	persist(t, f, PersistOptions{SessionID: "s1", ParentNodeID: &root.Node.ID})

	got, err := f.engine.Traverse(context.Background(), root.Node.ID, db.TraverseOptions{EdgeTypes: []db.EdgeType{}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
