package db

import (
	"context"
	"testing"
)

func TestBuildFTSQuery_StopwordRemoval(t *testing.T) {
	got := BuildFTSQuery("Add the flag to a function for parsing")
	want := `"Add" OR "flag" OR "function" OR "parsing"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFTSQuery_ShortWords(t *testing.T) {
	got := BuildFTSQuery("go do run fast")
	want := `"run" OR "fast"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFTSQuery_PunctuationTrimming(t *testing.T) {
	got := BuildFTSQuery("generate_task_file() function, (parser.go)")
	want := `"generate_task_file" OR "function" OR "parser.go"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFTSQuery_InnerQuoteEscaped(t *testing.T) {
	got := BuildFTSQuery(`say ab"cd`)
	want := `"say" OR "ab""cd"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFTSQuery_AllStopwords(t *testing.T) {
	got := BuildFTSQuery("the a an in on at")
	if got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestBuildFTSQuery_MixedCase(t *testing.T) {
	got := BuildFTSQuery("The AND From THIS function")
	want := `"function"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFTSQuery_Empty(t *testing.T) {
	got := BuildFTSQuery("")
	if got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestSearchReasoningNodes_Ranked(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	a := insertNode(t, d, "s1", nil, "The cache eviction policy is wrong. The cache needs an LRU cache.")
	b := insertNode(t, d, "s1", nil, "Maybe the cache is fine and the bug is elsewhere.")
	insertNode(t, d, "s1", nil, "Unrelated thoughts about parsing.")

	results, err := d.SearchReasoningNodes(ctx, "cache", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Node.ID != a.ID || results[1].Node.ID != b.ID {
		t.Errorf("expected denser match first, got %s then %s", results[0].Node.ID, results[1].Node.ID)
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks should be 1,2, got %d,%d", results[0].Rank, results[1].Rank)
	}
}

func TestSearchReasoningNodes_SessionScoped(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	insertNode(t, d, "s1", nil, "Deadlock in the worker pool.")
	other := insertNode(t, d, "s2", nil, "Another deadlock in a different session.")

	results, err := d.SearchReasoningNodes(ctx, "deadlock", SearchOptions{SessionID: "s2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Node.ID != other.ID || results[0].Node.SessionID != "s2" {
		t.Errorf("expected only the s2 node, got %+v", results[0].Node)
	}
}

func TestSearchReasoningNodes_Limit(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertNode(t, d, "s1", nil, "retry logic again")
	}
	results, err := d.SearchReasoningNodes(ctx, "retry", SearchOptions{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestSearchReasoningNodes_EmptyQuery(t *testing.T) {
	d := setupTestDB(t)
	results, err := d.SearchReasoningNodes(context.Background(), "the a an", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", results)
	}
}

func TestSearchReasoningNodes_PunctuatedTerm(t *testing.T) {
	d := setupTestDB(t)
	insertNode(t, d, "s1", nil, "The bug lives in parser.go near the tokenizer.")

	results, err := d.SearchReasoningNodes(context.Background(), "parser.go", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}
