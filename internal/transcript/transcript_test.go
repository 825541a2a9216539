package transcript

import (
	"strings"
	"testing"
	"time"

	"thinkgraph/internal/extract"
	"thinkgraph/internal/reasoning"
)

func lines(ls ...string) *strings.Reader {
	return strings.NewReader(strings.Join(ls, "\n") + "\n")
}

func TestParse_SegmentsInOrder(t *testing.T) {
	tr, err := Parse(lines(
		`{"type":"system","subtype":"init","session_id":"sess-init"}`,
		`{"type":"assistant","message":{"content":[{"type":"thinking","thinking":"First I read the file."},{"type":"redacted_thinking","data":"b3BhcXVl"}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"thinking","thinking":"Then I decide."},{"type":"text","text":"Here is the plan."}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"Done."}]}}`,
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(tr.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(tr.Segments))
	}
	want := []reasoning.SegmentType{reasoning.SegmentThinking, reasoning.SegmentRedacted, reasoning.SegmentThinking}
	for i, s := range tr.Segments {
		if s.Type != want[i] {
			t.Errorf("segment %d type = %q, want %q", i, s.Type, want[i])
		}
	}
	if tr.Segments[0].Thinking != "First I read the file." {
		t.Errorf("thinking text changed: %q", tr.Segments[0].Thinking)
	}
	if tr.Segments[1].Data != "b3BhcXVl" || tr.Segments[1].Thinking != "" {
		t.Errorf("redacted segment should keep data opaque, got %+v", tr.Segments[1])
	}
	if tr.Response != "Here is the plan.\n\nDone." {
		t.Errorf("Response = %q", tr.Response)
	}
	if tr.SessionID != "sess-init" {
		t.Errorf("SessionID = %q, want sess-init", tr.SessionID)
	}
	if !tr.HasThinking() {
		t.Error("expected HasThinking")
	}
}

func TestParse_ResultEvent(t *testing.T) {
	tr, err := Parse(lines(
		`{"type":"system","session_id":"early"}`,
		`{"type":"result","session_id":"sess-abc-123","total_cost_usd":1.5,"num_turns":3,"duration_ms":5000,"usage":{"input_tokens":120,"output_tokens":45}}`,
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tr.SessionID != "sess-abc-123" {
		t.Errorf("SessionID = %q, want %q", tr.SessionID, "sess-abc-123")
	}
	if tr.CostUSD != 1.5 || tr.NumTurns != 3 || tr.Duration != 5*time.Second {
		t.Errorf("unexpected result fields %+v", tr)
	}
	if tr.Usage == nil || tr.Usage.InputTokens != 120 || tr.Usage.OutputTokens != 45 || tr.Usage.ThinkingTokens != 0 {
		t.Errorf("unexpected usage %+v", tr.Usage)
	}
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	tr, err := Parse(lines(
		"",
		"   ",
		"not json at all",
		`{"type":"unknown_event"}`,
		`{"broken json`,
		`{"type":"assistant"}`,
		`{"type":"result","session_id":"ok"}`,
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tr.SessionID != "ok" {
		t.Errorf("SessionID = %q, want %q", tr.SessionID, "ok")
	}
	if len(tr.Segments) != 0 || tr.Response != "" || tr.Usage != nil {
		t.Errorf("expected nothing else, got %+v", tr)
	}
	if tr.HasThinking() {
		t.Error("expected no thinking")
	}
}

func TestParse_LineTooLong(t *testing.T) {
	huge := `{"type":"assistant","message":{"content":[{"type":"text","text":"` + strings.Repeat("x", MaxLineBytes) + `"}]}}`
	if _, err := Parse(lines(huge)); err == nil {
		t.Error("expected an error for a line over the limit")
	}
}

func TestParse_RedactedStaysOutOfReasoning(t *testing.T) {
	tr, err := Parse(lines(
		`{"type":"assistant","message":{"content":[{"type":"redacted_thinking","data":"SECRET-BYTES"},{"type":"thinking","thinking":"I could retry or fail fast. I'll go with retry because the error is transient."}]}}`,
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := extract.New(nil).ParseThinkingToNode(tr.Segments)
	if strings.Contains(got.Reasoning, "SECRET-BYTES") {
		t.Error("redacted data leaked into reasoning")
	}
	if !strings.Contains(got.Reasoning, "retry") {
		t.Errorf("thinking text missing from reasoning: %q", got.Reasoning)
	}
}
