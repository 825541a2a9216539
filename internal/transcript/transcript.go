// Package transcript reads Claude stream-json output into the ordered
// segments the extractor consumes.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"thinkgraph/internal/reasoning"
)

// MaxLineBytes is the longest stream-json line Parse accepts.
const MaxLineBytes = 1024 * 1024

// Transcript is what a single stream-json run produced.
type Transcript struct {
	Segments  []reasoning.Segment
	Response  string
	SessionID string
	Usage     *reasoning.TokenUsage
	CostUSD   float64
	NumTurns  int
	Duration  time.Duration
}

// HasThinking reports whether any plain-text thinking was captured.
func (t *Transcript) HasThinking() bool {
	for _, s := range t.Segments {
		if s.Type == reasoning.SegmentThinking && strings.TrimSpace(s.Thinking) != "" {
			return true
		}
	}
	return false
}

// Parse reads stream-json lines from r. Blank and malformed lines are
// skipped. Thinking and redacted_thinking blocks become segments in the
// order they appear; text blocks are joined into Response.
func Parse(r io.Reader) (*Transcript, error) {
	t := &Transcript{Segments: []reasoning.Segment{}}
	var texts []string

	scanner := bufio.NewScanner(r)
	// Allow large lines (some assistant messages can be huge)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip malformed lines
		}
		if t.SessionID == "" && event.SessionID != "" {
			t.SessionID = event.SessionID
		}

		switch event.Type {
		case "assistant":
			if event.Message == nil {
				continue
			}
			for _, block := range event.Message.Content {
				switch block.Type {
				case "thinking":
					if block.Thinking != "" {
						t.Segments = append(t.Segments, reasoning.Thinking(block.Thinking))
					}
				case "redacted_thinking":
					t.Segments = append(t.Segments, reasoning.Redacted(block.Data))
				case "text":
					if s := strings.TrimSpace(block.Text); s != "" {
						texts = append(texts, s)
					}
				}
			}

		case "result":
			if event.SessionID != "" {
				t.SessionID = event.SessionID
			}
			t.CostUSD = event.TotalCostUSD
			t.NumTurns = event.NumTurns
			if event.DurationMS > 0 {
				t.Duration = time.Duration(event.DurationMS) * time.Millisecond
			}
			if event.Usage != nil {
				t.Usage = &reasoning.TokenUsage{
					InputTokens:    event.Usage.InputTokens,
					OutputTokens:   event.Usage.OutputTokens,
					ThinkingTokens: event.Usage.ThinkingTokens,
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	t.Response = strings.Join(texts, "\n\n")
	return t, nil
}

// streamEvent represents a single line of stream-json output.
type streamEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`

	// For "assistant" events
	Message *assistantMessage `json:"message,omitempty"`

	// For "result" events
	TotalCostUSD float64     `json:"total_cost_usd,omitempty"`
	NumTurns     int         `json:"num_turns,omitempty"`
	DurationMS   int64       `json:"duration_ms,omitempty"`
	Usage        *usageBlock `json:"usage,omitempty"`
}

type assistantMessage struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`
	Data     string `json:"data,omitempty"` // redacted_thinking payload
}

type usageBlock struct {
	InputTokens    int `json:"input_tokens"`
	OutputTokens   int `json:"output_tokens"`
	ThinkingTokens int `json:"thinking_tokens,omitempty"`
}
