package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"thinkgraph/internal/reasoning"
)

const nodeColumns = `id, session_id, parent_node_id, reasoning, response, input_query,
	structured_reasoning, confidence_score, token_usage, node_type, created_at`

// nodeColumnsAs is nodeColumns qualified with the alias n for joins.
const nodeColumnsAs = `n.id, n.session_id, n.parent_node_id, n.reasoning, n.response, n.input_query,
	n.structured_reasoning, n.confidence_score, n.token_usage, n.node_type, n.created_at`

type rowScanner interface{ Scan(dest ...any) error }

// scanNode scans a row into a ThinkingNode. The row must have the
// nodeColumns in standard order, optionally followed by extra destinations.
func scanNode(scanner rowScanner, extra ...any) (ThinkingNode, error) {
	var (
		n          ThinkingNode
		structured string
		usage      sql.NullString
	)
	dest := []any{
		&n.ID, &n.SessionID, &n.ParentNodeID, &n.Reasoning, &n.Response, &n.InputQuery,
		&structured, &n.ConfidenceScore, &usage, &n.NodeType, &n.CreatedAt,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return n, err
	}

	n.StructuredReasoning = reasoning.EmptyStructuredReasoning()
	if structured != "" {
		if err := json.Unmarshal([]byte(structured), &n.StructuredReasoning); err != nil {
			return n, fmt.Errorf("decoding structured reasoning for %s: %w", n.ID, err)
		}
		if n.StructuredReasoning.Steps == nil {
			n.StructuredReasoning.Steps = []reasoning.Step{}
		}
		if n.StructuredReasoning.ConfidenceFactors == nil {
			n.StructuredReasoning.ConfidenceFactors = []string{}
		}
	}
	if usage.Valid && usage.String != "" {
		var tu reasoning.TokenUsage
		if err := json.Unmarshal([]byte(usage.String), &tu); err != nil {
			return n, fmt.Errorf("decoding token usage for %s: %w", n.ID, err)
		}
		n.TokenUsage = &tu
	}
	return n, nil
}

func collectNodes(rows *sql.Rows) ([]ThinkingNode, error) {
	defer rows.Close()
	nodes := []ThinkingNode{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// CreateThinkingNode inserts a new node and returns it as stored. The parent
// reference is resolved inside the INSERT: an unknown parent id is stored as
// NULL, so the column never dangles.
func (d *DB) CreateThinkingNode(ctx context.Context, in NodeInput) (*ThinkingNode, error) {
	if in.SessionID == "" {
		return nil, errors.New("session id is required")
	}
	nodeType := in.NodeType
	if nodeType == "" {
		nodeType = NodeThinking
	}

	structured, err := json.Marshal(in.StructuredReasoning)
	if err != nil {
		return nil, fmt.Errorf("encoding structured reasoning: %w", err)
	}
	var usage *string
	if in.TokenUsage != nil {
		b, err := json.Marshal(in.TokenUsage)
		if err != nil {
			return nil, fmt.Errorf("encoding token usage: %w", err)
		}
		s := string(b)
		usage = &s
	}

	id := uuid.NewString()
	createdAt := time.Now().UnixMilli()

	row := d.conn.QueryRowContext(ctx, `
		INSERT INTO thinking_nodes (`+nodeColumns+`)
		VALUES (?, ?, (SELECT id FROM thinking_nodes WHERE id = ?), ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+nodeColumns,
		id, in.SessionID, in.ParentNodeID, in.Reasoning, in.Response, in.InputQuery,
		string(structured), in.ConfidenceScore, usage, string(nodeType), createdAt,
	)
	n, err := scanNode(row)
	if err != nil {
		return nil, fmt.Errorf("inserting thinking node: %w", err)
	}
	return &n, nil
}

// GetThinkingNode returns a single node by ID, or nil if not found
func (d *DB) GetThinkingNode(ctx context.Context, id string) (*ThinkingNode, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM thinking_nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetSessionThinkingNodes returns a session's nodes in creation order.
func (d *DB) GetSessionThinkingNodes(ctx context.Context, sessionID string, opts PageOptions) ([]ThinkingNode, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+nodeColumns+`
		FROM thinking_nodes WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
		LIMIT ? OFFSET ?
	`, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectNodes(rows)
}

// GetLatestThinkingNode returns the most recently created node of a session,
// or nil if the session has none.
func (d *DB) GetLatestThinkingNode(ctx context.Context, sessionID string) (*ThinkingNode, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT `+nodeColumns+`
		FROM thinking_nodes WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, sessionID)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SearchByIDPrefix finds nodes whose ID starts with the given prefix.
func (d *DB) SearchByIDPrefix(ctx context.Context, prefix string, limit int) ([]ThinkingNode, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+nodeColumns+`
		FROM thinking_nodes WHERE id LIKE ? ORDER BY created_at ASC LIMIT ?
	`, prefix+"%", limit)
	if err != nil {
		return nil, err
	}
	return collectNodes(rows)
}
