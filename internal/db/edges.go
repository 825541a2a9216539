package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const edgeColumns = `id, source_id, target_id, edge_type, weight, metadata, created_at`

// DefaultEdgeWeight is used when an edge input leaves Weight at zero.
const DefaultEdgeWeight = 1.0

// scanEdge scans a row into a ReasoningEdge. The row must have the
// edgeColumns in standard order.
func scanEdge(scanner rowScanner) (ReasoningEdge, error) {
	var (
		e    ReasoningEdge
		meta sql.NullString
	)
	err := scanner.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.EdgeType, &e.Weight, &meta, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &e.Metadata); err != nil {
			return e, fmt.Errorf("decoding edge metadata for %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func collectEdges(rows *sql.Rows) ([]ReasoningEdge, error) {
	defer rows.Close()
	edges := []ReasoningEdge{}
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CreateReasoningEdge inserts a directed edge. Both endpoints must exist; a
// missing endpoint fails the foreign key check and returns an error.
func (d *DB) CreateReasoningEdge(ctx context.Context, in EdgeInput) (*ReasoningEdge, error) {
	weight := in.Weight
	if weight == 0 {
		weight = DefaultEdgeWeight
	}
	var meta *string
	if len(in.Metadata) > 0 {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encoding edge metadata: %w", err)
		}
		s := string(b)
		meta = &s
	}

	e := ReasoningEdge{
		ID:        uuid.NewString(),
		SourceID:  in.SourceID,
		TargetID:  in.TargetID,
		EdgeType:  in.EdgeType,
		Weight:    weight,
		Metadata:  in.Metadata,
		CreatedAt: time.Now().UnixMilli(),
	}
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO reasoning_edges (`+edgeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.SourceID, e.TargetID, string(e.EdgeType), e.Weight, meta, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting %s edge %s -> %s: %w", e.EdgeType, e.SourceID, e.TargetID, err)
	}
	return &e, nil
}

// GetEdgesForNode returns the edges touching a node in the given direction,
// strongest first and then in creation order.
func (d *DB) GetEdgesForNode(ctx context.Context, nodeID string, dir Direction) ([]ReasoningEdge, error) {
	var where string
	args := []any{nodeID}
	switch dir {
	case DirectionIncoming:
		where = "target_id = ?"
	case DirectionBoth:
		where = "source_id = ? OR target_id = ?"
		args = append(args, nodeID)
	default:
		where = "source_id = ?"
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+edgeColumns+`
		FROM reasoning_edges WHERE `+where+`
		ORDER BY weight DESC, created_at ASC, rowid ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	return collectEdges(rows)
}

// GetSessionEdges returns every edge with at least one endpoint in the
// session, in creation order.
func (d *DB) GetSessionEdges(ctx context.Context, sessionID string) ([]ReasoningEdge, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+edgeColumns+`
		FROM reasoning_edges
		WHERE source_id IN (SELECT id FROM thinking_nodes WHERE session_id = ?1)
		   OR target_id IN (SELECT id FROM thinking_nodes WHERE session_id = ?1)
		ORDER BY created_at ASC, rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return collectEdges(rows)
}
