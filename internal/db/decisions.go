package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"thinkgraph/internal/reasoning"
)

// CreateDecisionPoints inserts every draft for a node in one transaction.
// Either all drafts are stored or none are.
func (d *DB) CreateDecisionPoints(ctx context.Context, nodeID string, drafts []reasoning.DecisionPointDraft) ([]DecisionPoint, error) {
	points := make([]DecisionPoint, 0, len(drafts))
	if len(drafts) == 0 {
		return points, nil
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning decision point batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decision_points (id, thinking_node_id, step_number, description, chosen_path,
		                             alternatives, confidence, reasoning_excerpt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing decision point insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UnixMilli()
	for _, draft := range drafts {
		alts := draft.Alternatives
		if alts == nil {
			alts = []reasoning.Alternative{}
		}
		encoded, err := json.Marshal(alts)
		if err != nil {
			return nil, fmt.Errorf("encoding alternatives for step %d: %w", draft.StepNumber, err)
		}

		dp := DecisionPoint{
			ID:               uuid.NewString(),
			ThinkingNodeID:   nodeID,
			StepNumber:       draft.StepNumber,
			Description:      draft.Description,
			ChosenPath:       draft.ChosenPath,
			Alternatives:     alts,
			Confidence:       draft.Confidence,
			ReasoningExcerpt: draft.ReasoningExcerpt,
			CreatedAt:        createdAt,
		}
		if _, err := stmt.ExecContext(ctx,
			dp.ID, dp.ThinkingNodeID, dp.StepNumber, dp.Description, dp.ChosenPath,
			string(encoded), dp.Confidence, dp.ReasoningExcerpt, dp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("inserting decision point %d: %w", draft.StepNumber, err)
		}
		points = append(points, dp)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decision point batch: %w", err)
	}
	return points, nil
}

// GetDecisionPoints returns a node's decision points ordered by step number.
func (d *DB) GetDecisionPoints(ctx context.Context, nodeID string) ([]DecisionPoint, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, thinking_node_id, step_number, description, chosen_path,
		       alternatives, confidence, reasoning_excerpt, created_at
		FROM decision_points WHERE thinking_node_id = ?
		ORDER BY step_number ASC
	`, nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []DecisionPoint{}
	for rows.Next() {
		var (
			dp   DecisionPoint
			alts string
		)
		if err := rows.Scan(
			&dp.ID, &dp.ThinkingNodeID, &dp.StepNumber, &dp.Description, &dp.ChosenPath,
			&alts, &dp.Confidence, &dp.ReasoningExcerpt, &dp.CreatedAt,
		); err != nil {
			return nil, err
		}
		dp.Alternatives = []reasoning.Alternative{}
		if err := json.Unmarshal([]byte(alts), &dp.Alternatives); err != nil {
			return nil, fmt.Errorf("decoding alternatives for %s: %w", dp.ID, err)
		}
		points = append(points, dp)
	}
	return points, rows.Err()
}

// CountDecisionPoints returns the number of decision points per node of a
// session. Nodes with none are absent from the map.
func (d *DB) CountDecisionPoints(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT dp.thinking_node_id, COUNT(*)
		FROM decision_points dp
		JOIN thinking_nodes n ON n.id = dp.thinking_node_id
		WHERE n.session_id = ?
		GROUP BY dp.thinking_node_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
