package db

import (
	"context"
	"strings"
	"unicode"
)

// DefaultSearchLimit caps search results when the caller leaves Limit unset.
const DefaultSearchLimit = 20

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "is": true,
	"it": true, "and": true, "or": true, "with": true, "from": true,
	"by": true, "this": true, "that": true, "as": true, "be": true,
	"i": true, "we": true, "will": true, "should": true, "not": true,
}

// BuildFTSQuery preprocesses a natural language query for FTS5.
// Splits on whitespace, removes stopwords and words < 3 chars, trims punctuation,
// quotes each term so punctuation inside it is not parsed as FTS5 syntax, and
// joins with " OR ".
func BuildFTSQuery(query string) string {
	words := strings.Fields(query)
	var filtered []string
	for _, w := range words {
		// Trim non-letter/digit chars from both ends
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		if len(trimmed) < 3 {
			continue
		}
		if stopwords[strings.ToLower(trimmed)] {
			continue
		}
		filtered = append(filtered, `"`+strings.ReplaceAll(trimmed, `"`, `""`)+`"`)
	}
	return strings.Join(filtered, " OR ")
}

// SearchReasoningNodes performs FTS5 search over node reasoning and returns
// hits best first. Returns an empty slice if the preprocessed query is empty
// or if the FTS table doesn't exist.
func (d *DB) SearchReasoningNodes(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	ftsQuery := BuildFTSQuery(query)
	if ftsQuery == "" {
		return []SearchResult{}, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT `+nodeColumnsAs+`, thinking_nodes_fts.rank
		FROM thinking_nodes n
		JOIN thinking_nodes_fts ON n.rowid = thinking_nodes_fts.rowid
		WHERE thinking_nodes_fts MATCH ?1
		  AND (?2 = '' OR n.session_id = ?2)
		ORDER BY thinking_nodes_fts.rank, n.created_at DESC
		LIMIT ?3
	`, ftsQuery, opts.SessionID, limit)
	if err != nil {
		// Gracefully handle missing FTS table
		if strings.Contains(err.Error(), "no such table") {
			return []SearchResult{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var score float64
		n, err := scanNode(rows, &score)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Node: n, Rank: len(results) + 1, Score: score})
	}
	return results, rows.Err()
}
