package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"thinkgraph/internal/config"
	"thinkgraph/internal/db"
	"thinkgraph/internal/extract"
	"thinkgraph/internal/logging"
	"thinkgraph/internal/metrics"
	"thinkgraph/internal/thinkgraph"
)

const dbFileName = ".thinkgraph.db"

var (
	dbPath     string
	configPath string
	logLevel   string
	jsonOut    bool

	cfg    = config.Default()
	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:           "thinkgraph",
	Short:         "Persist and query model reasoning as a graph",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		l, err := logging.New(loaded.Log.Level, loaded.Log.Format)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to "+dbFileName+" database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default $XDG_CONFIG_HOME/thinkgraph/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output as JSON")
}

// DiscoverDB finds the database path using priority:
// env > flag > config > walk-up > XDG fallback.
// With create set, the XDG location is returned even when nothing exists yet.
func DiscoverDB(create bool) (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("THINKGRAPH_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil || create {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil || create {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	// 3. Config file
	if cfg.DB.Path != "" {
		if _, err := os.Stat(cfg.DB.Path); err == nil || create {
			return cfg.DB.Path, nil
		}
		return "", fmt.Errorf("database not found at db.path: %s", cfg.DB.Path)
	}

	// 4. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 5. XDG fallback
	if xdgPath := dataPath(); xdgPath != "" {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
		if create {
			if err := os.MkdirAll(filepath.Dir(xdgPath), 0o755); err != nil {
				return "", fmt.Errorf("creating data directory: %w", err)
			}
			return xdgPath, nil
		}
	}

	return "", fmt.Errorf("no %s found (set THINKGRAPH_DB, use --db, or run from a directory containing %s)", dbFileName, dbFileName)
}

func dataPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "thinkgraph", "thinkgraph.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "thinkgraph", "thinkgraph.db")
}

// OpenDatabase discovers and opens the database
func OpenDatabase(create bool) (*db.DB, error) {
	path, err := DiscoverDB(create)
	if err != nil {
		return nil, err
	}
	return db.OpenDB(path)
}

// newEngine builds an engine over d with the loaded config and logger.
// A non-nil reg enables metrics.
func newEngine(d *db.DB, reg prometheus.Registerer) *thinkgraph.Engine {
	opts := []thinkgraph.Option{
		thinkgraph.WithConfig(cfg),
		thinkgraph.WithLogger(logger),
	}
	if reg != nil {
		opts = append(opts, thinkgraph.WithMetrics(metrics.New(reg)))
	}
	return thinkgraph.New(d, opts...)
}

// ResolveNode finds a node by full ID, ID prefix, or a unique full-text hit.
func ResolveNode(ctx context.Context, d *db.DB, reference string) (*db.ThinkingNode, error) {
	// 1. Exact ID match
	if id, ok := thinkgraph.CanonicalID(reference); ok {
		node, err := d.GetThinkingNode(ctx, id)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}

	// 2. ID prefix match (≥6 hex/dash chars)
	if len(reference) >= 6 && isHexDash(reference) {
		matches, err := d.SearchByIDPrefix(ctx, strings.ToLower(reference), 10)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 1:
			return &matches[0], nil
		case 0:
			// fall through to FTS
		default:
			lines := make([]string, len(matches))
			for i, m := range matches {
				lines[i] = fmt.Sprintf("  %s %s", truncID(m.ID), truncText(m.Reasoning, 60))
			}
			return nil, fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\nUse a full node ID instead.",
				reference, len(matches), strings.Join(lines, "\n"))
		}
	}

	// 3. FTS search
	hits, err := d.SearchReasoningNodes(ctx, reference, db.SearchOptions{Limit: 10})
	if err != nil {
		return nil, err
	}
	switch len(hits) {
	case 0:
	case 1:
		return &hits[0].Node, nil
	default:
		lines := make([]string, len(hits))
		for i, h := range hits {
			lines[i] = fmt.Sprintf("  %s %s", truncID(h.Node.ID), truncText(h.Node.Reasoning, 60))
		}
		return nil, fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\nUse a node ID instead.",
			reference, len(hits), strings.Join(lines, "\n"))
	}

	return nil, fmt.Errorf("node not found: %s", reference)
}

func isHexDash(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '-') {
			return false
		}
	}
	return true
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncText flattens whitespace and shortens s to max runes.
func truncText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if short := extract.TruncateRunes(s, max); short != s {
		return short + "..."
	}
	return s
}

func formatConfidence(c *float64) string {
	if c == nil {
		return "  - "
	}
	return fmt.Sprintf("%.2f", *c)
}
