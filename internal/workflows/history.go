package workflows

import (
	"context"

	"github.com/MohiZzine/rsa-encryption-app/internal/history"
)

// HistoryResult contains the recent operations, newest first.
type HistoryResult struct {
	Entries []history.Entry
	Stats   map[string]int
}

// History returns the recorded operations and per-operation counts.
func History(ctx context.Context, env *Env) (*HistoryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := env.History.Entries()
	if err != nil {
		return nil, err
	}
	return &HistoryResult{Entries: entries, Stats: history.Stats(entries)}, nil
}
