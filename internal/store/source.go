package store

import (
	"context"
)

// TermSource merges the configured term list with the terms in the store.
// Configured terms come first; duplicates are dropped.
type TermSource struct {
	store      *Store
	configured []string
}

func NewTermSource(s *Store, configured []string) *TermSource {
	return &TermSource{store: s, configured: configured}
}

func (ts *TermSource) Terms(ctx context.Context) ([]string, error) {
	stored, err := ts.store.Terms(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ts.configured)+len(stored))
	out := make([]string, 0, len(ts.configured)+len(stored))
	for _, list := range [][]string{ts.configured, stored} {
		for _, t := range list {
			t = normalizeText(t)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}
