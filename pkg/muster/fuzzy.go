package muster

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// MaxChannelMatches caps how many candidates a query can produce.
	MaxChannelMatches = 3

	// MatchCutoff is the minimum similarity ratio for a candidate.
	MatchCutoff = 0.5
)

// NormalizeChannelName folds a channel name or query for comparison:
// lower-case, spaces become underscores.
func NormalizeChannelName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// CloseMatches returns up to maxResults catalog entries whose similarity to
// the query is at least cutoff, best first. Ties keep catalog order, so the
// caller should pass the catalog in a stable order (guild channel order).
// An empty result means no channel resembles the query; that is a valid
// outcome, distinct from an empty reconciliation.
func CloseMatches(query string, catalog []string, maxResults int, cutoff float64) []string {
	type scored struct {
		name  string
		ratio float64
	}

	q := splitRunes(NormalizeChannelName(query))
	candidates := make([]scored, 0, len(catalog))
	for _, name := range catalog {
		m := difflib.NewMatcher(splitRunes(NormalizeChannelName(name)), q)
		if ratio := m.Ratio(); ratio >= cutoff {
			candidates = append(candidates, scored{name: name, ratio: ratio})
		}
	}

	// Insertion sort by descending ratio; equal ratios keep catalog order.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].ratio > candidates[j-1].ratio; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
