package muster

// Reconciliation is the outcome of comparing an expected roster against
// actual presence. A nil Missing slice means everyone is accounted for.
type Reconciliation struct {
	Missing []int64
}

// AllPresent reports whether no one is missing.
func (r Reconciliation) AllPresent() bool {
	return len(r.Missing) == 0
}

// Reconcile computes expected − present. Missing ids come back in ascending
// order so rendered replies are deterministic.
func Reconcile(expected, present map[int64]struct{}) Reconciliation {
	missing := make(map[int64]struct{})
	for id := range expected {
		if _, ok := present[id]; !ok {
			missing[id] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return Reconciliation{}
	}
	return Reconciliation{Missing: SortedIDs(missing)}
}

// Union merges any number of id sets. Commutative and idempotent, so role
// rosters that share members collapse naturally.
func Union(sets ...map[int64]struct{}) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, set := range sets {
		for id := range set {
			out[id] = struct{}{}
		}
	}
	return out
}

// WithoutIgnored drops ignored ids from the missing list. Applied after the
// set difference, before rendering; a fully ignored missing set turns into
// the all-present variant.
func (r Reconciliation) WithoutIgnored(ignored map[int64]struct{}) Reconciliation {
	if len(ignored) == 0 || len(r.Missing) == 0 {
		return r
	}
	kept := r.Missing[:0:0]
	for _, id := range r.Missing {
		if _, ok := ignored[id]; !ok {
			kept = append(kept, id)
		}
	}
	return Reconciliation{Missing: kept}
}

// RenderMissing renders the missing ids as one mention per line.
func (r Reconciliation) RenderMissing() string {
	set := make(map[int64]struct{}, len(r.Missing))
	for _, id := range r.Missing {
		set[id] = struct{}{}
	}
	return RenderMentionLines(set)
}
