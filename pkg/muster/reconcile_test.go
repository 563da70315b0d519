package muster

import (
	"reflect"
	"testing"
)

func set(ids ...int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestReconcile_Missing(t *testing.T) {
	r := Reconcile(set(3, 1, 2), set(2))
	if r.AllPresent() {
		t.Fatal("expected missing members")
	}
	if !reflect.DeepEqual(r.Missing, []int64{1, 3}) {
		t.Errorf("expected ascending [1 3], got %v", r.Missing)
	}
}

func TestReconcile_PresentSuperset(t *testing.T) {
	r := Reconcile(set(1, 2), set(1, 2, 3, 4))
	if !r.AllPresent() {
		t.Errorf("present ⊇ expected must be all-present, got %v", r.Missing)
	}
}

func TestReconcile_EmptyExpected(t *testing.T) {
	if r := Reconcile(nil, set(9)); !r.AllPresent() {
		t.Errorf("empty expected must be all-present, got %v", r.Missing)
	}
}

func TestUnion(t *testing.T) {
	u := Union(set(1, 2), set(2, 3), set(3))
	if len(u) != 3 {
		t.Errorf("expected 3 members, got %v", u)
	}
}

func TestWithoutIgnored(t *testing.T) {
	r := Reconcile(set(1, 2, 3), set(3)).WithoutIgnored(set(2))
	if !reflect.DeepEqual(r.Missing, []int64{1}) {
		t.Errorf("expected [1], got %v", r.Missing)
	}

	if r := Reconcile(set(1), nil).WithoutIgnored(set(1)); !r.AllPresent() {
		t.Error("fully ignored missing set must read as all-present")
	}
}

func TestRenderMissing(t *testing.T) {
	r := Reconcile(set(2, 1), nil)
	if got := r.RenderMissing(); got != "<@1>\n<@2>\n" {
		t.Errorf("unexpected render %q", got)
	}
}
