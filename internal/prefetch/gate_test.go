package prefetch

import (
	"context"
	"testing"
)

func TestResolveAll_AllSettle(t *testing.T) {
	loader := newFakeLoader()
	refs := []string{"ب", "ت", "ث", "ن"}

	res := resolveAll(context.Background(), loader, refs)

	if len(res.degraded) != 0 {
		t.Errorf("unexpected degraded refs: %v", res.degraded)
	}
	if len(res.paths) != len(refs) {
		t.Fatalf("expected %d paths, got %d", len(refs), len(res.paths))
	}
	for _, ref := range refs {
		if res.paths[ref] == "" {
			t.Errorf("ref %q missing a path", ref)
		}
		loader.mu.Lock()
		calls := loader.calls[ref]
		loader.mu.Unlock()
		if calls != 1 {
			t.Errorf("ref %q resolved %d times", ref, calls)
		}
	}
}

func TestResolveAll_FailureDegradesOnlyThatRef(t *testing.T) {
	loader := newFakeLoader("ت")
	refs := []string{"ب", "ت", "ث"}

	res := resolveAll(context.Background(), loader, refs)

	if len(res.degraded) != 1 || res.degraded[0] != "ت" {
		t.Errorf("expected only the failing ref degraded, got %v", res.degraded)
	}
	if _, ok := res.paths["ت"]; ok {
		t.Error("failed ref must not resolve to a path")
	}
	if len(res.paths) != 2 {
		t.Errorf("expected the other refs resolved, got %v", res.paths)
	}
}

func TestResolveAll_NilLoaderDegradesEverything(t *testing.T) {
	refs := []string{"ب", "ت"}
	res := resolveAll(context.Background(), nil, refs)

	if len(res.paths) != 0 {
		t.Errorf("expected no paths, got %v", res.paths)
	}
	if len(res.degraded) != 2 {
		t.Errorf("expected all refs degraded, got %v", res.degraded)
	}
}

func TestResolveAll_NoRefs(t *testing.T) {
	res := resolveAll(context.Background(), newFakeLoader(), nil)
	if len(res.paths) != 0 || len(res.degraded) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
