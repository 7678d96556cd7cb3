package engine

import (
	"testing"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
)

func TestWeightedRandomSkipsZeroWeight(t *testing.T) {
	e, _ := newTestEngine(t)
	weights := []definition.CategoryWeight{{Name: "A", Weight: 0}, {Name: "B", Weight: 10}}
	for range 100 {
		def, ok := e.WeightedRandom(weights)
		if !ok || def.Category != "B" {
			t.Fatalf("expected a B definition, got %q %v", def.Category, ok)
		}
	}
}

func TestWeightedRandomNoPositiveWeights(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, ok := e.WeightedRandom([]definition.CategoryWeight{{Name: "A", Weight: 0}, {Name: "B", Weight: -3}}); ok {
		t.Fatal("expected no selection")
	}
	if _, ok := e.WeightedRandom(nil); ok {
		t.Fatal("expected no selection for empty weights")
	}
}

func TestWeightedRandomEmptyCategory(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, ok := e.WeightedRandom([]definition.CategoryWeight{{Name: "empty", Weight: 1}}); ok {
		t.Fatal("expected empty category to yield nothing")
	}
}

func TestWeightedRandomDefault(t *testing.T) {
	e, _ := newTestEngine(t)
	counts := map[string]int{}
	for range 300 {
		def, ok := e.WeightedRandomDefault()
		if ok {
			counts[def.Category]++
		} else {
			counts[""]++
		}
	}
	if counts["A"] != 0 {
		t.Fatalf("expected zero-weight category never chosen, got %v", counts)
	}
	if counts["B"] == 0 || counts[""] == 0 {
		t.Fatalf("expected both B and the empty category to be drawn, got %v", counts)
	}
}

func TestCategoryRandom(t *testing.T) {
	e, _ := newTestEngine(t)
	seen := map[string]bool{}
	for range 200 {
		def, ok := e.CategoryRandom("b")
		if !ok || def.Category != "B" {
			t.Fatalf("expected case-insensitive category match, got %q %v", def.Category, ok)
		}
		seen[def.Key] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected all four B definitions drawn, got %v", seen)
	}
	if _, ok := e.CategoryRandom("missing"); ok {
		t.Fatal("expected unknown category to yield nothing")
	}
}
