package search

import (
	"math"
	"testing"

	"github.com/hyperjump/kotaeru/internal/keyword"
	"github.com/hyperjump/kotaeru/internal/vector"
)

func TestNormalizeKeywordScores(t *testing.T) {
	results := []*keyword.Result{
		{Key: "a", Score: 4},
		{Key: "b", Score: 2},
		{Key: "c", Score: 0},
	}
	normalized := NormalizeKeywordScores(results)
	if normalized["a"] != 1.0 {
		t.Errorf("a = %f, want 1.0", normalized["a"])
	}
	if normalized["b"] != 0.5 {
		t.Errorf("b = %f, want 0.5", normalized["b"])
	}
	if normalized["c"] != 0 {
		t.Errorf("c = %f, want 0", normalized["c"])
	}
}

func TestNormalizeKeywordScores_Empty(t *testing.T) {
	if got := NormalizeKeywordScores(nil); len(got) != 0 {
		t.Errorf("got %d entries for nil input", len(got))
	}
}

func TestNormalizeKeywordScores_AllZero(t *testing.T) {
	results := []*keyword.Result{{Key: "a", Score: 0}, {Key: "b", Score: 0}}
	for key, score := range NormalizeKeywordScores(results) {
		if score != 0 {
			t.Errorf("%s = %f, want 0", key, score)
		}
	}
}

func TestSemanticScoresByKey(t *testing.T) {
	scores := SemanticScoresByKey([]vector.Result{
		{Key: "x", Score: 0.9},
		{Key: "y", Score: 0.1},
	})
	if scores["x"] != 0.9 || scores["y"] != 0.1 {
		t.Errorf("scores = %v", scores)
	}
}

func TestFuse(t *testing.T) {
	keywordScores := map[string]float64{"a": 1.0, "b": 0.5}
	semanticScores := map[string]float64{"b": 0.8, "c": 0.9}

	fused := Fuse(keywordScores, semanticScores, 0.3, 0.7)
	if len(fused) != 3 {
		t.Fatalf("got %d fused results, want 3", len(fused))
	}

	// b: 0.3*0.5 + 0.7*0.8 = 0.71; c: 0.7*0.9 = 0.63; a: 0.3*1.0 = 0.30
	wantOrder := []string{"b", "c", "a"}
	wantScores := []float64{0.71, 0.63, 0.30}
	for i := range wantOrder {
		if fused[i].Key != wantOrder[i] {
			t.Errorf("fused[%d] = %s, want %s", i, fused[i].Key, wantOrder[i])
		}
		if math.Abs(fused[i].Score-wantScores[i]) > 1e-9 {
			t.Errorf("fused[%d] score = %f, want %f", i, fused[i].Score, wantScores[i])
		}
	}

	b := fused[0]
	if b.KeywordScore != 0.5 || b.SemanticScore != 0.8 {
		t.Errorf("b per-leg scores = %f/%f, want 0.5/0.8", b.KeywordScore, b.SemanticScore)
	}
}

func TestFuse_TiesOrderByKey(t *testing.T) {
	fused := Fuse(map[string]float64{"b": 1.0, "a": 1.0}, nil, 1, 0)
	if len(fused) != 2 {
		t.Fatalf("got %d results, want 2", len(fused))
	}
	if fused[0].Key != "a" || fused[1].Key != "b" {
		t.Errorf("tie order = %s, %s, want a, b", fused[0].Key, fused[1].Key)
	}
}
