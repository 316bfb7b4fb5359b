package keyword

import (
	"context"
	"testing"
)

func newTestIndex(t *testing.T) *BleveIndex {
	t.Helper()
	idx, err := NewBleveIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestBleveIndex_IndexSearch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	chunks := map[string]string{
		"doc1:0": "the quick brown fox jumps over the lazy dog",
		"doc1:1": "vector similarity search with cosine distance",
		"doc2:0": "a fox den in the forest",
	}
	for key, text := range chunks {
		if err := idx.Index(ctx, key, key[:4], text); err != nil {
			t.Fatal(err)
		}
	}

	results, err := idx.Search(ctx, "fox", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d hits for fox, want 2", len(results))
	}
	for _, r := range results {
		if r.Key != "doc1:0" && r.Key != "doc2:0" {
			t.Errorf("unexpected hit %s", r.Key)
		}
		if r.Score <= 0 {
			t.Errorf("hit %s has score %f", r.Key, r.Score)
		}
	}

	if results, _ := idx.Search(ctx, "zeppelin", 10); len(results) != 0 {
		t.Errorf("got %d hits for absent term", len(results))
	}
}

func TestBleveIndex_Delete(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	_ = idx.Index(ctx, "doc1:0", "doc1", "searchable text here")
	if err := idx.Delete(ctx, "doc1:0"); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, "searchable", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("deleted chunk still matches")
	}
	n, err := idx.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}
