package storage

import (
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "embeddings.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCache_PutGet(t *testing.T) {
	c := newTestCache(t)

	vec := []float32{0.1, -0.2, 0.3}
	if err := c.Put("text-embedding-3-small", "hello world", vec); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get("text-embedding-3-small", "hello world")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != len(vec) {
		t.Fatalf("got %d values, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("value %d = %f, want %f", i, got[i], vec[i])
		}
	}
}

func TestSQLiteCache_MissAndModelSeparation(t *testing.T) {
	c := newTestCache(t)

	if _, ok, err := c.Get("m1", "absent"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put("m1", "same text", []float32{1}); err != nil {
		t.Fatal(err)
	}
	// Same text under a different model must not hit.
	if _, ok, _ := c.Get("m2", "same text"); ok {
		t.Error("cache hit across models")
	}
}

func TestSQLiteCache_PutReplaces(t *testing.T) {
	c := newTestCache(t)

	if err := c.Put("m", "t", []float32{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("m", "t", []float32{3, 4}); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get("m", "t")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if got[0] != 3 || got[1] != 4 {
		t.Errorf("got %v, want [3 4]", got)
	}

	n, err := c.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, 3e-7}
	got, err := bytesToFloat32Slice(float32SliceToBytes(vec))
	if err != nil {
		t.Fatal(err)
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("value %d = %g, want %g", i, got[i], vec[i])
		}
	}

	if _, err := bytesToFloat32Slice([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
