package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	ctx := context.Background()

	a1, err := e.Embed(ctx, Credentials{}, "same text")
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := e.Embed(ctx, Credentials{}, "same text")
	b, _ := e.Embed(ctx, Credentials{}, "different text")

	if !equalVec(a1, a2) {
		t.Error("same text produced different embeddings")
	}
	if equalVec(a1, b) {
		t.Error("different texts produced identical embeddings")
	}
	if len(a1) != 16 {
		t.Errorf("dimensions = %d, want 16", len(a1))
	}
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	e := NewMockEmbedder(32)
	vec, err := e.Embed(context.Background(), Credentials{}, "normalize me")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
		t.Errorf("norm = %f, want 1", math.Sqrt(sum))
	}
}
