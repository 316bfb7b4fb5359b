package models

import "testing"

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchRequest
		wantErr  bool
		wantK    int
		wantMode string
	}{
		{"defaults applied", SearchRequest{Query: "hello"}, false, 3, ModeHybrid},
		{"explicit k kept", SearchRequest{Query: "hello", K: 7, Mode: ModeSemantic}, false, 7, ModeSemantic},
		{"k capped", SearchRequest{Query: "hello", K: 500}, false, 100, ModeHybrid},
		{"empty query", SearchRequest{}, true, 0, ""},
		{"negative k", SearchRequest{Query: "hello", K: -1}, true, 0, ""},
		{"bad mode", SearchRequest{Query: "hello", Mode: "fulltext"}, true, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.req.K != tt.wantK {
				t.Errorf("K = %d, want %d", tt.req.K, tt.wantK)
			}
			if tt.req.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", tt.req.Mode, tt.wantMode)
			}
		})
	}
}

func TestChunkKey(t *testing.T) {
	if got := ChunkKey("doc1", 0); got != "doc1:0" {
		t.Errorf("ChunkKey = %q, want doc1:0", got)
	}
	if got := ChunkKey("file:abc", 12); got != "file:abc:12" {
		t.Errorf("ChunkKey = %q, want file:abc:12", got)
	}
}
