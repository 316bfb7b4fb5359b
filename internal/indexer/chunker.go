package indexer

import (
	"errors"
	"fmt"

	"github.com/hyperjump/kotaeru/internal/models"
)

// ErrInvalidChunking is returned for chunker configurations that cannot
// produce forward progress or lose text.
var ErrInvalidChunking = errors.New("invalid chunking configuration")

// Chunker splits text into fixed-size character windows with overlap.
// Sizes are measured in runes so multi-byte text never splits mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. size must be positive and overlap must be
// non-negative and strictly smaller than size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunking, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap cannot be negative, got %d", ErrInvalidChunking, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidChunking, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into chunks for documentID. Windows advance by
// size-overlap; the final window may be shorter. Ordinals are contiguous from
// 0 and each chunk's key is "{documentID}:{ordinal}". Empty text yields no
// chunks. The function is pure: the same input always produces the same
// chunks.
func (c *Chunker) Chunk(documentID, text string) []models.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := c.size - c.overlap
	var chunks []models.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		ordinal := len(chunks)
		chunks = append(chunks, models.Chunk{
			Key:        models.ChunkKey(documentID, ordinal),
			DocumentID: documentID,
			Ordinal:    ordinal,
			Text:       string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Size returns the configured chunk size in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }
