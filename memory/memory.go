package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/playhaven-ai/mind-go-sdk/core"
)

// Sentinel errors for classifying memory-system failures.
var (
	// ErrStore indicates the vector store rejected or failed an
	// operation.
	ErrStore = errors.New("memory store error")

	// ErrEmbedding indicates text could not be converted to a vector.
	ErrEmbedding = errors.New("embedding error")
)

// Memory is one durable memory record. Timestamp and Location are
// optional context captured at formation time; Timestamp is simulation
// seconds, not wall time.
type Memory struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	Timestamp  *int64        `json:"timestamp,omitempty"`
	Importance float64       `json:"importance"`
	Location   *core.GridPos `json:"location,omitempty"`

	// Embedding is populated by the store; it is not serialized over
	// the wire.
	Embedding []float32 `json:"-"`
}

// String renders the memory for prompt injection, with temporal and
// spatial context when available: "[id | T:123 | L:(4,5)] content".
func (m Memory) String() string {
	parts := []string{m.ID}
	if m.Timestamp != nil {
		parts = append(parts, fmt.Sprintf("T:%d", *m.Timestamp))
	}
	if m.Location != nil {
		parts = append(parts, fmt.Sprintf("L:(%d,%d)", m.Location.X, m.Location.Y))
	}
	return fmt.Sprintf("[%s] %s", strings.Join(parts, " | "), m.Content)
}

// AddRequest carries one new memory into the store. The store assigns
// the ID and computes the embedding.
type AddRequest struct {
	Content    string
	Importance float64
	Timestamp  *int64
	Location   *core.GridPos
}

// SearchRequest describes one similarity search. ImportanceWeight and
// RecencyWeight shift ranking away from pure similarity; their sum must
// not exceed 1. Now is the current simulation time used for recency
// decay.
type SearchRequest struct {
	Query            string
	TopK             int
	ImportanceWeight float64
	RecencyWeight    float64
	Now              int64
}

// Store is the vector storage backend for one mind's memories.
// Implementations: chromem.Store (local SDK), pgvector (production).
type Store interface {
	// Add embeds and persists a new memory, returning the stored
	// record with its assigned ID.
	Add(ctx context.Context, req AddRequest) (Memory, error)

	// Search returns up to req.TopK memories ranked by composite
	// score, highest first. An empty store yields an empty slice, not
	// an error.
	Search(ctx context.Context, req SearchRequest) ([]Memory, error)

	// Count reports how many memories are stored.
	Count() int

	// Clear removes every memory.
	Clear(ctx context.Context) error
}

// Embedder converts text to vector embeddings.
// Implementations: mock.Embedder (testing), onnx.Embedder (local SDK).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
