// Package chromem implements the memory store on chromem-go, a pure Go
// embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/memory"
)

// Store holds one mind's memories in a chromem-go collection.
type Store struct {
	db       *chromem.DB
	col      *chromem.Collection
	colName  string
	embedder memory.Embedder
	mu       sync.Mutex
}

// New creates an in-memory store for the given mind.
func New(mindID string, embedder memory.Embedder) (*Store, error) {
	return newStore(chromem.NewDB(), mindID, embedder)
}

// NewPersistent creates a store backed by an on-disk chromem database
// at path, so memories survive process restarts.
func NewPersistent(path, mindID string, embedder memory.Embedder) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: open persistent db: %v", memory.ErrStore, err)
	}
	return newStore(db, mindID, embedder)
}

func newStore(db *chromem.DB, mindID string, embedder memory.Embedder) (*Store, error) {
	colName := "mind_" + mindID
	col, err := db.GetOrCreateCollection(colName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection: %v", memory.ErrStore, err)
	}
	return &Store{db: db, col: col, colName: colName, embedder: embedder}, nil
}

// Add embeds and persists a new memory. Importance is clamped into
// [0, 10]; empty content is rejected.
func (s *Store) Add(ctx context.Context, req memory.AddRequest) (memory.Memory, error) {
	if req.Content == "" {
		return memory.Memory{}, fmt.Errorf("%w: empty content", memory.ErrStore)
	}
	importance := req.Importance
	if importance < 0 {
		importance = 0
	}
	if importance > 10 {
		importance = 10
	}

	vec, err := s.embedder.Embed(ctx, req.Content)
	if err != nil {
		return memory.Memory{}, fmt.Errorf("%w: %v", memory.ErrEmbedding, err)
	}

	mem := memory.Memory{
		ID:         "memory_" + uuid.New().String(),
		Content:    req.Content,
		Timestamp:  req.Timestamp,
		Importance: importance,
		Location:   req.Location,
		Embedding:  vec,
	}

	doc := chromem.Document{
		ID:        mem.ID,
		Content:   mem.Content,
		Embedding: vec,
		Metadata:  encodeMetadata(mem),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.col.AddDocument(ctx, doc); err != nil {
		return memory.Memory{}, fmt.Errorf("%w: add document: %v", memory.ErrStore, err)
	}

	log.Printf("[CHROMEM] %s: stored %s (importance=%.1f)", s.colName, mem.ID, importance)
	return mem, nil
}

// Search embeds the query and returns up to TopK memories ranked by
// composite score.
func (s *Store) Search(ctx context.Context, req memory.SearchRequest) ([]memory.Memory, error) {
	s.mu.Lock()
	count := s.col.Count()
	s.mu.Unlock()

	if count == 0 {
		return []memory.Memory{}, nil
	}

	k := req.TopK
	if k <= 0 {
		k = 1
	}
	if k > count {
		k = count
	}

	vec, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", memory.ErrEmbedding, err)
	}

	s.mu.Lock()
	results, err := s.col.QueryEmbedding(ctx, vec, k, nil, nil)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", memory.ErrStore, err)
	}

	scored := make([]memory.Scored, 0, len(results))
	for _, r := range results {
		mem := decodeResult(r)
		score := memory.CompositeScore(mem, float64(r.Similarity), req.Now,
			req.ImportanceWeight, req.RecencyWeight)
		scored = append(scored, memory.Scored{Memory: mem, Score: score})
	}

	return memory.Rank(scored), nil
}

// Count reports the number of stored memories.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Count()
}

// Clear drops and recreates the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.colName); err != nil {
		return fmt.Errorf("%w: delete collection: %v", memory.ErrStore, err)
	}
	col, err := s.db.GetOrCreateCollection(s.colName, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: recreate collection: %v", memory.ErrStore, err)
	}
	s.col = col
	return nil
}

func encodeMetadata(mem memory.Memory) map[string]string {
	md := map[string]string{
		"importance": strconv.FormatFloat(mem.Importance, 'f', -1, 64),
	}
	if mem.Timestamp != nil {
		md["timestamp"] = strconv.FormatInt(*mem.Timestamp, 10)
	}
	if mem.Location != nil {
		md["loc_x"] = strconv.Itoa(mem.Location.X)
		md["loc_y"] = strconv.Itoa(mem.Location.Y)
	}
	return md
}

func decodeResult(r chromem.Result) memory.Memory {
	mem := memory.Memory{
		ID:        r.ID,
		Content:   r.Content,
		Embedding: r.Embedding,
	}
	if v, err := strconv.ParseFloat(r.Metadata["importance"], 64); err == nil {
		mem.Importance = v
	}
	if raw, ok := r.Metadata["timestamp"]; ok {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			mem.Timestamp = &ts
		}
	}
	if rawX, ok := r.Metadata["loc_x"]; ok {
		x, errX := strconv.Atoi(rawX)
		y, errY := strconv.Atoi(r.Metadata["loc_y"])
		if errX == nil && errY == nil {
			mem.Location = &core.GridPos{X: x, Y: y}
		}
	}
	return mem
}
