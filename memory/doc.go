// Package memory provides long-term memory for NPC minds: durable,
// timestamped, importance-weighted text memories with embedding-based
// similarity search and composite re-ranking.
//
// Architecture:
//   - Store: vector storage backend (chromem-go embedded store for the
//     local SDK, swappable for pgvector in production)
//   - Embedder: text-to-vector conversion (mock for testing, ONNX with
//     all-MiniLM-L6-v2 for offline semantic search)
//   - CachedEmbedder: ristretto cache in front of any Embedder
//
// Search ranks nearest neighbors by a composite of cosine similarity,
// normalized importance, and recency decay over simulation time; see
// CompositeScore. Memories are immutable after Add and removed only by
// a full Clear.
package memory
