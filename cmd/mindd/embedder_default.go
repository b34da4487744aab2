//go:build !onnx

package main

import (
	"github.com/playhaven-ai/mind-go-sdk/memory"
	"github.com/playhaven-ai/mind-go-sdk/memory/embedder/mock"
)

// newEmbedder returns the deterministic hash embedder behind a cache.
// Build with -tags onnx for real semantic embeddings.
func newEmbedder() (memory.Embedder, error) {
	return memory.NewCachedEmbedder(mock.New())
}
