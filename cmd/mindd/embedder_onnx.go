//go:build onnx

package main

import (
	"os"

	"github.com/playhaven-ai/mind-go-sdk/memory"
	"github.com/playhaven-ai/mind-go-sdk/memory/embedder/onnx"
)

// newEmbedder returns the all-MiniLM-L6-v2 ONNX embedder behind a
// cache. Model locations come from the environment.
func newEmbedder() (memory.Embedder, error) {
	e, err := onnx.New(onnx.Config{
		ModelPath:     os.Getenv("MIND_ONNX_MODEL"),
		TokenizerPath: os.Getenv("MIND_ONNX_TOKENIZER"),
	})
	if err != nil {
		return nil, err
	}
	return memory.NewCachedEmbedder(e)
}
