package pipeline

import (
	"context"
	"fmt"

	"github.com/playhaven-ai/mind-go-sdk/genai"
	"github.com/playhaven-ai/mind-go-sdk/memory"
)

// Pipeline is the fixed four-stage decision sequence. It is the sole
// entry point invoked once per decision cycle and performs no retries
// of its own beyond what each stage does internally.
type Pipeline struct {
	stages []Stage
}

// Option configures a Pipeline.
type Option func(*config)

type config struct {
	maxRetries int
}

// WithMaxRetries overrides the per-stage generation retry bound.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// New builds the pipeline: memory query generation, memory retrieval,
// cognitive update, action selection, in that order.
func New(client genai.Client, store memory.Store, opts ...Option) *Pipeline {
	cfg := config{maxRetries: genai.DefaultMaxRetries}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Pipeline{
		stages: []Stage{
			NewMemoryQueryStage(client, cfg.maxRetries),
			NewMemoryRetrievalStage(store),
			NewCognitiveUpdateStage(client, cfg.maxRetries),
			NewActionSelectionStage(client, cfg.maxRetries),
		},
	}
}

// Process runs one decision cycle over state. Each stage receives the
// prior stage's state verbatim; there is no conditional routing.
func (p *Pipeline) Process(ctx context.Context, state *State) error {
	for _, stage := range p.stages {
		if err := runStage(ctx, stage, state); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}
	}
	return nil
}
