package genai

import "context"

// Completion is one raw model response with its token cost.
type Completion struct {
	// Text is the raw model output.
	Text string

	// Tokens is the total token usage (input + output) for this call.
	Tokens int
}

// Client is the minimal generative-model interface the pipeline needs:
// a formatted prompt in, raw text plus token usage out. Implementations
// must be safe for concurrent use; stages share one client across
// minds.
type Client interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}
