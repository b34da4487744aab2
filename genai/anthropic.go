package genai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// AnthropicClient adapts the Anthropic Messages API to the Client
// interface. Configuration is immutable after construction, so a single
// instance can serve concurrent decision cycles.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// AnthropicOption configures an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithModel overrides the default model.
func WithModel(model string) AnthropicOption {
	return func(c *AnthropicClient) {
		c.model = model
	}
}

// WithMaxTokens overrides the default response token limit.
func WithMaxTokens(n int64) AnthropicOption {
	return func(c *AnthropicClient) {
		c.maxTokens = n
	}
}

// NewAnthropicClient wraps an Anthropic API client.
func NewAnthropicClient(client *anthropic.Client, opts ...AnthropicOption) *AnthropicClient {
	c := &AnthropicClient{
		client:    client,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a single-turn message and returns the concatenated
// text blocks with total token usage.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return Completion{
		Text:   text,
		Tokens: int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}, nil
}
