package genai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type scriptedClient struct {
	responses []Completion
	errs      []error
	calls     int
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	i := c.calls
	c.calls++
	if i >= len(c.responses) {
		return Completion{}, fmt.Errorf("unexpected call %d", i+1)
	}
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	return c.responses[i], err
}

type queryOutput struct {
	Queries []string `json:"queries"`
}

func TestFuncCallSuccess(t *testing.T) {
	client := &scriptedClient{
		responses: []Completion{{Text: `{"queries": ["a", "b"]}`, Tokens: 42}},
	}
	fn := NewFunc[queryOutput]("test", MustPrompt("ask {topic}"), client)

	out, tokens, err := fn.Call(context.Background(), map[string]string{"topic": "x"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(out.Queries) != 2 {
		t.Errorf("queries = %v", out.Queries)
	}
	if tokens != 42 {
		t.Errorf("tokens = %d, want 42", tokens)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestFuncCallRetryExhaustion(t *testing.T) {
	// max_retries = 2 means exactly 3 attempts, tokens summed across all.
	client := &scriptedClient{
		responses: []Completion{
			{Text: "not json", Tokens: 10},
			{Text: "still not json", Tokens: 20},
			{Text: "nope", Tokens: 30},
		},
	}
	fn := NewFunc[queryOutput]("test", MustPrompt("ask"), client, WithMaxRetries[queryOutput](2))

	_, tokens, err := fn.Call(context.Background(), nil)
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3", client.calls)
	}
	if tokens != 60 {
		t.Errorf("tokens = %d, want 60", tokens)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", genErr.Attempts)
	}
}

func TestFuncCallRecoversAfterRetry(t *testing.T) {
	client := &scriptedClient{
		responses: []Completion{
			{Text: "garbage", Tokens: 5},
			{Text: `{"queries": ["ok"]}`, Tokens: 7},
		},
	}
	fn := NewFunc[queryOutput]("test", MustPrompt("ask"), client)

	out, tokens, err := fn.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(out.Queries) != 1 || out.Queries[0] != "ok" {
		t.Errorf("queries = %v", out.Queries)
	}
	if tokens != 12 {
		t.Errorf("tokens = %d, want 12", tokens)
	}
}

func TestFuncCallTransportErrorNotRetried(t *testing.T) {
	boom := errors.New("connection reset")
	client := &scriptedClient{
		responses: []Completion{{Tokens: 3}},
		errs:      []error{boom},
	}
	fn := NewFunc[queryOutput]("test", MustPrompt("ask"), client, WithMaxRetries[queryOutput](5))

	_, tokens, err := fn.Call(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("transport errors must not be retried, calls = %d", client.calls)
	}
	if tokens != 3 {
		t.Errorf("tokens = %d, want 3", tokens)
	}
}

func TestFuncCallMissingVarsFailFast(t *testing.T) {
	client := &scriptedClient{}
	fn := NewFunc[queryOutput]("test", MustPrompt("ask {topic}"), client)

	_, tokens, err := fn.Call(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for missing prompt vars")
	}
	if client.calls != 0 {
		t.Errorf("model must not be called on prompt errors, calls = %d", client.calls)
	}
	if tokens != 0 {
		t.Errorf("tokens = %d, want 0", tokens)
	}
}

func TestFuncCallValidationRetries(t *testing.T) {
	client := &scriptedClient{
		responses: []Completion{
			{Text: `{"queries": []}`, Tokens: 1},
			{Text: `{"queries": ["ok"]}`, Tokens: 2},
		},
	}
	fn := NewFunc[queryOutput]("test", MustPrompt("ask"), client,
		WithValidation(func(out *queryOutput) error {
			if len(out.Queries) == 0 {
				return errors.New("need at least one query")
			}
			return nil
		}),
	)

	out, tokens, err := fn.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(out.Queries) != 1 {
		t.Errorf("queries = %v", out.Queries)
	}
	if tokens != 3 {
		t.Errorf("tokens = %d, want 3", tokens)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare object", raw: `{"a": 1}`, want: `{"a": 1}`},
		{name: "fenced", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "prose around", raw: `Sure! Here it is: {"a": 1} Hope that helps.`, want: `{"a": 1}`},
		{name: "array", raw: `[1, 2]`, want: `[1, 2]`},
		{name: "nothing", raw: "no structure here", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.raw); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
