package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// DefaultMaxRetries is the number of additional attempts after the
// first failed parse.
const DefaultMaxRetries = 2

// GenerationError reports that every attempt produced malformed or
// invalid output. It wraps the last failure.
type GenerationError struct {
	Fn       string
	Attempts int
	LastErr  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: output still invalid after %d attempts: %v", e.Fn, e.Attempts, e.LastErr)
}

func (e *GenerationError) Unwrap() error { return e.LastErr }

// Func is a typed generative function: it formats a prompt from named
// variables, invokes the model, and parses the response into T.
// Malformed output is retried up to MaxRetries additional times; token
// cost accumulates across every attempt, failed ones included.
//
// A Func holds only immutable configuration and is safe to share
// across concurrent cycles.
type Func[T any] struct {
	name       string
	prompt     *Prompt
	client     Client
	maxRetries int
	validate   func(*T) error
}

// FuncOption configures a Func.
type FuncOption[T any] func(*Func[T])

// WithMaxRetries sets how many additional attempts follow a failed
// parse. Zero means a single attempt.
func WithMaxRetries[T any](n int) FuncOption[T] {
	return func(f *Func[T]) {
		if n >= 0 {
			f.maxRetries = n
		}
	}
}

// WithValidation adds a semantic check run after JSON decoding; a
// returned error counts as a failed attempt and triggers a retry.
func WithValidation[T any](validate func(*T) error) FuncOption[T] {
	return func(f *Func[T]) {
		f.validate = validate
	}
}

// NewFunc builds a typed generative function.
func NewFunc[T any](name string, prompt *Prompt, client Client, opts ...FuncOption[T]) *Func[T] {
	f := &Func[T]{
		name:       name,
		prompt:     prompt,
		client:     client,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Call formats the prompt, invokes the model, and parses the output.
// The returned token count is valid even when err is non-nil: it is the
// sum over all attempts made. Prompt-variable errors fail before any
// model call; model transport errors are returned as-is (never
// retried); parse and validation failures are retried up to the
// configured bound and then surface as *GenerationError.
func (f *Func[T]) Call(ctx context.Context, values map[string]string) (T, int, error) {
	var zero T

	prompt, err := f.prompt.Format(values)
	if err != nil {
		return zero, 0, fmt.Errorf("%s: %w", f.name, err)
	}

	totalTokens := 0
	attempts := f.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		completion, err := f.client.Complete(ctx, prompt)
		totalTokens += completion.Tokens
		if err != nil {
			return zero, totalTokens, fmt.Errorf("%s: %w", f.name, err)
		}

		out, err := f.parse(completion.Text)
		if err == nil {
			return out, totalTokens, nil
		}
		lastErr = err
		if attempt < attempts {
			log.Printf("[GENAI] %s attempt %d/%d invalid: %v", f.name, attempt, attempts, err)
		}
	}

	return zero, totalTokens, &GenerationError{Fn: f.name, Attempts: attempts, LastErr: lastErr}
}

func (f *Func[T]) parse(raw string) (T, error) {
	var out T
	payload := ExtractJSON(raw)
	if payload == "" {
		return out, fmt.Errorf("no JSON object found in output")
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("decode output: %w", err)
	}
	if f.validate != nil {
		if err := f.validate(&out); err != nil {
			return out, fmt.Errorf("invalid output: %w", err)
		}
	}
	return out, nil
}

// ExtractJSON pulls the outermost JSON object or array out of raw model
// text, tolerating prose and markdown code fences around it.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip a surrounding code fence if present.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndexByte(s, '}')
	} else {
		end = strings.LastIndexByte(s, ']')
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}
