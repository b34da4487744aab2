// Package server exposes mind operations over a WebSocket connection
// carrying JSON request/response frames.
package server

import (
	"errors"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/genai"
	"github.com/playhaven-ai/mind-go-sdk/memory"
	"github.com/playhaven-ai/mind-go-sdk/mind"
)

// Operations accepted by the server.
const (
	OpCreateMind          = "create_mind"
	OpDecideAction        = "decide_action"
	OpConsolidateMemories = "consolidate_memories"
	OpGetState            = "get_state"
	OpRemoveMind          = "remove_mind"
)

// Request is one inbound frame. MindID is required for every op;
// Config only for create_mind; Observation and Events only for
// decide_action.
type Request struct {
	Op          string            `json:"op"`
	RequestID   string            `json:"request_id,omitempty"`
	MindID      string            `json:"mind_id"`
	Config      *mind.Config      `json:"config,omitempty"`
	Observation *core.Observation `json:"observation,omitempty"`
	Events      []core.MindEvent  `json:"events,omitempty"`
}

// ErrorInfo carries a structured error back to the simulation.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Response is one outbound frame. Exactly one of the payload fields is
// set, matching the request op.
type Response struct {
	RequestID         string          `json:"request_id,omitempty"`
	Status            string          `json:"status"`
	MindID            string          `json:"mind_id,omitempty"`
	Action            *core.Envelope  `json:"action,omitempty"`
	ConsolidatedCount *int            `json:"consolidated_count,omitempty"`
	State             *mind.StateInfo `json:"state,omitempty"`
	Error             *ErrorInfo      `json:"error,omitempty"`
}

// Error kinds, stable across releases so the simulation can decide on
// redelivery.
const (
	KindInvalidInput  = "invalid_input"
	KindInvalidAction = "invalid_action"
	KindGeneration    = "generation"
	KindResource      = "resource"
	KindNotFound      = "not_found"
	KindInternal      = "internal"
)

// classifyError maps an error to its stable kind and optional field.
func classifyError(err error) ErrorInfo {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return ErrorInfo{Kind: KindInvalidInput, Message: verr.Error(), Field: verr.Field}
	}
	if core.IsActionError(err) {
		return ErrorInfo{Kind: KindInvalidAction, Message: err.Error()}
	}
	var gerr *genai.GenerationError
	if errors.As(err, &gerr) {
		return ErrorInfo{Kind: KindGeneration, Message: err.Error()}
	}
	if errors.Is(err, memory.ErrStore) || errors.Is(err, memory.ErrEmbedding) {
		return ErrorInfo{Kind: KindResource, Message: err.Error()}
	}
	return ErrorInfo{Kind: KindInternal, Message: err.Error()}
}

func errorResponse(req Request, err error) Response {
	info := classifyError(err)
	return Response{
		RequestID: req.RequestID,
		Status:    "error",
		MindID:    req.MindID,
		Error:     &info,
	}
}
