// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth runs the evidence-bounded synthesis pipeline: Analyze,
// then up to MaxRetrievalRounds of Plan/Retrieve/Synthesize, then Reflect
// and Rewrite. Every model call is independent; no conversation state is
// carried between steps, so each step sees only the text the previous
// steps chose to pass forward.
// Implements: prd005-synthesis (R1-R5);
//
//	docs/ARCHITECTURE § Synthesis Pipeline.
package synth

import (
	"context"
	"encoding/json"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolDef describes one callable tool in OpenAI function-calling form.
// Parameters is a JSON Schema object, kept raw because the pipeline never
// inspects it.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolCall is a model-issued tool invocation.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Completion is the model's reply to one call: free text, tool calls, or
// both.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// Client abstracts the chat completion API so tests can supply a scripted
// model. toolChoice follows the OpenAI convention ("auto" when tools are
// offered, empty otherwise).
type Client interface {
	Complete(ctx context.Context, messages []Message, tools []ToolDef, toolChoice string) (Completion, error)
}
