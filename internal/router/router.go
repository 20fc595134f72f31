// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router dispatches model-issued tool calls to the retrieval
// services. The mapping is built explicitly at startup; there is no
// global registry, so a test can wire a router with exactly the handlers
// it wants to observe.
// Implements: prd004-router (R1-R3);
//
//	docs/ARCHITECTURE § Tool Router.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pdiddy/biogen-engine/internal/textutil"
)

// DefaultTextLimit caps rendered tool output fed back to the model.
const DefaultTextLimit = 6000

// Handler executes one tool call. Errors propagate to the caller; the
// pipeline records them as evidence rather than aborting the run.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Router maps tool names to handlers.
type Router struct {
	handlers map[string]Handler
}

// New returns an empty router.
func New() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds a handler to a tool name, replacing any previous binding.
func (r *Router) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Names returns the registered tool names, sorted.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute dispatches one tool call. An unknown tool name is not an error:
// the model chose it, so the mistake is reported back to the model as a
// structured result it can recover from (R2.2). Handler errors propagate.
func (r *Router) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return map[string]any{
			"error":     fmt.Sprintf("Unknown tool: %s", name),
			"arguments": args,
		}, nil
	}
	return h(ctx, args)
}

// AsText renders a tool result for inclusion in a model prompt: strings
// pass through, everything else becomes indented JSON, and anything
// unencodable falls back to its Go string form. Output beyond limit is
// truncated with a marker; limit <= 0 applies DefaultTextLimit.
func AsText(v any, limit int) string {
	if limit <= 0 {
		limit = DefaultTextLimit
	}

	s, ok := v.(string)
	if !ok {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			s = fmt.Sprintf("%v", v)
		} else {
			s = string(data)
		}
	}
	return textutil.Truncate(s, limit)
}
