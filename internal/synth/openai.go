// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/biogen-engine/internal/httputil"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
// The deployment target is a self-hosted proxy, so the base URL always
// comes from configuration.
type OpenAIClient struct {
	cfg    types.AIConfig
	client *http.Client
}

// NewOpenAIClient builds a client from the synthesis AI configuration.
func NewOpenAIClient(cfg types.AIConfig, client *http.Client) *OpenAIClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIClient{cfg: cfg, client: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string  `json:"type"`
	Function ToolDef `json:"function"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one chat completion call. HTTP 429 responses are
// retried with backoff up to cfg.MaxRetries.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, tools []ToolDef, toolChoice string) (Completion, error) {
	reqBody := chatRequest{
		Model:      c.cfg.Model,
		ToolChoice: toolChoice,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage(m))
	}
	for _, t := range tools {
		reqBody.Tools = append(reqBody.Tools, chatTool{Type: "function", Function: t})
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("marshaling chat request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return Completion{}, fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(detail))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Completion{}, fmt.Errorf("decoding chat response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return Completion{}, fmt.Errorf("chat API returned no choices")
	}

	msg := cResp.Choices[0].Message
	out := Completion{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		call := ToolCall{Name: tc.Function.Name, Arguments: map[string]any{}}
		// Unparsable arguments degrade to an empty map; the tool handler
		// reports the missing fields back as an execution error.
		if tc.Function.Arguments != "" {
			json.Unmarshal([]byte(tc.Function.Arguments), &call.Arguments)
		}
		out.ToolCalls = append(out.ToolCalls, call)
	}
	return out, nil
}
