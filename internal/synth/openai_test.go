// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biogen-engine/pkg/types"
)

func TestOpenAIClientComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.Equal(t, "auto", req["tool_choice"])
		assert.Len(t, req["tools"], 1)

		w.Write([]byte(`{"choices": [{"message": {"content": "done"}}]}`))
	}))
	defer ts.Close()

	c := NewOpenAIClient(types.AIConfig{
		Model:   "gpt-4o-mini",
		BaseURL: ts.URL + "/v1/",
		APIKey:  "test-key",
	}, ts.Client())

	completion, err := c.Complete(context.Background(),
		[]Message{{Role: "user", Content: "hi"}},
		RetrievalToolDefs()[:1], "auto")
	require.NoError(t, err)
	assert.Equal(t, "done", completion.Text)
	assert.Empty(t, completion.ToolCalls)
}

func TestOpenAIClientParsesToolCalls(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {
			"content": "",
			"tool_calls": [{"function": {"name": "fetch_gene", "arguments": "{\"gene_query\": \"TP53\"}"}}]
		}}]}`))
	}))
	defer ts.Close()

	c := NewOpenAIClient(types.AIConfig{Model: "m", BaseURL: ts.URL}, ts.Client())
	completion, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "plan"}}, RetrievalToolDefs(), "auto")
	require.NoError(t, err)

	require.Len(t, completion.ToolCalls, 1)
	assert.Equal(t, "fetch_gene", completion.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"gene_query": "TP53"}, completion.ToolCalls[0].Arguments)
}

func TestOpenAIClientUnparsableArgumentsDegradeToEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {
			"tool_calls": [{"function": {"name": "fetch_gene", "arguments": "not json"}}]
		}}]}`))
	}))
	defer ts.Close()

	c := NewOpenAIClient(types.AIConfig{Model: "m", BaseURL: ts.URL}, ts.Client())
	completion, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "plan"}}, nil, "")
	require.NoError(t, err)

	require.Len(t, completion.ToolCalls, 1)
	assert.Empty(t, completion.ToolCalls[0].Arguments)
}

func TestOpenAIClientNon200IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := NewOpenAIClient(types.AIConfig{Model: "m", BaseURL: ts.URL}, ts.Client())
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil, "")
	assert.ErrorContains(t, err, "400")
}

func TestOpenAIClientNoChoicesIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	c := NewOpenAIClient(types.AIConfig{Model: "m", BaseURL: ts.URL}, ts.Client())
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil, "")
	assert.ErrorContains(t, err, "no choices")
}
