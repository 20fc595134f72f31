// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteDispatches(t *testing.T) {
	r := New()
	r.Register("echo", func(_ context.Context, args map[string]any) (any, error) {
		return args["msg"], nil
	})

	got, err := r.Execute(context.Background(), "echo", map[string]any{"msg": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestExecuteUnknownToolIsResultNotError(t *testing.T) {
	r := New()
	args := map[string]any{"entity": "TP53"}

	got, err := r.Execute(context.Background(), "no_such_tool", args)
	require.NoError(t, err, "unknown tool must be reported to the model, not raised")

	result, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Unknown tool: no_such_tool", result["error"])
	assert.Equal(t, args, result["arguments"])
}

func TestExecutePropagatesHandlerError(t *testing.T) {
	r := New()
	boom := errors.New("upstream down")
	r.Register("fail", func(context.Context, map[string]any) (any, error) {
		return nil, boom
	})

	_, err := r.Execute(context.Background(), "fail", nil)
	assert.ErrorIs(t, err, boom)
}

func TestNamesSorted(t *testing.T) {
	r := New()
	r.Register("zeta", nil)
	r.Register("alpha", nil)
	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestAsTextStringPassThrough(t *testing.T) {
	assert.Equal(t, "plain", AsText("plain", 0))
}

func TestAsTextRendersJSON(t *testing.T) {
	out := AsText(map[string]any{"gene_id": "ENSG00000141510"}, 0)
	assert.Contains(t, out, `"gene_id": "ENSG00000141510"`)
}

func TestAsTextTruncates(t *testing.T) {
	out := AsText(strings.Repeat("x", 10_000), 0)
	assert.Len(t, out, DefaultTextLimit+len("\n... <truncated>"))
	assert.True(t, strings.HasSuffix(out, "<truncated>"))
}

func TestAsTextUnencodableFallsBack(t *testing.T) {
	out := AsText(func() {}, 0)
	assert.NotEmpty(t, out)
}
