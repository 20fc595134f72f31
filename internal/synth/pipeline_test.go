// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biogen-engine/internal/router"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

const analysisText = `<answer>{"item_paradigm": "single-choice", "core_elements": ["TP53"]}</answer>`

// scriptedClient replays a fixed sequence of completions and records the
// calls it saw.
type scriptedClient struct {
	completions []Completion
	err         error
	calls       []struct {
		system     string
		user       string
		toolChoice string
		tools      int
	}
}

func (c *scriptedClient) Complete(_ context.Context, messages []Message, tools []ToolDef, toolChoice string) (Completion, error) {
	c.calls = append(c.calls, struct {
		system     string
		user       string
		toolChoice string
		tools      int
	}{messages[0].Content, messages[1].Content, toolChoice, len(tools)})

	if c.err != nil {
		return Completion{}, c.err
	}
	if len(c.completions) == 0 {
		return Completion{}, errors.New("scripted client exhausted")
	}
	next := c.completions[0]
	c.completions = c.completions[1:]
	return next, nil
}

func geneRouter(t *testing.T) *router.Router {
	t.Helper()
	r := router.New()
	r.Register("fetch_gene", func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"gene_id": "ENSG00000141510", "display_name": args["gene_query"]}, nil
	})
	return r
}

func item() types.TaskItem {
	return types.TaskItem{ID: "hle-001", Question: "Which gene encodes p53?", Answer: "TP53"}
}

func toolCall(name string, args map[string]any) Completion {
	return Completion{ToolCalls: []ToolCall{{Name: name, Arguments: args}}}
}

func TestRunFullPipeline(t *testing.T) {
	client := &scriptedClient{completions: []Completion{
		{Text: analysisText},
		toolCall("fetch_gene", map[string]any{"gene_query": "TP53"}),
		{Text: "Candidate question about ENSG00000141510"},
		{Text: "no further retrieval needed"}, // second plan declines
		{Text: "Issue list: none"},
		{Text: "Final question citing ENSG00000141510"},
	}}

	p := NewPipeline(client, geneRouter(t), RetrievalToolDefs(), types.SynthesisConfig{}, nil)
	artifact, err := p.Run(context.Background(), item())
	require.NoError(t, err)

	assert.Contains(t, artifact.Analysis, "single-choice")
	require.Len(t, artifact.Candidates, 1)
	assert.Contains(t, artifact.Candidates[0], "ENSG00000141510")
	assert.Equal(t, "Issue list: none", artifact.Reflection)
	assert.Contains(t, artifact.Final, "ENSG00000141510")

	require.Len(t, artifact.Evidence, 1)
	assert.Equal(t, "fetch_gene", artifact.Evidence[0].Tool)
	assert.Contains(t, artifact.Evidence[0].Output, "ENSG00000141510")
	assert.Contains(t, artifact.EvidenceSummary, "[1] tool=fetch_gene")
}

func TestRunStopsAtMaxRounds(t *testing.T) {
	// The model asks for a tool on every plan call; the loop must stop
	// after exactly MaxRetrievalRounds rounds anyway.
	completions := []Completion{{Text: analysisText}}
	for i := 0; i < 10; i++ {
		completions = append(completions,
			toolCall("fetch_gene", map[string]any{"gene_query": "TP53"}),
			Completion{Text: fmt.Sprintf("candidate %d", i+1)},
		)
	}
	completions = append(completions,
		Completion{Text: "reflection"},
		Completion{Text: "final"},
	)
	client := &scriptedClient{completions: completions}

	p := NewPipeline(client, geneRouter(t), RetrievalToolDefs(), types.SynthesisConfig{MaxRetrievalRounds: 3}, nil)
	artifact, err := p.Run(context.Background(), item())
	require.NoError(t, err)

	assert.Len(t, artifact.Candidates, 3)
	assert.Len(t, artifact.Evidence, 3)
	assert.Equal(t, "final", artifact.Final)
}

func TestRunDegeneratesWithoutCandidates(t *testing.T) {
	client := &scriptedClient{completions: []Completion{
		{Text: analysisText},
		{Text: "existing material suffices"}, // plan declines immediately
	}}

	p := NewPipeline(client, geneRouter(t), RetrievalToolDefs(), types.SynthesisConfig{}, nil)
	artifact, err := p.Run(context.Background(), item())
	require.NoError(t, err)

	assert.Empty(t, artifact.Candidates)
	assert.Empty(t, artifact.Reflection)
	assert.Equal(t, artifact.Analysis, artifact.Final, "degenerate run falls back to the analysis")
	assert.Equal(t, "<empty>", artifact.EvidenceSummary)
	// Reflect and rewrite were never called.
	assert.Len(t, client.calls, 2)
}

func TestRunMalformedAnalysisIsFatal(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing answer block", "no tags here"},
		{"invalid json", "<answer>{not json}</answer>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{completions: []Completion{{Text: tt.text}}}
			p := NewPipeline(client, geneRouter(t), nil, types.SynthesisConfig{}, nil)

			_, err := p.Run(context.Background(), item())
			var malformed *MalformedAnalysisError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestRunRecordsToolErrorAsEvidence(t *testing.T) {
	r := router.New()
	r.Register("fetch_gene", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("upstream down")
	})

	client := &scriptedClient{completions: []Completion{
		{Text: analysisText},
		toolCall("fetch_gene", map[string]any{"gene_query": "TP53"}),
		{Text: "candidate built from the failure"},
		{Text: "stop"},
		{Text: "reflection"},
		{Text: "final"},
	}}

	p := NewPipeline(client, r, RetrievalToolDefs(), types.SynthesisConfig{}, nil)
	artifact, err := p.Run(context.Background(), item())
	require.NoError(t, err, "tool failure must not abort the run")

	require.Len(t, artifact.Evidence, 1)
	assert.Equal(t, "error: upstream down", artifact.Evidence[0].Output)
}

func TestRunUnknownToolBecomesEvidence(t *testing.T) {
	client := &scriptedClient{completions: []Completion{
		{Text: analysisText},
		toolCall("reactome_query", map[string]any{"entity": "TP53"}),
		{Text: "candidate"},
		{Text: "stop"},
		{Text: "reflection"},
		{Text: "final"},
	}}

	p := NewPipeline(client, geneRouter(t), RetrievalToolDefs(), types.SynthesisConfig{}, nil)
	artifact, err := p.Run(context.Background(), item())
	require.NoError(t, err)

	require.Len(t, artifact.Evidence, 1)
	assert.Contains(t, artifact.Evidence[0].Output, "Unknown tool: reactome_query")
}

func TestPlanOffersToolsOnlyToPlanStep(t *testing.T) {
	client := &scriptedClient{completions: []Completion{
		{Text: analysisText},
		toolCall("fetch_gene", map[string]any{"gene_query": "TP53"}),
		{Text: "candidate"},
		{Text: "stop"},
		{Text: "reflection"},
		{Text: "final"},
	}}

	p := NewPipeline(client, geneRouter(t), RetrievalToolDefs(), types.SynthesisConfig{}, nil)
	_, err := p.Run(context.Background(), item())
	require.NoError(t, err)

	// analyze, plan, synthesize, plan, reflect, rewrite
	require.Len(t, client.calls, 6)
	assert.Zero(t, client.calls[0].tools, "analyze gets no tools")
	assert.Equal(t, len(RetrievalToolDefs()), client.calls[1].tools)
	assert.Equal(t, "auto", client.calls[1].toolChoice)
	assert.Zero(t, client.calls[2].tools, "synthesize gets no tools")
	assert.Zero(t, client.calls[4].tools, "reflect gets no tools")
}

func TestSynthesizeSeesOnlyCurrentRoundOutput(t *testing.T) {
	r := router.New()
	round := 0
	r.Register("fetch_gene", func(context.Context, map[string]any) (any, error) {
		round++
		return fmt.Sprintf("output-round-%d", round), nil
	})

	client := &scriptedClient{completions: []Completion{
		{Text: analysisText},
		toolCall("fetch_gene", nil),
		{Text: "candidate 1"},
		toolCall("fetch_gene", nil),
		{Text: "candidate 2"},
		{Text: "stop"},
		{Text: "reflection"},
		{Text: "final"},
	}}

	p := NewPipeline(client, r, RetrievalToolDefs(), types.SynthesisConfig{}, nil)
	_, err := p.Run(context.Background(), item())
	require.NoError(t, err)

	secondSynth := client.calls[4].user
	assert.Contains(t, secondSynth, "output-round-2")
	assert.NotContains(t, secondSynth, "output-round-1", "synthesize must see only the current round")

	// The cumulative log reaches reflect.
	reflectUser := client.calls[6].user
	assert.Contains(t, reflectUser, "output-round-1")
	assert.Contains(t, reflectUser, "output-round-2")
}

func TestFormatEvidenceTruncatesPerItem(t *testing.T) {
	evidence := []types.EvidenceEntry{
		{Tool: "fetch_gene", Arguments: map[string]any{"gene_query": "TP53"}, Output: strings.Repeat("x", 5000)},
		{Tool: "fetch_protein", Arguments: map[string]any{}, Output: "short"},
	}

	summary := formatEvidence(evidence)
	assert.Contains(t, summary, `[1] tool=fetch_gene args={"gene_query":"TP53"}`)
	assert.Contains(t, summary, "[2] tool=fetch_protein")
	assert.Contains(t, summary, "<truncated>")
	assert.Less(t, len(summary), 5000)
}

func TestSaveArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	artifact := &types.TaskArtifact{
		Analysis:        `{"item_paradigm": "single-choice"}`,
		Candidates:      []string{"candidate"},
		Reflection:      "issues",
		Final:           "final text",
		EvidenceSummary: "[1] tool=fetch_gene args={}\nout",
		Evidence:        []types.EvidenceEntry{{Tool: "fetch_gene", Output: "out"}},
	}

	path, err := SaveArtifact(dir, "hle 001/x", artifact)
	require.NoError(t, err)
	assert.Equal(t, "hle_001_x.yaml", strings.TrimPrefix(path, dir+"/"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.TaskArtifact
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, artifact.Final, got.Final)
	assert.Equal(t, artifact.Evidence, got.Evidence)
}
