// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biogen-engine/internal/router"
	"github.com/pdiddy/biogen-engine/internal/textutil"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

const (
	// defaultMaxRounds bounds the Plan/Retrieve/Synthesize loop.
	defaultMaxRounds = 3

	// synthesizeOutputLimit truncates the tool output shown to the
	// synthesize step; the full text stays in the evidence log.
	synthesizeOutputLimit = 3500

	// evidenceItemLimit truncates each entry in the formatted evidence
	// summary.
	evidenceItemLimit = 1200
)

var answerBlock = regexp.MustCompile(`(?s)<answer>(.*?)</answer>`)

// MalformedAnalysisError reports that the Analyze step did not return a
// valid tagged JSON block. It is fatal for the item: without a validated
// analysis every later step would inherit an unconstrained premise.
type MalformedAnalysisError struct {
	Reason string
	Raw    string
}

func (e *MalformedAnalysisError) Error() string {
	return fmt.Sprintf("malformed analysis: %s", e.Reason)
}

// Pipeline runs the synthesis steps for task items.
type Pipeline struct {
	ai    Client
	tools *router.Router
	defs  []ToolDef

	maxRounds int
	out       io.Writer
}

// NewPipeline builds a pipeline over an AI client and a tool router. defs
// are the tool definitions offered to the planning step.
func NewPipeline(ai Client, tools *router.Router, defs []ToolDef, cfg types.SynthesisConfig, out io.Writer) *Pipeline {
	maxRounds := cfg.MaxRetrievalRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{ai: ai, tools: tools, defs: defs, maxRounds: maxRounds, out: out}
}

// Run executes the full pipeline for one item. The retrieval loop stops
// early when the model declines to call a tool; tool execution failures
// are recorded as evidence rather than aborting the run, because a failed
// lookup is itself information the later steps can react to.
func (p *Pipeline) Run(ctx context.Context, item types.TaskItem) (*types.TaskArtifact, error) {
	analysis, err := p.analyze(ctx, item)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "analyzed %s\n", item.ID)

	var evidence []types.EvidenceEntry
	var candidates []string

	for round := 0; round < p.maxRounds; round++ {
		call, ok, err := p.plan(ctx, analysis, evidence)
		if err != nil {
			return nil, fmt.Errorf("plan round %d: %w", round+1, err)
		}
		if !ok {
			fmt.Fprintf(p.out, "round %d: no further retrieval\n", round+1)
			break
		}

		output := p.retrieve(ctx, call)
		evidence = append(evidence, types.EvidenceEntry{
			Tool:      call.Name,
			Arguments: call.Arguments,
			Output:    output,
		})
		fmt.Fprintf(p.out, "round %d: %s\n", round+1, call.Name)

		candidate, err := p.synthesize(ctx, analysis, call, output)
		if err != nil {
			return nil, fmt.Errorf("synthesize round %d: %w", round+1, err)
		}
		candidates = append(candidates, candidate)
	}

	artifact := &types.TaskArtifact{
		Analysis:        analysis,
		Candidates:      candidates,
		EvidenceSummary: formatEvidence(evidence),
		Evidence:        evidence,
	}

	// Degenerate run: nothing retrieved, nothing to review. The analysis
	// itself is the best available output.
	if len(candidates) == 0 {
		artifact.Final = analysis
		return artifact, nil
	}

	last := candidates[len(candidates)-1]
	reflection, err := p.reflect(ctx, last, artifact.EvidenceSummary)
	if err != nil {
		return nil, fmt.Errorf("reflect: %w", err)
	}
	artifact.Reflection = reflection

	final, err := p.rewrite(ctx, last, reflection, artifact.EvidenceSummary)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}
	artifact.Final = final
	return artifact, nil
}

// analyze runs step 1 and validates the tagged JSON block.
func (p *Pipeline) analyze(ctx context.Context, item types.TaskItem) (string, error) {
	completion, err := p.ai.Complete(ctx, []Message{
		{Role: "system", Content: analyzeSystem},
		{Role: "user", Content: analyzeUser(item.Question, item.Answer)},
	}, nil, "")
	if err != nil {
		return "", fmt.Errorf("analyze: %w", err)
	}

	m := answerBlock.FindStringSubmatch(completion.Text)
	if m == nil {
		return "", &MalformedAnalysisError{Reason: "missing <answer> block", Raw: completion.Text}
	}
	content := strings.TrimSpace(m[1])

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", &MalformedAnalysisError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: content}
	}
	return content, nil
}

// plan runs step 2. ok=false means the model chose to stop retrieving.
// Only the first tool call counts; one tool per round is the contract the
// planning prompt states.
func (p *Pipeline) plan(ctx context.Context, analysis string, evidence []types.EvidenceEntry) (ToolCall, bool, error) {
	completion, err := p.ai.Complete(ctx, []Message{
		{Role: "system", Content: planSystem},
		{Role: "user", Content: planUser(analysis, formatEvidence(evidence))},
	}, p.defs, "auto")
	if err != nil {
		return ToolCall{}, false, err
	}
	if len(completion.ToolCalls) == 0 {
		return ToolCall{}, false, nil
	}
	return completion.ToolCalls[0], true, nil
}

// retrieve executes one tool call and renders its output. Failures become
// the output text.
func (p *Pipeline) retrieve(ctx context.Context, call ToolCall) string {
	result, err := p.tools.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		fmt.Fprintf(p.out, "  warning: %s: %v\n", call.Name, err)
		return fmt.Sprintf("error: %v", err)
	}
	return router.AsText(result, 0)
}

// synthesize runs step 3 over the current round's evidence only; the
// cumulative log reaches the model later, at reflect and rewrite.
func (p *Pipeline) synthesize(ctx context.Context, analysis string, call ToolCall, output string) (string, error) {
	args, err := json.Marshal(call.Arguments)
	if err != nil {
		args = []byte("{}")
	}
	completion, err := p.ai.Complete(ctx, []Message{
		{Role: "system", Content: synthesizeSystem},
		{Role: "user", Content: synthesizeUser(analysis, call.Name, string(args), textutil.Truncate(output, synthesizeOutputLimit))},
	}, nil, "")
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

func (p *Pipeline) reflect(ctx context.Context, candidate, evidenceSummary string) (string, error) {
	completion, err := p.ai.Complete(ctx, []Message{
		{Role: "system", Content: reflectSystem},
		{Role: "user", Content: reflectUser(candidate, evidenceSummary)},
	}, nil, "")
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

func (p *Pipeline) rewrite(ctx context.Context, candidate, reflection, evidenceSummary string) (string, error) {
	completion, err := p.ai.Complete(ctx, []Message{
		{Role: "system", Content: rewriteSystem},
		{Role: "user", Content: rewriteUser(candidate, reflection, evidenceSummary)},
	}, nil, "")
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

// formatEvidence renders the retrieval log for inclusion in prompts, one
// numbered block per round with per-item truncation.
func formatEvidence(evidence []types.EvidenceEntry) string {
	if len(evidence) == 0 {
		return "<empty>"
	}
	parts := make([]string, 0, len(evidence))
	for i, e := range evidence {
		args, err := json.Marshal(e.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		parts = append(parts, fmt.Sprintf("[%d] tool=%s args=%s\n%s",
			i+1, e.Tool, string(args), textutil.Truncate(e.Output, evidenceItemLimit)))
	}
	return strings.Join(parts, "\n\n")
}

// SaveArtifact writes one artifact as YAML under dir, named by item ID.
func SaveArtifact(dir, itemID string, artifact *types.TaskArtifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(artifact)
	if err != nil {
		return "", fmt.Errorf("marshaling artifact: %w", err)
	}

	path := filepath.Join(dir, textutil.Slug(itemID)+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return path, nil
}
