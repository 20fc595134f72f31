// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TaskItem is one source question/answer pair the synthesis pipeline works
// from. Per prd005-synthesis R1.1.
type TaskItem struct {
	// ID identifies the item within its dataset.
	ID string `json:"id" yaml:"id"`

	// Question is the source question text.
	Question string `json:"question" yaml:"question"`

	// Answer is the canonical answer.
	Answer string `json:"answer" yaml:"answer"`
}

// EvidenceEntry is one retrieval round's tool invocation and output.
// The evidence log is append-only and ordered by retrieval round; it is
// never reordered or deduplicated. Per prd005-synthesis R2.3.
type EvidenceEntry struct {
	// Tool is the capability name that was invoked.
	Tool string `json:"tool" yaml:"tool"`

	// Arguments is the flat argument mapping passed to the tool.
	Arguments map[string]any `json:"arguments" yaml:"arguments"`

	// Output is the tool's textual output. Failed invocations record the
	// error message here so downstream steps can reason about the failure.
	Output string `json:"output" yaml:"output"`
}

// TaskArtifact is the synthesis pipeline's output for one TaskItem,
// immutable once the run terminates. Per prd005-synthesis R4.1-R4.3.
type TaskArtifact struct {
	// Analysis is the validated JSON analysis of the source item.
	Analysis string `json:"analysis" yaml:"analysis"`

	// Candidates holds one candidate question/answer/rationale per
	// retrieval round, in round order.
	Candidates []string `json:"candidates" yaml:"candidates"`

	// Reflection is the review pass over the last candidate; empty when
	// no candidate was produced.
	Reflection string `json:"reflection,omitempty" yaml:"reflection,omitempty"`

	// Final is the rewritten artifact text. When no retrieval round
	// produced a candidate it degenerates to the analysis text.
	Final string `json:"final" yaml:"final"`

	// EvidenceSummary is the formatted cumulative evidence log.
	EvidenceSummary string `json:"evidence_summary" yaml:"evidence_summary"`

	// Evidence is the raw retrieval log backing EvidenceSummary.
	Evidence []EvidenceEntry `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}
