// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import "fmt"

// The five step prompts. Each step is a fresh conversation: one system
// prompt, one user prompt. The evidence-bounded constraint is restated in
// every system prompt because no state carries between calls.

const analyzeSystem = `Role: biomedical exam-item analyst (academic style).
Task: given a question and its reference answer, produce an academic
breakdown under a strict material constraint: identify the item paradigm,
the core knowledge elements, the retrieval directions that would support
similar items, and the information needed to synthesize comparable items.

Methodological requirements:
- Evidence-bounded: reason only from the provided text. Do not introduce
  outside knowledge or commonsense inference.
- Structured and reusable: output must be well-formed JSON with precise
  terminology, suitable for downstream retrieval and item generation.

Return the result strictly inside <answer></answer> tags as JSON of the form:

<answer>
{
  "item_paradigm": "<single-choice/multiple-choice/short-answer/reasoning/other>",
  "core_elements": [
    "<concepts, entities, relations or constraints drawn only from the question/answer>"
  ],
  "retrieval_directions": [
    {
      "direction": "<review concept / recent research / database fact>",
      "justification": "<why it corresponds to the item>"
    }
  ],
  "synthesis_requirements": [
    {
      "information": "<material needed to generate a comparable item>",
      "justification": "<why this information is necessary>"
    }
  ]
}
</answer>`

const planSystem = `Role: retrieval and evidence-selection assistant (academic style).
Goal: based on the analysis summary and the evidence gathered so far, make
a minimal-sufficient retrieval decision and execute it.
Strategy hints:
- Structured database facts: fetch_gene / fetch_protein /
  fetch_protein_network / string_get_enrichment.
Constraints: call at most one tool per round. If the current evidence
already suffices, give a concise academic justification for stopping and
do not issue a function call.`

const synthesizeSystem = `Role: academic item generator (evidence-bounded).
Principle: construct the item and its answer only from the tool output
text and the analysis summary. Do not introduce knowledge beyond the
evidence.
Quality bar: rigorous wording, internally consistent, verifiable directly
against the evidence, with a unique decidable answer (or an explicit
decision criterion).
Output:
- Candidate question: <stem>
- Candidate answer: <answer/options>
- Candidate rationale: <point-by-point mapping to the evidence, quoting
  key phrases where necessary>`

const reflectSystem = `Role: methodological reviewer (academic peer review).
Task: evaluate the candidate item for clarity, logical and causal
consistency, evidence adherence, and verifiability. Flag any sentence or
claim that exceeds the evidence, and propose actionable, traceable fixes.
Output:
- Issue list: <itemized, pointing at specific wording>
- Methodological suggestions: <itemized, directly usable for rewriting>`

const rewriteSystem = `Role: final-version editor (editorial integration).
Goal: apply the review suggestions under the strict evidence-bounded
constraint and produce a publishable final version. For suggestions that
exceed the evidence, briefly state why they were not adopted and offer an
in-evidence alternative.
Output:
- Final question: <stem>
- Final answer: <answer>
- Final rationale: <point-by-point mapping to the evidence, quoting the
  source where necessary>`

func analyzeUser(question, answer string) string {
	return fmt.Sprintf("[Step 1 | Academic analysis]\nSubject of study:\n- Question:\n%s\n\n- Reference answer: %s\n", question, answer)
}

func planUser(analysisSummary, evidenceSummary string) string {
	return fmt.Sprintf("[Step 2 | Retrieval decision]\nAnalysis summary:\n%s\n\nEvidence so far (may be empty):\n%s\n\n"+
		"Decide whether further retrieval is needed. If so, choose the single most suitable tool and return the call via function calling;\n"+
		"if not, give a concise academic justification without issuing a function call.\n"+
		"Reference: database facts via fetch_gene / fetch_protein / fetch_protein_network / string_get_enrichment\n",
		analysisSummary, evidenceSummary)
}

func synthesizeUser(analysisSummary, toolName, toolArgs, toolOutput string) string {
	return fmt.Sprintf("[Step 3 | Evidence-bounded item generation]\nEvidence:\n- Analysis summary:\n%s\n\n- Tool: %s\n- Arguments: %s\n- Output text (possibly truncated):\n%s\n\n"+
		"Under the evidence-bounded principle output:\n- Candidate question:\n- Candidate answer:\n- Candidate rationale (point-by-point against the evidence):\n",
		analysisSummary, toolName, toolArgs, toolOutput)
}

func reflectUser(candidate, evidenceSummary string) string {
	return fmt.Sprintf("[Step 4 | Methodological review]\nCandidate question:\n%s\n\nEvidence summary:\n%s\n\n"+
		"Assess clarity, logical consistency, evidence adherence and verifiability, and provide:\n- Issue list:\n- Methodological suggestions:\n",
		candidate, evidenceSummary)
}

func rewriteUser(candidate, reflect, evidenceSummary string) string {
	return fmt.Sprintf("[Step 5 | Final integration]\nCandidate question:\n%s\n\nReview suggestions:\n%s\n\nEvidence summary:\n%s\n\n"+
		"Produce the final version within the evidence boundary:\n- Final question:\n- Final answer:\n- Final rationale (mapped point-by-point to the evidence):\n",
		candidate, reflect, evidenceSummary)
}
