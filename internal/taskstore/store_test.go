// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskstore

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biogen-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.RunStoreConfig{Path: filepath.Join(t.TempDir(), "index", "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testItem() types.TaskItem {
	return types.TaskItem{ID: "hle-001", Question: "Which gene encodes p53?", Answer: "TP53"}
}

func testArtifact() *types.TaskArtifact {
	return &types.TaskArtifact{
		Analysis:        `{"item_paradigm": "single-choice"}`,
		Candidates:      []string{"candidate one", "candidate two"},
		Reflection:      "issue list",
		Final:           "final question citing ENSG00000141510",
		EvidenceSummary: "[1] tool=fetch_gene args={}\nout",
		Evidence: []types.EvidenceEntry{
			{Tool: "fetch_gene", Arguments: map[string]any{"gene_query": "TP53"}, Output: "gene output"},
			{Tool: "fetch_protein", Arguments: map[string]any{"query": "TP53"}, Output: "protein output"},
		},
	}
}

func TestRunIDStable(t *testing.T) {
	a := RunID("hle-001", "final")
	assert.Equal(t, a, RunID("hle-001", "final"))
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, RunID("hle-002", "final"))
	assert.NotEqual(t, a, RunID("hle-001", "other final"))
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	item, artifact := testItem(), testArtifact()

	runID, err := s.SaveRun(context.Background(), item, artifact)
	require.NoError(t, err)
	assert.Equal(t, RunID(item.ID, artifact.Final), runID)

	got, err := s.GetRun(context.Background(), runID)
	require.NoError(t, err)

	assert.Equal(t, item, got.Item)
	assert.Equal(t, artifact.Analysis, got.Artifact.Analysis)
	assert.Equal(t, artifact.Candidates, got.Artifact.Candidates)
	assert.Equal(t, artifact.Reflection, got.Artifact.Reflection)
	assert.Equal(t, artifact.Final, got.Artifact.Final)
	require.Len(t, got.Artifact.Evidence, 2)
	assert.Equal(t, "fetch_gene", got.Artifact.Evidence[0].Tool)
	assert.Equal(t, map[string]any{"gene_query": "TP53"}, got.Artifact.Evidence[0].Arguments)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun(context.Background(), "000000000000")
	assert.ErrorContains(t, err, "not found")
}

func TestSaveRunIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	item, artifact := testItem(), testArtifact()

	id1, err := s.SaveRun(context.Background(), item, artifact)
	require.NoError(t, err)
	id2, err := s.SaveRun(context.Background(), item, artifact)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1, "re-saving the same outcome must not duplicate the run")
	assert.Equal(t, 2, runs[0].Candidates)
	assert.Equal(t, 2, runs[0].Evidence)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	_, err := s.SaveRun(context.Background(), types.TaskItem{ID: "a"}, &types.TaskArtifact{Final: "first"})
	require.NoError(t, err)

	s.now = func() time.Time { return t0.Add(time.Hour) }
	_, err = s.SaveRun(context.Background(), types.TaskItem{ID: "b"}, &types.TaskArtifact{Final: "second"})
	require.NoError(t, err)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ItemID)
	assert.Equal(t, "a", runs[1].ItemID)
}

func TestSearchMatchesFinalText(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveRun(context.Background(), types.TaskItem{ID: "a"},
		&types.TaskArtifact{Final: "question about apoptosis regulation"})
	require.NoError(t, err)
	_, err = s.SaveRun(context.Background(), types.TaskItem{ID: "b"},
		&types.TaskArtifact{Final: "question about kinase signaling"})
	require.NoError(t, err)

	runs, err := s.Search(context.Background(), "apoptosis")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].ItemID)

	runs, err = s.Search(context.Background(), "question")
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestExportYAMLRoundTrips(t *testing.T) {
	s := newTestStore(t)
	item, artifact := testItem(), testArtifact()

	runID, err := s.SaveRun(context.Background(), item, artifact)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), runID, &buf))

	var got Run
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, runID, got.ID)
	assert.Equal(t, item.Question, got.Item.Question)
	assert.Equal(t, artifact.Final, got.Artifact.Final)
}
