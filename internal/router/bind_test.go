// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biogen-engine/internal/fetch"
	"github.com/pdiddy/biogen-engine/internal/gateway"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

func newBoundRouter(t *testing.T, handler http.Handler) *Router {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	origEnsembl := gateway.EnsemblBaseURL
	gateway.EnsemblBaseURL = ts.URL
	t.Cleanup(func() { gateway.EnsemblBaseURL = origEnsembl })

	dir := t.TempDir()
	svc, err := fetch.NewService(types.SourcesConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		Cache:      types.CacheConfig{Dir: filepath.Join(dir, "cache")},
		RecordsDir: filepath.Join(dir, "records"),
		Species:    "human",
	}, nil)
	require.NoError(t, err)

	r := New()
	Bind(r, svc)
	return r
}

func TestBindRegistersRetrievalTools(t *testing.T) {
	r := newBoundRouter(t, http.NotFoundHandler())
	assert.Equal(t,
		[]string{"fetch_gene", "fetch_protein", "fetch_protein_network", "string_get_enrichment"},
		r.Names())
}

func TestBoundFetchGene(t *testing.T) {
	r := newBoundRouter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id": "ENSG00000141510", "display_name": "TP53"}`))
	}))

	got, err := r.Execute(context.Background(), "fetch_gene", map[string]any{"gene_query": "TP53"})
	require.NoError(t, err)

	rec, ok := got.(*types.GeneRecord)
	require.True(t, ok)
	assert.Equal(t, "ENSG00000141510", rec.GeneID)
}

func TestBoundToolMissingRequiredArg(t *testing.T) {
	r := newBoundRouter(t, http.NotFoundHandler())

	_, err := r.Execute(context.Background(), "fetch_gene", map[string]any{})
	assert.ErrorContains(t, err, "gene_query")

	_, err = r.Execute(context.Background(), "string_get_enrichment", map[string]any{})
	assert.ErrorContains(t, err, "identifiers")
}
