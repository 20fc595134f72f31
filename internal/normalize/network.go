// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"sort"

	"github.com/pdiddy/biogen-engine/internal/textutil"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

// Enricher looks up functional-enrichment rows for one edge's endpoint
// pair. Optional; nil disables per-edge enrichment.
type Enricher func(nameA, nameB string) []map[string]any

// Network builds a ProteinNetworkRecord from raw STRING network edges.
// Two filters apply, in order: edges scoring below minScore are dropped,
// and edges where neither endpoint name is within edit distance 2 of the
// seed are dropped — the STRING network endpoint returns the full
// neighborhood including edges between non-seed proteins, and only edges
// touching the seed are evidence about it. Malformed edges (non-object
// rows, non-numeric scores) are skipped silently.
func Network(edges any, seed, taxonID string, minScore float64, enrich Enricher) *types.ProteinNetworkRecord {
	record := &types.ProteinNetworkRecord{
		SeedProtein:  seed,
		TaxonID:      taxonID,
		Interactions: []types.ProteinInteraction{},
		Neighbors:    []string{},
		Raw:          edges,
	}

	list, _ := edges.([]any)
	neighbors := map[string]bool{}

	for _, e := range list {
		edge, ok := e.(map[string]any)
		if !ok {
			continue
		}
		score, ok := numField(edge["score"])
		if !ok || score < minScore {
			continue
		}

		nameA := str(edge["preferredName_A"])
		nameB := str(edge["preferredName_B"])
		if !textutil.Similar(nameA, seed, textutil.DefaultMaxNameDistance) &&
			!textutil.Similar(nameB, seed, textutil.DefaultMaxNameDistance) {
			continue
		}

		taxon := str(edge["ncbiTaxonId"])
		if taxon == "" {
			taxon = taxonID
		}

		inter := types.ProteinInteraction{
			StringIDA:      str(edge["stringId_A"]),
			StringIDB:      str(edge["stringId_B"]),
			PreferredNameA: nameA,
			PreferredNameB: nameB,
			TaxonID:        taxon,
			Score:          score,
			NScore:         floatVal(edge["nscore"]),
			FScore:         floatVal(edge["fscore"]),
			PScore:         floatVal(edge["pscore"]),
			AScore:         floatVal(edge["ascore"]),
			EScore:         floatVal(edge["escore"]),
			DScore:         floatVal(edge["dscore"]),
			TScore:         floatVal(edge["tscore"]),
		}
		if enrich != nil {
			inter.Enrichment = enrich(nameA, nameB)
		}

		record.Interactions = append(record.Interactions, inter)
		neighbors[nameA] = true
		neighbors[nameB] = true
	}

	delete(neighbors, seed)
	for n := range neighbors {
		if n != "" {
			record.Neighbors = append(record.Neighbors, n)
		}
	}
	sort.Strings(record.Neighbors)
	return record
}

// numField reads a JSON number, reporting false for present-but-not-numeric
// values so the caller can skip the row.
func numField(v any) (float64, bool) {
	if v == nil {
		return 0, true
	}
	f, ok := v.(float64)
	return f, ok
}
