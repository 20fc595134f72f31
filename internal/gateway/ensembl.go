// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// EnsemblBaseURL is a var so tests can point the source at a local server.
var EnsemblBaseURL = "https://rest.ensembl.org"

// ensemblSpecies maps common species aliases to Ensembl production names.
// Unknown aliases fall back to human, which is what the vast majority of
// queries mean.
var ensemblSpecies = map[string]string{
	"human": "homo_sapiens",
	"mouse": "mus_musculus",
	"rat":   "rattus_norvegicus",
}

var ensgPattern = regexp.MustCompile(`(ENSG\d+)`)

// Ensembl resolves gene symbols and stable IDs through the Ensembl REST
// lookup endpoints.
type Ensembl struct{}

func (Ensembl) Name() string { return "ensembl" }

// BuildRequest maps gene-oriented query types onto /lookup/symbol and the
// "lookup_id" type onto /lookup/id with children expanded.
func (Ensembl) BuildRequest(entity, queryType string, opts Options) (Request, error) {
	if queryType == "lookup_id" {
		return Request{URL: fmt.Sprintf("%s/lookup/id/%s?expand=1", EnsemblBaseURL, url.PathEscape(entity))}, nil
	}

	// gene, expression, tissue and anything else all start from a symbol
	// lookup; the stable ID is the pivot for every downstream query.
	species := "homo_sapiens"
	if opts.Species != "" {
		if mapped, ok := ensemblSpecies[strings.ToLower(opts.Species)]; ok {
			species = mapped
		}
	}
	return Request{URL: fmt.Sprintf("%s/lookup/symbol/%s/%s", EnsemblBaseURL, species, url.PathEscape(entity))}, nil
}

// Parse prefers the ENSG stable ID for gene and expression queries, then
// falls back to the display name, an ENSG embedded in the description, or
// the raw id field. Lists are parsed by their first element.
func (e Ensembl) Parse(p Payload, entity, queryType string) (string, bool) {
	if list, ok := p.Value.([]any); ok {
		if len(list) == 0 {
			return "", false
		}
		return e.Parse(Payload{Value: list[0]}, entity, queryType)
	}

	obj, ok := p.Value.(map[string]any)
	if !ok {
		return "", false
	}

	if queryType == "gene" || queryType == "expression" {
		for _, field := range []string{"id", "stable_id", "gene_id", "ensembl_gene_id"} {
			if id, ok := obj[field].(string); ok && strings.HasPrefix(id, "ENSG") {
				return id, true
			}
		}
	}

	if name, ok := obj["display_name"].(string); ok && name != "" {
		return name, true
	}
	if desc, ok := obj["description"].(string); ok {
		if m := ensgPattern.FindString(desc); m != "" {
			return m, true
		}
	}
	if id, ok := obj["id"].(string); ok && id != "" {
		return id, true
	}
	return "", false
}
