// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import "encoding/json"

// RetrievalToolDefs returns the function-calling definitions for the
// retrieval tools. The names and argument keys must match the router
// bindings exactly; the schemas are what the planning step sees.
func RetrievalToolDefs() []ToolDef {
	return []ToolDef{
		{
			Name:        "fetch_gene",
			Description: "Fetch the Ensembl record for a gene (cached, normalized to disk).",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"gene_query": {"type": "string", "description": "Gene symbol or Ensembl gene ID, e.g. TP53 / ENSG..."},
					"force_refresh": {"type": "boolean", "description": "Bypass the local cache", "default": false}
				},
				"required": ["gene_query"]
			}`),
		},
		{
			Name:        "fetch_protein",
			Description: "Fetch a protein entry from UniProt/EBI Proteins (cached, normalized to disk).",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Gene name or accession, e.g. TP53 / P04637"},
					"force_refresh": {"type": "boolean", "description": "Bypass the local cache", "default": false}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "fetch_protein_network",
			Description: "Fetch the STRING interaction network around a protein, with per-edge enrichment.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Protein or gene name, e.g. TP53"},
					"min_score": {"type": "number", "description": "Minimum combined score for retained edges (0-1)", "default": 0.0},
					"with_enrichment": {"type": "boolean", "description": "Attach enrichment rows to each edge", "default": true},
					"force_refresh": {"type": "boolean", "description": "Bypass the local cache", "default": false}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "string_get_enrichment",
			Description: "Run STRING functional enrichment over a set of proteins/genes, returning structured rows.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"identifiers": {"type": "array", "items": {"type": "string"}, "description": "Protein/gene name list"},
					"categories": {"type": "array", "items": {"type": "string"}, "description": "Category filter, e.g. Process/Pathway/Component/Function/Pubmed"},
					"force_refresh": {"type": "boolean", "description": "Bypass the local cache", "default": false}
				},
				"required": ["identifiers"]
			}`),
		},
	}
}
