// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"fmt"

	"github.com/pdiddy/biogen-engine/internal/fetch"
)

// Bind registers the retrieval tools over a fetch service. The tool names
// and argument keys form the contract the model's tool definitions
// advertise; changing either breaks deployed prompts.
func Bind(r *Router, svc *fetch.Service) {
	r.Register("fetch_gene", func(ctx context.Context, args map[string]any) (any, error) {
		query, err := stringArg(args, "gene_query")
		if err != nil {
			return nil, err
		}
		return svc.Gene(ctx, query, boolArg(args, "force_refresh"))
	})

	r.Register("fetch_protein", func(ctx context.Context, args map[string]any) (any, error) {
		query, err := stringArg(args, "query")
		if err != nil {
			return nil, err
		}
		return svc.Protein(ctx, query, boolArg(args, "force_refresh"))
	})

	r.Register("fetch_protein_network", func(ctx context.Context, args map[string]any) (any, error) {
		query, err := stringArg(args, "query")
		if err != nil {
			return nil, err
		}
		withEnrichment := true
		if v, ok := args["with_enrichment"].(bool); ok {
			withEnrichment = v
		}
		return svc.Network(ctx, query, floatArg(args, "min_score"), withEnrichment, boolArg(args, "force_refresh"))
	})

	r.Register("string_get_enrichment", func(ctx context.Context, args map[string]any) (any, error) {
		identifiers := stringSliceArg(args, "identifiers")
		if len(identifiers) == 0 {
			return nil, fmt.Errorf("string_get_enrichment: missing required argument %q", "identifiers")
		}
		categories := stringSliceArg(args, "categories")
		return svc.Enrichment(ctx, identifiers, categories, boolArg(args, "force_refresh"))
	})
}

func stringArg(args map[string]any, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func floatArg(args map[string]any, key string) float64 {
	f, _ := args[key].(float64)
	return f
}

func stringSliceArg(args map[string]any, key string) []string {
	list, _ := args[key].([]any)
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
