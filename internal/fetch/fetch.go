// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch combines the data source gateways with the normalizer and
// the record store. It is the implementation behind every retrieval tool
// the synthesis pipeline can call: each fetch consults the record store,
// then the response cache, then the network, and persists the normalized
// record on the way out.
// Implements: prd006-fetch (R1-R4);
//
//	docs/ARCHITECTURE § Retrieval Services.
package fetch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/biogen-engine/internal/cache"
	"github.com/pdiddy/biogen-engine/internal/gateway"
	"github.com/pdiddy/biogen-engine/internal/normalize"
	"github.com/pdiddy/biogen-engine/internal/textutil"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

// species maps the configured species alias to the forms each upstream
// wants: Ensembl takes the alias itself, the Proteins API filter matches
// scientific names, and STRING takes NCBI taxon IDs.
var species = map[string]struct {
	scientific string
	taxon      string
}{
	"human": {"Homo sapiens", "9606"},
	"mouse": {"Mus musculus", "10090"},
	"rat":   {"Rattus norvegicus", "10116"},
}

// Service exposes the retrieval operations over the three gateways.
type Service struct {
	genes    *gateway.Gateway
	proteins *gateway.Gateway
	network  *gateway.Gateway

	cfg types.SourcesConfig
	out io.Writer
}

// NewService opens the per-source caches under cfg.Cache.Dir and builds
// the gateways. Progress and cache warnings go to out.
func NewService(cfg types.SourcesConfig, out io.Writer) (*Service, error) {
	if out == nil {
		out = io.Discard
	}

	stores := make(map[string]*cache.Store, 3)
	for _, src := range []string{"ensembl", "uniprot", "stringdb"} {
		store, err := cache.New(filepath.Join(cfg.Cache.Dir, src), cfg.Cache.TTL, out)
		if err != nil {
			return nil, fmt.Errorf("opening %s cache: %w", src, err)
		}
		stores[src] = store
	}

	return &Service{
		genes:    gateway.New(gateway.Ensembl{}, stores["ensembl"], cfg.HTTPConfig),
		proteins: gateway.New(gateway.UniProt{}, stores["uniprot"], cfg.HTTPConfig),
		network:  gateway.New(gateway.StringDB{}, stores["stringdb"], cfg.HTTPConfig),
		cfg:      cfg,
		out:      out,
	}, nil
}

// Gene resolves a gene symbol or Ensembl ID to a normalized GeneRecord.
// The record store is consulted before the network; the stored record is
// re-keyed under the resolved display name, so a later lookup by symbol
// finds the same record a lookup by alias produced (R1.3).
func (s *Service) Gene(ctx context.Context, query string, forceRefresh bool) (*types.GeneRecord, error) {
	if !forceRefresh {
		var rec types.GeneRecord
		if readRecord(s.recordPath(genesDir, query), &rec) {
			fmt.Fprintf(s.out, "gene: %s (from records)\n", query)
			return &rec, nil
		}
	}

	payload, err := s.genes.Fetch(ctx, query, "gene", gateway.Options{Species: s.cfg.Species}, forceRefresh)
	if err != nil {
		return nil, err
	}

	rec := normalize.Gene(payload.Value)
	if rec == nil || rec.GeneID == "" {
		return nil, fmt.Errorf("no gene entry for %q", query)
	}

	name := rec.DisplayName
	if name == "" {
		name = query
	}
	s.writeRecord(s.recordPath(genesDir, name), rec)
	fmt.Fprintf(s.out, "gene: %s -> %s\n", query, rec.GeneID)
	return rec, nil
}

// Protein resolves a gene name or UniProtKB accession to a normalized
// ProteinRecord, filtered to the configured species. The record is
// re-keyed under the resolved protein name.
func (s *Service) Protein(ctx context.Context, query string, forceRefresh bool) (*types.ProteinRecord, error) {
	if !forceRefresh {
		var rec types.ProteinRecord
		if readRecord(s.recordPath(proteinsDir, query), &rec) {
			fmt.Fprintf(s.out, "protein: %s (from records)\n", query)
			return &rec, nil
		}
	}

	sci := s.scientificName()
	payload, err := s.proteins.Fetch(ctx, query, "protein", gateway.Options{Species: sci}, forceRefresh)
	if err != nil {
		return nil, err
	}

	rec := normalize.Protein(payload.Value, sci)
	if rec == nil || rec.Accession == "" {
		return nil, fmt.Errorf("no protein entry for %q", query)
	}

	name := rec.ProteinName
	if name == "" {
		name = query
	}
	s.writeRecord(s.recordPath(proteinsDir, name), rec)
	fmt.Fprintf(s.out, "protein: %s -> %s\n", query, rec.Accession)
	return rec, nil
}

// Network builds the STRING interaction network around one seed protein,
// filtered by the configured minimum score. When withEnrichment is set
// each retained edge carries the functional-enrichment rows for its two
// endpoints; enrichment failures degrade to edges without enrichment.
func (s *Service) Network(ctx context.Context, query string, minScore float64, withEnrichment, forceRefresh bool) (*types.ProteinNetworkRecord, error) {
	if !forceRefresh {
		var rec types.ProteinNetworkRecord
		if readRecord(s.recordPath(networksDir, query+"_network"), &rec) {
			fmt.Fprintf(s.out, "network: %s (from records)\n", query)
			return &rec, nil
		}
	}

	taxon := s.taxonID()
	payload, err := s.network.Fetch(ctx, query, "network", gateway.Options{Species: taxon}, forceRefresh)
	if err != nil {
		return nil, err
	}

	if minScore <= 0 {
		minScore = s.cfg.MinScore
	}

	var enrich normalize.Enricher
	if withEnrichment {
		enrich = func(a, b string) []map[string]any {
			rows, err := s.Enrichment(ctx, []string{a, b}, nil, false)
			if err != nil {
				fmt.Fprintf(s.out, "  warning: enrichment for %s/%s: %v\n", a, b, err)
				return nil
			}
			return rows
		}
	}

	rec := normalize.Network(payload.Value, query, taxon, minScore, enrich)
	s.writeRecord(s.recordPath(networksDir, query+"_network"), rec)
	fmt.Fprintf(s.out, "network: %s -> %d interactions, %d neighbors\n", query, len(rec.Interactions), len(rec.Neighbors))
	return rec, nil
}

// Enrichment runs STRING functional enrichment over a set of protein or
// gene names, optionally filtered by category.
func (s *Service) Enrichment(ctx context.Context, identifiers, categories []string, forceRefresh bool) ([]map[string]any, error) {
	ids := gateway.EnrichmentIdentifiers(identifiers)
	if ids == "" {
		return nil, nil
	}

	opts := gateway.Options{Species: s.taxonID(), CallerIdentity: s.cfg.CallerIdentity}
	payload, err := s.network.Fetch(ctx, ids, "enrichment", opts, forceRefresh)
	if err != nil {
		return nil, err
	}
	if !payload.IsText() {
		return nil, fmt.Errorf("unexpected enrichment response shape")
	}
	return normalize.Enrichment(payload.Text, categories), nil
}

// ClearCaches empties all three response caches.
func (s *Service) ClearCaches() {
	s.genes.Cache().Clear()
	s.proteins.Cache().Clear()
	s.network.Cache().Clear()
}

func (s *Service) scientificName() string {
	if sp, ok := species[strings.ToLower(s.cfg.Species)]; ok {
		return sp.scientific
	}
	return s.cfg.Species
}

func (s *Service) taxonID() string {
	if sp, ok := species[strings.ToLower(s.cfg.Species)]; ok {
		return sp.taxon
	}
	return s.cfg.Species
}

func (s *Service) recordPath(subdir, name string) string {
	slug := textutil.Slug(strings.ToLower(strings.TrimSpace(name)))
	return filepath.Join(s.cfg.RecordsDir, subdir, slug+".json")
}
