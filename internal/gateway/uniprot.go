// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// ProteinsBaseURL is a var so tests can point the source at a local server.
var ProteinsBaseURL = "https://www.ebi.ac.uk/proteins/api"

// UniProt queries the EBI Proteins REST API for protein entries and
// sequence feature annotations.
type UniProt struct{}

func (UniProt) Name() string { return "uniprot" }

// BuildRequest maps protein/isoform queries onto /proteins (by accession
// when the entity looks like one, by gene name otherwise) and feature
// queries onto /features/{accession}.
func (UniProt) BuildRequest(entity, queryType string, opts Options) (Request, error) {
	switch queryType {
	case "protein", "isoform", "":
		q := url.Values{}
		switch {
		case opts.Accession != "":
			q.Set("accession", opts.Accession)
		case looksLikeAccession(entity):
			q.Set("accession", entity)
		default:
			q.Set("gene", entity)
		}
		return Request{URL: ProteinsBaseURL + "/proteins?" + q.Encode()}, nil

	case "feature":
		acc := opts.Accession
		if acc == "" && looksLikeAccession(entity) {
			acc = entity
		}
		if acc == "" {
			return Request{}, fmt.Errorf("feature query for %q needs a UniProtKB accession", entity)
		}
		u := ProteinsBaseURL + "/features/" + url.PathEscape(acc)
		if opts.FeatureTypes != "" {
			q := url.Values{}
			q.Set("types", opts.FeatureTypes)
			u += "?" + q.Encode()
		}
		return Request{URL: u}, nil
	}
	return Request{}, fmt.Errorf("unsupported uniprot query type %q", queryType)
}

// Parse returns the accession of the first matching entry for protein
// queries, and the first feature's type for feature queries.
func (UniProt) Parse(p Payload, entity, queryType string) (string, bool) {
	list, ok := p.Value.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return "", false
	}

	if queryType == "feature" {
		if t, ok := first["type"].(string); ok && t != "" {
			return t, true
		}
		return "", false
	}

	if acc, ok := first["accession"].(string); ok && acc != "" {
		return acc, true
	}
	return "", false
}

// looksLikeAccession is a naive UniProtKB accession check: 6 or 10
// alphanumeric-leading characters, with an optional isoform suffix.
func looksLikeAccession(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	head, _, _ := strings.Cut(s, "-")
	if len(head) != 6 && len(head) != 10 {
		return false
	}
	c := head[0]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
