// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"net/url"
	"strconv"
	"strings"
)

// StringBaseURL is a var so tests can point the source at a local server.
var StringBaseURL = "https://string-db.org/api"

const (
	// defaultRequiredScore is the STRING combined-score floor (0-1000
	// upstream scale) applied to network queries when no floor is given.
	defaultRequiredScore = 400

	defaultCallerIdentity = "biogen-engine/1.0"
)

// StringDB queries the STRING protein interaction database. Identifier
// resolution and enrichment come back as TSV; network edges come back as
// JSON.
type StringDB struct{}

func (StringDB) Name() string { return "stringdb" }

func (StringDB) BuildRequest(entity, queryType string, opts Options) (Request, error) {
	q := url.Values{}
	q.Set("identifiers", entity)
	if opts.Species != "" {
		q.Set("species", opts.Species)
	}

	switch queryType {
	case "network":
		score := opts.RequiredScore
		if score <= 0 {
			score = defaultRequiredScore
		}
		q.Set("required_score", strconv.Itoa(score))
		return Request{URL: StringBaseURL + "/json/network?" + q.Encode()}, nil

	case "enrichment":
		identity := opts.CallerIdentity
		if identity == "" {
			identity = defaultCallerIdentity
		}
		q.Set("caller_identity", identity)
		return Request{URL: StringBaseURL + "/tsv/enrichment?" + q.Encode(), Accept: "text/plain"}, nil
	}

	// protein, gene, resolve and anything else resolve identifiers first.
	return Request{URL: StringBaseURL + "/tsv/get_string_ids?" + q.Encode(), Accept: "text/plain"}, nil
}

// EnrichmentIdentifiers joins protein names into the multi-identifier
// form the enrichment endpoint expects: carriage-return separated, blank
// entries dropped.
func EnrichmentIdentifiers(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, "\r")
}

// Parse extracts the STRING ID (or preferred name) of the first row or
// edge in the response.
func (StringDB) Parse(p Payload, entity, queryType string) (string, bool) {
	if queryType == "network" {
		if edges, ok := p.Value.([]any); ok && len(edges) > 0 {
			if edge, ok := edges[0].(map[string]any); ok {
				if id, ok := edge["stringId_A"].(string); ok && id != "" {
					return id, true
				}
				if name, ok := edge["preferredName_A"].(string); ok && name != "" {
					return name, true
				}
			}
		}
		if obj, ok := p.Value.(map[string]any); ok {
			if sp, ok := obj["species"].(string); ok && sp != "" {
				return sp, true
			}
		}
		return "", false
	}

	if p.IsText() {
		return parseStringTSV(p.Text)
	}
	if list, ok := p.Value.([]any); ok && len(list) > 0 {
		if row, ok := list[0].(map[string]any); ok {
			if id, ok := row["stringId"].(string); ok && id != "" {
				return id, true
			}
			if name, ok := row["preferredName"].(string); ok && name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// parseStringTSV pulls the first stringId (falling back to preferredName)
// out of a get_string_ids TSV body.
func parseStringTSV(text string) (string, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return "", false
	}

	idIdx, nameIdx := -1, -1
	for i, col := range strings.Split(lines[0], "\t") {
		switch col {
		case "stringId":
			idIdx = i
		case "preferredName":
			nameIdx = i
		}
	}

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if idIdx >= 0 && idIdx < len(cols) && cols[idIdx] != "" {
			return cols[idIdx], true
		}
		if nameIdx >= 0 && nameIdx < len(cols) && cols[nameIdx] != "" {
			return cols[nameIdx], true
		}
	}
	return "", false
}
