// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strconv"
	"strings"
)

// enrichmentFloatFields and enrichmentIntFields name the TSV columns that
// carry numbers. STRING varies the header casing across categories, so
// matching is case-insensitive.
var (
	enrichmentFloatFields = map[string]bool{
		"p_value": true, "pvalue": true, "fdr": true,
		"false_discovery_rate": true, "strength": true,
	}
	enrichmentIntFields = map[string]bool{
		"number_of_genes": true, "n_genes": true,
		"input_number": true, "bg_number": true,
	}
)

// Enrichment parses a STRING /tsv/enrichment body into one map per row,
// keyed by the header columns. Known numeric columns are cast; values
// that fail to parse stay as strings. When categories is non-empty only
// rows whose category matches one of them (case-insensitive) are kept.
func Enrichment(tsv string, categories []string) []map[string]any {
	lines := nonEmptyLines(tsv)
	if len(lines) < 2 {
		return nil
	}

	header := strings.Split(lines[0], "\t")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]any
	for _, line := range lines[1:] {
		cols := strings.Split(line, "\t")
		row := make(map[string]any, len(header))
		for i, key := range header {
			val := ""
			if i < len(cols) {
				val = cols[i]
			}
			row[key] = castEnrichmentValue(key, val)
		}
		rows = append(rows, row)
	}

	if len(categories) == 0 {
		return rows
	}

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[strings.ToLower(c)] = true
	}
	var kept []map[string]any
	for _, row := range rows {
		if wanted[strings.ToLower(rowCategory(row))] {
			kept = append(kept, row)
		}
	}
	return kept
}

func castEnrichmentValue(key, val string) any {
	lk := strings.ToLower(key)
	if enrichmentFloatFields[lk] {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		return val
	}
	if enrichmentIntFields[lk] {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
		return val
	}
	return val
}

func rowCategory(row map[string]any) string {
	if c, ok := row["category"].(string); ok {
		return c
	}
	if c, ok := row["Category"].(string); ok {
		return c
	}
	return ""
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
