// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"github.com/pdiddy/biogen-engine/internal/textutil"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

// Protein builds a ProteinRecord from an EBI Proteins API payload. When
// species is non-empty the entry list is first filtered to entries whose
// organism names are within edit distance 2 of it, which tolerates the
// spelling drift between "homo sapiens" and "Homo sapiens " style inputs.
// The first surviving entry wins; nil when nothing survives.
func Protein(payload any, species string) *types.ProteinRecord {
	records := asObjectList(payload)
	if species != "" {
		records = filterBySpecies(records, species)
	}
	if len(records) == 0 {
		return nil
	}
	rec := records[0]

	org, _ := rec["organism"].(map[string]any)
	info, _ := rec["info"].(map[string]any)
	seq, _ := rec["sequence"].(map[string]any)

	sci, common := organismNames(org)

	entryID := str(rec["id"])
	if entryID == "" {
		entryID = str(rec["uniProtkbId"])
	}

	return &types.ProteinRecord{
		Accession:          str(rec["accession"]),
		EntryID:            entryID,
		ProteinExistence:   str(rec["proteinExistence"]),
		DBType:             str(info["type"]),
		Created:            str(info["created"]),
		Modified:           str(info["modified"]),
		Version:            intVal(info["version"]),
		TaxonomyID:         int64Val(org["taxonomy"]),
		OrganismScientific: sci,
		OrganismCommon:     common,
		Lineage:            stringList(org["lineage"]),
		ProteinName:        proteinName(rec),
		GeneNames:          geneNames(rec),
		Comments:           objectList(rec["comments"]),
		Features:           objectList(rec["features"]),
		Keywords:           keywordValues(rec["keywords"]),
		DBReferences:       objectList(rec["dbReferences"]),
		References:         objectList(rec["references"]),
		SeqVersion:         intVal(seq["version"]),
		SeqLength:          intVal(seq["length"]),
		SeqMass:            int64Val(seq["mass"]),
		SeqModified:        str(seq["modified"]),
		Sequence:           str(seq["sequence"]),
		Raw:                rec,
	}
}

// filterBySpecies keeps entries with at least one organism name within
// edit distance of the requested species.
func filterBySpecies(records []map[string]any, species string) []map[string]any {
	var kept []map[string]any
	for _, rec := range records {
		org, _ := rec["organism"].(map[string]any)
		names, _ := org["names"].([]any)
		for _, n := range names {
			name, _ := n.(map[string]any)
			if textutil.Similar(str(name["value"]), species, textutil.DefaultMaxNameDistance) {
				kept = append(kept, rec)
				break
			}
		}
	}
	return kept
}

// proteinName resolves the display name: submittedName first (the common
// case for unreviewed entries), then recommendedName.
func proteinName(rec map[string]any) string {
	prot, _ := rec["protein"].(map[string]any)
	if sub, ok := prot["submittedName"].([]any); ok && len(sub) > 0 {
		if first, ok := sub[0].(map[string]any); ok {
			if full, ok := first["fullName"].(map[string]any); ok {
				if v := str(full["value"]); v != "" {
					return v
				}
			}
		}
	}
	if recm, ok := prot["recommendedName"].(map[string]any); ok {
		if full, ok := recm["fullName"].(map[string]any); ok {
			if v := str(full["value"]); v != "" {
				return v
			}
		}
	}
	return ""
}

func geneNames(rec map[string]any) []string {
	var out []string
	genes, _ := rec["gene"].([]any)
	for _, g := range genes {
		obj, _ := g.(map[string]any)
		name, _ := obj["name"].(map[string]any)
		if v := str(name["value"]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// organismNames returns the first scientific and common names.
func organismNames(org map[string]any) (sci, common string) {
	names, _ := org["names"].([]any)
	for _, n := range names {
		obj, _ := n.(map[string]any)
		switch str(obj["type"]) {
		case "scientific":
			if sci == "" {
				sci = str(obj["value"])
			}
		case "common":
			if common == "" {
				common = str(obj["value"])
			}
		}
	}
	return sci, common
}

func keywordValues(v any) []string {
	var out []string
	list, _ := v.([]any)
	for _, kw := range list {
		obj, _ := kw.(map[string]any)
		if val := str(obj["value"]); val != "" {
			out = append(out, val)
		}
	}
	return out
}

func asObjectList(payload any) []map[string]any {
	switch v := payload.(type) {
	case []any:
		return objectList(v)
	case map[string]any:
		return []map[string]any{v}
	}
	return nil
}

func objectList(v any) []map[string]any {
	list, _ := v.([]any)
	var out []map[string]any
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func stringList(v any) []string {
	list, _ := v.([]any)
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
