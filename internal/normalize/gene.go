// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw upstream payloads into the stable record
// types the rest of the engine consumes. Normalization is lossy on
// purpose: records carry the fields the synthesis pipeline cites, plus
// the verbatim payload in Raw for auditing.
// Implements: prd003-normalize (R1-R4);
//
//	docs/ARCHITECTURE § Normalizer.
package normalize

import "github.com/pdiddy/biogen-engine/pkg/types"

// Gene builds a GeneRecord from an Ensembl lookup payload. A list payload
// normalizes by its first element; a payload with no usable object yields
// nil.
func Gene(payload any) *types.GeneRecord {
	obj := asObject(payload)
	if obj == nil {
		return nil
	}

	return &types.GeneRecord{
		GeneID:              str(obj["id"]),
		DisplayName:         str(obj["display_name"]),
		Description:         str(obj["description"]),
		Source:              str(obj["source"]),
		Version:             intVal(obj["version"]),
		Start:               int64Val(obj["start"]),
		End:                 int64Val(obj["end"]),
		Strand:              intVal(obj["strand"]),
		SeqRegionName:       str(obj["seq_region_name"]),
		Biotype:             str(obj["biotype"]),
		Species:             str(obj["species"]),
		AssemblyName:        str(obj["assembly_name"]),
		CanonicalTranscript: str(obj["canonical_transcript"]),
		LogicName:           str(obj["logic_name"]),
		DBType:              str(obj["db_type"]),
		ObjectType:          str(obj["object_type"]),
		Raw:                 obj,
	}
}

// asObject unwraps a JSON payload to its first object: maps pass through,
// lists contribute their first map element.
func asObject(payload any) map[string]any {
	switch v := payload.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj
			}
		}
	}
	return nil
}

// str reads a JSON value as a string, tolerating absence.
func str(v any) string {
	s, _ := v.(string)
	return s
}

// intVal reads a JSON number as an int. JSON decoding yields float64.
func intVal(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func int64Val(v any) int64 {
	f, _ := v.(float64)
	return int64(f)
}

func floatVal(v any) float64 {
	f, _ := v.(float64)
	return f
}
