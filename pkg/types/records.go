// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GeneRecord is an immutable snapshot of one Ensembl gene entry at fetch
// time. Normalized fields are derived from the upstream payload and may be
// empty when the payload lacks them; Raw keeps the verbatim upstream
// response for auditability. Per prd003-normalize R1.1-R1.3.
type GeneRecord struct {
	// GeneID is the Ensembl stable ID (e.g. "ENSG00000141510").
	GeneID string `json:"gene_id" yaml:"gene_id"`

	// DisplayName is the gene symbol (e.g. "TP53").
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	Version     int    `json:"version,omitempty" yaml:"version,omitempty"`

	// Start/End/Strand/SeqRegionName locate the gene on the assembly.
	Start         int64  `json:"start,omitempty" yaml:"start,omitempty"`
	End           int64  `json:"end,omitempty" yaml:"end,omitempty"`
	Strand        int    `json:"strand,omitempty" yaml:"strand,omitempty"`
	SeqRegionName string `json:"seq_region_name,omitempty" yaml:"seq_region_name,omitempty"`

	Biotype             string `json:"biotype,omitempty" yaml:"biotype,omitempty"`
	Species             string `json:"species,omitempty" yaml:"species,omitempty"`
	AssemblyName        string `json:"assembly_name,omitempty" yaml:"assembly_name,omitempty"`
	CanonicalTranscript string `json:"canonical_transcript,omitempty" yaml:"canonical_transcript,omitempty"`
	LogicName           string `json:"logic_name,omitempty" yaml:"logic_name,omitempty"`
	DBType              string `json:"db_type,omitempty" yaml:"db_type,omitempty"`
	ObjectType          string `json:"object_type,omitempty" yaml:"object_type,omitempty"`

	// Raw is the verbatim upstream payload.
	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// ProteinRecord is an immutable snapshot of one UniProt/EBI Proteins entry.
// Per prd003-normalize R2.1-R2.4.
type ProteinRecord struct {
	// Accession is the primary UniProtKB accession (e.g. "P04637").
	Accession string `json:"accession" yaml:"accession"`

	// EntryID is the UniProt entry name (e.g. "P53_HUMAN").
	EntryID          string `json:"entry_id,omitempty" yaml:"entry_id,omitempty"`
	ProteinExistence string `json:"protein_existence,omitempty" yaml:"protein_existence,omitempty"`

	// Entry info block.
	DBType   string `json:"db_type,omitempty" yaml:"db_type,omitempty"`
	Created  string `json:"created,omitempty" yaml:"created,omitempty"`
	Modified string `json:"modified,omitempty" yaml:"modified,omitempty"`
	Version  int    `json:"version,omitempty" yaml:"version,omitempty"`

	// Organism block.
	TaxonomyID         int64    `json:"taxonomy_id,omitempty" yaml:"taxonomy_id,omitempty"`
	OrganismScientific string   `json:"organism_scientific,omitempty" yaml:"organism_scientific,omitempty"`
	OrganismCommon     string   `json:"organism_common,omitempty" yaml:"organism_common,omitempty"`
	Lineage            []string `json:"lineage,omitempty" yaml:"lineage,omitempty"`

	// ProteinName is the display name, resolved through the fallback
	// chain submittedName → recommendedName (absent when neither exists).
	ProteinName string   `json:"protein_name,omitempty" yaml:"protein_name,omitempty"`
	GeneNames   []string `json:"gene_names,omitempty" yaml:"gene_names,omitempty"`

	// Annotation blocks kept as-is from upstream.
	Comments     []map[string]any `json:"comments,omitempty" yaml:"comments,omitempty"`
	Features     []map[string]any `json:"features,omitempty" yaml:"features,omitempty"`
	Keywords     []string         `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	DBReferences []map[string]any `json:"db_references,omitempty" yaml:"db_references,omitempty"`
	References   []map[string]any `json:"references,omitempty" yaml:"references,omitempty"`

	// Sequence block.
	SeqVersion  int    `json:"seq_version,omitempty" yaml:"seq_version,omitempty"`
	SeqLength   int    `json:"seq_length,omitempty" yaml:"seq_length,omitempty"`
	SeqMass     int64  `json:"seq_mass,omitempty" yaml:"seq_mass,omitempty"`
	SeqModified string `json:"seq_modified,omitempty" yaml:"seq_modified,omitempty"`
	Sequence    string `json:"sequence,omitempty" yaml:"sequence,omitempty"`

	// Raw is the verbatim upstream payload for the selected entry.
	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// ProteinInteraction is one retained edge of a STRING network. Endpoints
// are referenced by preferred name, by value. Per prd003-normalize R3.1.
type ProteinInteraction struct {
	StringIDA      string `json:"string_id_a" yaml:"string_id_a"`
	StringIDB      string `json:"string_id_b" yaml:"string_id_b"`
	PreferredNameA string `json:"preferred_name_a" yaml:"preferred_name_a"`
	PreferredNameB string `json:"preferred_name_b" yaml:"preferred_name_b"`
	TaxonID        string `json:"taxon_id,omitempty" yaml:"taxon_id,omitempty"`

	// Score is the combined interaction score; the remaining scores are
	// the STRING evidence-channel subscores.
	Score  float64 `json:"score" yaml:"score"`
	NScore float64 `json:"nscore,omitempty" yaml:"nscore,omitempty"`
	FScore float64 `json:"fscore,omitempty" yaml:"fscore,omitempty"`
	PScore float64 `json:"pscore,omitempty" yaml:"pscore,omitempty"`
	AScore float64 `json:"ascore,omitempty" yaml:"ascore,omitempty"`
	EScore float64 `json:"escore,omitempty" yaml:"escore,omitempty"`
	DScore float64 `json:"dscore,omitempty" yaml:"dscore,omitempty"`
	TScore float64 `json:"tscore,omitempty" yaml:"tscore,omitempty"`

	// Enrichment holds functional-enrichment rows for the edge's two
	// endpoints, when the enrichment lookup was enabled.
	Enrichment []map[string]any `json:"enrichment,omitempty" yaml:"enrichment,omitempty"`
}

// ProteinNetworkRecord is an interaction network built around one seed
// protein. The network exclusively owns its edges. Per prd003-normalize R3.
type ProteinNetworkRecord struct {
	// SeedProtein is the entity the network was built around (e.g. "TP53").
	SeedProtein string `json:"seed_protein" yaml:"seed_protein"`

	// TaxonID is the NCBI taxonomy ID the query was scoped to (e.g. "9606").
	TaxonID string `json:"taxon_id,omitempty" yaml:"taxon_id,omitempty"`

	// Interactions are the retained edges, in upstream order.
	Interactions []ProteinInteraction `json:"interactions" yaml:"interactions"`

	// Neighbors is the sorted, deduplicated set of endpoint names across
	// retained edges, excluding the seed itself.
	Neighbors []string `json:"neighbors" yaml:"neighbors"`

	// Raw is the verbatim upstream edge list.
	Raw any `json:"raw,omitempty" yaml:"raw,omitempty"`
}
