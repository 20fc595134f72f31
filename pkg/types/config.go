// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data structures for the biogen-engine
// pipeline: upstream configuration, normalized domain records, and the
// synthesis artifacts. See docs/ARCHITECTURE § Data Model.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "biogen-engine/0.1"). Per prd002-gateway R5.1.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CacheConfig holds settings for the upstream response cache.
// Per prd001-cache R1.1-R1.3.
type CacheConfig struct {
	// Dir is the base directory for cache entries; each gateway uses a
	// subdirectory named after its source (e.g. cache/stringdb).
	Dir string `json:"dir" yaml:"dir"`

	// TTL is the cache validity window. Zero or negative means entries
	// never expire; staleness is wall-clock only, with no invalidation
	// on upstream schema changes (known limitation).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// SourcesConfig holds settings for the upstream data source gateways.
// Per prd002-gateway R5.1-R5.4.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline"`

	// Cache configures the shared response cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// RecordsDir is the base directory for normalized domain records
	// (contains genes/, proteins/, networks/).
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// Species is the default species passed to lookups: an Ensembl
	// species alias ("human") or an NCBI taxon ID ("9606") depending on
	// the source.
	Species string `json:"species" yaml:"species"`

	// MinScore is the default interaction score threshold for network
	// edge filtering (0-1).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// CallerIdentity is sent to the STRING API as caller_identity.
	CallerIdentity string `json:"caller_identity,omitempty" yaml:"caller_identity,omitempty"`
}

// AIConfig holds shared settings for stages that call a chat completion API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the OpenAI-compatible API base URL.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SynthesisConfig holds settings for the synthesis pipeline.
// Per prd005-synthesis R5.1-R5.4.
type SynthesisConfig struct {
	AIConfig `yaml:",inline"`

	// MaxRetrievalRounds bounds the Plan/Retrieve/Synthesize loop (default 3).
	MaxRetrievalRounds int `json:"max_retrieval_rounds" yaml:"max_retrieval_rounds"`

	// OutputDir is the directory for synthesized task artifacts
	// (e.g. "output/tasks/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// RunStoreConfig holds settings for the SQLite run store.
// Per prd007-run-store R1.1.
type RunStoreConfig struct {
	// Path is the SQLite database file (e.g. "output/index/runs.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Sources   SourcesConfig   `json:"sources" yaml:"sources"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	RunStore  RunStoreConfig  `json:"run_store" yaml:"run_store"`
}
