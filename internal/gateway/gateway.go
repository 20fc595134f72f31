// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway mediates every external biomedical lookup. Each Gateway
// binds one upstream capability (Ensembl, EBI Proteins, STRING) behind a
// uniform build/fetch/parse contract and routes responses through the
// file cache so repeated runs are reproducible and inexpensive.
// Implements: prd002-gateway (R1-R5);
//
//	docs/ARCHITECTURE § Data Source Gateway.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/biogen-engine/internal/cache"
	"github.com/pdiddy/biogen-engine/internal/httputil"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

// defaultTimeout bounds one upstream request when no timeout is configured.
const defaultTimeout = 30 * time.Second

// Request describes one upstream HTTP call. BuildRequest implementations
// are pure: the same inputs always produce the same Request, so the
// request agrees with the cache key derived from the same triple (R1.2).
type Request struct {
	Method string
	URL    string

	// Accept is the Accept header; empty means application/json.
	Accept string
}

// Options carries the per-source request knobs beyond the
// (entity, queryType) pair. Species participates in the cache key.
type Options struct {
	// Species is an Ensembl species alias ("human"), a scientific name,
	// or an NCBI taxon ID ("9606"), depending on the source.
	Species string

	// Accession selects a UniProtKB accession for feature queries.
	Accession string

	// FeatureTypes filters UniProt feature queries (e.g. "DOMAIN,VARIANT").
	FeatureTypes string

	// RequiredScore is the STRING network score floor (upstream scale,
	// 0-1000). Zero uses the source default.
	RequiredScore int

	// CallerIdentity is sent to STRING as caller_identity.
	CallerIdentity string
}

// Payload is one upstream response: decoded JSON in Value, or the raw
// body in Text when the upstream returned TSV/plain text. Exactly one of
// the two is set (R2.4).
type Payload struct {
	Value any
	Text  string
}

// IsText reports whether the payload is a non-JSON body.
func (p Payload) IsText() bool { return p.Value == nil }

// Source is one upstream capability. Implementations differ only in
// request construction and answer extraction; everything else (caching,
// transport, error taxonomy) lives in the Gateway (R1.1).
type Source interface {
	// Name identifies the source; it doubles as the cache namespace.
	Name() string

	// BuildRequest derives the request descriptor for one query. Pure
	// function, no I/O, deterministic for identical inputs.
	BuildRequest(entity, queryType string, opts Options) (Request, error)

	// Parse extracts the single most relevant scalar from a payload.
	// Best-effort: unrecognized shapes yield ok=false, never an error (R4.2).
	Parse(p Payload, entity, queryType string) (string, bool)
}

// UpstreamError reports a transport failure or non-2xx response from an
// upstream API. It is the only error kind Fetch returns for network
// trouble; the orchestrator catches it at the Retrieve boundary (R3.3).
type UpstreamError struct {
	Source string
	URL    string

	// Status is the HTTP status code, or 0 for transport errors.
	Status int

	Err error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d from %s", e.Source, e.Status, e.URL)
	}
	return fmt.Sprintf("%s: request to %s: %v", e.Source, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// Gateway wraps one Source with caching and transport.
type Gateway struct {
	source Source
	cache  *cache.Store
	client *http.Client

	userAgent  string
	maxRetries int
}

// New builds a Gateway over src using store for response caching.
func New(src Source, store *cache.Store, cfg types.HTTPConfig) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		source:    src,
		cache:     store,
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Name returns the bound source's name.
func (g *Gateway) Name() string { return g.source.Name() }

// Cache returns the gateway's cache store.
func (g *Gateway) Cache() *cache.Store { return g.cache }

// Fetch resolves one (entity, queryType, species) query. Unless
// forceRefresh is set the cache is consulted first; on a miss exactly one
// network request is issued and the raw result is persisted through the
// cache before returning (R2.1-R2.3). Non-2xx statuses and transport
// errors surface as *UpstreamError.
func (g *Gateway) Fetch(ctx context.Context, entity, queryType string, opts Options, forceRefresh bool) (Payload, error) {
	req, err := g.source.BuildRequest(entity, queryType, opts)
	if err != nil {
		return Payload{}, fmt.Errorf("%s: building request: %w", g.source.Name(), err)
	}

	key := cache.Key(entity, queryType, opts.Species)
	if !forceRefresh {
		if raw, ok := g.cache.Get(key); ok {
			return decodePayload(raw), nil
		}
	}

	p, err := g.doRequest(ctx, req)
	if err != nil {
		return Payload{}, err
	}

	if p.IsText() {
		g.cache.Put(key, p.Text)
	} else {
		g.cache.Put(key, p.Value)
	}
	return p, nil
}

// Parse delegates to the bound source's extraction.
func (g *Gateway) Parse(p Payload, entity, queryType string) (string, bool) {
	return g.source.Parse(p, entity, queryType)
}

func (g *Gateway) doRequest(ctx context.Context, req Request) (Payload, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("%s: creating request: %w", g.source.Name(), err)
	}
	accept := req.Accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	if g.userAgent != "" {
		httpReq.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, g.client, httpReq, g.maxRetries)
	if err != nil {
		return Payload{}, &UpstreamError{Source: g.source.Name(), URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return Payload{}, &UpstreamError{Source: g.source.Name(), URL: req.URL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, &UpstreamError{Source: g.source.Name(), URL: req.URL, Err: err}
	}

	// JSON bodies become objects; TSV and plain text keep their upstream
	// shape (R2.4).
	var v any
	if json.Unmarshal(body, &v) == nil && !isJSONScalar(v) {
		return Payload{Value: v}, nil
	}
	return Payload{Text: string(body)}, nil
}

// decodePayload rebuilds a Payload from a cached entry. Cached strings
// were text bodies; everything else was JSON.
func decodePayload(raw json.RawMessage) Payload {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Payload{Text: string(raw)}
	}
	if s, ok := v.(string); ok {
		return Payload{Text: s}
	}
	return Payload{Value: v}
}

// isJSONScalar reports whether v is a bare JSON scalar. Upstream APIs
// here never answer with a bare number or boolean; a body that decodes to
// one is a plain-text response that happened to be valid JSON.
func isJSONScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	default:
		return true
	}
}
