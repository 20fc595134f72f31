// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists upstream API responses as one JSON file per
// entry, with a wall-clock TTL and atomic replacement on write.
// Implements: prd001-cache (R1-R4);
//
//	docs/ARCHITECTURE § Response Cache.
//
// The cache favors availability over correctness: every read or parse
// failure degrades to a miss and every write failure is logged and
// swallowed, because all cached data is re-derivable from the network.
// Staleness is wall-clock only; there is no invalidation on upstream
// schema changes.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/biogen-engine/internal/textutil"
)

// Key derives the cache key for one query's semantic identity. The same
// (entity, queryType, species) triple always yields the same key, and the
// key doubles as the entry's file name (R1.2). An empty species is omitted
// so keys stay readable for species-free sources.
func Key(entity, queryType, species string) string {
	if species == "" {
		return textutil.Slug(entity + "_" + queryType)
	}
	return textutil.Slug(entity + "_" + queryType + "_" + species)
}

// entry is the on-disk shape of one cache file.
type entry struct {
	// CachedAt is the write time in Unix seconds.
	CachedAt int64 `json:"cached_at"`

	// Data is the verbatim payload from the upstream call.
	Data json.RawMessage `json:"data"`
}

// Store is a file-backed key→JSON cache for one namespace (one upstream
// source). The process is single-threaded; the atomic-rename write pattern
// defends against process crashes mid-write, not concurrent writers.
type Store struct {
	dir string
	ttl time.Duration

	// now is the clock; tests substitute it to exercise TTL boundaries.
	now func() time.Time

	// warn receives best-effort failure notices.
	warn io.Writer
}

// New opens (creating if needed) the cache directory for one namespace.
// A ttl of zero or less means entries never expire (R2.3).
func New(dir string, ttl time.Duration, warn io.Writer) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now, warn: warn}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string { return s.dir }

// Get returns the cached payload for key, or ok=false on a miss. Absent
// files, corrupt JSON, and expired entries are all misses, never errors
// (R2.1, R2.2).
func (s *Store) Get(key string) (json.RawMessage, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Data == nil {
		return nil, false
	}

	if s.ttl > 0 {
		age := s.now().Sub(time.Unix(e.CachedAt, 0))
		if age > s.ttl {
			return nil, false
		}
	}
	return e.Data, true
}

// Put stores payload under key. The entry is written to a temporary file
// and renamed over the destination, so no reader ever observes a partial
// entry (R3.1). Failures are logged to the warning writer and swallowed;
// a failed write must not abort the caller's fetch (R3.2).
func (s *Store) Put(key string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(s.warn, "warning: cache %s: marshaling payload: %v\n", key, err)
		return
	}

	e := entry{CachedAt: s.now().Unix(), Data: raw}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		fmt.Fprintf(s.warn, "warning: cache %s: marshaling entry: %v\n", key, err)
		return
	}

	dst := s.path(key)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		fmt.Fprintf(s.warn, "warning: cache %s: writing entry: %v\n", key, err)
		return
	}
	if err := os.Rename(tmp, dst); err != nil {
		fmt.Fprintf(s.warn, "warning: cache %s: replacing entry: %v\n", key, err)
		os.Remove(tmp)
	}
}

// Clear removes every entry in the namespace. Best-effort: individual
// removal failures are logged, not raised (R4.1).
func (s *Store) Clear() {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		fmt.Fprintf(s.warn, "warning: cache clear: %v\n", err)
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			fmt.Fprintf(s.warn, "warning: cache clear %s: %v\n", m, err)
		}
	}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
