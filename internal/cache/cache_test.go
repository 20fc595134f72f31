// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := New(t.TempDir(), ttl, nil)
	require.NoError(t, err)
	return s
}

// --- Key ---

func TestKeyDeterministic(t *testing.T) {
	assert.Equal(t, Key("TP53", "network", "9606"), Key("TP53", "network", "9606"))
	assert.Equal(t, "TP53_network_9606", Key("TP53", "network", "9606"))
}

func TestKeyDistinguishesTriples(t *testing.T) {
	// Triples differing in any one component must not collide.
	keys := map[string]bool{}
	triples := [][3]string{
		{"TP53", "network", "9606"},
		{"TP54", "network", "9606"},
		{"TP53", "protein", "9606"},
		{"TP53", "network", "10090"},
		{"TP53", "network", ""},
	}
	for _, tr := range triples {
		k := Key(tr[0], tr[1], tr[2])
		assert.False(t, keys[k], "collision for %v", tr)
		keys[k] = true
	}
}

func TestKeySanitizesUnsafeCharacters(t *testing.T) {
	k := Key("Homo sapiens/p53", "protein", "")
	assert.Equal(t, "Homo_sapiens_p53_protein", k)
}

// --- Get/Put ---

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)

	payload := map[string]any{"id": "ENSG00000141510", "display_name": "TP53"}
	s.Put("TP53_gene_human", payload)

	raw, ok := s.Get("TP53_gene_human")
	require.True(t, ok)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "ENSG00000141510", got["id"])
	assert.Equal(t, "TP53", got["display_name"])
}

func TestGetMissOnAbsent(t *testing.T) {
	s := newTestStore(t, 0)
	_, ok := s.Get("never_written")
	assert.False(t, ok)
}

func TestGetMissOnCorruptEntry(t *testing.T) {
	s := newTestStore(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0o644))

	_, ok := s.Get("bad")
	assert.False(t, ok, "corrupt entry must read as a miss, not an error")
}

func TestGetMissOnMissingDataField(t *testing.T) {
	s := newTestStore(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "empty.json"), []byte(`{"cached_at": 123}`), 0o644))

	_, ok := s.Get("empty")
	assert.False(t, ok)
}

func TestPutLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t, 0)
	s.Put("k", "v")

	matches, err := filepath.Glob(filepath.Join(s.Dir(), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// --- TTL ---

func TestTTLBoundaries(t *testing.T) {
	const ttl = 100 * time.Second
	s := newTestStore(t, ttl)

	t0 := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return t0 }
	s.Put("k", "v")

	s.now = func() time.Time { return t0.Add(ttl - time.Second) }
	_, ok := s.Get("k")
	assert.True(t, ok, "entry inside the TTL window is a hit")

	s.now = func() time.Time { return t0.Add(ttl + time.Second) }
	_, ok = s.Get("k")
	assert.False(t, ok, "entry past the TTL window is a miss")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := newTestStore(t, 0)

	t0 := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return t0 }
	s.Put("k", "v")

	s.now = func() time.Time { return t0.Add(10 * 365 * 24 * time.Hour) }
	_, ok := s.Get("k")
	assert.True(t, ok)
}

// --- Clear ---

func TestClearRemovesAllEntries(t *testing.T) {
	s := newTestStore(t, 0)
	s.Put("a", 1)
	s.Put("b", 2)

	s.Clear()

	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("b")
	assert.False(t, ok)
}

// Overwrites replace the payload in place; the old entry is never visible
// afterward.
func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t, 0)
	s.Put("k", "old")
	s.Put("k", "new")

	raw, ok := s.Get("k")
	require.True(t, ok)

	var got string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "new", got)
}
