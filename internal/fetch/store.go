// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	genesDir    = "genes"
	proteinsDir = "proteins"
	networksDir = "networks"
)

// readRecord loads a normalized record from the record store. Absent or
// unreadable files report false; the caller falls through to the network.
func readRecord(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// writeRecord persists a normalized record. Best-effort like the response
// cache: records are re-derivable, so failures must not abort the fetch.
func (s *Service) writeRecord(path string, v any) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(s.out, "  warning: record dir %s: %v\n", filepath.Dir(path), err)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(s.out, "  warning: record %s: %v\n", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(s.out, "  warning: record %s: %v\n", path, err)
	}
}
