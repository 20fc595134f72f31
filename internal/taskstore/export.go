// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskstore

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes one run as YAML. The output round-trips through the
// same types the pipeline produced, so an exported run can be diffed
// against the artifact file it was saved from.
func (s *Store) ExportYAML(ctx context.Context, runID string, w io.Writer) error {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshaling run %s: %w", runID, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing run %s: %w", runID, err)
	}
	return nil
}
