// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biogen-engine/pkg/types"
)

// LoadItems reads a dataset of task items from a YAML (or JSON) file.
// Items without an ID are rejected; an answer may be empty for open-ended
// items.
func LoadItems(path string) ([]types.TaskItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	var items []types.TaskItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("dataset %s: item %d has no id", path, i+1)
		}
		if item.Question == "" {
			return nil, fmt.Errorf("dataset %s: item %s has no question", path, item.ID)
		}
	}
	return items, nil
}
