// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files. Each file in the directory represents one secret:
// the filename is the key name and the file contents (trimmed) are the
// value.
//
// Supported key files: openai-api-key, string-caller-identity,
// contact-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key names recognized by the CLI.
const (
	OpenAIAPIKey         = "openai-api-key"
	StringCallerIdentity = "string-caller-identity"
	ContactEmail         = "contact-email"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr
// but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve returns the value for key from the loaded secrets, falling
// back to the environment variable envVar when the file is absent.
// Returns "" when neither is set.
func Resolve(secrets map[string]string, key, envVar string) string {
	if v, ok := secrets[key]; ok {
		return v
	}
	return strings.TrimSpace(os.Getenv(envVar))
}
