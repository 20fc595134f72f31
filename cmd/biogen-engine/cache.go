// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biogen-engine/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the upstream response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached upstream responses",
	Long: `Clear empties the per-source response caches. Normalized records are
not touched; use force-refresh on fetch to rebuild those.`,
	RunE: runCacheClear,
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "cache", "base directory for cached upstream responses")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")

	for _, src := range []string{"ensembl", "uniprot", "stringdb"} {
		store, err := cache.New(filepath.Join(dir, src), 0, os.Stderr)
		if err != nil {
			return fmt.Errorf("opening %s cache: %w", src, err)
		}
		store.Clear()
		fmt.Fprintf(os.Stdout, "cleared %s\n", store.Dir())
	}
	return nil
}
