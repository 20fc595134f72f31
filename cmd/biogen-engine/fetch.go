// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biogen-engine/internal/fetch"
	"github.com/pdiddy/biogen-engine/internal/secrets"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "biogen-engine/0.1"
	defaultCacheTTL  = 7 * 24 * time.Hour
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve and normalize records from the upstream databases",
	Long: `Fetch resolves biomedical identifiers against the upstream databases
and writes normalized records. Responses are cached per source under the
cache directory; normalized records land under the records directory and
are reused on later lookups.`,
}

var fetchGeneCmd = &cobra.Command{
	Use:   "gene [symbols...]",
	Short: "Resolve gene symbols or Ensembl IDs to gene records",
	RunE:  runFetchGene,
}

var fetchProteinCmd = &cobra.Command{
	Use:   "protein [queries...]",
	Short: "Resolve gene names or UniProtKB accessions to protein records",
	RunE:  runFetchProtein,
}

var fetchNetworkCmd = &cobra.Command{
	Use:   "network [seed]",
	Short: "Build the STRING interaction network around a seed protein",
	RunE:  runFetchNetwork,
}

var fetchEnrichmentCmd = &cobra.Command{
	Use:   "enrichment [identifiers...]",
	Short: "Run STRING functional enrichment over a set of identifiers",
	RunE:  runFetchEnrichment,
}

func init() {
	fetchCmd.PersistentFlags().String("species", "human", "species alias: human, mouse, or rat")
	fetchCmd.PersistentFlags().String("cache-dir", "cache", "base directory for cached upstream responses")
	fetchCmd.PersistentFlags().String("records-dir", "records", "base directory for normalized records")
	fetchCmd.PersistentFlags().Duration("cache-ttl", defaultCacheTTL, "cache validity window (0 = never expire)")
	fetchCmd.PersistentFlags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	fetchCmd.PersistentFlags().Bool("force", false, "bypass records and cache, refetch from the network")

	fetchNetworkCmd.Flags().Float64("min-score", 0.9, "minimum interaction score for retained edges (0-1)")
	fetchNetworkCmd.Flags().Bool("with-enrichment", true, "attach functional enrichment to retained edges")

	fetchEnrichmentCmd.Flags().StringSlice("category", nil, "filter enrichment rows by category (repeatable)")

	fetchCmd.AddCommand(fetchGeneCmd)
	fetchCmd.AddCommand(fetchProteinCmd)
	fetchCmd.AddCommand(fetchNetworkCmd)
	fetchCmd.AddCommand(fetchEnrichmentCmd)

	rootCmd.AddCommand(fetchCmd)
}

// sourcesConfig builds the gateway configuration from flags, config file,
// and secrets.
func sourcesConfig(cmd *cobra.Command) types.SourcesConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ttl, _ := cmd.Flags().GetDuration("cache-ttl")

	userAgent := defaultUserAgent
	if email := secrets.Resolve(loadedSecrets, secrets.ContactEmail, "BIOGEN_ENGINE_CONTACT_EMAIL"); email != "" {
		userAgent = fmt.Sprintf("%s (%s)", defaultUserAgent, email)
	}

	return types.SourcesConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		Cache: types.CacheConfig{
			Dir: setting(cmd, "cache-dir", "sources.cache.dir"),
			TTL: ttl,
		},
		RecordsDir:     setting(cmd, "records-dir", "sources.records_dir"),
		Species:        setting(cmd, "species", "sources.species"),
		CallerIdentity: secrets.Resolve(loadedSecrets, secrets.StringCallerIdentity, "BIOGEN_ENGINE_STRING_CALLER_IDENTITY"),
	}
}

func newFetchService(cmd *cobra.Command) (*fetch.Service, error) {
	return newFetchServiceFrom(sourcesConfig(cmd))
}

func newFetchServiceFrom(cfg types.SourcesConfig) (*fetch.Service, error) {
	return fetch.NewService(cfg, os.Stderr)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runFetchGene(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more gene symbols or Ensembl IDs")
	}
	svc, err := newFetchService(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	failed := 0
	for _, symbol := range args {
		rec, err := svc.Gene(context.Background(), symbol, force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gene %s: %v\n", symbol, err)
			failed++
			continue
		}
		if err := printJSON(rec); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d gene lookup(s) failed", failed)
	}
	return nil
}

func runFetchProtein(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more gene names or UniProtKB accessions")
	}
	svc, err := newFetchService(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	failed := 0
	for _, query := range args {
		rec, err := svc.Protein(context.Background(), query, force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "protein %s: %v\n", query, err)
			failed++
			continue
		}
		if err := printJSON(rec); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d protein lookup(s) failed", failed)
	}
	return nil
}

func runFetchNetwork(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one seed protein name")
	}
	svc, err := newFetchService(cmd)
	if err != nil {
		return err
	}

	minScore, _ := cmd.Flags().GetFloat64("min-score")
	withEnrichment, _ := cmd.Flags().GetBool("with-enrichment")
	force, _ := cmd.Flags().GetBool("force")

	rec, err := svc.Network(context.Background(), args[0], minScore, withEnrichment, force)
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func runFetchEnrichment(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more protein or gene identifiers")
	}
	svc, err := newFetchService(cmd)
	if err != nil {
		return err
	}

	categories, _ := cmd.Flags().GetStringSlice("category")
	force, _ := cmd.Flags().GetBool("force")

	rows, err := svc.Enrichment(context.Background(), args, categories, force)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No enrichment rows.")
		return nil
	}
	return printJSON(rows)
}
